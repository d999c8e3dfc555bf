package mocks

import (
	"context"

	"github.com/hanbit-app/srs-api/internal/store"
)

// Transactor is a store.Transactor that invokes the function directly
// with a nil *sql.Tx. The in-memory stores ignore the transaction handle
// (their WithTx returns the receiver), so transactional service code runs
// unchanged in tests.
type Transactor struct {
	// BeginErr, when set, is returned instead of running the function.
	BeginErr error

	// Calls counts how many transactions were started.
	Calls int
}

var _ store.Transactor = (*Transactor)(nil)

// WithinTransaction implements store.Transactor.
func (t *Transactor) WithinTransaction(ctx context.Context, fn store.TxFn) error {
	if t.BeginErr != nil {
		return t.BeginErr
	}
	t.Calls++
	return fn(ctx, nil)
}
