package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// TxFn is a function that performs operations within a database transaction.
type TxFn func(ctx context.Context, tx *sql.Tx) error

// RunInTransaction executes the given function within a database transaction.
// It handles starting the transaction, committing on success, and rolling
// back on error or panic. The rollback error (if any) is logged but not
// returned since the original error takes precedence.
func RunInTransaction(ctx context.Context, db *sql.DB, logger *slog.Logger, fn TxFn) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
				logger.ErrorContext(ctx, "failed to rollback transaction after panic",
					slog.Any("panic", p),
					slog.String("rollback_error", rbErr.Error()))
			}
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			logger.ErrorContext(ctx, "failed to rollback transaction",
				slog.String("original_error", err.Error()),
				slog.String("rollback_error", rbErr.Error()))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Transactor runs a function inside a database transaction. Services depend
// on this interface rather than *sql.DB directly so tests can substitute an
// implementation that invokes the function without a real database.
type Transactor interface {
	// WithinTransaction executes fn atomically. If fn returns an error the
	// transaction is rolled back and the error is returned unchanged.
	WithinTransaction(ctx context.Context, fn TxFn) error
}

// SQLTransactor implements Transactor on top of a *sql.DB.
type SQLTransactor struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLTransactor creates a Transactor backed by the given database handle.
func NewSQLTransactor(db *sql.DB, logger *slog.Logger) *SQLTransactor {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLTransactor{db: db, logger: logger.With(slog.String("component", "transactor"))}
}

// WithinTransaction implements Transactor.
func (t *SQLTransactor) WithinTransaction(ctx context.Context, fn TxFn) error {
	return RunInTransaction(ctx, t.db, t.logger, fn)
}
