package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/hanbit-app/srs-api/internal/domain"
)

// StreakStore defines the interface for streak state persistence.
// Each user has at most one streak row.
type StreakStore interface {
	// Get retrieves the streak state for the given user.
	// Returns ErrStreakNotFound if no state has been recorded yet.
	Get(ctx context.Context, userID uuid.UUID) (*domain.StreakState, error)

	// Upsert inserts or replaces the streak state for its user.
	Upsert(ctx context.Context, state *domain.StreakState) error

	// WithTx returns a new StreakStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) StreakStore
}
