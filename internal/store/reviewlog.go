package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/hanbit-app/srs-api/internal/domain"
)

// ReviewStats aggregates a user's review history for the stats endpoint.
type ReviewStats struct {
	TotalReviews     int64
	CorrectReviews   int64
	TotalStudyTimeMs int64
	AvgResponseMs    float64
}

// Accuracy returns the fraction of correct reviews, or 0 when no reviews
// have been recorded.
func (s ReviewStats) Accuracy() float64 {
	if s.TotalReviews == 0 {
		return 0
	}
	return float64(s.CorrectReviews) / float64(s.TotalReviews)
}

// ReviewLogStore defines the interface for the append-only review history.
type ReviewLogStore interface {
	// Create appends a review log entry. Entries are immutable once written.
	Create(ctx context.Context, entry *domain.ReviewLog) error

	// StatsByUser aggregates the user's entire review history.
	StatsByUser(ctx context.Context, userID uuid.UUID) (ReviewStats, error)

	// CountByUserSince counts the user's reviews recorded at or after the
	// given instant. Used for daily activity reporting.
	CountByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error)

	// ListByCard retrieves the review history for one card, newest first,
	// limited to limit rows.
	ListByCard(ctx context.Context, cardID uuid.UUID, limit int) ([]*domain.ReviewLog, error)

	// WithTx returns a new ReviewLogStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ReviewLogStore
}
