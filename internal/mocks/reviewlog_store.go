package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hanbit-app/srs-api/internal/domain"
	"github.com/hanbit-app/srs-api/internal/store"
)

// ReviewLogStore is an in-memory implementation of store.ReviewLogStore.
type ReviewLogStore struct {
	mu      sync.RWMutex
	entries []*domain.ReviewLog

	CreateErr error
}

var _ store.ReviewLogStore = (*ReviewLogStore)(nil)

// NewReviewLogStore creates an empty in-memory review log store.
func NewReviewLogStore() *ReviewLogStore {
	return &ReviewLogStore{}
}

// Entries returns a snapshot of everything logged so far.
func (s *ReviewLogStore) Entries() []*domain.ReviewLog {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.ReviewLog, len(s.entries))
	copy(out, s.entries)
	return out
}

// WithTx implements store.ReviewLogStore.
func (s *ReviewLogStore) WithTx(tx *sql.Tx) store.ReviewLogStore { return s }

// Create implements store.ReviewLogStore.
func (s *ReviewLogStore) Create(ctx context.Context, entry *domain.ReviewLog) error {
	if s.CreateErr != nil {
		return s.CreateErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *entry
	s.entries = append(s.entries, &copied)
	return nil
}

// StatsByUser implements store.ReviewLogStore.
func (s *ReviewLogStore) StatsByUser(
	ctx context.Context,
	userID uuid.UUID,
) (store.ReviewStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats store.ReviewStats
	var responseSum int64
	for _, e := range s.entries {
		if e.UserID != userID {
			continue
		}
		stats.TotalReviews++
		if e.Correct {
			stats.CorrectReviews++
		}
		stats.TotalStudyTimeMs += e.StudyTimeMs
		responseSum += e.ResponseTimeMs
	}
	if stats.TotalReviews > 0 {
		stats.AvgResponseMs = float64(responseSum) / float64(stats.TotalReviews)
	}
	return stats, nil
}

// CountByUserSince implements store.ReviewLogStore.
func (s *ReviewLogStore) CountByUserSince(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, e := range s.entries {
		if e.UserID == userID && !e.ReviewedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

// ListByCard implements store.ReviewLogStore.
func (s *ReviewLogStore) ListByCard(
	ctx context.Context,
	cardID uuid.UUID,
	limit int,
) ([]*domain.ReviewLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.ReviewLog
	for _, e := range s.entries {
		if e.CardID == cardID {
			copied := *e
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReviewedAt.After(out[j].ReviewedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
