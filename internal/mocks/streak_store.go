package mocks

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/hanbit-app/srs-api/internal/domain"
	"github.com/hanbit-app/srs-api/internal/store"
)

// StreakStore is an in-memory implementation of store.StreakStore.
type StreakStore struct {
	mu     sync.RWMutex
	states map[uuid.UUID]*domain.StreakState

	GetErr    error
	UpsertErr error
}

var _ store.StreakStore = (*StreakStore)(nil)

// NewStreakStore creates an empty in-memory streak store.
func NewStreakStore() *StreakStore {
	return &StreakStore{states: make(map[uuid.UUID]*domain.StreakState)}
}

// Seed inserts streak states without validation, for test setup.
func (s *StreakStore) Seed(states ...*domain.StreakState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range states {
		copied := *st
		s.states[st.UserID] = &copied
	}
}

// WithTx implements store.StreakStore.
func (s *StreakStore) WithTx(tx *sql.Tx) store.StreakStore { return s }

// Get implements store.StreakStore.
func (s *StreakStore) Get(ctx context.Context, userID uuid.UUID) (*domain.StreakState, error) {
	if s.GetErr != nil {
		return nil, s.GetErr
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.states[userID]
	if !ok {
		return nil, store.ErrStreakNotFound
	}
	copied := *st
	return &copied, nil
}

// Upsert implements store.StreakStore.
func (s *StreakStore) Upsert(ctx context.Context, state *domain.StreakState) error {
	if s.UpsertErr != nil {
		return s.UpsertErr
	}
	if err := state.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *state
	s.states[state.UserID] = &copied
	return nil
}
