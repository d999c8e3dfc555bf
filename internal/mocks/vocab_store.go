package mocks

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/hanbit-app/srs-api/internal/domain"
	"github.com/hanbit-app/srs-api/internal/store"
)

// VocabStore is an in-memory implementation of store.VocabStore.
type VocabStore struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*domain.VocabItem

	GetErr error
}

var _ store.VocabStore = (*VocabStore)(nil)

// NewVocabStore creates an empty in-memory vocab store.
func NewVocabStore() *VocabStore {
	return &VocabStore{items: make(map[uuid.UUID]*domain.VocabItem)}
}

// Seed inserts vocab items without validation, for test setup.
func (s *VocabStore) Seed(items ...*domain.VocabItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range items {
		copied := *it
		s.items[it.ID] = &copied
	}
}

// WithTx implements store.VocabStore.
func (s *VocabStore) WithTx(tx *sql.Tx) store.VocabStore { return s }

// Create implements store.VocabStore.
func (s *VocabStore) Create(ctx context.Context, item *domain.VocabItem) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *item
	s.items[item.ID] = &copied
	return nil
}

// GetByID implements store.VocabStore.
func (s *VocabStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.VocabItem, error) {
	if s.GetErr != nil {
		return nil, s.GetErr
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.items[id]
	if !ok {
		return nil, store.ErrVocabNotFound
	}
	copied := *it
	return &copied, nil
}

// GetByIDs implements store.VocabStore.
func (s *VocabStore) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.VocabItem, error) {
	if s.GetErr != nil {
		return nil, s.GetErr
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]*domain.VocabItem, 0, len(ids))
	for _, id := range ids {
		it, ok := s.items[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", store.ErrVocabNotFound, id)
		}
		copied := *it
		items = append(items, &copied)
	}
	return items, nil
}

// List implements store.VocabStore.
func (s *VocabStore) List(ctx context.Context, limit, offset int) ([]*domain.VocabItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*domain.VocabItem, 0, len(s.items))
	for _, it := range s.items {
		copied := *it
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Lemma < all[j].Lemma })

	if offset >= len(all) {
		return []*domain.VocabItem{}, nil
	}
	all = all[offset:]
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}
