package mocks

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hanbit-app/srs-api/internal/domain"
	"github.com/hanbit-app/srs-api/internal/store"
)

// CardStore is an in-memory implementation of store.CardStore.
// Error fields, when set, are returned by the corresponding method
// before any state is touched.
type CardStore struct {
	mu    sync.RWMutex
	cards map[uuid.UUID]*domain.Card

	// Folders, when set, lets GetDueSet resolve manual-folder due status
	// the way the SQL implementation's join does.
	Folders *FolderStore

	CreateErr error
	GetErr    error
	UpdateErr error
}

var _ store.CardStore = (*CardStore)(nil)

// NewCardStore creates an empty in-memory card store.
func NewCardStore() *CardStore {
	return &CardStore{cards: make(map[uuid.UUID]*domain.Card)}
}

// Seed inserts cards without validation, for test setup.
func (s *CardStore) Seed(cards ...*domain.Card) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range cards {
		s.cards[c.ID] = c.Clone()
	}
}

// WithTx implements store.CardStore. The in-memory store has no
// transaction isolation; it returns the receiver.
func (s *CardStore) WithTx(tx *sql.Tx) store.CardStore { return s }

// CreateMultiple implements store.CardStore.
func (s *CardStore) CreateMultiple(ctx context.Context, cards []*domain.Card) error {
	if s.CreateErr != nil {
		return s.CreateErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range cards {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}
		for _, existing := range s.cards {
			if existing.FolderID == c.FolderID && existing.VocabID == c.VocabID {
				return fmt.Errorf("%w: card for vocab %s in folder %s", store.ErrDuplicate, c.VocabID, c.FolderID)
			}
		}
	}
	for _, c := range cards {
		s.cards[c.ID] = c.Clone()
	}
	return nil
}

// GetByID implements store.CardStore.
func (s *CardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	if s.GetErr != nil {
		return nil, s.GetErr
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.cards[id]
	if !ok {
		return nil, store.ErrCardNotFound
	}
	return c.Clone(), nil
}

// UpdateReviewed implements store.CardStore, including the optimistic
// version check.
func (s *CardStore) UpdateReviewed(ctx context.Context, card *domain.Card) error {
	if s.UpdateErr != nil {
		return s.UpdateErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.cards[card.ID]
	if !ok {
		return store.ErrCardNotFound
	}
	if existing.Version != card.Version {
		return fmt.Errorf("%w: card %s at version %d", store.ErrConflict, card.ID, card.Version)
	}

	updated := card.Clone()
	updated.Version++
	s.cards[card.ID] = updated
	return nil
}

// GetDueSet implements store.CardStore.
// When Folders is set, cards in uncompleted manual folders are due
// regardless of their schedule, mirroring the SQL join.
func (s *CardStore) GetDueSet(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
	limit int,
) ([]*domain.Card, error) {
	if s.GetErr != nil {
		return nil, s.GetErr
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var due []*domain.Card
	for _, c := range s.cards {
		if c.UserID != userID || c.IsMastered {
			continue
		}
		scheduledDue := c.NextDueAt != nil && !c.NextDueAt.After(now)
		if scheduledDue || s.inOpenManualFolder(ctx, c.FolderID) {
			due = append(due, c.Clone())
		}
	}

	sort.Slice(due, func(i, j int) bool {
		a, b := due[i].NextDueAt, due[j].NextDueAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (s *CardStore) inOpenManualFolder(ctx context.Context, folderID uuid.UUID) bool {
	if s.Folders == nil {
		return false
	}
	folder, err := s.Folders.GetByID(ctx, folderID)
	if err != nil {
		return false
	}
	return folder.Kind == domain.FolderKindManual && !folder.IsCompleted
}

// ListByFolder implements store.CardStore.
func (s *CardStore) ListByFolder(ctx context.Context, folderID uuid.UUID) ([]*domain.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var cards []*domain.Card
	for _, c := range s.cards {
		if c.FolderID == folderID {
			cards = append(cards, c.Clone())
		}
	}
	sort.Slice(cards, func(i, j int) bool {
		return cards[i].CreatedAt.Before(cards[j].CreatedAt)
	})
	return cards, nil
}

// CountByFolder implements store.CardStore.
func (s *CardStore) CountByFolder(ctx context.Context, folderID uuid.UUID) (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total, mastered int
	for _, c := range s.cards {
		if c.FolderID != folderID {
			continue
		}
		total++
		if c.IsMastered {
			mastered++
		}
	}
	return total, mastered, nil
}

// CountDueByFolder implements store.CardStore.
func (s *CardStore) CountDueByFolder(ctx context.Context, folderID uuid.UUID, now time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var due int
	for _, c := range s.cards {
		if c.FolderID != folderID || c.IsMastered || c.NextDueAt == nil {
			continue
		}
		if !c.NextDueAt.After(now) {
			due++
		}
	}
	return due, nil
}

// ResetForFolder implements store.CardStore.
func (s *CardStore) ResetForFolder(
	ctx context.Context,
	folderID uuid.UUID,
	now time.Time,
) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for id, c := range s.cards {
		if c.FolderID != folderID {
			continue
		}
		reset := c.Clone()
		reset.Stage = 0
		reset.EaseFactor = domain.DefaultEaseFactor
		reset.IntervalSeconds = 0
		reset.IsMastered = false
		if reset.CurveType == domain.CurveFree {
			reset.NextDueAt = nil
		} else {
			due := now
			reset.NextDueAt = &due
		}
		reset.Version++
		reset.UpdatedAt = now
		s.cards[id] = reset
		count++
	}
	return count, nil
}
