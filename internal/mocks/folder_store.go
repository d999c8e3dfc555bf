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

// FolderStore is an in-memory implementation of store.FolderStore.
type FolderStore struct {
	mu      sync.RWMutex
	folders map[uuid.UUID]*domain.Folder

	CreateErr error
	GetErr    error
	UpdateErr error
}

var _ store.FolderStore = (*FolderStore)(nil)

// NewFolderStore creates an empty in-memory folder store.
func NewFolderStore() *FolderStore {
	return &FolderStore{folders: make(map[uuid.UUID]*domain.Folder)}
}

// Seed inserts folders without validation, for test setup.
func (s *FolderStore) Seed(folders ...*domain.Folder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range folders {
		copied := *f
		s.folders[f.ID] = &copied
	}
}

// WithTx implements store.FolderStore.
func (s *FolderStore) WithTx(tx *sql.Tx) store.FolderStore { return s }

// Create implements store.FolderStore.
func (s *FolderStore) Create(ctx context.Context, folder *domain.Folder) error {
	if s.CreateErr != nil {
		return s.CreateErr
	}
	if err := folder.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.folders {
		if existing.UserID == folder.UserID && existing.Name == folder.Name &&
			equalParent(existing.ParentID, folder.ParentID) {
			return fmt.Errorf("%w: folder %q", store.ErrDuplicate, folder.Name)
		}
	}

	copied := *folder
	s.folders[folder.ID] = &copied
	return nil
}

// GetByID implements store.FolderStore.
func (s *FolderStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Folder, error) {
	if s.GetErr != nil {
		return nil, s.GetErr
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.folders[id]
	if !ok {
		return nil, store.ErrFolderNotFound
	}
	copied := *f
	return &copied, nil
}

// ListByUser implements store.FolderStore.
func (s *FolderStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var folders []*domain.Folder
	for _, f := range s.folders {
		if f.UserID == userID {
			copied := *f
			folders = append(folders, &copied)
		}
	}
	sort.Slice(folders, func(i, j int) bool {
		return folders[i].CreatedAt.Before(folders[j].CreatedAt)
	})
	return folders, nil
}

// CountChildren implements store.FolderStore.
func (s *FolderStore) CountChildren(ctx context.Context, parentID uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	for _, f := range s.folders {
		if f.ParentID != nil && *f.ParentID == parentID {
			count++
		}
	}
	return count, nil
}

// Update implements store.FolderStore.
func (s *FolderStore) Update(ctx context.Context, folder *domain.Folder) error {
	if s.UpdateErr != nil {
		return s.UpdateErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.folders[folder.ID]; !ok {
		return store.ErrFolderNotFound
	}
	copied := *folder
	s.folders[folder.ID] = &copied
	return nil
}

// Delete implements store.FolderStore.
func (s *FolderStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.folders[id]; !ok {
		return store.ErrFolderNotFound
	}
	delete(s.folders, id)
	return nil
}

func equalParent(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
