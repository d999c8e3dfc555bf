package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/hanbit-app/srs-api/internal/domain"
)

// VocabStore defines the interface for vocabulary item persistence.
type VocabStore interface {
	// Create saves a new vocabulary item to the store.
	Create(ctx context.Context, item *domain.VocabItem) error

	// GetByID retrieves a vocabulary item by its unique ID.
	// Returns ErrVocabNotFound if the item does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.VocabItem, error)

	// GetByIDs retrieves the vocabulary items for the given IDs. Returns
	// ErrVocabNotFound if any requested ID is missing, so callers can
	// reject an add-items request that references unknown material.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.VocabItem, error)

	// List retrieves vocabulary items ordered by lemma, limited and offset
	// for paging.
	List(ctx context.Context, limit, offset int) ([]*domain.VocabItem, error)

	// WithTx returns a new VocabStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) VocabStore
}
