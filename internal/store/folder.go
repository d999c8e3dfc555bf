package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/hanbit-app/srs-api/internal/domain"
)

// FolderStore defines the interface for folder data persistence.
type FolderStore interface {
	// Create saves a new folder to the store.
	// Returns ErrDuplicate (wrapped) if a folder with the same name already
	// exists under the same parent for the user, or a validation error if
	// the folder data is invalid.
	Create(ctx context.Context, folder *domain.Folder) error

	// GetByID retrieves a folder by its unique ID.
	// Returns ErrFolderNotFound if the folder does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Folder, error)

	// ListByUser retrieves all folders owned by the given user, ordered by
	// creation time.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Folder, error)

	// CountChildren returns how many folders name the given folder as
	// their parent.
	CountChildren(ctx context.Context, parentID uuid.UUID) (int, error)

	// Update modifies an existing folder's details (progression state,
	// completion flags, alarm flag). Returns ErrFolderNotFound if the
	// folder does not exist.
	Update(ctx context.Context, folder *domain.Folder) error

	// Delete removes a folder by its ID. Cards in the folder are removed by
	// the database cascade. Returns ErrFolderNotFound if the folder does
	// not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new FolderStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) FolderStore
}
