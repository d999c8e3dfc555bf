package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/hanbit-app/srs-api/internal/domain"
)

// CardStore defines the interface for card data persistence.
type CardStore interface {
	// CreateMultiple saves new cards in a single operation. It is used when
	// items are added to a folder, where one card per vocab item is minted.
	// Returns ErrDuplicate (wrapped) if a card for the same (folder, vocab)
	// pair already exists, or a validation error if any card data is invalid.
	CreateMultiple(ctx context.Context, cards []*domain.Card) error

	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// UpdateReviewed persists the outcome of a review transition. The update
	// is guarded by the card's version: the row is only written when its
	// stored version equals card.Version, and the version is incremented.
	// Returns ErrConflict if a concurrent review won the race, in which case
	// the caller must re-read the card and re-apply the review.
	// Returns ErrCardNotFound if the card does not exist.
	UpdateReviewed(ctx context.Context, card *domain.Card) error

	// GetDueSet retrieves cards belonging to userID whose next due time is
	// at or before now, ordered most overdue first, limited to limit rows.
	// Free-curve cards carry no due time and are never returned here.
	GetDueSet(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]*domain.Card, error)

	// ListByFolder retrieves all cards in the given folder.
	ListByFolder(ctx context.Context, folderID uuid.UUID) ([]*domain.Card, error)

	// CountByFolder reports the total and mastered card counts for a folder
	// without loading the rows.
	CountByFolder(ctx context.Context, folderID uuid.UUID) (total int, mastered int, err error)

	// CountDueByFolder reports how many non-mastered cards in the folder
	// are scheduled and due at the given time.
	CountDueByFolder(ctx context.Context, folderID uuid.UUID, now time.Time) (int, error)

	// ResetForFolder returns every card in the folder to its initial learning
	// state: stage 0, default ease, cleared mastery, due immediately (or
	// never, for free-curve cards). Review counters are preserved. Returns
	// the number of cards reset.
	ResetForFolder(ctx context.Context, folderID uuid.UUID, now time.Time) (int64, error)

	// WithTx returns a new CardStore instance that uses the provided transaction.
	// This allows for multiple store operations to be executed within a single transaction.
	WithTx(tx *sql.Tx) CardStore
}
