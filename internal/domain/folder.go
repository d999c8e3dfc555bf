package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// FolderKind distinguishes how a folder's due status is computed.
type FolderKind string

const (
	// FolderKindScheduled folders derive their due status from the
	// nextDueAt timestamps of their cards.
	FolderKindScheduled FolderKind = "scheduled"

	// FolderKindManual folders never auto-compute due dates; they are
	// due whenever they are not completed.
	FolderKindManual FolderKind = "manual"
)

// IsValid reports whether the folder kind is a supported value.
func (k FolderKind) IsValid() bool {
	return k == FolderKindScheduled || k == FolderKindManual
}

// Folder-specific validation errors
var (
	// ErrFolderIDEmpty is returned when a folder ID is empty or nil.
	ErrFolderIDEmpty = errors.New("folder ID cannot be empty")

	// ErrFolderUserIDEmpty is returned when a folder's user ID is empty or nil.
	ErrFolderUserIDEmpty = errors.New("folder user ID cannot be empty")

	// ErrFolderNameEmpty is returned when a folder name is missing.
	ErrFolderNameEmpty = fmt.Errorf("%w: folder name cannot be empty", ErrValidation)

	// ErrFolderInvalidCurve is returned when a folder carries an unknown curve type.
	ErrFolderInvalidCurve = errors.New("folder learning curve type is invalid")

	// ErrFolderInvalidKind is returned when a folder carries an unknown kind.
	ErrFolderInvalidKind = errors.New("folder kind is invalid")
)

// Folder is a named container of cards sharing one learning curve.
// Folders form a strict three-level hierarchy: a root date folder, an
// optional parent, and leaf folders holding cards. A folder never both
// has child folders and contains cards; the folder service enforces
// this when folders are created and when items are added.
//
// CurveType is immutable after creation: every card in the folder is
// created with it, and the review policy for the folder is selected from
// it exactly once.
type Folder struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"user_id"`
	Name            string     `json:"name"`
	ParentID        *uuid.UUID `json:"parent_id,omitempty"`
	CurveType       CurveType  `json:"learning_curve_type"`
	Kind            FolderKind `json:"kind"`
	Stage           int        `json:"stage"`
	AlarmActive     bool       `json:"alarm_active"`
	IsCompleted     bool       `json:"is_completed"`
	IsMastered      bool       `json:"is_mastered"`
	CompletionCount int        `json:"completion_count"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// NewFolder creates a folder for a user with alarms enabled and all
// progress fields zeroed. Returns an error if validation fails.
func NewFolder(
	userID uuid.UUID,
	name string,
	curve CurveType,
	kind FolderKind,
	parentID *uuid.UUID,
) (*Folder, error) {
	now := time.Now().UTC()

	folder := &Folder{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        name,
		ParentID:    parentID,
		CurveType:   curve,
		Kind:        kind,
		AlarmActive: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := folder.Validate(); err != nil {
		return nil, err
	}

	return folder, nil
}

// Validate checks if the Folder has valid data.
func (f *Folder) Validate() error {
	if f.ID == uuid.Nil {
		return ErrFolderIDEmpty
	}

	if f.UserID == uuid.Nil {
		return ErrFolderUserIDEmpty
	}

	if f.Name == "" {
		return ErrFolderNameEmpty
	}

	if !f.CurveType.IsValid() {
		return ErrFolderInvalidCurve
	}

	if !f.Kind.IsValid() {
		return ErrFolderInvalidKind
	}

	return nil
}
