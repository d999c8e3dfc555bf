package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// CurveType identifies the learning curve family that governs how a
// card's stage and interval advance after each review.
type CurveType string

// Supported learning curve types.
const (
	// CurveLong is the graduated multi-week forgetting curve: seven
	// stages with intervals growing from one hour to sixty days.
	CurveLong CurveType = "long"

	// CurveShort is the fixed-step spurt curve: ten stages with short
	// constant intervals, favoring frequent repetition over punishment.
	CurveShort CurveType = "short"

	// CurveFree is the unscheduled curve: reviews are logged but the
	// scheduler never computes a due date or mastery automatically.
	CurveFree CurveType = "free"
)

// IsValid reports whether the curve type is one of the supported values.
func (c CurveType) IsValid() bool {
	switch c {
	case CurveLong, CurveShort, CurveFree:
		return true
	default:
		return false
	}
}

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardUserIDEmpty is returned when a card's user ID is empty or nil.
	ErrCardUserIDEmpty = errors.New("card user ID cannot be empty")

	// ErrCardVocabIDEmpty is returned when a card's vocab ID is empty or nil.
	ErrCardVocabIDEmpty = errors.New("card vocab ID cannot be empty")

	// ErrCardFolderIDEmpty is returned when a card's folder ID is empty or nil.
	ErrCardFolderIDEmpty = errors.New("card folder ID cannot be empty")

	// ErrCardInvalidCurve is returned when a card carries an unknown curve type.
	ErrCardInvalidCurve = errors.New("card learning curve type is invalid")

	// ErrCardInvalidStage is returned when a card's stage is negative.
	ErrCardInvalidStage = errors.New("card stage must be greater than or equal to 0")

	// ErrCardInvalidEaseFactor is returned when a card's ease factor is not above 1.0.
	ErrCardInvalidEaseFactor = errors.New("card ease factor must be greater than 1.0")
)

// DefaultEaseFactor is the ease factor assigned to freshly created cards.
const DefaultEaseFactor = 2.5

// Card is the mutable scheduling unit for one (user, vocab item, folder)
// triple. Only the review policy engine mutates scheduling fields, and it
// does so by producing a new Card rather than modifying one in place.
//
// Version supports optimistic concurrency at the store layer: updates
// carry the version they read, and a mismatch surfaces as a conflict
// instead of a lost update.
type Card struct {
	ID               uuid.UUID  `json:"id"`
	UserID           uuid.UUID  `json:"user_id"`
	VocabID          uuid.UUID  `json:"vocab_id"`
	FolderID         uuid.UUID  `json:"folder_id"`
	CurveType        CurveType  `json:"learning_curve_type"`
	Stage            int        `json:"stage"`
	EaseFactor       float64    `json:"ease_factor"`
	IntervalSeconds  int64      `json:"interval_seconds"`
	NextDueAt        *time.Time `json:"next_due_at,omitempty"` // nil for free-curve and mastered cards
	CorrectCount     int        `json:"correct_count"`
	IncorrectCount   int        `json:"incorrect_count"`
	TotalStudyTimeMs int64      `json:"total_study_time_ms"`
	IsMastered       bool       `json:"is_mastered"`
	Version          int        `json:"version"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// NewCard creates a new card for a vocab item inside a folder. Cards on
// scheduled curves are due immediately; free-curve cards carry no due date.
// Returns an error if validation fails.
func NewCard(userID, vocabID, folderID uuid.UUID, curve CurveType) (*Card, error) {
	now := time.Now().UTC()

	card := &Card{
		ID:         uuid.New(),
		UserID:     userID,
		VocabID:    vocabID,
		FolderID:   folderID,
		CurveType:  curve,
		Stage:      0,
		EaseFactor: DefaultEaseFactor,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if curve != CurveFree {
		due := now
		card.NextDueAt = &due
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if c.UserID == uuid.Nil {
		return ErrCardUserIDEmpty
	}

	if c.VocabID == uuid.Nil {
		return ErrCardVocabIDEmpty
	}

	if c.FolderID == uuid.Nil {
		return ErrCardFolderIDEmpty
	}

	if !c.CurveType.IsValid() {
		return ErrCardInvalidCurve
	}

	if c.Stage < 0 {
		return ErrCardInvalidStage
	}

	if c.EaseFactor <= 1.0 {
		return ErrCardInvalidEaseFactor
	}

	return nil
}

// Clone returns a field-for-field copy of the card. The policy engine
// works on clones so a rejected review leaves the original untouched.
func (c *Card) Clone() *Card {
	clone := *c
	if c.NextDueAt != nil {
		due := *c.NextDueAt
		clone.NextDueAt = &due
	}
	return &clone
}
