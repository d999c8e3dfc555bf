package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// VocabItem-specific validation errors
var (
	// ErrVocabIDEmpty is returned when a vocabulary item ID is empty or nil.
	ErrVocabIDEmpty = errors.New("vocab item ID cannot be empty")

	// ErrVocabLemmaEmpty is returned when a vocabulary item has no lemma.
	ErrVocabLemmaEmpty = fmt.Errorf("%w: vocab item lemma cannot be empty", ErrValidation)
)

// VocabItem is a unit of the shared vocabulary catalog. Items are
// effectively immutable once seeded; cards reference them by ID and
// never duplicate their content.
type VocabItem struct {
	ID          uuid.UUID `json:"id"`
	Lemma       string    `json:"lemma"`
	Pos         string    `json:"pos"`
	LevelCEFR   string    `json:"level_cefr"`
	Translation *string   `json:"translation,omitempty"`
	Example     *string   `json:"example,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Validate checks if the VocabItem has valid data.
func (v *VocabItem) Validate() error {
	if v.ID == uuid.Nil {
		return ErrVocabIDEmpty
	}

	if v.Lemma == "" {
		return ErrVocabLemmaEmpty
	}

	return nil
}
