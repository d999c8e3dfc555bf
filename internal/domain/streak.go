package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// StreakState-specific validation errors
var (
	// ErrStreakUserIDEmpty is returned when a streak state's user ID is empty or nil.
	ErrStreakUserIDEmpty = errors.New("streak state user ID cannot be empty")

	// ErrStreakInvalidQuota is returned when the daily quota is not positive.
	ErrStreakInvalidQuota = errors.New("required daily review count must be greater than 0")
)

// CivilDateLayout is the storage format for calendar dates in the
// configured reference timezone.
const CivilDateLayout = "2006-01-02"

// StreakState tracks one user's consecutive-day study streak and daily
// review quota. All calendar arithmetic uses a single configured
// reference timezone so "today" is stable regardless of where the
// request is processed.
//
// DailyQuizCount always refers to the calendar day in LastQuizDate;
// the streak tracker rolls both fields forward lazily on first access
// of a new day.
type StreakState struct {
	UserID         uuid.UUID `json:"user_id"`
	CurrentStreak  int       `json:"current_streak"`
	RequiredDaily  int       `json:"required_daily"`
	DailyQuizCount int       `json:"daily_quiz_count"`
	LastQuizDate   string    `json:"last_quiz_date"` // civil date, CivilDateLayout
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewStreakState creates the initial streak record for a user.
func NewStreakState(userID uuid.UUID, requiredDaily int) (*StreakState, error) {
	state := &StreakState{
		UserID:        userID,
		RequiredDaily: requiredDaily,
		UpdatedAt:     time.Now().UTC(),
	}

	if err := state.Validate(); err != nil {
		return nil, err
	}

	return state, nil
}

// Validate checks if the StreakState has valid data.
func (s *StreakState) Validate() error {
	if s.UserID == uuid.Nil {
		return ErrStreakUserIDEmpty
	}

	if s.RequiredDaily <= 0 {
		return ErrStreakInvalidQuota
	}

	return nil
}

// QuotaMet reports whether the day's required review count was reached.
func (s *StreakState) QuotaMet() bool {
	return s.DailyQuizCount >= s.RequiredDaily
}
