package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Review-specific validation errors
var (
	// ErrReviewOutcomeMissing is returned when neither a quality grade
	// nor a correct flag was supplied.
	ErrReviewOutcomeMissing = fmt.Errorf("%w: review result needs a quality grade or a correct flag", ErrValidation)

	// ErrReviewQualityRange is returned when the quality grade is outside 0-5.
	ErrReviewQualityRange = fmt.Errorf("%w: review quality must be between 0 and 5", ErrValidation)

	// ErrReviewNegativeTime is returned when a review carries a negative duration.
	ErrReviewNegativeTime = fmt.Errorf("%w: review timings cannot be negative", ErrValidation)

	// ErrReviewLogIDEmpty is returned when a review log ID is empty or nil.
	ErrReviewLogIDEmpty = errors.New("review log ID cannot be empty")
)

// Quality thresholds for the 0-5 grading scale.
const (
	// QualityPassThreshold is the lowest grade counted as a correct
	// recall; grades below it are failures.
	QualityPassThreshold = 3

	// qualityCorrectDefault and qualityIncorrectDefault are the grades
	// assumed when a caller only reports a boolean outcome.
	qualityCorrectDefault   = 4
	qualityIncorrectDefault = 1
)

// ReviewResult is a learner's answer to a single card review. Callers
// supply either a 0-5 quality grade or a boolean correct flag; the
// grade drives the ease-factor model, the correctness drives stage
// transitions.
type ReviewResult struct {
	Quality        *int  `json:"quality,omitempty"`
	Correct        *bool `json:"correct,omitempty"`
	ResponseTimeMs int64 `json:"response_time_ms"`
	StudyTimeMs    int64 `json:"study_time_ms"`
}

// Validate checks that the result carries a usable outcome. It rejects
// out-of-range grades before any state is touched.
func (r ReviewResult) Validate() error {
	if r.Quality == nil && r.Correct == nil {
		return ErrReviewOutcomeMissing
	}

	if r.Quality != nil && (*r.Quality < 0 || *r.Quality > 5) {
		return ErrReviewQualityRange
	}

	if r.ResponseTimeMs < 0 || r.StudyTimeMs < 0 {
		return ErrReviewNegativeTime
	}

	return nil
}

// IsCorrect reports whether the review counts as a successful recall.
// A quality grade at or above QualityPassThreshold passes; when only a
// boolean was supplied, it is taken at face value.
func (r ReviewResult) IsCorrect() bool {
	if r.Quality != nil {
		return *r.Quality >= QualityPassThreshold
	}
	if r.Correct != nil {
		return *r.Correct
	}
	return false
}

// EffectiveQuality returns the 0-5 grade driving the ease-factor model.
// Boolean-only results map to a middling pass or a clear fail so the
// ease factor still moves in the right direction.
func (r ReviewResult) EffectiveQuality() int {
	if r.Quality != nil {
		return *r.Quality
	}
	if r.Correct != nil && *r.Correct {
		return qualityCorrectDefault
	}
	return qualityIncorrectDefault
}

// ReviewLog is the append-only record of one submitted review, kept for
// accuracy snapshots and history. Nothing in the scheduler mutates a log
// after creation.
type ReviewLog struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	CardID         uuid.UUID `json:"card_id"`
	Quality        *int      `json:"quality,omitempty"`
	Correct        bool      `json:"correct"`
	ResponseTimeMs int64     `json:"response_time_ms"`
	StudyTimeMs    int64     `json:"study_time_ms"`
	PrevStage      int       `json:"prev_stage"`
	NewStage       int       `json:"new_stage"`
	ReviewedAt     time.Time `json:"reviewed_at"`
}

// NewReviewLog builds the log entry for a processed review, snapshotting
// the stage transition the policy engine produced.
func NewReviewLog(userID, cardID uuid.UUID, result ReviewResult, prevStage, newStage int, reviewedAt time.Time) (*ReviewLog, error) {
	if err := result.Validate(); err != nil {
		return nil, err
	}

	log := &ReviewLog{
		ID:             uuid.New(),
		UserID:         userID,
		CardID:         cardID,
		Quality:        result.Quality,
		Correct:        result.IsCorrect(),
		ResponseTimeMs: result.ResponseTimeMs,
		StudyTimeMs:    result.StudyTimeMs,
		PrevStage:      prevStage,
		NewStage:       newStage,
		ReviewedAt:     reviewedAt,
	}

	if log.ID == uuid.Nil {
		return nil, ErrReviewLogIDEmpty
	}

	return log, nil
}
