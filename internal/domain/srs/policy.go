// Package srs implements the review policy engine: pure transition
// functions that map a card's current state plus a review result to the
// card's next state. One policy exists per learning curve; the policy
// for a folder is selected once from its curve type and never branched
// on elsewhere.
package srs

import (
	"errors"
	"fmt"
	"time"

	"github.com/hanbit-app/srs-api/internal/domain"
)

// Common errors
var (
	ErrNilCard      = errors.New("card cannot be nil")
	ErrUnknownCurve = errors.New("unknown learning curve type")
)

// ReviewPolicy computes a card's next state from a review result. Apply
// is deterministic given (card, result, now), never mutates its input,
// and never produces a due date in the past relative to now. Invalid
// results are rejected before any state is derived.
type ReviewPolicy interface {
	// CurveType identifies the curve family this policy implements.
	CurveType() domain.CurveType

	// Apply returns the card's next state after the given review.
	Apply(card *domain.Card, result domain.ReviewResult, now time.Time) (*domain.Card, error)
}

// Set holds one policy per curve type, built once from shared params.
type Set struct {
	policies map[domain.CurveType]ReviewPolicy
}

// NewDefaultSet creates a policy set with default parameters.
func NewDefaultSet() *Set {
	return NewSet(NewDefaultParams())
}

// NewSet creates a policy set from the given parameters.
func NewSet(params *Params) *Set {
	return &Set{
		policies: map[domain.CurveType]ReviewPolicy{
			domain.CurveLong:  &LongCurvePolicy{params: params},
			domain.CurveShort: &ShortCurvePolicy{params: params},
			domain.CurveFree:  &FreePolicy{params: params},
		},
	}
}

// ForCurve returns the policy governing the given curve type.
func (s *Set) ForCurve(curve domain.CurveType) (ReviewPolicy, error) {
	policy, ok := s.policies[curve]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCurve, curve)
	}
	return policy, nil
}

// Apply is a convenience that selects the policy from the card's own
// curve type and applies the review.
func (s *Set) Apply(card *domain.Card, result domain.ReviewResult, now time.Time) (*domain.Card, error) {
	if card == nil {
		return nil, ErrNilCard
	}

	policy, err := s.ForCurve(card.CurveType)
	if err != nil {
		return nil, err
	}

	return policy.Apply(card, result, now)
}

// beginTransition validates the review and prepares the cloned next
// state shared by every policy: timing accumulation, answer counters,
// and the generic ease-factor path.
func beginTransition(
	card *domain.Card,
	result domain.ReviewResult,
	now time.Time,
	params *Params,
) (*domain.Card, error) {
	if card == nil {
		return nil, ErrNilCard
	}

	if err := result.Validate(); err != nil {
		return nil, err
	}

	next := card.Clone()
	next.TotalStudyTimeMs += result.StudyTimeMs

	if result.IsCorrect() {
		next.CorrectCount++
	} else {
		next.IncorrectCount++
	}

	applyEase(next, result, params)
	next.UpdatedAt = now

	return next, nil
}

// dueAfterHours computes the next due timestamp for a stage delay.
func dueAfterHours(now time.Time, hours int) *time.Time {
	due := now.Add(time.Duration(hours) * time.Hour)
	return &due
}
