package srs

import (
	"time"

	"github.com/hanbit-app/srs-api/internal/domain"
)

// Verify interface compliance at compile time
var _ ReviewPolicy = (*FreePolicy)(nil)

// FreePolicy implements the unscheduled curve. Reviews are logged and
// counters advance, but no due date is ever computed and mastery is
// never set automatically; only explicit completion or restart actions
// change it. The stage counter still climbs on correct reviews as an
// informational progress signal, capped by params.
type FreePolicy struct {
	params *Params
}

// CurveType implements ReviewPolicy.
func (p *FreePolicy) CurveType() domain.CurveType {
	return domain.CurveFree
}

// Apply implements ReviewPolicy.
func (p *FreePolicy) Apply(
	card *domain.Card,
	result domain.ReviewResult,
	now time.Time,
) (*domain.Card, error) {
	next, err := beginTransition(card, result, now, p.params)
	if err != nil {
		return nil, err
	}

	// Free-curve cards are never gated on a due date.
	next.NextDueAt = nil

	if result.IsCorrect() && next.Stage < p.params.FreeStageCap {
		next.Stage++
	}

	return next, nil
}
