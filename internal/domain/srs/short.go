package srs

import (
	"time"

	"github.com/hanbit-app/srs-api/internal/domain"
)

// Verify interface compliance at compile time
var _ ReviewPolicy = (*ShortCurvePolicy)(nil)

// ShortCurvePolicy implements the fixed-step spurt curve: ten stages
// with short constant intervals. A correct review advances one stage;
// completing the final stage masters the card. An incorrect review
// never regresses the stage, it only reschedules the card at the
// stage-0 interval so it comes around again quickly.
type ShortCurvePolicy struct {
	params *Params
}

// CurveType implements ReviewPolicy.
func (p *ShortCurvePolicy) CurveType() domain.CurveType {
	return domain.CurveShort
}

// Apply implements ReviewPolicy.
func (p *ShortCurvePolicy) Apply(
	card *domain.Card,
	result domain.ReviewResult,
	now time.Time,
) (*domain.Card, error) {
	next, err := beginTransition(card, result, now, p.params)
	if err != nil {
		return nil, err
	}

	if next.IsMastered {
		return next, nil
	}

	hours := p.params.ShortStageHours

	if result.IsCorrect() {
		next.Stage++
		if next.Stage >= len(hours) {
			next.Stage = len(hours)
			next.IsMastered = true
			next.NextDueAt = nil
			return next, nil
		}
		next.NextDueAt = dueAfterHours(now, hours[next.Stage-1])
		return next, nil
	}

	// Spurt philosophy: repeat soon rather than punish.
	next.NextDueAt = dueAfterHours(now, hours[0])

	return next, nil
}
