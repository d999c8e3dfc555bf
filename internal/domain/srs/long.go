package srs

import (
	"time"

	"github.com/hanbit-app/srs-api/internal/domain"
)

// Verify interface compliance at compile time
var _ ReviewPolicy = (*LongCurvePolicy)(nil)

// LongCurvePolicy implements the graduated forgetting curve: seven
// stages with fixed intervals growing from one hour to sixty days.
// A correct review advances one stage; completing the final stage
// masters the card. An incorrect review sends the card back according
// to the configured lapse policy and schedules it at the stage-0
// interval.
type LongCurvePolicy struct {
	params *Params
}

// CurveType implements ReviewPolicy.
func (p *LongCurvePolicy) CurveType() domain.CurveType {
	return domain.CurveLong
}

// Apply implements ReviewPolicy.
func (p *LongCurvePolicy) Apply(
	card *domain.Card,
	result domain.ReviewResult,
	now time.Time,
) (*domain.Card, error) {
	next, err := beginTransition(card, result, now, p.params)
	if err != nil {
		return nil, err
	}

	// Mastered cards only accumulate counters until an explicit restart.
	if next.IsMastered {
		return next, nil
	}

	hours := p.params.LongStageHours

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

	switch p.params.Lapse {
	case LapseStepBack:
		if next.Stage > 0 {
			next.Stage--
		}
	default:
		next.Stage = 0
	}
	next.NextDueAt = dueAfterHours(now, hours[0])

	return next, nil
}
