package srs

import (
	"math"

	"github.com/hanbit-app/srs-api/internal/domain"
)

// applyEase runs the generic SM-2 style numeric path shared by every
// curve: the ease factor moves with the 0-5 quality grade and the
// numeric interval grows with it on success or collapses to the floor
// on failure.
//
// ef' = ef + (0.1 - (5-q) * (0.08 + (5-q) * 0.02)), clamped to the
// configured [min, max] range.
func applyEase(card *domain.Card, result domain.ReviewResult, params *Params) {
	q := float64(result.EffectiveQuality())

	ef := card.EaseFactor + (0.1 - (5-q)*(0.08+(5-q)*0.02))
	if ef < params.MinEaseFactor {
		ef = params.MinEaseFactor
	}
	if ef > params.MaxEaseFactor {
		ef = params.MaxEaseFactor
	}
	card.EaseFactor = ef

	if result.IsCorrect() {
		next := int64(math.Round(float64(card.IntervalSeconds) * ef))
		if next < params.MinIntervalSeconds {
			next = params.MinIntervalSeconds
		}
		card.IntervalSeconds = next
	} else {
		card.IntervalSeconds = params.MinIntervalSeconds
	}
}
