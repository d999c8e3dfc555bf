package srs_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanbit-app/srs-api/internal/domain"
	"github.com/hanbit-app/srs-api/internal/domain/srs"
)

func TestEaseFactorMovesWithQuality(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		quality  int
		startEF  float64
		expected float64
	}{
		{"perfect recall raises ease", 5, 2.0, 2.1},
		{"hesitant recall holds ease", 4, 2.0, 2.0},
		{"pass threshold drops ease", 3, 2.0, 1.86},
		{"failure drops ease harder", 1, 2.0, 1.46},
		{"blackout clamps at floor", 0, 1.4, 1.3},
		{"perfect recall clamps at ceiling", 5, 2.5, 2.5},
	}

	set := srs.NewDefaultSet()
	now := time.Now().UTC()

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			card := newTestCard(t, domain.CurveLong)
			card.EaseFactor = tc.startEF

			next, err := set.Apply(card, graded(tc.quality), now)
			require.NoError(t, err)

			assert.InDelta(t, tc.expected, next.EaseFactor, 0.0001)
		})
	}
}

func TestIntervalGrowsOnSuccess(t *testing.T) {
	t.Parallel()

	set := srs.NewDefaultSet()
	now := time.Now().UTC()

	card := newTestCard(t, domain.CurveLong)
	card.IntervalSeconds = 86400

	next, err := set.Apply(card, graded(5), now)
	require.NoError(t, err)

	// One day times the updated ease factor.
	assert.Equal(t, int64(216000), next.IntervalSeconds)
	assert.InDelta(t, 2.5, next.EaseFactor, 0.0001)
}

func TestIntervalCollapsesOnFailure(t *testing.T) {
	t.Parallel()

	set := srs.NewDefaultSet()
	now := time.Now().UTC()

	card := newTestCard(t, domain.CurveLong)
	card.IntervalSeconds = 30 * 86400

	next, err := set.Apply(card, graded(1), now)
	require.NoError(t, err)

	assert.Equal(t, int64(86400), next.IntervalSeconds)
}

func TestIntervalFlooredOnFirstSuccess(t *testing.T) {
	t.Parallel()

	set := srs.NewDefaultSet()
	now := time.Now().UTC()

	// A fresh card has no interval yet; the first success lands on the
	// configured floor, not zero.
	card := newTestCard(t, domain.CurveLong)
	require.Zero(t, card.IntervalSeconds)

	next, err := set.Apply(card, graded(4), now)
	require.NoError(t, err)

	assert.Equal(t, int64(86400), next.IntervalSeconds)
}

func TestEaseBoundsAreConfigurable(t *testing.T) {
	t.Parallel()

	set := srs.NewSet(srs.NewParams(srs.Config{
		MinEaseFactor:      1.5,
		MaxEaseFactor:      3.0,
		MinIntervalSeconds: 3600,
	}))
	now := time.Now().UTC()

	// A raised ceiling lets ease climb past the stock 2.5.
	card := newTestCard(t, domain.CurveLong)
	card.EaseFactor = 2.5
	next, err := set.Apply(card, graded(5), now)
	require.NoError(t, err)
	assert.InDelta(t, 2.6, next.EaseFactor, 0.0001)

	// A raised floor catches failures earlier.
	card = newTestCard(t, domain.CurveLong)
	card.EaseFactor = 1.55
	next, err = set.Apply(card, graded(0), now)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, next.EaseFactor, 0.0001)

	// The interval floor follows the configured value.
	assert.Equal(t, int64(3600), next.IntervalSeconds)
}

func TestBooleanReviewsMapToQualityGrades(t *testing.T) {
	t.Parallel()

	set := srs.NewDefaultSet()
	now := time.Now().UTC()

	// A boolean correct behaves like quality 4.
	fromBool, err := set.Apply(newTestCard(t, domain.CurveLong), correct(), now)
	require.NoError(t, err)
	fromGrade, err := set.Apply(newTestCard(t, domain.CurveLong), graded(4), now)
	require.NoError(t, err)
	assert.InDelta(t, fromGrade.EaseFactor, fromBool.EaseFactor, 0.0001)

	// A boolean incorrect behaves like quality 1.
	fromBool, err = set.Apply(newTestCard(t, domain.CurveLong), incorrect(), now)
	require.NoError(t, err)
	fromGrade, err = set.Apply(newTestCard(t, domain.CurveLong), graded(1), now)
	require.NoError(t, err)
	assert.InDelta(t, fromGrade.EaseFactor, fromBool.EaseFactor, 0.0001)
}
