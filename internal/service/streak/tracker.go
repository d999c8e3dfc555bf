// Package streak maintains consecutive-day study streaks. A streak day
// counts only when the user's daily review quota is met; day boundaries
// are evaluated lazily in a single configured reference timezone, so no
// scheduled job is needed to expire streaks.
package streak

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hanbit-app/srs-api/internal/domain"
	"github.com/hanbit-app/srs-api/internal/platform/logger"
	"github.com/hanbit-app/srs-api/internal/store"
)

// Tracker advances streak state as reviews come in. It is safe for
// concurrent use; persistence races are handled by the caller's
// transaction boundaries.
type Tracker struct {
	streaks       store.StreakStore
	requiredDaily int
	tz            *time.Location
	tiers         []BonusTier
	logger        *slog.Logger
}

// NewTracker creates a streak tracker. requiredDaily is the review count
// that turns a calendar day into a streak day. If tz is nil, UTC is used.
// If logger is nil, a default logger will be used.
func NewTracker(
	streaks store.StreakStore,
	requiredDaily int,
	tz *time.Location,
	logger *slog.Logger,
) (*Tracker, error) {
	if streaks == nil {
		return nil, errors.New("streak store cannot be nil")
	}
	if requiredDaily <= 0 {
		return nil, domain.ErrStreakInvalidQuota
	}
	if tz == nil {
		tz = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Tracker{
		streaks:       streaks,
		requiredDaily: requiredDaily,
		tz:            tz,
		tiers:         DefaultBonusTiers(),
		logger:        logger.With(slog.String("component", "streak_tracker")),
	}, nil
}

// WithStore returns a Tracker bound to the given store, typically a
// transaction-scoped one obtained via StreakStore.WithTx.
func (t *Tracker) WithStore(streaks store.StreakStore) *Tracker {
	return &Tracker{
		streaks:       streaks,
		requiredDaily: t.requiredDaily,
		tz:            t.tz,
		tiers:         t.tiers,
		logger:        t.logger,
	}
}

// WithBonusTiers returns a Tracker using the given badge ladder instead
// of the default one. Malformed entries are ignored; an empty ladder
// disables bonus tiers entirely.
func (t *Tracker) WithBonusTiers(tiers []BonusTier) *Tracker {
	return &Tracker{
		streaks:       t.streaks,
		requiredDaily: t.requiredDaily,
		tz:            t.tz,
		tiers:         sortTiers(tiers),
		logger:        t.logger,
	}
}

// TierFor returns the highest bonus tier whose threshold the given
// streak length has reached, or nil when the streak is below every tier.
func (t *Tracker) TierFor(currentStreak int) *BonusTier {
	var best *BonusTier
	for i := range t.tiers {
		if t.tiers[i].Threshold > currentStreak {
			break
		}
		tier := t.tiers[i]
		best = &tier
	}
	return best
}

// RecordReview counts one review toward the quota of the day containing
// reviewedAt and persists the updated state. The returned bool reports
// whether this review extended the streak, which happens exactly when
// the day's count crosses the quota.
func (t *Tracker) RecordReview(
	ctx context.Context,
	userID uuid.UUID,
	reviewedAt time.Time,
) (*domain.StreakState, bool, error) {
	log := logger.FromContextOrDefault(ctx, t.logger)

	state, err := t.loadOrInit(ctx, userID)
	if err != nil {
		return nil, false, err
	}

	t.rollover(state, reviewedAt)

	metBefore := state.QuotaMet()
	state.DailyQuizCount++
	state.UpdatedAt = reviewedAt.UTC()

	extended := !metBefore && state.QuotaMet()
	if extended {
		state.CurrentStreak++
		log.Info("streak extended",
			slog.String("user_id", userID.String()),
			slog.Int("current_streak", state.CurrentStreak))
	}

	if err := t.streaks.Upsert(ctx, state); err != nil {
		return nil, false, fmt.Errorf("failed to persist streak state: %w", err)
	}

	return state, extended, nil
}

// Current returns the user's streak state as of now, with stale days
// rolled over. The normalized view is not persisted; reads stay
// side-effect free.
func (t *Tracker) Current(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
) (*domain.StreakState, error) {
	state, err := t.loadOrInit(ctx, userID)
	if err != nil {
		return nil, err
	}

	t.rollover(state, now)
	return state, nil
}

func (t *Tracker) loadOrInit(ctx context.Context, userID uuid.UUID) (*domain.StreakState, error) {
	state, err := t.streaks.Get(ctx, userID)
	if err == nil {
		return state, nil
	}
	if !store.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to load streak state: %w", err)
	}
	return domain.NewStreakState(userID, t.requiredDaily)
}

// rollover moves the state forward to the day containing now. A gap day,
// or a previous day that ended short of quota, breaks the streak.
func (t *Tracker) rollover(state *domain.StreakState, now time.Time) {
	today := CivilDate(now, t.tz)

	switch state.LastQuizDate {
	case today:
		return
	case "":
		// First activity ever.
	case previousCivilDate(now, t.tz):
		if !state.QuotaMet() {
			state.CurrentStreak = 0
		}
	default:
		state.CurrentStreak = 0
	}

	state.DailyQuizCount = 0
	state.LastQuizDate = today
}
