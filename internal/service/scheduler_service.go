package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hanbit-app/srs-api/internal/domain"
	"github.com/hanbit-app/srs-api/internal/domain/srs"
	"github.com/hanbit-app/srs-api/internal/events"
	"github.com/hanbit-app/srs-api/internal/platform/logger"
	"github.com/hanbit-app/srs-api/internal/service/streak"
	"github.com/hanbit-app/srs-api/internal/store"
)

// DueReview pairs a due card with the vocabulary it tests.
type DueReview struct {
	Card  *domain.Card      `json:"card"`
	Vocab *domain.VocabItem `json:"vocab"`
}

// ReviewOutcome is everything SubmitReview produced: the card's next
// state, the appended log entry, and the streak after this review.
type ReviewOutcome struct {
	Card            *domain.Card        `json:"card"`
	Log             *domain.ReviewLog   `json:"log"`
	Streak          *domain.StreakState `json:"streak"`
	StreakExtended  bool                `json:"streak_extended"`
	BonusTier       *streak.BonusTier   `json:"bonus_tier,omitempty"`
	TierUnlocked    bool                `json:"tier_unlocked"`
	CardMastered    bool                `json:"card_mastered"`
	FolderCompleted bool                `json:"folder_completed"`
}

// SchedulerService drives the review loop: what is due now, and what
// happens to a card when the learner answers.
type SchedulerService interface {
	// GetDueReviews returns the user's cards due at or before now, most
	// overdue first, joined with their vocabulary items.
	GetDueReviews(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]DueReview, error)

	// SubmitReview applies a review result to a card. The card update,
	// review log append, streak advance, and any folder completion commit
	// atomically. Returns store.ErrConflict (wrapped) when a concurrent
	// review of the same card won; callers should re-read and retry.
	SubmitReview(
		ctx context.Context,
		userID, cardID uuid.UUID,
		result domain.ReviewResult,
		now time.Time,
	) (*ReviewOutcome, error)
}

// schedulerServiceImpl implements the SchedulerService interface.
type schedulerServiceImpl struct {
	cards      store.CardStore
	vocab      store.VocabStore
	folders    store.FolderStore
	reviewLogs store.ReviewLogStore
	streaks    store.StreakStore
	policies   *srs.Set
	tracker    *streak.Tracker
	tx         store.Transactor
	emitter    events.EventEmitter
	logger     *slog.Logger
}

// NewSchedulerService creates a new SchedulerService.
// It returns an error if any of the required dependencies are nil.
func NewSchedulerService(
	cards store.CardStore,
	vocab store.VocabStore,
	folders store.FolderStore,
	reviewLogs store.ReviewLogStore,
	streaks store.StreakStore,
	policies *srs.Set,
	tracker *streak.Tracker,
	tx store.Transactor,
	emitter events.EventEmitter,
	log *slog.Logger,
) (SchedulerService, error) {
	switch {
	case cards == nil:
		return nil, NewServiceError("new_scheduler_service", "card store cannot be nil", nil)
	case vocab == nil:
		return nil, NewServiceError("new_scheduler_service", "vocab store cannot be nil", nil)
	case folders == nil:
		return nil, NewServiceError("new_scheduler_service", "folder store cannot be nil", nil)
	case reviewLogs == nil:
		return nil, NewServiceError("new_scheduler_service", "review log store cannot be nil", nil)
	case streaks == nil:
		return nil, NewServiceError("new_scheduler_service", "streak store cannot be nil", nil)
	case policies == nil:
		return nil, NewServiceError("new_scheduler_service", "policy set cannot be nil", nil)
	case tracker == nil:
		return nil, NewServiceError("new_scheduler_service", "streak tracker cannot be nil", nil)
	case tx == nil:
		return nil, NewServiceError("new_scheduler_service", "transactor cannot be nil", nil)
	case emitter == nil:
		return nil, NewServiceError("new_scheduler_service", "event emitter cannot be nil", nil)
	}

	if log == nil {
		log = slog.Default()
	}

	return &schedulerServiceImpl{
		cards:      cards,
		vocab:      vocab,
		folders:    folders,
		reviewLogs: reviewLogs,
		streaks:    streaks,
		policies:   policies,
		tracker:    tracker,
		tx:         tx,
		emitter:    emitter,
		logger:     log.With(slog.String("component", "scheduler_service")),
	}, nil
}

// GetDueReviews implements SchedulerService.GetDueReviews
func (s *schedulerServiceImpl) GetDueReviews(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
	limit int,
) ([]DueReview, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cards, err := s.cards.GetDueSet(ctx, userID, now, limit)
	if err != nil {
		log.Error("failed to load due cards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewServiceError("get_due_reviews", "failed to load due cards", err)
	}

	if len(cards) == 0 {
		return []DueReview{}, nil
	}

	vocabIDs := make([]uuid.UUID, len(cards))
	for i, c := range cards {
		vocabIDs[i] = c.VocabID
	}

	items, err := s.vocab.GetByIDs(ctx, vocabIDs)
	if err != nil {
		log.Error("failed to load vocab for due cards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewServiceError("get_due_reviews", "failed to load vocab items", err)
	}

	byID := make(map[uuid.UUID]*domain.VocabItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	reviews := make([]DueReview, len(cards))
	for i, c := range cards {
		reviews[i] = DueReview{Card: c, Vocab: byID[c.VocabID]}
	}

	log.Debug("loaded due reviews",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(reviews)))
	return reviews, nil
}

// SubmitReview implements SchedulerService.SubmitReview
func (s *schedulerServiceImpl) SubmitReview(
	ctx context.Context,
	userID, cardID uuid.UUID,
	result domain.ReviewResult,
	now time.Time,
) (*ReviewOutcome, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := result.Validate(); err != nil {
		return nil, err
	}

	var outcome *ReviewOutcome

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txCards := s.cards.WithTx(tx)

		card, err := txCards.GetByID(ctx, cardID)
		if err != nil {
			return err
		}
		if card.UserID != userID {
			return ErrNotOwned
		}

		updated, err := s.policies.Apply(card, result, now)
		if err != nil {
			return err
		}

		// The optimistic write pins the version read above; a conflict
		// aborts the whole transaction so no partial state leaks.
		if err := txCards.UpdateReviewed(ctx, updated); err != nil {
			return err
		}
		updated.Version++

		entry, err := domain.NewReviewLog(userID, cardID, result, card.Stage, updated.Stage, now)
		if err != nil {
			return err
		}
		if err := s.reviewLogs.WithTx(tx).Create(ctx, entry); err != nil {
			return err
		}

		tracker := s.tracker.WithStore(s.streaks.WithTx(tx))
		state, extended, err := tracker.RecordReview(ctx, userID, now)
		if err != nil {
			return err
		}

		// A tier unlocks only when this review's extension lands the
		// streak exactly on a threshold; re-reaching an already-held
		// tier later in the day never fires again.
		tier := tracker.TierFor(state.CurrentStreak)
		outcome = &ReviewOutcome{
			Card:           updated,
			Log:            entry,
			Streak:         state,
			StreakExtended: extended,
			BonusTier:      tier,
			TierUnlocked:   extended && tier != nil && tier.Threshold == state.CurrentStreak,
			CardMastered:   updated.IsMastered && !card.IsMastered,
		}

		if outcome.CardMastered {
			completed, err := s.completeFolderIfMastered(ctx, tx, card.FolderID, now)
			if err != nil {
				return err
			}
			outcome.FolderCompleted = completed
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emitOutcomeEvents(ctx, userID, cardID, outcome)

	log.Info("review submitted",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.Int("stage", outcome.Card.Stage),
		slog.Bool("mastered", outcome.Card.IsMastered))

	return outcome, nil
}

// completeFolderIfMastered ticks a folder's completion cycle when its
// last card was just mastered. Alarms are silenced until a restart.
func (s *schedulerServiceImpl) completeFolderIfMastered(
	ctx context.Context,
	tx *sql.Tx,
	folderID uuid.UUID,
	now time.Time,
) (bool, error) {
	txFolders := s.folders.WithTx(tx)

	folder, err := txFolders.GetByID(ctx, folderID)
	if err != nil {
		return false, err
	}
	if folder.IsMastered {
		return false, nil
	}

	total, mastered, err := s.cards.WithTx(tx).CountByFolder(ctx, folderID)
	if err != nil {
		return false, err
	}
	if total == 0 || mastered < total {
		return false, nil
	}

	completedAt := now
	folder.IsMastered = true
	folder.IsCompleted = true
	folder.CompletionCount++
	folder.AlarmActive = false
	folder.CompletedAt = &completedAt
	folder.UpdatedAt = now

	if err := txFolders.Update(ctx, folder); err != nil {
		return false, err
	}
	return true, nil
}

// emitOutcomeEvents publishes domain events after the transaction has
// committed. Emission failures are logged, never surfaced to the caller.
func (s *schedulerServiceImpl) emitOutcomeEvents(
	ctx context.Context,
	userID, cardID uuid.UUID,
	outcome *ReviewOutcome,
) {
	emit := func(eventType string, payload any) {
		event, err := events.NewDomainEvent(eventType, payload)
		if err != nil {
			s.logger.Error("failed to build domain event",
				slog.String("error", err.Error()),
				slog.String("event_type", eventType))
			return
		}
		if err := s.emitter.EmitEvent(ctx, event); err != nil {
			s.logger.Error("failed to emit domain event",
				slog.String("error", err.Error()),
				slog.String("event_type", eventType))
		}
	}

	if outcome.CardMastered {
		emit(events.EventCardMastered, map[string]string{
			"user_id": userID.String(),
			"card_id": cardID.String(),
		})
	}
	if outcome.FolderCompleted {
		emit(events.EventFolderMastered, map[string]string{
			"user_id":   userID.String(),
			"folder_id": outcome.Card.FolderID.String(),
		})
	}
	if outcome.StreakExtended {
		emit(events.EventStreakExtended, map[string]any{
			"user_id":        userID.String(),
			"current_streak": outcome.Streak.CurrentStreak,
		})
	}
	if outcome.TierUnlocked {
		emit(events.EventAchievementUnlocked, map[string]any{
			"user_id":        userID.String(),
			"badge":          outcome.BonusTier.Badge,
			"current_streak": outcome.Streak.CurrentStreak,
		})
	}
}
