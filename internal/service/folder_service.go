package service

import (
	"context"
	"database/sql"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/hanbit-app/srs-api/internal/domain"
	"github.com/hanbit-app/srs-api/internal/events"
	"github.com/hanbit-app/srs-api/internal/platform/logger"
	"github.com/hanbit-app/srs-api/internal/store"
)

// FolderSummary is one folder's dashboard row: the folder plus learning
// progress counts derived from its cards.
type FolderSummary struct {
	Folder         *domain.Folder `json:"folder"`
	TotalCards     int            `json:"total_cards"`
	MasteredCards  int            `json:"mastered_cards"`
	RemainingCards int            `json:"remaining_cards"`
	ChildrenCount  int            `json:"children_count"`
	IsDue          bool           `json:"is_due"`
}

// FolderService manages folders and their card populations.
type FolderService interface {
	// CreateFolder creates a named folder bound to one learning curve.
	CreateFolder(
		ctx context.Context,
		userID uuid.UUID,
		name string,
		parentID *uuid.UUID,
		curve domain.CurveType,
		kind domain.FolderKind,
	) (*domain.Folder, error)

	// AddItems mints one card per vocab item inside the folder, all on
	// the folder's curve, atomically.
	AddItems(
		ctx context.Context,
		userID, folderID uuid.UUID,
		vocabIDs []uuid.UUID,
	) ([]*domain.Card, error)

	// RestartFolder begins a fresh learning cycle for a completed folder:
	// every card returns to stage zero and alarms reactivate. Restarting a
	// folder that is not completed is a no-op, making retries safe.
	RestartFolder(ctx context.Context, userID, folderID uuid.UUID, now time.Time) (*domain.Folder, error)

	// DeleteFolder removes a folder and, via cascade, its cards.
	DeleteFolder(ctx context.Context, userID, folderID uuid.UUID) error

	// Dashboard returns progress summaries for all of the user's folders,
	// with due status evaluated at the given time.
	Dashboard(ctx context.Context, userID uuid.UUID, now time.Time) ([]FolderSummary, error)
}

// folderServiceImpl implements the FolderService interface.
type folderServiceImpl struct {
	folders store.FolderStore
	cards   store.CardStore
	vocab   store.VocabStore
	tx      store.Transactor
	emitter events.EventEmitter
	logger  *slog.Logger
}

// NewFolderService creates a new FolderService.
// It returns an error if any of the required dependencies are nil.
func NewFolderService(
	folders store.FolderStore,
	cards store.CardStore,
	vocab store.VocabStore,
	tx store.Transactor,
	emitter events.EventEmitter,
	log *slog.Logger,
) (FolderService, error) {
	switch {
	case folders == nil:
		return nil, NewServiceError("new_folder_service", "folder store cannot be nil", nil)
	case cards == nil:
		return nil, NewServiceError("new_folder_service", "card store cannot be nil", nil)
	case vocab == nil:
		return nil, NewServiceError("new_folder_service", "vocab store cannot be nil", nil)
	case tx == nil:
		return nil, NewServiceError("new_folder_service", "transactor cannot be nil", nil)
	case emitter == nil:
		return nil, NewServiceError("new_folder_service", "event emitter cannot be nil", nil)
	}

	if log == nil {
		log = slog.Default()
	}

	return &folderServiceImpl{
		folders: folders,
		cards:   cards,
		vocab:   vocab,
		tx:      tx,
		emitter: emitter,
		logger:  log.With(slog.String("component", "folder_service")),
	}, nil
}

// CreateFolder implements FolderService.CreateFolder
func (s *folderServiceImpl) CreateFolder(
	ctx context.Context,
	userID uuid.UUID,
	name string,
	parentID *uuid.UUID,
	curve domain.CurveType,
	kind domain.FolderKind,
) (*domain.Folder, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	folder, err := domain.NewFolder(userID, name, curve, kind, parentID)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if parentID != nil {
			if err := s.checkParent(ctx, tx, userID, *parentID); err != nil {
				return err
			}
		}
		return s.folders.WithTx(tx).Create(ctx, folder)
	})
	if err != nil {
		log.Error("failed to create folder",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	log.Info("folder created",
		slog.String("folder_id", folder.ID.String()),
		slog.String("user_id", userID.String()),
		slog.String("curve", string(curve)))
	return folder, nil
}

// checkParent verifies a prospective parent: it must exist, belong to
// the same user, hold no cards, and leave the new folder within the
// three-level hierarchy.
func (s *folderServiceImpl) checkParent(
	ctx context.Context,
	tx *sql.Tx,
	userID, parentID uuid.UUID,
) error {
	txFolders := s.folders.WithTx(tx)

	parent, err := txFolders.GetByID(ctx, parentID)
	if err != nil {
		return err
	}
	if parent.UserID != userID {
		return ErrNotOwned
	}

	total, _, err := s.cards.WithTx(tx).CountByFolder(ctx, parentID)
	if err != nil {
		return err
	}
	if total > 0 {
		return ErrFolderHasCards
	}

	// The parent of a new folder may itself have a parent, but that
	// grandparent must be a root.
	if parent.ParentID != nil {
		grandparent, err := txFolders.GetByID(ctx, *parent.ParentID)
		if err != nil {
			return err
		}
		if grandparent.ParentID != nil {
			return ErrFolderDepthExceeded
		}
	}
	return nil
}

// AddItems implements FolderService.AddItems
func (s *folderServiceImpl) AddItems(
	ctx context.Context,
	userID, folderID uuid.UUID,
	vocabIDs []uuid.UUID,
) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(vocabIDs) == 0 {
		return []*domain.Card{}, nil
	}

	var created []*domain.Card

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		folder, err := s.folders.WithTx(tx).GetByID(ctx, folderID)
		if err != nil {
			return err
		}
		if folder.UserID != userID {
			return ErrNotOwned
		}

		// Folders with child folders never hold cards directly.
		children, err := s.folders.WithTx(tx).CountChildren(ctx, folderID)
		if err != nil {
			return err
		}
		if children > 0 {
			return ErrFolderHasChildren
		}

		// Every requested vocab item must exist before any card is minted.
		items, err := s.vocab.WithTx(tx).GetByIDs(ctx, vocabIDs)
		if err != nil {
			return err
		}

		cards := make([]*domain.Card, len(items))
		for i, item := range items {
			card, err := domain.NewCard(userID, item.ID, folderID, folder.CurveType)
			if err != nil {
				return err
			}
			cards[i] = card
		}

		if err := s.cards.WithTx(tx).CreateMultiple(ctx, cards); err != nil {
			return err
		}

		created = cards
		return nil
	})
	if err != nil {
		log.Error("failed to add items to folder",
			slog.String("error", err.Error()),
			slog.String("folder_id", folderID.String()))
		return nil, err
	}

	log.Info("items added to folder",
		slog.String("folder_id", folderID.String()),
		slog.Int("count", len(created)))
	return created, nil
}

// RestartFolder implements FolderService.RestartFolder
func (s *folderServiceImpl) RestartFolder(
	ctx context.Context,
	userID, folderID uuid.UUID,
	now time.Time,
) (*domain.Folder, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		restarted *domain.Folder
		wasNoOp   bool
	)

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txFolders := s.folders.WithTx(tx)

		folder, err := txFolders.GetByID(ctx, folderID)
		if err != nil {
			return err
		}
		if folder.UserID != userID {
			return ErrNotOwned
		}

		// Nothing to restart; return current state unchanged so repeated
		// calls converge.
		if !folder.IsCompleted && !folder.IsMastered {
			restarted = folder
			wasNoOp = true
			return nil
		}

		if _, err := s.cards.WithTx(tx).ResetForFolder(ctx, folderID, now); err != nil {
			return err
		}

		folder.Stage = 0
		folder.IsCompleted = false
		folder.IsMastered = false
		folder.AlarmActive = true
		folder.CompletedAt = nil
		folder.UpdatedAt = now

		if err := txFolders.Update(ctx, folder); err != nil {
			return err
		}

		restarted = folder
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !wasNoOp {
		event, err := events.NewDomainEvent(events.EventFolderRestarted, map[string]string{
			"user_id":   userID.String(),
			"folder_id": folderID.String(),
		})
		if err == nil {
			if emitErr := s.emitter.EmitEvent(ctx, event); emitErr != nil {
				log.Error("failed to emit folder restart event",
					slog.String("error", emitErr.Error()))
			}
		}

		log.Info("folder restarted",
			slog.String("folder_id", folderID.String()),
			slog.Int("completion_count", restarted.CompletionCount))
	}

	return restarted, nil
}

// DeleteFolder implements FolderService.DeleteFolder
func (s *folderServiceImpl) DeleteFolder(ctx context.Context, userID, folderID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	folder, err := s.folders.GetByID(ctx, folderID)
	if err != nil {
		return err
	}
	if folder.UserID != userID {
		return ErrNotOwned
	}

	if err := s.folders.Delete(ctx, folderID); err != nil {
		return err
	}

	log.Info("folder deleted", slog.String("folder_id", folderID.String()))
	return nil
}

// Dashboard implements FolderService.Dashboard
func (s *folderServiceImpl) Dashboard(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
) ([]FolderSummary, error) {
	folders, err := s.folders.ListByUser(ctx, userID)
	if err != nil {
		return nil, NewServiceError("dashboard", "failed to list folders", err)
	}

	summaries := make([]FolderSummary, len(folders))
	for i, folder := range folders {
		total, mastered, err := s.cards.CountByFolder(ctx, folder.ID)
		if err != nil {
			return nil, NewServiceError("dashboard", "failed to count folder cards", err)
		}

		// Manual folders are due by declaration until completed; scheduled
		// folders are due when any unfinished card's clock has run out.
		var isDue bool
		if folder.Kind == domain.FolderKindManual {
			isDue = !folder.IsCompleted
		} else {
			due, err := s.cards.CountDueByFolder(ctx, folder.ID, now)
			if err != nil {
				return nil, NewServiceError("dashboard", "failed to count due cards", err)
			}
			isDue = due > 0
		}

		summaries[i] = FolderSummary{
			Folder:         folder,
			TotalCards:     total,
			MasteredCards:  mastered,
			RemainingCards: total - mastered,
			IsDue:          isDue,
		}
	}

	rollUpHierarchy(summaries)
	return summaries, nil
}

// rollUpHierarchy folds each folder's progress into its parent row, so
// a parent reports its whole subtree's counts and is due whenever any
// descendant is. Deepest folders are folded first, which carries
// grandchild counts through the middle level.
func rollUpHierarchy(summaries []FolderSummary) {
	byID := make(map[uuid.UUID]int, len(summaries))
	for i := range summaries {
		byID[summaries[i].Folder.ID] = i
	}

	depthOf := func(folder *domain.Folder) int {
		depth := 0
		for folder.ParentID != nil && depth < len(summaries) {
			i, ok := byID[*folder.ParentID]
			if !ok {
				break
			}
			depth++
			folder = summaries[i].Folder
		}
		return depth
	}

	order := make([]int, len(summaries))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return depthOf(summaries[order[a]].Folder) > depthOf(summaries[order[b]].Folder)
	})

	for _, i := range order {
		child := &summaries[i]
		if child.Folder.ParentID == nil {
			continue
		}
		pi, ok := byID[*child.Folder.ParentID]
		if !ok {
			continue
		}
		parent := &summaries[pi]
		parent.ChildrenCount++
		parent.TotalCards += child.TotalCards
		parent.MasteredCards += child.MasteredCards
		parent.RemainingCards += child.RemainingCards
		parent.IsDue = parent.IsDue || child.IsDue
	}
}
