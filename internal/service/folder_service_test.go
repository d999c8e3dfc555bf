package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanbit-app/srs-api/internal/domain"
	"github.com/hanbit-app/srs-api/internal/events"
	"github.com/hanbit-app/srs-api/internal/mocks"
	"github.com/hanbit-app/srs-api/internal/service"
	"github.com/hanbit-app/srs-api/internal/store"
)

type folderFixture struct {
	svc     service.FolderService
	folders *mocks.FolderStore
	cards   *mocks.CardStore
	vocab   *mocks.VocabStore
	emitter *mocks.EventEmitter
}

func newFolderFixture(t *testing.T) *folderFixture {
	t.Helper()

	f := &folderFixture{
		folders: mocks.NewFolderStore(),
		cards:   mocks.NewCardStore(),
		vocab:   mocks.NewVocabStore(),
		emitter: &mocks.EventEmitter{},
	}

	var err error
	f.svc, err = service.NewFolderService(
		f.folders, f.cards, f.vocab, &mocks.Transactor{}, f.emitter, nil,
	)
	require.NoError(t, err)
	return f
}

func (f *folderFixture) seedVocab(t *testing.T, n int) []uuid.UUID {
	t.Helper()

	ids := make([]uuid.UUID, n)
	for i := range ids {
		item := &domain.VocabItem{
			ID:        uuid.New(),
			Lemma:     "word",
			CreatedAt: time.Now().UTC(),
		}
		f.vocab.Seed(item)
		ids[i] = item.ID
	}
	return ids
}

func TestCreateFolder(t *testing.T) {
	t.Parallel()

	f := newFolderFixture(t)
	userID := uuid.New()

	folder, err := f.svc.CreateFolder(
		context.Background(), userID, "day 12", nil,
		domain.CurveLong, domain.FolderKindScheduled,
	)
	require.NoError(t, err)

	assert.Equal(t, "day 12", folder.Name)
	assert.Equal(t, domain.CurveLong, folder.CurveType)
	assert.True(t, folder.AlarmActive)
	assert.Equal(t, 0, folder.CompletionCount)

	stored, err := f.folders.GetByID(context.Background(), folder.ID)
	require.NoError(t, err)
	assert.Equal(t, folder.ID, stored.ID)
}

func TestCreateFolderRejectsInvalidCurve(t *testing.T) {
	t.Parallel()

	f := newFolderFixture(t)
	_, err := f.svc.CreateFolder(
		context.Background(), uuid.New(), "day 12", nil,
		domain.CurveType("weekly"), domain.FolderKindScheduled,
	)
	assert.ErrorIs(t, err, domain.ErrFolderInvalidCurve)
}

func TestCreateFolderRejectsMissingParent(t *testing.T) {
	t.Parallel()

	f := newFolderFixture(t)
	missing := uuid.New()

	_, err := f.svc.CreateFolder(
		context.Background(), uuid.New(), "orphan", &missing,
		domain.CurveLong, domain.FolderKindScheduled,
	)
	assert.ErrorIs(t, err, store.ErrFolderNotFound)
}

func TestCreateFolderRejectsForeignParent(t *testing.T) {
	t.Parallel()

	f := newFolderFixture(t)
	owner := uuid.New()

	parent, err := f.svc.CreateFolder(
		context.Background(), owner, "day 12", nil,
		domain.CurveLong, domain.FolderKindScheduled,
	)
	require.NoError(t, err)

	_, err = f.svc.CreateFolder(
		context.Background(), uuid.New(), "intruder", &parent.ID,
		domain.CurveLong, domain.FolderKindScheduled,
	)
	assert.ErrorIs(t, err, service.ErrNotOwned)
}

func TestCreateFolderRejectsParentWithCards(t *testing.T) {
	t.Parallel()

	f := newFolderFixture(t)
	userID := uuid.New()

	parent, err := f.svc.CreateFolder(
		context.Background(), userID, "day 12", nil,
		domain.CurveLong, domain.FolderKindScheduled,
	)
	require.NoError(t, err)

	_, err = f.svc.AddItems(context.Background(), userID, parent.ID, f.seedVocab(t, 1))
	require.NoError(t, err)

	_, err = f.svc.CreateFolder(
		context.Background(), userID, "subfolder", &parent.ID,
		domain.CurveLong, domain.FolderKindScheduled,
	)
	assert.ErrorIs(t, err, service.ErrFolderHasCards)
}

func TestCreateFolderRejectsFourthLevel(t *testing.T) {
	t.Parallel()

	f := newFolderFixture(t)
	userID := uuid.New()

	root, err := f.svc.CreateFolder(
		context.Background(), userID, "level 1", nil,
		domain.CurveLong, domain.FolderKindScheduled,
	)
	require.NoError(t, err)

	middle, err := f.svc.CreateFolder(
		context.Background(), userID, "level 2", &root.ID,
		domain.CurveLong, domain.FolderKindScheduled,
	)
	require.NoError(t, err)

	leaf, err := f.svc.CreateFolder(
		context.Background(), userID, "level 3", &middle.ID,
		domain.CurveLong, domain.FolderKindScheduled,
	)
	require.NoError(t, err)

	_, err = f.svc.CreateFolder(
		context.Background(), userID, "level 4", &leaf.ID,
		domain.CurveLong, domain.FolderKindScheduled,
	)
	assert.ErrorIs(t, err, service.ErrFolderDepthExceeded)
}

func TestAddItemsRejectsFolderWithChildren(t *testing.T) {
	t.Parallel()

	f := newFolderFixture(t)
	userID := uuid.New()

	parent, err := f.svc.CreateFolder(
		context.Background(), userID, "day 12", nil,
		domain.CurveLong, domain.FolderKindScheduled,
	)
	require.NoError(t, err)

	_, err = f.svc.CreateFolder(
		context.Background(), userID, "subfolder", &parent.ID,
		domain.CurveLong, domain.FolderKindScheduled,
	)
	require.NoError(t, err)

	_, err = f.svc.AddItems(context.Background(), userID, parent.ID, f.seedVocab(t, 1))
	assert.ErrorIs(t, err, service.ErrFolderHasChildren)

	listed, err := f.cards.ListByFolder(context.Background(), parent.ID)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestAddItemsMintsCardsOnFolderCurve(t *testing.T) {
	t.Parallel()

	f := newFolderFixture(t)
	userID := uuid.New()

	folder, err := f.svc.CreateFolder(
		context.Background(), userID, "day 12", nil,
		domain.CurveShort, domain.FolderKindScheduled,
	)
	require.NoError(t, err)

	vocabIDs := f.seedVocab(t, 3)
	cards, err := f.svc.AddItems(context.Background(), userID, folder.ID, vocabIDs)
	require.NoError(t, err)
	require.Len(t, cards, 3)

	for _, card := range cards {
		assert.Equal(t, domain.CurveShort, card.CurveType)
		assert.Equal(t, 0, card.Stage)
		assert.NotNil(t, card.NextDueAt, "scheduled cards start due immediately")
	}

	listed, err := f.cards.ListByFolder(context.Background(), folder.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 3)
}

func TestAddItemsUnknownVocabFailsWholeBatch(t *testing.T) {
	t.Parallel()

	f := newFolderFixture(t)
	userID := uuid.New()

	folder, err := f.svc.CreateFolder(
		context.Background(), userID, "day 12", nil,
		domain.CurveLong, domain.FolderKindScheduled,
	)
	require.NoError(t, err)

	vocabIDs := append(f.seedVocab(t, 2), uuid.New())
	_, err = f.svc.AddItems(context.Background(), userID, folder.ID, vocabIDs)
	assert.ErrorIs(t, err, store.ErrVocabNotFound)

	listed, err := f.cards.ListByFolder(context.Background(), folder.ID)
	require.NoError(t, err)
	assert.Empty(t, listed, "no cards are minted when any vocab item is missing")
}

func TestAddItemsRejectsForeignFolder(t *testing.T) {
	t.Parallel()

	f := newFolderFixture(t)
	owner := uuid.New()

	folder, err := f.svc.CreateFolder(
		context.Background(), owner, "day 12", nil,
		domain.CurveLong, domain.FolderKindScheduled,
	)
	require.NoError(t, err)

	_, err = f.svc.AddItems(context.Background(), uuid.New(), folder.ID, f.seedVocab(t, 1))
	assert.ErrorIs(t, err, service.ErrNotOwned)
}

func TestRestartFolderResetsCompletedCycle(t *testing.T) {
	t.Parallel()

	f := newFolderFixture(t)
	userID := uuid.New()
	now := time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)

	folder, err := f.svc.CreateFolder(
		context.Background(), userID, "day 12", nil,
		domain.CurveLong, domain.FolderKindScheduled,
	)
	require.NoError(t, err)

	cards, err := f.svc.AddItems(context.Background(), userID, folder.ID, f.seedVocab(t, 2))
	require.NoError(t, err)

	// Simulate a finished cycle.
	completedAt := now.Add(-time.Hour)
	folder.IsMastered = true
	folder.IsCompleted = true
	folder.CompletionCount = 1
	folder.AlarmActive = false
	folder.CompletedAt = &completedAt
	f.folders.Seed(folder)
	for _, c := range cards {
		mastered := c.Clone()
		mastered.Stage = 7
		mastered.IsMastered = true
		mastered.NextDueAt = nil
		f.cards.Seed(mastered)
	}

	restarted, err := f.svc.RestartFolder(context.Background(), userID, folder.ID, now)
	require.NoError(t, err)

	assert.False(t, restarted.IsMastered)
	assert.False(t, restarted.IsCompleted)
	assert.True(t, restarted.AlarmActive)
	assert.Nil(t, restarted.CompletedAt)
	assert.Equal(t, 1, restarted.CompletionCount, "completion count survives the restart")

	listed, err := f.cards.ListByFolder(context.Background(), folder.ID)
	require.NoError(t, err)
	for _, c := range listed {
		assert.Equal(t, 0, c.Stage)
		assert.False(t, c.IsMastered)
		require.NotNil(t, c.NextDueAt)
		assert.Equal(t, now, *c.NextDueAt)
	}

	assert.Contains(t, f.emitter.TypesEmitted(), events.EventFolderRestarted)
}

func TestRestartFolderIsIdempotent(t *testing.T) {
	t.Parallel()

	f := newFolderFixture(t)
	userID := uuid.New()

	folder, err := f.svc.CreateFolder(
		context.Background(), userID, "day 12", nil,
		domain.CurveLong, domain.FolderKindScheduled,
	)
	require.NoError(t, err)

	// Restarting a fresh folder changes nothing and emits nothing.
	restarted, err := f.svc.RestartFolder(context.Background(), userID, folder.ID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, folder.ID, restarted.ID)
	assert.False(t, restarted.IsCompleted)
	assert.Empty(t, f.emitter.Events())
}

func TestDeleteFolder(t *testing.T) {
	t.Parallel()

	f := newFolderFixture(t)
	userID := uuid.New()

	folder, err := f.svc.CreateFolder(
		context.Background(), userID, "day 12", nil,
		domain.CurveLong, domain.FolderKindScheduled,
	)
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteFolder(context.Background(), userID, folder.ID))

	_, err = f.folders.GetByID(context.Background(), folder.ID)
	assert.ErrorIs(t, err, store.ErrFolderNotFound)

	// Deleting again reports not found.
	err = f.svc.DeleteFolder(context.Background(), userID, folder.ID)
	assert.ErrorIs(t, err, store.ErrFolderNotFound)
}

func TestDashboardCounts(t *testing.T) {
	t.Parallel()

	f := newFolderFixture(t)
	userID := uuid.New()

	folder, err := f.svc.CreateFolder(
		context.Background(), userID, "day 12", nil,
		domain.CurveLong, domain.FolderKindScheduled,
	)
	require.NoError(t, err)

	cards, err := f.svc.AddItems(context.Background(), userID, folder.ID, f.seedVocab(t, 10))
	require.NoError(t, err)

	// Master six of ten.
	for _, c := range cards[:6] {
		mastered := c.Clone()
		mastered.IsMastered = true
		mastered.NextDueAt = nil
		f.cards.Seed(mastered)
	}

	summaries, err := f.svc.Dashboard(context.Background(), userID, time.Now().UTC())
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	assert.Equal(t, 10, summaries[0].TotalCards)
	assert.Equal(t, 6, summaries[0].MasteredCards)
	assert.Equal(t, 4, summaries[0].RemainingCards)
	// Fresh cards are due immediately, so the folder shows as due.
	assert.True(t, summaries[0].IsDue)
}

func TestDashboardRollsUpHierarchy(t *testing.T) {
	t.Parallel()

	f := newFolderFixture(t)
	userID := uuid.New()
	now := time.Now().UTC()

	root, err := f.svc.CreateFolder(
		context.Background(), userID, "level 1", nil,
		domain.CurveLong, domain.FolderKindScheduled,
	)
	require.NoError(t, err)

	chapter, err := f.svc.CreateFolder(
		context.Background(), userID, "chapter 1", &root.ID,
		domain.CurveLong, domain.FolderKindScheduled,
	)
	require.NoError(t, err)

	sectionA, err := f.svc.CreateFolder(
		context.Background(), userID, "section a", &chapter.ID,
		domain.CurveLong, domain.FolderKindScheduled,
	)
	require.NoError(t, err)

	sectionB, err := f.svc.CreateFolder(
		context.Background(), userID, "section b", &chapter.ID,
		domain.CurveLong, domain.FolderKindScheduled,
	)
	require.NoError(t, err)

	cardsA, err := f.svc.AddItems(context.Background(), userID, sectionA.ID, f.seedVocab(t, 4))
	require.NoError(t, err)
	_, err = f.svc.AddItems(context.Background(), userID, sectionB.ID, f.seedVocab(t, 2))
	require.NoError(t, err)

	// Master one card in section a.
	mastered := cardsA[0].Clone()
	mastered.IsMastered = true
	mastered.NextDueAt = nil
	f.cards.Seed(mastered)

	summaries, err := f.svc.Dashboard(context.Background(), userID, now)
	require.NoError(t, err)
	require.Len(t, summaries, 4)

	byID := map[uuid.UUID]service.FolderSummary{}
	for _, s := range summaries {
		byID[s.Folder.ID] = s
	}

	// Leaves keep their direct counts.
	assert.Equal(t, 4, byID[sectionA.ID].TotalCards)
	assert.Equal(t, 1, byID[sectionA.ID].MasteredCards)
	assert.Equal(t, 0, byID[sectionA.ID].ChildrenCount)

	// The chapter sums both sections.
	assert.Equal(t, 2, byID[chapter.ID].ChildrenCount)
	assert.Equal(t, 6, byID[chapter.ID].TotalCards)
	assert.Equal(t, 1, byID[chapter.ID].MasteredCards)
	assert.Equal(t, 5, byID[chapter.ID].RemainingCards)

	// The root sees the whole subtree through its single child.
	assert.Equal(t, 1, byID[root.ID].ChildrenCount)
	assert.Equal(t, 6, byID[root.ID].TotalCards)
	assert.True(t, byID[root.ID].IsDue, "due status bubbles up from descendants")
}

func TestDashboardDueStatus(t *testing.T) {
	t.Parallel()

	f := newFolderFixture(t)
	userID := uuid.New()
	now := time.Now().UTC()

	// A manual folder is due by declaration until completed, with no
	// schedule involved.
	manual, err := f.svc.CreateFolder(
		context.Background(), userID, "phrasebook", nil,
		domain.CurveFree, domain.FolderKindManual,
	)
	require.NoError(t, err)

	// A scheduled folder whose only card is not yet due.
	scheduled, err := f.svc.CreateFolder(
		context.Background(), userID, "day 13", nil,
		domain.CurveLong, domain.FolderKindScheduled,
	)
	require.NoError(t, err)

	cards, err := f.svc.AddItems(context.Background(), userID, scheduled.ID, f.seedVocab(t, 1))
	require.NoError(t, err)

	future := now.Add(24 * time.Hour)
	later := cards[0].Clone()
	later.NextDueAt = &future
	f.cards.Seed(later)

	summaries, err := f.svc.Dashboard(context.Background(), userID, now)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	byID := map[uuid.UUID]service.FolderSummary{}
	for _, s := range summaries {
		byID[s.Folder.ID] = s
	}

	assert.True(t, byID[manual.ID].IsDue)
	assert.False(t, byID[scheduled.ID].IsDue)
}
