package service_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/questforge/quest-board/internal/domain"
	"github.com/questforge/quest-board/internal/events"
	"github.com/questforge/quest-board/internal/persistence"
	"github.com/questforge/quest-board/internal/service"
)

func testCache(t *testing.T) *persistence.BoardCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return persistence.NewBoardCache(client, persistence.DefaultBoardCacheTTL)
}

type questFixture struct {
	store   *fakeQuestStore
	cache   *persistence.BoardCache
	quests  *service.QuestService
	board   *service.BoardService
	journey *service.JourneyService
	crew    *service.CrewService
}

func newQuestFixture(t *testing.T) *questFixture {
	t.Helper()
	store := newFakeQuestStore()
	cache := testCache(t)
	dispatcher := events.NewInMemoryDispatcher()
	logger := zap.NewNop()
	return &questFixture{
		store:   store,
		cache:   cache,
		quests:  service.NewQuestService(store, store, cache, dispatcher, logger),
		board:   service.NewBoardService(store, cache),
		journey: service.NewJourneyService(store, store, cache, dispatcher, logger),
		crew:    service.NewCrewService(store, store, cache, dispatcher, logger),
	}
}

func TestQuestService(t *testing.T) {
	ctx := context.Background()

	t.Run("add posts an open quest", func(t *testing.T) {
		fx := newQuestFixture(t)

		id, err := fx.quests.Add(ctx, 1, "Slay the wyvern", nil)
		require.NoError(t, err)

		view, err := fx.board.ViewDetails(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.QuestStatusOpen, view.Status)
		assert.Equal(t, int64(1), view.GuildCommanderID)
		assert.Zero(t, view.AdventurersCount)
	})

	t.Run("edit is limited to the owning commander", func(t *testing.T) {
		fx := newQuestFixture(t)
		id, err := fx.quests.Add(ctx, 1, "Slay the wyvern", nil)
		require.NoError(t, err)

		err = fx.quests.Edit(ctx, id, 2, "Steal the wyvern", nil)
		assert.Equal(t, "NOT_FOUND", errorCode(t, err))

		err = fx.quests.Edit(ctx, id, 1, "Tame the wyvern", nil)
		require.NoError(t, err)

		view, err := fx.board.ViewDetails(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Tame the wyvern", view.Name)
	})

	t.Run("edit rejected once the journey started", func(t *testing.T) {
		fx := newQuestFixture(t)
		id, err := fx.quests.Add(ctx, 1, "Slay the wyvern", nil)
		require.NoError(t, err)
		require.NoError(t, fx.journey.InJourney(ctx, id, 1))

		err = fx.quests.Edit(ctx, id, 1, "Too late", nil)
		assert.Equal(t, "VALIDATION_FAILED", errorCode(t, err))
	})

	t.Run("remove deletes the quest", func(t *testing.T) {
		fx := newQuestFixture(t)
		id, err := fx.quests.Add(ctx, 1, "Slay the wyvern", nil)
		require.NoError(t, err)

		require.NoError(t, fx.quests.Remove(ctx, id, 1))

		_, err = fx.board.ViewDetails(ctx, id)
		assert.Equal(t, "NOT_FOUND", errorCode(t, err))
	})

	t.Run("mutation invalidates cached views", func(t *testing.T) {
		fx := newQuestFixture(t)
		id, err := fx.quests.Add(ctx, 1, "Slay the wyvern", nil)
		require.NoError(t, err)

		// Prime the cache, then mutate and expect the fresh name.
		_, err = fx.board.ViewDetails(ctx, id)
		require.NoError(t, err)
		require.NoError(t, fx.quests.Edit(ctx, id, 1, "Tame the wyvern", nil))

		view, err := fx.board.ViewDetails(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Tame the wyvern", view.Name)
	})
}

func TestBoardService(t *testing.T) {
	ctx := context.Background()

	t.Run("detail view is served from cache on repeat reads", func(t *testing.T) {
		fx := newQuestFixture(t)
		id, err := fx.quests.Add(ctx, 1, "Slay the wyvern", nil)
		require.NoError(t, err)

		_, err = fx.board.ViewDetails(ctx, id)
		require.NoError(t, err)
		callsAfterFirst := fx.store.viewCalls

		_, err = fx.board.ViewDetails(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, callsAfterFirst, fx.store.viewCalls)
	})

	t.Run("board listing filters by status", func(t *testing.T) {
		fx := newQuestFixture(t)
		openID, err := fx.quests.Add(ctx, 1, "Open quest", nil)
		require.NoError(t, err)
		journeyID, err := fx.quests.Add(ctx, 1, "Running quest", nil)
		require.NoError(t, err)
		require.NoError(t, fx.journey.InJourney(ctx, journeyID, 1))

		open := domain.QuestStatusOpen
		views, err := fx.board.BoardChecking(ctx, domain.BoardFilter{Status: &open})
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, openID, views[0].ID)
	})

	t.Run("unknown quest is not found", func(t *testing.T) {
		fx := newQuestFixture(t)
		_, err := fx.board.ViewDetails(ctx, 999)
		assert.Equal(t, "NOT_FOUND", errorCode(t, err))
	})
}

func TestJourneyService(t *testing.T) {
	ctx := context.Background()

	t.Run("full journey lifecycle", func(t *testing.T) {
		fx := newQuestFixture(t)
		id, err := fx.quests.Add(ctx, 1, "Slay the wyvern", nil)
		require.NoError(t, err)

		require.NoError(t, fx.journey.InJourney(ctx, id, 1))
		require.NoError(t, fx.journey.ToFailed(ctx, id, 1))
		require.NoError(t, fx.journey.InJourney(ctx, id, 1))
		require.NoError(t, fx.journey.ToCompleted(ctx, id, 1))

		view, err := fx.board.ViewDetails(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.QuestStatusCompleted, view.Status)
	})

	t.Run("illegal transitions rejected", func(t *testing.T) {
		fx := newQuestFixture(t)
		id, err := fx.quests.Add(ctx, 1, "Slay the wyvern", nil)
		require.NoError(t, err)

		err = fx.journey.ToCompleted(ctx, id, 1)
		assert.Equal(t, "VALIDATION_FAILED", errorCode(t, err))

		require.NoError(t, fx.journey.InJourney(ctx, id, 1))
		err = fx.journey.InJourney(ctx, id, 1)
		assert.Equal(t, "VALIDATION_FAILED", errorCode(t, err))
	})

	t.Run("only the owning commander may move the quest", func(t *testing.T) {
		fx := newQuestFixture(t)
		id, err := fx.quests.Add(ctx, 1, "Slay the wyvern", nil)
		require.NoError(t, err)

		err = fx.journey.InJourney(ctx, id, 2)
		assert.Equal(t, "NOT_FOUND", errorCode(t, err))
	})
}

func TestCrewService(t *testing.T) {
	ctx := context.Background()

	t.Run("join and leave while open", func(t *testing.T) {
		fx := newQuestFixture(t)
		id, err := fx.quests.Add(ctx, 1, "Slay the wyvern", nil)
		require.NoError(t, err)

		require.NoError(t, fx.crew.Join(ctx, id, 10))

		view, err := fx.board.ViewDetails(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, int64(1), view.AdventurersCount)

		require.NoError(t, fx.crew.Leave(ctx, id, 10))

		view, err = fx.board.ViewDetails(ctx, id)
		require.NoError(t, err)
		assert.Zero(t, view.AdventurersCount)
	})

	t.Run("double join conflicts", func(t *testing.T) {
		fx := newQuestFixture(t)
		id, err := fx.quests.Add(ctx, 1, "Slay the wyvern", nil)
		require.NoError(t, err)

		require.NoError(t, fx.crew.Join(ctx, id, 10))
		err = fx.crew.Join(ctx, id, 10)
		assert.Equal(t, "CONFLICT", errorCode(t, err))
	})

	t.Run("crew is frozen while in journey", func(t *testing.T) {
		fx := newQuestFixture(t)
		id, err := fx.quests.Add(ctx, 1, "Slay the wyvern", nil)
		require.NoError(t, err)
		require.NoError(t, fx.crew.Join(ctx, id, 10))
		require.NoError(t, fx.journey.InJourney(ctx, id, 1))

		err = fx.crew.Join(ctx, id, 11)
		assert.Equal(t, "VALIDATION_FAILED", errorCode(t, err))
		err = fx.crew.Leave(ctx, id, 10)
		assert.Equal(t, "VALIDATION_FAILED", errorCode(t, err))
	})

	t.Run("leaving without joining is not found", func(t *testing.T) {
		fx := newQuestFixture(t)
		id, err := fx.quests.Add(ctx, 1, "Slay the wyvern", nil)
		require.NoError(t, err)

		err = fx.crew.Leave(ctx, id, 10)
		assert.Equal(t, "NOT_FOUND", errorCode(t, err))
	})
}
