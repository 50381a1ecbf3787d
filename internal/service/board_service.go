package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/questforge/quest-board/internal/domain"
	"github.com/questforge/quest-board/internal/persistence"
	"github.com/questforge/quest-board/internal/repository"
	apperrors "github.com/questforge/quest-board/pkg/util"
)

// BoardService serves public, cacheable views of the quest board.
type BoardService struct {
	viewing repository.QuestViewingRepository
	cache   *persistence.BoardCache
}

// NewBoardService builds the service.
func NewBoardService(viewing repository.QuestViewingRepository, cache *persistence.BoardCache) *BoardService {
	return &BoardService{viewing: viewing, cache: cache}
}

// ViewDetails returns one quest with its crew size.
func (s *BoardService) ViewDetails(ctx context.Context, questID int64) (*domain.QuestView, error) {
	if view, ok := s.cache.GetQuest(ctx, questID); ok {
		return view, nil
	}

	quest, err := s.viewing.ViewDetails(ctx, questID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("quest", map[string]any{"quest_id": questID})
		}
		return nil, err
	}

	count, err := s.viewing.AdventurersCount(ctx, questID)
	if err != nil {
		return nil, err
	}

	view := &domain.QuestView{Quest: *quest, AdventurersCount: count}
	s.cache.SetQuest(ctx, view)
	return view, nil
}

// BoardChecking lists quests matching the filter, each with its crew size.
func (s *BoardService) BoardChecking(ctx context.Context, filter domain.BoardFilter) ([]domain.QuestView, error) {
	if views, ok := s.cache.GetBoard(ctx, filter); ok {
		return views, nil
	}

	quests, err := s.viewing.BoardChecking(ctx, filter)
	if err != nil {
		return nil, err
	}

	views := make([]domain.QuestView, 0, len(quests))
	for _, quest := range quests {
		count, err := s.viewing.AdventurersCount(ctx, quest.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, domain.QuestView{Quest: quest, AdventurersCount: count})
	}

	s.cache.SetBoard(ctx, filter, views)
	return views, nil
}
