package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/questforge/quest-board/internal/domain"
	"github.com/questforge/quest-board/internal/events"
	"github.com/questforge/quest-board/internal/persistence"
	"github.com/questforge/quest-board/internal/repository"
	apperrors "github.com/questforge/quest-board/pkg/util"
)

// CrewService lets adventurers join and leave quest crews while the quest
// is still Open or Failed.
type CrewService struct {
	crew       repository.CrewRepository
	viewing    repository.QuestViewingRepository
	cache      *persistence.BoardCache
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewCrewService builds the service.
func NewCrewService(crew repository.CrewRepository, viewing repository.QuestViewingRepository, cache *persistence.BoardCache, dispatcher events.Dispatcher, logger *zap.Logger) *CrewService {
	return &CrewService{crew: crew, viewing: viewing, cache: cache, dispatcher: dispatcher, logger: logger}
}

// Join adds the adventurer to the quest crew.
func (s *CrewService) Join(ctx context.Context, questID, adventurerID int64) error {
	if err := s.checkJoinable(ctx, questID); err != nil {
		return err
	}

	if err := s.crew.Join(ctx, questID, adventurerID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperrors.NewConflict("already part of the quest crew", nil)
		}
		return err
	}

	s.afterChange(ctx, questID, adventurerID, events.EventCrewJoined)
	return nil
}

// Leave removes the adventurer from the quest crew.
func (s *CrewService) Leave(ctx context.Context, questID, adventurerID int64) error {
	if err := s.checkJoinable(ctx, questID); err != nil {
		return err
	}

	if err := s.crew.Leave(ctx, questID, adventurerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("crew membership", map[string]any{"quest_id": questID})
		}
		return err
	}

	s.afterChange(ctx, questID, adventurerID, events.EventCrewLeft)
	return nil
}

func (s *CrewService) checkJoinable(ctx context.Context, questID int64) error {
	quest, err := s.viewing.ViewDetails(ctx, questID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("quest", map[string]any{"quest_id": questID})
		}
		return err
	}
	if !quest.Status.Joinable() {
		return apperrors.NewValidationError("quest is not accepting crew changes", map[string]any{
			"status": quest.Status,
		})
	}
	return nil
}

func (s *CrewService) afterChange(ctx context.Context, questID, adventurerID int64, eventType events.EventType) {
	if err := s.cache.Invalidate(ctx, questID); err != nil {
		s.logger.Warn("board cache invalidation failed", zap.Int64("quest_id", questID), zap.Error(err))
	}
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      eventType,
			QuestID:   questID,
			Actor:     events.Actor{Role: domain.RoleAdventurer, PrincipalID: adventurerID},
			Timestamp: time.Now(),
			Payload:   events.CrewChangedPayload{AdventurerID: adventurerID},
		})
	}
}
