package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/questforge/quest-board/internal/domain"
	"github.com/questforge/quest-board/internal/events"
	"github.com/questforge/quest-board/internal/persistence"
	"github.com/questforge/quest-board/internal/repository"
	apperrors "github.com/questforge/quest-board/pkg/util"
)

// JourneyService drives quest status transitions on behalf of the owning
// guild commander. Allowed moves: Open/Failed -> InJourney -> Completed|Failed.
type JourneyService struct {
	ops        repository.QuestOpsRepository
	viewing    repository.QuestViewingRepository
	cache      *persistence.BoardCache
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewJourneyService builds the service.
func NewJourneyService(ops repository.QuestOpsRepository, viewing repository.QuestViewingRepository, cache *persistence.BoardCache, dispatcher events.Dispatcher, logger *zap.Logger) *JourneyService {
	return &JourneyService{ops: ops, viewing: viewing, cache: cache, dispatcher: dispatcher, logger: logger}
}

// InJourney marks an Open or Failed quest as underway.
func (s *JourneyService) InJourney(ctx context.Context, questID, guildCommanderID int64) error {
	return s.transition(ctx, questID, guildCommanderID, domain.QuestStatusInJourney,
		domain.QuestStatusOpen, domain.QuestStatusFailed)
}

// ToCompleted marks an in-journey quest as completed.
func (s *JourneyService) ToCompleted(ctx context.Context, questID, guildCommanderID int64) error {
	return s.transition(ctx, questID, guildCommanderID, domain.QuestStatusCompleted,
		domain.QuestStatusInJourney)
}

// ToFailed marks an in-journey quest as failed.
func (s *JourneyService) ToFailed(ctx context.Context, questID, guildCommanderID int64) error {
	return s.transition(ctx, questID, guildCommanderID, domain.QuestStatusFailed,
		domain.QuestStatusInJourney)
}

func (s *JourneyService) transition(ctx context.Context, questID, guildCommanderID int64, target domain.QuestStatus, allowedFrom ...domain.QuestStatus) error {
	quest, err := s.viewing.ViewDetails(ctx, questID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("quest", map[string]any{"quest_id": questID})
		}
		return err
	}
	if quest.GuildCommanderID != guildCommanderID {
		return apperrors.NewNotFound("quest", map[string]any{"quest_id": questID})
	}

	allowed := false
	for _, from := range allowedFrom {
		if quest.Status == from {
			allowed = true
			break
		}
	}
	if !allowed {
		return apperrors.NewValidationError("illegal quest status transition", map[string]any{
			"from": quest.Status,
			"to":   target,
		})
	}

	if err := s.ops.UpdateStatus(ctx, questID, guildCommanderID, target); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("quest", map[string]any{"quest_id": questID})
		}
		return err
	}

	if err := s.cache.Invalidate(ctx, questID); err != nil {
		s.logger.Warn("board cache invalidation failed", zap.Int64("quest_id", questID), zap.Error(err))
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventQuestStatusChanged,
			QuestID:   questID,
			Actor:     events.Actor{Role: domain.RoleGuildCommander, PrincipalID: guildCommanderID},
			Timestamp: time.Now(),
			Payload: events.QuestStatusChangedPayload{
				OldStatus: quest.Status,
				NewStatus: target,
			},
		})
	}
	return nil
}
