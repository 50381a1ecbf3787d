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

// QuestService lets guild commanders manage their own quest postings.
type QuestService struct {
	ops        repository.QuestOpsRepository
	viewing    repository.QuestViewingRepository
	cache      *persistence.BoardCache
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewQuestService builds the service.
func NewQuestService(ops repository.QuestOpsRepository, viewing repository.QuestViewingRepository, cache *persistence.BoardCache, dispatcher events.Dispatcher, logger *zap.Logger) *QuestService {
	return &QuestService{ops: ops, viewing: viewing, cache: cache, dispatcher: dispatcher, logger: logger}
}

// Add posts a new quest for the commander. New quests always start Open.
func (s *QuestService) Add(ctx context.Context, guildCommanderID int64, name string, description *string) (int64, error) {
	quest := &domain.Quest{
		Name:             name,
		Description:      description,
		Status:           domain.QuestStatusOpen,
		GuildCommanderID: guildCommanderID,
	}

	id, err := s.ops.Add(ctx, quest)
	if err != nil {
		return 0, err
	}

	s.invalidate(ctx, id)
	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventQuestPosted,
		QuestID:   id,
		Actor:     events.Actor{Role: domain.RoleGuildCommander, PrincipalID: guildCommanderID},
		Timestamp: time.Now(),
		Payload:   events.QuestPostedPayload{Name: name},
	})
	return id, nil
}

// Edit updates a quest's name and description. Only the owning commander may
// edit, and only while the quest is Open or Failed.
func (s *QuestService) Edit(ctx context.Context, questID, guildCommanderID int64, name string, description *string) error {
	quest, err := s.mutableQuest(ctx, questID, guildCommanderID)
	if err != nil {
		return err
	}

	quest.Name = name
	quest.Description = description
	quest.GuildCommanderID = guildCommanderID

	if err := s.ops.Edit(ctx, quest); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("quest", map[string]any{"quest_id": questID})
		}
		return err
	}

	s.invalidate(ctx, questID)
	return nil
}

// Remove deletes a quest and its crew junction rows, under the same
// ownership and status rules as Edit.
func (s *QuestService) Remove(ctx context.Context, questID, guildCommanderID int64) error {
	if _, err := s.mutableQuest(ctx, questID, guildCommanderID); err != nil {
		return err
	}

	if err := s.ops.Remove(ctx, questID, guildCommanderID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("quest", map[string]any{"quest_id": questID})
		}
		return err
	}

	s.invalidate(ctx, questID)
	return nil
}

// mutableQuest loads a quest and checks it can still be changed by the
// given commander. Ownership failures read as not-found so commanders
// cannot probe each other's postings.
func (s *QuestService) mutableQuest(ctx context.Context, questID, guildCommanderID int64) (*domain.Quest, error) {
	quest, err := s.viewing.ViewDetails(ctx, questID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("quest", map[string]any{"quest_id": questID})
		}
		return nil, err
	}
	if quest.GuildCommanderID != guildCommanderID {
		return nil, apperrors.NewNotFound("quest", map[string]any{"quest_id": questID})
	}
	if !quest.Status.Joinable() {
		return nil, apperrors.NewValidationError("quest can no longer be changed", map[string]any{
			"status": quest.Status,
		})
	}
	return quest, nil
}

func (s *QuestService) invalidate(ctx context.Context, questID int64) {
	if err := s.cache.Invalidate(ctx, questID); err != nil {
		s.logger.Warn("board cache invalidation failed", zap.Int64("quest_id", questID), zap.Error(err))
	}
}

func (s *QuestService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
