package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/questforge/quest-board/internal/config"
	"github.com/questforge/quest-board/internal/events"
)

// AnnouncementService broadcasts quest lifecycle events to the guild log and
// an optional webhook.
type AnnouncementService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.AnnounceConfig
}

// NewAnnouncementService creates the service.
func NewAnnouncementService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.AnnounceConfig) *AnnouncementService {
	return &AnnouncementService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to quest lifecycle events.
func (a *AnnouncementService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventQuestPosted, a.handleQuestPosted)
	a.dispatcher.Subscribe(events.EventQuestStatusChanged, a.handleQuestStatusChanged)
	a.dispatcher.Subscribe(events.EventCrewJoined, a.handleCrewChanged)
	a.dispatcher.Subscribe(events.EventCrewLeft, a.handleCrewChanged)
}

func (a *AnnouncementService) handleQuestPosted(ctx context.Context, event events.Event) error {
	a.logger.Info("QuestPosted", zap.Int64("quest_id", event.QuestID), zap.Any("payload", event.Payload))
	a.sendWebhookStub(ctx, event)
	return nil
}

func (a *AnnouncementService) handleQuestStatusChanged(ctx context.Context, event events.Event) error {
	a.logger.Info("QuestStatusChanged", zap.Int64("quest_id", event.QuestID), zap.Any("payload", event.Payload))
	a.sendWebhookStub(ctx, event)
	return nil
}

func (a *AnnouncementService) handleCrewChanged(ctx context.Context, event events.Event) error {
	a.logger.Info("CrewChanged",
		zap.String("event_type", string(event.Type)),
		zap.Int64("quest_id", event.QuestID),
		zap.Int64("adventurer_id", event.Actor.PrincipalID))
	return nil
}

func (a *AnnouncementService) sendWebhookStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(a.cfg.WebhookURL) == "" {
		return
	}
	a.logger.Debug("sendWebhookStub",
		zap.String("url", a.cfg.WebhookURL),
		zap.Int64("quest_id", event.QuestID),
		zap.String("event_type", string(event.Type)))
}
