package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/questforge/quest-board/internal/api/dto"
	"github.com/questforge/quest-board/internal/auth"
	"github.com/questforge/quest-board/internal/service"
	apperrors "github.com/questforge/quest-board/pkg/util"
)

// QuestsHandler exposes guild-commander quest management endpoints.
type QuestsHandler struct {
	quests  *service.QuestService
	journey *service.JourneyService
}

// NewQuestsHandler constructs handler.
func NewQuestsHandler(questService *service.QuestService, journeyService *service.JourneyService) *QuestsHandler {
	return &QuestsHandler{quests: questService, journey: journeyService}
}

// Add handles POST /quests.
func (h *QuestsHandler) Add(c *fiber.Ctx) error {
	commanderID, ok := auth.PrincipalID(c)
	if !ok {
		return apperrors.NewUnauthenticated("missing credentials")
	}

	var req dto.AddQuestRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Name == "" {
		return fiber.NewError(http.StatusBadRequest, "name required")
	}

	id, err := h.quests.Add(c.Context(), commanderID, req.Name, req.Description)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{"id": id}})
}

// Edit handles PATCH /quests/:quest_id.
func (h *QuestsHandler) Edit(c *fiber.Ctx) error {
	commanderID, ok := auth.PrincipalID(c)
	if !ok {
		return apperrors.NewUnauthenticated("missing credentials")
	}
	questID, err := c.ParamsInt("quest_id")
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid quest id")
	}

	var req dto.EditQuestRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Name == "" {
		return fiber.NewError(http.StatusBadRequest, "name required")
	}

	if err := h.quests.Edit(c.Context(), int64(questID), commanderID, req.Name, req.Description); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": fiber.Map{"id": questID}})
}

// Remove handles DELETE /quests/:quest_id.
func (h *QuestsHandler) Remove(c *fiber.Ctx) error {
	commanderID, ok := auth.PrincipalID(c)
	if !ok {
		return apperrors.NewUnauthenticated("missing credentials")
	}
	questID, err := c.ParamsInt("quest_id")
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid quest id")
	}

	if err := h.quests.Remove(c.Context(), int64(questID), commanderID); err != nil {
		return err
	}

	return c.SendStatus(http.StatusNoContent)
}

// InJourney handles POST /quests/:quest_id/in-journey.
func (h *QuestsHandler) InJourney(c *fiber.Ctx) error {
	return h.transition(c, h.journey.InJourney)
}

// ToCompleted handles POST /quests/:quest_id/to-completed.
func (h *QuestsHandler) ToCompleted(c *fiber.Ctx) error {
	return h.transition(c, h.journey.ToCompleted)
}

// ToFailed handles POST /quests/:quest_id/to-failed.
func (h *QuestsHandler) ToFailed(c *fiber.Ctx) error {
	return h.transition(c, h.journey.ToFailed)
}

func (h *QuestsHandler) transition(c *fiber.Ctx, move func(ctx context.Context, questID, guildCommanderID int64) error) error {
	commanderID, ok := auth.PrincipalID(c)
	if !ok {
		return apperrors.NewUnauthenticated("missing credentials")
	}
	questID, err := c.ParamsInt("quest_id")
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid quest id")
	}

	if err := move(c.Context(), int64(questID), commanderID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": fiber.Map{"id": questID}})
}
