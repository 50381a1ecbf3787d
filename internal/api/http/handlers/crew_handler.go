package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/questforge/quest-board/internal/auth"
	"github.com/questforge/quest-board/internal/service"
	apperrors "github.com/questforge/quest-board/pkg/util"
)

// CrewHandler exposes adventurer join/leave endpoints.
type CrewHandler struct {
	crew *service.CrewService
}

// NewCrewHandler constructs handler.
func NewCrewHandler(crewService *service.CrewService) *CrewHandler {
	return &CrewHandler{crew: crewService}
}

// Join handles POST /quests/:quest_id/join.
func (h *CrewHandler) Join(c *fiber.Ctx) error {
	adventurerID, ok := auth.PrincipalID(c)
	if !ok {
		return apperrors.NewUnauthenticated("missing credentials")
	}
	questID, err := c.ParamsInt("quest_id")
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid quest id")
	}

	if err := h.crew.Join(c.Context(), int64(questID), adventurerID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": fiber.Map{"quest_id": questID}})
}

// Leave handles DELETE /quests/:quest_id/leave.
func (h *CrewHandler) Leave(c *fiber.Ctx) error {
	adventurerID, ok := auth.PrincipalID(c)
	if !ok {
		return apperrors.NewUnauthenticated("missing credentials")
	}
	questID, err := c.ParamsInt("quest_id")
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid quest id")
	}

	if err := h.crew.Leave(c.Context(), int64(questID), adventurerID); err != nil {
		return err
	}

	return c.SendStatus(http.StatusNoContent)
}
