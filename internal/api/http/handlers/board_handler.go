package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/questforge/quest-board/internal/api/dto"
	"github.com/questforge/quest-board/internal/domain"
	"github.com/questforge/quest-board/internal/service"
)

// BoardHandler exposes the public quest board.
type BoardHandler struct {
	board *service.BoardService
}

// NewBoardHandler constructs handler.
func NewBoardHandler(boardService *service.BoardService) *BoardHandler {
	return &BoardHandler{board: boardService}
}

// ViewDetails handles GET /quests/:quest_id.
func (h *BoardHandler) ViewDetails(c *fiber.Ctx) error {
	questID, err := c.ParamsInt("quest_id")
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid quest id")
	}

	view, err := h.board.ViewDetails(c.Context(), int64(questID))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": dto.FromQuestView(*view)})
}

// BoardChecking handles GET /quests with optional name and status filters.
func (h *BoardHandler) BoardChecking(c *fiber.Ctx) error {
	var filter domain.BoardFilter

	if name := c.Query("name"); name != "" {
		filter.Name = &name
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status, err := domain.ParseQuestStatus(statusStr)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, "invalid status filter")
		}
		filter.Status = &status
	}

	views, err := h.board.BoardChecking(c.Context(), filter)
	if err != nil {
		return err
	}

	responses := make([]dto.QuestResponse, 0, len(views))
	for _, view := range views {
		responses = append(responses, dto.FromQuestView(view))
	}
	return c.JSON(fiber.Map{"data": responses})
}
