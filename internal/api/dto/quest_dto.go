package dto

import (
	"time"

	"github.com/questforge/quest-board/internal/domain"
)

// AddQuestRequest payload for posting a quest.
type AddQuestRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// EditQuestRequest payload for editing a quest.
type EditQuestRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// QuestResponse is the board view of a quest.
type QuestResponse struct {
	ID               int64              `json:"id"`
	Name             string             `json:"name"`
	Description      *string            `json:"description,omitempty"`
	Status           domain.QuestStatus `json:"status"`
	GuildCommanderID int64              `json:"guild_commander_id"`
	AdventurersCount int64              `json:"adventurers_count"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// FromQuestView maps a domain view to the response shape.
func FromQuestView(view domain.QuestView) QuestResponse {
	return QuestResponse{
		ID:               view.ID,
		Name:             view.Name,
		Description:      view.Description,
		Status:           view.Status,
		GuildCommanderID: view.GuildCommanderID,
		AdventurersCount: view.AdventurersCount,
		CreatedAt:        view.CreatedAt,
		UpdatedAt:        view.UpdatedAt,
	}
}
