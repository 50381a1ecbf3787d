package events

import (
	"time"

	"github.com/questforge/quest-board/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventQuestPosted        EventType = "quest_posted"
	EventQuestStatusChanged EventType = "quest_status_changed"
	EventCrewJoined         EventType = "crew_joined"
	EventCrewLeft           EventType = "crew_left"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Role        domain.Role `json:"role"`
	PrincipalID int64       `json:"principal_id"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	QuestID   int64       `json:"quest_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// QuestPostedPayload payload.
type QuestPostedPayload struct {
	Name string `json:"name"`
}

// QuestStatusChangedPayload payload.
type QuestStatusChangedPayload struct {
	OldStatus domain.QuestStatus `json:"old_status"`
	NewStatus domain.QuestStatus `json:"new_status"`
}

// CrewChangedPayload payload for join/leave events.
type CrewChangedPayload struct {
	AdventurerID int64 `json:"adventurer_id"`
}
