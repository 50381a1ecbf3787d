package domain

import (
	"fmt"
	"time"
)

// QuestStatus enumerates the lifecycle states of a quest.
type QuestStatus string

const (
	QuestStatusOpen      QuestStatus = "Open"
	QuestStatusInJourney QuestStatus = "InJourney"
	QuestStatusCompleted QuestStatus = "Completed"
	QuestStatusFailed    QuestStatus = "Failed"
)

// ParseQuestStatus validates a serialized status value.
func ParseQuestStatus(value string) (QuestStatus, error) {
	switch QuestStatus(value) {
	case QuestStatusOpen, QuestStatusInJourney, QuestStatusCompleted, QuestStatusFailed:
		return QuestStatus(value), nil
	default:
		return "", fmt.Errorf("unknown quest status: %q", value)
	}
}

// Joinable reports whether adventurers may join or leave the quest crew,
// and whether the owning commander may still edit or delete it.
func (s QuestStatus) Joinable() bool {
	return s == QuestStatusOpen || s == QuestStatusFailed
}

// Quest is a posting on the guild board.
type Quest struct {
	ID               int64
	Name             string
	Description      *string
	Status           QuestStatus
	GuildCommanderID int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// QuestView is a quest enriched with its crew size for board display.
type QuestView struct {
	Quest
	AdventurersCount int64
}

// BoardFilter narrows board listings by name substring and/or status.
type BoardFilter struct {
	Name   *string
	Status *QuestStatus
}
