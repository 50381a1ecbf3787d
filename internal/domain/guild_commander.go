package domain

import "time"

// GuildCommander posts quests to the board and drives their journey status.
type GuildCommander struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
