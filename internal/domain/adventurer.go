package domain

import "time"

// Adventurer is a player account that can browse the board and join quests.
type Adventurer struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
