package domain

import "fmt"

// Role identifies the two principal kinds the service authenticates.
type Role string

const (
	RoleAdventurer     Role = "ADVENTURER"
	RoleGuildCommander Role = "GUILD_COMMANDER"
)

// ParseRole validates a serialized role value against the closed set.
func ParseRole(value string) (Role, error) {
	switch Role(value) {
	case RoleAdventurer:
		return RoleAdventurer, nil
	case RoleGuildCommander:
		return RoleGuildCommander, nil
	default:
		return "", fmt.Errorf("unknown role: %q", value)
	}
}
