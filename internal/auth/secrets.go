package auth

import (
	"fmt"

	"github.com/questforge/quest-board/internal/config"
	"github.com/questforge/quest-board/internal/domain"
)

// SecretPair holds the signing secrets for one role's secret domain.
type SecretPair struct {
	Access  []byte
	Refresh []byte
}

// Secrets resolves, per principal role, the access and refresh signing
// secrets. It is built once at startup from validated configuration and is
// read-only afterwards, so it is safe for concurrent use.
type Secrets struct {
	adventurer     SecretPair
	guildCommander SecretPair
}

// NewSecrets builds the resolver from configuration. The config layer has
// already rejected empty or duplicated secrets.
func NewSecrets(cfg config.AuthConfig) *Secrets {
	return &Secrets{
		adventurer: SecretPair{
			Access:  []byte(cfg.AdventurerSecrets.AccessSecret),
			Refresh: []byte(cfg.AdventurerSecrets.RefreshSecret),
		},
		guildCommander: SecretPair{
			Access:  []byte(cfg.GuildCommanderSecrets.AccessSecret),
			Refresh: []byte(cfg.GuildCommanderSecrets.RefreshSecret),
		},
	}
}

// For returns the secret pair for the given role.
func (s *Secrets) For(role domain.Role) (SecretPair, error) {
	switch role {
	case domain.RoleAdventurer:
		return s.adventurer, nil
	case domain.RoleGuildCommander:
		return s.guildCommander, nil
	default:
		return SecretPair{}, fmt.Errorf("no secret domain for role %q", role)
	}
}
