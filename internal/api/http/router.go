package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/questforge/quest-board/internal/api/http/handlers"
	"github.com/questforge/quest-board/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health *handlers.HealthHandler
	Auth   *handlers.AuthHandler
	Board  *handlers.BoardHandler
	Quests *handlers.QuestsHandler
	Crew   *handlers.CrewHandler
	Guard  *auth.Guard
}

// RegisterRoutes wires HTTP routes. The guard binds each protected group to
// the role whose access secret must verify the bearer token.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/adventurers/login", cfg.Auth.AdventurerLogin)
	authGroup.Post("/adventurers/refresh", cfg.Auth.AdventurerRefresh)
	authGroup.Post("/guild-commanders/login", cfg.Auth.GuildCommanderLogin)
	authGroup.Post("/guild-commanders/refresh", cfg.Auth.GuildCommanderRefresh)

	app.Post("/adventurers", cfg.Auth.AdventurerRegister)
	app.Post("/guild-commanders", cfg.Auth.GuildCommanderRegister)

	// The two guards cover different routes under the same prefix, so they
	// are attached per-route rather than as group middleware.
	commanderOnly := cfg.Guard.RequireGuildCommander()
	adventurerOnly := cfg.Guard.RequireAdventurer()

	quests := app.Group("/quests")
	quests.Get("/", cfg.Board.BoardChecking)
	quests.Get("/:quest_id", cfg.Board.ViewDetails)

	quests.Post("/", commanderOnly, cfg.Quests.Add)
	quests.Patch("/:quest_id", commanderOnly, cfg.Quests.Edit)
	quests.Delete("/:quest_id", commanderOnly, cfg.Quests.Remove)
	quests.Post("/:quest_id/in-journey", commanderOnly, cfg.Quests.InJourney)
	quests.Post("/:quest_id/to-completed", commanderOnly, cfg.Quests.ToCompleted)
	quests.Post("/:quest_id/to-failed", commanderOnly, cfg.Quests.ToFailed)

	quests.Post("/:quest_id/join", adventurerOnly, cfg.Crew.Join)
	quests.Delete("/:quest_id/leave", adventurerOnly, cfg.Crew.Leave)
}
