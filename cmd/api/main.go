package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/questforge/quest-board/internal/api/http"
	"github.com/questforge/quest-board/internal/api/http/handlers"
	"github.com/questforge/quest-board/internal/auth"
	"github.com/questforge/quest-board/internal/config"
	"github.com/questforge/quest-board/internal/events"
	"github.com/questforge/quest-board/internal/observability"
	"github.com/questforge/quest-board/internal/persistence"
	"github.com/questforge/quest-board/internal/repository"
	"github.com/questforge/quest-board/internal/service"
	"github.com/questforge/quest-board/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	adventurerRepo := repository.NewAdventurerRepository(pool)
	commanderRepo := repository.NewGuildCommanderRepository(pool)
	questOpsRepo := repository.NewQuestOpsRepository(pool)
	questViewRepo := repository.NewQuestViewingRepository(pool)
	crewRepo := repository.NewCrewRepository(pool)

	secrets := auth.NewSecrets(cfg.Auth)
	guard := auth.NewGuard(secrets, logger)
	boardCache := persistence.NewBoardCache(redis.Client, persistence.DefaultBoardCacheTTL)
	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(cfg.Auth, secrets, service.AuthDependencies{
		AdventurerRepo:     adventurerRepo,
		GuildCommanderRepo: commanderRepo,
	}, logger)
	questService := service.NewQuestService(questOpsRepo, questViewRepo, boardCache, dispatcher, logger)
	boardService := service.NewBoardService(questViewRepo, boardCache)
	journeyService := service.NewJourneyService(questOpsRepo, questViewRepo, boardCache, dispatcher, logger)
	crewService := service.NewCrewService(crewRepo, questViewRepo, boardCache, dispatcher, logger)

	announcementService := service.NewAnnouncementService(dispatcher, logger, cfg.Announce)
	worker.StartAnnouncementWorker(announcementService)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(pg, redis),
		Auth:   handlers.NewAuthHandler(authService, cfg.App.Stage),
		Board:  handlers.NewBoardHandler(boardService),
		Quests: handlers.NewQuestsHandler(questService, journeyService),
		Crew:   handlers.NewCrewHandler(crewService),
		Guard:  guard,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
