package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/signalement-service/internal/api/http"
	"github.com/spec-kit/signalement-service/internal/api/http/handlers"
	"github.com/spec-kit/signalement-service/internal/auth"
	"github.com/spec-kit/signalement-service/internal/config"
	"github.com/spec-kit/signalement-service/internal/events"
	"github.com/spec-kit/signalement-service/internal/observability"
	"github.com/spec-kit/signalement-service/internal/persistence"
	"github.com/spec-kit/signalement-service/internal/repository"
	"github.com/spec-kit/signalement-service/internal/repository/memory"
	"github.com/spec-kit/signalement-service/internal/service"
	"github.com/spec-kit/signalement-service/internal/worker"
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
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	repos := buildRepositories(pg, cfg.Auth.AdminSourceEnabled)

	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost, cfg.Auth.InsecureLegacyPlaintext, logger)
	if cfg.Auth.InsecureLegacyPlaintext {
		logger.Warn("AUTH_INSECURE_LEGACY_PLAINTEXT is enabled; non-bcrypt stored passwords are compared verbatim")
	}
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())

	dispatcher := events.NewInMemoryDispatcher()
	var publisher service.EventPublisher
	if redis != nil {
		publisher = redis
	}
	notifications := service.NewNotificationService(publisher, cfg.Redis.EventsChannel, metrics, logger)
	notificationWorker := worker.StartNotificationWorker(ctx, dispatcher, notifications, logger)

	authService := service.NewAuthService(service.AuthDependencies{
		CitizenRepo:  repos.citizens,
		AdminRepo:    repos.admins,
		Hasher:       hasher,
		TokenManager: tokens,
		Metrics:      metrics,
		Logger:       logger,
	})
	citizenService := service.NewCitizenService(repos.citizens, hasher, logger)
	reportService := service.NewReportService(service.ReportDependencies{
		ReportRepo:  repos.reports,
		CitizenRepo: repos.citizens,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})

	var dependencies []handlers.Dependency
	if pg.Enabled() {
		dependencies = append(dependencies, handlers.Dependency{Name: "postgres", Ping: pg.Ping})
	}
	if redis != nil {
		dependencies = append(dependencies, handlers.Dependency{Name: "redis", Ping: redis.Ping})
	}

	app := httptransport.NewServer(cfg.App, logger, metrics, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, dependencies...),
		Auth:           handlers.NewAuthHandler(authService),
		Citizens:       handlers.NewCitizensHandler(citizenService),
		Reports:        handlers.NewReportsHandler(reportService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, authService),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
	notificationWorker.Stop()
}

type repositories struct {
	citizens repository.CitizenRepository
	admins   repository.AdminRepository
	reports  repository.ReportRepository
}

// buildRepositories picks PostgreSQL when a pool is available and the
// in-memory store otherwise. admins stays nil when the admin source is
// disabled.
func buildRepositories(pg *persistence.Postgres, adminSourceEnabled bool) repositories {
	var repos repositories
	if pg.Enabled() {
		pool := pg.PoolHandle()
		repos = repositories{
			citizens: repository.NewCitizenRepository(pool),
			admins:   repository.NewAdminRepository(pool),
			reports:  repository.NewReportRepository(pool),
		}
	} else {
		store := memory.NewStore()
		repos = repositories{
			citizens: store.Citizens(),
			admins:   store.Admins(),
			reports:  store.Reports(),
		}
	}
	if !adminSourceEnabled {
		repos.admins = nil
	}
	return repos
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
