package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/signalement-service/internal/auth"
	"github.com/spec-kit/signalement-service/internal/config"
	"github.com/spec-kit/signalement-service/internal/observability"
	"github.com/spec-kit/signalement-service/internal/persistence"
	"github.com/spec-kit/signalement-service/internal/repository"
	"github.com/spec-kit/signalement-service/internal/service"
)

// cliEnv holds what every subcommand needs once configuration is loaded.
type cliEnv struct {
	cfg    *config.Config
	logger *zap.Logger
	pg     *persistence.Postgres
}

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "signalctl",
		Short:         "Operational commands for the signalement service",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(
		newMigrateCommand(),
		newCreateAdminCommand(),
		newSeedCommand(),
	)

	return rootCmd
}

// connect loads configuration and opens PostgreSQL. Every command here
// operates on the persistent store, so a DSN is mandatory.
func connect(ctx context.Context) (*cliEnv, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.Postgres.DSN == "" {
		return nil, errors.New("POSTGRES_DSN must be set")
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return nil, err
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, err
	}
	return &cliEnv{cfg: cfg, logger: logger, pg: pg}, nil
}

func (r *cliEnv) close() {
	r.pg.Close()
	_ = r.logger.Sync()
}

func (r *cliEnv) authService() *service.AuthService {
	pool := r.pg.PoolHandle()
	return service.NewAuthService(service.AuthDependencies{
		CitizenRepo:  repository.NewCitizenRepository(pool),
		AdminRepo:    repository.NewAdminRepository(pool),
		Hasher:       r.hasher(),
		TokenManager: auth.NewTokenManager(r.cfg.Auth.JWTSecret, r.cfg.Auth.AccessTokenTTL()),
		Logger:       r.logger,
	})
}

func (r *cliEnv) hasher() *auth.PasswordHasher {
	return auth.NewPasswordHasher(r.cfg.Auth.BcryptCost, false, r.logger)
}
