package commands

import (
	"github.com/spf13/cobra"

	"github.com/spec-kit/signalement-service/internal/persistence"
)

func newMigrateCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Args:  cobra.NoArgs,
		Short: "Apply SQL migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.close()

			if dir == "" {
				dir = rt.cfg.Postgres.MigrationsDir
			}
			return persistence.RunMigrations(cmd.Context(), rt.pg.PoolHandle(), dir, rt.logger)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "migrations directory (defaults to POSTGRES_MIGRATIONS_DIR)")
	return cmd
}
