package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spec-kit/signalement-service/internal/domain"
	"github.com/spec-kit/signalement-service/internal/repository"
	"github.com/spec-kit/signalement-service/internal/search"
	"github.com/spec-kit/signalement-service/internal/service"
)

const seedEmail = "jean.dupont@example.com"

func newSeedCommand() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "seed",
		Args:  cobra.NoArgs,
		Short: "Insert demo data: one citizen and one report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.close()

			ctx := cmd.Context()
			pool := rt.pg.PoolHandle()
			citizenRepo := repository.NewCitizenRepository(pool)
			reportRepo := repository.NewReportRepository(pool)

			citizen, err := citizenRepo.GetByEmail(ctx, seedEmail)
			if errors.Is(err, domain.ErrNotFound) {
				citizen, err = service.NewCitizenService(citizenRepo, rt.hasher(), rt.logger).Register(ctx, service.CitizenRegistration{
					Email:     seedEmail,
					Password:  password,
					FirstName: "Jean",
					LastName:  "Dupont",
				})
			}
			if err != nil {
				return err
			}

			existing, err := reportRepo.Search(ctx, search.Criteria{CitizenID: citizen.ID, Title: "Lampadaire cassé"})
			if err != nil {
				return err
			}
			if len(existing) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "seed data already present")
				return nil
			}

			reports := service.NewReportService(service.ReportDependencies{
				ReportRepo:  reportRepo,
				CitizenRepo: citizenRepo,
				Logger:      rt.logger,
			})
			report, err := reports.Create(ctx, domain.CitizenIdentity(citizen), service.ReportCreateInput{
				CitizenID:   citizen.ID,
				Title:       "Lampadaire cassé",
				Location:    "Place de la République",
				City:        "Paris",
				Description: "Un lampadaire ne fonctionne plus.",
				Category:    domain.CategoryAdmin,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "seeded citizen %d and report %d\n", citizen.ID, report.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "changeme", "password for the demo citizen")
	return cmd
}
