package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCreateAdminCommand() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Args:  cobra.NoArgs,
		Short: "Provision an administrator account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.close()

			admin, err := rt.authService().ProvisionAdmin(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin %d created for %s\n", admin.ID, admin.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
