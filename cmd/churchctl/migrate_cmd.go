package main

import (
	"database/sql"

	"churchops/internal/database"

	"github.com/spf13/cobra"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	step := func(use, short string, run func(*sql.DB) error) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				infra, err := opts.connect(cmd.Context(), false)
				if err != nil {
					return err
				}
				defer infra.Close()
				return run(infra.DB)
			},
		}
	}

	cmd.AddCommand(
		step("up", "Apply every pending migration", database.Migrate),
		step("down", "Revert the most recent migration", database.Rollback),
		step("status", "Show the applied state of every migration", database.Status),
	)
	return cmd
}
