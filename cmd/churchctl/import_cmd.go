package main

import (
	"fmt"
	"os"
	"path/filepath"

	"churchops/internal/cache"
	"churchops/internal/events"
	"churchops/internal/hierarchy"
	"churchops/internal/importer"
	"churchops/internal/messaging/kafka"
	"churchops/internal/person"

	"github.com/spf13/cobra"
)

func newImportCmd(opts *rootOptions) *cobra.Command {
	var (
		createMissing  bool
		updateExisting bool
		matchType      string
	)

	cmd := &cobra.Command{
		Use:   "import <file.csv|file.xlsx>",
		Short: "Import person assignments from a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := importer.ParseMatchMode(matchType)
			if err != nil {
				return err
			}

			infra, err := opts.connect(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer infra.Close()
			cfg := infra.Config

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			rows, err := importer.Parse(filepath.Base(args[0]), f, cfg.Import.MaxRows)
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			var outbox kafka.OutboxRepository
			if cfg.Kafka.Broker != "" {
				outbox = kafka.NewOutboxRepository(infra.GormDB)
			}
			svc := importer.NewService(
				infra.DB,
				person.NewRepository(infra.GormDB),
				hierarchy.NewRepository(infra.GormDB),
				outbox,
				events.Fanout(cache.NewInvalidator(infra.Redis, infra.Logger)),
				cfg.Import.MaxRows,
				infra.Logger,
			)

			summary, err := svc.Import(cmd.Context(), rows, importer.Options{
				CreateMissing:  createMissing,
				UpdateExisting: updateExisting,
				MatchMode:      mode,
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), summary)
		},
	}

	cmd.Flags().BoolVar(&createMissing, "create-missing", false, "Create people that match no existing record")
	cmd.Flags().BoolVar(&updateExisting, "update-existing", true, "Update matched people")
	cmd.Flags().StringVar(&matchType, "match-type", "exact", "Name matching: exact or fuzzy")
	return cmd
}
