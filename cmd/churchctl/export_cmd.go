package main

import (
	"fmt"
	"os"
	"path/filepath"

	"churchops/internal/report"
	"churchops/internal/schedule"

	"github.com/spf13/cobra"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		query  report.Query
		format string
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the per-person attendance report to a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			infra, err := opts.connect(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer infra.Close()

			svc := report.NewService(
				report.NewRepository(infra.GormDB),
				schedule.NewRepository(infra.GormDB),
				nil, 0, infra.Logger,
			)
			file, err := svc.Export(cmd.Context(), query, format)
			if err != nil {
				return err
			}

			path := filepath.Join(outDir, file.Name)
			if err := os.WriteFile(path, file.Body, 0o644); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().IntVar(&query.Days, "days", report.DefaultDays, "Number of days back from today")
	cmd.Flags().StringVar(&query.ServiceTypeID, "service-type", "", "Only count services of this type id")
	cmd.Flags().StringVar(&query.Gender, "gender", "", "Only include people of this gender")
	cmd.Flags().StringVar(&query.RegionID, "region", "", "Region id")
	cmd.Flags().StringVar(&query.DirectionID, "direction", "", "Direction id")
	cmd.Flags().StringVar(&query.DepartmentID, "department", "", "Department id")
	cmd.Flags().StringVar(&query.TeamID, "team", "", "Team id")
	cmd.Flags().StringVar(&query.CellID, "cell", "", "Cell id")
	cmd.Flags().StringVar(&format, "format", "csv", "csv or xlsx")
	cmd.Flags().StringVar(&outDir, "out", ".", "Directory the file is written to")
	return cmd
}
