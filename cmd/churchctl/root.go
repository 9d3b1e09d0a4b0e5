package main

import (
	"context"
	"encoding/json"
	"io"

	"churchops/internal/app"
	"churchops/internal/bootstrap"
	"churchops/internal/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootOptions struct {
	envFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:          "churchctl",
		Short:        "Operator tools for the attendance engine",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "Env file loaded before the process environment")

	cmd.AddCommand(newMigrateCmd(opts))
	cmd.AddCommand(newImportCmd(opts))
	cmd.AddCommand(newExportCmd(opts))
	return cmd
}

// setup loads config and the logger for a subcommand.
func (o *rootOptions) setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(o.envFile)
	if err != nil {
		return nil, nil, err
	}
	logger, err := bootstrap.NewLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func (o *rootOptions) connect(ctx context.Context, withRedis bool) (*app.Infra, error) {
	cfg, logger, err := o.setup()
	if err != nil {
		return nil, err
	}
	return app.Connect(ctx, cfg, logger, withRedis)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
