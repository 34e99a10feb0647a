// Package cli implements the samarth command line.
package cli

import (
	"context"
	"os"

	"samarth/internal/config"
	"samarth/internal/di"

	"github.com/spf13/cobra"
)

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type globalOptions struct {
	configDir string
	env       string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:          "samarth",
		Short:        "Samarth answers questions about rainfall and crop production",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configDir, "config-dir", os.Getenv("CONFIG_DIR"), "directory holding base.yaml and <env>.yaml (default ./config)")
	cmd.PersistentFlags().StringVarP(&opts.env, "env", "e", string(config.GetEnvironment()), "environment: development, staging or production")

	cmd.AddCommand(serveCmd(opts))
	cmd.AddCommand(askCmd(opts))
	cmd.AddCommand(datasetCmd(opts))
	return cmd
}

func (o *globalOptions) loadConfig() (*config.Config, error) {
	return config.NewLoader(o.configDir, config.Environment(o.env)).Load()
}

// container loads configuration and wires the application. CLI commands
// other than serve log at warn level unless configured otherwise.
func (o *globalOptions) container(ctx context.Context, quiet bool) (*di.Container, func(), error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if quiet && (cfg.Logging.Level == "debug" || cfg.Logging.Level == "info") {
		cfg.Logging.Level = "warn"
	}
	return di.InitializeContainer(ctx, cfg)
}
