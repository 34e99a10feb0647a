package cli

import (
	"os"
	"os/signal"
	"syscall"

	"samarth/internal/interfaces/http/rest"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			container, cleanup, err := opts.container(ctx, false)
			if err != nil {
				return err
			}
			defer cleanup()

			logger := container.Logger
			logger.Info("Configuration loaded",
				zap.Strings("sources", container.Config.LoadedFrom),
				zap.String("dataset", container.Source.Describe()),
			)

			// The server starts either way; /ready reports 503 until a
			// snapshot is loaded.
			if _, err := container.LoadDataset(ctx); err != nil {
				logger.Error("Dataset not loaded", zap.Error(err))
			}

			cfg := container.Config.Server
			srv := rest.NewServer(cfg, container.Router.Setup())
			return rest.ListenAndServe(ctx, srv, cfg.ShutdownTimeout, logger)
		},
	}
}
