// Package di wires the application together.
package di

import (
	"context"
	"fmt"

	cmdbus "samarth/internal/application/commands/bus"
	"samarth/internal/application/ports"
	"samarth/internal/application/queries"
	"samarth/internal/config"
	domain "samarth/internal/domain/dataset"
	infradataset "samarth/internal/infrastructure/dataset"
	"samarth/internal/infrastructure/observability"
	"samarth/internal/interfaces/http/rest"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config     *config.Config
	Logger     *zap.Logger
	Collector  *observability.Collector
	Tracer     *sdktrace.TracerProvider
	Backend    *Backend
	Source     ports.DatasetSource
	Holder     *infradataset.Holder
	Watcher    *infradataset.Watcher
	Dispatcher *queries.Dispatcher
	CommandBus *cmdbus.CommandBus
	Router     *rest.Router
}

// LoadDataset starts the file watcher if one is configured, then performs
// the initial load within the configured timeout. The watcher keeps running
// when the initial load fails so a corrected file is still picked up.
func (c *Container) LoadDataset(ctx context.Context) (*domain.Snapshot, error) {
	if c.Watcher != nil {
		c.Watcher.Start(ctx)
	}

	loadCtx, cancel := context.WithTimeout(ctx, c.Config.Dataset.LoadTimeout)
	defer cancel()

	snap, err := c.Holder.Reload(loadCtx)
	if err != nil {
		return nil, fmt.Errorf("initial dataset load: %w", err)
	}
	return snap, nil
}
