// Package commands holds the write side: replacing the stored dataset.
package commands

import (
	"context"
	"fmt"

	"samarth/internal/application/commands/bus"
	"samarth/internal/application/ports"
	"samarth/internal/domain/dataset"
	apperrors "samarth/internal/errors"

	"go.uber.org/zap"
)

// ImportDatasetCommand replaces the dataset held by the configured store.
type ImportDatasetCommand struct {
	Snapshot *dataset.Snapshot
}

// Validate validates the ImportDatasetCommand
func (c ImportDatasetCommand) Validate() error {
	if c.Snapshot == nil || c.Snapshot.Len() == 0 {
		return apperrors.Validation(apperrors.CodeInvalidDataset, "dataset has no regions").
			WithOperation("import_dataset").
			Build()
	}
	return nil
}

// Reloader reloads the snapshot in effect from the store.
type Reloader interface {
	Reload(ctx context.Context) (*dataset.Snapshot, error)
}

// ImportDatasetHandler writes the snapshot, then reloads it through the
// regular load path so a store that cannot read back what it was given is
// reported as a failed import.
type ImportDatasetHandler struct {
	writer   ports.SnapshotWriter
	reloader Reloader
	logger   *zap.Logger
}

// NewImportDatasetHandler creates a new ImportDatasetHandler. writer may be
// nil for read-only sources.
func NewImportDatasetHandler(writer ports.SnapshotWriter, reloader Reloader, logger *zap.Logger) *ImportDatasetHandler {
	return &ImportDatasetHandler{writer: writer, reloader: reloader, logger: logger}
}

// Handle implements bus.CommandHandler
func (h *ImportDatasetHandler) Handle(ctx context.Context, c bus.Command) error {
	cmd, ok := c.(ImportDatasetCommand)
	if !ok {
		return fmt.Errorf("unexpected command type %T", c)
	}
	if h.writer == nil {
		return apperrors.Validation(apperrors.CodeDatasetReadOnly, "dataset source cannot be written to").
			WithOperation("import_dataset").
			Build()
	}

	if err := h.writer.Write(ctx, cmd.Snapshot); err != nil {
		return apperrors.Unavailable(apperrors.CodeDatasetUnavailable, "failed to write dataset").
			WithOperation("import_dataset").
			WithCause(err).
			Build()
	}

	snap, err := h.reloader.Reload(ctx)
	if err != nil {
		return fmt.Errorf("read back imported dataset: %w", err)
	}
	if snap.Len() != cmd.Snapshot.Len() {
		return fmt.Errorf("read back %d regions, wrote %d", snap.Len(), cmd.Snapshot.Len())
	}

	h.logger.Info("Dataset imported",
		zap.Int("regions", snap.Len()),
		zap.String("source", snap.Source()),
		zap.String("version", snap.Version()),
	)
	return nil
}

// NewCommandBus registers the dataset command handlers.
func NewCommandBus(importer *ImportDatasetHandler, middlewares ...bus.Middleware) (*bus.CommandBus, error) {
	b := bus.NewCommandBus(middlewares...)
	if err := b.Register(ImportDatasetCommand{}, importer); err != nil {
		return nil, err
	}
	return b, nil
}
