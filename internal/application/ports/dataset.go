// Package ports declares the interfaces the application layer needs from infrastructure.
package ports

import (
	"context"

	"samarth/internal/domain/dataset"
)

// DatasetSource loads a complete, validated snapshot from some backing store.
type DatasetSource interface {
	Load(ctx context.Context) (*dataset.Snapshot, error)
	// Describe names the source for logs and snapshot metadata.
	Describe() string
}

// SnapshotReader hands out the snapshot currently in effect. A nil snapshot
// means no dataset has been loaded yet.
type SnapshotReader interface {
	Current() *dataset.Snapshot
}

// AnswerMetrics records per-question outcomes.
type AnswerMetrics interface {
	ObserveAnswer(intent string, outcome string)
}

// DatasetSourceFunc adapts a function to DatasetSource.
type DatasetSourceFunc func(ctx context.Context) (*dataset.Snapshot, error)

// Load implements DatasetSource.
func (f DatasetSourceFunc) Load(ctx context.Context) (*dataset.Snapshot, error) { return f(ctx) }

// Describe implements DatasetSource.
func (f DatasetSourceFunc) Describe() string { return "func" }

// SnapshotWriter replaces the dataset held by a backing store.
type SnapshotWriter interface {
	Write(ctx context.Context, snap *dataset.Snapshot) error
}

// SnapshotWriterFunc adapts a function to SnapshotWriter.
type SnapshotWriterFunc func(ctx context.Context, snap *dataset.Snapshot) error

// Write implements SnapshotWriter.
func (f SnapshotWriterFunc) Write(ctx context.Context, snap *dataset.Snapshot) error { return f(ctx, snap) }
