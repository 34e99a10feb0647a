// Package dataset keeps the snapshot in effect and swaps it on reload.
package dataset

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"samarth/internal/application/ports"
	domain "samarth/internal/domain/dataset"

	"go.uber.org/zap"
)

// ReloadObserver is notified after every load attempt.
type ReloadObserver interface {
	ObserveReload(source string, err error, regions int, loadedAt time.Time)
}

// Holder owns the snapshot in effect. Readers always see either the previous
// snapshot or the new one in full; a failed reload keeps the previous one.
type Holder struct {
	source   ports.DatasetSource
	current  atomic.Pointer[domain.Snapshot]
	observer ReloadObserver
	logger   *zap.Logger

	// reloads are serialized so an older load cannot overwrite a newer one
	mu sync.Mutex
}

// NewHolder creates a holder that loads from source. Nothing is loaded until
// Reload is called.
func NewHolder(source ports.DatasetSource, observer ReloadObserver, logger *zap.Logger) *Holder {
	return &Holder{source: source, observer: observer, logger: logger}
}

// Current implements ports.SnapshotReader.
func (h *Holder) Current() *domain.Snapshot {
	return h.current.Load()
}

// Ready reports whether a snapshot has been loaded.
func (h *Holder) Ready() bool {
	return h.current.Load() != nil
}

// Store publishes snap directly.
func (h *Holder) Store(snap *domain.Snapshot) {
	h.current.Store(snap)
}

// Reload loads a fresh snapshot and publishes it.
func (h *Holder) Reload(ctx context.Context) (*domain.Snapshot, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	name := h.source.Describe()
	start := time.Now()
	snap, err := h.source.Load(ctx)
	if err == nil && snap == nil {
		err = fmt.Errorf("source %s returned no snapshot", name)
	}
	if err != nil {
		h.observe(name, err, 0, time.Time{})
		h.logger.Error("Dataset reload failed, keeping previous snapshot",
			zap.String("source", name),
			zap.Bool("has_previous", h.Ready()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("load dataset from %s: %w", name, err)
	}

	previous := h.current.Swap(snap)
	h.observe(name, nil, snap.Len(), snap.LoadedAt())

	fields := []zap.Field{
		zap.String("source", name),
		zap.String("version", snap.Version()),
		zap.Int("regions", snap.Len()),
		zap.Duration("duration", time.Since(start)),
	}
	if previous != nil {
		fields = append(fields, zap.String("previous_version", previous.Version()))
	}
	h.logger.Info("Dataset loaded", fields...)
	return snap, nil
}

func (h *Holder) observe(source string, err error, regions int, loadedAt time.Time) {
	if h.observer != nil {
		h.observer.ObserveReload(source, err, regions, loadedAt)
	}
}
