package handlers

import (
	"net/http"
	"time"

	"samarth/internal/application/ports"
	"samarth/internal/interfaces/http/dto"
	"samarth/pkg/api"
)

const (
	StatusHealthy  = "healthy"
	StatusReady    = "ready"
	StatusNotReady = "not_ready"
)

// HealthHandler provides liveness and readiness probes.
type HealthHandler struct {
	snapshots ports.SnapshotReader
	now       func() time.Time
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(snapshots ports.SnapshotReader) *HealthHandler {
	return &HealthHandler{snapshots: snapshots, now: time.Now}
}

// Health handles GET /health. It answers as long as the process serves HTTP.
func (h *HealthHandler) Health(w http.ResponseWriter, _ *http.Request) {
	api.Success(w, http.StatusOK, dto.HealthResponse{Status: StatusHealthy, Timestamp: h.now()})
}

// Ready handles GET /ready. The service is ready once a snapshot is loaded.
func (h *HealthHandler) Ready(w http.ResponseWriter, _ *http.Request) {
	snap := h.snapshots.Current()
	if snap == nil {
		api.Success(w, http.StatusServiceUnavailable, dto.HealthResponse{Status: StatusNotReady, Timestamp: h.now()})
		return
	}
	api.Success(w, http.StatusOK, dto.HealthResponse{
		Status:         StatusReady,
		Timestamp:      h.now(),
		DatasetVersion: snap.Version(),
		DatasetRegions: snap.Len(),
	})
}
