package observability

import (
	"context"

	"samarth/internal/application/ports"
	"samarth/internal/domain/dataset"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const tracerName = "samarth/dataset"

// TracedSource wraps a dataset source so every load is recorded as a span.
type TracedSource struct {
	next ports.DatasetSource
}

// NewTracedSource wraps next.
func NewTracedSource(next ports.DatasetSource) *TracedSource {
	return &TracedSource{next: next}
}

// Load implements ports.DatasetSource.
func (s *TracedSource) Load(ctx context.Context) (*dataset.Snapshot, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "dataset.load")
	defer span.End()
	span.SetAttributes(attribute.String("dataset.source", s.next.Describe()))

	snap, err := s.next.Load(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("dataset.regions", snap.Len()),
		attribute.String("dataset.version", snap.Version()),
	)
	return snap, nil
}

// Describe implements ports.DatasetSource.
func (s *TracedSource) Describe() string { return s.next.Describe() }
