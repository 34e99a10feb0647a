package queries

import (
	"context"
	"errors"
	"fmt"
	"time"

	"samarth/internal/application/answer"
	"samarth/internal/application/ports"
	"samarth/internal/application/queries/bus"
	"samarth/internal/domain/aggregate"
	"samarth/internal/domain/dataset"
	"samarth/internal/domain/intent"
	apperrors "samarth/internal/errors"

	"go.uber.org/zap"
)

// Answer outcomes reported to metrics.
const (
	OutcomeAnswered      = "answered"
	OutcomeNoData        = "no_data"
	OutcomeUnknownRegion = "unknown_region"
	OutcomeError         = "error"
)

// AskQuestionHandler classifies a question once, synthesizes once and returns
// the answer. Domain failures are turned into well-formed answers so that one
// bad question never surfaces as a transport error.
type AskQuestionHandler struct {
	snapshots   ports.SnapshotReader
	classifier  *intent.Classifier
	synthesizer *answer.Synthesizer
	metrics     ports.AnswerMetrics
	logger      *zap.Logger
}

// NewAskQuestionHandler creates a new AskQuestionHandler
func NewAskQuestionHandler(
	snapshots ports.SnapshotReader,
	classifier *intent.Classifier,
	synthesizer *answer.Synthesizer,
	metrics ports.AnswerMetrics,
	logger *zap.Logger,
) *AskQuestionHandler {
	return &AskQuestionHandler{
		snapshots:   snapshots,
		classifier:  classifier,
		synthesizer: synthesizer,
		metrics:     metrics,
		logger:      logger,
	}
}

// Handle implements bus.QueryHandler
func (h *AskQuestionHandler) Handle(ctx context.Context, q bus.Query) (interface{}, error) {
	query, ok := q.(AskQuestionQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", q)
	}

	snap := h.snapshots.Current()
	if snap == nil {
		return nil, apperrors.Unavailable(apperrors.CodeDatasetUnavailable, "dataset is not loaded").
			WithOperation("ask_question").
			Build()
	}

	classification := h.classifier.Classify(query.Question, snap)
	resp, err := h.synthesizer.Synthesize(classification, snap)
	if err == nil {
		h.observe(classification.Intent, OutcomeAnswered)
		return resp, nil
	}

	var (
		empty   *aggregate.EmptySeriesError
		unknown *dataset.UnknownRegionError
	)
	switch {
	case errors.As(err, &empty):
		h.logger.Warn("No data points for question",
			zap.String("intent", string(classification.Intent)),
			zap.String("snapshot", snap.Version()),
			zap.Error(err),
		)
		h.observe(classification.Intent, OutcomeNoData)
		return answer.NoDataResponse(classification.Intent), nil

	case errors.As(err, &unknown):
		h.logger.Warn("Question references a region missing from the dataset",
			zap.String("intent", string(classification.Intent)),
			zap.String("region", unknown.Region),
			zap.String("snapshot", snap.Version()),
		)
		h.observe(classification.Intent, OutcomeUnknownRegion)
		return answer.UnknownRegionResponse(unknown.Region), nil

	default:
		h.logger.Error("Failed to synthesize answer",
			zap.String("intent", string(classification.Intent)),
			zap.Error(err),
		)
		h.observe(classification.Intent, OutcomeError)
		return answer.FallbackResponse(), nil
	}
}

func (h *AskQuestionHandler) observe(kind intent.Intent, outcome string) {
	if h.metrics != nil {
		h.metrics.ObserveAnswer(string(kind), outcome)
	}
}

// DatasetSummary describes the snapshot in effect.
type DatasetSummary struct {
	Version  string                  `json:"version"`
	Source   string                  `json:"source"`
	LoadedAt time.Time               `json:"loaded_at"`
	Regions  []dataset.RegionSummary `json:"regions"`
}

// DatasetSummaryHandler answers DatasetSummaryQuery.
type DatasetSummaryHandler struct {
	snapshots ports.SnapshotReader
}

// NewDatasetSummaryHandler creates a new DatasetSummaryHandler
func NewDatasetSummaryHandler(snapshots ports.SnapshotReader) *DatasetSummaryHandler {
	return &DatasetSummaryHandler{snapshots: snapshots}
}

// Handle implements bus.QueryHandler
func (h *DatasetSummaryHandler) Handle(_ context.Context, _ bus.Query) (interface{}, error) {
	snap := h.snapshots.Current()
	if snap == nil {
		return nil, apperrors.Unavailable(apperrors.CodeDatasetUnavailable, "dataset is not loaded").
			WithOperation("dataset_summary").
			Build()
	}
	return DatasetSummary{
		Version:  snap.Version(),
		Source:   snap.Source(),
		LoadedAt: snap.LoadedAt(),
		Regions:  snap.Summary(),
	}, nil
}
