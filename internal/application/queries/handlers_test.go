package queries_test

import (
	"context"
	"strings"
	"testing"

	"samarth/internal/application/answer"
	"samarth/internal/application/queries"
	"samarth/internal/application/queries/bus"
	"samarth/internal/domain/dataset"
	"samarth/internal/domain/intent"
	apperrors "samarth/internal/errors"
	"samarth/internal/infrastructure/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockSnapshots struct {
	mock.Mock
}

func (m *mockSnapshots) Current() *dataset.Snapshot {
	args := m.Called()
	if snap := args.Get(0); snap != nil {
		return snap.(*dataset.Snapshot)
	}
	return nil
}

type mockAnswerMetrics struct {
	mock.Mock
}

func (m *mockAnswerMetrics) ObserveAnswer(kind, outcome string) {
	m.Called(kind, outcome)
}

func newDispatcher(t *testing.T, snap *dataset.Snapshot, metrics *mockAnswerMetrics) *queries.Dispatcher {
	t.Helper()
	snapshots := new(mockSnapshots)
	snapshots.On("Current").Return(snap)

	ask := queries.NewAskQuestionHandler(
		snapshots,
		intent.NewClassifier(),
		answer.NewSynthesizer(),
		metrics,
		zap.NewNop(),
	)
	d, err := queries.NewDispatcher(bus.NewQueryBus(), ask, queries.NewDatasetSummaryHandler(snapshots))
	require.NoError(t, err)
	return d
}

func TestDispatcher_Ask_Answered(t *testing.T) {
	tests := []struct {
		name     string
		question string
		intent   intent.Intent
		labels   []string
		values   []float64
	}{
		{
			name:     "rainfall comparison",
			question: "Compare rainfall in Punjab and Haryana",
			intent:   intent.RainfallCompare,
			labels:   []string{"Punjab", "Haryana"},
			values:   []float64{786.67, 600},
		},
		{
			name:     "national average",
			question: "Average rainfall in India",
			intent:   intent.RainfallAverage,
			labels:   []string{},
			values:   []float64{},
		},
		{
			name:     "top crops",
			question: "Top 3 crops in Punjab",
			intent:   intent.TopCrops,
			labels:   []string{"Wheat", "Rice"},
			values:   []float64{16000, 14000},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metrics := new(mockAnswerMetrics)
			metrics.On("ObserveAnswer", string(tt.intent), queries.OutcomeAnswered).Once()

			resp, err := newDispatcher(t, memory.MustSample(), metrics).Ask(context.Background(), tt.question)

			require.NoError(t, err)
			assert.Equal(t, tt.intent, resp.Type)
			assert.Equal(t, tt.labels, resp.Labels)
			assert.Equal(t, tt.values, resp.Values)
			metrics.AssertExpectations(t)
		})
	}
}

func TestDispatcher_Ask_Fallback(t *testing.T) {
	metrics := new(mockAnswerMetrics)
	metrics.On("ObserveAnswer", string(intent.Fallback), queries.OutcomeAnswered).Twice()
	d := newDispatcher(t, memory.MustSample(), metrics)

	for _, question := range []string{"", "what is the weather tomorrow"} {
		resp, err := d.Ask(context.Background(), question)
		require.NoError(t, err)
		assert.Equal(t, answer.FallbackResponse(), resp)
	}
	metrics.AssertExpectations(t)
}

func TestDispatcher_Ask_EmptySeries(t *testing.T) {
	snap, err := dataset.NewBuilder().
		AddRegion("Punjab").
		AddRainfall("Haryana", 600).
		Build()
	require.NoError(t, err)

	metrics := new(mockAnswerMetrics)
	metrics.On("ObserveAnswer", string(intent.RainfallCompare), queries.OutcomeNoData).Once()

	resp, err := newDispatcher(t, snap, metrics).Ask(context.Background(), "compare rainfall in punjab and haryana")

	require.NoError(t, err)
	assert.Equal(t, answer.NoDataResponse(intent.RainfallCompare), resp)
	assert.Equal(t, answer.RainfallCitation, resp.Citation)
	metrics.AssertExpectations(t)
}

func TestDispatcher_Ask_UnknownRegion(t *testing.T) {
	snap, err := dataset.NewBuilder().AddRainfall("Punjab", 800).Build()
	require.NoError(t, err)

	metrics := new(mockAnswerMetrics)
	metrics.On("ObserveAnswer", string(intent.RainfallCompare), queries.OutcomeUnknownRegion).Once()

	resp, err := newDispatcher(t, snap, metrics).Ask(context.Background(), "Compare rainfall in Punjab and Haryana")

	require.NoError(t, err)
	assert.Equal(t, intent.Fallback, resp.Type)
	assert.Contains(t, resp.Text, "Haryana")
	assert.Equal(t, answer.Suggestions(), resp.Suggestions)
	metrics.AssertExpectations(t)
}

func TestDispatcher_Ask_NoSnapshot(t *testing.T) {
	metrics := new(mockAnswerMetrics)

	_, err := newDispatcher(t, nil, metrics).Ask(context.Background(), "Average rainfall in India")

	require.Error(t, err)
	assert.True(t, apperrors.IsUnavailable(err))
	metrics.AssertNotCalled(t, "ObserveAnswer", mock.Anything, mock.Anything)
}

func TestDispatcher_Ask_QuestionTooLong(t *testing.T) {
	metrics := new(mockAnswerMetrics)
	d := newDispatcher(t, memory.MustSample(), metrics)

	_, err := d.Ask(context.Background(), strings.Repeat("a", queries.MaxQuestionLength+1))
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	metrics.On("ObserveAnswer", string(intent.Fallback), queries.OutcomeAnswered).Once()
	_, err = d.Ask(context.Background(), strings.Repeat("é", queries.MaxQuestionLength))
	assert.NoError(t, err)
	metrics.AssertExpectations(t)
}

func TestDispatcher_DatasetSummary(t *testing.T) {
	snap := memory.MustSample()

	summary, err := newDispatcher(t, snap, new(mockAnswerMetrics)).DatasetSummary(context.Background())

	require.NoError(t, err)
	assert.Equal(t, snap.Version(), summary.Version)
	assert.Equal(t, memory.SourceName, summary.Source)
	require.Len(t, summary.Regions, 3)
	assert.Equal(t, "Punjab", summary.Regions[0].Name)

	_, err = newDispatcher(t, nil, new(mockAnswerMetrics)).DatasetSummary(context.Background())
	assert.True(t, apperrors.IsUnavailable(err))
}

func TestNewDispatcher_DuplicateRegistration(t *testing.T) {
	snapshots := new(mockSnapshots)
	queryBus := bus.NewQueryBus()
	ask := queries.NewAskQuestionHandler(snapshots, intent.NewClassifier(), answer.NewSynthesizer(), nil, zap.NewNop())
	summary := queries.NewDatasetSummaryHandler(snapshots)

	_, err := queries.NewDispatcher(queryBus, ask, summary)
	require.NoError(t, err)
	_, err = queries.NewDispatcher(queryBus, ask, summary)
	assert.Error(t, err)
}
