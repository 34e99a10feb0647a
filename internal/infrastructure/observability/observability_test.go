package observability_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"samarth/internal/application/ports"
	"samarth/internal/domain/dataset"
	"samarth/internal/infrastructure/observability"
	"samarth/internal/infrastructure/persistence/memory"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestCollector_IndependentRegistries(t *testing.T) {
	a := observability.NewCollector("samarth")
	b := observability.NewCollector("samarth")

	a.ObserveAnswer("top_crops", "answered")

	assert.Equal(t, 1.0, testutil.ToFloat64(a.Answers.WithLabelValues("top_crops", "answered")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Answers.WithLabelValues("top_crops", "answered")))
}

func TestCollector_ObserveReload(t *testing.T) {
	c := observability.NewCollector("samarth")
	loadedAt := time.Unix(1700000000, 0)

	c.ObserveReload("file", nil, 3, loadedAt)
	c.ObserveReload("file", errors.New("bad yaml"), 0, time.Time{})

	assert.Equal(t, 1.0, testutil.ToFloat64(c.DatasetReloads.WithLabelValues("file", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.DatasetReloads.WithLabelValues("file", "error")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.DatasetRegions))
	assert.Equal(t, 1700000000.0, testutil.ToFloat64(c.DatasetLoaded))
}

func TestCollector_QueryBusMetrics(t *testing.T) {
	c := observability.NewCollector("samarth")

	timer := c.StartTimer("query_duration", "AskQuestionQuery")
	c.Increment("query_count", "AskQuestionQuery")
	timer.Stop()

	assert.Equal(t, 1.0, testutil.ToFloat64(c.Queries.WithLabelValues("query_count", "AskQuestionQuery")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.QueryDuration))
}

func TestCollector_Handler(t *testing.T) {
	c := observability.NewCollector("samarth")
	c.ObserveAnswer("fallback", "answered")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `samarth_answers_total{intent="fallback",outcome="answered"} 1`)
}

func TestMetricsMiddleware(t *testing.T) {
	c := observability.NewCollector("samarth")
	r := chi.NewRouter()
	r.Use(observability.MetricsMiddleware(c))
	r.Get("/api/suggestions", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})
	r.Post("/api/ask", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/suggestions", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader("{")))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.HTTPRequests.WithLabelValues("GET", "/api/suggestions", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.HTTPRequests.WithLabelValues("POST", "/api/ask", "400")))
}

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = provider.Shutdown(context.Background())
	})
	return recorder
}

func TestTracingMiddleware(t *testing.T) {
	recorder := withRecorder(t)

	r := chi.NewRouter()
	r.Use(observability.TracingMiddleware("samarth"))
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/boom", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "GET /health", spans[0].Name())
	assert.Equal(t, spans[0].SpanContext().TraceID().String(), rec.Header().Get("X-Trace-ID"))
	assert.Equal(t, codes.Error, spans[1].Status().Code)
}

func TestTracedSource(t *testing.T) {
	recorder := withRecorder(t)

	snap, err := observability.NewTracedSource(memory.NewSource()).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Len())

	failing := ports.DatasetSourceFunc(func(context.Context) (*dataset.Snapshot, error) {
		return nil, errors.New("unreachable")
	})
	_, err = observability.NewTracedSource(failing).Load(context.Background())
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "dataset.load", spans[0].Name())
	assert.Equal(t, codes.Error, spans[1].Status().Code)
}

func TestNewTracerProvider_LogsEndedSpans(t *testing.T) {
	previous := otel.GetTracerProvider()
	previousPropagator := otel.GetTextMapPropagator()
	core, logs := observer.New(zap.DebugLevel)

	tp := observability.NewTracerProvider("samarth", zap.New(core))
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(previous)
		otel.SetTextMapPropagator(previousPropagator)
	})

	_, err := observability.NewTracedSource(memory.NewSource()).Load(context.Background())
	require.NoError(t, err)

	entries := logs.FilterMessage("Span ended").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "dataset.load", fields["span"])
	assert.Equal(t, memory.SourceName, fields["dataset.source"])
	assert.Equal(t, "3", fields["dataset.regions"])
}
