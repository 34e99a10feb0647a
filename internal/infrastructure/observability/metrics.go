// Package observability exposes Prometheus metrics for the question engine.
package observability

import (
	"net/http"
	"time"

	"samarth/internal/application/queries/bus"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	// Registry for this collector instance
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Question metrics
	Answers *prometheus.CounterVec

	// Query bus metrics
	Queries       *prometheus.CounterVec
	QueryDuration *prometheus.HistogramVec

	// Dataset metrics
	DatasetReloads *prometheus.CounterVec
	DatasetRegions prometheus.Gauge
	DatasetLoaded  prometheus.Gauge
}

// NewCollector creates a metrics collector on its own registry, so several
// collectors can coexist in one process (tests, CLI and server).
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		Answers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "answers_total",
				Help:      "Questions answered, by intent and outcome",
			},
			[]string{"intent", "outcome"},
		),
		Queries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "queries_total",
				Help:      "Query bus dispatches, by event and query type",
			},
			[]string{"event", "query"},
		),
		QueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "query_duration_seconds",
				Help:      "Query handler duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"query"},
		),
		DatasetReloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dataset_reloads_total",
				Help:      "Dataset load attempts, by source and outcome",
			},
			[]string{"source", "outcome"},
		),
		DatasetRegions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "dataset_regions",
				Help:      "Regions in the snapshot currently in effect",
			},
		),
		DatasetLoaded: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "dataset_loaded_timestamp_seconds",
				Help:      "Unix time the snapshot in effect was loaded",
			},
		),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.Answers,
		c.Queries,
		c.QueryDuration,
		c.DatasetReloads,
		c.DatasetRegions,
		c.DatasetLoaded,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// ObserveAnswer implements ports.AnswerMetrics.
func (c *Collector) ObserveAnswer(intent, outcome string) {
	c.Answers.WithLabelValues(intent, outcome).Inc()
}

// ObserveReload records one dataset load attempt. regions and loadedAt are
// only applied on success.
func (c *Collector) ObserveReload(source string, err error, regions int, loadedAt time.Time) {
	if err != nil {
		c.DatasetReloads.WithLabelValues(source, "error").Inc()
		return
	}
	c.DatasetReloads.WithLabelValues(source, "success").Inc()
	c.DatasetRegions.Set(float64(regions))
	c.DatasetLoaded.Set(float64(loadedAt.Unix()))
}

// Increment implements bus.Metrics.
func (c *Collector) Increment(metric, label string) {
	c.Queries.WithLabelValues(metric, label).Inc()
}

// StartTimer implements bus.Metrics.
func (c *Collector) StartTimer(metric, label string) bus.Timer {
	return queryTimer{observer: c.QueryDuration.WithLabelValues(label), start: time.Now()}
}

type queryTimer struct {
	observer prometheus.Observer
	start    time.Time
}

func (t queryTimer) Stop() {
	t.observer.Observe(time.Since(t.start).Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// GetRegistry returns the Prometheus registry for this collector
func (c *Collector) GetRegistry() *prometheus.Registry {
	return c.registry
}
