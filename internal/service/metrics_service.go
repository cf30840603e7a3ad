package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	outcomeOK     = "ok"
	outcomeFailed = "failed"
)

// MetricsService encapsulates Prometheus instrumentation.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	queryDuration   *prometheus.HistogramVec
	lookupDuration  prometheus.Observer
	lookupTotal     *prometheus.CounterVec
	filesResolved   prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	queryDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "backend_query_duration_seconds",
		Help:    "Duration of backend data queries",
		Buckets: prometheus.DefBuckets,
	}, []string{"table", "outcome"})

	lookupDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "storage_lookup_duration_seconds",
		Help:    "Duration of per-module storage listings",
		Buckets: prometheus.DefBuckets,
	})

	lookupTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storage_lookups_total",
		Help: "Per-module storage listings by outcome",
	}, []string{"outcome"})

	filesResolved := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "module_files_resolved_total",
		Help: "PDF files resolved across all module lookups",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, queryDuration, lookupDuration, lookupTotal, filesResolved, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		queryDuration:   queryDuration,
		lookupDuration:  lookupDuration,
		lookupTotal:     lookupTotal,
		filesResolved:   filesResolved,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry exposes the underlying registry, mainly for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveBackendQuery records the timing of a data query against table.
func (m *MetricsService) ObserveBackendQuery(table string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.queryDuration.WithLabelValues(table, outcome(err)).Observe(duration.Seconds())
}

// ObserveStorageLookup records one module lookup and the number of files it produced.
func (m *MetricsService) ObserveStorageLookup(duration time.Duration, files int, err error) {
	if m == nil {
		return
	}
	m.lookupDuration.Observe(duration.Seconds())
	m.lookupTotal.WithLabelValues(outcome(err)).Inc()
	if files > 0 {
		m.filesResolved.Add(float64(files))
	}
}

func outcome(err error) string {
	if err != nil {
		return outcomeFailed
	}
	return outcomeOK
}
