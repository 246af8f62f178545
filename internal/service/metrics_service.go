package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/sma-attendance-monitor/internal/models"
)

const metricsNamespace = "attendance_monitor"

// MetricsService encapsulates Prometheus instrumentation.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLookups    *prometheus.HistogramVec
	cacheWrite      prometheus.Histogram
	fetchDuration   *prometheus.HistogramVec
	rows            *prometheus.CounterVec
	skips           *prometheus.CounterVec
	classifyTime    prometheus.Histogram
}

// NewMetricsService registers the HTTP, cache, fetch and classification collectors on a private
// registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	cacheLookups := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "reference_cache_lookup_seconds",
		Help:      "Reference snapshot cache lookups by result",
		Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1},
	}, []string{"result"})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "reference_cache_write_seconds",
		Help:      "Reference snapshot cache writes",
		Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1},
	})

	fetchDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "fetch_duration_seconds",
		Help:      "Duration of snapshot reads per table",
		Buckets:   prometheus.DefBuckets,
	}, []string{"table"})

	rows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "rows_total",
		Help:      "Classified monitor rows by status",
	}, []string{"status"})

	skips := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "skipped_total",
		Help:      "Timetable slots that produced no row, by reason",
	}, []string{"reason"})

	classifyTime := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "classify_seconds",
		Help:      "Time spent classifying a loaded snapshot",
		Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLookups, cacheWrite, fetchDuration, rows, skips, classifyTime, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheLookups:    cacheLookups,
		cacheWrite:      cacheWrite,
		fetchDuration:   fetchDuration,
		rows:            rows,
		skips:           skips,
		classifyTime:    classifyTime,
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
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

// ObserveHTTPRequest records request metrics. route is the matched route template.
func (m *MetricsService) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, route, code).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, route, code).Inc()
}

// RecordCacheLookup records one reference cache read and its outcome.
func (m *MetricsService) RecordCacheLookup(result string, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(result).Observe(duration.Seconds())
}

// ObserveCacheWrite tracks the duration of reference cache writes.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveFetch records how long one snapshot table took to load.
func (m *MetricsService) ObserveFetch(table string, duration time.Duration) {
	if m == nil {
		return
	}
	m.fetchDuration.WithLabelValues(table).Observe(duration.Seconds())
}

// RecordClassification counts emitted rows per status, slots skipped per reason and the
// classification time.
func (m *MetricsService) RecordClassification(rows []models.MonitorRow, skips SlotSkips, duration time.Duration) {
	if m == nil {
		return
	}
	counts := make(map[models.MonitorStatus]int, 3)
	for _, row := range rows {
		counts[row.Status]++
	}
	for status, n := range counts {
		m.rows.WithLabelValues(string(status)).Add(float64(n))
	}
	m.skips.WithLabelValues("orphan_period").Add(float64(skips.OrphanPeriod))
	m.skips.WithLabelValues("unauthorized").Add(float64(skips.Unauthorized))
	m.skips.WithLabelValues("deferred").Add(float64(skips.Deferred))
	m.classifyTime.Observe(duration.Seconds())
}
