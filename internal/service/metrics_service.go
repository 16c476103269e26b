package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/acadboard/timetable-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation for the engine's
// read and write paths.
type MetricsService struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	projectionTotal    *prometheus.CounterVec
	resolutionWarnings prometheus.Counter
	conflictsDetected  *prometheus.CounterVec
	editCommits        *prometheus.CounterVec

	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
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

	projectionTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_projections_total",
		Help: "Grid projections served, by viewer kind",
	}, []string{"viewer"})

	resolutionWarnings := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "substitution_resolution_warnings_total",
		Help: "Substitutions skipped or collided during resolution",
	})

	conflictsDetected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_conflicts_detected_total",
		Help: "Conflicts found by the detector, by kind",
	}, []string{"type"})

	editCommits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_edit_commits_total",
		Help: "Edit descriptors committed, by change type",
	}, []string{"type"})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, projectionTotal,
		resolutionWarnings, conflictsDetected, editCommits, cacheHits, cacheMisses, goroutines)

	return &MetricsService{
		registry:           registry,
		handler:            promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:    requestDuration,
		requestTotal:       requestTotal,
		projectionTotal:    projectionTotal,
		resolutionWarnings: resolutionWarnings,
		conflictsDetected:  conflictsDetected,
		editCommits:        editCommits,
		cacheHits:          cacheHits,
		cacheMisses:        cacheMisses,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// ObserveHTTPRequest records request metrics.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := []string{method, path, strconv.Itoa(status)}
	s.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	s.requestTotal.WithLabelValues(labels...).Inc()
}

// RecordProjection counts a served projection by viewer kind.
func (s *MetricsService) RecordProjection(viewer string) {
	s.projectionTotal.WithLabelValues(viewer).Inc()
}

// RecordResolutionWarnings counts skipped/colliding substitutions.
func (s *MetricsService) RecordResolutionWarnings(n int) {
	if n > 0 {
		s.resolutionWarnings.Add(float64(n))
	}
}

// RecordConflicts counts detector findings by kind.
func (s *MetricsService) RecordConflicts(conflicts models.ConflictMap) {
	seen := make(map[string]struct{})
	for _, entries := range conflicts {
		for _, entry := range entries {
			// Count each distinct conflict once, not once per participant.
			key := string(entry.Type) + "|" + entry.Message
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			s.conflictsDetected.WithLabelValues(string(entry.Type)).Inc()
		}
	}
}

// RecordEditCommit counts a committed change descriptor.
func (s *MetricsService) RecordEditCommit(changeType models.ChangeType) {
	s.editCommits.WithLabelValues(string(changeType)).Inc()
}

// RecordCacheOperation tracks hit/miss counters.
func (s *MetricsService) RecordCacheOperation(hit bool) {
	if hit {
		s.cacheHits.Inc()
		return
	}
	s.cacheMisses.Inc()
}
