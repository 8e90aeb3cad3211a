package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run outcome labels for auto_booking_runs_total.
const (
	RunOutcomeCompleted   = "completed"
	RunOutcomeInterrupted = "interrupted"
	RunOutcomeRejected    = "rejected"
	RunOutcomeError       = "error"
)

// MetricsService encapsulates Prometheus instrumentation. All methods are safe on a nil receiver.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	runs            *prometheus.CounterVec
	userOutcomes    *prometheus.CounterVec
	bookingsCreated prometheus.Counter
	runDuration     prometheus.Histogram
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

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auto_booking_runs_total",
		Help: "Auto-booking runs by outcome",
	}, []string{"outcome"})

	userOutcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auto_booking_user_outcomes_total",
		Help: "Per-user auto-booking outcomes",
	}, []string{"outcome"})

	bookingsCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auto_booking_bookings_created_total",
		Help: "Bookings created by the auto-booking engine",
	})

	runDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "auto_booking_run_duration_seconds",
		Help:    "Wall time of auto-booking runs",
		Buckets: []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheHits, cacheMisses, runs, userOutcomes, bookingsCreated, runDuration, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		runs:            runs,
		userOutcomes:    userOutcomes,
		bookingsCreated: bookingsCreated,
		runDuration:     runDuration,
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

// Registry returns the private registry backing Handler.
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

// RecordCacheOperation records a cache hit or miss.
func (m *MetricsService) RecordCacheOperation(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
		return
	}
	m.cacheMisses.Inc()
}

// ObserveAutoBookingRun records one engine invocation and, for runs that executed, its per-user outcomes.
func (m *MetricsService) ObserveAutoBookingRun(outcome string, duration time.Duration, successful, failed, skipped, created int) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(outcome).Inc()
	if outcome == RunOutcomeRejected {
		return
	}
	m.runDuration.Observe(duration.Seconds())
	m.userOutcomes.WithLabelValues("success").Add(float64(successful))
	m.userOutcomes.WithLabelValues("failed").Add(float64(failed))
	m.userOutcomes.WithLabelValues("skipped").Add(float64(skipped))
	m.bookingsCreated.Add(float64(created))
}
