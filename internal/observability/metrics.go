package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects Prometheus metrics for the application.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	checkinsTotal   *prometheus.CounterVec
	checkoutsTotal  *prometheus.CounterVec
	kioskFailures   *prometheus.CounterVec
}

// NewMetrics initialises the registry and base collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "attendly_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "attendly_http_request_duration_seconds",
		Help:    "HTTP request duration per route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	checkins := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "attendly_checkins_total",
		Help: "Successful attendance check-ins by branch.",
	}, []string{"branch"})
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "attendly_checkouts_total",
		Help: "Successful attendance check-outs by branch.",
	}, []string{"branch"})
	kioskFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "attendly_kiosk_failures_total",
		Help: "Rejected kiosk requests by failure code.",
	}, []string{"code"})
	registry.MustRegister(requests, duration, checkins, checkouts, kioskFailures)
	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		checkinsTotal:   checkins,
		checkoutsTotal:  checkouts,
		kioskFailures:   kioskFailures,
	}
}

// Handler returns the http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records request metrics for every HTTP request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// RecordCheckin increments the check-in counter for a branch.
func (m *Metrics) RecordCheckin(branch string) {
	if m == nil {
		return
	}
	m.checkinsTotal.WithLabelValues(branch).Inc()
}

// RecordCheckout increments the check-out counter for a branch.
func (m *Metrics) RecordCheckout(branch string) {
	if m == nil {
		return
	}
	m.checkoutsTotal.WithLabelValues(branch).Inc()
}

// RecordKioskFailure increments the kiosk failure counter for a code.
func (m *Metrics) RecordKioskFailure(code string) {
	if m == nil {
		return
	}
	m.kioskFailures.WithLabelValues(code).Inc()
}

// Registerer exposes the registry for registering custom collectors.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
