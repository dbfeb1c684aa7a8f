package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/desertthunder/backlog/internal/models"
	"github.com/desertthunder/backlog/internal/shared"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the web service on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	ingestsTotal    *prometheus.CounterVec
	authAttempts    *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors. When store is set, a gauge reports its game count on scrape.
func NewMetrics(store models.GameStore) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backlog_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "backlog_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		ingestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backlog_ingests_total",
				Help: "Add-game attempts by result (created, already_exists or an error kind)",
			},
			[]string{"result"},
		),
		authAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backlog_authentication_attempts_total",
				Help: "Total number of authentication checks",
			},
			[]string{"status"},
		),
	}

	m.registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.ingestsTotal,
		m.authAttempts,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	if store != nil {
		m.registry.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "backlog_games",
				Help: "Number of games in the backlog",
			},
			func() float64 {
				n, err := store.Count()
				if err != nil {
					return -1
				}
				return float64(n)
			},
		))
	}

	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveIngest counts one add-game attempt. Satisfies tasks.IngestObserver.
func (m *Metrics) ObserveIngest(outcome models.CreateOutcome, err error) {
	label := outcome.String()
	if err != nil {
		label = string(shared.KindOf(err))
	}
	m.ingestsTotal.WithLabelValues(label).Inc()
}

// ObserveAuth counts one credential check.
func (m *Metrics) ObserveAuth(ok bool) {
	status := "failure"
	if ok {
		status = "success"
	}
	m.authAttempts.WithLabelValues(status).Inc()
}

// Middleware records request counts and latency by route pattern.
func (m *Metrics) Middleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w}

			next.ServeHTTP(sw, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			m.requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(sw.code())).Inc()
			m.requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}

// metricsHandler serves the Prometheus exposition format.
type metricsHandler struct {
	http.Handler
}

func newMetricsHandler(m *Metrics) *metricsHandler {
	return &metricsHandler{Handler: promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})}
}

func (h *metricsHandler) Routes() []string {
	return []string{"GET /metrics"}
}
