package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects request and credential counters on a private registry.
type Metrics struct {
	registry      *prometheus.Registry
	requests      *prometheus.CounterVec
	errors        *prometheus.CounterVec
	latency       prometheus.Histogram
	authRejected  *prometheus.CounterVec
	tokensIssued  prometheus.Counter
	cacheOutcomes *prometheus.CounterVec
}

// NewMetrics builds and registers the collectors.
func NewMetrics(service string) *Metrics {
	registry := prometheus.NewRegistry()
	labels := prometheus.Labels{"service": service}

	m := &Metrics{
		registry: registry,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "marketplace_http_requests_total",
			Help:        "HTTP requests by path, method and status.",
			ConstLabels: labels,
		}, []string{"path", "method", "status"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "marketplace_http_errors_total",
			Help:        "Request failures by path, method and error code.",
			ConstLabels: labels,
		}, []string{"path", "method", "code"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "marketplace_http_request_seconds",
			Help:        "Request latency in seconds.",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}),
		authRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "marketplace_auth_rejected_total",
			Help:        "Requests rejected at the access gate, by status.",
			ConstLabels: labels,
		}, []string{"status"}),
		tokensIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "marketplace_tokens_issued_total",
			Help:        "Bearer tokens issued at register and login.",
			ConstLabels: labels,
		}),
		cacheOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "marketplace_product_cache_total",
			Help:        "Product cache lookups by outcome.",
			ConstLabels: labels,
		}, []string{"outcome"}),
	}

	registry.MustRegister(
		m.requests,
		m.errors,
		m.latency,
		m.authRejected,
		m.tokensIssued,
		m.cacheOutcomes,
	)
	return m
}

// RecordRequest increments request counters and observes latency.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.latency.Observe(duration.Seconds())
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		m.authRejected.WithLabelValues(strconv.Itoa(status)).Inc()
	}
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(path, method, code).Inc()
}

// RecordTokenIssued counts a successful issuance.
func (m *Metrics) RecordTokenIssued() {
	if m == nil {
		return
	}
	m.tokensIssued.Inc()
}

// RecordCacheOutcome counts a product cache hit or miss.
func (m *Metrics) RecordCacheOutcome(outcome string) {
	if m == nil {
		return
	}
	m.cacheOutcomes.WithLabelValues(outcome).Inc()
}

// Handler exposes the registry for Prometheus scrapes.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
