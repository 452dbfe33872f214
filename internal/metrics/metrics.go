// Package metrics exposes Prometheus counters for API traffic and dashboard
// refreshes.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what the API client and the refresh pipeline report into.
type Recorder interface {
	RecordRequest(endpoint string, statusCode int, latency time.Duration)
	RecordTransportFailure(endpoint string)
	RecordRefresh(outcome string)
}

const (
	RefreshApplied = "applied"
	RefreshStale   = "stale"
	RefreshFailed  = "failed"
)

type Collector struct {
	requests          *prometheus.CounterVec
	transportFailures *prometheus.CounterVec
	latency           *prometheus.HistogramVec
	refreshes         *prometheus.CounterVec
}

// NewCollector creates the collector and registers it on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moodboard_api_requests_total",
			Help: "API responses by endpoint and HTTP status.",
		}, []string{"endpoint", "status_code"}),
		transportFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moodboard_api_transport_failures_total",
			Help: "API calls that never got an HTTP response.",
		}, []string{"endpoint"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "moodboard_api_latency_seconds",
			Help:    "API round trip latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moodboard_refreshes_total",
			Help: "Progress refreshes by outcome (applied, stale, failed).",
		}, []string{"outcome"}),
	}

	reg.MustRegister(c.requests, c.transportFailures, c.latency, c.refreshes)
	return c
}

func (c *Collector) RecordRequest(endpoint string, statusCode int, latency time.Duration) {
	c.requests.WithLabelValues(endpoint, strconv.Itoa(statusCode)).Inc()
	c.latency.WithLabelValues(endpoint).Observe(latency.Seconds())
}

func (c *Collector) RecordTransportFailure(endpoint string) {
	c.transportFailures.WithLabelValues(endpoint).Inc()
}

func (c *Collector) RecordRefresh(outcome string) {
	c.refreshes.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus text format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return mux
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordRequest(string, int, time.Duration) {}
func (Nop) RecordTransportFailure(string)            {}
func (Nop) RecordRefresh(string)                     {}
