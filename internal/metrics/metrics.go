// Package metrics collects and exposes Prometheus metrics for the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records per-request metrics.
type Collector struct {
	requests *prometheus.CounterVec
	latency  prometheus.Histogram
	imported prometheus.Counter
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "users_api_requests_total",
			Help: "HTTP requests by method and status code",
		}, []string{"method", "status_code"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "users_api_request_latency_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		imported: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "users_api_records_imported_total",
			Help: "User records accepted through bulk import",
		}),
	}

	reg.MustRegister(c.requests, c.latency, c.imported)
	return c
}

func (c *Collector) RecordRequest(method string, status int, duration time.Duration) {
	c.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	c.latency.Observe(duration.Seconds())
}

func (c *Collector) RecordImported(count int) {
	c.imported.Add(float64(count))
}

// Handler returns the HTTP handler serving the Prometheus scrape
// endpoint.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
