// Package metrics collects and exposes Prometheus metrics for the service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oakheart/signon/internal/signon/domain"
)

// Collector holds the service's Prometheus instruments.
type Collector struct {
	loginOutcomes *prometheus.CounterVec
	tokenVerdicts *prometheus.CounterVec
	httpStatus    *prometheus.CounterVec
	httpLatency   prometheus.Histogram
}

// NewCollector creates a Collector and registers its instruments with the
// given registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		loginOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signon_login_outcomes_total",
			Help: "Login callback runs by terminal outcome.",
		}, []string{"outcome"}),
		tokenVerdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signon_token_verifications_total",
			Help: "Token verification requests by verdict.",
		}, []string{"verdict"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signon_http_responses_total",
			Help: "HTTP responses by status code.",
		}, []string{"status_code"}),
		httpLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "signon_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.loginOutcomes,
		c.tokenVerdicts,
		c.httpStatus,
		c.httpLatency,
	)

	return c
}

// RecordLoginOutcome counts one finished login run.
func (c *Collector) RecordLoginOutcome(outcome domain.LoginOutcome) {
	c.loginOutcomes.WithLabelValues(outcome.String()).Inc()
}

// RecordTokenVerdict counts one token verification.
func (c *Collector) RecordTokenVerdict(result domain.VerificationResult) {
	c.tokenVerdicts.WithLabelValues(result.String()).Inc()
}

// RecordHTTPStatus counts one HTTP response by status code.
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordHTTPLatency records one request's wall time.
func (c *Collector) RecordHTTPLatency(duration time.Duration) {
	c.httpLatency.Observe(duration.Seconds())
}

// Handler returns the HTTP handler serving the scrape endpoint.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
