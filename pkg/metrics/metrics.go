// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "meeting_summarizer"

// Metrics groups the service's collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	aiGenerations   *prometheus.CounterVec
	aiDuration      *prometheus.HistogramVec
	emailSends      *prometheus.CounterVec
	summariesStored prometheus.Counter
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		aiGenerations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ai",
			Name:      "generations_total",
			Help:      "Summary generations by provider and outcome.",
		}, []string{"provider", "outcome"}),
		aiDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ai",
			Name:      "generation_duration_seconds",
			Help:      "Round trip time of summary generation calls.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		}, []string{"provider"}),
		emailSends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "email",
			Name:      "sends_total",
			Help:      "Email deliveries by transport and outcome.",
		}, []string{"transport", "outcome"}),
		summariesStored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "summaries_created_total",
			Help:      "Summaries persisted since process start.",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.httpRequests,
			m.httpDuration,
			m.aiGenerations,
			m.aiDuration,
			m.emailSends,
			m.summariesStored,
		)
	}
	return m
}

// ObserveGeneration records one AI call.
func (m *Metrics) ObserveGeneration(provider, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.aiGenerations.WithLabelValues(provider, outcome).Inc()
	m.aiDuration.WithLabelValues(provider).Observe(d.Seconds())
}

// ObserveEmail records one delivery attempt.
func (m *Metrics) ObserveEmail(transport, outcome string) {
	if m == nil {
		return
	}
	m.emailSends.WithLabelValues(transport, outcome).Inc()
}

// SummaryCreated counts a persisted summary.
func (m *Metrics) SummaryCreated() {
	if m == nil {
		return
	}
	m.summariesStored.Inc()
}

// GinMiddleware records request count and latency keyed by the route template.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
