package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmerrifield20/phishguard/internal/threat"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	pgRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "phishguard_requests_total",
		Help: "Total HTTP requests by method, path, and response status.",
	}, []string{"method", "path", "status"})

	pgRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "phishguard_request_duration_seconds",
		Help:    "Request duration in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	pgAnalysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "phishguard_analyses_total",
		Help: "Total completed analyses by risk level.",
	}, []string{"risk_level"})

	pgAnalysisScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "phishguard_analysis_score",
		Help:    "Distribution of clamped risk scores.",
		Buckets: []float64{0, 15, 30, 50, 70, 85, 100},
	})

	pgIndicatorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "phishguard_indicators_total",
		Help: "Total reported indicators by type and severity.",
	}, []string{"type", "severity"})

	pgRejectedInputsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "phishguard_rejected_inputs_total",
		Help: "Total requests rejected before analysis, by reason.",
	}, []string{"reason"})
)

// PrometheusMiddleware returns a Gin middleware that records per-request metrics.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		pgRequestsTotal.WithLabelValues(method, path, status).Inc()
		pgRequestDuration.WithLabelValues(method, path).Observe(duration)
	}
}

// MetricsHandler returns a Gin handler that serves Prometheus metrics.
func MetricsHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// RecordAnalysis records the outcome of a completed analysis.
func RecordAnalysis(r threat.Result) {
	pgAnalysesTotal.WithLabelValues(string(r.Tier)).Inc()
	pgAnalysisScore.Observe(float64(r.Score))
	for _, ind := range r.Indicators {
		pgIndicatorsTotal.WithLabelValues(string(ind.Type), string(ind.Severity)).Inc()
	}
}

// RecordRejectedInput records a request refused before reaching the engine.
func RecordRejectedInput(reason string) {
	pgRejectedInputsTotal.WithLabelValues(reason).Inc()
}
