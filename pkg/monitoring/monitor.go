package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	FeedSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "feed_sessions_active",
			Help: "Number of open feed sessions",
		},
	)

	FeedTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_transitions_total",
			Help: "Feed index changes by reason",
		},
		[]string{"reason"},
	)

	FeedVisibilityReports = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_visibility_reports_total",
			Help: "Advisory visibility reports received",
		},
	)

	QuizAnswers = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_answers_total",
			Help: "Quiz answers by outcome",
		},
		[]string{"outcome"},
	)

	GraderRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grader_runs_total",
			Help: "Practice grading runs by grader and result",
		},
		[]string{"grader", "result"},
	)

	GraderDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "grader_run_duration_seconds",
			Help:    "Duration of practice grading runs",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"grader"},
	)

	WebSocketConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "feed_ws_connections",
			Help: "Open feed event sockets",
		},
	)

	WebSocketMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_ws_messages_total",
			Help: "Socket messages by type and direction",
		},
		[]string{"type", "direction"},
	)

	CacheRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_requests_total",
			Help: "Explore cache lookups by result",
		},
		[]string{"result"},
	)
)

var registerOnce sync.Once

// Init registers the collectors with the default registry. Safe to call more
// than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			FeedSessions,
			FeedTransitions,
			FeedVisibilityReports,
			QuizAnswers,
			GraderRuns,
			GraderDuration,
			WebSocketConnections,
			WebSocketMessages,
			CacheRequests,
		)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
