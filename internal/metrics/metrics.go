package metrics

import (
	"errors"
	"strconv"
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
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	WeeklySummaryBuildSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "weekly_summary_build_seconds",
		Help:    "Time to fetch and aggregate one weekly summary",
		Buckets: prometheus.DefBuckets,
	})

	DailySubmissions = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "daily_kpi_submissions_total",
		Help: "Accepted daily KPI submissions",
	})

	ExternalRequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "external_request_total",
		Help: "Calls to external collaborators",
	}, []string{"component", "operation", "status"})

	ExternalRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "external_request_duration_seconds",
		Help:    "Latency of calls to external collaborators",
		Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"component", "operation"})
)

// MustRegister registers every collector. Call once from main.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		RequestCounter,
		RequestDuration,
		WeeklySummaryBuildSeconds,
		DailySubmissions,
		ExternalRequestTotal,
		ExternalRequestDuration,
	)
}

// ObserveExternal records one call to a webhook, the AI API or the catalog.
func ObserveExternal(component, operation string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
		var se interface{ StatusCode() int }
		if errors.As(err, &se) {
			status = strconv.Itoa(se.StatusCode())
		}
	}
	ExternalRequestTotal.WithLabelValues(component, operation, status).Inc()
	ExternalRequestDuration.WithLabelValues(component, operation).Observe(time.Since(start).Seconds())
}

func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		RequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}

func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
