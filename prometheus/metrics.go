package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// Report generation counter
	ReportGenerationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "partnerfin_report_generations_total",
			Help: "Total number of financial report generations",
		},
		[]string{"outcome"}, // "ok", "error"
	)

	// Report send counter
	ReportSendCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "partnerfin_report_sends_total",
			Help: "Total number of report send operations",
		},
	)

	// Withdrawal transition counter
	WithdrawalTransitionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "partnerfin_withdrawal_transitions_total",
			Help: "Total number of withdrawal state transitions",
		},
		[]string{"transition", "outcome"}, // transition: "create", "approve", "reject", "process"
	)

	// Transfer call counter
	TransferCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "partnerfin_transfers_total",
			Help: "Total number of transfer provider calls",
		},
		[]string{"outcome"}, // "success", "declined", "unavailable"
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "partnerfin_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)

	// Error counters
	ErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "partnerfin_errors_total",
			Help: "Total number of engine errors by kind",
		},
		[]string{"kind"},
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "partnerfin_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "partnerfin_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

func init() {
	prometheus.MustRegister(ReportGenerationCounter)
	prometheus.MustRegister(ReportSendCounter)
	prometheus.MustRegister(WithdrawalTransitionCounter)
	prometheus.MustRegister(TransferCounter)
	prometheus.MustRegister(HTTPRequestCounter)
	prometheus.MustRegister(ErrorCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)
}

// RecordReportGeneration increments the generation counter.
func RecordReportGeneration(outcome string) {
	ReportGenerationCounter.WithLabelValues(outcome).Inc()
}

// RecordWithdrawalTransition increments the transition counter.
func RecordWithdrawalTransition(transition, outcome string) {
	WithdrawalTransitionCounter.WithLabelValues(transition, outcome).Inc()
}

// RecordError increments the error counter for an error kind.
func RecordError(kind string) {
	ErrorCounter.WithLabelValues(kind).Inc()
}

// TrackDBOperation measures database operation durations.
func TrackDBOperation(operation string) func(time.Time) {
	startTime := time.Now()
	return func(endTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(duration)
	}
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics.
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// MetricsMiddleware creates a middleware function that captures metrics
// for each request.
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			HTTPRequestCounter.WithLabelValues(endpoint, method, status).Inc()
			RequestDuration.WithLabelValues(endpoint, method, status).Observe(duration)

			return err
		}
	}
}
