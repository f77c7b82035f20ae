package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"inventory-service/pkg/config"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Authentication metrics
	LoginCounter      prometheus.Counter
	AuthErrorsCounter prometheus.CounterVec

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Ledger metrics
	TagOperationsCounter prometheus.CounterVec
	LiveTagsGauge        prometheus.GaugeVec

	// Batch upload metrics
	BatchRowsCounter prometheus.CounterVec
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(config *config.Config) {
	// Use metric prefix from configuration
	prefix := config.Metrics.Prefix

	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	LoginCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_login_attempts_total",
			Help: "Total number of login attempts",
		},
	)

	AuthErrorsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"reason"},
	)

	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	TagOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_tag_operations_total",
			Help: "Total number of ledger operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	LiveTagsGauge = *promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: prefix + "_live_tags",
			Help: "Current number of live tagged items per branch",
		},
		[]string{"branch_id"},
	)

	BatchRowsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_batch_rows_total",
			Help: "Total number of processed batch upload rows by status",
		},
		[]string{"upload", "status"},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordAuthError increments the counter for a failed authentication
func RecordAuthError(reason string) {
	AuthErrorsCounter.WithLabelValues(reason).Inc()
}

// RecordTagOperation increments the counter for a ledger operation
func RecordTagOperation(operation, outcome string) {
	TagOperationsCounter.WithLabelValues(operation, outcome).Inc()
}

// RecordBatchRow increments the counter for one processed upload row
func RecordBatchRow(upload, status string) {
	BatchRowsCounter.WithLabelValues(upload, status).Inc()
}

// SetLiveTags updates the live item gauge for a branch
func SetLiveTags(branchID string, count float64) {
	LiveTagsGauge.WithLabelValues(branchID).Set(count)
}

// ResetLiveTags drops every branch label set so branches that emptied out do
// not keep reporting their last nonzero count
func ResetLiveTags() {
	LiveTagsGauge.Reset()
}
