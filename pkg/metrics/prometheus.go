package metrics

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector owns the prometheus registry for the processor. All
// methods are nil-safe so callers can run without metrics attached.
type MetricsCollector struct {
	registry            *prometheus.Registry
	operationsProcessed *prometheus.CounterVec
	operationsFailed    *prometheus.CounterVec
	operationDuration   prometheus.Histogram
	walletBalance       *prometheus.GaugeVec
	reconciliationRuns  *prometheus.CounterVec
	logger              *slog.Logger
}

func NewMetricsCollector(logger *slog.Logger) *MetricsCollector {
	if logger == nil {
		logger = slog.Default()
	}

	registry := prometheus.NewRegistry()

	return &MetricsCollector{
		registry: registry,
		operationsProcessed: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_operations_processed_total",
			Help: "Total number of committed wallet operations",
		}, []string{"operation"}),
		operationsFailed: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_operations_failed_total",
			Help: "Total number of rejected wallet operations",
		}, []string{"operation"}),
		operationDuration: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Name:    "wallet_operation_duration_seconds",
			Help:    "Time taken to commit a wallet operation",
			Buckets: prometheus.DefBuckets,
		}),
		walletBalance: promauto.With(registry).NewGaugeVec(prometheus.GaugeOpts{
			Name: "wallet_balance",
			Help: "Current wallet balance",
		}, []string{"user_id", "currency"}),
		reconciliationRuns: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_reconciliation_runs_total",
			Help: "Total number of per-user reconciliation runs",
		}, []string{"result"}),
		logger: logger,
	}
}

// RecordOperation counts a committed operation and its duration.
func (m *MetricsCollector) RecordOperation(operation string, duration time.Duration) {
	if m == nil {
		return
	}
	m.operationsProcessed.WithLabelValues(operation).Inc()
	m.operationDuration.Observe(duration.Seconds())
}

// RecordFailure counts a rejected operation.
func (m *MetricsCollector) RecordFailure(operation string) {
	if m == nil {
		return
	}
	m.operationsFailed.WithLabelValues(operation).Inc()
}

// SetWalletBalance updates the balance gauge for a user/currency pair.
// The float conversion is for observability only; balance arithmetic stays
// in fixed-point.
func (m *MetricsCollector) SetWalletBalance(userID string, currency string, balance float64) {
	if m == nil {
		return
	}
	m.walletBalance.WithLabelValues(userID, currency).Set(balance)
}

// RecordReconciliation counts a reconciliation run by outcome.
func (m *MetricsCollector) RecordReconciliation(consistent bool) {
	if m == nil {
		return
	}
	result := "consistent"
	if !consistent {
		result = "inconsistent"
	}
	m.reconciliationRuns.WithLabelValues(result).Inc()
}

// Handler exposes the registry for the /metrics endpoint.
func (m *MetricsCollector) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
