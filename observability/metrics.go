package observability

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LedgerMetrics records every committed or rejected ledger operation.
type LedgerMetrics struct {
	operations *prometheus.CounterVec
	rejections *prometheus.CounterVec
	latency    *prometheus.HistogramVec
}

var (
	ledgerMetricsOnce sync.Once
	ledgerRegistry    *LedgerMetrics
)

// Ledger returns the lazily-initialised ledger metrics registry.
func Ledger() *LedgerMetrics {
	ledgerMetricsOnce.Do(func() {
		ledgerRegistry = &LedgerMetrics{
			operations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "encore",
				Subsystem: "ledger",
				Name:      "operations_total",
				Help:      "Total ledger operations segmented by module, operation, and outcome.",
			}, []string{"module", "op", "outcome"}),
			rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "encore",
				Subsystem: "ledger",
				Name:      "rejections_total",
				Help:      "Total rejected ledger operations segmented by module, operation, and reason.",
			}, []string{"module", "op", "reason"}),
			latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "encore",
				Subsystem: "ledger",
				Name:      "operation_duration_seconds",
				Help:      "Latency distribution for ledger operations.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"module", "op"}),
		}
		prometheus.MustRegister(
			ledgerRegistry.operations,
			ledgerRegistry.rejections,
			ledgerRegistry.latency,
		)
	})
	return ledgerRegistry
}

// ObserveOp records the outcome of a single ledger operation.
func (m *LedgerMetrics) ObserveOp(module, op string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	module = label(module)
	op = label(op)
	outcome := "success"
	if err != nil {
		outcome = "error"
		reason := strings.TrimSpace(err.Error())
		if reason == "" {
			reason = "unknown"
		}
		m.rejections.WithLabelValues(module, op, reason).Inc()
	}
	m.operations.WithLabelValues(module, op, outcome).Inc()
	m.latency.WithLabelValues(module, op).Observe(elapsed.Seconds())
}

func label(v string) string {
	if v = strings.TrimSpace(v); v == "" {
		return "unknown"
	}
	return v
}
