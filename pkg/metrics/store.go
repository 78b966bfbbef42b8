package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// StoreMetrics provides observability for registry store operations.
//
// Implementations collect counters and latency histograms for the metadata
// operations (uploads, content updates, grants, lookups) plus quota anomaly
// counters.
//
// This interface is optional - if not provided to registry stores, operations
// proceed without metrics collection (zero overhead).
type StoreMetrics interface {
	// RecordOperation records a completed store operation with its name,
	// duration, and outcome.
	//
	// Parameters:
	//   - operation: Operation name (e.g., "Upload", "UpdateContent", "GrantAccess")
	//   - duration: Time taken to complete the operation
	//   - err: Error if operation failed, nil if successful
	RecordOperation(operation string, duration time.Duration, err error)

	// RecordQuotaClamp records a storage accounting clamp: a byte decrement
	// that would have driven an account's usage below zero and was pinned to
	// zero instead. Clamps indicate an accounting bug upstream and should
	// alert.
	RecordQuotaClamp(account string)

	// SetTrackedFiles updates the gauge of file records the store holds.
	SetTrackedFiles(count int64)
}

// storeMetrics is the Prometheus implementation of StoreMetrics.
type storeMetrics struct {
	storeType         string
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	quotaClamps       *prometheus.CounterVec
	trackedFiles      prometheus.Gauge
}

// NewStoreMetrics creates a new Prometheus-backed StoreMetrics instance.
//
// storeType distinguishes implementations ("memory", "badger") as a label.
// Returns a no-op implementation if metrics are not enabled (InitRegistry
// not called).
func NewStoreMetrics(storeType string) StoreMetrics {
	if !IsEnabled() {
		return &noopStoreMetrics{}
	}

	reg := GetRegistry()

	return &storeMetrics{
		storeType: storeType,
		operationsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "fileledger_store_operations_total",
				Help: "Total number of registry store operations by store type, operation, and status",
			},
			[]string{"store_type", "operation", "status"},
		),
		operationDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "fileledger_store_operation_duration_seconds",
				Help: "Duration of registry store operations in seconds",
				Buckets: []float64{
					0.0001, // 100µs
					0.0005, // 500µs
					0.001,  // 1ms
					0.005,  // 5ms
					0.01,   // 10ms
					0.025,  // 25ms
					0.05,   // 50ms
					0.1,    // 100ms
					0.25,   // 250ms
				},
			},
			[]string{"store_type", "operation"},
		),
		quotaClamps: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "fileledger_store_quota_clamps_total",
				Help: "Total number of storage byte decrements clamped to zero, by account",
			},
			[]string{"store_type", "account"},
		),
		trackedFiles: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "fileledger_store_tracked_files",
				Help: "Current number of file records held by the store",
				ConstLabels: prometheus.Labels{
					"store_type": storeType,
				},
			},
		),
	}
}

func (m *storeMetrics) RecordOperation(operation string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	m.operationsTotal.WithLabelValues(m.storeType, operation, status).Inc()
	m.operationDuration.WithLabelValues(m.storeType, operation).Observe(duration.Seconds())
}

func (m *storeMetrics) RecordQuotaClamp(account string) {
	m.quotaClamps.WithLabelValues(m.storeType, account).Inc()
}

func (m *storeMetrics) SetTrackedFiles(count int64) {
	m.trackedFiles.Set(float64(count))
}

// noopStoreMetrics is a no-op implementation of StoreMetrics with zero overhead.
type noopStoreMetrics struct{}

func (noopStoreMetrics) RecordOperation(operation string, duration time.Duration, err error) {}
func (noopStoreMetrics) RecordQuotaClamp(account string)                                     {}
func (noopStoreMetrics) SetTrackedFiles(count int64)                                         {}

// Noop returns a StoreMetrics that records nothing. Stores use it when the
// caller passes nil.
func Noop() StoreMetrics {
	return &noopStoreMetrics{}
}
