package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus counters and histograms for the API and the shop floor.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	ordersCreated    *prometheus.CounterVec
	orderAmount      prometheus.Histogram
	statusChanges    *prometheus.CounterVec
	snapshotsSaved   prometheus.Counter
	reconcileRuns    *prometheus.CounterVec
	reconcileUpdated prometheus.Counter
}

// New creates the metrics and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "laundry_http_requests_total",
			Help: "Counts HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "laundry_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ordersCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "laundry_orders_created_total",
			Help: "Orders placed by schedule type.",
		}, []string{"schedule_type"}),
		orderAmount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "laundry_order_amount",
			Help:    "Order total amount distribution.",
			Buckets: []float64{50, 100, 200, 500, 1000, 2000, 5000},
		}),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "laundry_order_status_changes_total",
			Help: "Persisted order status changes by target status and source.",
		}, []string{"status", "source"}),
		snapshotsSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "laundry_report_snapshots_saved_total",
			Help: "Income report snapshots saved.",
		}),
		reconcileRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "laundry_status_reconcile_runs_total",
			Help: "Status reconciliation job runs by outcome.",
		}, []string{"outcome"}),
		reconcileUpdated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "laundry_status_reconcile_updated_total",
			Help: "Orders moved out of pending by reconciliation.",
		}),
	}

	reg.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.ordersCreated,
		m.orderAmount,
		m.statusChanges,
		m.snapshotsSaved,
		m.reconcileRuns,
		m.reconcileUpdated,
	)
	return m
}

// ObserveHTTP records one finished request
func (m *Metrics) ObserveHTTP(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, statusClass(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// OrderCreated records a placed order
func (m *Metrics) OrderCreated(scheduleType string, amount float64) {
	if m == nil {
		return
	}
	m.ordersCreated.WithLabelValues(scheduleType).Inc()
	m.orderAmount.Observe(amount)
}

// StatusChanged records persisted status changes
func (m *Metrics) StatusChanged(status, source string, count int64) {
	if m == nil || count <= 0 {
		return
	}
	m.statusChanges.WithLabelValues(status, source).Add(float64(count))
}

// SnapshotSaved records a saved report snapshot
func (m *Metrics) SnapshotSaved() {
	if m == nil {
		return
	}
	m.snapshotsSaved.Inc()
}

// ReconcileRun records one reconciliation job run
func (m *Metrics) ReconcileRun(err error, updated int64) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.reconcileRuns.WithLabelValues(outcome).Inc()
	if updated > 0 {
		m.reconcileUpdated.Add(float64(updated))
	}
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
