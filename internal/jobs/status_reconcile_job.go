package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StatusReconcileJobName is the scheduler name of the overdue status job
const StatusReconcileJobName = "order_status_reconcile"

// StatusReconciler persists derived statuses for overdue pending orders
type StatusReconciler interface {
	ReconcileStatuses(ctx context.Context) (int64, error)
}

// RunRecorder receives the outcome of each run
type RunRecorder interface {
	ReconcileRun(err error, updated int64)
}

// StatusReconcileJob marks overdue deliveries late and overdue pickups
// unclaimed so that stored statuses match what readers derive
type StatusReconcileJob struct {
	orders   StatusReconciler
	recorder RunRecorder
	logger   *zap.Logger
	timeout  time.Duration
}

func NewStatusReconcileJob(orders StatusReconciler, recorder RunRecorder, logger *zap.Logger, timeout time.Duration) *StatusReconcileJob {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &StatusReconcileJob{
		orders:   orders,
		recorder: recorder,
		logger:   logger,
		timeout:  timeout,
	}
}

// Run is the scheduler entry point
func (j *StatusReconcileJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	_, _ = j.RunOnce(ctx)
}

// RunOnce reconciles statuses and returns how many orders changed
func (j *StatusReconcileJob) RunOnce(ctx context.Context) (int64, error) {
	start := time.Now()
	updated, err := j.orders.ReconcileStatuses(ctx)
	if j.recorder != nil {
		j.recorder.ReconcileRun(err, updated)
	}
	if err != nil {
		j.logger.Error("order status reconciliation failed",
			zap.Error(err),
			zap.Int64("updated", updated),
			zap.Duration("duration", time.Since(start)))
		return updated, err
	}
	j.logger.Info("order status reconciliation completed",
		zap.Int64("updated", updated),
		zap.Duration("duration", time.Since(start)))
	return updated, nil
}
