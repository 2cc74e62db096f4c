// internal/service/progression/runner.go
package progression

import (
	"context"
	"time"

	"padel-academy-service/internal/domain/order"

	"go.uber.org/zap"
)

// DefaultOpTimeout bounds each per-order operation so one bad record
// cannot stall a whole pass.
const DefaultOpTimeout = 10 * time.Second

// OrderScanner supplies the input sets of the three passes.
type OrderScanner interface {
	FindApprovedWithAllowance(ctx context.Context) ([]order.Order, error)
	FindApprovedWithProgress(ctx context.Context) ([]order.Order, error)
	FindCompleted(ctx context.Context) ([]order.Order, error)
}

// Lifecycle is the order state machine the runner drives.
type Lifecycle interface {
	CompleteIfExpiredAllowance(ctx context.Context, o *order.Order, now time.Time) error
	AdvanceWeekIfDue(ctx context.Context, o *order.Order, now time.Time) error
	ExpireIfPastRetention(ctx context.Context, o *order.Order, now time.Time) error
}

// Runner performs one progression evaluation over the whole order
// collection: first completions, then week advancements, then retention
// expiries. The pass order matters — an order completed in the first
// pass must not receive a week advance in the same run, and destructive
// cleanup goes last so it never races materialization.
type Runner struct {
	orders    OrderScanner
	lifecycle Lifecycle
	opTimeout time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

func NewRunner(orders OrderScanner, lifecycle Lifecycle, opTimeout time.Duration, logger *zap.Logger) *Runner {
	if opTimeout <= 0 {
		opTimeout = DefaultOpTimeout
	}
	return &Runner{
		orders:    orders,
		lifecycle: lifecycle,
		opTimeout: opTimeout,
		now:       time.Now,
		logger:    logger,
	}
}

// Run executes the three passes sequentially. Each pass iterates its
// full result set even when individual orders fail; a pass whose scan
// query itself fails is abandoned until the next run.
func (r *Runner) Run(ctx context.Context) {
	now := r.now()
	start := time.Now()

	r.runPass(ctx, "complete_allowance", now,
		r.orders.FindApprovedWithAllowance, r.lifecycle.CompleteIfExpiredAllowance)
	r.runPass(ctx, "advance_week", now,
		r.orders.FindApprovedWithProgress, r.lifecycle.AdvanceWeekIfDue)
	r.runPass(ctx, "expire_retention", now,
		r.orders.FindCompleted, r.lifecycle.ExpireIfPastRetention)

	r.logger.Info("progression run finished",
		zap.Time("evaluated_at", now),
		zap.Duration("took", time.Since(start)),
	)
}

func (r *Runner) runPass(
	ctx context.Context,
	name string,
	now time.Time,
	scan func(context.Context) ([]order.Order, error),
	apply func(context.Context, *order.Order, time.Time) error,
) {
	orders, err := scan(ctx)
	if err != nil {
		r.logger.Error("progression pass abandoned, scan failed",
			zap.String("pass", name),
			zap.Error(err),
		)
		return
	}

	failures := 0
	for i := range orders {
		if err := r.applyOne(ctx, apply, &orders[i], now); err != nil {
			failures++
			r.logger.Error("progression transition failed",
				zap.String("pass", name),
				zap.Int64("order_id", orders[i].ID),
				zap.Error(err),
			)
		}
	}

	r.logger.Info("progression pass finished",
		zap.String("pass", name),
		zap.Int("orders", len(orders)),
		zap.Int("failures", failures),
	)
}

func (r *Runner) applyOne(
	ctx context.Context,
	apply func(context.Context, *order.Order, time.Time) error,
	o *order.Order,
	now time.Time,
) error {
	opCtx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()
	return apply(opCtx, o, now)
}
