// internal/service/order/order_service.go
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"padel-academy-service/internal/domain/assignment"
	"padel-academy-service/internal/domain/order"
	"padel-academy-service/internal/domain/plan"
	xerrors "padel-academy-service/internal/pkg/errors"

	"go.uber.org/zap"
)

const (
	orderNumberPrefix = "PAD"
	orderCounterName  = "order_number"
	daysPerWeek       = 7
)

// OrderStore is the persistence surface of the lifecycle.
type OrderStore interface {
	Create(ctx context.Context, o *order.Order) error
	FindByID(ctx context.Context, id int64) (*order.Order, error)
	List(ctx context.Context, userID *int64, filters *order.OrderListFilters) ([]order.Order, int64, error)
	Approve(ctx context.Context, id int64, now time.Time) (*order.Order, error)
	Reject(ctx context.Context, id int64, message string, now time.Time) error
	Cancel(ctx context.Context, id int64, now time.Time) error
	UpdateProgress(ctx context.Context, id int64, currentWeek int, lastProgress time.Time) error
	MarkCompleted(ctx context.Context, id int64, now time.Time) error
	MarkExpired(ctx context.Context, id int64, now time.Time) error
	AttachPaymentProof(ctx context.Context, id int64, proof string, now time.Time) error
	GetStats(ctx context.Context) (*order.OrderStats, error)
}

// PlanStore resolves the catalog plan an order references.
type PlanStore interface {
	FindByID(ctx context.Context, id int64) (*plan.Plan, error)
}

// Sequence hands out monotonic counter values for order numbers.
type Sequence interface {
	Next(ctx context.Context, name string) (int64, error)
}

// Materializer produces and garbage-collects weekly video assignments.
type Materializer interface {
	MaterializeWeek(ctx context.Context, orderID int64, week int) (*assignment.WeeklyAssignment, error)
	DeleteAssignments(ctx context.Context, orderID int64) error
}

type Service struct {
	orders       OrderStore
	plans        PlanStore
	sequence     Sequence
	materializer Materializer
	logger       *zap.Logger
}

func NewService(
	orders OrderStore,
	plans PlanStore,
	sequence Sequence,
	materializer Materializer,
	logger *zap.Logger,
) *Service {
	return &Service{
		orders:       orders,
		plans:        plans,
		sequence:     sequence,
		materializer: materializer,
		logger:       logger,
	}
}

// CreateOrder creates a pending order for a plan purchase
func (s *Service) CreateOrder(ctx context.Context, userID int64, req *order.CreateOrderRequest) (*order.Order, error) {
	p, err := s.plans.FindByID(ctx, req.PlanID)
	if err != nil {
		return nil, fmt.Errorf("plan not found: %w", err)
	}

	if !p.Active {
		return nil, fmt.Errorf("%w: plan is not active", xerrors.ErrInvalidInput)
	}

	seq, err := s.sequence.Next(ctx, orderCounterName)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate order number: %w", err)
	}

	o := &order.Order{
		OrderNumber: fmt.Sprintf("%s-%06d", orderNumberPrefix, seq),
		UserID:      userID,
		PlanID:      p.ID,
		IsCoach:     p.IsCoach,
		Status:      order.StatusPending,
	}
	if req.PaymentProof != "" {
		o.PaymentProof.String = req.PaymentProof
		o.PaymentProof.Valid = true
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		zap.Int64("order_id", o.ID),
		zap.String("order_number", o.OrderNumber),
		zap.Int64("user_id", userID),
		zap.Int64("plan_id", p.ID),
	)

	return o, nil
}

// GetOrder retrieves an order, enforcing ownership unless admin
func (s *Service) GetOrder(ctx context.Context, userID, orderID int64, isAdmin bool) (*order.Order, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !isAdmin && o.UserID != userID {
		return nil, xerrors.ErrUnauthorized
	}

	return o, nil
}

// ListOrders retrieves orders with filters. A nil userID lists across
// all users (admin surface).
func (s *Service) ListOrders(ctx context.Context, userID *int64, filters *order.OrderListFilters) (*order.OrderListResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}
	if filters.PageSize > 100 {
		filters.PageSize = 100
	}

	orders, total, err := s.orders.List(ctx, userID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	totalPages := int(total) / filters.PageSize
	if int(total)%filters.PageSize > 0 {
		totalPages++
	}

	return &order.OrderListResponse{
		Orders:     orders,
		Total:      total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalPages: totalPages,
	}, nil
}

// ApproveOrder moves a pending order to approved, stamping the approval
// date and week 1 progression, then materializes the first week. A
// materialization failure is logged, not surfaced: the student-facing
// read path treats a missing current-week assignment as empty and the
// next run retries nothing here because week 1 stays materializable on
// first read of the progression engine.
func (s *Service) ApproveOrder(ctx context.Context, orderID int64) (*order.Order, error) {
	now := time.Now()

	o, err := s.orders.Approve(ctx, orderID, now)
	if err != nil {
		return nil, err
	}

	if _, err := s.materializer.MaterializeWeek(ctx, o.ID, 1); err != nil {
		s.logger.Error("failed to materialize week 1 on approval",
			zap.Int64("order_id", o.ID),
			zap.Error(err),
		)
	}

	s.logger.Info("order approved",
		zap.Int64("order_id", o.ID),
		zap.String("order_number", o.OrderNumber),
	)

	return o, nil
}

// RejectOrder moves a pending order to rejected with a message
func (s *Service) RejectOrder(ctx context.Context, orderID int64, message string) error {
	if err := s.orders.Reject(ctx, orderID, message, time.Now()); err != nil {
		return err
	}

	s.logger.Info("order rejected",
		zap.Int64("order_id", orderID),
		zap.String("message", message),
	)
	return nil
}

// CancelOrder cancels a pending or approved order. Owners may cancel
// their own orders; admins may cancel any.
func (s *Service) CancelOrder(ctx context.Context, userID, orderID int64, isAdmin bool) error {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return err
	}

	if !isAdmin && o.UserID != userID {
		return xerrors.ErrUnauthorized
	}

	if err := s.orders.Cancel(ctx, orderID, time.Now()); err != nil {
		return err
	}

	s.logger.Info("order cancelled",
		zap.Int64("order_id", orderID),
		zap.Int64("user_id", userID),
	)
	return nil
}

// AttachPaymentProof stores a payment-proof reference on an owned pending order
func (s *Service) AttachPaymentProof(ctx context.Context, userID, orderID int64, proof string) error {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return err
	}

	if o.UserID != userID {
		return xerrors.ErrUnauthorized
	}

	return s.orders.AttachPaymentProof(ctx, orderID, proof, time.Now())
}

// GetStats retrieves order counts per status
func (s *Service) GetStats(ctx context.Context) (*order.OrderStats, error) {
	return s.orders.GetStats(ctx)
}

// ========== Progression engine operations ==========

// CompleteIfExpiredAllowance transitions an approved order to completed
// once the plan's active-day allowance has elapsed since approval. An
// order whose plan is missing or carries an unknown duration tier is
// skipped, not failed.
func (s *Service) CompleteIfExpiredAllowance(ctx context.Context, o *order.Order, now time.Time) error {
	if o.Status != order.StatusApproved || !o.ApprovedOrderDate.Valid {
		return nil
	}

	p, err := s.plans.FindByID(ctx, o.PlanID)
	if errors.Is(err, xerrors.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to resolve plan %d: %w", o.PlanID, err)
	}
	if !p.DaysActive.Valid() {
		return nil
	}

	expiration := o.ApprovedOrderDate.Time.AddDate(0, 0, p.DaysActive.AllowanceDays())
	if !now.After(expiration) {
		return nil
	}

	if err := s.orders.MarkCompleted(ctx, o.ID, now); err != nil {
		return err
	}

	s.logger.Info("order completed",
		zap.Int64("order_id", o.ID),
		zap.String("order_number", o.OrderNumber),
		zap.Time("approved_at", o.ApprovedOrderDate.Time),
		zap.Int("allowance_days", p.DaysActive.AllowanceDays()),
	)
	return nil
}

// AdvanceWeekIfDue advances an approved order's curriculum week once at
// least seven full days have elapsed since the last progression, then
// materializes the new week. Leftover days below seven roll forward
// because the progress date is reset to now, never to an aligned
// boundary. The week counter is written before materialization; a
// materialization failure leaves the counter ahead with no assignment,
// which the read path tolerates as an empty week.
func (s *Service) AdvanceWeekIfDue(ctx context.Context, o *order.Order, now time.Time) error {
	if o.Status != order.StatusApproved || !o.CurrentWeek.Valid || !o.LastProgressDate.Valid {
		return nil
	}

	elapsedDays := int(now.Sub(o.LastProgressDate.Time).Hours() / 24)
	if elapsedDays < daysPerWeek {
		return nil
	}

	weeksToAdvance := elapsedDays / daysPerWeek
	newWeek := int(o.CurrentWeek.Int32) + weeksToAdvance

	if err := s.orders.UpdateProgress(ctx, o.ID, newWeek, now); err != nil {
		return err
	}

	s.logger.Info("order week advanced",
		zap.Int64("order_id", o.ID),
		zap.Int("from_week", int(o.CurrentWeek.Int32)),
		zap.Int("to_week", newWeek),
		zap.Int("elapsed_days", elapsedDays),
	)

	if _, err := s.materializer.MaterializeWeek(ctx, o.ID, newWeek); err != nil {
		s.logger.Error("failed to materialize advanced week",
			zap.Int64("order_id", o.ID),
			zap.Int("week", newWeek),
			zap.Error(err),
		)
	}

	return nil
}

// ExpireIfPastRetention transitions a completed order to expired once
// the plan's retention window has elapsed since completion, deleting
// the order's weekly assignments first. Status is written last: a crash
// after the delete re-runs harmlessly, while flipping status first
// could strand assignments that consumers believe are gone.
func (s *Service) ExpireIfPastRetention(ctx context.Context, o *order.Order, now time.Time) error {
	if o.Status != order.StatusCompleted || !o.CompletedOrderDate.Valid {
		return nil
	}

	p, err := s.plans.FindByID(ctx, o.PlanID)
	if errors.Is(err, xerrors.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to resolve plan %d: %w", o.PlanID, err)
	}
	if !p.DaysActive.Valid() {
		return nil
	}

	expiration := o.CompletedOrderDate.Time.AddDate(0, 0, p.DaysActive.RetentionDays())
	if !now.After(expiration) {
		return nil
	}

	if err := s.materializer.DeleteAssignments(ctx, o.ID); err != nil {
		return fmt.Errorf("failed to delete assignments before expiry: %w", err)
	}

	if err := s.orders.MarkExpired(ctx, o.ID, now); err != nil {
		return err
	}

	s.logger.Info("order expired",
		zap.Int64("order_id", o.ID),
		zap.String("order_number", o.OrderNumber),
		zap.Int("retention_days", p.DaysActive.RetentionDays()),
	)
	return nil
}
