// internal/repository/postgres/order_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"padel-academy-service/internal/domain/order"
	xerrors "padel-academy-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const orderColumns = `
	id, order_number, user_id, plan_id, is_coach,
	status, payment_proof, reject_message,
	current_week, last_progress_date,
	approved_order_date, completed_order_date, cancellation_date,
	created_at, updated_at`

type OrderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{db: db}
}

func scanOrder(row pgx.Row, o *order.Order) error {
	return row.Scan(
		&o.ID, &o.OrderNumber, &o.UserID, &o.PlanID, &o.IsCoach,
		&o.Status, &o.PaymentProof, &o.RejectMessage,
		&o.CurrentWeek, &o.LastProgressDate,
		&o.ApprovedOrderDate, &o.CompletedOrderDate, &o.CancellationDate,
		&o.CreatedAt, &o.UpdatedAt,
	)
}

// Create inserts a pending order. The order number must already be
// assigned from the counter.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	query := `
		INSERT INTO orders (
			order_number, user_id, plan_id, is_coach, status, payment_proof
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		o.OrderNumber, o.UserID, o.PlanID, o.IsCoach, o.Status, o.PaymentProof,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

// FindByID retrieves an order by ID
func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*order.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	var o order.Order
	err := scanOrder(r.db.QueryRow(ctx, query, id), &o)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find order: %w", err)
	}

	return &o, nil
}

// List retrieves orders with filters. A non-nil userID restricts the
// result to that owner.
func (r *OrderRepository) List(ctx context.Context, userID *int64, filters *order.OrderListFilters) ([]order.Order, int64, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	argPos := 1

	if userID != nil {
		where += fmt.Sprintf(" AND user_id = $%d", argPos)
		args = append(args, *userID)
		argPos++
	}
	if filters.Status != nil {
		where += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, *filters.Status)
		argPos++
	}
	if filters.IsCoach != nil {
		where += fmt.Sprintf(" AND is_coach = $%d", argPos)
		args = append(args, *filters.IsCoach)
		argPos++
	}
	if filters.PlanID != nil {
		where += fmt.Sprintf(" AND plan_id = $%d", argPos)
		args = append(args, *filters.PlanID)
		argPos++
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM orders " + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	offset := (filters.Page - 1) * filters.PageSize
	query := fmt.Sprintf(
		"SELECT %s FROM orders %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		orderColumns, where, argPos, argPos+1,
	)
	args = append(args, filters.PageSize, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []order.Order{}
	for rows.Next() {
		var o order.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, 0, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}

	return orders, total, rows.Err()
}

// FindApprovedWithAllowance returns approved orders that have an
// approval date, the input set of the completion pass.
func (r *OrderRepository) FindApprovedWithAllowance(ctx context.Context) ([]order.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE status = 'approved' AND approved_order_date IS NOT NULL
		ORDER BY id`

	return r.queryOrders(ctx, query)
}

// FindApprovedWithProgress returns approved orders carrying progression
// fields, the input set of the week-advancement pass.
func (r *OrderRepository) FindApprovedWithProgress(ctx context.Context) ([]order.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE status = 'approved'
		  AND current_week IS NOT NULL
		  AND last_progress_date IS NOT NULL
		ORDER BY id`

	return r.queryOrders(ctx, query)
}

// FindCompleted returns completed orders, the input set of the
// retention-expiry pass.
func (r *OrderRepository) FindCompleted(ctx context.Context) ([]order.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE status = 'completed' AND completed_order_date IS NOT NULL
		ORDER BY id`

	return r.queryOrders(ctx, query)
}

func (r *OrderRepository) queryOrders(ctx context.Context, query string, args ...interface{}) ([]order.Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []order.Order{}
	for rows.Next() {
		var o order.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}

	return orders, rows.Err()
}

// Approve moves a pending order to approved, stamping the approval date
// and the initial progression fields in one write. The status predicate
// keeps a double approval from re-stamping anything.
func (r *OrderRepository) Approve(ctx context.Context, id int64, now time.Time) (*order.Order, error) {
	query := `
		UPDATE orders
		SET status = 'approved', approved_order_date = $1,
		    current_week = 1, last_progress_date = $1, updated_at = $1
		WHERE id = $2 AND status = 'pending'
		RETURNING ` + orderColumns

	var o order.Order
	err := scanOrder(r.db.QueryRow(ctx, query, now, id), &o)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrInvalidState
	}
	if err != nil {
		return nil, fmt.Errorf("failed to approve order: %w", err)
	}

	return &o, nil
}

// Reject moves a pending order to rejected with an operator message.
func (r *OrderRepository) Reject(ctx context.Context, id int64, message string, now time.Time) error {
	query := `
		UPDATE orders
		SET status = 'rejected', reject_message = $1, updated_at = $2
		WHERE id = $3 AND status = 'pending'
	`

	result, err := r.db.Exec(ctx, query, message, now, id)
	if err != nil {
		return fmt.Errorf("failed to reject order: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrInvalidState
	}

	return nil
}

// Cancel moves a pending or approved order to cancelled. Progression
// fields are cleared since they only carry meaning while approved.
func (r *OrderRepository) Cancel(ctx context.Context, id int64, now time.Time) error {
	query := `
		UPDATE orders
		SET status = 'cancelled', cancellation_date = $1,
		    current_week = NULL, last_progress_date = NULL, updated_at = $1
		WHERE id = $2 AND status IN ('pending', 'approved')
	`

	result, err := r.db.Exec(ctx, query, now, id)
	if err != nil {
		return fmt.Errorf("failed to cancel order: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrInvalidState
	}

	return nil
}

// UpdateProgress persists a week advancement. The status predicate
// guards against advancing an order that left approved state between
// the scan and this write.
func (r *OrderRepository) UpdateProgress(ctx context.Context, id int64, currentWeek int, lastProgress time.Time) error {
	query := `
		UPDATE orders
		SET current_week = $1, last_progress_date = $2, updated_at = $2
		WHERE id = $3 AND status = 'approved'
	`

	result, err := r.db.Exec(ctx, query, currentWeek, lastProgress, id)
	if err != nil {
		return fmt.Errorf("failed to update progress: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrInvalidState
	}

	return nil
}

// MarkCompleted transitions an approved order to completed and stamps
// the completion date exactly once.
func (r *OrderRepository) MarkCompleted(ctx context.Context, id int64, now time.Time) error {
	query := `
		UPDATE orders
		SET status = 'completed', completed_order_date = $1, updated_at = $1
		WHERE id = $2 AND status = 'approved'
	`

	result, err := r.db.Exec(ctx, query, now, id)
	if err != nil {
		return fmt.Errorf("failed to mark order completed: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrInvalidState
	}

	return nil
}

// MarkExpired transitions a completed order to expired. The weekly
// assignments must already have been deleted; status is written last so
// consumers never see an expired order with live assignments.
func (r *OrderRepository) MarkExpired(ctx context.Context, id int64, now time.Time) error {
	query := `
		UPDATE orders
		SET status = 'expired', updated_at = $1
		WHERE id = $2 AND status = 'completed'
	`

	result, err := r.db.Exec(ctx, query, now, id)
	if err != nil {
		return fmt.Errorf("failed to mark order expired: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrInvalidState
	}

	return nil
}

// AttachPaymentProof stores the payment-proof reference on a pending order.
func (r *OrderRepository) AttachPaymentProof(ctx context.Context, id int64, proof string, now time.Time) error {
	query := `
		UPDATE orders
		SET payment_proof = $1, updated_at = $2
		WHERE id = $3 AND status = 'pending'
	`

	result, err := r.db.Exec(ctx, query, proof, now, id)
	if err != nil {
		return fmt.Errorf("failed to attach payment proof: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrInvalidState
	}

	return nil
}

// GetStats retrieves order counts per status
func (r *OrderRepository) GetStats(ctx context.Context) (*order.OrderStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'approved'),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status = 'expired')
		FROM orders
	`

	var stats order.OrderStats
	err := r.db.QueryRow(ctx, query).Scan(
		&stats.TotalOrders, &stats.PendingOrders, &stats.ApprovedOrders,
		&stats.CompletedOrders, &stats.ExpiredOrders,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get order stats: %w", err)
	}

	return &stats, nil
}
