// internal/domain/order/entity.go
package order

import (
	"database/sql"
	"time"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusApproved  OrderStatus = "approved"
	StatusRejected  OrderStatus = "rejected"
	StatusCancelled OrderStatus = "cancelled"
	StatusCompleted OrderStatus = "completed"
	StatusExpired   OrderStatus = "expired"
)

// IsTerminal reports whether no further transition can leave the status.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case StatusRejected, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

// Order is one purchased, time-bounded subscription instance.
// CurrentWeek and LastProgressDate are set together at approval and
// only carry meaning while the order is approved.
type Order struct {
	ID          int64  `json:"id" db:"id"`
	OrderNumber string `json:"order_number" db:"order_number"`
	UserID      int64  `json:"user_id" db:"user_id"`
	PlanID      int64  `json:"plan_id" db:"plan_id"`
	IsCoach     bool   `json:"is_coach" db:"is_coach"`

	Status        OrderStatus    `json:"status" db:"status"`
	PaymentProof  sql.NullString `json:"payment_proof,omitempty" db:"payment_proof"`
	RejectMessage sql.NullString `json:"reject_message,omitempty" db:"reject_message"`

	// Progression
	CurrentWeek      sql.NullInt32 `json:"current_week,omitempty" db:"current_week"`
	LastProgressDate sql.NullTime  `json:"last_progress_date,omitempty" db:"last_progress_date"`

	// Lifecycle timestamps, each stamped exactly once
	ApprovedOrderDate  sql.NullTime `json:"approved_order_date,omitempty" db:"approved_order_date"`
	CompletedOrderDate sql.NullTime `json:"completed_order_date,omitempty" db:"completed_order_date"`
	CancellationDate   sql.NullTime `json:"cancellation_date,omitempty" db:"cancellation_date"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type OrderStats struct {
	TotalOrders     int64 `json:"total_orders"`
	PendingOrders   int64 `json:"pending_orders"`
	ApprovedOrders  int64 `json:"approved_orders"`
	CompletedOrders int64 `json:"completed_orders"`
	ExpiredOrders   int64 `json:"expired_orders"`
}
