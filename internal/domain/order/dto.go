// internal/domain/order/dto.go
package order

type CreateOrderRequest struct {
	PlanID       int64  `json:"plan_id" binding:"required"`
	PaymentProof string `json:"payment_proof"`
}

type RejectOrderRequest struct {
	Message string `json:"message" binding:"required,max=500"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

type AttachPaymentProofRequest struct {
	PaymentProof string `json:"payment_proof" binding:"required,max=500"`
}

type OrderListFilters struct {
	Status   *OrderStatus `form:"status"`
	IsCoach  *bool        `form:"is_coach"`
	PlanID   *int64       `form:"plan_id"`
	Page     int          `form:"page"`
	PageSize int          `form:"page_size"`
}

type OrderListResponse struct {
	Orders     []Order `json:"orders"`
	Total      int64   `json:"total"`
	Page       int     `json:"page"`
	PageSize   int     `json:"page_size"`
	TotalPages int     `json:"total_pages"`
}
