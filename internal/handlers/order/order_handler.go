// internal/handlers/order/order_handler.go
package order

import (
	"errors"
	"net/http"
	"strconv"

	"padel-academy-service/internal/domain/order"
	"padel-academy-service/internal/middleware"
	xerrors "padel-academy-service/internal/pkg/errors"
	"padel-academy-service/internal/pkg/response"
	service "padel-academy-service/internal/service/order"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderService *service.Service
}

func NewOrderHandler(orderService *service.Service) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func orderIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid order ID", err)
		return 0, false
	}
	return id, true
}

// CreateOrder creates a pending order for the authenticated user
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userID := middleware.MustGetIdentityID(c)

	var req order.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.orderService.CreateOrder(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "failed to create order", err)
		return
	}

	response.Success(c, http.StatusCreated, "order created successfully", result)
}

// GetOrder retrieves an order by ID
func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID := middleware.MustGetIdentityID(c)

	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	result, err := h.orderService.GetOrder(c.Request.Context(), userID, orderID, middleware.IsAdmin(c))
	if err != nil {
		if errors.Is(err, xerrors.ErrUnauthorized) {
			response.Forbidden(c, "order does not belong to you")
			return
		}
		response.Error(c, http.StatusNotFound, "order not found", err)
		return
	}

	response.Success(c, http.StatusOK, "order retrieved", result)
}

// ListMyOrders retrieves the authenticated user's orders
func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	userID := middleware.MustGetIdentityID(c)

	var filters order.OrderListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid query parameters", err)
		return
	}

	result, err := h.orderService.ListOrders(c.Request.Context(), &userID, &filters)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list orders", err)
		return
	}

	response.Success(c, http.StatusOK, "orders retrieved", result)
}

// AttachPaymentProof stores a payment-proof reference on a pending order
func (h *OrderHandler) AttachPaymentProof(c *gin.Context) {
	userID := middleware.MustGetIdentityID(c)

	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	var req order.AttachPaymentProofRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	if err := h.orderService.AttachPaymentProof(c.Request.Context(), userID, orderID, req.PaymentProof); err != nil {
		if errors.Is(err, xerrors.ErrUnauthorized) {
			response.Forbidden(c, "order does not belong to you")
			return
		}
		response.Error(c, http.StatusBadRequest, "failed to attach payment proof", err)
		return
	}

	response.Success(c, http.StatusOK, "payment proof attached", nil)
}

// CancelOrder cancels a pending or approved order
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	userID := middleware.MustGetIdentityID(c)

	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	if err := h.orderService.CancelOrder(c.Request.Context(), userID, orderID, middleware.IsAdmin(c)); err != nil {
		if errors.Is(err, xerrors.ErrUnauthorized) {
			response.Forbidden(c, "order does not belong to you")
			return
		}
		response.Error(c, http.StatusBadRequest, "failed to cancel order", err)
		return
	}

	response.Success(c, http.StatusOK, "order cancelled", nil)
}

// ========== Admin Endpoints ==========

// ListOrders retrieves orders across all users (admin only)
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var filters order.OrderListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid query parameters", err)
		return
	}

	result, err := h.orderService.ListOrders(c.Request.Context(), nil, &filters)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list orders", err)
		return
	}

	response.Success(c, http.StatusOK, "orders retrieved", result)
}

// ApproveOrder approves a pending order (admin only)
func (h *OrderHandler) ApproveOrder(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	result, err := h.orderService.ApproveOrder(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, xerrors.ErrInvalidState) {
			response.Error(c, http.StatusConflict, "order is not pending", err)
			return
		}
		response.Error(c, http.StatusBadRequest, "failed to approve order", err)
		return
	}

	response.Success(c, http.StatusOK, "order approved", result)
}

// RejectOrder rejects a pending order with a message (admin only)
func (h *OrderHandler) RejectOrder(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	var req order.RejectOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	if err := h.orderService.RejectOrder(c.Request.Context(), orderID, req.Message); err != nil {
		if errors.Is(err, xerrors.ErrInvalidState) {
			response.Error(c, http.StatusConflict, "order is not pending", err)
			return
		}
		response.Error(c, http.StatusBadRequest, "failed to reject order", err)
		return
	}

	response.Success(c, http.StatusOK, "order rejected", nil)
}

// GetStats retrieves order counts per status (admin only)
func (h *OrderHandler) GetStats(c *gin.Context) {
	result, err := h.orderService.GetStats(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to get order stats", err)
		return
	}

	response.Success(c, http.StatusOK, "order stats retrieved", result)
}
