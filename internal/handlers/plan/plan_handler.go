// internal/handlers/plan/plan_handler.go
package plan

import (
	"net/http"
	"strconv"

	"padel-academy-service/internal/domain/plan"
	"padel-academy-service/internal/pkg/response"
	service "padel-academy-service/internal/service/plan"

	"github.com/gin-gonic/gin"
)

type PlanHandler struct {
	planService *service.PlanService
}

func NewPlanHandler(planService *service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// ListPublicPlans retrieves the active catalog, no auth required
func (h *PlanHandler) ListPublicPlans(c *gin.Context) {
	var filters plan.PlanListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid query parameters", err)
		return
	}

	active := true
	filters.Active = &active

	result, err := h.planService.ListPlans(c.Request.Context(), &filters)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list plans", err)
		return
	}

	response.Success(c, http.StatusOK, "plans retrieved", result)
}

// GetPlan retrieves a plan by ID
func (h *PlanHandler) GetPlan(c *gin.Context) {
	planID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid plan ID", err)
		return
	}

	result, err := h.planService.GetPlan(c.Request.Context(), planID)
	if err != nil {
		response.Error(c, http.StatusNotFound, "plan not found", err)
		return
	}

	response.Success(c, http.StatusOK, "plan retrieved", result)
}

// ========== Admin Endpoints ==========

// ListPlans retrieves all plans including inactive ones (admin only)
func (h *PlanHandler) ListPlans(c *gin.Context) {
	var filters plan.PlanListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid query parameters", err)
		return
	}

	result, err := h.planService.ListPlans(c.Request.Context(), &filters)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list plans", err)
		return
	}

	response.Success(c, http.StatusOK, "plans retrieved", result)
}

// CreatePlan creates a new plan (admin only)
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req plan.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.planService.CreatePlan(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "failed to create plan", err)
		return
	}

	response.Success(c, http.StatusCreated, "plan created successfully", result)
}

// UpdatePlan updates a plan (admin only)
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	planID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid plan ID", err)
		return
	}

	var req plan.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.planService.UpdatePlan(c.Request.Context(), planID, &req)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "failed to update plan", err)
		return
	}

	response.Success(c, http.StatusOK, "plan updated", result)
}

// DeactivatePlan hides a plan from the catalog (admin only)
func (h *PlanHandler) DeactivatePlan(c *gin.Context) {
	planID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid plan ID", err)
		return
	}

	if err := h.planService.DeactivatePlan(c.Request.Context(), planID); err != nil {
		response.Error(c, http.StatusNotFound, "failed to deactivate plan", err)
		return
	}

	response.Success(c, http.StatusOK, "plan deactivated", nil)
}
