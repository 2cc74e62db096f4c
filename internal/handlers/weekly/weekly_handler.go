// internal/handlers/weekly/weekly_handler.go
package weekly

import (
	"errors"
	"net/http"
	"strconv"

	"padel-academy-service/internal/domain/assignment"
	"padel-academy-service/internal/middleware"
	xerrors "padel-academy-service/internal/pkg/errors"
	"padel-academy-service/internal/pkg/response"
	"padel-academy-service/internal/service/curriculum"
	orderservice "padel-academy-service/internal/service/order"

	"github.com/gin-gonic/gin"
)

// WeeklyHandler serves the student-facing view over materialized weekly
// assignments.
type WeeklyHandler struct {
	curriculumService *curriculum.Service
	orderService      *orderservice.Service
}

func NewWeeklyHandler(curriculumService *curriculum.Service, orderService *orderservice.Service) *WeeklyHandler {
	return &WeeklyHandler{
		curriculumService: curriculumService,
		orderService:      orderService,
	}
}

func (h *WeeklyHandler) pathParams(c *gin.Context) (orderID int64, week int, ok bool) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid order ID", err)
		return 0, 0, false
	}

	week, err = strconv.Atoi(c.Param("week"))
	if err != nil || week < 1 {
		response.Error(c, http.StatusBadRequest, "invalid week number", err)
		return 0, 0, false
	}

	return orderID, week, true
}

// GetCurrentWeek retrieves the assignment for the order's current
// curriculum week. A week whose materialization is still missing reads
// as an empty assignment, not an error.
func (h *WeeklyHandler) GetCurrentWeek(c *gin.Context) {
	userID := middleware.MustGetIdentityID(c)

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid order ID", err)
		return
	}

	o, err := h.orderService.GetOrder(c.Request.Context(), userID, orderID, middleware.IsAdmin(c))
	if err != nil {
		if errors.Is(err, xerrors.ErrUnauthorized) {
			response.Forbidden(c, "order does not belong to you")
			return
		}
		response.NotFound(c, "order not found")
		return
	}

	if !o.CurrentWeek.Valid {
		response.NotFound(c, "order has no active curriculum week")
		return
	}

	week := int(o.CurrentWeek.Int32)
	a, err := h.curriculumService.GetAssignment(c.Request.Context(), orderID, week)
	if errors.Is(err, xerrors.ErrNotFound) {
		a = &assignment.WeeklyAssignment{
			OrderID: orderID,
			Week:    week,
			Videos:  []assignment.AssignedVideo{},
		}
	} else if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to load weekly assignment", err)
		return
	}

	response.Success(c, http.StatusOK, "weekly assignment retrieved", a)
}

// GetWeek retrieves the assignment for one (order, week) pair
func (h *WeeklyHandler) GetWeek(c *gin.Context) {
	userID := middleware.MustGetIdentityID(c)

	orderID, week, ok := h.pathParams(c)
	if !ok {
		return
	}

	if _, err := h.orderService.GetOrder(c.Request.Context(), userID, orderID, middleware.IsAdmin(c)); err != nil {
		if errors.Is(err, xerrors.ErrUnauthorized) {
			response.Forbidden(c, "order does not belong to you")
			return
		}
		response.NotFound(c, "order not found")
		return
	}

	a, err := h.curriculumService.GetAssignment(c.Request.Context(), orderID, week)
	if err != nil {
		response.NotFound(c, "no assignment for this week")
		return
	}

	response.Success(c, http.StatusOK, "weekly assignment retrieved", a)
}

// ListWeeks retrieves every materialized week of an order
func (h *WeeklyHandler) ListWeeks(c *gin.Context) {
	userID := middleware.MustGetIdentityID(c)

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid order ID", err)
		return
	}

	if _, err := h.orderService.GetOrder(c.Request.Context(), userID, orderID, middleware.IsAdmin(c)); err != nil {
		if errors.Is(err, xerrors.ErrUnauthorized) {
			response.Forbidden(c, "order does not belong to you")
			return
		}
		response.NotFound(c, "order not found")
		return
	}

	assignments, err := h.curriculumService.ListAssignments(c.Request.Context(), orderID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list weekly assignments", err)
		return
	}

	response.Success(c, http.StatusOK, "weekly assignments retrieved", assignments)
}

// ToggleVideoChecked flips the student's checked mark on one video of a
// weekly assignment
func (h *WeeklyHandler) ToggleVideoChecked(c *gin.Context) {
	userID := middleware.MustGetIdentityID(c)

	orderID, week, ok := h.pathParams(c)
	if !ok {
		return
	}

	videoID, err := strconv.ParseInt(c.Param("video_id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid video ID", err)
		return
	}

	if _, err := h.orderService.GetOrder(c.Request.Context(), userID, orderID, false); err != nil {
		if errors.Is(err, xerrors.ErrUnauthorized) {
			response.Forbidden(c, "order does not belong to you")
			return
		}
		response.NotFound(c, "order not found")
		return
	}

	a, err := h.curriculumService.ToggleVideoChecked(c.Request.Context(), orderID, week, videoID)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "video not found in this week's assignment")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to toggle video", err)
		return
	}

	response.Success(c, http.StatusOK, "video checked state toggled", a)
}
