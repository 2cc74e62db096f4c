// internal/app/router.go
package app

import (
	orderHandler "padel-academy-service/internal/handlers/order"
	planHandler "padel-academy-service/internal/handlers/plan"
	videoHandler "padel-academy-service/internal/handlers/video"
	weeklyHandler "padel-academy-service/internal/handlers/weekly"
	"padel-academy-service/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	OrderHandler   *orderHandler.OrderHandler
	PlanHandler    *planHandler.PlanHandler
	VideoHandler   *videoHandler.VideoHandler
	WeeklyHandler  *weeklyHandler.WeeklyHandler
	AuthMiddleware *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, logger *zap.Logger, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== Plans ====================
	plans := api.Group("/plans")
	{
		// Public catalog - no auth required
		plans.GET("/public", h.PlanHandler.ListPublicPlans)

		plansAuth := plans.Group("")
		plansAuth.Use(h.AuthMiddleware.Auth())
		{
			plansAuth.GET("/:id", h.PlanHandler.GetPlan)
		}

		plansAdmin := plans.Group("")
		plansAdmin.Use(h.AuthMiddleware.Auth(), h.AuthMiddleware.RequireAdmin())
		{
			plansAdmin.GET("", h.PlanHandler.ListPlans)
			plansAdmin.POST("", h.PlanHandler.CreatePlan)
			plansAdmin.PUT("/:id", h.PlanHandler.UpdatePlan)
			plansAdmin.DELETE("/:id", h.PlanHandler.DeactivatePlan)
		}
	}

	// ==================== Orders ====================
	orders := api.Group("/orders")
	orders.Use(h.AuthMiddleware.Auth())
	{
		orders.POST("", h.OrderHandler.CreateOrder)
		orders.GET("/mine", h.OrderHandler.ListMyOrders)
		orders.GET("/:id", h.OrderHandler.GetOrder)
		orders.PUT("/:id/payment-proof", h.OrderHandler.AttachPaymentProof)
		orders.POST("/:id/cancel", h.OrderHandler.CancelOrder)

		// Weekly curriculum view
		orders.GET("/:id/weeks", h.WeeklyHandler.ListWeeks)
		orders.GET("/:id/weeks/current", h.WeeklyHandler.GetCurrentWeek)
		orders.GET("/:id/weeks/:week", h.WeeklyHandler.GetWeek)
		orders.PUT("/:id/weeks/:week/videos/:video_id/toggle", h.WeeklyHandler.ToggleVideoChecked)
	}

	ordersAdmin := api.Group("/admin/orders")
	ordersAdmin.Use(h.AuthMiddleware.Auth(), h.AuthMiddleware.RequireAdmin())
	{
		ordersAdmin.GET("", h.OrderHandler.ListOrders)
		ordersAdmin.GET("/stats", h.OrderHandler.GetStats)
		ordersAdmin.POST("/:id/approve", h.OrderHandler.ApproveOrder)
		ordersAdmin.POST("/:id/reject", h.OrderHandler.RejectOrder)
		ordersAdmin.POST("/:id/cancel", h.OrderHandler.CancelOrder)
	}

	// ==================== Videos ====================
	videos := api.Group("/videos")
	videos.Use(h.AuthMiddleware.Auth(), h.AuthMiddleware.RequireAdmin())
	{
		videos.GET("", h.VideoHandler.ListVideos)
		videos.GET("/:id", h.VideoHandler.GetVideo)
		videos.POST("", h.VideoHandler.CreateVideo)
		videos.PUT("/:id", h.VideoHandler.UpdateVideo)
	}

	logger.Info("routes registered")
}
