package http

import (
	"net/http"

	"fooddash/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handler struct {
	svc       service.API
	jwtSecret []byte
}

func NewHandler(s service.API, jwtSecret string) *Handler {
	return &Handler{svc: s, jwtSecret: []byte(jwtSecret)}
}

func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.Default()
	router.Use(metricsMiddleware())

	api := router.Group("/api", h.auth())
	{
		api.POST("/orders", h.CreateOrder)
		api.GET("/orders/stats", h.OrderStats)
		api.GET("/orders/:id", h.GetOrder)
		api.PUT("/orders/:id/status", h.UpdateStatus)
		api.PUT("/orders/:id/assign-delivery", h.AssignDelivery)
		api.PUT("/orders/:id/cancel", h.CancelOrder)
		api.POST("/orders/:id/verify-otp", h.VerifyOTP)

		api.POST("/reviews", h.CreateReview)
		api.POST("/admin/ratings/rebuild", h.RebuildRatings)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	})

	return router
}
