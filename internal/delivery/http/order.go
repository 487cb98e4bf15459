package http

import (
	"net/http"
	"strings"
	"time"

	"fooddash/internal/models"
	"fooddash/internal/service"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

func (h *Handler) CreateOrder(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		newErrorResponse(c, http.StatusUnauthorized, "missing identity")
		return
	}

	var in service.CreateOrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	ord, err := h.svc.CreateOrder(c.Request.Context(), actor, in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ord)
}

func (h *Handler) GetOrder(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		newErrorResponse(c, http.StatusUnauthorized, "missing identity")
		return
	}
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		newErrorResponse(c, http.StatusBadRequest, "missing order id")
		return
	}

	ord, err := h.svc.GetOrder(c.Request.Context(), actor, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ord)
}

type updateStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
	Reason string             `json:"reason,omitempty"`
	Detail string             `json:"detail,omitempty"`
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		newErrorResponse(c, http.StatusUnauthorized, "missing identity")
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	ord, err := h.svc.UpdateStatus(c.Request.Context(), actor, c.Param("id"), req.Status, req.Reason, req.Detail)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ord)
}

type assignDeliveryRequest struct {
	DeliveryPartnerID string `json:"delivery_partner_id" binding:"required"`
}

func (h *Handler) AssignDelivery(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		newErrorResponse(c, http.StatusUnauthorized, "missing identity")
		return
	}

	var req assignDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	ord, err := h.svc.AssignDelivery(c.Request.Context(), actor, c.Param("id"), req.DeliveryPartnerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ord)
}

type cancelOrderRequest struct {
	Reason string `json:"reason,omitempty"`
	Detail string `json:"detail,omitempty"`
}

func (h *Handler) CancelOrder(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		newErrorResponse(c, http.StatusUnauthorized, "missing identity")
		return
	}

	var req cancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		newErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	ord, err := h.svc.CancelOrder(c.Request.Context(), actor, c.Param("id"), req.Reason, req.Detail)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ord)
}

type verifyOTPRequest struct {
	OTP string `json:"otp" binding:"required"`
}

func (h *Handler) VerifyOTP(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		newErrorResponse(c, http.StatusUnauthorized, "missing identity")
		return
	}

	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	ord, err := h.svc.VerifyDeliveryOTP(c.Request.Context(), actor, c.Param("id"), req.OTP)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ord)
}

// OrderStats accepts startDate/endDate query params (YYYY-MM-DD) and defaults
// to the trailing 30 days; the service scopes results by caller role.
func (h *Handler) OrderStats(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		newErrorResponse(c, http.StatusUnauthorized, "missing identity")
		return
	}

	var from, to time.Time
	if raw := c.Query("startDate"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			newErrorResponse(c, http.StatusBadRequest, "invalid startDate")
			return
		}
		from = t
	}
	if raw := c.Query("endDate"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			newErrorResponse(c, http.StatusBadRequest, "invalid endDate")
			return
		}
		to = t.Add(24*time.Hour - time.Nanosecond)
	}

	stats, err := h.svc.OrderStats(c.Request.Context(), actor, from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
