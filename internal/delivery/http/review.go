package http

import (
	"net/http"

	"fooddash/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateReview(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		newErrorResponse(c, http.StatusUnauthorized, "missing identity")
		return
	}

	var in service.CreateReviewInput
	if err := c.ShouldBindJSON(&in); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	rev, err := h.svc.CreateReview(c.Request.Context(), actor, in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rev)
}

func (h *Handler) RebuildRatings(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		newErrorResponse(c, http.StatusUnauthorized, "missing identity")
		return
	}

	if err := h.svc.RebuildRatings(c.Request.Context(), actor); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "rebuilt"})
}
