package handler

import (
	"errors"
	"net/http"

	"sales-kpi/internal/logger"
	"sales-kpi/internal/model"
	"sales-kpi/internal/service"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct{ reviews *service.ReviewService }

func NewReviewHandler(reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// POST /api/weekly-reviews
func (h *ReviewHandler) Save(c *gin.Context) {
	var req model.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	r, err := h.reviews.Save(c.Request.Context(), userID(c), req)
	if errors.Is(err, service.ErrInvalidDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid week_start"})
		return
	}
	if err != nil {
		logger.ErrorContext(c.Request.Context(), "review.save_failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save weekly review"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": r.ID, "message": "Weekly review saved successfully"})
}

// GET /api/weekly-reviews/:weekStart
func (h *ReviewHandler) Get(c *gin.Context) {
	r, err := h.reviews.Get(c.Request.Context(), userID(c), c.Param("weekStart"))
	if errors.Is(err, service.ErrInvalidDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid week start"})
		return
	}
	if err != nil {
		logger.ErrorContext(c.Request.Context(), "review.fetch_failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch weekly review"})
		return
	}
	if r == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, r)
}
