package handler

import (
	"errors"
	"net/http"
	"time"

	"sales-kpi/internal/logger"
	"sales-kpi/internal/model"
	"sales-kpi/internal/service"

	"github.com/gin-gonic/gin"
)

const defaultTestMessage = "🔔 テスト通知: 営業KPIシステムからの通知です"

type DiscordHandler struct{ notifier *service.Notifier }

func NewDiscordHandler(notifier *service.Notifier) *DiscordHandler {
	return &DiscordHandler{notifier: notifier}
}

// POST /api/discord/test
func (h *DiscordHandler) Test(c *gin.Context) {
	var req model.DiscordTestRequest
	// the body is optional
	_ = c.ShouldBindJSON(&req)
	if req.Message == "" {
		req.Message = defaultTestMessage
	}

	err := h.notifier.Send(c.Request.Context(), req.Message)
	if errors.Is(err, service.ErrWebhookNotConfigured) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Discord webhook not configured"})
		return
	}
	if err != nil {
		logger.ErrorContext(c.Request.Context(), "discord.test_failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send notification"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Notification sent"})
}

// GET /api/health
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC().Format(time.RFC3339Nano)})
}
