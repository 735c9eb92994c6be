package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"sales-kpi/internal/logger"
	"sales-kpi/internal/model"
	"sales-kpi/internal/service"

	"github.com/gin-gonic/gin"
)

type GPTHandler struct {
	ai     *service.AIService
	weekly *service.WeeklyService
	goals  *service.GoalService
}

func NewGPTHandler(ai *service.AIService, weekly *service.WeeklyService, goals *service.GoalService) *GPTHandler {
	return &GPTHandler{ai: ai, weekly: weekly, goals: goals}
}

// POST /api/gpts/analyze-weekly
//
// Either weeklyData (and optionally goals) is given, or only week_start, in
// which case the summary and current goals are loaded here.
func (h *GPTHandler) AnalyzeWeekly(c *gin.Context) {
	var req model.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	weeklyData, goals := req.WeeklyData, req.Goals
	if isEmptyJSON(weeklyData) {
		if req.WeekStart == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "weeklyData or week_start required"})
			return
		}
		sum, err := h.weekly.Summarize(c.Request.Context(), userID(c), req.WeekStart)
		if errors.Is(err, service.ErrInvalidDate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid week start"})
			return
		}
		if err != nil {
			logger.ErrorContext(c.Request.Context(), "gpts.analyze.summary_failed", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Analysis failed"})
			return
		}
		weeklyData, _ = json.Marshal(sum)
	}
	if isEmptyJSON(goals) {
		g, err := h.goals.Current(c.Request.Context(), userID(c))
		if err != nil {
			logger.WarnContext(c.Request.Context(), "gpts.analyze.goals_failed", "err", err)
		}
		if g != nil {
			goals, _ = json.Marshal(g)
		}
	}

	analysis, err := h.ai.AnalyzeWeeklyPerformance(c.Request.Context(), weeklyData, goals)
	if err != nil {
		logger.ErrorContext(c.Request.Context(), "gpts.analyze.failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Analysis failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"analysis": analysis})
}

// POST /api/gpts/improve-email
func (h *GPTHandler) ImproveEmail(c *gin.Context) {
	var req model.ImproveEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	suggestions, err := h.ai.SuggestEmailImprovement(c.Request.Context(), req.Template, req.ReplyRate.String())
	if err != nil {
		logger.ErrorContext(c.Request.Context(), "gpts.improve_email.failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Suggestion failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

func isEmptyJSON(raw json.RawMessage) bool {
	b := bytes.TrimSpace(raw)
	return len(b) == 0 || bytes.Equal(b, []byte("null"))
}
