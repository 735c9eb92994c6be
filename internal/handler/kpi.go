package handler

import (
	"errors"
	"net/http"

	"sales-kpi/internal/logger"
	"sales-kpi/internal/metrics"
	"sales-kpi/internal/middleware"
	"sales-kpi/internal/model"
	"sales-kpi/internal/service"

	"github.com/gin-gonic/gin"
)

type KPIHandler struct {
	daily    *service.DailyService
	weekly   *service.WeeklyService
	goals    *service.GoalService
	notifier *service.Notifier
	catalog  *service.CatalogSync
}

func NewKPIHandler(daily *service.DailyService, weekly *service.WeeklyService, goals *service.GoalService,
	notifier *service.Notifier, catalog *service.CatalogSync) *KPIHandler {
	return &KPIHandler{daily: daily, weekly: weekly, goals: goals, notifier: notifier, catalog: catalog}
}

// POST /api/kpi-goals
func (h *KPIHandler) SaveGoals(c *gin.Context) {
	var req model.GoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	g, err := h.goals.Save(c.Request.Context(), userID(c), req)
	if errors.Is(err, service.ErrInvalidDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid week_start"})
		return
	}
	if err != nil {
		logger.ErrorContext(c.Request.Context(), "goals.save_failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save goals"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": g.ID, "message": "Goals saved successfully"})
}

// GET /api/kpi-goals/current
func (h *KPIHandler) CurrentGoals(c *gin.Context) {
	g, err := h.goals.Current(c.Request.Context(), userID(c))
	if err != nil {
		logger.ErrorContext(c.Request.Context(), "goals.fetch_failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch goals"})
		return
	}
	if g == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, g)
}

// POST /api/daily-kpi
func (h *KPIHandler) SaveDaily(c *gin.Context) {
	var req model.DailyKPIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	date, err := model.ParseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	uid := userID(c)
	rec, err := h.daily.UpsertDailyRecord(c.Request.Context(), uid, date, req.Counters(), req.Notes)
	if err != nil {
		logger.ErrorContext(c.Request.Context(), "daily.save_failed", "date", req.Date, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save daily KPI"})
		return
	}
	metrics.DailySubmissions.Inc()
	logger.InfoContext(c.Request.Context(), "daily.saved", "date", rec.Date.String())

	h.notifier.NotifyDailyKPI(c.GetString(middleware.CtxUserName), rec)
	h.catalog.MirrorDailyKPI(rec)

	c.JSON(http.StatusOK, gin.H{"message": "Daily KPI saved successfully"})
}

// GET /api/daily-kpi/:date
func (h *KPIHandler) GetDaily(c *gin.Context) {
	date, err := model.ParseDate(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}
	rec, err := h.daily.GetDailyRecord(c.Request.Context(), userID(c), date)
	if err != nil {
		logger.ErrorContext(c.Request.Context(), "daily.fetch_failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch daily KPI"})
		return
	}
	if rec == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// GET /api/weekly-summary/:weekStart
func (h *KPIHandler) WeeklySummary(c *gin.Context) {
	sum, err := h.weekly.Summarize(c.Request.Context(), userID(c), c.Param("weekStart"))
	switch {
	case errors.Is(err, service.ErrInvalidDate):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid week start"})
		return
	case err != nil:
		logger.ErrorContext(c.Request.Context(), "weekly.summary_failed", "week", c.Param("weekStart"), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch weekly data"})
		return
	}
	logger.DebugContext(c.Request.Context(), "weekly.summary", "week", sum.WeekStart.String(), "days", len(sum.DailyData))
	c.JSON(http.StatusOK, sum)
}

func userID(c *gin.Context) int { return c.GetInt(middleware.CtxUserID) }
