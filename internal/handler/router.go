package handler

import (
	"time"

	"sales-kpi/internal/logger"
	"sales-kpi/internal/metrics"
	"sales-kpi/internal/middleware"
	"sales-kpi/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Services is everything the HTTP layer needs.
type Services struct {
	Tokens   *middleware.Tokens
	Auth     *service.AuthService
	Daily    *service.DailyService
	Weekly   *service.WeeklyService
	Goals    *service.GoalService
	Reviews  *service.ReviewService
	AI       *service.AIService
	Notifier *service.Notifier
	Catalog  *service.CatalogSync
	// RateLimit is requests per minute per IP on the auth and GPT routes.
	RateLimit int
	// TrustedProxies is passed to gin; nil trusts no proxy headers.
	TrustedProxies []string
}

func NewRouter(s Services) *gin.Engine {
	r := gin.New()
	if err := r.SetTrustedProxies(s.TrustedProxies); err != nil {
		logger.Warn("trusted proxies rejected, trusting none", "proxies", s.TrustedProxies, "err", err)
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog(), metrics.Middleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders:    []string{"X-New-Token", middleware.HeaderRequestID},
		AllowCredentials: true,
	}))

	authH := NewAuthHandler(s.Auth, s.Tokens)
	kpiH := NewKPIHandler(s.Daily, s.Weekly, s.Goals, s.Notifier, s.Catalog)
	reviewH := NewReviewHandler(s.Reviews)
	gptH := NewGPTHandler(s.AI, s.Weekly, s.Goals)
	discordH := NewDiscordHandler(s.Notifier)

	r.GET("/metrics", metrics.Handler())
	r.GET("/api/health", Health)

	auth := r.Group("/api/auth", middleware.RateLimiter(s.RateLimit, time.Minute))
	auth.POST("/register", authH.Register)
	auth.POST("/login", authH.Login)

	api := r.Group("/api", middleware.JWTAuth(s.Tokens))
	api.POST("/kpi-goals", kpiH.SaveGoals)
	api.GET("/kpi-goals/current", kpiH.CurrentGoals)
	api.POST("/daily-kpi", kpiH.SaveDaily)
	api.GET("/daily-kpi/:date", kpiH.GetDaily)
	api.GET("/weekly-summary/:weekStart", kpiH.WeeklySummary)
	api.POST("/weekly-reviews", reviewH.Save)
	api.GET("/weekly-reviews/:weekStart", reviewH.Get)
	api.POST("/discord/test", discordH.Test)

	gpts := api.Group("/gpts", middleware.RateLimiter(s.RateLimit, time.Minute))
	gpts.POST("/analyze-weekly", gptH.AnalyzeWeekly)
	gpts.POST("/improve-email", gptH.ImproveEmail)

	return r
}
