package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sales-kpi/internal/cache"
	"sales-kpi/internal/config"
	"sales-kpi/internal/handler"
	"sales-kpi/internal/logger"
	"sales-kpi/internal/metrics"
	"sales-kpi/internal/middleware"
	"sales-kpi/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config.yaml)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}
	logger.Init(cfg.Log)
	gin.SetMode(gin.ReleaseMode)

	db, err := cfg.OpenGormDB()
	if err != nil {
		logger.Error("db connect failed", "driver", cfg.Database.Driver, "err", err)
		os.Exit(1)
	}
	if err := service.AutoMigrate(db); err != nil {
		logger.Error("db migrate failed", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var locker service.Locker
	redisCache, err := cache.Dial(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Warn("redis unavailable, reminders run without lock", "addr", cfg.Redis.Addr, "err", err)
	} else if redisCache != nil {
		locker = redisCache
		defer redisCache.Close()
	}

	var catalogSync *service.CatalogSync
	if cfg.MOI.APIKey != "" {
		raw, err := cfg.NewRawClient()
		if err != nil {
			logger.Warn("sdk client init failed", "err", err)
		} else {
			catalogSync = service.NewCatalogSync(raw, cfg.MOI.DatabaseID, cfg.MOI.DailyKPITableID)
		}
	}
	if catalogSync != nil {
		logger.Info("catalog sync enabled", "database", cfg.MOI.DatabaseID, "table", cfg.MOI.DailyKPITableID)
	}

	metrics.MustRegister(prometheus.DefaultRegisterer)

	dailySvc := service.NewDailyService(db)
	notifier := service.NewNotifier(cfg.Discord.WebhookURL, cfg.Discord.Timeout)
	if !notifier.Enabled() {
		logger.Info("discord webhook not configured, notifications disabled")
	}

	router := handler.NewRouter(handler.Services{
		Tokens:         middleware.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Auth:           service.NewAuthService(db),
		Daily:          dailySvc,
		Weekly:         service.NewWeeklyService(dailySvc),
		Goals:          service.NewGoalService(db),
		Reviews:        service.NewReviewService(db),
		AI:             service.NewAIService(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model, cfg.AI.Timeout),
		Notifier:       notifier,
		Catalog:        catalogSync,
		RateLimit:      cfg.Server.RateLimit,
		TrustedProxies: cfg.Server.TrustedProxies,
	})

	var reminders *service.ReminderService
	if cfg.Reminder.Enabled && notifier.Enabled() {
		reminders = service.NewReminderService(notifier, locker, cfg.Reminder.AppURL, cfg.Location())
		if err := reminders.Schedule(cfg.Reminder.Daily, cfg.Reminder.Weekly); err != nil {
			logger.Error("reminder schedule invalid", "err", err)
			os.Exit(1)
		}
		reminders.Start()
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("server starting", "addr", cfg.Addr(), "db", cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if reminders != nil {
		reminders.Stop(shutdownCtx)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "err", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
