package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dom/lightprompt/internal/api"
	"github.com/dom/lightprompt/internal/api/middleware"
	"github.com/dom/lightprompt/internal/config"
	"github.com/dom/lightprompt/internal/logger"
	"github.com/dom/lightprompt/internal/metrics"
	"github.com/dom/lightprompt/internal/repository/postgres"
	"github.com/dom/lightprompt/internal/service"
	"github.com/dom/lightprompt/internal/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", logger.Err(err))
		os.Exit(1)
	}
	logger.SetupDefault(os.Stdout, cfg.SlogLevel())

	// Initialize database
	db, err := postgres.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		slog.Error("failed to connect to database", logger.Err(err))
		os.Exit(1)
	}
	store := postgres.NewStorage(db)

	// Initialize WebSocket hub
	hub := websocket.NewHub()
	go hub.Run()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(registry)

	services := service.NewServices(store, cfg, collector, hub)

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute)
	defer limiter.Stop()

	router := api.NewRouter(api.Deps{
		Services:  services,
		Hub:       hub,
		Config:    cfg,
		Metrics:   collector,
		Gatherer:  registry,
		RateLimit: limiter,
	})

	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", logger.Err(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", logger.Err(err))
	}
	hub.Stop()

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	slog.Info("server stopped")
}
