package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/merchlab/acc-dashboard/backend-go/internal/api"
	"github.com/merchlab/acc-dashboard/backend-go/internal/cache"
	"github.com/merchlab/acc-dashboard/backend-go/internal/config"
	"github.com/merchlab/acc-dashboard/backend-go/internal/repository/postgres"
	"github.com/merchlab/acc-dashboard/backend-go/internal/service"
	"github.com/merchlab/acc-dashboard/backend-go/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	chartCache, err := cache.NewChartCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Chart cache unavailable, continuing without")
		chartCache = cache.NewNoopChartCache()
	}

	warehouseRepo := postgres.NewWarehouseRepository(db.DB)
	dashboardService := service.NewDashboardService(warehouseRepo, chartCache, cfg.Forecast)

	router := api.NewRouter(&api.Services{Dashboard: dashboardService}, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
