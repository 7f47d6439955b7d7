package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/olehvh/cek-outage-api/internal/feed"
	"github.com/olehvh/cek-outage-api/internal/handler"
	"github.com/olehvh/cek-outage-api/internal/middleware"
	"github.com/olehvh/cek-outage-api/internal/provider"
	"github.com/olehvh/cek-outage-api/internal/repository"
	"github.com/olehvh/cek-outage-api/internal/service"
	"github.com/olehvh/cek-outage-api/pkg/cache"
	"github.com/olehvh/cek-outage-api/pkg/config"
	"github.com/olehvh/cek-outage-api/pkg/logger"
	corsmiddleware "github.com/olehvh/cek-outage-api/pkg/middleware/cors"
	reqidmiddleware "github.com/olehvh/cek-outage-api/pkg/middleware/requestid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metricsSvc := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, running without cache", "error", err)
		} else {
			repo := repository.NewCacheRepository(client, logr)
			defer repo.Close() //nolint:errcheck
			cacheRepo = repo
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, cfg.Cache.Enabled)

	feedFetcher := feed.NewFetcher(cfg.Feed.URL, cfg.Feed.Timeout)
	providerClient := provider.NewClient(cfg.Provider.BaseURL, cfg.Provider.Timeout)
	outageSvc := service.NewOutageService(feedFetcher, providerClient, cacheSvc, metricsSvc, validator.New(), logr)
	scheduleHandler := handler.NewScheduleHandler(outageSvc)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var refreshSvc *service.RefreshService
	if cfg.Refresh.Enabled {
		refreshSvc = service.NewRefreshService(outageSvc, cfg.Refresh.Groups, cfg.Refresh.Interval, logr)
		refreshSvc.Start(ctx)
		defer refreshSvc.Stop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	api := r.Group(cfg.APIPrefix)
	api.GET("/schedule", scheduleHandler.ListFeed)
	api.GET("/groups/:group/schedule", scheduleHandler.GetGroup)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("shutdown failed", "error", err)
	}
}
