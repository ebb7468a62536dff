package main

import (
	"context"
	"log"
	"net/http"

	"github.com/careerhub/backend/internal/api"
	"github.com/careerhub/backend/internal/auth"
	"github.com/careerhub/backend/internal/cache"
	"github.com/careerhub/backend/internal/config"
	"github.com/careerhub/backend/internal/db"
	apperrors "github.com/careerhub/backend/internal/errors"
	"github.com/careerhub/backend/internal/health"
	"github.com/careerhub/backend/internal/logger"
	"github.com/careerhub/backend/internal/metrics"
	"github.com/careerhub/backend/internal/middleware"
	"github.com/careerhub/backend/internal/storage"
	"github.com/careerhub/backend/internal/websocket"
)

const version = "1.0.0"

func main() {
	cfg := config.Load()

	database, err := db.New(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	userRepo := db.NewUserRepository(database)
	jobRepo := db.NewJobRepository(database)
	applicationRepo := db.NewApplicationRepository(database)
	profileRepo := db.NewProfileRepository(database)

	authService := auth.NewService(userRepo, cfg.JWTSecret, cfg.JWTRefreshSecret)
	authHandlers := auth.NewHandlers(authService)

	// Redis is optional: job listings fall back to Postgres without it.
	jobCache, err := cache.New(cfg.RedisAddr)
	if err != nil {
		logger.Warn(context.Background(), "redis unavailable, job list caching disabled", map[string]interface{}{
			"addr": cfg.RedisAddr,
		})
		jobCache = nil
	} else {
		defer jobCache.Close()
	}

	storageClient, err := storage.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to object storage: %v", err)
	}
	if err := storageClient.EnsureBucket(context.Background()); err != nil {
		log.Fatalf("Failed to ensure storage bucket: %v", err)
	}
	uploader := storage.NewUploader(cfg)

	hub := websocket.NewHub()
	go hub.Run()
	notifier := websocket.NewNotifier(hub)
	wsHandler := websocket.NewHandler(hub, authService)

	checkerCfg := &health.CheckerConfig{
		DB:           database.DB,
		StorageCheck: storageClient.Ping,
		Version:      version,
	}
	if jobCache != nil {
		checkerCfg.CacheCheck = jobCache.Ping
	}
	healthHandler := health.NewHandler(health.NewChecker(checkerCfg))

	appMetrics := metrics.Default()

	router := api.NewRouter(api.RouterConfig{
		AuthHandlers:        authHandlers,
		AuthService:         authService,
		JobHandlers:         api.NewJobHandlers(jobRepo, jobCache, uploader, notifier),
		AttachmentHandlers:  api.NewAttachmentHandlers(jobRepo, storageClient),
		ApplicationHandlers: api.NewApplicationHandlers(applicationRepo, jobRepo, userRepo, notifier),
		ProfileHandlers:     api.NewProfileHandlers(profileRepo, userRepo, uploader),
		WSHandler:           wsHandler.ServeWS,
		HealthHandler:       healthHandler.HealthHandler,
		LivenessHandler:     healthHandler.LivenessHandler,
		ReadinessHandler:    healthHandler.ReadinessHandler,
		MetricsHandler:      appMetrics.Handler(),
	})

	handler := middleware.Chain(router,
		apperrors.RequestIDMiddleware,
		logger.RecoveryMiddleware,
		logger.LoggingMiddleware,
		metrics.Middleware(appMetrics),
		middleware.CORS(cfg.CORSOrigins),
		middleware.Gzip,
		middleware.ETag,
		middleware.Timing,
	)

	log.Printf("Starting server on %s", cfg.ServerAddr)
	if err := http.ListenAndServe(cfg.ServerAddr, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
