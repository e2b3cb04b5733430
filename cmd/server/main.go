package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sportscast/sportscast-api-go/internal/cache"
	"github.com/sportscast/sportscast-api-go/internal/config"
	"github.com/sportscast/sportscast-api-go/internal/db"
	"github.com/sportscast/sportscast-api-go/internal/db/repository"
	"github.com/sportscast/sportscast-api-go/internal/handler"
	"github.com/sportscast/sportscast-api-go/internal/middleware"
	"github.com/sportscast/sportscast-api-go/internal/service"
	"github.com/sportscast/sportscast-api-go/internal/storage"
	"github.com/sportscast/sportscast-api-go/internal/thumbnail"
	"github.com/sportscast/sportscast-api-go/internal/validation"
	"github.com/sportscast/sportscast-api-go/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

	pool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	store, err := storage.NewMinioStore(ctx, &cfg.Storage)
	if err != nil {
		logger.Log.Fatal("Failed to connect to object store", zap.Error(err))
	}

	// Feed cache is optional; without it every feed read hits the database.
	var feedCache cache.FeedCache
	redisCache, err := cache.NewRedisFeedCache(ctx, &cfg.Redis)
	if err != nil {
		logger.Log.Warn("Feed cache unavailable, serving feed from database", zap.Error(err))
	} else {
		feedCache = redisCache
		defer redisCache.Close() //nolint:errcheck
	}

	// Event publishing is optional; without it lifecycle events are dropped.
	var publisher service.EventPublisher
	var brokerHealth handler.BrokerHealth
	mq, err := service.NewMessagePublisher(&cfg.RabbitMQ)
	if err != nil {
		logger.Log.Warn("Event publisher unavailable, lifecycle events disabled", zap.Error(err))
	} else {
		publisher = mq
		brokerHealth = mq
		defer mq.Close() //nolint:errcheck
	}

	generator := thumbnail.NewClient(thumbnail.Config{
		BaseURL: cfg.Thumbnail.BaseURL,
		Model:   cfg.Thumbnail.Model,
		APIKey:  cfg.Thumbnail.APIKey,
		Timeout: cfg.Thumbnail.Timeout,
	})

	videoRepo := repository.NewVideoRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	validator := validation.New(cfg.Upload.MaxVideoSize, cfg.Upload.MaxThumbnailSize)

	authService := service.NewAuthService(userRepo, validator, &cfg.Auth)
	uploadService := service.NewUploadService(videoRepo, store, validator, feedCache, publisher)
	feedService := service.NewFeedService(videoRepo, feedCache)
	videoService := service.NewVideoService(videoRepo, store, validator, feedCache, publisher)
	watcher := service.NewDashboardWatcher(pool, videoRepo)

	authHandler := handler.NewAuthHandler(authService)
	thumbnailHandler := handler.NewThumbnailHandler(generator)
	videoHandler := handler.NewVideoHandler(uploadService, feedService, videoService, watcher)
	healthHandler := handler.NewHealthHandler(pool, brokerHealth)

	router := buildRouter(cfg, authService, authHandler, thumbnailHandler, videoHandler, healthHandler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  5 * time.Minute, // large uploads
		WriteTimeout: 0,               // SSE streams stay open
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Log.Info("Server starting", zap.Int("port", cfg.Server.Port))
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("Server error", zap.Error(err))
		}
	case sig := <-shutdown:
		logger.Log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Graceful shutdown failed", zap.Error(err))
			if err := server.Close(); err != nil {
				logger.Log.Error("Failed to close server", zap.Error(err))
			}
		}

		logger.Log.Info("Server stopped")
	}
}

func buildRouter(
	cfg *config.Config,
	authService *service.AuthService,
	authHandler *handler.AuthHandler,
	thumbnailHandler *handler.ThumbnailHandler,
	videoHandler *handler.VideoHandler,
	healthHandler *handler.HealthHandler,
) *gin.Engine {
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Metrics())

	// Multipart bodies up to the video limit plus thumbnail and form overhead.
	router.MaxMultipartMemory = 8 << 20

	router.GET("/health/live", healthHandler.LivenessProbe)
	router.GET("/health/ready", healthHandler.ReadinessProbe)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.POST("/auth/signup", authHandler.Signup)
		api.POST("/auth/login", authHandler.Login)

		api.GET("/videos", videoHandler.Feed)
		api.GET("/videos/:id", videoHandler.Watch)

		authed := api.Group("", middleware.RequireAuth(authService))
		{
			authed.POST("/videos", videoHandler.Upload)
			authed.PATCH("/videos/:id", videoHandler.Edit)
			authed.DELETE("/videos/:id", videoHandler.Delete)
			authed.GET("/dashboard/videos", videoHandler.Dashboard)
			authed.GET("/dashboard/videos/stream", videoHandler.StreamDashboard)
			authed.POST("/thumbnails/generate", thumbnailHandler.Generate)
		}
	}

	return router
}
