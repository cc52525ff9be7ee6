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
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"slide-generator/internal/config"
	"slide-generator/internal/generator"
	"slide-generator/internal/handler"
	"slide-generator/internal/logger"
	"slide-generator/internal/messaging"
	"slide-generator/internal/ratelimit"
	"slide-generator/internal/repository"
	"slide-generator/internal/service"
	"slide-generator/internal/storage"
)

func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Setup ---
	log, err := logger.New(logger.Config{
		Level:    cfg.LogLevel,
		Encoding: cfg.LogEncoding,
		Service:  "slide-generator",
		Env:      cfg.Env,
	})
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	zap.ReplaceGlobals(log)
	zap.L().Info("Logger initialized successfully", zap.String("logLevel", cfg.LogLevel))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// --- Storage ---
	files, err := storage.NewFileStore(cfg.StorageDir, log)
	if err != nil {
		zap.L().Fatal("Failed to prepare storage directory", zap.Error(err))
	}
	zap.L().Info("Presentation files directory ready", zap.String("dir", files.Root()))

	repo, redisClient, err := setupRepository(ctx, cfg, log)
	if err != nil {
		zap.L().Fatal("Failed to set up presentation repository", zap.Error(err))
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// --- Events ---
	publisher := messaging.NewNopPublisher()
	if cfg.RabbitMQURL != "" {
		mqConn, err := messaging.Connect(ctx, cfg.RabbitMQURL, 10, 3*time.Second, log)
		if err != nil {
			zap.L().Fatal("Failed to connect to RabbitMQ", zap.Error(err))
		}
		publisher, err = messaging.NewRabbitMQPublisher(mqConn, cfg.EventsQueue, log)
		if err != nil {
			mqConn.Close()
			zap.L().Fatal("Failed to create event publisher", zap.Error(err))
		}
	} else {
		zap.L().Info("RABBITMQ_URL not set, presentation events are disabled")
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			zap.L().Warn("Error closing event publisher", zap.Error(err))
		}
	}()

	// --- Dependency Injection ---
	gen, err := generator.NewFromConfig(cfg, log)
	if err != nil {
		zap.L().Fatal("Failed to create content generator", zap.Error(err))
	}
	svc := service.NewPresentationService(repo, files, gen, publisher, service.Options{
		MaxSlides:        cfg.MaxSlides,
		DefaultSlides:    cfg.DefaultSlides,
		RetentionTTL:     cfg.RetentionTTL,
		MaxPresentations: cfg.MaxPresentations,
	}, log)
	presentationHandler := handler.NewPresentationHandler(svc, log)

	// --- Rate limiting ---
	scope, err := ratelimit.ParseScope(cfg.RateLimitScope)
	if err != nil {
		zap.L().Fatal("Invalid rate limit scope", zap.Error(err))
	}
	limiter := ratelimit.NewSlidingWindow(cfg.RateLimit, cfg.RateLimitWindow)
	rateLimitMiddleware := ratelimit.Middleware(limiter, scope, log)
	zap.L().Info("Rate limiter middleware initialized",
		zap.Int("limit", cfg.RateLimit),
		zap.Duration("window", cfg.RateLimitWindow),
		zap.String("scope", string(scope)),
	)

	// --- HTTP Server Setup (Gin) ---
	gin.SetMode(gin.ReleaseMode)
	if cfg.Env == "development" {
		gin.SetMode(gin.DebugMode)
	}
	router := newRouter(cfg, presentationHandler, rateLimitMiddleware, log)

	// --- Background workers ---
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	if cfg.RetentionTTL > 0 {
		go service.RunJanitor(workerCtx, svc, cfg.RetentionSweepInterval, log)
	}
	go ratelimit.RunPruner(workerCtx, limiter, cfg.RateLimitWindow, log)

	// --- Start HTTP Server ---
	srv := &http.Server{
		Addr:        ":" + cfg.ServerPort,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// генерация может занять до AI_TIMEOUT
		WriteTimeout: cfg.AITimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	zap.L().Info("Starting HTTP server", zap.String("port", cfg.ServerPort), zap.String("apiPrefix", cfg.APIPrefix))

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("HTTP Server listen error", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("Shutting down server...")

	stopWorkers()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("HTTP Server forced to shutdown", zap.Error(err))
	}

	zap.L().Info("Server exiting")
}

// setupRepository picks the metadata store by STORE_BACKEND.
// The returned redis client is nil for the memory backend.
func setupRepository(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.PresentationRepository, *redis.Client, error) {
	if cfg.StoreBackend != "redis" {
		zap.L().Info("Using in-memory presentation repository")
		return repository.NewMemoryRepository(log), nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	var err error
	maxRetries := 10
	retryDelay := 2 * time.Second
	for attempt := 1; attempt <= maxRetries; attempt++ {
		pingCtx, pingCancel := context.WithTimeout(ctx, 3*time.Second)
		err = client.Ping(pingCtx).Err()
		pingCancel()
		if err == nil {
			zap.L().Info("Connected to Redis", zap.String("addr", cfg.RedisAddr), zap.Int("attempt", attempt))
			return repository.NewRedisRepository(client, cfg.RedisKeyPrefix, log), client, nil
		}
		zap.L().Warn("Redis ping failed, retrying...", zap.Int("attempt", attempt), zap.Error(err))
		select {
		case <-ctx.Done():
			client.Close()
			return nil, nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}
	client.Close()
	return nil, nil, fmt.Errorf("failed to connect to Redis at %s after %d attempts: %w", cfg.RedisAddr, maxRetries, err)
}
