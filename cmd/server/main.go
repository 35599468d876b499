package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yourorg/atlas-directory/internal/config"
	"github.com/yourorg/atlas-directory/internal/events"
	"github.com/yourorg/atlas-directory/internal/handler"
	"github.com/yourorg/atlas-directory/internal/middleware"
	"github.com/yourorg/atlas-directory/internal/model"
	"github.com/yourorg/atlas-directory/internal/repository"
	"github.com/yourorg/atlas-directory/internal/service"
	"github.com/yourorg/atlas-directory/internal/validator"
	"github.com/yourorg/atlas-directory/internal/watcher"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Set up logger
	logger, err := createLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize dataset repository
	source, err := repository.NewSource(&cfg.Dataset, logger)
	if err != nil {
		logger.Fatal("Failed to configure dataset source", zap.Error(err))
	}
	datasetRepo := repository.NewDatasetRepository(source, cfg.Dataset.Format, validator.NewDatasetValidator(), logger)

	// Initialize event publisher
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Kafka.Enabled {
		publisher = events.NewProducer(cfg.Kafka.BrokerList(), cfg.Kafka.ClientID, cfg.Kafka.Topic, logger)
	}
	defer publisher.Close()

	// Initialize response cache
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = connectToRedis(ctx, cfg.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, response cache disabled", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	// Initialize services
	resourceService := service.NewResourceService(datasetRepo, logger)
	signalService := service.NewSignalService(datasetRepo, cfg.Catalog.TagLimit, logger)
	sessionService := service.NewSessionService(datasetRepo, resourceService, cfg.Sessions.TTL, logger)
	authService := service.NewAuthService(cfg.Auth, logger)

	datasetRepo.OnReload(signalService.Invalidate)
	datasetRepo.OnReload(func(ds *model.Dataset) {
		pubCtx, pubCancel := context.WithTimeout(ctx, 5*time.Second)
		defer pubCancel()
		if err := publisher.PublishCatalogReloaded(pubCtx, ds.Info()); err != nil {
			logger.Warn("Failed to announce dataset reload", zap.Error(err))
		}
	})
	if redisClient != nil {
		datasetRepo.OnReload(func(ds *model.Dataset) {
			if err := middleware.FlushCache(ctx, redisClient, cfg.Redis.Prefix); err != nil {
				logger.Warn("Failed to flush response cache", zap.Error(err))
			}
		})
	}

	// Initial load; the service still starts so a later reload can recover
	if _, err := datasetRepo.Load(ctx); err != nil {
		logger.Error("Initial dataset load failed", zap.Error(err))
	}

	// Watch the dataset file for changes
	if fileSource, ok := source.(*repository.FileSource); ok && cfg.Dataset.Watch {
		w, err := watcher.NewDatasetWatcher(fileSource.Path(), datasetRepo, watcher.DefaultDebounce, logger)
		if err != nil {
			logger.Error("Failed to create dataset watcher", zap.Error(err))
		} else if err := w.Start(ctx); err != nil {
			logger.Error("Failed to start dataset watcher", zap.Error(err))
		} else {
			defer w.Stop()
		}
	}

	// Expire idle sessions
	go sessionService.RunSweeper(ctx, cfg.Sessions.SweepInterval)

	// Initialize handlers
	resourceHandler := handler.NewResourceHandler(resourceService, cfg.Catalog.DefaultLimit, cfg.Catalog.MaxLimit, logger)
	signalHandler := handler.NewSignalHandler(signalService, logger)
	sessionHandler := handler.NewSessionHandler(sessionService, cfg.Catalog.DefaultLimit, cfg.Catalog.MaxLimit, logger)
	adminHandler := handler.NewAdminHandler(authService, datasetRepo, logger)

	// Set up HTTP server with Gin
	router := setupRouter(
		cfg,
		resourceHandler,
		signalHandler,
		sessionHandler,
		adminHandler,
		authService,
		datasetRepo,
		redisClient,
		logger,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	cancel()

	// Create a deadline for server shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited properly")
}

func createLogger(level, format string) (*zap.Logger, error) {
	// Parse log level
	var zapLevel zap.AtomicLevel
	switch level {
	case "debug":
		zapLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapLevel = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapLevel = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		zapLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	encoding := "json"
	if format == "console" {
		encoding = "console"
	}

	// Create logger config
	config := zap.Config{
		Level:            zapLevel,
		Development:      false,
		Encoding:         encoding,
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}

func connectToRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

func setupRouter(
	cfg *config.Config,
	resourceHandler *handler.ResourceHandler,
	signalHandler *handler.SignalHandler,
	sessionHandler *handler.SessionHandler,
	adminHandler *handler.AdminHandler,
	authService *service.AuthService,
	datasetRepo *repository.DatasetRepository,
	redisClient *redis.Client,
	logger *zap.Logger,
) *gin.Engine {
	router := gin.New()

	// Use middlewares
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.BurstSize)
		router.Use(middleware.RateLimit(limiter))
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		status := gin.H{"status": "healthy"}
		if ds, err := datasetRepo.Current(); err == nil {
			status["dataset_version"] = ds.Version
		} else {
			status["status"] = "degraded"
		}
		c.JSON(http.StatusOK, status)
	})

	cache := middleware.ResponseCache(redisClient, middleware.CacheConfig{
		Enabled:   redisClient != nil,
		TTL:       cfg.Redis.TTL,
		PrefixKey: cfg.Redis.Prefix,
	}, func() int {
		if ds, err := datasetRepo.Current(); err == nil {
			return ds.Version
		}
		return 0
	}, logger)

	// API routes
	v1 := router.Group("/api/v1")
	{
		// Catalog routes
		catalog := v1.Group("")
		catalog.Use(cache)
		{
			catalog.GET("/resources", resourceHandler.ListResources)
			catalog.GET("/resources/:id", resourceHandler.GetResource)
			catalog.GET("/categories", resourceHandler.GetCategories)
			catalog.GET("/tags", signalHandler.GetTags)
			catalog.GET("/signals", signalHandler.GetSignals)
		}

		// Session routes
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", sessionHandler.CreateSession)
			sessions.GET("/:id", sessionHandler.GetSession)
			sessions.PATCH("/:id", sessionHandler.UpdateSession)
			sessions.DELETE("/:id", sessionHandler.DeleteSession)
			sessions.POST("/:id/tags/:tag", sessionHandler.ToggleTag)
			sessions.POST("/:id/reset", sessionHandler.ResetSession)
			sessions.GET("/:id/results", sessionHandler.GetResults)
		}

		// Admin routes
		admin := v1.Group("/admin")
		{
			admin.POST("/token", adminHandler.IssueToken)

			protected := admin.Group("")
			protected.Use(middleware.AuthMiddleware(authService, logger))
			protected.POST("/reload", adminHandler.ReloadDataset)
			protected.GET("/dataset", adminHandler.GetDatasetInfo)
		}
	}

	return router
}
