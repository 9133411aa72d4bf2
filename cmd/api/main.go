// Package main is the entry point for the product-catalog-service API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"product-catalog-service/internal/app/service"
	"product-catalog-service/internal/config"
	"product-catalog-service/internal/domain"
	"product-catalog-service/internal/infra/dadata"
	"product-catalog-service/internal/infra/elasticsearch"
	"product-catalog-service/internal/infra/postgres"
	"product-catalog-service/internal/infra/postgres/migrations"
	rediscache "product-catalog-service/internal/infra/redis"
	"product-catalog-service/internal/inn"
	"product-catalog-service/internal/job"
	"product-catalog-service/internal/logger"
	"product-catalog-service/internal/search"
	"product-catalog-service/internal/search/database"
	"product-catalog-service/internal/search/elastic"
	"product-catalog-service/internal/transport/httpserver"
	"product-catalog-service/internal/validator"
	"product-catalog-service/pkg/locker"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(cfg.Logger, cfg.Sentry)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting product-catalog-service",
		zap.String("env", cfg.App.Env),
		zap.Int("port", cfg.App.Port),
	)

	// Connect to database
	db, err := postgres.NewConnection(cfg.Database, log.Logger)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() { _ = postgres.Close(db) }()

	// Run migrations
	if err := migrations.Run(db); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}
	log.Info("database migrations completed")

	// Create repositories
	productRepo := postgres.NewRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)

	// Connect to Redis
	redisClient, err := rediscache.NewClient(cfg.Redis)
	if err != nil {
		log.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer func() { _ = redisClient.Close() }()
	log.Info("connected to Redis",
		zap.String("host", cfg.Redis.Host),
		zap.Int("port", cfg.Redis.Port),
	)

	cache := rediscache.NewCache(redisClient, log.Logger, cfg.Cache.KeyPrefix)

	// Search backends: Elasticsearch primary, relational fallback, joined
	// by the resilience facade
	esClient, err := elasticsearch.NewClient(cfg.Elasticsearch, log.Logger)
	if err != nil {
		log.Fatal("failed to create elasticsearch client", zap.Error(err))
	}
	primary := elastic.NewBackend(esClient, log.Logger)
	fallback := database.NewBackend(productRepo, log.Logger)
	searchFacade := search.NewFacade(primary, fallback, log.Logger)

	// Tax-ID validation: provider-backed when a usable key is configured,
	// format-only otherwise
	var innValidator domain.InnValidator
	if cfg.DaData.Enabled() {
		provider := dadata.New(cfg.DaData, log.Logger)
		innValidator = inn.NewCompanyValidator(provider)
		log.Info("INN verification enabled", zap.String("provider", "dadata"))
	} else {
		innValidator = inn.NewFormatValidator()
		log.Warn("no DaData API key configured, falling back to format-only INN validation")
	}

	// Create services
	productSvc := service.NewProductService(
		productRepo,
		categoryRepo,
		searchFacade,
		innValidator,
		cache,
		cfg.Cache.InnTTL,
		log.Logger,
	)
	categorySvc := service.NewCategoryService(categoryRepo, log.Logger)

	// Create distributed locker
	distLocker := locker.NewRedisLocker(redisClient, log.Logger)

	// Create validator
	v := validator.New()

	// Create HTTP server
	server := httpserver.NewServer(
		httpserver.ServerConfig{
			Port:      cfg.App.Port,
			BodyLimit: 1024 * 1024, // 1MB
			Debug:     cfg.App.Debug,
		},
		productSvc,
		categorySvc,
		productRepo,
		categoryRepo,
		searchFacade,
		db,
		v,
		log.Logger,
	)

	// Start reindex scheduler with distributed locking
	var scheduler *job.ReindexScheduler
	if cfg.Reindex.Enabled {
		scheduler = job.NewReindexScheduler(
			productSvc,
			job.ReindexConfig{
				Interval:  cfg.Reindex.Interval,
				Timeout:   cfg.Reindex.Timeout,
				OnStartup: cfg.Reindex.OnStartup,
			},
			log.Logger,
			distLocker,
		)
		scheduler.Start(cfg.Reindex.OnStartup)
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutdown signal received")

		if scheduler != nil {
			scheduler.Stop()
		}

		// Shutdown server with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.App.ShutdownWithContext(ctx); err != nil {
			log.Error("server shutdown error", zap.Error(err))
		}
	}()

	// Start server
	if err := server.Start(cfg.App.Port); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
