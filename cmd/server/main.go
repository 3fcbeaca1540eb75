package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpAdapter "github.com/andviana23/trato-sub001/internal/adapter/http"
	"github.com/andviana23/trato-sub001/internal/adapter/http/handler"
	"github.com/andviana23/trato-sub001/internal/adapter/http/middleware"
	postgresRepo "github.com/andviana23/trato-sub001/internal/adapter/repository/postgres"
	redisRepo "github.com/andviana23/trato-sub001/internal/adapter/repository/redis"
	"github.com/andviana23/trato-sub001/internal/infrastructure/auth"
	"github.com/andviana23/trato-sub001/internal/infrastructure/config"
	"github.com/andviana23/trato-sub001/internal/infrastructure/logger"
	"github.com/andviana23/trato-sub001/internal/infrastructure/metrics"
	"github.com/andviana23/trato-sub001/internal/infrastructure/postgres"
	"github.com/andviana23/trato-sub001/internal/infrastructure/redis"
	"github.com/andviana23/trato-sub001/internal/usecase"
	"github.com/andviana23/trato-sub001/internal/worker"
)

const migrationsPath = "internal/infrastructure/postgres/migrations"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx := context.Background()

	// PostgreSQL
	pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
		URL:         cfg.DatabaseURL,
		MaxConns:    cfg.DatabaseMaxConns,
		MinConns:    cfg.DatabaseMinConns,
		PingTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(log, cfg.DatabaseURL, migrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	m := metrics.New()

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	retrier := postgresRepo.NewRetrier(log)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	revenueRepo := postgresRepo.NewRevenueRepository(pool)
	customerRepo := postgresRepo.NewCustomerRepository(pool)
	webhookLogRepo := postgresRepo.NewWebhookLogRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()

	queue := redisRepo.NewQueue(redisClient, cfg.JobRetryBase)
	cache := redisRepo.NewCache(redisClient)

	// Use cases
	webhookUC := usecase.NewWebhookUseCase(webhookLogRepo, queue, usecase.WebhookConfig{
		Secret:      cfg.WebhookSecret,
		UnitID:      cfg.DefaultUnitID,
		MaxAttempts: cfg.JobMaxAttempts,
	})
	revenueUC := usecase.NewRevenueUseCase(txManager, retrier, accountRepo, entryRepo, revenueRepo, customerRepo, cache, idGen)
	dreUC := usecase.NewDREUseCase(entryRepo, usecase.DREConfig{
		DeductionPrefix:        cfg.DREDeductionPrefix,
		FinancialRevenuePrefix: cfg.DREFinancialRevenuePrefix,
		FinancialExpensePrefix: cfg.DREFinancialExpensePrefix,
		IncomeTaxRate:          cfg.DREIncomeTaxRate,
	})
	validationUC := usecase.NewValidationUseCase(accountRepo, entryRepo)

	// Worker
	w := worker.New(worker.Config{
		Queue:       queue,
		Processor:   revenueUC,
		Logger:      log,
		Metrics:     m,
		Concurrency: cfg.WorkerConcurrency,
		PollDelay:   cfg.WorkerPollDelay,
	})

	workerCtx, stopWorker := context.WithCancel(ctx)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		if err := w.Start(workerCtx); err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("worker stopped")
		}
	}()

	// Handlers
	var jwtManager *auth.JWTManager
	if cfg.AuthEnabled && cfg.JWTSecret != "" {
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		WebhookHandler: handler.NewWebhookHandler(webhookUC, webhookLogRepo, m),
		ReportHandler:  handler.NewReportHandler(dreUC, validationUC, cfg.DefaultUnitID),
		JobHandler:     handler.NewJobHandler(queue),
		HealthHandler:  handler.NewHealthHandler(pool, redisClient),
		Logging:        middleware.NewLoggingMiddleware(log),
		Metrics:        middleware.NewMetricsMiddleware(m),
		Recovery:       middleware.Recovery(log),
		JWTManager:     jwtManager,
		AuthEnabled:    cfg.AuthEnabled,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	stopWorker()
	<-workerDone

	log.Info().Msg("stopped")
}
