package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mpesa-payment-gateway/config"
	httpHandler "mpesa-payment-gateway/internal/adapter/http/handler"
	"mpesa-payment-gateway/internal/adapter/mpesa"
	pgStorage "mpesa-payment-gateway/internal/adapter/storage/postgres"
	redisStorage "mpesa-payment-gateway/internal/adapter/storage/redis"
	"mpesa-payment-gateway/internal/core/ports"
	"mpesa-payment-gateway/internal/service"
	"mpesa-payment-gateway/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Str("environment", cfg.Mpesa.Environment).
		Msg("Starting M-Pesa Payment Gateway")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	jobRepo := pgStorage.NewRetryJobRepo(pool)
	dlRepo := pgStorage.NewDeadLetterRepo(pool)
	txRepo := pgStorage.NewTransactionRepo(pool)
	auditRepo := pgStorage.NewCallbackAuditRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize provider client
	mpesaClient := mpesa.NewClient(cfg.Mpesa, log)

	// Initialize services
	broadcaster := service.NewBroadcastService(cfg.Broadcast, log)
	backoff := service.NewExponentialBackoff(cfg.Queue)
	retrySvc := service.NewRetryService(jobRepo, dlRepo, transactor, backoff, broadcaster, cfg.Queue, log)
	dlSvc := service.NewDeadLetterService(dlRepo, jobRepo, backoff, broadcaster, log)
	verifier := service.NewVerifierService(auditRepo, broadcaster, cfg.Webhook, log)
	paymentSvc := service.NewPaymentService(mpesaClient, txRepo, retrySvc, broadcaster, log)
	retrySvc.SetProviderReplayer(paymentSvc)
	callbackSvc := service.NewCallbackService(txRepo, auditRepo, broadcaster, log)

	// Background sweepers
	go broadcaster.Start(ctx)
	go verifier.Start(ctx)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		PaymentSvc:     paymentSvc,
		CallbackSvc:    callbackSvc,
		RetrySvc:       retrySvc,
		DeadLetterSvc:  dlSvc,
		Verifier:       verifier,
		Broadcaster:    broadcaster,
		MpesaClient:    mpesaClient,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
