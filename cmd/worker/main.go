package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mpesa-payment-gateway/config"
	"mpesa-payment-gateway/internal/adapter/mpesa"
	pgStorage "mpesa-payment-gateway/internal/adapter/storage/postgres"
	"mpesa-payment-gateway/internal/core/ports"
	"mpesa-payment-gateway/internal/service"
	"mpesa-payment-gateway/pkg/logger"

	"github.com/rs/zerolog"
)

// The worker drains the retry queue. One-shot mode runs a single pass and
// exits non-zero on failure; watch mode keeps draining on an interval until
// it receives SIGINT or SIGTERM, and a failed cycle never stops it.
func main() {
	var (
		watch    = flag.Bool("watch", false, "keep processing on an interval instead of exiting after one pass")
		interval = flag.Duration("interval", 30*time.Second, "processing interval in watch mode")
	)
	flag.Parse()

	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	jobRepo := pgStorage.NewRetryJobRepo(pool)
	dlRepo := pgStorage.NewDeadLetterRepo(pool)
	txRepo := pgStorage.NewTransactionRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	broadcaster := service.NewBroadcastService(cfg.Broadcast, log)
	backoff := service.NewExponentialBackoff(cfg.Queue)
	retrySvc := service.NewRetryService(jobRepo, dlRepo, transactor, backoff, broadcaster, cfg.Queue, log)

	// Provider jobs queued during an outage replay through the payment
	// layer, so the worker carries the provider client too.
	mpesaClient := mpesa.NewClient(cfg.Mpesa, log)
	paymentSvc := service.NewPaymentService(mpesaClient, txRepo, retrySvc, broadcaster, log)
	retrySvc.SetProviderReplayer(paymentSvc)

	if !*watch {
		if err := runOnce(ctx, retrySvc, log); err != nil {
			os.Exit(1)
		}
		return
	}

	log.Info().Dur("interval", *interval).Msg("retry worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	// First pass immediately, then on the interval.
	_ = runOnce(ctx, retrySvc, log)
	for {
		select {
		case <-ticker.C:
			_ = runOnce(ctx, retrySvc, log)
		case sig := <-quit:
			log.Info().Str("signal", sig.String()).Msg("retry worker stopping")
			return
		}
	}
}

func runOnce(ctx context.Context, retrySvc ports.RetryService, log zerolog.Logger) error {
	report, err := retrySvc.ProcessDue(ctx)
	if err != nil {
		log.Error().Err(err).Msg("processing cycle failed")
		return err
	}
	log.Info().
		Int("fetched", report.Fetched).
		Int("succeeded", report.Succeeded).
		Int("retried", report.Retried).
		Int("dead_letter", report.DeadLetter).
		Bool("skipped", report.Skipped).
		Msg("processing cycle complete")
	return nil
}
