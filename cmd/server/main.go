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

	"rcvault/internal/audit"
	auditkafka "rcvault/internal/audit/kafka"
	"rcvault/internal/kvstore"
	"rcvault/internal/ledger"
	"rcvault/internal/lookup"
	"rcvault/internal/platform/config"
	"rcvault/internal/platform/httpserver"
	"rcvault/internal/platform/logger"
	"rcvault/internal/platform/metrics"
	"rcvault/internal/platform/postgres"
	platformredis "rcvault/internal/platform/redis"
	"rcvault/internal/rccache"
	httptransport "rcvault/internal/transport/http"
	"rcvault/internal/vahan"
)

// main wires dependencies and owns the server lifecycle. Business logic lives
// in the internal service packages.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, cleanup, err := newStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer cleanup()

	m := metrics.New()

	var publisher audit.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, err := auditkafka.New(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return fmt.Errorf("init kafka publisher: %w", err)
		}
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Info("audit events publishing to kafka",
			"brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	ledgerSvc, err := ledger.New(store,
		ledger.WithLogger(log),
		ledger.WithMetrics(m),
		ledger.WithAuditPublisher(publisher),
	)
	if err != nil {
		return fmt.Errorf("init ledger: %w", err)
	}

	cache := rccache.New(store)
	fetcher := vahan.NewClient(cfg.VahanBaseURL, cfg.VahanAPIKey,
		vahan.WithTimeout(cfg.VahanTimeout))

	lookupSvc, err := lookup.New(cache, ledgerSvc, fetcher,
		lookup.WithLogger(log),
		lookup.WithMetrics(m),
		lookup.WithAuditPublisher(publisher),
	)
	if err != nil {
		return fmt.Errorf("init lookup service: %w", err)
	}

	router := httptransport.NewRouter(log,
		httptransport.NewWalletHandler(ledgerSvc, log, m),
		httptransport.NewVehicleHandler(lookupSvc, cache, cfg.LookupCost, log, m),
	)

	srv := httpserver.New(cfg.Addr, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info("rcvault listening",
			"addr", cfg.Addr, "store", cfg.StoreBackend, "lookup_cost", cfg.LookupCost)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// newStore builds the configured kvstore backend and a cleanup that releases
// its connections.
func newStore(ctx context.Context, cfg config.Config) (kvstore.Store, func(), error) {
	switch cfg.StoreBackend {
	case config.StoreMemory:
		return kvstore.NewMemory(), func() {}, nil

	case config.StoreRedis:
		client, err := platformredis.New(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return kvstore.NewRedis(client.Client), func() { _ = client.Close() }, nil

	case config.StorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		store := kvstore.NewPostgres(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
