// Command ordersvc runs the event-sourced order service: an HTTP API in
// front of the order aggregate, its append-only event log, and the projected
// read model.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/luuthuong/go-ecommerce-order/internal/api"
	"github.com/luuthuong/go-ecommerce-order/internal/cache"
	"github.com/luuthuong/go-ecommerce-order/internal/config"
	"github.com/luuthuong/go-ecommerce-order/internal/eventstore"
	"github.com/luuthuong/go-ecommerce-order/internal/messaging"
	"github.com/luuthuong/go-ecommerce-order/internal/messaging/kafka"
	"github.com/luuthuong/go-ecommerce-order/internal/messaging/noop"
	"github.com/luuthuong/go-ecommerce-order/internal/projection"
	"github.com/luuthuong/go-ecommerce-order/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("service exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		events eventstore.Store
		reads  projection.Store
	)
	if cfg.PostgresDSN != "" {
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return err
		}
		defer pool.Close()

		eventStore := eventstore.NewPostgresStore(pool, logger)
		if err := eventStore.EnsureSchema(ctx); err != nil {
			return err
		}
		readStore := projection.NewPostgresStore(pool)
		if err := readStore.EnsureSchema(ctx); err != nil {
			return err
		}
		events, reads = eventStore, readStore
	} else {
		logger.Warn("no postgres DSN configured, using in-memory stores")
		events, reads = eventstore.NewMemoryStore(), projection.NewMemoryStore()
	}

	var (
		invalidator projection.Invalidator
		orderCache  service.OrderCache
	)
	if cfg.RedisAddr != "" {
		redisCache := cache.New(
			redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}),
			cfg.CacheTTL, logger)
		invalidator, orderCache = redisCache, redisCache
	}

	events.Subscribe(projection.NewProjector(reads, invalidator, logger))

	var publisher messaging.Publisher = noop.Publisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}
	events.Subscribe(messaging.NewRelay(publisher, logger))

	repo := service.NewRepository(events, logger)
	orders := service.NewOrderService(repo, logger)
	queries := service.NewQueryService(reads, orderCache, events, logger)

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           api.NewServer(orders, queries, logger).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- server.ListenAndServe() }()
	logger.Info("order service listening", "addr", cfg.ListenAddr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
