package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"zenith/internal/events"
	eventsconsumer "zenith/internal/events/consumer"
	"zenith/internal/platform/config"
	"zenith/internal/platform/kafka"
	"zenith/internal/platform/kafka/consumer"
	"zenith/internal/platform/kafka/producer"
	redisclient "zenith/internal/platform/redis"
	"zenith/internal/priceindex"
	pricemetrics "zenith/internal/priceindex/metrics"
	"zenith/internal/registry/cache"
	registryclient "zenith/internal/registry/client"
	registrymetrics "zenith/internal/registry/metrics"
	"zenith/internal/registry/ports"
	registryservice "zenith/internal/registry/service"
	"zenith/pkg/platform/circuit"
)

// buildTakenCache prefers Redis so every instance shares one taken-set read.
func buildTakenCache(ctx context.Context, cfg config.Server, log *slog.Logger) (ports.TakenCache, func(), error) {
	rc, err := redisclient.New(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	if rc == nil {
		log.Info("taken-region cache in memory", "ttl", cfg.Registry.TakenCacheTTL)
		return cache.NewMemoryCache(cfg.Registry.TakenCacheTTL), func() {}, nil
	}
	log.Info("taken-region cache in redis", "ttl", cfg.Registry.TakenCacheTTL)
	return cache.NewRedisCache(rc.Client, cfg.Registry.TakenCacheTTL), func() { _ = rc.Close() }, nil
}

func buildOracle(cfg config.Registry, takenCache ports.TakenCache, log *slog.Logger) (*registryservice.Oracle, error) {
	breaker := circuit.New("registry",
		circuit.WithFailureThreshold(cfg.BreakerThreshold),
		circuit.WithSuccessThreshold(1),
		circuit.WithCooldown(cfg.BreakerCooldown),
	)
	oracle, err := registryservice.New(registryclient.New(cfg.URL, cfg.Timeout),
		registryservice.WithLogger(log),
		registryservice.WithMetrics(registrymetrics.New()),
		registryservice.WithCache(takenCache),
		registryservice.WithBreaker(breaker),
		registryservice.WithReadRetries(cfg.ReadRetries, 0, 0),
	)
	if err != nil {
		return nil, fmt.Errorf("build registry oracle: %w", err)
	}
	return oracle, nil
}

// buildPriceFeed uses a fixed price when one is configured, otherwise the
// external index with bounded retries.
func buildPriceFeed(cfg config.Price, log *slog.Logger) priceindex.Feed {
	if cfg.Static > 0 {
		log.Warn("using static unit price", "price_usd", cfg.Static)
		return priceindex.Static(cfg.Static)
	}
	feed := priceindex.NewHTTPFeed(cfg.URL, cfg.Asset, cfg.Timeout, priceindex.WithRateLimit(cfg.RatePerMin))
	return priceindex.NewRetrying(feed, cfg.Retries, cfg.RetryDelay,
		priceindex.WithLogger(log),
		priceindex.WithMetrics(pricemetrics.New()),
	)
}

// buildEvents publishes claim events to Kafka and consumes them back to drop
// the taken-region cache on every instance. Without brokers, events are
// discarded.
func buildEvents(ctx context.Context, cfg config.Kafka, takenCache ports.TakenCache, log *slog.Logger) (events.Publisher, func(), error) {
	if len(cfg.Brokers) == 0 {
		log.Info("kafka disabled; claim events are not published")
		return events.Nop{}, func() {}, nil
	}

	prod, err := producer.New(cfg.Brokers,
		producer.WithClientID("zenith-server"),
		producer.WithLogger(log),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("connect kafka: %w", err)
	}
	if err := kafka.EnsureTopic(ctx, prod.Client(), cfg.Topic, cfg.Partitions, cfg.Replication); err != nil {
		prod.Close(context.Background())
		return nil, nil, fmt.Errorf("ensure topic %s: %w", cfg.Topic, err)
	}

	// One group per host so every instance sees every claim.
	host, _ := os.Hostname()
	cons, err := consumer.New(cfg.Brokers, "zenith-taken-cache-"+host, []string{cfg.Topic}, log)
	if err != nil {
		prod.Close(context.Background())
		return nil, nil, fmt.Errorf("create kafka consumer: %w", err)
	}
	router := eventsconsumer.NewRouter(log, nil)
	router.Register(cfg.Topic, eventsconsumer.NewInvalidationHandler(takenCache, log))
	go func() {
		if err := cons.Run(ctx, router); err != nil {
			log.Error("claim event consumer stopped", "error", err)
		}
	}()

	log.Info("kafka enabled", "brokers", cfg.Brokers, "topic", cfg.Topic)
	return events.NewKafkaPublisher(prod, cfg.Topic), func() {
		cons.Close()
		prod.Close(context.Background())
	}, nil
}
