package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	claimmetrics "zenith/internal/claim/metrics"
	claimservice "zenith/internal/claim/service"
	jwttoken "zenith/internal/jwt_token"
	"zenith/internal/platform/config"
	"zenith/internal/platform/httpserver"
	"zenith/internal/platform/logger"
	"zenith/internal/platform/metrics"
	"zenith/internal/session"
	"zenith/internal/territory/catalog"
	selmetrics "zenith/internal/territory/metrics"
	httptransport "zenith/internal/transport/http"
)

const (
	tokenIssuer   = "zenith"
	tokenAudience = "zenith-wizard"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "zenith: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	regions, err := catalog.Load()
	if err != nil {
		return fmt.Errorf("load region catalog: %w", err)
	}
	log.Info("region catalog loaded", "regions", regions.Len(), "digest", regions.Digest())

	cache, closeCache, err := buildTakenCache(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeCache()

	oracle, err := buildOracle(cfg.Registry, cache, log)
	if err != nil {
		return err
	}

	publisher, closeEvents, err := buildEvents(ctx, cfg.Kafka, cache, log)
	if err != nil {
		return err
	}
	defer closeEvents()

	claims, err := claimservice.New(regions, oracle, buildPriceFeed(cfg.Price, log),
		claimservice.WithLogger(log),
		claimservice.WithMetrics(claimmetrics.New()),
		claimservice.WithPublisher(publisher),
	)
	if err != nil {
		return fmt.Errorf("build claim service: %w", err)
	}

	httpMetrics := metrics.New()
	sessions := session.NewManager(regions, oracle, claims,
		session.WithLogger(log),
		session.WithMetrics(httpMetrics),
		session.WithSelectionMetrics(selmetrics.New()),
		session.WithFlagWindow(cfg.Wizard.FlagWindow),
		session.WithIdleTimeout(cfg.Wizard.IdleTimeout),
		session.WithMaxSessions(cfg.Wizard.MaxSessions),
	)
	defer sessions.Shutdown()

	tokens := jwttoken.NewJWTService(cfg.SessionTokenKey, tokenIssuer, tokenAudience)
	router := httptransport.NewRouter(
		httptransport.RouterConfig{Logger: log, Metrics: httpMetrics},
		httptransport.NewWizardHandler(sessions, tokens, cfg.SessionTokenTTL, log),
		httptransport.NewCatalogHandler(regions, oracle, log),
	)

	return httpserver.Run(ctx, httpserver.New(cfg.Addr, router), cfg.ShutdownTimeout, log)
}
