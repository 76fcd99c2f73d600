// Command registry runs the reference claim registry gateway: the ledger the
// wizard's oracle reads taken regions from and submits claims to.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"zenith/internal/platform/config"
	"zenith/internal/platform/httpserver"
	"zenith/internal/platform/logger"
	"zenith/internal/platform/middleware"
	"zenith/internal/registry/handler"
	"zenith/internal/registry/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "registry: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.RegistryFromEnv()
	if err != nil {
		return err
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ledger, closeLedger, err := openLedger(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	defer closeLedger()

	router := handler.Router(handler.New(ledger, log),
		middleware.RequestID,
		middleware.RequestTime,
		middleware.Recovery(log),
		middleware.Logger(log),
	)
	return httpserver.Run(ctx, httpserver.New(cfg.Addr, router), shutdownTimeout, log)
}

func openLedger(ctx context.Context, dsn string, log *slog.Logger) (store.Ledger, func(), error) {
	if dsn == "" {
		log.Warn("no database configured; ledger is in memory and lost on exit")
		return store.NewInMemoryLedger(), func() {}, nil
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}
	if err := store.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrate ledger: %w", err)
	}
	log.Info("ledger backed by postgres")
	return store.NewPostgresLedger(db), func() { _ = db.Close() }, nil
}
