package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dm/aadash/internal/config"
	"github.com/dm/aadash/internal/server"
	"github.com/dm/aadash/internal/store"
)

const shutdownTimeout = 5 * time.Second

// openStore returns the configured store and, for stores without their own
// change notification, the callback that announces new jobs to hub.
func openStore(ctx context.Context, cfg *config.Server, hub *server.Hub, logger *slog.Logger) (store.Store, func(), func(), error) {
	clusters := store.SeedClusters(max(cfg.SeedClusters, 1))
	templates := store.DefaultTemplates()

	if cfg.DatabaseURL == "" {
		mem := store.Seed(store.SeedOptions{Clusters: len(clusters), Days: cfg.SeedDays, Seed: 1})
		changes, unsubscribe := mem.Subscribe()
		go hub.Watch(ctx, changes)
		logger.Info("using in-memory store", "clusters", len(clusters), "days", cfg.SeedDays)
		return mem, nil, unsubscribe, nil
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open database: %w", err)
	}
	pg := store.NewPostgresStore(db)
	if err := pg.Ping(ctx); err != nil {
		db.Close()
		return nil, nil, nil, err
	}
	if err := pg.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, nil, err
	}
	if err := pg.UpsertCatalog(ctx, clusters, templates); err != nil {
		db.Close()
		return nil, nil, nil, err
	}
	logger.Info("using postgres store", "clusters", len(clusters))
	return pg, hub.NotifyDataUpdated, func() { db.Close() }, nil
}

func run() error {
	cfg, err := config.LoadServer()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := server.NewHub(logger)
	defer hub.Close()

	st, onRecord, closeStore, err := openStore(ctx, cfg, hub, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	if cfg.SimulateInterval > 0 {
		sim := &server.Simulator{
			Store:     st,
			Generator: store.NewGenerator(uint64(time.Now().UnixNano()), store.SeedClusters(max(cfg.SeedClusters, 1)), store.DefaultTemplates()),
			Interval:  cfg.SimulateInterval,
			Log:       logger,
			OnRecord:  onRecord,
		}
		go func() {
			if err := sim.Run(ctx); err != nil {
				logger.Error("simulator stopped", "err", err)
			}
		}()
		logger.Info("job simulator enabled", "interval", cfg.SimulateInterval)
	}

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           server.NewRouter(st, hub, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "address", cfg.ServerAddress)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		slog.Error("aa-api failed", "err", err)
		os.Exit(1)
	}
}
