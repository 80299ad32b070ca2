package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/medsense/medsense/internal/api"
	"github.com/medsense/medsense/internal/cache"
	"github.com/medsense/medsense/internal/config"
	"github.com/medsense/medsense/internal/ingest"
	"github.com/medsense/medsense/internal/logging"
	"github.com/medsense/medsense/internal/store"
	"github.com/medsense/medsense/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Server.Log.Level, cfg.Server.Log.Format, "medsense-server")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	logger.Info("medsense-server starting",
		zap.String("config", *configPath),
		zap.Int("http_port", cfg.Server.HTTPPort),
		zap.String("database", cfg.Server.Database.Name),
		zap.Bool("cache_enabled", cfg.Server.Redis.Addr != ""),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Durable store — samples and alerts must survive restarts.
	db, err := store.Open(cfg.Server.Database.DSN(), cfg.Server.Database.MaxConns, cfg.Server.Database.MaxIdle)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	if err := store.EnsureSchema(ctx, db); err != nil {
		logger.Fatal("failed to ensure schema", zap.Error(err))
	}

	vitalRepo := store.NewVitalRepository(db, logger)
	alertRepo := store.NewAlertRepository(db, logger)

	// Optional latest-reading cache. An empty addr runs without it; the
	// pipeline and API both tolerate a nil cache.
	var latest *cache.Latest
	var rdb *redis.Client
	if cfg.Server.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Server.Redis.Addr,
			Password: cfg.Server.Redis.Password(),
			DB:       cfg.Server.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable at startup, cache degraded", zap.Error(err))
		}
		latest = cache.NewLatest(rdb, cfg.Server.Redis.TTL, logger)
		defer rdb.Close()
	}

	// WebSocket hub — fans samples and alerts out to live observers.
	hub := ws.New(logger)
	go hub.Run(ctx)

	// Ingestion pipeline: normalize, persist, evaluate, broadcast.
	var latestSetter ingest.LatestSetter
	if latest != nil {
		latestSetter = latest
	}
	pipeline := ingest.New(vitalRepo, alertRepo, hub, latestSetter, logger)

	var latestReader api.LatestReader
	if latest != nil {
		latestReader = latest
	}

	mux := http.NewServeMux()
	mux.Handle("/", api.New(pipeline, vitalRepo, alertRepo, latestReader, hub, logger))
	mux.Handle("/ws/stream", hub)

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: mux,
	}
	go func() {
		logger.Info("HTTP server listening", zap.Int("port", cfg.Server.HTTPPort))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("medsense-server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	httpSrv.Shutdown(shutdownCtx) //nolint:errcheck
}
