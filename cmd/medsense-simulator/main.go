package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/medsense/medsense/internal/config"
	"github.com/medsense/medsense/internal/logging"
	"github.com/medsense/medsense/internal/sim"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed for sample generation")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Simulator.Log.Level, cfg.Simulator.Log.Format, "medsense-simulator")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	logger.Info("medsense-simulator starting",
		zap.String("config", *configPath),
		zap.String("endpoint", cfg.Simulator.Endpoint),
		zap.Int("patients", len(cfg.Simulator.Patients)),
		zap.Duration("interval", cfg.Simulator.Interval),
		zap.Float64("anomaly_rate", cfg.Simulator.AnomalyRate),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	gen := sim.NewGenerator(*seed, cfg.Simulator.AnomalyRate)
	runner := sim.NewRunner(gen, cfg.Simulator.Endpoint, cfg.Simulator.Patients, cfg.Simulator.Interval, logger)

	// Hot-reload: endpoint, patient set and interval swap on the next round.
	// Anomaly rate and logging stay fixed until restart.
	go func() {
		if err := config.Watch(ctx, *configPath, logger, func(updated *config.Config) {
			runner.SetConfig(updated.Simulator.Endpoint, updated.Simulator.Patients, updated.Simulator.Interval)
		}); err != nil {
			logger.Error("config watcher stopped", zap.Error(err))
		}
	}()

	go runner.Run(ctx)

	<-ctx.Done()
	logger.Info("medsense-simulator shutting down")
}
