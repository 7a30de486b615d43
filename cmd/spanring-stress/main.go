// Package main implements the stress harness for spanring buffers.
// It drives N rings with paired producer/consumer jobs, verifies element
// ordering end to end, and reports throughput and utilization.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/c360/spanring/metric"
)

// Build information constants
const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "spanring-stress"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	// Run application with proper error handling
	if err := run(); err != nil {
		slog.Error("Stress run failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run() error {
	// Parse and validate CLI flags
	cliCfg, shouldExit, err := initializeCLI()
	if shouldExit || err != nil {
		return err
	}

	runID := uuid.NewString()
	slog.Info("Starting stress run",
		"run_id", runID,
		"rings", cliCfg.Rings,
		"capacity", cliCfg.Capacity,
		"elements", cliCfg.Elements,
		"burst", cliCfg.Burst,
		"workers", cliCfg.Workers)

	// Setup metrics infrastructure
	registry, metricsServer := setupMetrics(cliCfg, runID)
	if metricsServer != nil {
		go func() {
			if err := metricsServer.Start(); err != nil {
				slog.Error("Metrics server error", "error", err)
			}
		}()
		defer func() {
			if err := metricsServer.Stop(); err != nil {
				slog.Warn("Metrics server stop error", "error", err)
			}
		}()
		slog.Info("Metrics server listening", "address", metricsServer.Address())
	}

	// Run harness with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cliCfg.Duration > 0 {
		var timeoutCancel context.CancelFunc
		ctx, timeoutCancel = context.WithTimeout(ctx, cliCfg.Duration)
		defer timeoutCancel()
	}

	harness, err := newHarness(cliCfg, registry)
	if err != nil {
		return fmt.Errorf("create harness: %w", err)
	}
	defer harness.Close()

	start := time.Now()
	if err := harness.Run(ctx); err != nil {
		return fmt.Errorf("stress run: %w", err)
	}

	harness.LogSummary(time.Since(start))
	slog.Info("Stress run complete", "run_id", runID)
	return nil
}

// initializeCLI parses flags and sets up logging
func initializeCLI() (*CLIConfig, bool, error) {
	cliCfg := parseFlags()
	if err := validateFlags(cliCfg); err != nil {
		return nil, false, fmt.Errorf("invalid flags: %w", err)
	}

	if cliCfg.ShowVersion {
		fmt.Printf("%s version %s\n", appName, Version)
		return nil, true, nil
	}

	if cliCfg.ShowHelp {
		printHelp()
		return nil, true, nil
	}

	logger := setupLogger(cliCfg.LogLevel, cliCfg.LogFormat)
	slog.SetDefault(logger)

	return cliCfg, false, nil
}

// setupMetrics creates the registry and, when a port is configured, the
// HTTP server exposing it. The registry is created unconditionally so
// per-ring metrics always have somewhere to register.
func setupMetrics(cfg *CLIConfig, runID string) (*metric.MetricsRegistry, *metric.Server) {
	registry := metric.NewMetricsRegistry()
	registry.Metrics.RunInfo.WithLabelValues(runID).Set(1)

	if cfg.MetricsPort == 0 {
		return registry, nil
	}
	return registry, metric.NewServer(cfg.MetricsPort, "/metrics", registry)
}

// printHelp prints help information
func printHelp() {
	printDetailedHelp()
}
