package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

// CLIConfig holds command-line configuration
type CLIConfig struct {
	Rings       int
	Capacity    int
	Elements    int
	Burst       int
	Duration    time.Duration
	Workers     int
	MetricsPort int
	LogLevel    string
	LogFormat   string
	Debug       bool
	ShowVersion bool
	ShowHelp    bool
}

func parseFlags() *CLIConfig {
	cfg := &CLIConfig{}

	// Define flags with environment variable fallback
	flag.IntVar(&cfg.Rings, "rings",
		getEnvInt("SPANRING_RINGS", 4),
		"Number of ring buffers to drive concurrently (env: SPANRING_RINGS)")

	flag.IntVar(&cfg.Capacity, "capacity",
		getEnvInt("SPANRING_CAPACITY", 4096),
		"Capacity of each ring in elements (env: SPANRING_CAPACITY)")

	flag.IntVar(&cfg.Elements, "elements",
		getEnvInt("SPANRING_ELEMENTS", 1_000_000),
		"Elements to push through each ring (env: SPANRING_ELEMENTS)")

	flag.IntVar(&cfg.Burst, "burst",
		getEnvInt("SPANRING_BURST", 64),
		"Maximum elements per reservation (env: SPANRING_BURST)")

	flag.DurationVar(&cfg.Duration, "duration",
		getEnvDuration("SPANRING_DURATION", 0),
		"Overall run timeout, 0 for none (env: SPANRING_DURATION)")

	flag.IntVar(&cfg.Workers, "workers",
		getEnvInt("SPANRING_WORKERS", 0),
		"Goroutine pool size, 0 for 2x rings (env: SPANRING_WORKERS)")

	flag.IntVar(&cfg.MetricsPort, "metrics-port",
		getEnvInt("SPANRING_METRICS_PORT", 0),
		"Prometheus metrics port, 0 to disable (env: SPANRING_METRICS_PORT)")

	flag.StringVar(&cfg.LogLevel, "log-level",
		getEnv("SPANRING_LOG_LEVEL", "info"),
		"Log level: debug, info, warn, error (env: SPANRING_LOG_LEVEL)")

	flag.StringVar(&cfg.LogFormat, "log-format",
		getEnv("SPANRING_LOG_FORMAT", "json"),
		"Log format: json, text (env: SPANRING_LOG_FORMAT)")

	flag.BoolVar(&cfg.Debug, "debug",
		getEnvBool("SPANRING_DEBUG", false),
		"Enable debug mode (env: SPANRING_DEBUG)")

	flag.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")
	flag.BoolVar(&cfg.ShowVersion, "v", false, "Show version information")
	flag.BoolVar(&cfg.ShowHelp, "help", false, "Show help information")
	flag.BoolVar(&cfg.ShowHelp, "h", false, "Show help information")

	// Custom usage
	flag.Usage = func() {
		printDetailedHelp()
	}

	flag.Parse()

	// Override log level if debug is set
	if cfg.Debug {
		cfg.LogLevel = "debug"
	}

	// Default pool size: one producer and one consumer per ring
	if cfg.Workers == 0 {
		cfg.Workers = 2 * cfg.Rings
	}

	return cfg
}

func validateFlags(cfg *CLIConfig) error {
	// Skip validation for special flags
	if cfg.ShowVersion || cfg.ShowHelp {
		return nil
	}

	if cfg.Rings < 1 {
		return fmt.Errorf("rings must be at least 1, got %d", cfg.Rings)
	}

	if cfg.Capacity < 4 {
		return fmt.Errorf("capacity must be at least 4, got %d", cfg.Capacity)
	}

	if cfg.Elements < 1 {
		return fmt.Errorf("elements must be at least 1, got %d", cfg.Elements)
	}

	// A reservation larger than half the capacity can park the cursors in a
	// state no placement strategy accepts, so the run would livelock.
	if cfg.Burst < 1 || cfg.Burst >= cfg.Capacity/2 {
		return fmt.Errorf("burst must be in [1, capacity/2), got %d with capacity %d",
			cfg.Burst, cfg.Capacity)
	}

	// Every ring needs its producer and consumer scheduled at the same time
	if cfg.Workers < 2*cfg.Rings {
		return fmt.Errorf("workers must be at least 2x rings (%d), got %d",
			2*cfg.Rings, cfg.Workers)
	}

	if cfg.MetricsPort < 0 || cfg.MetricsPort > 65535 {
		return fmt.Errorf("invalid metrics port: %d", cfg.MetricsPort)
	}

	// Validate log level
	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, cfg.LogLevel) {
		return fmt.Errorf("invalid log level: %s", cfg.LogLevel)
	}

	// Validate log format
	validFormats := []string{"json", "text"}
	if !contains(validFormats, cfg.LogFormat) {
		return fmt.Errorf("invalid log format: %s", cfg.LogFormat)
	}

	return nil
}

func printDetailedHelp() {
	_, _ = fmt.Fprintf(os.Stderr, `%s - SPSC ring buffer stress harness

Usage: %s [options]

Options:
`, appName, os.Args[0])
	flag.PrintDefaults()
	_, _ = fmt.Fprintf(os.Stderr, `
Examples:
  # Push 10M elements through 8 rings
  %s --rings=8 --elements=10000000

  # Small rings with aggressive wraparound and metrics exposed
  %s --capacity=64 --burst=16 --metrics-port=9090

  # Time-bound soak run
  %s --duration=5m --log-level=debug --log-format=text

Version: %s
Build: %s
`, os.Args[0], os.Args[0], os.Args[0], Version, BuildTime)
}

// Environment variable helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Utility function to check if slice contains string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
