// Package retry provides simple exponential backoff retry logic for the harness
package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

var (
	// Thread-safe random source for jitter
	randMu     sync.Mutex
	randSource = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// NonRetryableError wraps errors that should not be retried
type NonRetryableError struct {
	Err error
}

func (e *NonRetryableError) Error() string {
	return fmt.Sprintf("non-retryable: %v", e.Err)
}

func (e *NonRetryableError) Unwrap() error {
	return e.Err
}

// NonRetryable wraps an error to indicate it should not be retried
func NonRetryable(err error) error {
	if err == nil {
		return nil
	}
	return &NonRetryableError{Err: err}
}

// IsNonRetryable checks if an error is marked as non-retryable
func IsNonRetryable(err error) bool {
	var nre *NonRetryableError
	return errors.As(err, &nre)
}

// ErrNotReady is the sentinel Poll uses internally when the polled condition
// has not been met yet. Callers normally never see it.
var ErrNotReady = errors.New("retry: condition not ready")

// Config provides retry configuration
type Config struct {
	MaxAttempts  int           // Maximum number of attempts (0 = no retry, just run once; <0 = unlimited for Poll)
	InitialDelay time.Duration // Initial delay between attempts
	MaxDelay     time.Duration // Maximum delay between attempts
	Multiplier   float64       // Backoff multiplier (typically 2.0)
	AddJitter    bool          // Add randomness to prevent thundering herd
}

// DefaultConfig returns sensible defaults for retry operations
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
		AddJitter:    true,
	}
}

// Do executes fn with exponential backoff retry
func Do(ctx context.Context, cfg Config, fn func() error) error {
	// Validate configuration
	if cfg.InitialDelay < 0 {
		return errors.New("retry: InitialDelay cannot be negative")
	}
	if cfg.MaxDelay < 0 {
		return errors.New("retry: MaxDelay cannot be negative")
	}
	if cfg.Multiplier < 0 {
		return errors.New("retry: Multiplier cannot be negative")
	}
	// Prevent overflow with extremely large multipliers
	if cfg.Multiplier > 1000 {
		cfg.Multiplier = 1000
	}

	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1 // At least try once
	}

	// Set defaults if not specified
	if cfg.InitialDelay == 0 {
		cfg.InitialDelay = 100 * time.Millisecond
	}
	if cfg.MaxDelay == 0 {
		cfg.MaxDelay = 5 * time.Second
	}
	if cfg.Multiplier == 0 {
		cfg.Multiplier = 2.0
	}

	// Additional validation after defaults
	if cfg.MaxDelay > 0 && cfg.MaxDelay < cfg.InitialDelay {
		return errors.New("retry: MaxDelay must be >= InitialDelay")
	}

	var lastErr error
	delay := cfg.InitialDelay

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		// Try the operation
		err := fn()
		if err == nil {
			return nil // Success!
		}
		lastErr = err

		// Check if error is marked as non-retryable - fail immediately
		if IsNonRetryable(err) {
			return err
		}

		// Check if context is cancelled
		if ctx.Err() != nil {
			return fmt.Errorf("retry cancelled before attempt %d: %w", attempt, ctx.Err())
		}

		// Don't sleep after the last attempt
		if attempt == cfg.MaxAttempts {
			break
		}

		if err := sleepWithJitter(ctx, cfg, delay, attempt); err != nil {
			return err
		}

		delay = nextDelay(cfg, delay)
	}

	return fmt.Errorf("retry failed after %d attempts: %w", cfg.MaxAttempts, lastErr)
}

// DoWithResult executes fn with retry and returns both result and error
func DoWithResult[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	var result T
	err := Do(ctx, cfg, func() error {
		var innerErr error
		result, innerErr = fn()
		return innerErr
	})
	return result, err
}

// Poll repeatedly evaluates fn with exponential backoff until it reports
// true. A false return is backpressure, not failure, so Poll backs off and
// tries again. MaxAttempts <= 0 means poll until the context is cancelled,
// which is the normal mode for producer and consumer loops waiting on a full
// or empty ring.
func Poll(ctx context.Context, cfg Config, fn func() bool) error {
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = 50 * time.Microsecond
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 5 * time.Millisecond
	}
	if cfg.Multiplier <= 0 {
		cfg.Multiplier = 2.0
	}
	if cfg.MaxDelay < cfg.InitialDelay {
		cfg.MaxDelay = cfg.InitialDelay
	}

	delay := cfg.InitialDelay

	for attempt := 1; ; attempt++ {
		if fn() {
			return nil
		}

		if ctx.Err() != nil {
			return fmt.Errorf("poll cancelled after %d attempts: %w", attempt, ctx.Err())
		}

		if cfg.MaxAttempts > 0 && attempt >= cfg.MaxAttempts {
			return fmt.Errorf("poll gave up after %d attempts: %w", cfg.MaxAttempts, ErrNotReady)
		}

		if err := sleepWithJitter(ctx, cfg, delay, attempt); err != nil {
			return err
		}

		delay = nextDelay(cfg, delay)
	}
}

// sleepWithJitter blocks for delay (plus up to 25% jitter when configured)
// or until the context is cancelled.
func sleepWithJitter(ctx context.Context, cfg Config, delay time.Duration, attempt int) error {
	sleepDuration := delay
	if cfg.AddJitter && delay >= 4 {
		randMu.Lock()
		jitter := time.Duration(randSource.Int63n(int64(delay / 4)))
		randMu.Unlock()
		sleepDuration = delay + jitter
	}

	timer := time.NewTimer(sleepDuration)
	select {
	case <-ctx.Done():
		timer.Stop()
		return fmt.Errorf("retry cancelled during backoff for attempt %d: %w", attempt+1, ctx.Err())
	case <-timer.C:
		return nil
	}
}

// nextDelay advances the backoff with overflow protection.
func nextDelay(cfg Config, delay time.Duration) time.Duration {
	next := float64(delay) * cfg.Multiplier
	if next > float64(cfg.MaxDelay) || next > float64(time.Duration(1<<63-1)) {
		return cfg.MaxDelay
	}
	return time.Duration(next)
}

// Quick returns a config for fast retries (useful during startup)
func Quick() Config {
	return Config{
		MaxAttempts:  10,
		InitialDelay: 50 * time.Millisecond,
		MaxDelay:     1 * time.Second,
		Multiplier:   1.5,
		AddJitter:    true,
	}
}

// Persistent returns a config for long-running retries (useful for critical resources)
func Persistent() Config {
	return Config{
		MaxAttempts:  30,
		InitialDelay: 200 * time.Millisecond,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
		AddJitter:    true,
	}
}

// Spin returns a config tuned for polling a ring buffer under backpressure:
// short delays, unlimited attempts, no jitter contention on the hot path.
func Spin() Config {
	return Config{
		MaxAttempts:  0,
		InitialDelay: 50 * time.Microsecond,
		MaxDelay:     2 * time.Millisecond,
		Multiplier:   2.0,
		AddJitter:    true,
	}
}
