// Package retry provides simple exponential backoff retry logic for transient failures.
//
// # Overview
//
// This package offers a minimal retry mechanism with exponential backoff, designed to
// handle transient failures during harness startup and, via Poll, the empty-result
// backpressure signalling of ring buffers.
//
// # Core Functions
//
//   - Do: Execute function with retry and exponential backoff
//   - DoWithResult: Execute function with retry, returns both result and error
//   - Poll: Re-evaluate a boolean condition with backoff until it holds
//
// # Configuration Presets
//
//   - DefaultConfig(): 3 attempts, 100ms-5s delay (normal operations)
//   - Quick(): 10 attempts, 50ms-1s delay (startup)
//   - Persistent(): 30 attempts, 200ms-10s delay (critical resources)
//   - Spin(): unlimited attempts, 50us-2ms delay (ring backpressure)
//
// # Usage Examples
//
// Basic retry with defaults:
//
//	err := retry.Do(ctx, retry.DefaultConfig(), func() error {
//	    return server.Start()
//	})
//
// Polling a writer until space frees up:
//
//	err := retry.Poll(ctx, retry.Spin(), func() bool {
//	    span = writer.Prepare(burst)
//	    return len(span) > 0
//	})
//
// Retry with result:
//
//	buf, err := retry.DoWithResult(ctx, retry.Quick(), func() (*spanring.Buffer[uint64], error) {
//	    return spanring.New[uint64](capacity)
//	})
//
// # Design Philosophy
//
// This package is intentionally minimal:
//
//   - No circuit breakers (use a separate package)
//   - No metrics collection (use instrumentation at call site)
//   - No complex error classification (caller decides what to retry)
//   - Just exponential backoff with jitter
//
// Poll exists because a full or empty ring is not an error. The buffer
// signals backpressure with empty results, and Poll turns that signal into
// a context-aware wait without putting errors on the buffer's hot path.
//
// # Context Cancellation
//
// All retry operations respect context cancellation and will immediately stop
// retrying when the context is cancelled, either during operation execution or
// during backoff delay.
//
// # Thread Safety
//
// All functions are safe for concurrent use. The jitter mechanism uses a
// thread-safe random source to avoid contention.
package retry
