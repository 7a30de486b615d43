package spanring

import (
	"fmt"
	"sync/atomic"

	"github.com/c360/spanring/errors"
)

// Buffer is the composition root of a single-producer/single-consumer
// ring. It exclusively owns the backing storage and the shared control
// block, and hands out exactly one (Reader, Writer) pair for its
// lifetime. Stats are ALWAYS collected; Prometheus metrics are optional
// via WithMetrics().
type Buffer[T any] struct {
	cb      controlBlock[T]
	stats   *Statistics
	metrics *ringMetrics
	taken   atomic.Bool
}

// New creates a Buffer with the given fixed capacity (in elements).
// Capacity must be positive. All storage is allocated here; no
// allocation happens on any subsequent operation.
// Returns a classified error for invalid capacity or failed metrics
// registration when metrics are requested.
func New[T any](capacity int, options ...Option[T]) (*Buffer[T], error) {
	if capacity < 1 {
		return nil, errors.WrapInvalid(
			fmt.Errorf("capacity %d", capacity),
			"Buffer", "New", "capacity validation")
	}

	opts := applyOptions(options...)

	// Stats are ALWAYS initialized - observability is not optional
	stats := NewStatistics()

	var metrics *ringMetrics
	if opts.metricsReg != nil && opts.metricsPrefix != "" {
		var err error
		metrics, err = newRingMetrics(opts.metricsReg, opts.metricsPrefix)
		if err != nil {
			return nil, errors.WrapTransient(err, "Buffer", "New", "metrics registration")
		}
	}

	b := &Buffer[T]{
		stats:   stats,
		metrics: metrics,
	}
	b.cb.storage = make([]T, capacity)
	b.cb.capacity = uint64(capacity)

	return b, nil
}

// TakeReaderWriter returns the buffer's (Reader, Writer) pair exactly
// once; every subsequent call returns (nil, nil, false). This is the
// gate that enforces the SPSC discipline: there is never more than one
// producer-side and one consumer-side handle alive for a control block.
//
// The handoff of the Writer to the producer goroutine and the Reader to
// the consumer goroutine is the caller's responsibility.
func (b *Buffer[T]) TakeReaderWriter() (*Reader[T], *Writer[T], bool) {
	if !b.taken.CompareAndSwap(false, true) {
		return nil, nil, false
	}

	r := &Reader[T]{cb: &b.cb, stats: b.stats, metrics: b.metrics}
	w := &Writer[T]{cb: &b.cb, stats: b.stats, metrics: b.metrics}
	return r, w, true
}

// Capacity returns the fixed element capacity of the buffer.
func (b *Buffer[T]) Capacity() int {
	return int(b.cb.capacity) // Immutable, so no synchronization needed
}

// Stats returns buffer statistics (always available for observability).
func (b *Buffer[T]) Stats() *Statistics {
	return b.stats
}

// State represents a snapshot of the buffer's cursor state for
// debugging and diagnostics.
type State struct {
	Capacity  uint64 `json:"capacity"`  // Fixed element capacity
	Read      uint64 `json:"read"`      // Current read cursor
	Write     uint64 `json:"write"`     // Current write cursor
	Watermark uint64 `json:"watermark"` // Pre-wrap boundary (meaningful while wrapped)
	Readable  uint64 `json:"readable"`  // Committed, unconsumed elements
	Wrapped   bool   `json:"wrapped"`   // Whether read > write
}

// String renders the snapshot for log lines and test failures.
func (s State) String() string {
	return fmt.Sprintf("cap=%d read=%d write=%d watermark=%d readable=%d wrapped=%t",
		s.Capacity, s.Read, s.Write, s.Watermark, s.Readable, s.Wrapped)
}

// State returns a snapshot of the current cursor state. Each cursor is
// read atomically; the combination is a consistent point-in-time view
// only when the buffer is quiescent.
func (b *Buffer[T]) State() State {
	read := b.cb.read.Load()
	write := b.cb.write.Load()

	return State{
		Capacity:  b.cb.capacity,
		Read:      read,
		Write:     write,
		Watermark: b.cb.watermark.Load(),
		Readable:  b.cb.occupancy(),
		Wrapped:   read > write,
	}
}
