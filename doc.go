// Package spanring provides a fixed-capacity, lock-free
// single-producer/single-consumer (SPSC) ring buffer with zero-copy,
// contiguous-span access for both sides, built-in statistics tracking,
// and optional Prometheus metrics integration.
//
// # Overview
//
// spanring targets latency-sensitive pipelines where exactly one
// producer goroutine and one consumer goroutine exchange a stream of
// fixed-size elements through shared memory. Synchronization uses only
// sequentially-consistent atomic loads and stores on three cursors
// (read, write, watermark); there are no mutexes, no channels, and no
// allocation after construction. Every operation is non-blocking and
// returns immediately with whatever is currently available.
//
// # Quick Start
//
//	buf, err := spanring.New[int](1024)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	reader, writer, ok := buf.TakeReaderWriter()
//	if !ok {
//		log.Fatal("handles already taken")
//	}
//
//	// Producer side: reserve, fill, publish.
//	if span := writer.Prepare(16); len(span) > 0 {
//		for i := range span {
//			span[i] = i
//		}
//		writer.Commit(len(span))
//	}
//
//	// Consumer side: view, process, release.
//	if vals := reader.Values(); len(vals) > 0 {
//		process(vals)
//		reader.Consume(len(vals))
//	}
//
// With metrics:
//
//	registry := metric.NewMetricsRegistry()
//	buf, err := spanring.New[[32]byte](4096,
//		spanring.WithMetrics[[32]byte](registry, "audio_out"),
//	)
//
// # The Prepare/Commit Protocol
//
// The writer publishes data in two phases. Prepare(n) reserves a
// contiguous span of n elements and returns a mutable view directly
// into the ring's storage; the caller fills it in place. Commit(k)
// then publishes k elements by advancing the write cursor. Commits may
// be split across several calls (vectored publishing), but a
// reservation must be exhausted - or dropped with Abandon - before the
// next Prepare is allowed.
//
// An empty view from Prepare is the only backpressure signal: it means
// a reservation is still outstanding or the ring has no contiguous room
// for the requested span. The caller retries later; polling cadence is
// the caller's concern (see pkg/retry for backoff helpers).
//
// # The Values/Consume Protocol
//
// The reader calls Values() to obtain the longest currently contiguous
// readable span as a zero-copy, read-only view, then Consume(k) to
// release k elements back to the writer. Repeated Values calls without
// an intervening Consume return the same span. An empty view means no
// data is available.
//
// When the writer has wrapped to the front of storage, the readable
// data lives in two regions; Values returns the pre-wrap tail region
// first, then the front region once the tail is drained. The watermark
// cursor records where the tail region ends.
//
// # SPSC Discipline
//
// TakeReaderWriter issues the (Reader, Writer) pair exactly once per
// Buffer, which is what enforces the single-producer/single-consumer
// model. Only the producer goroutine may call Prepare/Commit/Abandon;
// only the consumer goroutine may call Values/Consume. The buffer does
// not detect violations of this discipline - crossing it voids all
// ordering guarantees. Handles are non-owning references and must not
// outlive their Buffer.
//
// # Observability
//
// Statistics (always on) count reservations, refusals, commits,
// consumes, and element totals using lock-free atomic counters; they
// are available via Stats() with zero configuration. Prometheus
// metrics are optional via WithMetrics() and add one counter increment
// and a gauge update per publish/consume. State() exposes a cursor
// snapshot for debugging and diagnostics.
//
// # Performance Characteristics
//
// All operations are O(1) and allocation-free:
//
//   - Prepare/Commit: two atomic loads, one or two atomic stores
//   - Values/Consume: two or three atomic loads, one atomic store
//   - Storage: pre-allocated, capacity * sizeof(T)
//
// The reader-owned and writer-owned cursors are padded onto separate
// cache lines to avoid false sharing between cores.
//
// # Testing
//
// The package includes race-detector-friendly concurrency tests, a
// model-based property test (pgregory.net/rapid), and benchmarks:
//
//	go test -race .
//	go test -bench=. .
package spanring
