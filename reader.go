package spanring

// Reader is the consumer-side handle of a Buffer. It holds a non-owning
// reference to the buffer's control block and must not outlive the
// Buffer it was taken from.
//
// A Reader is bound to a single consumer goroutine. Calling its methods
// from more than one goroutine, or from the producer's goroutine,
// violates the SPSC discipline and voids the ordering guarantees.
type Reader[T any] struct {
	cb      *controlBlock[T]
	stats   *Statistics
	metrics *ringMetrics
}

// Values returns the longest currently contiguous readable region as a
// zero-copy view into the buffer's storage. The view is read-only by
// contract: mutating it corrupts data the producer has published.
//
// Values never blocks and never allocates. Repeated calls without an
// intervening Consume return the same region. An empty (nil) result
// means no data is currently available; the caller retries later.
func (r *Reader[T]) Values() []T {
	read := r.cb.read.Load()
	write := r.cb.write.Load()

	switch {
	case write > read:
		r.recordValues(false)
		return r.cb.span(read, write-read)
	case write < read:
		// The writer has wrapped. Either the pre-wrap tail region
		// [read, watermark) still holds data, or it is fully drained
		// and the readable data restarts at the front: [0, write).
		watermark := r.cb.watermark.Load()
		if read == watermark {
			r.recordValues(write == 0)
			return r.cb.span(0, write)
		}
		r.recordValues(false)
		return r.cb.span(read, watermark-read)
	}

	r.recordValues(true)
	return nil
}

// Consume advances the read cursor by up to amount elements, clamped to
// what is actually available. Consuming past the available data is not
// an error; the excess is ignored. Consume is the only operation that
// moves the read cursor.
func (r *Reader[T]) Consume(amount int) {
	if amount <= 0 {
		return
	}
	n := uint64(amount)

	read := r.cb.read.Load()
	write := r.cb.write.Load()

	if read == write {
		return
	}

	var consumed uint64
	if write > read {
		newRead := min(read+n, write)
		consumed = newRead - read
		r.cb.read.Store(newRead)
	} else {
		// Wrapped. Total available spans [read, watermark) plus
		// [0, write). The modulus is the watermark, not the capacity:
		// the watermark is the exact boundary at which indices logically
		// reset to zero, so consuming to it lands the cursor at 0 and
		// consuming beyond it continues into the front region.
		watermark := r.cb.watermark.Load()
		available := watermark - read + write
		consumed = min(n, available)
		r.cb.read.Store((read + consumed) % watermark)
	}

	r.recordConsume(consumed)
}

// Available returns the total number of readable elements across both
// regions. Unlike Values, this counts data beyond the contiguous span.
func (r *Reader[T]) Available() int {
	return int(r.cb.occupancy())
}

func (r *Reader[T]) recordValues(empty bool) {
	r.stats.recordValues(empty)
	if r.metrics != nil {
		r.metrics.recordValues()
	}
}

func (r *Reader[T]) recordConsume(n uint64) {
	r.stats.recordConsume(int64(n))
	if r.metrics != nil {
		r.metrics.recordConsume(n, r.cb.occupancy(), r.cb.capacity)
	}
}
