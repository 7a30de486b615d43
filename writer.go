package spanring

// Writer is the producer-side handle of a Buffer. It holds a non-owning
// reference to the buffer's control block plus the count of currently
// reserved-but-uncommitted elements. It must not outlive the Buffer it
// was taken from.
//
// A Writer is bound to a single producer goroutine. Calling its methods
// from more than one goroutine, or from the consumer's goroutine,
// violates the SPSC discipline and voids the ordering guarantees.
type Writer[T any] struct {
	cb       *controlBlock[T]
	prepared uint64
	stats    *Statistics
	metrics  *ringMetrics
}

// Prepare reserves a contiguous writable region of amount elements and
// returns a mutable zero-copy view over it, valid until the next call
// to Prepare. The reservation is not visible to the reader until it is
// published with Commit.
//
// Prepare returns an empty (nil) view when a reservation is already
// outstanding, when amount is not positive, or when no placement
// strategy finds room — the buffer-full backpressure signal. It never
// blocks and never allocates.
func (w *Writer[T]) Prepare(amount int) []T {
	if amount <= 0 {
		return nil
	}
	if w.prepared != 0 {
		w.recordRefusal()
		return nil
	}
	n := uint64(amount)

	read := w.cb.read.Load()
	write := w.cb.write.Load()

	if write >= read {
		// Unwrapped: the region either fits before the capacity edge or
		// must wrap to the front of storage.
		if left := w.cb.capacity - write; left >= n {
			w.prepared = n
			w.cb.watermark.Store(write + n)
			w.recordPrepare()
			return w.cb.span(write, n)
		}
		if read > n {
			// Wrap. The strict inequality keeps one slot free so that
			// read == write stays unambiguous for "empty".
			//
			// Store order matters: the watermark must be observable
			// before the write reset, so a reader that sees write == 0
			// always has a valid pre-wrap boundary to drain first.
			w.cb.watermark.Store(write)
			w.cb.write.Store(0)
			w.prepared = n
			w.recordPrepare()
			return w.cb.span(0, n)
		}
	} else if write+n < read {
		// Already wrapped: fits in the gap ahead of the read cursor,
		// again leaving one slot free.
		w.prepared = n
		w.recordPrepare()
		return w.cb.span(write, n)
	}

	w.recordRefusal()
	return nil
}

// Commit publishes amount elements of the outstanding reservation by
// advancing the write cursor. The amount is clamped to what remains
// prepared; committing with no outstanding reservation is a no-op.
//
// Commits may be partial and vectored: a caller may publish a
// reservation in several Commit calls, as long as the reservation is
// exhausted before the next Prepare. Commit never moves the write
// cursor backwards and never wraps it; wrapping happens only inside
// Prepare.
func (w *Writer[T]) Commit(amount int) {
	if w.prepared == 0 || amount <= 0 {
		return
	}

	n := min(uint64(amount), w.prepared)
	w.prepared -= n

	write := w.cb.write.Load()
	w.cb.write.Store(write + n)

	w.recordCommit(n)
}

// Abandon discards the outstanding reservation without publishing it.
// Safe in every placement state: Prepare never moves cursors in a way
// that changes the committed region, so dropping the reservation leaves
// the reader's view intact. A no-op when nothing is prepared.
func (w *Writer[T]) Abandon() {
	if w.prepared == 0 {
		return
	}
	w.prepared = 0
	w.recordAbandon()
}

// Prepared returns the number of reserved-but-uncommitted elements.
func (w *Writer[T]) Prepared() int {
	return int(w.prepared)
}

func (w *Writer[T]) recordPrepare() {
	w.stats.recordPrepare()
	if w.metrics != nil {
		w.metrics.recordPrepare()
	}
}

func (w *Writer[T]) recordRefusal() {
	w.stats.recordPrepareRefusal()
	if w.metrics != nil {
		w.metrics.recordPrepareRefusal()
	}
}

func (w *Writer[T]) recordCommit(n uint64) {
	occ := w.cb.occupancy()
	w.stats.recordCommit(int64(n), int64(occ))
	if w.metrics != nil {
		w.metrics.recordCommit(n, occ, w.cb.capacity)
	}
}

func (w *Writer[T]) recordAbandon() {
	w.stats.recordAbandon()
	if w.metrics != nil {
		w.metrics.recordAbandon()
	}
}
