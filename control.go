package spanring

import "sync/atomic"

// cacheLine is the assumed coherence granularity used to pad the
// reader-owned and writer-owned cursors apart (false sharing between the
// producer and consumer cores would otherwise dominate the hot path).
const cacheLine = 64

// controlBlock is the single source of truth shared by the reader and
// writer handles: the capacity, the three atomic cursors, and a
// non-owning view of the storage owned by Buffer.
//
// Cursor ownership discipline:
//   - read is advanced only by the Reader (Consume)
//   - write and watermark are advanced only by the Writer (Prepare/Commit)
//
// All cursor accesses go through sync/atomic, which provides
// sequentially-consistent ordering. That total order is what makes
// element data in storage safely visible across cores: an element is
// only read after the cursor store that published it has been observed.
type controlBlock[T any] struct {
	// Reader-owned cursor.
	read atomic.Uint64
	_    [cacheLine - 8]byte

	// Writer-owned cursors. The watermark marks where the pre-wrap
	// region ends once the writer has wrapped; it is only meaningful
	// while read > write.
	write     atomic.Uint64
	watermark atomic.Uint64
	_         [cacheLine - 16]byte

	// Immutable after construction.
	storage  []T
	capacity uint64
}

// span returns a contiguous view over storage[offset : offset+length).
// Callers must keep the range inside [0, capacity); both handles derive
// their ranges from the cursors, which never leave that interval.
func (cb *controlBlock[T]) span(offset, length uint64) []T {
	return cb.storage[offset : offset+length]
}

// occupancy returns the number of committed, unconsumed elements.
// Exact when called from a quiescent buffer; a consistent point-in-time
// estimate when the other side is running.
func (cb *controlBlock[T]) occupancy() uint64 {
	read := cb.read.Load()
	write := cb.write.Load()

	switch {
	case write > read:
		return write - read
	case write < read:
		// Wrapped: the tail region [read, watermark) plus the head
		// region [0, write).
		return cb.watermark.Load() - read + write
	}
	return 0
}
