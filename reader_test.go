package spanring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValues_EmptyBuffer(t *testing.T) {
	buf, reader, _ := newPair(t, 10)

	assert.Empty(t, reader.Values())
	assert.Equal(t, 0, reader.Available())
	assert.Equal(t, int64(1), buf.Stats().EmptyValueCalls())
}

func TestValues_Idempotent(t *testing.T) {
	_, reader, writer := newPair(t, 10)

	span := writer.Prepare(3)
	span[0], span[1], span[2] = 7, 8, 9
	writer.Commit(3)

	first := reader.Values()
	second := reader.Values()
	require.Len(t, first, 3)
	assert.Equal(t, []int{7, 8, 9}, first)
	assert.Same(t, &first[0], &second[0], "repeated calls return the same view")
}

func TestValues_ContiguousTailThenFront(t *testing.T) {
	buf, reader, writer := newPair(t, 10)

	// Wrap: tail [6, 8) committed, front [0, 3) committed
	writer.Commit(copyInts(writer.Prepare(8), 0))
	reader.Consume(6)
	writer.Commit(copyInts(writer.Prepare(3), 8))
	require.True(t, buf.State().Wrapped)

	// Values exposes only the contiguous tail even though more is readable
	vals := reader.Values()
	require.Len(t, vals, 2)
	assert.Equal(t, []int{6, 7}, vals)
	assert.Equal(t, 5, reader.Available())

	// Draining the tail redirects the view to the front region
	reader.Consume(2)
	vals = reader.Values()
	require.Len(t, vals, 3)
	assert.Equal(t, []int{8, 9, 10}, vals)
	assert.Same(t, &buf.cb.storage[0], &vals[0])
}

func TestConsume_Clamped(t *testing.T) {
	_, reader, writer := newPair(t, 10)

	writer.Commit(copyInts(writer.Prepare(4), 0))

	// Consuming far past the committed region clamps to what exists
	reader.Consume(100)
	assert.Empty(t, reader.Values())
	assert.Equal(t, 0, reader.Available())
}

func TestConsume_NonPositiveAndEmpty(t *testing.T) {
	buf, reader, writer := newPair(t, 10)

	reader.Consume(5) // empty buffer, no-op
	reader.Consume(0)
	reader.Consume(-2)
	assert.Equal(t, uint64(0), buf.cb.read.Load())

	writer.Commit(copyInts(writer.Prepare(2), 0))
	reader.Consume(-1)
	assert.Len(t, reader.Values(), 2)
}

func TestConsume_AcrossWatermark(t *testing.T) {
	buf, reader, writer := newPair(t, 10)

	// Wrapped state: tail [5, 8), front [0, 4)
	writer.Commit(copyInts(writer.Prepare(8), 0))
	reader.Consume(5)
	writer.Commit(copyInts(writer.Prepare(4), 8))
	require.Equal(t, 7, reader.Available())

	// One consume spanning both regions: 3 tail elements plus 2 front.
	// The read cursor must land inside the front region, not at the
	// capacity edge.
	reader.Consume(5)
	state := buf.State()
	assert.Equal(t, uint64(2), state.Read)
	assert.False(t, state.Wrapped)

	vals := reader.Values()
	require.Len(t, vals, 2)
	assert.Equal(t, []int{10, 11}, vals)
}

func TestConsume_ExactlyToWatermark(t *testing.T) {
	buf, reader, writer := newPair(t, 10)

	// Tail [6, 8) with nothing committed in front yet
	writer.Commit(copyInts(writer.Prepare(8), 0))
	reader.Consume(6)
	require.Len(t, writer.Prepare(3), 3)
	writer.Commit(0) // reservation outstanding, nothing published

	reader.Consume(2)

	// Draining to the watermark lands the cursor at zero
	assert.Equal(t, uint64(0), buf.cb.read.Load())
	assert.Empty(t, reader.Values())
	assert.Equal(t, 0, reader.Available())
}

func TestAvailable_CountsBothRegions(t *testing.T) {
	_, reader, writer := newPair(t, 10)

	assert.Equal(t, 0, reader.Available())

	writer.Commit(copyInts(writer.Prepare(6), 0))
	assert.Equal(t, 6, reader.Available())

	reader.Consume(5)
	assert.Equal(t, 1, reader.Available())

	// Fill to the capacity edge, drain to one tail element, then wrap
	writer.Commit(copyInts(writer.Prepare(4), 6))
	reader.Consume(4)
	writer.Commit(copyInts(writer.Prepare(3), 10))

	// Readable is tail (1) plus front (3)
	assert.Equal(t, 4, reader.Available())
	assert.Len(t, reader.Values(), 1, "contiguous view is shorter than Available")
}
