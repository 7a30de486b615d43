package spanring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/spanring/errors"
	"github.com/c360/spanring/metric"
)

func TestNew_InvalidCapacity(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
	}{
		{"zero", 0},
		{"negative", -1},
		{"very negative", -1000},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			buf, err := New[int](test.capacity)
			require.Error(t, err)
			assert.Nil(t, buf)
			assert.True(t, errors.IsInvalid(err), "capacity errors classify as invalid")
		})
	}
}

func TestNew_ValidCapacity(t *testing.T) {
	buf, err := New[int](10)
	require.NoError(t, err)
	require.NotNil(t, buf)

	assert.Equal(t, 10, buf.Capacity())
	assert.NotNil(t, buf.Stats(), "stats are always collected")
}

func TestTakeReaderWriter_SingleIssuance(t *testing.T) {
	buf, err := New[int](10)
	require.NoError(t, err)

	reader, writer, ok := buf.TakeReaderWriter()
	require.True(t, ok)
	require.NotNil(t, reader)
	require.NotNil(t, writer)
	assert.Empty(t, reader.Values(), "fresh buffer has no readable data")

	// Every subsequent call must refuse
	for i := 0; i < 3; i++ {
		r2, w2, ok2 := buf.TakeReaderWriter()
		assert.False(t, ok2)
		assert.Nil(t, r2)
		assert.Nil(t, w2)
	}
}

func TestBuffer_ProduceConsumeOne(t *testing.T) {
	buf, err := New[int](10)
	require.NoError(t, err)
	reader, writer, ok := buf.TakeReaderWriter()
	require.True(t, ok)

	span := writer.Prepare(1)
	require.Len(t, span, 1)
	span[0] = 10
	writer.Commit(1)

	vals := reader.Values()
	require.Len(t, vals, 1)
	assert.Equal(t, 10, vals[0])
	reader.Consume(1)

	assert.Empty(t, reader.Values())
}

// TestBuffer_WraparoundScenario drives a capacity-10 ring through a full
// fill/drain cycle and two wrapping reservations, checking that the
// returned spans alias the front of the storage after each wrap.
func TestBuffer_WraparoundScenario(t *testing.T) {
	buf, err := New[int](10)
	require.NoError(t, err)
	reader, writer, ok := buf.TakeReaderWriter()
	require.True(t, ok)

	span := writer.Prepare(10)
	require.Len(t, span, 10)
	base := &span[0]

	// Publish and drain one element at a time through the full reservation
	for i := 0; i < 10; i++ {
		span[i] = i
		writer.Commit(1)

		vals := reader.Values()
		require.Len(t, vals, 1)
		require.Equal(t, i, vals[0])
		reader.Consume(1)
	}

	// Cursors now sit at the capacity edge; a reservation of 7 must wrap
	span = writer.Prepare(7)
	require.Len(t, span, 7)
	assert.Same(t, base, &span[0], "wrapped reservation starts at the front of storage")
	writer.Commit(7)
	reader.Consume(7)

	// Wrap again from offset 7
	span = writer.Prepare(5)
	require.Len(t, span, 5)
	assert.Same(t, base, &span[0])
	writer.Commit(5)

	vals := reader.Values()
	require.Len(t, vals, 5)
	assert.Same(t, base, &vals[0], "drained tail redirects the reader to the front region")

	// Two more elements would advance write to the read cursor, which
	// would make the ring indistinguishable from empty. Refused.
	assert.Empty(t, writer.Prepare(2))

	// One element keeps the gap and lands right behind the committed region
	span = writer.Prepare(1)
	require.Len(t, span, 1)
	assert.Same(t, &buf.cb.storage[5], &span[0])
}

func TestBuffer_State(t *testing.T) {
	buf, err := New[int](8)
	require.NoError(t, err)
	reader, writer, ok := buf.TakeReaderWriter()
	require.True(t, ok)

	state := buf.State()
	assert.Equal(t, uint64(8), state.Capacity)
	assert.Equal(t, uint64(0), state.Read)
	assert.Equal(t, uint64(0), state.Write)
	assert.Equal(t, uint64(0), state.Readable)
	assert.False(t, state.Wrapped)

	writer.Commit(copyInts(writer.Prepare(5), 0))
	reader.Consume(4)

	// Fill to the capacity edge, then force a wrapping reservation
	writer.Commit(copyInts(writer.Prepare(3), 5))
	reader.Consume(3)

	writer.Commit(copyInts(writer.Prepare(2), 8))

	state = buf.State()
	assert.True(t, state.Wrapped, "read %d write %d", state.Read, state.Write)
	assert.Equal(t, uint64(3), state.Readable, "one element left in the tail, two in front")
	assert.Contains(t, state.String(), "wrapped=true")
}

func TestBuffer_WithMetrics(t *testing.T) {
	registry := metric.NewMetricsRegistry()

	buf, err := New[int](10, WithMetrics[int](registry, "test-ring"))
	require.NoError(t, err)
	require.NotNil(t, buf)

	// Same prefix registers the same metric names again
	_, err = New[int](10, WithMetrics[int](registry, "test-ring"))
	require.Error(t, err)

	// A different prefix is fine
	_, err = New[int](10, WithMetrics[int](registry, "other-ring"))
	assert.NoError(t, err)
}

func TestBuffer_WithMetricsIgnoredWhenIncomplete(t *testing.T) {
	buf, err := New[int](10, WithMetrics[int](nil, "test-ring"))
	require.NoError(t, err)
	assert.Nil(t, buf.metrics)

	buf, err = New[int](10, WithMetrics[int](metric.NewMetricsRegistry(), ""))
	require.NoError(t, err)
	assert.Nil(t, buf.metrics)
}

// copyInts fills span with sequential values starting at base and
// returns the span length, so a prepare/commit pair reads as one line.
func copyInts(span []int, base int) int {
	for i := range span {
		span[i] = base + i
	}
	return len(span)
}
