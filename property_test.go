package spanring

import (
	"testing"

	"pgregory.net/rapid"
)

// ringMachine is a model-based test: the ring is compared against a
// plain slice queue after every operation. Placement acceptance is
// derived from the cursor snapshot, so the model predicts exactly when a
// reservation must succeed or be refused.
type ringMachine struct {
	buf    *Buffer[int]
	reader *Reader[int]
	writer *Writer[int]

	model []int
	next  int
}

// expectPlacement reports whether a reservation of n elements must be
// granted given the current cursor state.
func (m *ringMachine) expectPlacement(n uint64) bool {
	s := m.buf.State()
	if s.Write >= s.Read {
		if s.Capacity-s.Write >= n {
			return true
		}
		return s.Read > n
	}
	return s.Write+n < s.Read
}

func (m *ringMachine) prepareCommit(t *rapid.T) {
	n := rapid.IntRange(1, m.buf.Capacity()+1).Draw(t, "amount")
	want := m.expectPlacement(uint64(n))

	span := m.writer.Prepare(n)
	if !want {
		if len(span) != 0 {
			t.Fatalf("placement of %d granted in state %s", n, m.buf.State())
		}
		return
	}
	if len(span) != n {
		t.Fatalf("placement of %d refused in state %s", n, m.buf.State())
	}

	for i := range span {
		span[i] = m.next
		m.model = append(m.model, m.next)
		m.next++
	}
	m.writer.Commit(n)
}

func (m *ringMachine) prepareAbandon(t *rapid.T) {
	n := rapid.IntRange(1, m.buf.Capacity()).Draw(t, "amount")
	m.writer.Prepare(n)
	m.writer.Abandon()
	if m.writer.Prepared() != 0 {
		t.Fatalf("abandon left %d prepared", m.writer.Prepared())
	}
}

func (m *ringMachine) values(t *rapid.T) {
	vals := m.reader.Values()
	if len(vals) == 0 {
		if len(m.model) != 0 {
			t.Fatalf("no contiguous view with %d readable in state %s", len(m.model), m.buf.State())
		}
		return
	}
	if len(vals) > len(m.model) {
		t.Fatalf("view of %d exceeds %d readable", len(vals), len(m.model))
	}
	for i, v := range vals {
		if v != m.model[i] {
			t.Fatalf("view[%d] = %d, model has %d (state %s)", i, v, m.model[i], m.buf.State())
		}
	}
}

func (m *ringMachine) consume(t *rapid.T) {
	n := rapid.IntRange(0, m.buf.Capacity()+4).Draw(t, "amount")

	consumed := min(n, len(m.model))
	if n <= 0 {
		consumed = 0
	}
	m.reader.Consume(n)
	m.model = m.model[consumed:]
}

// check runs after every action: the ring's element accounting must
// agree with the model.
func (m *ringMachine) check(t *rapid.T) {
	if got := m.reader.Available(); got != len(m.model) {
		t.Fatalf("Available() = %d, model holds %d (state %s)", got, len(m.model), m.buf.State())
	}
}

func TestRing_ModelProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		capacity := rapid.IntRange(2, 64).Draw(t, "capacity")

		buf, err := New[int](capacity)
		if err != nil {
			t.Fatalf("create buffer: %v", err)
		}
		reader, writer, ok := buf.TakeReaderWriter()
		if !ok {
			t.Fatal("handles already taken on a fresh buffer")
		}

		m := &ringMachine{buf: buf, reader: reader, writer: writer}

		t.Repeat(map[string]func(*rapid.T){
			"prepareCommit":  m.prepareCommit,
			"prepareAbandon": m.prepareAbandon,
			"values":         m.values,
			"consume":        m.consume,
			"":               m.check,
		})
	})
}

// TestRing_DrainEquivalence feeds a random element sequence through
// random burst sizes and checks the drained output equals the input.
func TestRing_DrainEquivalence(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		capacity := rapid.IntRange(4, 32).Draw(t, "capacity")
		input := rapid.SliceOfN(rapid.Int(), 0, 256).Draw(t, "input")

		buf, err := New[int](capacity)
		if err != nil {
			t.Fatalf("create buffer: %v", err)
		}
		reader, writer, _ := buf.TakeReaderWriter()

		var output []int
		pushed := 0

		for pushed < len(input) || reader.Available() > 0 {
			if pushed < len(input) {
				want := rapid.IntRange(1, capacity/2).Draw(t, "burst")
				if remaining := len(input) - pushed; want > remaining {
					want = remaining
				}
				if span := writer.Prepare(want); len(span) > 0 {
					copy(span, input[pushed:pushed+len(span)])
					writer.Commit(len(span))
					pushed += len(span)
				}
			}

			if vals := reader.Values(); len(vals) > 0 {
				output = append(output, vals...)
				reader.Consume(len(vals))
			}
		}

		if len(output) != len(input) {
			t.Fatalf("drained %d elements, pushed %d", len(output), len(input))
		}
		for i := range input {
			if output[i] != input[i] {
				t.Fatalf("output[%d] = %d, want %d", i, output[i], input[i])
			}
		}
	})
}
