package spanring

import (
	"sync/atomic"
	"time"
)

// Statistics tracks ring activity with lock-free atomic counters. The
// producer and consumer update disjoint counters, so collection adds a
// single atomic increment per operation and never introduces a lock on
// the hot path.
type Statistics struct {
	prepares          atomic.Int64
	prepareRefusals   atomic.Int64
	commits           atomic.Int64
	committedElements atomic.Int64
	abandons          atomic.Int64
	valueCalls        atomic.Int64
	emptyValueCalls   atomic.Int64
	consumes          atomic.Int64
	consumedElements  atomic.Int64
	maxOccupancy      atomic.Int64

	// Unix nanoseconds of the last Reset (or construction), kept atomic
	// so Reset stays lock-free like everything else here.
	startNanos atomic.Int64
}

// NewStatistics creates a new statistics tracker.
func NewStatistics() *Statistics {
	s := &Statistics{}
	s.startNanos.Store(time.Now().UnixNano())
	return s
}

func (s *Statistics) recordPrepare() {
	s.prepares.Add(1)
}

func (s *Statistics) recordPrepareRefusal() {
	s.prepareRefusals.Add(1)
}

func (s *Statistics) recordCommit(elements, occupancy int64) {
	s.commits.Add(1)
	s.committedElements.Add(elements)

	// CAS loop keeps the high-water mark without a mutex.
	for {
		cur := s.maxOccupancy.Load()
		if occupancy <= cur || s.maxOccupancy.CompareAndSwap(cur, occupancy) {
			return
		}
	}
}

func (s *Statistics) recordAbandon() {
	s.abandons.Add(1)
}

func (s *Statistics) recordValues(empty bool) {
	s.valueCalls.Add(1)
	if empty {
		s.emptyValueCalls.Add(1)
	}
}

func (s *Statistics) recordConsume(elements int64) {
	s.consumes.Add(1)
	s.consumedElements.Add(elements)
}

// Prepares returns the number of successful reservations.
func (s *Statistics) Prepares() int64 {
	return s.prepares.Load()
}

// PrepareRefusals returns the number of Prepare calls that returned an
// empty view (outstanding reservation or no room).
func (s *Statistics) PrepareRefusals() int64 {
	return s.prepareRefusals.Load()
}

// Commits returns the number of Commit calls that published data.
func (s *Statistics) Commits() int64 {
	return s.commits.Load()
}

// CommittedElements returns the total number of elements published.
func (s *Statistics) CommittedElements() int64 {
	return s.committedElements.Load()
}

// Abandons returns the number of reservations discarded unpublished.
func (s *Statistics) Abandons() int64 {
	return s.abandons.Load()
}

// ValueCalls returns the total number of Values calls.
func (s *Statistics) ValueCalls() int64 {
	return s.valueCalls.Load()
}

// EmptyValueCalls returns the number of Values calls that found no data.
func (s *Statistics) EmptyValueCalls() int64 {
	return s.emptyValueCalls.Load()
}

// Consumes returns the number of Consume calls that advanced the read cursor.
func (s *Statistics) Consumes() int64 {
	return s.consumes.Load()
}

// ConsumedElements returns the total number of elements consumed.
func (s *Statistics) ConsumedElements() int64 {
	return s.consumedElements.Load()
}

// MaxOccupancy returns the largest committed-unconsumed element count
// observed at commit time.
func (s *Statistics) MaxOccupancy() int64 {
	return s.maxOccupancy.Load()
}

// WriteThroughput returns the average number of committed elements per second.
func (s *Statistics) WriteThroughput() float64 {
	elapsed := s.Uptime()
	if elapsed <= 0 {
		return 0.0
	}
	return float64(s.CommittedElements()) / elapsed.Seconds()
}

// ReadThroughput returns the average number of consumed elements per second.
func (s *Statistics) ReadThroughput() float64 {
	elapsed := s.Uptime()
	if elapsed <= 0 {
		return 0.0
	}
	return float64(s.ConsumedElements()) / elapsed.Seconds()
}

// RefusalRate returns the fraction of Prepare calls that were refused
// (0.0 to 1.0).
func (s *Statistics) RefusalRate() float64 {
	attempts := s.Prepares() + s.PrepareRefusals()
	if attempts == 0 {
		return 0.0
	}
	return float64(s.PrepareRefusals()) / float64(attempts)
}

// Utilization returns the peak buffer utilization as a fraction of
// capacity (0.0 to 1.0).
func (s *Statistics) Utilization(capacity int64) float64 {
	if capacity == 0 {
		return 0.0
	}
	return float64(s.MaxOccupancy()) / float64(capacity)
}

// Uptime returns how long the buffer has been running since
// construction or the last Reset.
func (s *Statistics) Uptime() time.Duration {
	return time.Duration(time.Now().UnixNano() - s.startNanos.Load())
}

// Reset resets all statistics to zero.
func (s *Statistics) Reset() {
	s.prepares.Store(0)
	s.prepareRefusals.Store(0)
	s.commits.Store(0)
	s.committedElements.Store(0)
	s.abandons.Store(0)
	s.valueCalls.Store(0)
	s.emptyValueCalls.Store(0)
	s.consumes.Store(0)
	s.consumedElements.Store(0)
	s.maxOccupancy.Store(0)
	s.startNanos.Store(time.Now().UnixNano())
}

// StatsSummary is a point-in-time snapshot of all statistics.
type StatsSummary struct {
	Prepares          int64         `json:"prepares"`
	PrepareRefusals   int64         `json:"prepare_refusals"`
	Commits           int64         `json:"commits"`
	CommittedElements int64         `json:"committed_elements"`
	Abandons          int64         `json:"abandons"`
	ValueCalls        int64         `json:"value_calls"`
	EmptyValueCalls   int64         `json:"empty_value_calls"`
	Consumes          int64         `json:"consumes"`
	ConsumedElements  int64         `json:"consumed_elements"`
	MaxOccupancy      int64         `json:"max_occupancy"`
	WriteThroughput   float64       `json:"write_throughput"`
	ReadThroughput    float64       `json:"read_throughput"`
	RefusalRate       float64       `json:"refusal_rate"`
	Uptime            time.Duration `json:"uptime"`
}

// Summary returns a snapshot of all statistics.
func (s *Statistics) Summary() StatsSummary {
	return StatsSummary{
		Prepares:          s.Prepares(),
		PrepareRefusals:   s.PrepareRefusals(),
		Commits:           s.Commits(),
		CommittedElements: s.CommittedElements(),
		Abandons:          s.Abandons(),
		ValueCalls:        s.ValueCalls(),
		EmptyValueCalls:   s.EmptyValueCalls(),
		Consumes:          s.Consumes(),
		ConsumedElements:  s.ConsumedElements(),
		MaxOccupancy:      s.MaxOccupancy(),
		WriteThroughput:   s.WriteThroughput(),
		ReadThroughput:    s.ReadThroughput(),
		RefusalRate:       s.RefusalRate(),
		Uptime:            s.Uptime(),
	}
}
