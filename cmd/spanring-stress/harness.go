package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/panjf2000/ants/v2"
	"golang.org/x/sync/errgroup"

	"github.com/c360/spanring"
	"github.com/c360/spanring/errors"
	"github.com/c360/spanring/metric"
	"github.com/c360/spanring/pkg/retry"
)

// harness owns the rings under test and the goroutine pool that drives
// them. Each ring gets exactly one producer job and one consumer job;
// the pool is sized so both can always run at once, otherwise a full
// ring with no scheduled consumer would stall the run.
type harness struct {
	cfg      *CLIConfig
	registry *metric.MetricsRegistry
	pool     *ants.Pool
	rings    []*ringRun
}

// ringRun is one ring plus its single-issuance handles.
type ringRun struct {
	name   string
	buffer *spanring.Buffer[uint64]
	reader *spanring.Reader[uint64]
	writer *spanring.Writer[uint64]
}

func newHarness(cfg *CLIConfig, registry *metric.MetricsRegistry) (*harness, error) {
	pool, err := ants.NewPool(cfg.Workers, ants.WithPreAlloc(true))
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}

	h := &harness{
		cfg:      cfg,
		registry: registry,
		pool:     pool,
		rings:    make([]*ringRun, 0, cfg.Rings),
	}

	for i := 0; i < cfg.Rings; i++ {
		name := fmt.Sprintf("ring-%d", i)

		buffer, err := spanring.New[uint64](cfg.Capacity,
			spanring.WithMetrics[uint64](registry, name))
		if err != nil {
			pool.Release()
			return nil, fmt.Errorf("create %s: %w", name, err)
		}

		reader, writer, ok := buffer.TakeReaderWriter()
		if !ok {
			pool.Release()
			return nil, errors.WrapInvalid(errors.ErrHandlesTaken,
				"harness", "newHarness", fmt.Sprintf("handle issuance for %s", name))
		}

		h.rings = append(h.rings, &ringRun{
			name:   name,
			buffer: buffer,
			reader: reader,
			writer: writer,
		})
	}

	return h, nil
}

// Run drives every ring to completion or the first failure.
func (h *harness) Run(ctx context.Context) error {
	h.registry.Metrics.RingsActive.Set(float64(len(h.rings)))
	defer h.registry.Metrics.RingsActive.Set(0)

	g, ctx := errgroup.WithContext(ctx)

	for _, r := range h.rings {
		r := r
		g.Go(func() error {
			return h.dispatch(func() error { return h.produce(ctx, r) })
		})
		g.Go(func() error {
			return h.dispatch(func() error { return h.consume(ctx, r) })
		})
	}

	return g.Wait()
}

// dispatch hands a job to the pool and waits for its result. Pool
// submission only fails when the pool is released or overloaded, which
// the workers >= 2x rings validation rules out.
func (h *harness) dispatch(job func() error) error {
	done := make(chan error, 1)
	if err := h.pool.Submit(func() { done <- job() }); err != nil {
		return fmt.Errorf("submit job: %w", err)
	}
	return <-done
}

// produce pushes a monotonically increasing sequence through the ring
// in randomly sized bursts, polling under backpressure when no
// contiguous span is available.
func (h *harness) produce(ctx context.Context, r *ringRun) error {
	target := uint64(h.cfg.Elements)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var seq uint64
	for seq < target {
		want := 1 + rng.Intn(h.cfg.Burst)
		if remaining := target - seq; uint64(want) > remaining {
			want = int(remaining)
		}

		var span []uint64
		if err := retry.Poll(ctx, retry.Spin(), func() bool {
			span = r.writer.Prepare(want)
			return len(span) > 0
		}); err != nil {
			return fmt.Errorf("producer %s at seq %d: %w", r.name, seq, err)
		}

		for i := range span {
			span[i] = seq + uint64(i)
		}
		r.writer.Commit(len(span))
		seq += uint64(len(span))
	}

	slog.Debug("Producer finished", "ring", r.name, "elements", seq)
	return nil
}

// consume drains the ring and verifies the sequence is unbroken. A gap
// or reordering is a fatal correctness failure, not a retryable one.
func (h *harness) consume(ctx context.Context, r *ringRun) error {
	target := uint64(h.cfg.Elements)
	verified := h.registry.Metrics.ElementsVerified.WithLabelValues(r.name)
	failures := h.registry.Metrics.VerificationErrors.WithLabelValues(r.name)

	var expect uint64
	for expect < target {
		var vals []uint64
		if err := retry.Poll(ctx, retry.Spin(), func() bool {
			vals = r.reader.Values()
			return len(vals) > 0
		}); err != nil {
			return fmt.Errorf("consumer %s at seq %d: %w", r.name, expect, err)
		}

		for i, v := range vals {
			if v != expect+uint64(i) {
				failures.Inc()
				return errors.WrapFatal(errors.ErrSequenceMismatch, "harness", "consume",
					fmt.Sprintf("verify %s: expected %d, got %d (state %s)",
						r.name, expect+uint64(i), v, r.buffer.State()))
			}
		}

		r.reader.Consume(len(vals))
		verified.Add(float64(len(vals)))
		expect += uint64(len(vals))
	}

	slog.Debug("Consumer finished", "ring", r.name, "elements", expect)
	return nil
}

// LogSummary reports per-ring statistics after the run.
func (h *harness) LogSummary(elapsed time.Duration) {
	var totalCommitted, totalConsumed int64

	for _, r := range h.rings {
		summary := r.buffer.Stats().Summary()
		totalCommitted += summary.CommittedElements
		totalConsumed += summary.ConsumedElements

		slog.Info("Ring statistics",
			"ring", r.name,
			"committed", summary.CommittedElements,
			"consumed", summary.ConsumedElements,
			"prepares", summary.Prepares,
			"prepare_refusals", summary.PrepareRefusals,
			"refusal_rate", fmt.Sprintf("%.3f", summary.RefusalRate),
			"empty_value_calls", summary.EmptyValueCalls,
			"max_occupancy", summary.MaxOccupancy,
			"utilization", fmt.Sprintf("%.3f", r.buffer.Stats().Utilization(int64(r.buffer.Capacity()))),
		)
	}

	perSecond := float64(totalConsumed) / elapsed.Seconds()
	slog.Info("Run totals",
		"rings", len(h.rings),
		"committed", totalCommitted,
		"consumed", totalConsumed,
		"elapsed", elapsed.Round(time.Millisecond).String(),
		"elements_per_second", fmt.Sprintf("%.0f", perSecond))
}

// Close releases the worker pool.
func (h *harness) Close() {
	h.pool.Release()
}
