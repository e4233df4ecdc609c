package outbox

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
)

// MetricsCollector defines the interface for collecting outbox metrics
type MetricsCollector interface {
	RecordEventProcessed(eventType string, success bool, duration time.Duration)
	RecordBatchProcessed(count int, duration time.Duration)
	RecordOutboxLag(lag int)
	RecordPublishAttempt(eventType string, attempt int, success bool)
}

// NoOpMetricsCollector is a no-op implementation for when metrics aren't needed
type NoOpMetricsCollector struct{}

func (NoOpMetricsCollector) RecordEventProcessed(string, bool, time.Duration) {}
func (NoOpMetricsCollector) RecordBatchProcessed(int, time.Duration) {}
func (NoOpMetricsCollector) RecordOutboxLag(int) {}
func (NoOpMetricsCollector) RecordPublishAttempt(string, int, bool) {}

// Counters is an in-process MetricsCollector
type Counters struct {
	published atomic.Int64
	failed    atomic.Int64
	attempts  atomic.Int64
	batches   atomic.Int64
	lag       atomic.Int64
}

// CounterSnapshot is a point-in-time copy of Counters
type CounterSnapshot struct {
	Published int64
	Failed    int64
	Attempts  int64
	Batches   int64
	Lag       int64
}

func (c *Counters) RecordEventProcessed(_ string, success bool, _ time.Duration) {
	if success {
		c.published.Add(1)
	} else {
		c.failed.Add(1)
	}
}

func (c *Counters) RecordBatchProcessed(int, time.Duration) { c.batches.Add(1) }
func (c *Counters) RecordOutboxLag(lag int) { c.lag.Store(int64(lag)) }
func (c *Counters) RecordPublishAttempt(string, int, bool) { c.attempts.Add(1) }

func (c *Counters) Snapshot() CounterSnapshot {
	return CounterSnapshot{
		Published: c.published.Load(),
		Failed:    c.failed.Load(),
		Attempts:  c.attempts.Load(),
		Batches:   c.batches.Load(),
		Lag:       c.lag.Load(),
	}
}

// MetricPublisher wraps an EventPublisher with metrics collection
type MetricPublisher struct {
	publisher EventPublisher
	metrics   MetricsCollector
	clock     clockwork.Clock
}

func NewMetricPublisher(publisher EventPublisher, metrics MetricsCollector, clock clockwork.Clock) *MetricPublisher {
	return &MetricPublisher{
		publisher: publisher,
		metrics:   metrics,
		clock:     clock,
	}
}

func (p *MetricPublisher) Publish(ctx context.Context, event Event) error {
	start := p.clock.Now()

	err := p.publisher.Publish(ctx, event)

	p.metrics.RecordEventProcessed(event.EventType, err == nil, p.clock.Since(start))
	return err
}
