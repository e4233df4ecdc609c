package outbox

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

type Config struct {
	PollInterval time.Duration
	BatchSize    int
	MaxRetries   int
	RetryDelay   time.Duration
}

func DefaultConfig() Config {
	return Config{
		PollInterval: 5 * time.Second,
		BatchSize:    100,
		MaxRetries:   3,
		RetryDelay:   time.Second,
	}
}

// Worker drains the outbox into a publisher, on a ticker or on demand
type Worker struct {
	repo      Repository
	publisher EventPublisher
	config    Config
	clock     clockwork.Clock
	metrics   MetricsCollector

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup
}

type WorkerOption func(*Worker)

func WithClock(clock clockwork.Clock) WorkerOption {
	return func(w *Worker) { w.clock = clock }
}

func WithMetrics(metrics MetricsCollector) WorkerOption {
	return func(w *Worker) { w.metrics = metrics }
}

func NewWorker(repo Repository, publisher EventPublisher, cfg Config, opts ...WorkerOption) *Worker {
	w := &Worker{
		repo:      repo,
		publisher: publisher,
		config:    cfg,
		clock:     clockwork.NewRealClock(),
		metrics:   NoOpMetricsCollector{},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("outbox worker already running")
	}
	w.running = true
	w.stopChan = make(chan struct{})
	w.mu.Unlock()

	w.wg.Add(1)
	go w.run(ctx)

	log.Info().
		Dur("poll_interval", w.config.PollInterval).
		Int("batch_size", w.config.BatchSize).
		Msg("outbox worker started")
	return nil
}

func (w *Worker) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return fmt.Errorf("outbox worker not running")
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopChan)
	w.wg.Wait()

	log.Info().Msg("outbox worker stopped")
	return nil
}

func (w *Worker) run(ctx context.Context) {
	defer w.wg.Done()

	ticker := w.clock.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	// Process immediately on start
	w.processOutbox(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case <-ticker.Chan():
			w.processOutbox(ctx)
		}
	}
}

func (w *Worker) processOutbox(ctx context.Context) {
	if _, err := w.DrainOnce(ctx); err != nil {
		log.Error().Err(err).Msg("failed to drain outbox")
	}
}

// DrainOnce publishes one batch of unsent events and marks the successful ones sent.
// Events that exhaust their retries stay in the outbox for the next pass.
func (w *Worker) DrainOnce(ctx context.Context) (int, error) {
	published, _, err := w.processBatch(ctx, nil)
	return published, err
}

// Drain publishes until every unsent event has been attempted once. Events that
// fail are skipped for the rest of the drain so later events still go out.
func (w *Worker) Drain(ctx context.Context) (int, error) {
	failed := make(map[uuid.UUID]struct{})
	total := 0
	for {
		n, attempted, err := w.processBatch(ctx, failed)
		total += n
		if err != nil || attempted == 0 {
			return total, err
		}
	}
}

// processBatch publishes up to BatchSize unsent events not in skip. Failed event
// IDs are added to skip when it is non-nil.
func (w *Worker) processBatch(ctx context.Context, skip map[uuid.UUID]struct{}) (published, attempted int, err error) {
	start := w.clock.Now()

	fetched, err := w.repo.FetchUnsent(ctx, w.config.BatchSize+len(skip))
	if err != nil {
		return 0, 0, fmt.Errorf("fetch unsent events: %w", err)
	}
	events := make([]Event, 0, len(fetched))
	for _, e := range fetched {
		if _, ok := skip[e.ID]; !ok {
			events = append(events, e)
		}
	}
	if len(events) > w.config.BatchSize {
		events = events[:w.config.BatchSize]
	}
	if len(events) == 0 {
		w.metrics.RecordOutboxLag(len(fetched))
		return 0, 0, nil
	}

	log.Debug().Int("count", len(events)).Msg("processing outbox events")

	var successfulIDs []uuid.UUID
	for _, event := range events {
		if err := w.publishWithRetry(ctx, event); err != nil {
			log.Error().
				Err(err).
				Str("event_id", event.ID.String()).
				Str("event_type", event.EventType).
				Msg("failed to publish event")
			if skip != nil {
				skip[event.ID] = struct{}{}
			}
			continue
		}
		successfulIDs = append(successfulIDs, event.ID)
	}

	if len(successfulIDs) > 0 {
		if err := w.repo.MarkSent(ctx, successfulIDs, w.clock.Now().UTC()); err != nil {
			return 0, len(events), fmt.Errorf("mark events sent: %w", err)
		}
	}

	w.metrics.RecordBatchProcessed(len(events), w.clock.Since(start))
	w.metrics.RecordOutboxLag(len(events) - len(successfulIDs))

	log.Info().
		Int("total", len(events)).
		Int("successful", len(successfulIDs)).
		Msg("processed outbox events")
	return len(successfulIDs), len(events), nil
}

func (w *Worker) publishWithRetry(ctx context.Context, event Event) error {
	var lastErr error

	for attempt := 0; attempt <= w.config.MaxRetries; attempt++ {
		if attempt > 0 && w.config.RetryDelay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-w.clock.After(w.config.RetryDelay * time.Duration(attempt)):
			}
		}

		if err := w.publisher.Publish(ctx, event); err != nil {
			lastErr = err
			w.metrics.RecordPublishAttempt(event.EventType, attempt+1, false)
			log.Warn().
				Err(err).
				Str("event_id", event.ID.String()).
				Int("attempt", attempt+1).
				Msg("failed to publish event, retrying")
			continue
		}

		w.metrics.RecordPublishAttempt(event.EventType, attempt+1, true)
		return nil
	}

	return fmt.Errorf("failed after %d attempts: %w", w.config.MaxRetries+1, lastErr)
}
