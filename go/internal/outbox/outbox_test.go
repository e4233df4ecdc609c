package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu        sync.Mutex
	failFirst int
	calls     int
	published []Event
}

func (p *recordingPublisher) Publish(_ context.Context, event Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls++
	if p.calls <= p.failFirst {
		return errors.New("broker unavailable")
	}
	p.published = append(p.published, event)
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published)
}

type seasonAdvanced struct {
	SeasonYear int `json:"season_year"`
}

func noRetryConfig() Config {
	return Config{PollInterval: time.Minute, BatchSize: 10, MaxRetries: 2}
}

func TestAppRecord(t *testing.T) {
	repo := NewMemoryRepository()
	app := NewApp(repo, clockwork.NewFakeClockAt(epoch))
	leagueID := uuid.New()

	err := app.Record(context.Background(), leagueID,
		Message{EventType: "SeasonAdvanced", Payload: seasonAdvanced{SeasonYear: 2027}},
		Message{EventType: "SalaryCapRaised", Payload: map[string]float64{"new_cap": 1056.3}},
	)
	require.NoError(t, err)

	events := repo.All()
	require.Len(t, events, 2)
	assert.Equal(t, "SeasonAdvanced", events[0].EventType)
	assert.Equal(t, leagueID, events[0].LeagueID)
	assert.Equal(t, epoch, events[0].CreatedAt)
	assert.Nil(t, events[0].SentAt)
	assert.JSONEq(t, `{"season_year":2027}`, string(events[0].Payload))
	assert.NotEqual(t, events[0].ID, events[1].ID)
}

func TestAppRecordValidation(t *testing.T) {
	repo := NewMemoryRepository()
	app := NewApp(repo, clockwork.NewFakeClockAt(epoch))

	err := app.Record(context.Background(), uuid.New(), Message{Payload: seasonAdvanced{}})
	assert.Error(t, err)

	err = app.Record(context.Background(), uuid.New(), Message{EventType: "Empty", Payload: nil})
	assert.ErrorContains(t, err, "payload cannot be empty")

	err = app.Record(context.Background(), uuid.New(),
		Message{EventType: "Good", Payload: seasonAdvanced{}},
		Message{EventType: "Bad", Payload: func() {}},
	)
	assert.Error(t, err)
	assert.Empty(t, repo.All(), "a failed batch stores nothing")

	_, err = app.FetchUnsentEvents(context.Background(), 0)
	assert.Error(t, err)
}

func TestWorkerDrainOnce(t *testing.T) {
	clock := clockwork.NewFakeClockAt(epoch)
	repo := NewMemoryRepository()
	app := NewApp(repo, clock)
	pub := &recordingPublisher{}
	counters := &Counters{}
	w := NewWorker(repo, pub, noRetryConfig(), WithClock(clock), WithMetrics(counters))

	require.NoError(t, app.Record(context.Background(), uuid.New(),
		Message{EventType: "A", Payload: seasonAdvanced{SeasonYear: 1}},
		Message{EventType: "B", Payload: seasonAdvanced{SeasonYear: 2}},
	))

	n, err := w.DrainOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, pub.count())

	for _, e := range repo.All() {
		require.NotNil(t, e.SentAt)
		assert.Equal(t, epoch, *e.SentAt)
	}

	n, err = w.DrainOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	snap := counters.Snapshot()
	assert.EqualValues(t, 2, snap.Attempts)
	assert.EqualValues(t, 1, snap.Batches)
	assert.EqualValues(t, 0, snap.Lag)
}

func TestWorkerRetries(t *testing.T) {
	repo := NewMemoryRepository()
	app := NewApp(repo, clockwork.NewFakeClockAt(epoch))
	pub := &recordingPublisher{failFirst: 2}
	w := NewWorker(repo, pub, noRetryConfig())

	require.NoError(t, app.Record(context.Background(), uuid.New(), Message{EventType: "A", Payload: seasonAdvanced{}}))

	n, err := w.DrainOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 3, pub.calls)
}

func TestWorkerLeavesFailedEventsUnsent(t *testing.T) {
	repo := NewMemoryRepository()
	app := NewApp(repo, clockwork.NewFakeClockAt(epoch))
	pub := &recordingPublisher{failFirst: 100}
	counters := &Counters{}
	w := NewWorker(repo, pub, noRetryConfig(), WithMetrics(counters))

	require.NoError(t, app.Record(context.Background(), uuid.New(), Message{EventType: "A", Payload: seasonAdvanced{}}))

	n, err := w.Drain(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Nil(t, repo.All()[0].SentAt)
	assert.EqualValues(t, 1, counters.Snapshot().Lag)

	unsent, err := app.FetchUnsentEvents(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, unsent, 1)
}

type rejectingPublisher struct {
	recordingPublisher
	reject string
}

func (p *rejectingPublisher) Publish(ctx context.Context, event Event) error {
	if event.EventType == p.reject {
		return errors.New("payload rejected")
	}
	return p.recordingPublisher.Publish(ctx, event)
}

func TestWorkerDrainSkipsPastFailingBatch(t *testing.T) {
	repo := NewMemoryRepository()
	app := NewApp(repo, clockwork.NewFakeClockAt(epoch))
	pub := &rejectingPublisher{reject: "Bad"}
	cfg := noRetryConfig()
	cfg.BatchSize = 2
	w := NewWorker(repo, pub, cfg)

	require.NoError(t, app.Record(context.Background(), uuid.New(),
		Message{EventType: "Bad", Payload: seasonAdvanced{}},
		Message{EventType: "Bad", Payload: seasonAdvanced{}},
		Message{EventType: "A", Payload: seasonAdvanced{}},
		Message{EventType: "B", Payload: seasonAdvanced{}},
		Message{EventType: "C", Payload: seasonAdvanced{}},
	))

	n, err := w.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, pub.count())

	unsent, err := app.FetchUnsentEvents(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, unsent, 2)
	for _, e := range unsent {
		assert.Equal(t, "Bad", e.EventType)
	}
}

func TestWorkerStartStop(t *testing.T) {
	clock := clockwork.NewFakeClockAt(epoch)
	repo := NewMemoryRepository()
	app := NewApp(repo, clock)
	pub := &recordingPublisher{}
	w := NewWorker(repo, pub, noRetryConfig(), WithClock(clock))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, app.Record(ctx, uuid.New(), Message{EventType: "A", Payload: seasonAdvanced{}}))
	require.NoError(t, w.Start(ctx))
	assert.Error(t, w.Start(ctx))

	require.Eventually(t, func() bool { return pub.count() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, app.Record(ctx, uuid.New(), Message{EventType: "B", Payload: seasonAdvanced{}}))
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(time.Minute)

	require.Eventually(t, func() bool { return pub.count() == 2 }, time.Second, 5*time.Millisecond)

	require.NoError(t, w.Stop())
	assert.Error(t, w.Stop())
}

func TestMetricPublisher(t *testing.T) {
	counters := &Counters{}
	clock := clockwork.NewFakeClockAt(epoch)

	ok := NewMetricPublisher(&recordingPublisher{}, counters, clock)
	require.NoError(t, ok.Publish(context.Background(), Event{EventType: "A"}))

	failing := NewMetricPublisher(&recordingPublisher{failFirst: 1}, counters, clock)
	require.Error(t, failing.Publish(context.Background(), Event{EventType: "A"}))

	snap := counters.Snapshot()
	assert.EqualValues(t, 1, snap.Published)
	assert.EqualValues(t, 1, snap.Failed)
}

func TestNewMsg(t *testing.T) {
	cfg := DefaultJetStreamConfig()
	event := Event{
		ID:        uuid.New(),
		LeagueID:  uuid.New(),
		EventType: "SeasonAdvanced",
		Payload:   json.RawMessage(`{"season_year":2027}`),
	}

	msg, err := newMsg(cfg, event, epoch)
	require.NoError(t, err)

	assert.Equal(t, "laliga.events.SeasonAdvanced", msg.Subject)
	assert.Equal(t, event.ID.String(), msg.Header.Get("Event-ID"))
	assert.Equal(t, event.LeagueID.String(), msg.Header.Get("League-ID"))
	assert.Equal(t, "SeasonAdvanced", msg.Header.Get("Event-Type"))

	var env envelope
	require.NoError(t, json.Unmarshal(msg.Data, &env))
	assert.Equal(t, event.ID.String(), env.EventID)
	assert.Equal(t, epoch, env.Timestamp)
	assert.JSONEq(t, `{"season_year":2027}`, string(env.Payload))
}

func TestSQLiteRepository(t *testing.T) {
	repo, err := OpenSQLite(filepath.Join(t.TempDir(), "outbox.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	ctx := context.Background()
	leagueID := uuid.New()
	first := Event{ID: uuid.New(), LeagueID: leagueID, EventType: "A", Payload: json.RawMessage(`{"n":1}`), CreatedAt: epoch}
	second := Event{ID: uuid.New(), LeagueID: leagueID, EventType: "B", Payload: json.RawMessage(`{"n":2}`), CreatedAt: epoch.Add(time.Second)}

	require.NoError(t, repo.Insert(ctx, []Event{second, first}))

	unsent, err := repo.FetchUnsent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, unsent, 2)
	assert.Equal(t, first.ID, unsent[0].ID)
	assert.Equal(t, leagueID, unsent[0].LeagueID)
	assert.Equal(t, epoch, unsent[0].CreatedAt)
	assert.JSONEq(t, `{"n":1}`, string(unsent[0].Payload))
	assert.Nil(t, unsent[0].SentAt)

	limited, err := repo.FetchUnsent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	require.NoError(t, repo.MarkSent(ctx, []uuid.UUID{first.ID}, epoch.Add(time.Hour)))

	unsent, err = repo.FetchUnsent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, unsent, 1)
	assert.Equal(t, second.ID, unsent[0].ID)

	err = repo.Insert(ctx, []Event{first})
	assert.Error(t, err, "duplicate ids are rejected")
}

func TestMemoryRepositoryDuplicate(t *testing.T) {
	repo := NewMemoryRepository()
	e := Event{ID: uuid.New(), EventType: "A"}

	require.NoError(t, repo.Insert(context.Background(), []Event{e}))
	assert.Error(t, repo.Insert(context.Background(), []Event{e}))
}

type fakeNotifier struct {
	ch     chan *pq.Notification
	mu     sync.Mutex
	closed bool
}

func (n *fakeNotifier) NotificationChannel() <-chan *pq.Notification { return n.ch }
func (n *fakeNotifier) Ping() error { return nil }

func (n *fakeNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	return nil
}

func TestListenerDrainsOnNotification(t *testing.T) {
	clock := clockwork.NewFakeClockAt(epoch)
	repo := NewMemoryRepository()
	app := NewApp(repo, clock)
	pub := &recordingPublisher{}
	w := NewWorker(repo, pub, noRetryConfig(), WithClock(clock))
	n := &fakeNotifier{ch: make(chan *pq.Notification)}
	l := newListener(n, w, DefaultListenerConfig(), clock)

	require.NoError(t, app.Record(context.Background(), uuid.New(), Message{EventType: "Before", Payload: seasonAdvanced{}}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	require.Eventually(t, func() bool { return pub.count() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, app.Record(context.Background(), uuid.New(), Message{EventType: "After", Payload: seasonAdvanced{}}))
	n.ch <- &pq.Notification{Channel: NotifyChannel, Extra: uuid.NewString()}
	require.Eventually(t, func() bool { return pub.count() == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	n.mu.Lock()
	assert.True(t, n.closed)
	n.mu.Unlock()
}
