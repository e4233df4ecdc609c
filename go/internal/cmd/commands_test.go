package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServices(t *testing.T, cfg Config) *Services {
	t.Helper()
	svc, err := setupServices(context.Background(), cfg, clockwork.NewFakeClock())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, svc.Close()) })
	return svc
}

func demoConfig() Config {
	return Config{RosterSource: "demo", Season: 2025, LotterySeed: 7, OutboxStore: "memory"}
}

func TestStatusAndRoster(t *testing.T) {
	svc := testServices(t, demoConfig())
	var out bytes.Buffer

	require.NoError(t, runCommands(context.Background(), svc, &out, []string{"status", "roster", "team alpha"}))

	got := out.String()
	assert.Contains(t, got, "La Liga Lebowski - 2025")
	assert.Contains(t, got, "Salary Cap: $1,006.00")
	assert.Contains(t, got, "Teams: 4")
	assert.Contains(t, got, "Team Delta")
	assert.Contains(t, got, "Team Alpha Roster")
	assert.Contains(t, got, "Josh Allen")
	assert.Contains(t, got, "Used: $140.00")
}

func TestAdvanceThenDraftOrder(t *testing.T) {
	svc := testServices(t, demoConfig())
	var out bytes.Buffer
	ctx := context.Background()

	require.NoError(t, runCommands(ctx, svc, &out, []string{"draft-order"}))
	assert.Contains(t, out.String(), "Draft order not set")

	out.Reset()
	require.NoError(t, runCommands(ctx, svc, &out, []string{"advance", "holdouts", "draft-order"}))

	got := out.String()
	assert.Contains(t, got, "Advancing from 2025 season...")
	assert.Contains(t, got, "Season advanced to 2026")
	assert.Contains(t, got, "Salary cap increased from $1,006.00 to $1,056.30")
	assert.Contains(t, got, "No holdout situations detected")
	assert.Contains(t, got, "1st")
	assert.Contains(t, got, "4th")

	require.NoError(t, svc.Flush(ctx))
	snap := svc.Metrics.Snapshot()
	// SeasonAdvanced plus DraftOrderSet
	assert.Equal(t, int64(2), snap.Published)
	assert.Zero(t, snap.Failed)
}

func TestExtend(t *testing.T) {
	svc := testServices(t, demoConfig())
	var out bytes.Buffer

	require.NoError(t, runCommands(context.Background(), svc, &out, []string{"extend", "Josh Allen", "2"}))
	assert.Contains(t, out.String(), "Salary: $50.00 -> $60.00 (+$10.00)")
	assert.Contains(t, out.String(), "Contract: 5 years remaining")

	err := runCommands(context.Background(), svc, &out, []string{"extend", "Josh Allen", "2"})
	assert.ErrorContains(t, err, "cannot extend contract")
}

func TestTag(t *testing.T) {
	svc := testServices(t, demoConfig())
	var out bytes.Buffer
	ctx := context.Background()

	// QB average is (50+90)/2
	require.NoError(t, runCommands(ctx, svc, &out, []string{"tag", "Josh Allen", "franchise", "roster", "Team Alpha"}))
	assert.Contains(t, out.String(), "Josh Allen franchise tagged: salary +$20.00")
	assert.Contains(t, out.String(), "Used: $160.00")

	err := runCommands(ctx, svc, &out, []string{"tag", "Josh Allen", "transition"})
	assert.ErrorContains(t, err, "already FRANCHISE tagged")

	err = runCommands(ctx, svc, &out, []string{"tag", "Lamar Jackson", "exclusive"})
	assert.ErrorContains(t, err, "invalid contract tag")

	require.NoError(t, svc.Flush(ctx))
	assert.EqualValues(t, 1, svc.Metrics.Snapshot().Published)
}

func TestAdvanceScoresRecordedStats(t *testing.T) {
	svc := testServices(t, demoConfig())
	var out bytes.Buffer

	require.NoError(t, runCommands(context.Background(), svc, &out, []string{"advance", "roster", "Team Alpha"}))
	// 29*4 + 4306/25 - 18*2 + 15*6 + 524/10
	assert.Contains(t, out.String(), "394.6")
}

func TestRunCommandsErrors(t *testing.T) {
	svc := testServices(t, demoConfig())
	var out bytes.Buffer
	ctx := context.Background()

	assert.ErrorContains(t, runCommands(ctx, svc, &out, []string{"trade"}), `unknown command "trade"`)
	assert.ErrorContains(t, runCommands(ctx, svc, &out, []string{"extend", "Josh Allen"}), "usage: extend player years")
	assert.ErrorContains(t, runCommands(ctx, svc, &out, []string{"extend", "Josh Allen", "two"}), "invalid years")
	assert.ErrorContains(t, runCommands(ctx, svc, &out, []string{"roster", "Nobody"}), "team Nobody not found")
	assert.ErrorContains(t, runCommands(ctx, svc, &out, []string{"resolve-holdout", "Josh Allen", "accept"}), "not currently holding out")
}

func TestSQLiteOutbox(t *testing.T) {
	cfg := demoConfig()
	cfg.OutboxStore = "sqlite"
	cfg.OutboxPath = filepath.Join(t.TempDir(), "outbox.db")
	svc := testServices(t, cfg)
	ctx := context.Background()

	require.NoError(t, runCommands(ctx, svc, &bytes.Buffer{}, []string{"advance"}))

	events, err := svc.Outbox.FetchUnsentEvents(ctx, 10)
	require.NoError(t, err)
	assert.NotEmpty(t, events)

	require.NoError(t, svc.Flush(ctx))
	events, err = svc.Outbox.FetchUnsentEvents(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestUnknownOutboxStore(t *testing.T) {
	cfg := demoConfig()
	cfg.OutboxStore = "redis"
	_, err := setupServices(context.Background(), cfg, clockwork.NewFakeClock())
	assert.ErrorContains(t, err, `unknown outbox store "redis"`)
}

func TestRelayPublishesUntilCanceled(t *testing.T) {
	svc := testServices(t, demoConfig())
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, runCommands(ctx, svc, &bytes.Buffer{}, []string{"advance"}))

	done := make(chan error, 1)
	var out bytes.Buffer
	go func() { done <- runCommands(ctx, svc, &out, []string{"relay"}) }()

	require.Eventually(t, func() bool {
		return svc.Metrics.Snapshot().Published == 2
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("relay did not stop")
	}
}
