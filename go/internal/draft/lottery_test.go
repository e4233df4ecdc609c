package draft

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/mcdev12/laliga/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func standings(wins ...int) []Entry {
	entries := make([]Entry, len(wins))
	for i, w := range wins {
		entries[i] = Entry{TeamID: uuid.New(), TeamName: fmt.Sprintf("Team %d", i+1), Wins: w}
	}
	return entries
}

func names(picks []models.DraftPick) []string {
	out := make([]string, len(picks))
	for i, p := range picks {
		out[i] = p.TeamName
	}
	return out
}

func TestRookieOrderDeterministic(t *testing.T) {
	entries := standings(0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11)

	first := RookieOrder(entries, DefaultBalls, rand.New(rand.NewSource(42)))
	second := RookieOrder(entries, DefaultBalls, rand.New(rand.NewSource(42)))

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("same seed produced different orders (-first +second):\n%s", diff)
	}
}

func TestRookieOrderShape(t *testing.T) {
	entries := standings(0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11)
	lotteryTeams := map[string]bool{}
	for _, e := range entries[:6] {
		lotteryTeams[e.TeamName] = true
	}

	for seed := int64(0); seed < 50; seed++ {
		order := RookieOrder(entries, DefaultBalls, rand.New(rand.NewSource(seed)))
		require.Len(t, order, 12)

		for i, p := range order {
			assert.Equal(t, i+1, p.OverallPick)
		}

		drawn := map[string]bool{}
		for _, p := range order[:6] {
			assert.True(t, p.ViaLottery)
			assert.True(t, lotteryTeams[p.TeamName], "seed %d: %s is not a lottery team", seed, p.TeamName)
			drawn[p.TeamName] = true
		}
		assert.Len(t, drawn, 6)

		assert.Equal(t,
			[]string{"Team 7", "Team 8", "Team 9", "Team 10", "Team 11", "Team 12"},
			names(order[6:]))
		assert.Equal(t, "Team 12", order[11].TeamName, "best record picks last")
	}
}

func TestRookieOrderUnsortedInput(t *testing.T) {
	entries := standings(11, 3, 7, 0, 9, 1, 10, 2, 8, 4, 6, 5)

	order := RookieOrder(entries, DefaultBalls, rand.New(rand.NewSource(7)))

	for _, p := range order[:6] {
		assert.Less(t, p.Wins, 6)
	}
	wins := make([]int, 0, 6)
	for _, p := range order[6:] {
		wins = append(wins, p.Wins)
	}
	assert.Equal(t, []int{6, 7, 8, 9, 10, 11}, wins)
	assert.Equal(t, 11, entries[0].Wins, "input must not be reordered")
}

func TestRookieOrderFewerTeamsThanBalls(t *testing.T) {
	entries := standings(4, 2, 9)

	order := RookieOrder(entries, DefaultBalls, rand.New(rand.NewSource(1)))

	require.Len(t, order, 3)
	for _, p := range order {
		assert.True(t, p.ViaLottery)
	}
	assert.ElementsMatch(t, []string{"Team 1", "Team 2", "Team 3"}, names(order))
}

func TestRookieOrderEmpty(t *testing.T) {
	assert.Empty(t, RookieOrder(nil, DefaultBalls, rand.New(rand.NewSource(1))))
}

func TestRookieOrderZeroBalls(t *testing.T) {
	entries := standings(3, 1, 2)

	order := RookieOrder(entries, []int{0, 0}, rand.New(rand.NewSource(1)))

	assert.Equal(t, []string{"Team 2", "Team 3", "Team 1"}, names(order))
}

func TestRookieOrderFavorsWorstTeam(t *testing.T) {
	entries := standings(0, 1, 2, 3, 4, 5, 6, 7)
	rng := rand.New(rand.NewSource(2024))

	firstPicks := map[string]int{}
	for range 2000 {
		order := RookieOrder(entries, DefaultBalls, rng)
		firstPicks[order[0].TeamName]++
	}

	// 30 of 100 balls against 6 of 100
	assert.Greater(t, firstPicks["Team 1"], firstPicks["Team 6"]*2)
	assert.Zero(t, firstPicks["Team 7"])
	assert.Zero(t, firstPicks["Team 8"])
}
