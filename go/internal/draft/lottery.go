// Package draft computes the rookie draft order from final standings.
package draft

import (
	"math/rand"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/laliga/go/internal/models"
	"github.com/rs/zerolog/log"
)

// DefaultBalls are the lottery balls handed out worst record first
var DefaultBalls = []int{30, 22, 18, 14, 10, 6}

// Entry is one team's standing going into the draft
type Entry struct {
	TeamID   uuid.UUID
	TeamName string
	Wins     int
}

// NewRand returns a random source seeded from the wall clock, for callers that
// do not need a reproducible lottery.
func NewRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// RookieOrder runs the weighted lottery and returns the full draft order.
//
// Teams are ranked by ascending wins (ties keep their given order). The worst
// len(balls) teams enter the lottery, the worst holding the most balls. Each draw
// picks a number in [1, remaining balls] and the team whose cumulative range
// holds it wins the next pick and leaves the pool. Non-lottery teams follow in
// ascending wins, so the best record picks last.
func RookieOrder(entries []Entry, balls []int, rng *rand.Rand) []models.DraftPick {
	standings := slices.Clone(entries)
	slices.SortStableFunc(standings, func(a, b Entry) int { return a.Wins - b.Wins })

	n := min(len(balls), len(standings))
	pool := slices.Clone(standings[:n])
	poolBalls := slices.Clone(balls[:n])

	order := make([]models.DraftPick, 0, len(standings))
	for len(pool) > 0 {
		idx := draw(poolBalls, rng)
		winner := pool[idx]

		log.Debug().
			Str("team", winner.TeamName).
			Int("wins", winner.Wins).
			Int("balls", poolBalls[idx]).
			Int("pick", len(order)+1).
			Msg("lottery pick drawn")

		order = append(order, pick(len(order)+1, winner, true))
		pool = slices.Delete(pool, idx, idx+1)
		poolBalls = slices.Delete(poolBalls, idx, idx+1)
	}

	for _, e := range standings[n:] {
		order = append(order, pick(len(order)+1, e, false))
	}
	return order
}

// draw returns the index of the winning entry. A pool without balls falls back
// to standings order.
func draw(balls []int, rng *rand.Rand) int {
	total := 0
	for _, b := range balls {
		total += max(b, 0)
	}
	if total == 0 {
		return 0
	}

	n := rng.Intn(total) + 1
	cumulative := 0
	for i, b := range balls {
		cumulative += max(b, 0)
		if n <= cumulative {
			return i
		}
	}
	return len(balls) - 1
}

func pick(overall int, e Entry, lottery bool) models.DraftPick {
	return models.DraftPick{
		OverallPick: overall,
		TeamID:      e.TeamID,
		TeamName:    e.TeamName,
		Wins:        e.Wins,
		ViaLottery:  lottery,
	}
}
