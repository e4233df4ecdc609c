package leagues

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/mcdev12/laliga/go/internal/contract"
	"github.com/mcdev12/laliga/go/internal/domainerr"
	"github.com/mcdev12/laliga/go/internal/fantasyteam"
	"github.com/mcdev12/laliga/go/internal/models"
	"github.com/mcdev12/laliga/go/internal/player"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const delta = 1e-9

func newLeague(t *testing.T, teams int, seed int64) *League {
	t.Helper()
	l := New(2025, WithRand(rand.New(rand.NewSource(seed))))
	for i := range teams {
		team, err := l.CreateTeam(fmt.Sprintf("Team %d", i+1))
		require.NoError(t, err)
		require.NoError(t, team.SetRecord(i, 13-i))
	}
	return l
}

func signed(t *testing.T, name string, pos models.Position, salary float64, years int) *player.Player {
	t.Helper()
	c, err := contract.New(name, salary, years, contract.WithStartYear(2025))
	require.NoError(t, err)
	p, err := player.New(name, "KC", pos, player.WithContract(c))
	require.NoError(t, err)
	return p
}

func roster(t *testing.T, team *fantasyteam.Team, p *player.Player) *player.Player {
	t.Helper()
	require.NoError(t, team.AddPlayer(p, models.RosterSlotActive))
	return p
}

func TestNew(t *testing.T) {
	l := New(2025)

	assert.Equal(t, "La Liga Lebowski", l.Name)
	assert.Equal(t, 2025, l.SeasonYear)
	assert.Equal(t, 1006.0, l.CurrentSalaryCap)
	assert.Equal(t, models.LeaguePhaseOffseason, l.CurrentPhase)
	assert.Empty(t, l.Teams)
	assert.Empty(t, l.FreeAgents)
}

func TestAddTeamLeagueFull(t *testing.T) {
	l := newLeague(t, 12, 1)

	for i, team := range l.Teams {
		assert.Equal(t, i+1, team.DraftPosition)
		assert.Equal(t, l.CurrentSalaryCap, team.SalaryCap)
	}

	_, err := l.CreateTeam("Team 13")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerr.ErrLeagueFull))
	assert.Len(t, l.Teams, 12)
}

func TestTeamByNameAndFindPlayer(t *testing.T) {
	l := newLeague(t, 2, 1)
	p := roster(t, l.Teams[1], signed(t, "Patrick Mahomes", models.PositionQB, 50, 3))

	team, err := l.TeamByName("team 2")
	require.NoError(t, err)
	assert.Same(t, l.Teams[1], team)

	_, err = l.TeamByName("Nobody")
	assert.True(t, errors.Is(err, domainerr.ErrTeamNotFound))

	found, owner, err := l.FindPlayer("patrick mahomes")
	require.NoError(t, err)
	assert.Same(t, p, found)
	assert.Same(t, l.Teams[1], owner)

	_, _, err = l.FindPlayer("Tom Brady")
	assert.True(t, errors.Is(err, domainerr.ErrPlayerNotFound))
}

func TestSignFreeAgent(t *testing.T) {
	l := newLeague(t, 1, 1)

	fa, err := player.New("Free Agent", "DAL", models.PositionRB)
	require.NoError(t, err)
	l.AddFreeAgent(fa)
	l.AddFreeAgent(fa)
	require.Len(t, l.FreeAgents, 1)

	t.Run("over the cap rolls back the contract", func(t *testing.T) {
		c, err := contract.New(fa.Name, 2000, 2)
		require.NoError(t, err)

		err = l.SignFreeAgent("Team 1", fa, c, models.RosterSlotActive)
		assert.True(t, errors.Is(err, domainerr.ErrCapExceeded))
		assert.False(t, fa.HasContract())
		assert.True(t, fa.IsAvailable())
		assert.Len(t, l.FreeAgents, 1)
	})

	t.Run("unknown team", func(t *testing.T) {
		c, err := contract.New(fa.Name, 20, 2)
		require.NoError(t, err)

		err = l.SignFreeAgent("Nobody", fa, c, models.RosterSlotActive)
		assert.True(t, errors.Is(err, domainerr.ErrTeamNotFound))
		assert.False(t, fa.HasContract())
	})

	t.Run("signs and leaves the pool", func(t *testing.T) {
		c, err := contract.New(fa.Name, 20, 2)
		require.NoError(t, err)

		require.NoError(t, l.SignFreeAgent("Team 1", fa, c, models.RosterSlotActive))
		assert.Equal(t, "Team 1", fa.FantasyTeam())
		assert.Equal(t, models.RosterStatusActive, fa.RosterStatus())
		assert.Empty(t, l.FreeAgents)
	})
}

func TestAdvanceSeasonExpiredContract(t *testing.T) {
	l := newLeague(t, 12, 7)
	expiring := roster(t, l.Teams[0], signed(t, "One Year", models.PositionWR, 10, 1))
	staying := roster(t, l.Teams[0], signed(t, "Three Years", models.PositionWR, 10, 3))

	report, err := l.AdvanceSeason()
	require.NoError(t, err)

	require.Len(t, report.Expired, 1)
	assert.Equal(t, expiring.ID, report.Expired[0].PlayerID)
	assert.Equal(t, "Team 1", report.Expired[0].TeamName)
	assert.Contains(t, report.Released, expiring.ID)

	assert.False(t, expiring.HasContract())
	assert.Empty(t, expiring.FantasyTeam())
	assert.True(t, expiring.IsAvailable())
	assert.Contains(t, l.FreeAgents, expiring)
	assert.NotContains(t, l.Teams[0].AllPlayers(), expiring)

	assert.Contains(t, l.Teams[0].AllPlayers(), staying)
	assert.Equal(t, 2, staying.Contract().YearsRemaining())
	assert.InDelta(t, 12.0, staying.CurrentSalary(), delta)
}

func TestAdvanceSeasonRejectsFlatCap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SalaryCapIncreaseRate = 0
	l := New(2025, WithConfig(cfg), WithRand(rand.New(rand.NewSource(1))))
	p := signed(t, "Aging QB", models.PositionQB, 10, 3)
	team, err := l.CreateTeam("Team 1")
	require.NoError(t, err)
	roster(t, team, p)

	_, err = l.AdvanceSeason()
	assert.True(t, errors.Is(err, domainerr.ErrInvalidInput))
	assert.Equal(t, 2025, l.SeasonYear)
	assert.Equal(t, 1006.0, l.CurrentSalaryCap)
	assert.Equal(t, 3, p.Contract().YearsRemaining())
}

func TestAdvanceSeasonRaisesSalaryCap(t *testing.T) {
	l := newLeague(t, 12, 3)

	report, err := l.AdvanceSeason()
	require.NoError(t, err)

	assert.Equal(t, 1006.0, report.OldSalaryCap)
	assert.InDelta(t, 1056.3, report.NewSalaryCap, delta)
	assert.InDelta(t, 1056.3, l.CurrentSalaryCap, delta)
	for _, team := range l.Teams {
		assert.InDelta(t, 1056.3, team.SalaryCap, delta, team.Name)
	}

	_, err = l.AdvanceSeason()
	require.NoError(t, err)
	assert.InDelta(t, 1056.3*1.05, l.CurrentSalaryCap, 1e-6)
}

func TestAdvanceSeasonStagesAndYear(t *testing.T) {
	l := newLeague(t, 4, 3)
	l.CurrentPhase = models.LeaguePhasePlayoffs
	l.CurrentWeek = 17

	report, err := l.AdvanceSeason()
	require.NoError(t, err)

	assert.Equal(t, []string{
		StageAgeContracts,
		StageRaiseSalaryCap,
		StageProcessHoldouts,
		StageReleaseExpired,
		StageValidateSalaryCaps,
		StageDraftOrder,
	}, report.Stages)
	assert.Equal(t, SeasonStages(), report.Stages)

	assert.Equal(t, 2025, report.FromYear)
	assert.Equal(t, 2026, report.ToYear)
	assert.Equal(t, 2026, l.SeasonYear)
	assert.Equal(t, models.LeaguePhaseOffseason, l.CurrentPhase)
	assert.Zero(t, l.CurrentWeek)
}

func TestAdvanceSeasonHoldouts(t *testing.T) {
	l := newLeague(t, 2, 3)
	underpaid := roster(t, l.Teams[0], signed(t, "Cheap QB", models.PositionQB, 10, 3))
	paid := roster(t, l.Teams[1], signed(t, "Rich QB", models.PositionQB, 100, 3))
	expiring := roster(t, l.Teams[1], signed(t, "Expiring QB", models.PositionQB, 1, 2))
	underpaid.FantasyPoints = 350
	paid.FantasyPoints = 300
	expiring.FantasyPoints = 400

	report, err := l.AdvanceSeason()
	require.NoError(t, err)

	// after aging: 12, 120 and 1.2; the average covers all three contracted QBs
	avg := (12 + 120 + 1.2) / 3
	assert.InDelta(t, avg, report.PositionAverages[models.PositionQB], 1e-9)

	require.Len(t, report.Holdouts, 1)
	h := report.Holdouts[0]
	assert.Equal(t, underpaid.ID, h.PlayerID)
	assert.Equal(t, "Team 1", h.TeamName)
	assert.InDelta(t, 12.0, h.CurrentSalary, delta)
	assert.InDelta(t, avg*0.75, h.Demand, 1e-9)

	assert.True(t, underpaid.IsHoldout())
	assert.False(t, paid.IsHoldout())
	assert.False(t, expiring.IsHoldout())
	assert.Equal(t, report.Holdouts, l.Holdouts())
}

func TestAdvanceSeasonEndsHoldoutInFinalYear(t *testing.T) {
	l := newLeague(t, 2, 3)
	underpaid := roster(t, l.Teams[0], signed(t, "Cheap QB", models.PositionQB, 10, 3))
	paid := roster(t, l.Teams[1], signed(t, "Rich QB", models.PositionQB, 100, 3))
	underpaid.FantasyPoints = 350
	paid.FantasyPoints = 300

	report, err := l.AdvanceSeason()
	require.NoError(t, err)
	require.Len(t, report.Holdouts, 1)
	require.True(t, underpaid.IsHoldout())

	report, err = l.AdvanceSeason()
	require.NoError(t, err)

	require.True(t, underpaid.Contract().IsExpiring())
	assert.False(t, underpaid.IsHoldout())
	assert.False(t, underpaid.IsEligibleForPracticeSquad())
	assert.Empty(t, report.Holdouts)
	assert.Empty(t, l.Holdouts())
}

func TestAdvanceSeasonCapViolationIsWarning(t *testing.T) {
	l := newLeague(t, 2, 3)
	roster(t, l.Teams[0], signed(t, "Big Deal", models.PositionRB, 1000, 3))

	report, err := l.AdvanceSeason()
	require.NoError(t, err)

	require.Len(t, report.CapViolations, 1)
	v := report.CapViolations[0]
	assert.Equal(t, l.Teams[0].ID, v.TeamID)
	assert.InDelta(t, 1200.0, v.SalaryUsed, delta)
	assert.InDelta(t, 1056.3, v.SalaryCap, delta)
	assert.InDelta(t, 143.7, v.Over(), 1e-9)
	assert.Contains(t, report.Stages, StageDraftOrder)
}

func TestAdvanceSeasonDraftOrder(t *testing.T) {
	names := func(seed int64) []string {
		l := newLeague(t, 12, seed)
		report, err := l.AdvanceSeason()
		require.NoError(t, err)

		require.Len(t, l.RookieDraftOrder, 12)
		assert.Equal(t, l.RookieDraftOrder, l.AuctionNominationOrder)
		assert.Equal(t, l.RookieDraftOrder, report.DraftOrder)

		out := make([]string, len(l.RookieDraftOrder))
		for i, pick := range l.RookieDraftOrder {
			out[i] = pick.TeamName
			assert.Equal(t, i+1, pick.OverallPick)
			assert.Equal(t, i < 6, pick.ViaLottery)
			team, err := l.TeamByName(pick.TeamName)
			require.NoError(t, err)
			assert.Equal(t, i+1, team.DraftPosition)
		}

		// the best six records pick last, worst first
		for i, pick := range l.RookieDraftOrder[6:] {
			assert.Equal(t, 6+i, pick.Wins)
		}
		for _, pick := range l.RookieDraftOrder[:6] {
			assert.Less(t, pick.Wins, 6)
		}
		return out
	}

	assert.Equal(t, names(99), names(99))
}

func TestPositionAverages(t *testing.T) {
	l := newLeague(t, 1, 1)
	for i := range 6 {
		p := roster(t, l.Teams[0], signed(t, fmt.Sprintf("QB %d", i), models.PositionQB, float64(10*(i+1)), 3))
		p.FantasyPoints = float64(100 * (i + 1))
	}
	roster(t, l.Teams[0], signed(t, "Kicker", models.PositionK, 5, 3))

	averages := l.PositionAverages()

	// top five by points are the 20..60 salaries
	assert.InDelta(t, 40.0, averages[models.PositionQB], delta)
	assert.NotContains(t, averages, models.PositionK)
	assert.NotContains(t, averages, models.PositionRB)

	rankings := l.PositionRankings()
	require.Len(t, rankings[models.PositionQB], 6)
	assert.Len(t, rankings[models.PositionK], 1)
}

func TestSimulateSeasonStats(t *testing.T) {
	l := newLeague(t, 1, 1)
	qb := roster(t, l.Teams[0], signed(t, "QB", models.PositionQB, 10, 3))
	k := roster(t, l.Teams[0], signed(t, "K", models.PositionK, 1, 3))

	l.SimulateSeasonStats(rand.New(rand.NewSource(5)))

	assert.GreaterOrEqual(t, qb.FantasyPoints, 150.0)
	assert.Less(t, qb.FantasyPoints, 400.0)
	assert.GreaterOrEqual(t, k.FantasyPoints, 0.0)
	assert.Less(t, k.FantasyPoints, 150.0)
	assert.Equal(t, qb.FantasyPoints, l.SeasonStats[qb.ID])
	assert.Equal(t, models.LeaguePhasePlayoffs, l.CurrentPhase)
	assert.Equal(t, 17, l.CurrentWeek)
}

func TestScoreSeason(t *testing.T) {
	l := newLeague(t, 1, 1)
	qb := roster(t, l.Teams[0], signed(t, "QB", models.PositionQB, 10, 3))
	qb.SeasonStats = map[string]float64{"passing_td": 30, "passing_yards": 4000, "interception": 10}
	idle := roster(t, l.Teams[0], signed(t, "Idle", models.PositionRB, 10, 3))
	idle.FantasyPoints = 12

	l.ScoreSeason()

	assert.InDelta(t, 260.0, qb.FantasyPoints, delta)
	assert.InDelta(t, 260.0, l.SeasonStats[qb.ID], delta)
	assert.Equal(t, 12.0, idle.FantasyPoints)
}

func TestTagPlayer(t *testing.T) {
	l := newLeague(t, 1, 1)
	cheap := roster(t, l.Teams[0], signed(t, "Cheap TE", models.PositionTE, 10, 3))
	roster(t, l.Teams[0], signed(t, "Pricey TE", models.PositionTE, 30, 3))

	increase, err := l.TagPlayer(cheap, models.ContractTagFranchise)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, increase, delta)
	assert.InDelta(t, 20.0, cheap.CurrentSalary(), delta)
	assert.Equal(t, models.ContractTagFranchise, cheap.Contract().Tag())

	_, err = l.TagPlayer(cheap, models.ContractTagTransition)
	assert.True(t, errors.Is(err, domainerr.ErrAlreadyTagged))

	unsigned, err := player.New("Unsigned", "KC", models.PositionTE)
	require.NoError(t, err)
	_, err = l.TagPlayer(unsigned, models.ContractTagFranchise)
	assert.True(t, errors.Is(err, domainerr.ErrNoContract))
}

func TestStats(t *testing.T) {
	l := newLeague(t, 3, 1)
	_, err := l.AdvanceSeason()
	require.NoError(t, err)

	stats := l.Stats()
	assert.Equal(t, l.ID, stats.LeagueID)
	assert.Equal(t, 2026, stats.SeasonYear)
	assert.Equal(t, 3, stats.TotalTeams)
	require.Len(t, stats.DraftOrder, 3)
	assert.ElementsMatch(t, []string{"Team 1", "Team 2", "Team 3"}, stats.DraftOrder)
}
