package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/mcdev12/laliga/go/internal/leagues"
	"github.com/mcdev12/laliga/go/internal/models"
)

type command struct {
	name  string
	args  []string
	usage string
	run   func(ctx context.Context, svc *Services, out io.Writer, args []string) error
}

var commands = []command{
	{"status", nil, "show league status and team cap summary", runStatus},
	{"roster", []string{"team"}, "show a team's roster", runRoster},
	{"advance", nil, "simulate the season and advance to the next one", runAdvance},
	{"extend", []string{"player", "years"}, "extend a player's contract", runExtend},
	{"tag", []string{"player", "franchise|transition"}, "tag a player's contract", runTag},
	{"holdouts", nil, "list players holding out", runHoldouts},
	{"resolve-holdout", []string{"player", "accept|release|reject"}, "resolve a player's holdout", runResolveHoldout},
	{"draft-order", nil, "show the rookie draft order", runDraftOrder},
	{"relay", nil, "publish recorded events until interrupted", runRelay},
}

func lookupCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

// runCommands executes each command in args in order against the same league
func runCommands(ctx context.Context, svc *Services, out io.Writer, args []string) error {
	for len(args) > 0 {
		c, ok := lookupCommand(args[0])
		if !ok {
			return fmt.Errorf("unknown command %q", args[0])
		}
		args = args[1:]
		if len(args) < len(c.args) {
			return fmt.Errorf("usage: %s %s", c.name, strings.Join(c.args, " "))
		}

		if err := c.run(ctx, svc, out, args[:len(c.args)]); err != nil {
			return fmt.Errorf("%s: %w", c.name, err)
		}
		args = args[len(c.args):]
	}
	return nil
}

func money(v float64) string {
	return "$" + humanize.FormatFloat("#,###.##", v)
}

func runStatus(_ context.Context, svc *Services, out io.Writer, _ []string) error {
	return svc.League.Do(func(l *leagues.League) error {
		stats := l.Stats()
		fmt.Fprintf(out, "\n%s - %d\n", l.Name, stats.SeasonYear)
		fmt.Fprintf(out, "Salary Cap: %s\n", money(stats.SalaryCap))
		fmt.Fprintf(out, "Teams: %d\n", stats.TotalTeams)
		fmt.Fprintf(out, "Free Agents: %d\n", stats.FreeAgents)
		fmt.Fprintf(out, "Phase: %s\n", stats.CurrentPhase)

		if len(l.Teams) == 0 {
			return nil
		}
		fmt.Fprintln(out, "\nTeam Summary")
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "Team\tPlayers\tSalary Used\tCap Space\tCap %")
		for _, t := range l.Teams {
			used := t.TotalSalaryUsed()
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%.1f%%\n",
				t.Name, len(t.AllPlayers()), money(used), money(t.RemainingCap()), used/t.SalaryCap*100)
		}
		return tw.Flush()
	})
}

func runRoster(_ context.Context, svc *Services, out io.Writer, args []string) error {
	return svc.League.Do(func(l *leagues.League) error {
		t, err := l.TeamByName(args[0])
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "\n%s Roster\n", t.Name)
		fmt.Fprintf(out, "Salary Cap: %s\n", money(t.SalaryCap))
		fmt.Fprintf(out, "Used: %s\n", money(t.TotalSalaryUsed()))
		fmt.Fprintf(out, "Available: %s\n", money(t.RemainingCap()))
		if dead := t.DeadMoney(); dead > 0 {
			fmt.Fprintf(out, "Dead Money: %s\n", money(dead))
		}

		for _, slot := range models.RosterSlots {
			players := t.Players(slot)
			if len(players) == 0 {
				continue
			}
			fmt.Fprintf(out, "\n%s (%d players)\n", slot, len(players))
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "Player\tPosition\tNFL Team\tSalary\tContract\tFantasy Pts")
			for _, p := range players {
				years := "N/A"
				if c := p.Contract(); c != nil {
					years = fmt.Sprintf("%dyr", c.YearsRemaining())
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.1f\n",
					p.Name, p.Position, p.NFLTeam, money(p.CurrentSalary()), years, p.FantasyPoints)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
		}
		return nil
	})
}

func runAdvance(ctx context.Context, svc *Services, out io.Writer, _ []string) error {
	var from int
	if err := svc.League.Do(func(l *leagues.League) error {
		from = l.SeasonYear
		l.SimulateSeasonStats(nil)
		l.ScoreSeason()
		return nil
	}); err != nil {
		return err
	}
	fmt.Fprintf(out, "Advancing from %d season...\n", from)

	report, err := svc.League.AdvanceSeason(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Season advanced to %d\n", report.ToYear)
	fmt.Fprintf(out, "Salary cap increased from %s to %s\n", money(report.OldSalaryCap), money(report.NewSalaryCap))
	if n := len(report.Expired); n > 0 {
		fmt.Fprintf(out, "%d expired %s moved to free agency\n", n, pluralize(n, "contract", "contracts"))
	}
	if n := len(report.Holdouts); n > 0 {
		fmt.Fprintf(out, "%d potential %s declared\n", n, pluralize(n, "holdout", "holdouts"))
	}
	if len(report.CapViolations) > 0 {
		fmt.Fprintln(out, "Salary cap violations detected:")
		for _, v := range report.CapViolations {
			fmt.Fprintf(out, "    %s: %s over cap\n", v.TeamName, money(v.Over()))
		}
	}
	return nil
}

func runExtend(ctx context.Context, svc *Services, out io.Writer, args []string) error {
	name := args[0]
	years, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid years %q: %w", args[1], err)
	}

	var old float64
	if err := svc.League.Do(func(l *leagues.League) error {
		p, _, err := l.FindPlayer(name)
		if err != nil {
			return err
		}
		old = p.CurrentSalary()
		return nil
	}); err != nil {
		return err
	}

	increase, err := svc.League.ExtendContract(ctx, name, years)
	if err != nil {
		return fmt.Errorf("cannot extend contract: %w", err)
	}

	return svc.League.Do(func(l *leagues.League) error {
		p, _, err := l.FindPlayer(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Extended %s for %d additional years\n", p.Name, years)
		fmt.Fprintf(out, "Salary: %s -> %s (+%s)\n", money(old), money(p.CurrentSalary()), money(increase))
		fmt.Fprintf(out, "Contract: %d years remaining\n", p.Contract().YearsRemaining())
		return nil
	})
}

func runTag(ctx context.Context, svc *Services, out io.Writer, args []string) error {
	tag := models.ContractTag(strings.ToUpper(args[1]))
	increase, err := svc.League.TagPlayer(ctx, args[0], tag)
	if err != nil {
		return fmt.Errorf("cannot tag contract: %w", err)
	}
	fmt.Fprintf(out, "%s %s tagged: salary +%s\n", args[0], strings.ToLower(args[1]), money(increase))
	return nil
}

func runHoldouts(_ context.Context, svc *Services, out io.Writer, _ []string) error {
	return svc.League.Do(func(l *leagues.League) error {
		holdouts := l.Holdouts()
		if len(holdouts) == 0 {
			fmt.Fprintln(out, "No holdout situations detected")
			return nil
		}

		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "Team\tPlayer\tPosition\tCurrent Salary\tDemands\tIncrease")
		for _, h := range holdouts {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t+%s\n",
				h.TeamName, h.PlayerName, h.Position,
				money(h.CurrentSalary), money(h.Demand), money(h.Demand-h.CurrentSalary))
		}
		return tw.Flush()
	})
}

func runResolveHoldout(ctx context.Context, svc *Services, out io.Writer, args []string) error {
	decision := models.HoldoutDecision(strings.ToLower(args[1]))
	amount, err := svc.League.ResolveHoldout(ctx, args[0], decision)
	if err != nil {
		return err
	}

	switch decision {
	case models.HoldoutAccept:
		fmt.Fprintf(out, "%s accepted demands: salary +%s\n", args[0], money(amount))
	case models.HoldoutRelease:
		fmt.Fprintf(out, "%s released: %s dead money\n", args[0], money(amount))
	default:
		fmt.Fprintf(out, "%s moved to the practice squad\n", args[0])
	}
	return nil
}

func runDraftOrder(_ context.Context, svc *Services, out io.Writer, _ []string) error {
	return svc.League.Do(func(l *leagues.League) error {
		if len(l.RookieDraftOrder) == 0 {
			fmt.Fprintln(out, "Draft order not set. Run 'advance' first.")
			return nil
		}

		fmt.Fprintf(out, "Rookie Draft Order (%d rounds)\n", l.Config().RookieDraftRounds)
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "Pick\tTeam\tWins\tLottery")
		for _, pick := range l.RookieDraftOrder {
			lottery := ""
			if pick.ViaLottery {
				lottery = "yes"
			}
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", humanize.Ordinal(pick.OverallPick), pick.TeamName, pick.Wins, lottery)
		}
		return tw.Flush()
	})
}

func runRelay(ctx context.Context, svc *Services, out io.Writer, _ []string) error {
	fmt.Fprintln(out, "Relaying league events, press Ctrl+C to stop")
	return svc.Relay(ctx)
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
