// Package contract models a player's salary agreement: yearly aging, one-shot
// extensions, tags, and the dead money owed when a contract is cut.
package contract

import (
	"fmt"
	"math"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/laliga/go/internal/domainerr"
	"github.com/mcdev12/laliga/go/internal/models"
)

// Terms holds the league rules that drive contract arithmetic
type Terms struct {
	RaiseRate         float64 // yearly raise applied when a contract ages
	ExtensionRaise    float64 // salary multiplier applied on extension
	ExtensionMinimum  float64 // salary floor after an extension
	MaxExtensionYears int
	TagRaise          float64 // multiplier on current salary used by tag pricing

	// DeadMoneyMultipliers maps years remaining to the share of salary owed on release.
	// Counts above the largest key use the largest key's multiplier.
	DeadMoneyMultipliers map[int]float64
}

// DefaultTerms returns the standard La Liga contract rules
func DefaultTerms() Terms {
	return Terms{
		RaiseRate:         0.20,
		ExtensionRaise:    1.20,
		ExtensionMinimum:  10,
		MaxExtensionYears: 5,
		TagRaise:          1.20,
		DeadMoneyMultipliers: map[int]float64{
			2: 0.50,
			3: 0.75,
			4: 1.00,
			5: 1.25,
		},
	}
}

// Contract represents a player's contract with salary, duration, and cap implications
type Contract struct {
	playerName     string
	initialSalary  float64
	totalYears     int
	yearsRemaining int
	isRookie       bool
	startYear      int
	currentSalary  float64
	extended       bool
	tag            models.ContractTag

	terms Terms
}

type config struct {
	rookie    bool
	startYear int
	clock     clockwork.Clock
	terms     Terms
}

// Option configures a new contract
type Option func(*config)

// WithRookie flags the contract as a rookie deal
func WithRookie() Option {
	return func(c *config) { c.rookie = true }
}

// WithStartYear sets the first season of the contract
func WithStartYear(year int) Option {
	return func(c *config) { c.startYear = year }
}

// WithClock sets the clock used to default the start year
func WithClock(clock clockwork.Clock) Option {
	return func(c *config) { c.clock = clock }
}

// WithTerms overrides the default contract rules
func WithTerms(terms Terms) Option {
	return func(c *config) { c.terms = terms }
}

// New creates a contract paying salary for the given number of years
func New(playerName string, salary float64, years int, opts ...Option) (*Contract, error) {
	if salary < 0 || math.IsNaN(salary) || math.IsInf(salary, 0) {
		return nil, domainerr.Newf(domainerr.CodeInvalidInput, "salary cannot be negative: %v", salary)
	}
	if years < 1 {
		return nil, domainerr.Newf(domainerr.CodeInvalidInput, "contract must last at least one year, got %d", years)
	}

	cfg := config{
		clock: clockwork.NewRealClock(),
		terms: DefaultTerms(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.startYear == 0 {
		cfg.startYear = cfg.clock.Now().Year()
	}

	return &Contract{
		playerName:     playerName,
		initialSalary:  salary,
		totalYears:     years,
		yearsRemaining: years,
		isRookie:       cfg.rookie,
		startYear:      cfg.startYear,
		currentSalary:  salary,
		terms:          cfg.terms,
	}, nil
}

func (c *Contract) PlayerName() string { return c.playerName }
func (c *Contract) InitialSalary() float64 { return c.initialSalary }
func (c *Contract) TotalYears() int { return c.totalYears }
func (c *Contract) YearsRemaining() int { return c.yearsRemaining }
func (c *Contract) IsRookie() bool { return c.isRookie }
func (c *Contract) StartYear() int { return c.startYear }
func (c *Contract) CurrentSalary() float64 { return c.currentSalary }
func (c *Contract) HasBeenExtended() bool { return c.extended }
func (c *Contract) Tag() models.ContractTag { return c.tag }
func (c *Contract) IsFranchiseTagged() bool { return c.tag == models.ContractTagFranchise }
func (c *Contract) IsTransitionTagged() bool { return c.tag == models.ContractTagTransition }

// IsExhausted reports whether every year of the contract has been played
func (c *Contract) IsExhausted() bool {
	return c.yearsRemaining <= 0
}

// AdvanceYear ages the contract by one season. Surviving contracts receive the
// yearly raise; the season that exhausts the contract does not.
func (c *Contract) AdvanceYear() error {
	if c.yearsRemaining <= 0 {
		return domainerr.Newf(domainerr.CodeExpiredContract, "contract for %s has already expired", c.playerName)
	}

	c.yearsRemaining--
	if c.yearsRemaining > 0 {
		c.currentSalary *= 1 + c.terms.RaiseRate
	}
	return nil
}

// Extend adds years to the contract, applying the extension raise and salary floor.
// It returns the salary increase.
func (c *Contract) Extend(additionalYears int) (float64, error) {
	if c.extended {
		return 0, domainerr.Newf(domainerr.CodeAlreadyExtended, "%s has already been extended once", c.playerName)
	}
	if c.yearsRemaining <= 1 {
		return 0, domainerr.Newf(domainerr.CodeTooFewYearsRemaining, "cannot extend %s with 1 or fewer years remaining", c.playerName)
	}
	if additionalYears < 1 || additionalYears > c.terms.MaxExtensionYears {
		return 0, domainerr.Newf(domainerr.CodeInvalidExtensionLength, "extension must be between 1-%d years, got %d", c.terms.MaxExtensionYears, additionalYears)
	}

	old := c.currentSalary
	c.currentSalary = math.Max(c.currentSalary*c.terms.ExtensionRaise, c.terms.ExtensionMinimum)
	c.yearsRemaining += additionalYears
	c.totalYears += additionalYears
	c.extended = true

	return c.currentSalary - old, nil
}

// DeadMoneyPenalty is the cap charge owed if the contract is cut now
func (c *Contract) DeadMoneyPenalty() float64 {
	if c.yearsRemaining <= 1 {
		return 0
	}
	return c.currentSalary * c.deadMoneyMultiplier()
}

func (c *Contract) deadMoneyMultiplier() float64 {
	if m, ok := c.terms.DeadMoneyMultipliers[c.yearsRemaining]; ok {
		return m
	}

	maxYears := 0
	for years := range c.terms.DeadMoneyMultipliers {
		if years > maxYears {
			maxYears = years
		}
	}
	if c.yearsRemaining > maxYears {
		return c.terms.DeadMoneyMultipliers[maxYears]
	}
	return 0
}

// IsEligibleForExtension reports whether Extend could succeed with a valid length
func (c *Contract) IsEligibleForExtension() bool {
	return !c.extended && c.yearsRemaining > 1 && c.tag == models.ContractTagNone
}

// IsExpiring reports whether the contract ends after this season
func (c *Contract) IsExpiring() bool {
	return c.yearsRemaining <= 1
}

// FranchiseTagMinimum is the minimum bid for a franchise tag
func (c *Contract) FranchiseTagMinimum(positionAvgSalary float64) float64 {
	return math.Max(positionAvgSalary, c.currentSalary*c.terms.TagRaise)
}

// TransitionTagSalary is the salary a transition tag pays
func (c *Contract) TransitionTagSalary(positionAvgSalary float64) float64 {
	return math.Max(positionAvgSalary, c.currentSalary*c.terms.TagRaise)
}

// ApplyTag tags the contract and raises the salary to the tag price.
// A contract can carry at most one tag; the salary increase is returned.
func (c *Contract) ApplyTag(tag models.ContractTag, positionAvgSalary float64) (float64, error) {
	if c.tag != models.ContractTagNone {
		return 0, domainerr.Newf(domainerr.CodeAlreadyTagged, "%s is already %s tagged", c.playerName, c.tag)
	}

	var salary float64
	switch tag {
	case models.ContractTagFranchise:
		salary = c.FranchiseTagMinimum(positionAvgSalary)
	case models.ContractTagTransition:
		salary = c.TransitionTagSalary(positionAvgSalary)
	default:
		return 0, domainerr.Newf(domainerr.CodeInvalidTag, "invalid contract tag: %q", tag)
	}

	old := c.currentSalary
	c.currentSalary = salary
	c.tag = tag
	return c.currentSalary - old, nil
}

// RaiseTo sets the salary to a higher amount and returns the increase
func (c *Contract) RaiseTo(salary float64) (float64, error) {
	if salary < c.currentSalary {
		return 0, domainerr.Newf(domainerr.CodeSalaryDecrease, "cannot lower %s salary from %.2f to %.2f", c.playerName, c.currentSalary, salary)
	}
	old := c.currentSalary
	c.currentSalary = salary
	return salary - old, nil
}

func (c *Contract) String() string {
	return fmt.Sprintf("Contract(%s: $%.2f, %dyr remaining)", c.playerName, c.currentSalary, c.yearsRemaining)
}
