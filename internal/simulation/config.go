// Package simulation runs bootstrap-resampled equity paths against
// funded-account challenge rules and aggregates them into a risk
// recommendation.
package simulation

import (
	"runtime"
	"time"

	"github.com/yourusername/risk-optima/internal/models"
)

// RiskModel selects the scaling law that converts a trade's historical
// profit into an equity delta at a given risk fraction. It is resolved
// to a concrete risk unit once per simulation call, never per trade.
type RiskModel int

const (
	// RiskModelOptimalF normalizes each trade by the largest historical
	// loss and compounds on current balance (Ralph Vince convention).
	RiskModelOptimalF RiskModel = iota
	// RiskModelKelly normalizes by the average absolute loss and
	// compounds on current balance.
	RiskModelKelly
	// RiskModelFixed normalizes by the largest loss but sizes against
	// the initial account balance without compounding.
	RiskModelFixed
)

func (m RiskModel) String() string {
	switch m {
	case RiskModelKelly:
		return "kelly"
	case RiskModelFixed:
		return "fixed"
	default:
		return "optimal_f"
	}
}

// ParseRiskModel maps a configuration string onto a RiskModel
func ParseRiskModel(name string) (RiskModel, error) {
	switch name {
	case "optimal_f", "":
		return RiskModelOptimalF, nil
	case "kelly":
		return RiskModelKelly, nil
	case "fixed":
		return RiskModelFixed, nil
	default:
		return RiskModelOptimalF, models.NewValidationError("risk_model", name, "must be one of optimal_f, kelly, fixed")
	}
}

// ParseIntervalMethod maps a configuration string onto an IntervalMethod
func ParseIntervalMethod(name string) (IntervalMethod, error) {
	switch name {
	case "wilson", "":
		return IntervalWilson, nil
	case "normal":
		return IntervalNormal, nil
	default:
		return IntervalWilson, models.NewValidationError("interval_method", name, "must be one of wilson, normal")
	}
}

// IntervalMethod selects how the pass-rate confidence interval is built
type IntervalMethod int

const (
	IntervalWilson IntervalMethod = iota
	IntervalNormal
)

// Default simulation parameters
const (
	DefaultNumSimulations  = 1000
	DefaultConfidenceLevel = 0.95
)

// Config configures one simulation call
type Config struct {
	NumSimulations  int
	Seed            int64
	RiskModel       RiskModel
	ConfidenceLevel float64
	IntervalMethod  IntervalMethod
	// MaxDuration bounds wall-clock time; zero means no budget. When the
	// budget runs out the aggregate covers only completed runs and is
	// flagged partial.
	MaxDuration time.Duration
	// Workers caps parallelism; zero means one worker per CPU.
	Workers int
	// KeepOutcomes retains every per-run SimulationOutcome on the
	// aggregate instead of only the reduced summary.
	KeepOutcomes bool
}

func (c Config) withDefaults() Config {
	if c.NumSimulations <= 0 {
		c.NumSimulations = DefaultNumSimulations
	}
	if c.ConfidenceLevel <= 0 || c.ConfidenceLevel >= 1 {
		c.ConfidenceLevel = DefaultConfidenceLevel
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	return c
}

func (c Config) validate() error {
	if c.NumSimulations < 0 {
		return models.NewValidationError("num_simulations", c.NumSimulations, "cannot be negative")
	}
	if c.ConfidenceLevel < 0 || c.ConfidenceLevel >= 1 {
		return models.NewValidationError("confidence_level", c.ConfidenceLevel, "must be in [0, 1)")
	}
	return nil
}
