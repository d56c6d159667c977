package simulation

import (
	"math"

	"github.com/yourusername/risk-optima/internal/models"
)

// FailReason names why a simulated challenge run did not pass
type FailReason string

const (
	FailNone             FailReason = ""
	FailDailyLoss        FailReason = "daily_loss"
	FailOverallLoss      FailReason = "overall_loss"
	FailTargetNotReached FailReason = "target_not_reached"
	FailMaxDaysExceeded  FailReason = "max_days_exceeded"
)

// SimulationOutcome records one simulated equity path. Produced and
// consumed within a single simulation call, never persisted.
type SimulationOutcome struct {
	RiskFraction        float64    `json:"risk_fraction"`
	Passed              bool       `json:"passed"`
	FailReason          FailReason `json:"fail_reason,omitempty"`
	RealizedMaxDrawdown float64    `json:"realized_max_drawdown"`
	TradingDays         int        `json:"trading_days"`
	FinalEquity         float64    `json:"final_equity"`
}

// AggregateOutcome is the reduced result of all runs at one candidate
// fraction. The reduction is a count/sum fold, so partitioning runs
// across workers never changes it beyond floating-point tolerance.
type AggregateOutcome struct {
	Summary  models.FractionSummary `json:"summary"`
	Outcomes []SimulationOutcome    `json:"outcomes,omitempty"`
	Warnings []string               `json:"warnings,omitempty"`
}

// reduce folds completed outcomes into a FractionSummary
func reduce(fraction float64, outcomes []SimulationOutcome, completed int, cfg Config) models.FractionSummary {
	summary := models.FractionSummary{
		Fraction:    fraction,
		Simulations: completed,
	}
	if completed == 0 {
		summary.ConfidenceInterval = models.ConfidenceInterval{Level: cfg.ConfidenceLevel}
		return summary
	}

	sumEquity := 0.0
	sumDrawdown := 0.0
	for _, outcome := range outcomes[:completed] {
		if outcome.Passed {
			summary.Passed++
		}
		sumEquity += outcome.FinalEquity
		sumDrawdown += outcome.RealizedMaxDrawdown
	}
	summary.PassRate = float64(summary.Passed) / float64(completed)
	summary.MeanFinalEquity = sumEquity / float64(completed)
	summary.MeanMaxDrawdown = sumDrawdown / float64(completed)
	summary.ConfidenceInterval = passRateInterval(summary.PassRate, completed, cfg.ConfidenceLevel, cfg.IntervalMethod)
	return summary
}

// passRateInterval builds a binomial confidence interval for a pass rate
// observed over n simulations.
func passRateInterval(passRate float64, n int, level float64, method IntervalMethod) models.ConfidenceInterval {
	if n == 0 {
		return models.ConfidenceInterval{Level: level}
	}
	z := zScore(level)
	nf := float64(n)

	var lower, upper float64
	if method == IntervalNormal {
		half := z * math.Sqrt(passRate*(1-passRate)/nf)
		lower = passRate - half
		upper = passRate + half
	} else {
		// Wilson score interval; better behaved near 0 and 1 than the
		// normal approximation.
		z2 := z * z
		denom := 1 + z2/nf
		center := (passRate + z2/(2*nf)) / denom
		half := z / denom * math.Sqrt(passRate*(1-passRate)/nf+z2/(4*nf*nf))
		lower = center - half
		upper = center + half
	}

	return models.ConfidenceInterval{
		Lower: clamp01(lower),
		Upper: clamp01(upper),
		Level: level,
	}
}

// zScore returns the two-sided standard normal quantile for the given
// confidence level, via the Acklam inverse-CDF approximation.
func zScore(level float64) float64 {
	p := 1 - (1-level)/2
	return inverseNormalCDF(p)
}

// inverseNormalCDF approximates the standard normal quantile function
// (Acklam's algorithm, relative error below 1.15e-9).
func inverseNormalCDF(p float64) float64 {
	if p <= 0 || p >= 1 {
		return 0
	}

	a := [6]float64{-3.969683028665376e+01, 2.209460984245205e+02, -2.759285104469687e+02,
		1.383577518672690e+02, -3.066479806614716e+01, 2.506628277459239e+00}
	b := [5]float64{-5.447609879822406e+01, 1.615858368580409e+02, -1.556989798598866e+02,
		6.680131188771972e+01, -1.328068155288572e+01}
	c := [6]float64{-7.784894002430293e-03, -3.223964580411365e-01, -2.400758277161838e+00,
		-2.549732539343734e+00, 4.374664141464968e+00, 2.938163982698783e+00}
	d := [4]float64{7.784695709041462e-03, 3.224671290700398e-01, 2.445134137142996e+00,
		3.754408661907416e+00}

	const low = 0.02425
	const high = 1 - low

	switch {
	case p < low:
		q := math.Sqrt(-2 * math.Log(p))
		return (((((c[0]*q+c[1])*q+c[2])*q+c[3])*q+c[4])*q + c[5]) /
			((((d[0]*q+d[1])*q+d[2])*q+d[3])*q + 1)
	case p > high:
		q := math.Sqrt(-2 * math.Log(1-p))
		return -(((((c[0]*q+c[1])*q+c[2])*q+c[3])*q+c[4])*q + c[5]) /
			((((d[0]*q+d[1])*q+d[2])*q+d[3])*q + 1)
	default:
		q := p - 0.5
		r := q * q
		return (((((a[0]*r+a[1])*r+a[2])*r+a[3])*r+a[4])*r + a[5]) * q /
			(((((b[0]*r+b[1])*r+b[2])*r+b[3])*r+b[4])*r + 1)
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
