package analysis

import (
	"math"

	"github.com/yourusername/risk-optima/internal/models"
)

// DefaultOptimalFPrecision is the search tolerance used when the caller
// does not supply one.
const DefaultOptimalFPrecision = 1e-6

const goldenRatio = 0.6180339887498949

// OptimalFResult carries the argmax fraction, the terminal wealth
// relative achieved there and the refinement iterations consumed.
type OptimalFResult struct {
	OptimalF   float64  `json:"optimal_f"`
	TWR        float64  `json:"twr"`
	Iterations int      `json:"iterations"`
	Warnings   []string `json:"warnings,omitempty"`
}

// OptimalF finds the fraction f in (0,1) maximizing the terminal wealth
// relative TWR(f) = prod(1 + f * (-profit_i / largestLoss)) over the
// ledger. A coarse grid scan locates the region of the maximum and a
// golden-section search refines it, bounded by maxIterations.
func OptimalF(trades []models.Trade, precision float64, maxIterations int) (OptimalFResult, error) {
	if len(trades) == 0 {
		return OptimalFResult{}, models.ErrEmptyLedger
	}
	largestLoss, hasLoss := models.LargestLoss(trades)
	if !hasLoss {
		return OptimalFResult{}, models.NewValidationError("largest_loss", largestLoss,
			"ledger has no losing trade; TWR is undefined without a loss to normalize against")
	}
	if precision <= 0 {
		precision = DefaultOptimalFPrecision
	}
	if maxIterations <= 0 {
		return OptimalFResult{}, models.NewValidationError("max_iterations", maxIterations, "must be positive")
	}

	// Holding-period returns normalized by the largest loss; a term of
	// (1 + f*hpr) dropping to zero or below at some f signals ruin and
	// disqualifies that fraction entirely.
	hprs := make([]float64, len(trades))
	for i, trade := range trades {
		hprs[i] = -trade.Profit / largestLoss
	}

	gridStep := gridStepFor(precision)
	bestF := 0.0
	bestTWR := math.Inf(-1)
	for f := gridStep; f < 1.0; f += gridStep {
		twr, ruined := terminalWealthRelative(hprs, f)
		if ruined {
			continue
		}
		if twr > bestTWR {
			bestTWR = twr
			bestF = f
		}
	}
	if math.IsInf(bestTWR, -1) {
		// Every candidate hit ruin; the only survivable fraction is zero.
		return OptimalFResult{OptimalF: 0, TWR: 1,
			Warnings: []string{"all fractions in (0,1) lead to ruin; optimal f reported as 0"}}, nil
	}

	result := refineGolden(hprs, bestF, gridStep, precision, maxIterations)
	if result.Iterations >= maxIterations {
		result.Warnings = append(result.Warnings, "optimal f search did not converge; best value so far returned")
	}
	return result, nil
}

// refineGolden narrows the bracket around the grid maximum with a
// golden-section search until the bracket is smaller than precision.
func refineGolden(hprs []float64, center, radius, precision float64, maxIterations int) OptimalFResult {
	lo := math.Max(0, center-radius)
	hi := math.Min(1, center+radius)

	x1 := hi - goldenRatio*(hi-lo)
	x2 := lo + goldenRatio*(hi-lo)
	f1 := boundedTWR(hprs, x1)
	f2 := boundedTWR(hprs, x2)

	iterations := 0
	for hi-lo > precision && iterations < maxIterations {
		if f1 > f2 {
			hi = x2
			x2 = x1
			f2 = f1
			x1 = hi - goldenRatio*(hi-lo)
			f1 = boundedTWR(hprs, x1)
		} else {
			lo = x1
			x1 = x2
			f1 = f2
			x2 = lo + goldenRatio*(hi-lo)
			f2 = boundedTWR(hprs, x2)
		}
		iterations++
	}

	best := (lo + hi) / 2.0
	twr := boundedTWR(hprs, best)
	if math.IsInf(twr, -1) {
		best = center
		twr = boundedTWR(hprs, center)
	}
	return OptimalFResult{OptimalF: best, TWR: twr, Iterations: iterations}
}

// terminalWealthRelative evaluates TWR(f) and reports whether f drives
// any holding-period term non-positive (ruin).
func terminalWealthRelative(hprs []float64, f float64) (float64, bool) {
	twr := 1.0
	for _, hpr := range hprs {
		term := 1.0 + f*hpr
		if term <= 0 {
			return 0, true
		}
		twr *= term
	}
	return twr, false
}

func boundedTWR(hprs []float64, f float64) float64 {
	twr, ruined := terminalWealthRelative(hprs, f)
	if ruined {
		return math.Inf(-1)
	}
	return twr
}

func gridStepFor(precision float64) float64 {
	step := precision * 1000
	if step < 1e-4 {
		step = 1e-4
	}
	if step > 0.01 {
		step = 0.01
	}
	return step
}
