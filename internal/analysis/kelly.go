package analysis

import (
	"fmt"

	"github.com/yourusername/risk-optima/internal/models"
)

// Safe operating band and advisory threshold for usable risk fractions.
// The raw Kelly value routinely suggests fractions no funded account
// would survive, so the result is clamped before being returned.
const (
	MinRiskFraction          = 0.001
	MaxRiskFraction          = 0.05
	ConservativeRiskFraction = 0.02
)

// KellyResult carries both the raw formula output and the usable,
// clamped fraction.
type KellyResult struct {
	RawFraction float64  `json:"raw_fraction"`
	Fraction    float64  `json:"fraction"`
	Clamped     bool     `json:"clamped"`
	Warnings    []string `json:"warnings,omitempty"`
}

// Kelly computes the Kelly criterion fraction f = p - (1-p)/R, scales it
// by the caller's fractional multiplier and clamps it to the safe band.
// Closed-form; no iteration, no randomness.
func Kelly(winProbability, winLossRatio, fractionalMultiplier float64) (KellyResult, error) {
	if winProbability < 0 || winProbability > 1 {
		return KellyResult{}, models.NewValidationError("win_probability", winProbability, "must be between 0 and 1")
	}
	if winLossRatio <= 0 {
		return KellyResult{}, models.NewValidationError("win_loss_ratio", winLossRatio, "must be positive")
	}
	if fractionalMultiplier <= 0 {
		return KellyResult{}, models.NewValidationError("fractional_multiplier", fractionalMultiplier, "must be positive")
	}

	raw := winProbability - (1.0-winProbability)/winLossRatio
	scaled := raw * fractionalMultiplier

	result := KellyResult{RawFraction: raw, Fraction: scaled}
	if scaled > ConservativeRiskFraction {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("kelly fraction %.4f exceeds conservative bound %.2f", scaled, ConservativeRiskFraction))
	}
	if scaled < MinRiskFraction {
		result.Fraction = MinRiskFraction
		result.Clamped = true
	} else if scaled > MaxRiskFraction {
		result.Fraction = MaxRiskFraction
		result.Clamped = true
	}
	if result.Clamped {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("kelly fraction %.4f clamped to [%.3f, %.3f]", scaled, MinRiskFraction, MaxRiskFraction))
	}

	return result, nil
}
