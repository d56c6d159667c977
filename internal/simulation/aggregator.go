package simulation

import (
	"fmt"

	"github.com/yourusername/risk-optima/internal/models"
)

// DefaultMinAcceptablePassRate is the pass-rate floor below which the
// aggregator advises reconsidering the challenge or the strategy.
const DefaultMinAcceptablePassRate = 0.5

// AggregateOptions configure recommendation building
type AggregateOptions struct {
	// MinAcceptablePassRate triggers an advisory warning when even the
	// best fraction falls short; zero means the default of 50%.
	MinAcceptablePassRate float64
	// IncludeBreakdown attaches the full per-fraction summaries
	IncludeBreakdown bool
}

// Aggregate merges swept per-fraction outcomes into a single
// recommendation. The fraction with the highest pass rate wins; ties go
// to the lower, more conservative fraction.
func Aggregate(sweep []AggregateOutcome, opts AggregateOptions) (models.RiskRecommendation, error) {
	if len(sweep) == 0 {
		return models.RiskRecommendation{}, models.NewValidationError("sweep_results", len(sweep), "no simulation outcomes to aggregate")
	}
	minPassRate := opts.MinAcceptablePassRate
	if minPassRate <= 0 {
		minPassRate = DefaultMinAcceptablePassRate
	}

	best := sweep[0].Summary
	recommendation := models.RiskRecommendation{}
	for _, aggregate := range sweep {
		summary := aggregate.Summary
		if summary.PassRate > best.PassRate ||
			(summary.PassRate == best.PassRate && summary.Fraction < best.Fraction) {
			best = summary
		}
		if summary.Partial {
			recommendation.Partial = true
		}
		recommendation.Warnings = append(recommendation.Warnings, aggregate.Warnings...)
		if opts.IncludeBreakdown {
			recommendation.Breakdown = append(recommendation.Breakdown, summary)
		}
	}

	recommendation.RecommendedFraction = best.Fraction
	recommendation.PassRate = best.PassRate
	recommendation.ConfidenceInterval = best.ConfidenceInterval

	if best.Fraction > 0.02 {
		recommendation.Warnings = append(recommendation.Warnings,
			fmt.Sprintf("recommended fraction %.4f exceeds 2%% - consider reducing", best.Fraction))
	}
	if best.PassRate < minPassRate {
		recommendation.Warnings = append(recommendation.Warnings, fmt.Sprintf(
			"pass rate below %.0f%% at all tested fractions - reconsider challenge parameters or strategy", minPassRate*100))
	}

	return recommendation, nil
}
