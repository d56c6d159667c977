package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ConfidenceInterval bounds a pass-rate estimate at a given level
type ConfidenceInterval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Level float64 `json:"level"`
}

// FractionSummary is the aggregate outcome of all simulations run at one
// candidate risk fraction.
type FractionSummary struct {
	Fraction           float64            `json:"fraction"`
	PassRate           float64            `json:"pass_rate"`
	Simulations        int                `json:"simulations"`
	Passed             int                `json:"passed"`
	ConfidenceInterval ConfidenceInterval `json:"confidence_interval"`
	MeanFinalEquity    float64            `json:"mean_final_equity"`
	MeanMaxDrawdown    float64            `json:"mean_max_drawdown"`
	Partial            bool               `json:"partial,omitempty"`
}

// RiskRecommendation is the engine's final output for a swept range of
// candidate fractions.
type RiskRecommendation struct {
	RecommendedFraction float64            `json:"recommended_fraction"`
	PassRate            float64            `json:"pass_rate"`
	ConfidenceInterval  ConfidenceInterval `json:"confidence_interval"`
	Breakdown           []FractionSummary  `json:"breakdown,omitempty"`
	Warnings            []string           `json:"warnings,omitempty"`
	Partial             bool               `json:"partial,omitempty"`
}

// ToJSON exports the recommendation to JSON
func (r RiskRecommendation) ToJSON() string {
	data, _ := json.Marshal(r)
	return string(data)
}

// EngineReport bundles everything one engine run produced, suitable for
// serialization or persistence by the calling layer.
type EngineReport struct {
	RunID          uuid.UUID          `json:"run_id" db:"run_id"`
	CreatedAt      time.Time          `json:"created_at" db:"created_at"`
	Metrics        PerformanceMetrics `json:"metrics"`
	KellyFraction  float64            `json:"kelly_fraction"`
	OptimalF       float64            `json:"optimal_f"`
	TWR            float64            `json:"twr"`
	Recommendation RiskRecommendation `json:"recommendation"`
	Warnings       []string           `json:"warnings,omitempty"`
}
