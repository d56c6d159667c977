package models

import "encoding/json"

// PerformanceMetrics summarizes a trade ledger as scalar statistics.
// Break-even trades (profit exactly zero) count toward TotalTrades but
// are excluded from both WinCount and LossCount.
type PerformanceMetrics struct {
	TotalTrades     int     `json:"total_trades"`
	WinCount        int     `json:"win_count"`
	LossCount       int     `json:"loss_count"`
	WinProbability  float64 `json:"win_probability"`
	LossProbability float64 `json:"loss_probability"`
	AvgWin          float64 `json:"avg_win"`
	AvgLoss         float64 `json:"avg_loss"`
	WinLossRatio    float64 `json:"win_loss_ratio"`
	ProfitFactor    float64 `json:"profit_factor"`
	Expectancy      float64 `json:"expectancy"`
	MaxDrawdown     float64 `json:"max_drawdown"`
	LargestWin      float64 `json:"largest_win"`
	LargestLoss     float64 `json:"largest_loss"`
	// Warnings carries numeric-degeneracy notices (e.g. an infinite
	// win/loss ratio when no losses exist) alongside the result.
	Warnings []string `json:"warnings,omitempty"`
}

// ToJSON exports metrics to JSON
func (m PerformanceMetrics) ToJSON() string {
	data, _ := json.Marshal(m)
	return string(data)
}
