// Package analysis reduces trade ledgers to performance statistics and
// derives optimal position-sizing fractions from them.
package analysis

import (
	"math"
	"sort"

	"github.com/yourusername/risk-optima/internal/models"
)

// MinTrades is the smallest ledger the analyzer accepts. Below this the
// statistics are not meaningful and the call fails instead of returning
// a degenerate result.
const MinTrades = 10

// AnalyzeOptions control how estimators are computed
type AnalyzeOptions struct {
	// Robust switches avg win/loss to median-based estimators, which
	// reduces sensitivity to a handful of outlier trades.
	Robust bool
}

// Analyze reduces a ledger to scalar performance statistics. The ledger
// is read-only; Analyze never mutates it and retains no state.
func Analyze(trades []models.Trade, opts AnalyzeOptions) (*models.PerformanceMetrics, error) {
	if len(trades) < MinTrades {
		return nil, &models.InsufficientDataError{Got: len(trades), Min: MinTrades}
	}

	metrics := &models.PerformanceMetrics{TotalTrades: len(trades)}

	wins := make([]float64, 0, len(trades))
	losses := make([]float64, 0, len(trades))
	grossProfit := 0.0
	grossLoss := 0.0
	for _, trade := range trades {
		switch {
		case trade.Profit > 0:
			wins = append(wins, trade.Profit)
			grossProfit += trade.Profit
			if trade.Profit > metrics.LargestWin {
				metrics.LargestWin = trade.Profit
			}
		case trade.Profit < 0:
			loss := math.Abs(trade.Profit)
			losses = append(losses, loss)
			grossLoss += loss
			if loss > metrics.LargestLoss {
				metrics.LargestLoss = loss
			}
		}
	}

	metrics.WinCount = len(wins)
	metrics.LossCount = len(losses)
	metrics.WinProbability = float64(len(wins)) / float64(len(trades))
	metrics.LossProbability = float64(len(losses)) / float64(len(trades))

	if opts.Robust {
		metrics.AvgWin = median(wins)
		metrics.AvgLoss = median(losses)
	} else {
		metrics.AvgWin = mean(wins)
		metrics.AvgLoss = mean(losses)
	}

	metrics.WinLossRatio = guardedRatio(metrics.AvgWin, metrics.AvgLoss, "win_loss_ratio", metrics)
	metrics.ProfitFactor = guardedRatio(grossProfit, grossLoss, "profit_factor", metrics)
	metrics.Expectancy = metrics.WinProbability*metrics.AvgWin - metrics.LossProbability*metrics.AvgLoss
	metrics.MaxDrawdown = maxDrawdown(trades)

	return metrics, nil
}

// guardedRatio divides numerator by denominator, substituting a flagged
// sentinel when the denominator is zero so the pipeline never sees a NaN.
func guardedRatio(numerator, denominator float64, name string, metrics *models.PerformanceMetrics) float64 {
	if denominator != 0 {
		return numerator / denominator
	}
	if numerator == 0 {
		return 0
	}
	metrics.Warnings = append(metrics.Warnings, name+" is undefined (no losing trades); reported as +Inf")
	return math.Inf(1)
}

// maxDrawdown scans the cumulative-profit curve for the largest
// peak-to-trough decline, in account currency.
func maxDrawdown(trades []models.Trade) float64 {
	equity := 0.0
	peak := 0.0
	maxDD := 0.0
	for _, trade := range trades {
		equity += trade.Profit
		if equity > peak {
			peak = equity
		}
		if dd := peak - equity; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64{}, values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2.0
	}
	return sorted[mid]
}
