package analysis

import (
	"math"
	"testing"

	"github.com/yourusername/risk-optima/internal/models"
)

func ledgerOf(profits ...float64) []models.Trade {
	trades := make([]models.Trade, len(profits))
	for i, profit := range profits {
		trades[i] = models.Trade{
			Symbol:    "EURUSD",
			Direction: models.TradeDirectionLong,
			Volume:    1,
			Profit:    profit,
		}
	}
	return trades
}

func TestAnalyzeBasicMetrics(t *testing.T) {
	trades := ledgerOf(100, 100, 100, 100, 100, 100, -50, -50, -50, -50)

	metrics, err := Analyze(trades, AnalyzeOptions{})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if metrics.TotalTrades != 10 {
		t.Fatalf("expected 10 trades, got %d", metrics.TotalTrades)
	}
	if metrics.WinCount != 6 || metrics.LossCount != 4 {
		t.Fatalf("expected 6 wins and 4 losses, got %d/%d", metrics.WinCount, metrics.LossCount)
	}
	if metrics.WinProbability != 0.6 {
		t.Fatalf("expected win probability 0.6, got %v", metrics.WinProbability)
	}
	if metrics.AvgWin != 100 || metrics.AvgLoss != 50 {
		t.Fatalf("expected avg win 100 and avg loss 50, got %v/%v", metrics.AvgWin, metrics.AvgLoss)
	}
	if metrics.WinLossRatio != 2 {
		t.Fatalf("expected win/loss ratio 2, got %v", metrics.WinLossRatio)
	}
	if metrics.ProfitFactor != 3 {
		t.Fatalf("expected profit factor 3, got %v", metrics.ProfitFactor)
	}
	if math.Abs(metrics.Expectancy-40) > 1e-9 {
		t.Fatalf("expected expectancy 40, got %v", metrics.Expectancy)
	}
	if metrics.LargestWin != 100 || metrics.LargestLoss != 50 {
		t.Fatalf("unexpected extremes: %v/%v", metrics.LargestWin, metrics.LargestLoss)
	}
}

func TestAnalyzeInsufficientData(t *testing.T) {
	_, err := Analyze(ledgerOf(10, -5, 10, -5, 10), AnalyzeOptions{})
	if err == nil {
		t.Fatalf("expected error for short ledger")
	}
	if !models.IsInsufficientData(err) {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}
}

func TestAnalyzeNoLossesReportsInf(t *testing.T) {
	trades := ledgerOf(10, 10, 10, 10, 10, 10, 10, 10, 10, 10)

	metrics, err := Analyze(trades, AnalyzeOptions{})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if !math.IsInf(metrics.WinLossRatio, 1) {
		t.Fatalf("expected +Inf win/loss ratio, got %v", metrics.WinLossRatio)
	}
	if !math.IsInf(metrics.ProfitFactor, 1) {
		t.Fatalf("expected +Inf profit factor, got %v", metrics.ProfitFactor)
	}
	if math.IsNaN(metrics.WinLossRatio) || math.IsNaN(metrics.ProfitFactor) {
		t.Fatalf("ratios must never be NaN")
	}
	if len(metrics.Warnings) == 0 {
		t.Fatalf("expected warnings for undefined ratios")
	}
}

func TestAnalyzeRobustUsesMedian(t *testing.T) {
	// One outlier win dominates the mean but not the median
	trades := ledgerOf(10, 10, 10, 10, 1000, -20, -20, -20, -20, -20)

	robust, err := Analyze(trades, AnalyzeOptions{Robust: true})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if robust.AvgWin != 10 {
		t.Fatalf("expected median win 10, got %v", robust.AvgWin)
	}

	classic, err := Analyze(trades, AnalyzeOptions{})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if classic.AvgWin != 208 {
		t.Fatalf("expected mean win 208, got %v", classic.AvgWin)
	}
}

func TestMaxDrawdown(t *testing.T) {
	trades := ledgerOf(100, -30, -40, 10, 50, -5, 20, -10, 5, 15)
	// Equity peaks at 100 and troughs at 30
	dd := maxDrawdown(trades)
	if dd != 70 {
		t.Fatalf("expected max drawdown 70, got %v", dd)
	}
}

func TestMedianEvenCount(t *testing.T) {
	if m := median([]float64{1, 3, 5, 7}); m != 4 {
		t.Fatalf("expected median 4, got %v", m)
	}
	if m := median([]float64{5, 1, 3}); m != 3 {
		t.Fatalf("expected median 3, got %v", m)
	}
}
