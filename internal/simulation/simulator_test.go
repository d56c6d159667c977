package simulation

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/yourusername/risk-optima/internal/models"
)

func testLedger(n int) []models.Trade {
	rng := rand.New(rand.NewSource(7))
	trades := make([]models.Trade, n)
	for i := range trades {
		profit := 80 + rng.Float64()*40
		if rng.Float64() > 0.6 {
			profit = -(40 + rng.Float64()*30)
		}
		trades[i] = models.Trade{
			Symbol:    "EURUSD",
			Direction: models.TradeDirectionLong,
			Volume:    1,
			Profit:    profit,
		}
	}
	return trades
}

func testChallenge() models.ChallengeParams {
	return models.ChallengeParams{
		AccountSize:           100000,
		ProfitTargetPercent:   10,
		MaxDailyLossPercent:   5,
		MaxOverallLossPercent: 10,
		MinTradingDays:        5,
	}
}

func TestSimulateDeterministicAcrossWorkers(t *testing.T) {
	trades := testLedger(100)
	challenge := testChallenge()

	base := Config{NumSimulations: 200, Seed: 42, KeepOutcomes: true}

	serial := base
	serial.Workers = 1
	parallel := base
	parallel.Workers = 8

	first, err := Simulate(context.Background(), trades, challenge, 0.01, serial)
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	second, err := Simulate(context.Background(), trades, challenge, 0.01, parallel)
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	if len(first.Outcomes) != len(second.Outcomes) {
		t.Fatalf("outcome counts differ: %d vs %d", len(first.Outcomes), len(second.Outcomes))
	}
	for i := range first.Outcomes {
		if first.Outcomes[i] != second.Outcomes[i] {
			t.Fatalf("outcome %d differs across worker counts: %+v vs %+v", i, first.Outcomes[i], second.Outcomes[i])
		}
	}
	if first.Summary != second.Summary {
		t.Fatalf("summaries differ: %+v vs %+v", first.Summary, second.Summary)
	}
}

func TestSimulateDrawdownGrowsWithFraction(t *testing.T) {
	trades := testLedger(100)
	challenge := testChallenge()
	cfg := Config{NumSimulations: 300, Seed: 42}

	small, err := Simulate(context.Background(), trades, challenge, 0.002, cfg)
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	large, err := Simulate(context.Background(), trades, challenge, 0.02, cfg)
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	if large.Summary.MeanMaxDrawdown <= small.Summary.MeanMaxDrawdown {
		t.Fatalf("expected larger fraction to realize more drawdown: %v vs %v",
			large.Summary.MeanMaxDrawdown, small.Summary.MeanMaxDrawdown)
	}
}

func TestSimulatePassRateDecaysPastPeak(t *testing.T) {
	trades := testLedger(100)
	challenge := testChallenge()
	cfg := Config{NumSimulations: 300, Seed: 42}

	moderate, err := Simulate(context.Background(), trades, challenge, 0.005, cfg)
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	// Far past the survivable range a single losing trade breaches the
	// daily limit, so almost every path fails.
	reckless, err := Simulate(context.Background(), trades, challenge, 0.4, cfg)
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	if reckless.Summary.PassRate >= moderate.Summary.PassRate {
		t.Fatalf("expected pass rate to decay at excessive fractions: %v vs %v",
			reckless.Summary.PassRate, moderate.Summary.PassRate)
	}
}

func TestSimulateValidation(t *testing.T) {
	trades := testLedger(50)
	challenge := testChallenge()
	cfg := Config{NumSimulations: 10, Seed: 1}

	if _, err := Simulate(context.Background(), nil, challenge, 0.01, cfg); !errors.Is(err, models.ErrEmptyLedger) {
		t.Fatalf("expected ErrEmptyLedger, got %v", err)
	}
	if _, err := Simulate(context.Background(), trades, challenge, 0, cfg); !models.IsValidationError(err) {
		t.Fatalf("expected ValidationError for zero fraction, got %v", err)
	}
	if _, err := Simulate(context.Background(), trades, challenge, 1, cfg); !models.IsValidationError(err) {
		t.Fatalf("expected ValidationError for fraction of one, got %v", err)
	}

	winsOnly := []models.Trade{{Profit: 10, Volume: 1}, {Profit: 20, Volume: 1}}
	if _, err := Simulate(context.Background(), winsOnly, challenge, 0.01, cfg); !models.IsValidationError(err) {
		t.Fatalf("expected ValidationError for ledger without losses, got %v", err)
	}

	bad := challenge
	bad.AccountSize = 0
	if _, err := Simulate(context.Background(), trades, bad, 0.01, cfg); !models.IsValidationError(err) {
		t.Fatalf("expected ValidationError for bad challenge, got %v", err)
	}
}

func TestSimulateBudgetPartial(t *testing.T) {
	trades := testLedger(500)
	cfg := Config{NumSimulations: 50000, Seed: 42, MaxDuration: time.Nanosecond}

	aggregate, err := Simulate(context.Background(), trades, testChallenge(), 0.01, cfg)
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	if !aggregate.Summary.Partial {
		t.Fatalf("expected partial result under exhausted budget")
	}
	if len(aggregate.Warnings) == 0 {
		t.Fatalf("expected budget warning")
	}
	if aggregate.Summary.Simulations >= cfg.NumSimulations {
		t.Fatalf("expected fewer than %d completed runs, got %d", cfg.NumSimulations, aggregate.Summary.Simulations)
	}
}

func TestRunPathFailsDailyLoss(t *testing.T) {
	trades := []models.Trade{{Profit: -100, Volume: 1}}
	scale := scaling{riskUnit: 100, compound: true}
	rng := rand.New(rand.NewSource(1))

	outcome := runPath(trades, testChallenge(), 0.1, scale, rng)
	if outcome.Passed {
		t.Fatalf("expected failure")
	}
	if outcome.FailReason != FailDailyLoss {
		t.Fatalf("expected daily loss failure, got %q", outcome.FailReason)
	}
}

func TestRunPathPassesAtTarget(t *testing.T) {
	trades := []models.Trade{{Profit: 1000, Volume: 1}}
	scale := scaling{riskUnit: 100, compound: true}
	rng := rand.New(rand.NewSource(1))

	challenge := testChallenge()
	challenge.MinTradingDays = 0

	outcome := runPath(trades, challenge, 0.05, scale, rng)
	if !outcome.Passed {
		t.Fatalf("expected pass, got fail reason %q", outcome.FailReason)
	}
	if outcome.FailReason != FailNone {
		t.Fatalf("expected empty fail reason on pass, got %q", outcome.FailReason)
	}
}

func TestRunPathMaxDaysExceeded(t *testing.T) {
	// Untimed trades advance one simulated day each; flat profits never
	// trigger the target or a loss limit.
	trades := make([]models.Trade, 10)
	for i := range trades {
		profit := 0.01
		if i%2 == 1 {
			profit = -0.01
		}
		trades[i] = models.Trade{Profit: profit, Volume: 1}
	}
	scale := scaling{riskUnit: 0.01, compound: true}
	rng := rand.New(rand.NewSource(3))

	challenge := testChallenge()
	challenge.MaxTradingDays = 3

	outcome := runPath(trades, challenge, 0.001, scale, rng)
	if outcome.Passed {
		t.Fatalf("expected failure")
	}
	if outcome.FailReason != FailMaxDaysExceeded {
		t.Fatalf("expected max days failure, got %q", outcome.FailReason)
	}
	if outcome.TradingDays != 4 {
		t.Fatalf("expected to stop on day 4, got %d", outcome.TradingDays)
	}
}

func TestRunPathDayBucketsFromCloseTime(t *testing.T) {
	// All trades close on the same day, so the path never advances past
	// day one and MaxTradingDays cannot trigger.
	day := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	trades := make([]models.Trade, 10)
	for i := range trades {
		profit := 0.01
		if i%2 == 1 {
			profit = -0.01
		}
		trades[i] = models.Trade{Profit: profit, Volume: 1, CloseTime: day.Add(time.Duration(i) * time.Minute)}
	}
	scale := scaling{riskUnit: 0.01, compound: true}
	rng := rand.New(rand.NewSource(3))

	challenge := testChallenge()
	challenge.MaxTradingDays = 3

	outcome := runPath(trades, challenge, 0.001, scale, rng)
	if outcome.FailReason != FailTargetNotReached {
		t.Fatalf("expected target not reached, got %q", outcome.FailReason)
	}
	if outcome.TradingDays != 1 {
		t.Fatalf("expected a single trading day, got %d", outcome.TradingDays)
	}
}

func TestResolveScalingPerModel(t *testing.T) {
	trades := []models.Trade{{Profit: -100, Volume: 1}, {Profit: -50, Volume: 1}, {Profit: 200, Volume: 1}}

	optimalF, err := resolveScaling(RiskModelOptimalF, trades)
	if err != nil {
		t.Fatalf("resolveScaling failed: %v", err)
	}
	if optimalF.riskUnit != 100 || !optimalF.compound {
		t.Fatalf("unexpected optimal f scaling: %+v", optimalF)
	}

	kelly, err := resolveScaling(RiskModelKelly, trades)
	if err != nil {
		t.Fatalf("resolveScaling failed: %v", err)
	}
	if kelly.riskUnit != 75 || !kelly.compound {
		t.Fatalf("unexpected kelly scaling: %+v", kelly)
	}

	fixed, err := resolveScaling(RiskModelFixed, trades)
	if err != nil {
		t.Fatalf("resolveScaling failed: %v", err)
	}
	if fixed.riskUnit != 100 || fixed.compound {
		t.Fatalf("unexpected fixed scaling: %+v", fixed)
	}

	if _, err := resolveScaling(RiskModelOptimalF, []models.Trade{{Profit: 10}}); !models.IsValidationError(err) {
		t.Fatalf("expected ValidationError without losses, got %v", err)
	}
}

func TestSimulateSweepReproducible(t *testing.T) {
	trades := testLedger(80)
	challenge := testChallenge()
	fractions := []float64{0.005, 0.01, 0.015}
	cfg := Config{NumSimulations: 100, Seed: 42}

	first, err := SimulateSweep(context.Background(), trades, challenge, fractions, cfg)
	if err != nil {
		t.Fatalf("SimulateSweep failed: %v", err)
	}
	second, err := SimulateSweep(context.Background(), trades, challenge, fractions, cfg)
	if err != nil {
		t.Fatalf("SimulateSweep failed: %v", err)
	}
	if len(first) != len(fractions) || len(second) != len(fractions) {
		t.Fatalf("expected %d aggregates", len(fractions))
	}
	for i := range first {
		if first[i].Summary != second[i].Summary {
			t.Fatalf("sweep not reproducible at index %d", i)
		}
	}
}

func TestSimulateSweepRequiresFractions(t *testing.T) {
	_, err := SimulateSweep(context.Background(), testLedger(20), testChallenge(), nil, Config{})
	if !models.IsValidationError(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestDefaultSweepFractions(t *testing.T) {
	fractions := DefaultSweepFractions(0)
	if len(fractions) != 20 {
		t.Fatalf("expected 20 fractions, got %d", len(fractions))
	}
	if fractions[0] != 0.001 {
		t.Fatalf("expected first fraction 0.001, got %v", fractions[0])
	}
	if fractions[len(fractions)-1] != 0.02 {
		t.Fatalf("expected last fraction 0.02, got %v", fractions[len(fractions)-1])
	}
}
