package engine

import (
	"context"
	"math/rand"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/risk-optima/internal/models"
	"github.com/yourusername/risk-optima/internal/simulation"
)

func testLedger(n int) []models.Trade {
	rng := rand.New(rand.NewSource(11))
	trades := make([]models.Trade, n)
	for i := range trades {
		profit := 100 + rng.Float64()*50
		if rng.Float64() > 0.6 {
			profit = -(50 + rng.Float64()*30)
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

func testOptions() Options {
	return Options{
		Simulation: simulation.Config{
			NumSimulations: 200,
			Seed:           42,
			Workers:        4,
		},
		IncludeBreakdown: true,
	}
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func TestEngineRunEndToEnd(t *testing.T) {
	eng := New(testOptions(), quietLogger())
	trades := testLedger(150)

	report, err := eng.Run(context.Background(), trades, testChallenge())
	require.NoError(t, err)

	assert.NotEqual(t, report.RunID.String(), "00000000-0000-0000-0000-000000000000")
	assert.Equal(t, 150, report.Metrics.TotalTrades)
	assert.Greater(t, report.Metrics.WinProbability, 0.0)
	assert.Less(t, report.Metrics.WinProbability, 1.0)

	// Kelly is clamped into the safe operating band when computable
	assert.GreaterOrEqual(t, report.KellyFraction, 0.001)
	assert.LessOrEqual(t, report.KellyFraction, 0.05)

	assert.Greater(t, report.OptimalF, 0.0)
	assert.Less(t, report.OptimalF, 1.0)
	assert.Greater(t, report.TWR, 0.0)

	rec := report.Recommendation
	assert.Greater(t, rec.RecommendedFraction, 0.0)
	assert.Less(t, rec.RecommendedFraction, 1.0)
	assert.GreaterOrEqual(t, rec.PassRate, 0.0)
	assert.LessOrEqual(t, rec.PassRate, 1.0)
	assert.NotEmpty(t, rec.Breakdown)
	assert.False(t, rec.Partial)
}

func TestEngineRunDeterministicWithSeed(t *testing.T) {
	trades := testLedger(150)
	challenge := testChallenge()

	first, err := New(testOptions(), quietLogger()).Run(context.Background(), trades, challenge)
	require.NoError(t, err)
	second, err := New(testOptions(), quietLogger()).Run(context.Background(), trades, challenge)
	require.NoError(t, err)

	assert.Equal(t, first.Recommendation.RecommendedFraction, second.Recommendation.RecommendedFraction)
	assert.Equal(t, first.Recommendation.PassRate, second.Recommendation.PassRate)
	assert.Equal(t, first.KellyFraction, second.KellyFraction)
	assert.Equal(t, first.OptimalF, second.OptimalF)
}

func TestEngineRunInvalidChallenge(t *testing.T) {
	eng := New(testOptions(), quietLogger())
	challenge := testChallenge()
	challenge.AccountSize = 0

	_, err := eng.Run(context.Background(), testLedger(50), challenge)
	require.Error(t, err)
	assert.True(t, models.IsValidationError(err))
}

func TestEngineRunInsufficientLedger(t *testing.T) {
	eng := New(testOptions(), quietLogger())

	_, err := eng.Run(context.Background(), testLedger(5), testChallenge())
	require.Error(t, err)
	assert.True(t, models.IsInsufficientData(err))
}

func TestEngineAnalyzeCaches(t *testing.T) {
	eng := New(testOptions(), quietLogger())
	trades := testLedger(50)

	first, err := eng.Analyze(trades)
	require.NoError(t, err)
	second, err := eng.Analyze(trades)
	require.NoError(t, err)

	// Second call is served from cache and returns the same instance
	assert.Same(t, first, second)
}

func TestEngineAnalyzeCacheKeyedByMode(t *testing.T) {
	trades := testLedger(50)

	classic := New(testOptions(), quietLogger())
	robustOpts := testOptions()
	robustOpts.Robust = true
	robust := New(robustOpts, quietLogger())

	classicMetrics, err := classic.Analyze(trades)
	require.NoError(t, err)
	robustMetrics, err := robust.Analyze(trades)
	require.NoError(t, err)

	assert.NotEqual(t, classicMetrics.AvgWin, robustMetrics.AvgWin)
}

func TestAppendFraction(t *testing.T) {
	candidates := []float64{0.001, 0.002}

	assert.Len(t, appendFraction(candidates, 0.01), 3)
	assert.Len(t, appendFraction(candidates, 0.002), 2)
	assert.Len(t, appendFraction(candidates, 0), 2)
	assert.Len(t, appendFraction(candidates, 1), 2)
}
