package simulation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/yourusername/risk-optima/internal/models"
)

// scaling resolves a RiskModel against a ledger once, before any run
// starts. riskUnit converts a trade's profit into an R-multiple;
// compound selects whether position size tracks current balance or the
// initial account size.
type scaling struct {
	riskUnit float64
	compound bool
}

func resolveScaling(model RiskModel, trades []models.Trade) (scaling, error) {
	largestLoss, hasLoss := models.LargestLoss(trades)
	if !hasLoss {
		return scaling{}, models.NewValidationError("largest_loss", largestLoss,
			"ledger has no losing trade; risk scaling is undefined")
	}

	switch model {
	case RiskModelKelly:
		lossSum := 0.0
		lossCount := 0
		for _, trade := range trades {
			if trade.Profit < 0 {
				lossSum += -trade.Profit
				lossCount++
			}
		}
		return scaling{riskUnit: lossSum / float64(lossCount), compound: true}, nil
	case RiskModelFixed:
		return scaling{riskUnit: -largestLoss, compound: false}, nil
	default:
		return scaling{riskUnit: -largestLoss, compound: true}, nil
	}
}

// Simulate runs cfg.NumSimulations independent bootstrap-resampled
// equity paths at one risk fraction and reduces them to an aggregate
// outcome. With an explicit non-zero seed the outcome sequence is
// bit-identical across calls and worker counts; unseeded runs draw a
// process-entropy seed and are not reproducible.
//
// The ledger and challenge parameters are shared read-only across all
// workers; no run's state is visible to another.
func Simulate(ctx context.Context, trades []models.Trade, challenge models.ChallengeParams, fraction float64, cfg Config) (AggregateOutcome, error) {
	if len(trades) == 0 {
		return AggregateOutcome{}, models.ErrEmptyLedger
	}
	if err := challenge.Validate(); err != nil {
		return AggregateOutcome{}, err
	}
	if fraction <= 0 || fraction >= 1 {
		return AggregateOutcome{}, models.NewValidationError("fraction", fraction, "must be in (0, 1)")
	}
	if err := cfg.validate(); err != nil {
		return AggregateOutcome{}, err
	}
	cfg = cfg.withDefaults()

	scale, err := resolveScaling(cfg.RiskModel, trades)
	if err != nil {
		return AggregateOutcome{}, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	if cfg.MaxDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.MaxDuration)
		defer cancel()
	}

	// Outcomes are stored at their run index so the recorded sequence is
	// independent of how runs were partitioned across workers.
	outcomes := make([]SimulationOutcome, cfg.NumSimulations)
	done := make([]bool, cfg.NumSimulations)

	var wg sync.WaitGroup
	next := make(chan int)
	go func() {
		defer close(next)
		for run := 0; run < cfg.NumSimulations; run++ {
			select {
			case next <- run:
			case <-ctx.Done():
				return
			}
		}
	}()

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for run := range next {
				// Per-run derived seed: reproducible and parallel-safe
				// without a shared random stream.
				rng := rand.New(rand.NewSource(seed ^ int64(run)))
				outcomes[run] = runPath(trades, challenge, fraction, scale, rng)
				done[run] = true
			}
		}()
	}
	wg.Wait()

	// Workers stop at run boundaries, so a run is either fully recorded
	// or not started. Compact to the completed prefix-preserving order.
	completed := 0
	for i := range outcomes {
		if done[i] {
			outcomes[completed] = outcomes[i]
			completed++
		}
	}

	aggregate := AggregateOutcome{Summary: reduce(fraction, outcomes, completed, cfg)}
	if completed < cfg.NumSimulations {
		aggregate.Summary.Partial = true
		aggregate.Warnings = append(aggregate.Warnings, fmt.Sprintf(
			"simulation budget exhausted: %d of %d runs completed", completed, cfg.NumSimulations))
	}
	if cfg.KeepOutcomes {
		aggregate.Outcomes = outcomes[:completed]
	}
	return aggregate, nil
}

// runPath walks one bootstrap sample of the ledger against the challenge
// rules and records the outcome. Terminal checks run after every trade.
func runPath(trades []models.Trade, challenge models.ChallengeParams, fraction float64, scale scaling, rng *rand.Rand) SimulationOutcome {
	outcome := SimulationOutcome{RiskFraction: fraction}

	balance := challenge.AccountSize
	peak := balance
	dayOpen := balance
	days := 1
	maxDrawdown := 0.0

	target := challenge.AccountSize + challenge.ProfitTarget()
	maxDailyLoss := challenge.MaxDailyLoss()
	maxOverallLoss := challenge.MaxOverallLoss()

	var prevBucket time.Time
	haveBucket := false

	for i := 0; i < len(trades); i++ {
		trade := trades[rng.Intn(len(trades))]

		// A new trading day starts when the drawn trade's close-day
		// bucket changes; untimed ledgers advance one day per trade.
		bucket := trade.DayBucket()
		if i > 0 && (!haveBucket || bucket.IsZero() || !bucket.Equal(prevBucket)) {
			days++
			dayOpen = balance
			if challenge.MaxTradingDays > 0 && days > challenge.MaxTradingDays {
				outcome.FailReason = FailMaxDaysExceeded
				break
			}
		}
		prevBucket = bucket
		haveBucket = !bucket.IsZero()

		base := balance
		if !scale.compound {
			base = challenge.AccountSize
		}
		balance += fraction * base * (trade.Profit / scale.riskUnit)

		if balance > peak {
			peak = balance
		}
		if dd := peak - balance; dd > maxDrawdown {
			maxDrawdown = dd
		}

		if dayOpen-balance > maxDailyLoss {
			outcome.FailReason = FailDailyLoss
			break
		}
		if peak-balance > maxOverallLoss {
			outcome.FailReason = FailOverallLoss
			break
		}
		if balance >= target && days >= challenge.MinTradingDays {
			outcome.Passed = true
			break
		}
	}

	if !outcome.Passed && outcome.FailReason == FailNone {
		outcome.FailReason = FailTargetNotReached
	}
	outcome.RealizedMaxDrawdown = maxDrawdown
	outcome.TradingDays = days
	outcome.FinalEquity = balance
	return outcome
}

// SimulateSweep runs Simulate once per candidate fraction. Fractions are
// processed sequentially; parallelism lives inside each Simulate call.
// Candidate seeds are derived from the base seed and the fraction index
// so sweeps stay reproducible end to end.
func SimulateSweep(ctx context.Context, trades []models.Trade, challenge models.ChallengeParams, fractions []float64, cfg Config) ([]AggregateOutcome, error) {
	if len(fractions) == 0 {
		return nil, models.NewValidationError("fractions", fractions, "at least one candidate fraction is required")
	}

	baseSeed := cfg.Seed
	results := make([]AggregateOutcome, 0, len(fractions))
	for i, fraction := range fractions {
		fractionCfg := cfg
		if baseSeed != 0 {
			fractionCfg.Seed = baseSeed + int64(i)*0x9e3779b9
		}
		aggregate, err := Simulate(ctx, trades, challenge, fraction, fractionCfg)
		if err != nil {
			return nil, fmt.Errorf("simulating fraction %.4f: %w", fraction, err)
		}
		results = append(results, aggregate)
		if ctx.Err() != nil {
			break
		}
	}
	return results, nil
}

// DefaultSweepFractions returns the standard candidate range, 0.1% to
// 2.0% in the given step (0 means 0.1% steps).
func DefaultSweepFractions(step float64) []float64 {
	if step <= 0 {
		step = 0.001
	}
	fractions := make([]float64, 0, 20)
	for f := 0.001; f <= 0.020+1e-12; f += step {
		fractions = append(fractions, math.Round(f*1e6)/1e6)
	}
	return fractions
}
