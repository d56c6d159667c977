// Package engine orchestrates the full risk-sizing pipeline: performance
// analysis, sizing-fraction candidates, challenge simulation sweep and
// final aggregation.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/risk-optima/internal/analysis"
	"github.com/yourusername/risk-optima/internal/metrics"
	"github.com/yourusername/risk-optima/internal/models"
	"github.com/yourusername/risk-optima/internal/simulation"
)

// Options configure an engine instance
type Options struct {
	Robust                bool
	FractionalKelly       float64
	OptimalFPrecision     float64
	OptimalFIterations    int
	SweepStep             float64
	Simulation            simulation.Config
	IncludeBreakdown      bool
	MinAcceptablePassRate float64
	MetricsCacheTTL       time.Duration
}

func (o Options) withDefaults() Options {
	if o.FractionalKelly <= 0 {
		o.FractionalKelly = 0.5
	}
	if o.OptimalFPrecision <= 0 {
		o.OptimalFPrecision = analysis.DefaultOptimalFPrecision
	}
	if o.OptimalFIterations <= 0 {
		o.OptimalFIterations = 1000
	}
	if o.MetricsCacheTTL <= 0 {
		o.MetricsCacheTTL = 5 * time.Minute
	}
	return o
}

// Engine runs the analysis pipeline. It is safe for concurrent use; all
// pipeline stages are pure functions over the inputs of one call.
type Engine struct {
	opts   Options
	logger *logrus.Logger
	cache  *metricsCache
}

// New creates an engine with the given options
func New(opts Options, logger *logrus.Logger) *Engine {
	if logger == nil {
		logger = logrus.New()
	}
	opts = opts.withDefaults()
	return &Engine{
		opts:   opts,
		logger: logger,
		cache:  newMetricsCache(opts.MetricsCacheTTL),
	}
}

// Analyze computes performance metrics for a ledger, serving repeated
// calls for the same ledger from cache.
func (e *Engine) Analyze(trades []models.Trade) (*models.PerformanceMetrics, error) {
	key := ledgerHash(trades, e.opts.Robust)
	if cached := e.cache.get(key); cached != nil {
		return cached, nil
	}

	result, err := analysis.Analyze(trades, analysis.AnalyzeOptions{Robust: e.opts.Robust})
	if err != nil {
		return nil, err
	}
	e.cache.set(key, result)
	return result, nil
}

// Run executes the full pipeline and returns a structured report. The
// ledger is never mutated and the engine retains no state beyond the
// metrics cache.
func (e *Engine) Run(ctx context.Context, trades []models.Trade, challenge models.ChallengeParams) (*models.EngineReport, error) {
	started := time.Now()
	report := &models.EngineReport{RunID: uuid.New(), CreatedAt: started.UTC()}

	log := e.logger.WithFields(logrus.Fields{
		"run_id":       report.RunID,
		"total_trades": len(trades),
		"account_size": challenge.AccountSize,
	})
	log.Info("Starting risk analysis run")

	if err := challenge.Validate(); err != nil {
		metrics.RecordEngineRun("failure")
		return nil, err
	}

	perf, err := e.Analyze(trades)
	if err != nil {
		metrics.RecordEngineRun("failure")
		return nil, fmt.Errorf("performance analysis failed: %w", err)
	}
	report.Metrics = *perf
	report.Warnings = append(report.Warnings, perf.Warnings...)

	candidates := simulation.DefaultSweepFractions(e.opts.SweepStep)
	candidates = e.appendKellyCandidate(report, perf, candidates, log)
	candidates = e.appendOptimalFCandidate(report, trades, candidates, log)

	sweep, err := simulation.SimulateSweep(ctx, trades, challenge, candidates, e.opts.Simulation)
	if err != nil {
		metrics.RecordEngineRun("failure")
		return nil, fmt.Errorf("challenge sweep failed: %w", err)
	}

	recommendation, err := simulation.Aggregate(sweep, simulation.AggregateOptions{
		MinAcceptablePassRate: e.opts.MinAcceptablePassRate,
		IncludeBreakdown:      e.opts.IncludeBreakdown,
	})
	if err != nil {
		metrics.RecordEngineRun("failure")
		return nil, err
	}
	report.Recommendation = recommendation

	status := "success"
	if recommendation.Partial {
		status = "partial"
	}
	metrics.RecordEngineRun(status)
	metrics.ObserveRunDuration(time.Since(started))
	metrics.ObservePassRate(recommendation.PassRate)

	log.WithFields(logrus.Fields{
		"recommended_fraction": recommendation.RecommendedFraction,
		"pass_rate":            recommendation.PassRate,
		"partial":              recommendation.Partial,
		"duration":             time.Since(started),
	}).Info("Risk analysis run completed")

	return report, nil
}

// appendKellyCandidate adds the fractional-Kelly fraction to the sweep
// when the ledger statistics support it. Degenerate statistics are a
// warning, not a failure; the default sweep still runs.
func (e *Engine) appendKellyCandidate(report *models.EngineReport, perf *models.PerformanceMetrics, candidates []float64, log *logrus.Entry) []float64 {
	kelly, err := analysis.Kelly(perf.WinProbability, perf.WinLossRatio, e.opts.FractionalKelly)
	if err != nil {
		var ve *models.ValidationError
		if errors.As(err, &ve) {
			report.Warnings = append(report.Warnings, "kelly sizing unavailable: "+ve.Error())
			log.WithError(err).Warn("Kelly candidate skipped")
			return candidates
		}
		report.Warnings = append(report.Warnings, "kelly sizing unavailable")
		return candidates
	}
	report.KellyFraction = kelly.Fraction
	report.Warnings = append(report.Warnings, kelly.Warnings...)
	return appendFraction(candidates, kelly.Fraction)
}

func (e *Engine) appendOptimalFCandidate(report *models.EngineReport, trades []models.Trade, candidates []float64, log *logrus.Entry) []float64 {
	optf, err := analysis.OptimalF(trades, e.opts.OptimalFPrecision, e.opts.OptimalFIterations)
	if err != nil {
		report.Warnings = append(report.Warnings, "optimal f sizing unavailable: "+err.Error())
		log.WithError(err).Warn("Optimal F candidate skipped")
		return candidates
	}
	report.OptimalF = optf.OptimalF
	report.TWR = optf.TWR
	report.Warnings = append(report.Warnings, optf.Warnings...)
	return appendFraction(candidates, optf.OptimalF)
}

// appendFraction adds a candidate unless it is out of range or already
// present within tolerance.
func appendFraction(candidates []float64, fraction float64) []float64 {
	if fraction <= 0 || fraction >= 1 {
		return candidates
	}
	for _, existing := range candidates {
		if diff := existing - fraction; diff > -1e-9 && diff < 1e-9 {
			return candidates
		}
	}
	return append(candidates, fraction)
}
