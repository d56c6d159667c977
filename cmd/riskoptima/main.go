// Package main provides the entry point for the RiskOptima CLI tool.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/risk-optima/internal/config"
	"github.com/yourusername/risk-optima/internal/database"
	"github.com/yourusername/risk-optima/internal/engine"
	"github.com/yourusername/risk-optima/internal/health"
	"github.com/yourusername/risk-optima/internal/ingest"
	"github.com/yourusername/risk-optima/internal/logger"
	"github.com/yourusername/risk-optima/internal/models"
	"github.com/yourusername/risk-optima/internal/repository"
	"github.com/yourusername/risk-optima/internal/simulation"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	inputFile  string
	format     string
	appLog     *logrus.Logger
	cfg        *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&inputFile, "input", "i", "", "Path to MT5 trade history export")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "", "Input format: csv or xml (default: by extension)")

	runCmd.Flags().Bool("persist", false, "Persist the report to the configured database")
	runCmd.Flags().Bool("breakdown", false, "Include the per-fraction breakdown in the report")
	runCmd.Flags().Int64("seed", 0, "Random seed override (0 uses the configured seed)")
	simulateCmd.Flags().Float64("fraction", 0.01, "Risk fraction to simulate")
	simulateCmd.Flags().Int64("seed", 0, "Random seed override (0 uses the configured seed)")

	rootCmd.AddCommand(analyzeCmd, runCmd, simulateCmd, serveCmd, versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "riskoptima",
	Short: "Risk sizing and prop-firm challenge simulation",
	Long: `RiskOptima analyzes a trade history export, computes Kelly and
Optimal F position-sizing candidates and simulates funded-account
challenge pass rates across a sweep of risk fractions.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		var err error
		cfg, err = config.LoadWithDefaults(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
			region := os.Getenv("AWS_REGION")
			secretName := os.Getenv("AWS_SECRET_NAME")
			if region == "" || secretName == "" {
				return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
			}
			if err := config.LoadSecretsFromAWS(cmd.Context(), cfg, region, secretName); err != nil {
				return fmt.Errorf("failed to load secrets: %w", err)
			}
		}
		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		appLog = logger.NewLogger(cfg.App.LogLevel)
		return nil
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("riskoptima %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compute performance metrics for a trade history",
	RunE: func(cmd *cobra.Command, args []string) error {
		trades, err := loadLedger()
		if err != nil {
			return err
		}
		eng := engine.New(engineOptions(false), appLog)
		metrics, err := eng.Analyze(trades)
		if err != nil {
			return err
		}
		return printJSON(metrics)
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full analysis and challenge simulation pipeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		trades, err := loadLedger()
		if err != nil {
			return err
		}
		breakdown, _ := cmd.Flags().GetBool("breakdown")
		persist, _ := cmd.Flags().GetBool("persist")
		seed, _ := cmd.Flags().GetInt64("seed")

		opts := engineOptions(breakdown)
		if seed != 0 {
			opts.Simulation.Seed = seed
		}
		eng := engine.New(opts, appLog)
		report, err := eng.Run(cmd.Context(), trades, challengeParams())
		if err != nil {
			return err
		}
		if persist {
			if err := persistReport(cmd.Context(), report); err != nil {
				return err
			}
		}
		return printJSON(report)
	},
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate challenge outcomes at a single risk fraction",
	RunE: func(cmd *cobra.Command, args []string) error {
		trades, err := loadLedger()
		if err != nil {
			return err
		}
		fraction, _ := cmd.Flags().GetFloat64("fraction")
		seed, _ := cmd.Flags().GetInt64("seed")

		simCfg, err := simulationConfig()
		if err != nil {
			return err
		}
		if seed != 0 {
			simCfg.Seed = seed
		}
		outcome, err := simulation.Simulate(cmd.Context(), trades, challengeParams(), fraction, simCfg)
		if err != nil {
			return err
		}
		return printJSON(outcome.Summary)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve health check and Prometheus metrics endpoints",
	RunE: func(cmd *cobra.Command, args []string) error {
		var pinger health.DatabasePinger
		if cfg.Database.Enabled {
			db, err := database.NewDB(cmd.Context(), &cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer db.Close()
			pinger = db
		}

		server := health.NewServer(health.Config{
			ServiceName: cfg.App.Name,
			Version:     Version,
			Commit:      GitCommit,
			Port:        fmt.Sprintf("%d", cfg.Metrics.Port),
			MetricsPath: cfg.Metrics.Path,
			Logger:      appLog,
			DB:          pinger,
		})
		if err := server.Start(cmd.Context()); err != nil {
			return err
		}
		server.SetReady(true)

		<-cmd.Context().Done()
		return server.Shutdown()
	},
}

func loadLedger() ([]models.Trade, error) {
	if inputFile == "" {
		return nil, fmt.Errorf("an input file is required, pass --input")
	}
	file, err := os.Open(inputFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	resolved := format
	if resolved == "" {
		resolved = strings.TrimPrefix(filepath.Ext(inputFile), ".")
	}

	var result ingest.Result
	switch strings.ToLower(resolved) {
	case "csv":
		result, err = ingest.ParseCSV(file)
	case "xml":
		result, err = ingest.ParseXML(file)
	default:
		return nil, fmt.Errorf("unsupported input format %q, expected csv or xml", resolved)
	}
	if err != nil {
		return nil, err
	}
	if result.Skipped > 0 {
		appLog.WithFields(logrus.Fields{
			"skipped": result.Skipped,
			"trades":  len(result.Trades),
		}).Warn("Some rows could not be parsed")
	}
	return result.Trades, nil
}

func engineOptions(breakdown bool) engine.Options {
	simCfg, err := simulationConfig()
	if err != nil {
		// Config validation already passed, parse errors cannot occur here
		appLog.WithError(err).Warn("Falling back to default simulation config")
		simCfg = simulation.Config{}
	}
	return engine.Options{
		Robust:                cfg.Engine.RobustEstimators,
		FractionalKelly:       cfg.Engine.FractionalKelly,
		OptimalFPrecision:     cfg.Engine.OptimalFPrecision,
		OptimalFIterations:    cfg.Engine.OptimalFMaxIterations,
		SweepStep:             cfg.Engine.SweepStep,
		Simulation:            simCfg,
		IncludeBreakdown:      breakdown,
		MinAcceptablePassRate: cfg.Engine.MinAcceptablePassRate,
		MetricsCacheTTL:       time.Duration(cfg.Engine.CacheTTLSeconds) * time.Second,
	}
}

func simulationConfig() (simulation.Config, error) {
	model, err := simulation.ParseRiskModel(cfg.Simulation.RiskModel)
	if err != nil {
		return simulation.Config{}, err
	}
	method, err := simulation.ParseIntervalMethod(cfg.Simulation.IntervalMethod)
	if err != nil {
		return simulation.Config{}, err
	}
	return simulation.Config{
		NumSimulations:  cfg.Simulation.NumSimulations,
		Seed:            cfg.Simulation.Seed,
		RiskModel:       model,
		ConfidenceLevel: cfg.Simulation.ConfidenceLevel,
		IntervalMethod:  method,
		MaxDuration:     cfg.SimulationBudget(),
		Workers:         cfg.Simulation.Workers,
	}, nil
}

func challengeParams() models.ChallengeParams {
	return models.ChallengeParams{
		AccountSize:           cfg.Challenge.AccountSize,
		ProfitTargetPercent:   cfg.Challenge.ProfitTargetPercent,
		MaxDailyLossPercent:   cfg.Challenge.MaxDailyLossPercent,
		MaxOverallLossPercent: cfg.Challenge.MaxOverallLossPercent,
		MinTradingDays:        cfg.Challenge.MinTradingDays,
		MaxTradingDays:        cfg.Challenge.MaxTradingDays,
	}
}

func persistReport(ctx context.Context, report *models.EngineReport) error {
	if !cfg.Database.Enabled {
		return fmt.Errorf("persistence requested but database is disabled in configuration")
	}
	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if err := database.EnsureSchema(ctx, db); err != nil {
		return err
	}
	repo := repository.NewPostgresReportRepository(db)
	if err := repo.Save(ctx, report); err != nil {
		return err
	}
	appLog.WithField("run_id", report.RunID).Info("Report persisted")
	return nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
