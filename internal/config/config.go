// Package config provides configuration management for the RiskOptima engine.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Engine     EngineConfig     `mapstructure:"engine" validate:"required"`
	Simulation SimulationConfig `mapstructure:"simulation" validate:"required"`
	Challenge  ChallengeConfig  `mapstructure:"challenge" validate:"required"`
	Metrics    MetricsConfig    `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents the optional result-store connection. The
// engine itself is stateless; persistence is a host-layer concern and
// only used when Enabled is set.
type DatabaseConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host" validate:"required_if=Enabled true"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required_if=Enabled true"`
	User           string `mapstructure:"user" validate:"required_if=Enabled true"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
}

// EngineConfig represents analysis pipeline defaults
type EngineConfig struct {
	RobustEstimators      bool    `mapstructure:"robust_estimators"`
	FractionalKelly       float64 `mapstructure:"fractional_kelly" validate:"required,gt=0,lte=1"`
	OptimalFPrecision     float64 `mapstructure:"optimal_f_precision" validate:"required,gt=0,lt=1"`
	OptimalFMaxIterations int     `mapstructure:"optimal_f_max_iterations" validate:"required,gt=0"`
	SweepStep             float64 `mapstructure:"sweep_step" validate:"required,gt=0,lte=0.01"`
	MinAcceptablePassRate float64 `mapstructure:"min_acceptable_pass_rate" validate:"gte=0,lte=1"`
	CacheTTLSeconds       int     `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
}

// SimulationConfig represents Monte Carlo simulation defaults
type SimulationConfig struct {
	NumSimulations     int     `mapstructure:"num_simulations" validate:"required,gte=100,lte=100000"`
	Seed               int64   `mapstructure:"seed"`
	RiskModel          string  `mapstructure:"risk_model" validate:"required,riskmodel"`
	ConfidenceLevel    float64 `mapstructure:"confidence_level" validate:"required,gt=0,lt=1"`
	IntervalMethod     string  `mapstructure:"interval_method" validate:"required,oneof=wilson normal"`
	MaxDurationSeconds int     `mapstructure:"max_duration_seconds" validate:"gte=0"`
	Workers            int     `mapstructure:"workers" validate:"gte=0"`
}

// ChallengeConfig represents default funded-account challenge rules,
// overridable per invocation.
type ChallengeConfig struct {
	AccountSize           float64 `mapstructure:"account_size" validate:"required,gt=0"`
	ProfitTargetPercent   float64 `mapstructure:"profit_target_percent" validate:"required,gt=0"`
	MaxDailyLossPercent   float64 `mapstructure:"max_daily_loss_percent" validate:"required,gt=0"`
	MaxOverallLossPercent float64 `mapstructure:"max_overall_loss_percent" validate:"required,gt=0"`
	MinTradingDays        int     `mapstructure:"min_trading_days" validate:"gte=0"`
	MaxTradingDays        int     `mapstructure:"max_trading_days" validate:"gte=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SimulationBudget returns the configured wall-clock budget, zero when
// unbounded.
func (c *Config) SimulationBudget() time.Duration {
	return time.Duration(c.Simulation.MaxDurationSeconds) * time.Second
}
