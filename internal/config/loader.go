// Package config provides configuration management for the RiskOptima engine.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load reads and parses the configuration from file and environment
// variables. Environment variable placeholders in the YAML file
// (${VAR_NAME}) are expanded before parsing.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	v.SetEnvPrefix("RISK_OPTIMA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional
// fields; a missing file is not an error.
func LoadWithDefaults(configPath string) (*Config, error) {
	v := viper.New()
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	v.SetConfigType("yaml")
	v.SetEnvPrefix("RISK_OPTIMA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "risk-optima")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("engine.fractional_kelly", 0.5)
	v.SetDefault("engine.optimal_f_precision", 1e-6)
	v.SetDefault("engine.optimal_f_max_iterations", 1000)
	v.SetDefault("engine.sweep_step", 0.001)
	v.SetDefault("engine.min_acceptable_pass_rate", 0.5)
	v.SetDefault("engine.cache_ttl_seconds", 300)
	v.SetDefault("simulation.num_simulations", 1000)
	v.SetDefault("simulation.risk_model", "optimal_f")
	v.SetDefault("simulation.confidence_level", 0.95)
	v.SetDefault("simulation.interval_method", "wilson")
	v.SetDefault("challenge.account_size", 100000)
	v.SetDefault("challenge.profit_target_percent", 10)
	v.SetDefault("challenge.max_daily_loss_percent", 5)
	v.SetDefault("challenge.max_overall_loss_percent", 10)
	v.SetDefault("challenge.min_trading_days", 30)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")

	if data, err := os.ReadFile(configPath); err == nil {
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}
