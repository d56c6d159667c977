package models

// ChallengeParams describes the rule set of a funded-account challenge.
// All percentages are relative to AccountSize. Overall loss is measured
// as drawdown from the running equity peak; daily loss from the day's
// opening balance.
type ChallengeParams struct {
	AccountSize           float64 `json:"account_size" mapstructure:"account_size" validate:"required,gt=0"`
	ProfitTargetPercent   float64 `json:"profit_target_percent" mapstructure:"profit_target_percent" validate:"required,gt=0"`
	MaxDailyLossPercent   float64 `json:"max_daily_loss_percent" mapstructure:"max_daily_loss_percent" validate:"required,gt=0"`
	MaxOverallLossPercent float64 `json:"max_overall_loss_percent" mapstructure:"max_overall_loss_percent" validate:"required,gt=0"`
	MinTradingDays        int     `json:"min_trading_days" mapstructure:"min_trading_days" validate:"gte=0"`
	// MaxTradingDays of zero means the challenge has no day limit
	MaxTradingDays int `json:"max_trading_days,omitempty" mapstructure:"max_trading_days" validate:"gte=0"`
}

// Validate performs the engine's internal consistency checks. Schema and
// type validation belong to the calling layer.
func (p ChallengeParams) Validate() error {
	if p.AccountSize <= 0 {
		return NewValidationError("account_size", p.AccountSize, "must be positive")
	}
	if p.ProfitTargetPercent <= 0 {
		return NewValidationError("profit_target_percent", p.ProfitTargetPercent, "must be positive")
	}
	if p.MaxDailyLossPercent <= 0 {
		return NewValidationError("max_daily_loss_percent", p.MaxDailyLossPercent, "must be positive")
	}
	if p.MaxOverallLossPercent <= 0 {
		return NewValidationError("max_overall_loss_percent", p.MaxOverallLossPercent, "must be positive")
	}
	if p.MinTradingDays < 0 {
		return NewValidationError("min_trading_days", p.MinTradingDays, "cannot be negative")
	}
	if p.MaxTradingDays < 0 {
		return NewValidationError("max_trading_days", p.MaxTradingDays, "cannot be negative")
	}
	if p.MaxTradingDays > 0 && p.MaxTradingDays < p.MinTradingDays {
		return NewValidationError("max_trading_days", p.MaxTradingDays, "cannot be below min_trading_days")
	}
	return nil
}

// ProfitTarget returns the target expressed in account currency
func (p ChallengeParams) ProfitTarget() float64 {
	return p.AccountSize * p.ProfitTargetPercent / 100.0
}

// MaxDailyLoss returns the daily loss limit in account currency
func (p ChallengeParams) MaxDailyLoss() float64 {
	return p.AccountSize * p.MaxDailyLossPercent / 100.0
}

// MaxOverallLoss returns the overall loss limit in account currency
func (p ChallengeParams) MaxOverallLoss() float64 {
	return p.AccountSize * p.MaxOverallLossPercent / 100.0
}
