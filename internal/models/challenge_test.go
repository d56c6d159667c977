package models

import (
	"errors"
	"testing"
)

func validChallenge() ChallengeParams {
	return ChallengeParams{
		AccountSize:           100000,
		ProfitTargetPercent:   10,
		MaxDailyLossPercent:   5,
		MaxOverallLossPercent: 10,
		MinTradingDays:        5,
	}
}

func TestChallengeValidate(t *testing.T) {
	if err := validChallenge().Validate(); err != nil {
		t.Fatalf("expected valid challenge, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*ChallengeParams)
		field  string
	}{
		{"zero account", func(p *ChallengeParams) { p.AccountSize = 0 }, "account_size"},
		{"zero target", func(p *ChallengeParams) { p.ProfitTargetPercent = 0 }, "profit_target_percent"},
		{"zero daily loss", func(p *ChallengeParams) { p.MaxDailyLossPercent = 0 }, "max_daily_loss_percent"},
		{"zero overall loss", func(p *ChallengeParams) { p.MaxOverallLossPercent = 0 }, "max_overall_loss_percent"},
		{"negative min days", func(p *ChallengeParams) { p.MinTradingDays = -1 }, "min_trading_days"},
		{"max below min days", func(p *ChallengeParams) { p.MinTradingDays = 10; p.MaxTradingDays = 5 }, "max_trading_days"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			challenge := validChallenge()
			tc.mutate(&challenge)
			err := challenge.Validate()
			if err == nil {
				t.Fatalf("expected validation error")
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tc.field {
				t.Fatalf("expected field %q, got %q", tc.field, ve.Field)
			}
		})
	}
}

func TestChallengeCurrencyHelpers(t *testing.T) {
	challenge := validChallenge()
	if target := challenge.ProfitTarget(); target != 10000 {
		t.Fatalf("expected profit target 10000, got %v", target)
	}
	if daily := challenge.MaxDailyLoss(); daily != 5000 {
		t.Fatalf("expected daily loss limit 5000, got %v", daily)
	}
	if overall := challenge.MaxOverallLoss(); overall != 10000 {
		t.Fatalf("expected overall loss limit 10000, got %v", overall)
	}
}

func TestChallengeUnlimitedDays(t *testing.T) {
	challenge := validChallenge()
	challenge.MaxTradingDays = 0
	if err := challenge.Validate(); err != nil {
		t.Fatalf("zero max days means unlimited, got %v", err)
	}
}
