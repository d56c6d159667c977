package models

import (
	"time"
)

// TradeDirection identifies which side of the market a position was on
type TradeDirection string

const (
	TradeDirectionLong  TradeDirection = "long"
	TradeDirectionShort TradeDirection = "short"
)

// Trade represents one closed position from a trading account history.
// Instances are treated as immutable once constructed; the engine never
// modifies a ledger it is handed.
type Trade struct {
	Symbol     string         `json:"symbol"`
	Direction  TradeDirection `json:"direction" validate:"oneof=long short"`
	Volume     float64        `json:"volume" validate:"gt=0"`
	OpenPrice  float64        `json:"open_price"`
	ClosePrice float64        `json:"close_price"`
	Profit     float64        `json:"profit"`
	Commission float64        `json:"commission"`
	Swap       float64        `json:"swap"`
	// CloseTime is optional; a zero value means the ledger carries no
	// timestamps and each trade is bucketed as its own trading day.
	CloseTime time.Time `json:"close_time,omitempty"`
}

// NetProfit returns realized profit including commission and swap
func (t Trade) NetProfit() float64 {
	return t.Profit + t.Commission + t.Swap
}

// IsWin reports whether the trade closed with a positive profit
func (t Trade) IsWin() bool {
	return t.Profit > 0
}

// IsLoss reports whether the trade closed with a negative profit
func (t Trade) IsLoss() bool {
	return t.Profit < 0
}

// DayBucket returns the UTC calendar day the trade closed on, used to
// group trades into simulated trading days. Zero for untimed trades.
func (t Trade) DayBucket() time.Time {
	if t.CloseTime.IsZero() {
		return time.Time{}
	}
	return t.CloseTime.UTC().Truncate(24 * time.Hour)
}

// Profits extracts the profit series from a ledger in close order
func Profits(trades []Trade) []float64 {
	profits := make([]float64, len(trades))
	for i, trade := range trades {
		profits[i] = trade.Profit
	}
	return profits
}

// LargestLoss returns the most negative profit in the ledger and whether
// any losing trade exists at all
func LargestLoss(trades []Trade) (float64, bool) {
	largest := 0.0
	found := false
	for _, trade := range trades {
		if trade.Profit < largest {
			largest = trade.Profit
			found = true
		}
	}
	return largest, found
}
