package models

import (
	"testing"
	"time"
)

func TestNetProfit(t *testing.T) {
	trade := Trade{Profit: 100, Commission: -7, Swap: -3}
	if net := trade.NetProfit(); net != 90 {
		t.Fatalf("expected net profit 90, got %v", net)
	}
}

func TestDayBucket(t *testing.T) {
	closeTime := time.Date(2025, 6, 3, 17, 45, 12, 0, time.UTC)
	trade := Trade{CloseTime: closeTime}
	expected := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	if bucket := trade.DayBucket(); !bucket.Equal(expected) {
		t.Fatalf("expected bucket %v, got %v", expected, bucket)
	}

	untimed := Trade{}
	if !untimed.DayBucket().IsZero() {
		t.Fatalf("expected zero bucket for untimed trade")
	}
}

func TestLargestLoss(t *testing.T) {
	trades := []Trade{{Profit: 50}, {Profit: -30}, {Profit: -120}, {Profit: 10}}
	loss, found := LargestLoss(trades)
	if !found || loss != -120 {
		t.Fatalf("expected -120, got %v (found=%v)", loss, found)
	}

	_, found = LargestLoss([]Trade{{Profit: 10}, {Profit: 20}})
	if found {
		t.Fatalf("expected no loss found")
	}
}

func TestProfits(t *testing.T) {
	trades := []Trade{{Profit: 1}, {Profit: -2}, {Profit: 3}}
	profits := Profits(trades)
	if len(profits) != 3 || profits[0] != 1 || profits[1] != -2 || profits[2] != 3 {
		t.Fatalf("unexpected profit series: %v", profits)
	}
}
