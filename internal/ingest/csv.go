// Package ingest parses MT5 trade-history exports into trade ledgers.
// It is a host-side collaborator: the engine itself never reads files.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourusername/risk-optima/internal/metrics"
	"github.com/yourusername/risk-optima/internal/models"
)

// Result is a parsed ledger plus parse diagnostics
type Result struct {
	Trades  []models.Trade
	Skipped int
}

// Column layout of an MT5 positions CSV export. CloseTime is optional;
// older exports omit it.
const (
	colSymbol = iota
	colType
	colVolume
	colOpenPrice
	colClosePrice
	colProfit
	colCommission
	colSwap
	colCloseTime
	minColumns = colSwap + 1
)

const closeTimeLayout = "2006.01.02 15:04:05"

// ParseCSV reads an MT5 positions CSV export. Rows that cannot be
// parsed are skipped and counted rather than failing the whole file; a
// file yielding no trades at all is an error.
func ParseCSV(r io.Reader) (Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	result := Result{}
	first := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Result{}, fmt.Errorf("failed to read csv: %w", err)
		}
		if first {
			first = false
			if isHeaderRow(record) {
				continue
			}
		}
		if len(record) < minColumns || strings.Contains(record[colSymbol], "Positions") {
			result.Skipped++
			continue
		}

		trade, err := tradeFromRecord(record)
		if err != nil {
			result.Skipped++
			continue
		}
		result.Trades = append(result.Trades, trade)
	}

	if len(result.Trades) == 0 {
		return Result{}, fmt.Errorf("no valid trades found in csv input (%d rows skipped)", result.Skipped)
	}
	metrics.RecordLedgerIngested("csv")
	return result, nil
}

func tradeFromRecord(record []string) (models.Trade, error) {
	direction, err := parseDirection(record[colType])
	if err != nil {
		return models.Trade{}, err
	}
	volume, err := parseDecimal(record[colVolume])
	if err != nil {
		return models.Trade{}, fmt.Errorf("volume: %w", err)
	}
	if volume <= 0 {
		return models.Trade{}, fmt.Errorf("volume must be positive, got %v", volume)
	}
	openPrice, err := parseDecimal(record[colOpenPrice])
	if err != nil {
		return models.Trade{}, fmt.Errorf("open price: %w", err)
	}
	closePrice, err := parseDecimal(record[colClosePrice])
	if err != nil {
		return models.Trade{}, fmt.Errorf("close price: %w", err)
	}
	profit, err := parseDecimal(record[colProfit])
	if err != nil {
		return models.Trade{}, fmt.Errorf("profit: %w", err)
	}

	trade := models.Trade{
		Symbol:     strings.TrimSpace(record[colSymbol]),
		Direction:  direction,
		Volume:     volume,
		OpenPrice:  openPrice,
		ClosePrice: closePrice,
		Profit:     profit,
	}
	// Commission and swap are optional in MT5 exports
	if commission, err := parseDecimal(record[colCommission]); err == nil {
		trade.Commission = commission
	}
	if swap, err := parseDecimal(record[colSwap]); err == nil {
		trade.Swap = swap
	}
	if len(record) > colCloseTime {
		if closeTime, err := time.Parse(closeTimeLayout, strings.TrimSpace(record[colCloseTime])); err == nil {
			trade.CloseTime = closeTime.UTC()
		}
	}
	return trade, nil
}

// parseDecimal parses MT5 money formatting, tolerating thousands
// separators and surrounding spaces, with exact decimal semantics.
func parseDecimal(raw string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), " ", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return 0, fmt.Errorf("empty numeric field")
	}
	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, err
	}
	result, _ := value.Float64()
	return result, nil
}

func parseDirection(raw string) (models.TradeDirection, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "buy", "long":
		return models.TradeDirectionLong, nil
	case "sell", "short":
		return models.TradeDirectionShort, nil
	default:
		return "", fmt.Errorf("unknown trade type %q", raw)
	}
}

func isHeaderRow(record []string) bool {
	if len(record) == 0 {
		return false
	}
	head := strings.ToLower(strings.TrimSpace(record[0]))
	return head == "symbol" || strings.Contains(head, "positions")
}
