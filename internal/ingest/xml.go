package ingest

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/yourusername/risk-optima/internal/metrics"
	"github.com/yourusername/risk-optima/internal/models"
)

// xmlReport mirrors the MT5 XML report layout: a Positions section
// containing one Position element per closed trade.
type xmlReport struct {
	XMLName   xml.Name      `xml:"Report"`
	Positions []xmlPosition `xml:"Positions>Position"`
}

type xmlPosition struct {
	Symbol     string `xml:"Symbol"`
	Type       string `xml:"Type"`
	Volume     string `xml:"Volume"`
	OpenPrice  string `xml:"OpenPrice"`
	ClosePrice string `xml:"ClosePrice"`
	Profit     string `xml:"Profit"`
	Commission string `xml:"Commission"`
	Swap       string `xml:"Swap"`
	CloseTime  string `xml:"CloseTime"`
}

// ParseXML reads an MT5 XML report export. Positions that cannot be
// parsed are skipped and counted; a report with no usable positions is
// an error.
func ParseXML(r io.Reader) (Result, error) {
	var report xmlReport
	decoder := xml.NewDecoder(r)
	if err := decoder.Decode(&report); err != nil {
		return Result{}, fmt.Errorf("failed to parse xml report: %w", err)
	}
	if len(report.Positions) == 0 {
		return Result{}, fmt.Errorf("xml report contains no Positions section or it is empty")
	}

	result := Result{}
	for _, position := range report.Positions {
		trade, err := tradeFromPosition(position)
		if err != nil {
			result.Skipped++
			continue
		}
		result.Trades = append(result.Trades, trade)
	}

	if len(result.Trades) == 0 {
		return Result{}, fmt.Errorf("no valid trades found in xml input (%d positions skipped)", result.Skipped)
	}
	metrics.RecordLedgerIngested("xml")
	return result, nil
}

func tradeFromPosition(position xmlPosition) (models.Trade, error) {
	record := []string{
		position.Symbol,
		position.Type,
		position.Volume,
		position.OpenPrice,
		position.ClosePrice,
		position.Profit,
		position.Commission,
		position.Swap,
	}
	trade, err := tradeFromRecord(record)
	if err != nil {
		return models.Trade{}, err
	}
	if closeTime, err := time.Parse(closeTimeLayout, strings.TrimSpace(position.CloseTime)); err == nil {
		trade.CloseTime = closeTime.UTC()
	}
	return trade, nil
}
