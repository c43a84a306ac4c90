// Package dataflows provides the external data providers the agents use for
// validation: Tavily news search, SEC EDGAR filings, and Yahoo Finance
// market data. Every client is fail-soft from the caller's point of view and
// caches responses on disk.
package dataflows

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MarketData is one bar of stock price data.
type MarketData struct {
	Symbol    string          `json:"symbol"`
	Date      time.Time       `json:"date"`
	Open      decimal.Decimal `json:"open"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Close     decimal.Decimal `json:"close"`
	AdjClose  decimal.Decimal `json:"adj_close"`
	Volume    int64           `json:"volume"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewsArticle is one article returned by the news search provider.
type NewsArticle struct {
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
	Score       float64   `json:"score,omitempty"`
}

// Filing is one SEC filing reference found on EDGAR.
type Filing struct {
	Ticker      string    `json:"ticker"`
	FilingType  string    `json:"filing_type"`
	Description string    `json:"description"`
	FilingDate  time.Time `json:"filing_date"`
	DocumentURL string    `json:"document_url"`
}

// PriceMovement summarizes price action over a lookback window.
type PriceMovement struct {
	StartPrice    float64 `json:"start_price"`
	EndPrice      float64 `json:"end_price"`
	ChangePercent float64 `json:"change_percent"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
}

var symbolPattern = regexp.MustCompile(`^[A-Z0-9.-]{1,10}$`)

// ValidateSymbol rejects tickers that cannot be a real exchange symbol.
func ValidateSymbol(symbol string) error {
	if !symbolPattern.MatchString(strings.ToUpper(strings.TrimSpace(symbol))) {
		return fmt.Errorf("invalid ticker symbol: %q", symbol)
	}
	return nil
}

// NormalizeSymbol upper-cases and trims a ticker.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
