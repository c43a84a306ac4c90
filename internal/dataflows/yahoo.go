package dataflows

import (
	"fmt"
	"math"
	"path/filepath"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/quote"
	"github.com/shopspring/decimal"

	"github.com/finsight-ai/finsight/config"
)

// tradingDaysPerYear annualizes daily return volatility.
const tradingDaysPerYear = 252

// YahooClient fetches market data from Yahoo Finance.
type YahooClient struct {
	cache *CacheManager
}

// NewYahooClient creates a Yahoo Finance client.
func NewYahooClient(cfg *config.Config) *YahooClient {
	cacheDir := filepath.Join(cfg.DataCacheDir, "yahoo_finance")
	cache := NewCacheManager(cacheDir, 24*time.Hour, cfg.CacheEnabled)

	return &YahooClient{cache: cache}
}

// GetQuote gets the current quote for a symbol.
func (yc *YahooClient) GetQuote(symbol string) (*MarketData, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)

	var cached MarketData
	if yc.cache.Get("yahoo", "quote", symbol, &cached) {
		return &cached, nil
	}

	var result *MarketData
	err := WithRetry(DefaultRetryConfig(), func() error {
		q, err := quote.Get(symbol)
		if err != nil {
			return fmt.Errorf("failed to get quote for %s: %w", symbol, err)
		}

		result = &MarketData{
			Symbol:    symbol,
			Date:      time.Now(),
			Open:      decimal.NewFromFloat(q.RegularMarketOpen),
			High:      decimal.NewFromFloat(q.RegularMarketDayHigh),
			Low:       decimal.NewFromFloat(q.RegularMarketDayLow),
			Close:     decimal.NewFromFloat(q.RegularMarketPrice),
			AdjClose:  decimal.NewFromFloat(q.RegularMarketPrice),
			Volume:    int64(q.RegularMarketVolume),
			Timestamp: time.Now(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	yc.cache.Set("yahoo", "quote", symbol, result)

	return result, nil
}

// GetHistoricalData gets daily bars for a symbol between start and end.
func (yc *YahooClient) GetHistoricalData(symbol string, start, end time.Time) ([]*MarketData, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)

	cacheKey := map[string]interface{}{
		"symbol": symbol,
		"start":  start.Format("2006-01-02"),
		"end":    end.Format("2006-01-02"),
	}

	var cached []*MarketData
	if yc.cache.Get("yahoo", "historical", cacheKey, &cached) {
		return cached, nil
	}

	var result []*MarketData
	err := WithRetry(DefaultRetryConfig(), func() error {
		params := &chart.Params{
			Symbol:   symbol,
			Start:    datetime.New(&start),
			End:      datetime.New(&end),
			Interval: datetime.OneDay,
		}

		iter := chart.Get(params)

		result = make([]*MarketData, 0)
		for iter.Next() {
			bar := iter.Bar()
			result = append(result, &MarketData{
				Symbol:    symbol,
				Date:      time.Unix(int64(bar.Timestamp), 0),
				Open:      bar.Open,
				High:      bar.High,
				Low:       bar.Low,
				Close:     bar.Close,
				AdjClose:  bar.AdjClose,
				Volume:    int64(bar.Volume),
				Timestamp: time.Now(),
			})
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("failed to get history for %s: %w", symbol, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	yc.cache.Set("yahoo", "historical", cacheKey, result)

	return result, nil
}

// HistoricalVolatility computes annualized volatility from one month of
// daily closes.
func (yc *YahooClient) HistoricalVolatility(symbol string) (float64, error) {
	end := time.Now()
	start := end.AddDate(0, -1, 0)

	bars, err := yc.GetHistoricalData(symbol, start, end)
	if err != nil {
		return 0, err
	}

	closes := make([]float64, 0, len(bars))
	for _, bar := range bars {
		c, _ := bar.Close.Float64()
		if c > 0 {
			closes = append(closes, c)
		}
	}
	return AnnualizedVolatility(closes), nil
}

// PriceMovement summarizes one month of price action.
func (yc *YahooClient) PriceMovement(symbol string) (*PriceMovement, error) {
	end := time.Now()
	start := end.AddDate(0, -1, 0)

	bars, err := yc.GetHistoricalData(symbol, start, end)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no price history for %s", symbol)
	}

	startPrice, _ := bars[0].Close.Float64()
	endPrice, _ := bars[len(bars)-1].Close.Float64()

	movement := &PriceMovement{
		StartPrice: startPrice,
		EndPrice:   endPrice,
	}
	if startPrice != 0 {
		movement.ChangePercent = (endPrice - startPrice) / startPrice * 100
	}
	for _, bar := range bars {
		high, _ := bar.High.Float64()
		low, _ := bar.Low.Float64()
		if high > movement.High {
			movement.High = high
		}
		if movement.Low == 0 || (low > 0 && low < movement.Low) {
			movement.Low = low
		}
	}
	return movement, nil
}

// AnnualizedVolatility computes the annualized standard deviation of daily
// returns from a series of closing prices.
func AnnualizedVolatility(closes []float64) float64 {
	if len(closes) < 2 {
		return 0
	}

	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] != 0 {
			returns = append(returns, closes[i]/closes[i-1]-1)
		}
	}
	if len(returns) < 2 {
		return 0
	}

	var mean float64
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	var variance float64
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	// Sample standard deviation (n-1 denominator).
	variance /= float64(len(returns) - 1)

	return math.Sqrt(variance) * math.Sqrt(tradingDaysPerYear)
}
