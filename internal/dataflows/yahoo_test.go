package dataflows

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnnualizedVolatilityFlatSeriesIsZero(t *testing.T) {
	closes := []float64{100, 100, 100, 100, 100}
	assert.Equal(t, 0.0, AnnualizedVolatility(closes))
}

func TestAnnualizedVolatilityKnownSeries(t *testing.T) {
	// Alternating +1%/-1% daily returns: 4 returns with a population stddev
	// close to 1%, scaled by the sample-stddev correction sqrt(n/(n-1)).
	closes := []float64{100, 101, 99.99, 100.9899, 99.98}
	vol := AnnualizedVolatility(closes)

	daily := 0.01 * math.Sqrt(4.0/3.0)
	expected := daily * math.Sqrt(252)
	assert.InDelta(t, expected, vol, expected*0.05)
}

func TestAnnualizedVolatilityTooShort(t *testing.T) {
	assert.Equal(t, 0.0, AnnualizedVolatility(nil))
	assert.Equal(t, 0.0, AnnualizedVolatility([]float64{100}))
	assert.Equal(t, 0.0, AnnualizedVolatility([]float64{100, 101}))
}

func TestValidateSymbol(t *testing.T) {
	assert.NoError(t, ValidateSymbol("AAPL"))
	assert.NoError(t, ValidateSymbol("brk.b"))
	assert.Error(t, ValidateSymbol(""))
	assert.Error(t, ValidateSymbol("WAY_TOO_LONG_TICKER"))
	assert.Error(t, ValidateSymbol("BAD TICKER"))
}

func TestParseFilingTable(t *testing.T) {
	html := `<html><body><table class="tableFile2">
<tr><th>Filings</th><th>Format</th><th>Description</th><th>Filing Date</th><th>File Number</th></tr>
<tr><td>8-K</td><td><a href="/Archives/edgar/data/1/x.htm">Documents</a></td><td>Current report</td><td>2025-08-01</td><td>001</td></tr>
<tr><td>8-K</td><td><a href="/Archives/edgar/data/1/y.htm">Documents</a></td><td>Current report</td><td>2025-07-15</td><td>001</td></tr>
</table></body></html>`

	filings, err := parseFilingTable("AAPL", html, 3)
	assert.NoError(t, err)
	assert.Len(t, filings, 2)
	assert.Equal(t, "8-K", filings[0].FilingType)
	assert.Equal(t, "Current report", filings[0].Description)
	assert.Equal(t, "https://www.sec.gov/Archives/edgar/data/1/x.htm", filings[0].DocumentURL)
	assert.Equal(t, "2025-08-01", filings[0].FilingDate.Format("2006-01-02"))
}

func TestParseFilingTableHonorsLimit(t *testing.T) {
	html := `<table class="tableFile2">
<tr><td>8-K</td><td><a href="/a">D</a></td><td>r1</td><td>2025-01-01</td></tr>
<tr><td>8-K</td><td><a href="/b">D</a></td><td>r2</td><td>2025-01-02</td></tr>
<tr><td>8-K</td><td><a href="/c">D</a></td><td>r3</td><td>2025-01-03</td></tr>
</table>`

	filings, err := parseFilingTable("MSFT", html, 2)
	assert.NoError(t, err)
	assert.Len(t, filings, 2)
}

func TestCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cm := NewCacheManager(dir, 1e9*3600, true)

	in := []*NewsArticle{{Title: "Q2 beat", URL: "https://example.com"}}
	assert.NoError(t, cm.Set("tavily", "search", "AAPL", in))

	var out []*NewsArticle
	assert.True(t, cm.Get("tavily", "search", "AAPL", &out))
	assert.Equal(t, in[0].Title, out[0].Title)

	var miss []*NewsArticle
	assert.False(t, cm.Get("tavily", "search", "MSFT", &miss))
}

func TestCacheDisabled(t *testing.T) {
	cm := NewCacheManager(t.TempDir(), 1e9, false)
	assert.NoError(t, cm.Set("s", "m", "k", "v"))

	var out string
	assert.False(t, cm.Get("s", "m", "k", &out))
}
