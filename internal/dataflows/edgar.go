package dataflows

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"github.com/finsight-ai/finsight/config"
)

// EdgarClient looks up recent filings on SEC EDGAR. The SEC requires every
// automated client to identify itself via the User-Agent header.
type EdgarClient struct {
	client *resty.Client
	cache  *CacheManager
}

// NewEdgarClient creates an EDGAR client identified by the configured
// company name and contact email.
func NewEdgarClient(cfg *config.Config) *EdgarClient {
	cacheDir := filepath.Join(cfg.DataCacheDir, "edgar")
	cache := NewCacheManager(cacheDir, 12*time.Hour, cfg.CacheEnabled)

	client := resty.New()
	client.SetBaseURL("https://www.sec.gov")
	client.SetTimeout(30 * time.Second)
	client.SetHeader("User-Agent", fmt.Sprintf("%s %s", cfg.SECCompanyName, cfg.SECEmail))

	return &EdgarClient{
		client: client,
		cache:  cache,
	}
}

// RecentFilings returns up to limit recent filings per type for a ticker.
// The result is keyed by filing type; a type with no filings maps to an
// empty slice rather than being absent.
func (ec *EdgarClient) RecentFilings(ticker string, filingTypes []string, limit int) (map[string][]*Filing, error) {
	if err := ValidateSymbol(ticker); err != nil {
		return nil, err
	}
	ticker = NormalizeSymbol(ticker)

	if len(filingTypes) == 0 {
		filingTypes = []string{"10-K", "10-Q", "8-K"}
	}

	results := make(map[string][]*Filing, len(filingTypes))
	var firstErr error
	for _, ft := range filingTypes {
		filings, err := ec.filingsByType(ticker, ft, limit)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			results[ft] = nil
			continue
		}
		results[ft] = filings
	}

	// Partial results are still useful; only fail when every type failed.
	allFailed := firstErr != nil
	for _, filings := range results {
		if filings != nil {
			allFailed = false
		}
	}
	if allFailed {
		return nil, firstErr
	}
	return results, nil
}

func (ec *EdgarClient) filingsByType(ticker, filingType string, limit int) ([]*Filing, error) {
	cacheKey := map[string]interface{}{"ticker": ticker, "type": filingType, "limit": limit}

	var cached []*Filing
	if ec.cache.Get("edgar", "filings", cacheKey, &cached) {
		return cached, nil
	}

	var result []*Filing
	err := WithRetry(DefaultRetryConfig(), func() error {
		resp, err := ec.client.R().
			SetQueryParams(map[string]string{
				"action": "getcompany",
				"ticker": ticker,
				"type":   filingType,
				"owner":  "include",
				"count":  fmt.Sprintf("%d", limit),
			}).
			Get("/cgi-bin/browse-edgar")
		if err != nil {
			return fmt.Errorf("EDGAR lookup failed: %w", err)
		}
		if resp.IsError() {
			return fmt.Errorf("EDGAR lookup returned %s", resp.Status())
		}

		result, err = parseFilingTable(ticker, resp.String(), limit)
		return err
	})
	if err != nil {
		return nil, err
	}

	ec.cache.Set("edgar", "filings", cacheKey, result)

	return result, nil
}

// parseFilingTable extracts filing rows from the EDGAR browse page.
func parseFilingTable(ticker, html string, limit int) ([]*Filing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse EDGAR page: %w", err)
	}

	filings := make([]*Filing, 0, limit)
	doc.Find("table.tableFile2 tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() < 4 {
			return true // header row
		}

		filing := &Filing{
			Ticker:      ticker,
			FilingType:  strings.TrimSpace(cells.Eq(0).Text()),
			Description: strings.TrimSpace(cells.Eq(2).Text()),
		}
		if href, ok := cells.Eq(1).Find("a").Attr("href"); ok {
			filing.DocumentURL = "https://www.sec.gov" + href
		}
		if date, err := time.Parse("2006-01-02", strings.TrimSpace(cells.Eq(3).Text())); err == nil {
			filing.FilingDate = date
		}

		filings = append(filings, filing)
		return len(filings) < limit
	})

	return filings, nil
}
