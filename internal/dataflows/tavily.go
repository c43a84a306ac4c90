package dataflows

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/finsight-ai/finsight/config"
)

// TavilyClient searches financial news via the Tavily API.
type TavilyClient struct {
	client *resty.Client
	cache  *CacheManager
	apiKey string
}

// NewTavilyClient creates a Tavily search client.
func NewTavilyClient(cfg *config.Config) *TavilyClient {
	cacheDir := filepath.Join(cfg.DataCacheDir, "tavily")
	cache := NewCacheManager(cacheDir, 6*time.Hour, cfg.CacheEnabled) // 6 hour cache for news

	client := resty.New()
	client.SetBaseURL("https://api.tavily.com")
	client.SetTimeout(30 * time.Second)

	return &TavilyClient{
		client: client,
		cache:  cache,
		apiKey: cfg.TavilyAPIKey,
	}
}

type tavilySearchRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth"`
	MaxResults  int    `json:"max_results"`
}

type tavilySearchResponse struct {
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

// Search runs one Tavily query and returns up to maxResults articles.
func (tc *TavilyClient) Search(query string, maxResults int) ([]*NewsArticle, error) {
	if tc.apiKey == "" {
		return nil, fmt.Errorf("Tavily API key not configured")
	}

	cacheKey := map[string]interface{}{"query": query, "max": maxResults}

	var cached []*NewsArticle
	if tc.cache.Get("tavily", "search", cacheKey, &cached) {
		return cached, nil
	}

	var result []*NewsArticle
	err := WithRetry(DefaultRetryConfig(), func() error {
		var body tavilySearchResponse
		resp, err := tc.client.R().
			SetBody(&tavilySearchRequest{
				APIKey:      tc.apiKey,
				Query:       query,
				SearchDepth: "advanced",
				MaxResults:  maxResults,
			}).
			SetResult(&body).
			Post("/search")
		if err != nil {
			return fmt.Errorf("tavily search failed: %w", err)
		}
		if resp.IsError() {
			return fmt.Errorf("tavily search returned %s", resp.Status())
		}

		result = make([]*NewsArticle, 0, len(body.Results))
		for _, r := range body.Results {
			result = append(result, &NewsArticle{
				Title:   r.Title,
				Content: r.Content,
				URL:     r.URL,
				Source:  "tavily",
				Score:   r.Score,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	tc.cache.Set("tavily", "search", cacheKey, result)

	return result, nil
}

// GetSentimentNews returns articles relevant to sentiment validation for a
// ticker.
func (tc *TavilyClient) GetSentimentNews(ticker string) ([]*NewsArticle, error) {
	if err := ValidateSymbol(ticker); err != nil {
		return nil, err
	}
	ticker = NormalizeSymbol(ticker)

	query := fmt.Sprintf("%s earnings sentiment market reaction analyst financial news", ticker)
	return tc.Search(query, 5)
}

// GetRecentNews returns the latest general news for a ticker.
func (tc *TavilyClient) GetRecentNews(ticker string, maxResults int) ([]*NewsArticle, error) {
	if err := ValidateSymbol(ticker); err != nil {
		return nil, err
	}
	ticker = NormalizeSymbol(ticker)

	query := fmt.Sprintf("%s earnings stock news latest", ticker)
	return tc.Search(query, maxResults)
}
