package agents

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/finsight-ai/finsight/internal/dataflows"
	"github.com/finsight-ai/finsight/internal/llm"
	"github.com/finsight-ai/finsight/internal/models"
)

// NewsSearcher is the slice of the Tavily client the sentiment agent needs.
type NewsSearcher interface {
	GetSentimentNews(ticker string) ([]*dataflows.NewsArticle, error)
	GetRecentNews(ticker string, maxResults int) ([]*dataflows.NewsArticle, error)
}

// fallbackNewsLimit bounds the broader search used when the
// sentiment-targeted query returns nothing.
const fallbackNewsLimit = 5

// SentimentAgent scores the tone of the earnings call and cross-checks it
// against current market news.
type SentimentAgent struct {
	gen  llm.Generator
	news NewsSearcher
	log  *zap.SugaredLogger
}

func NewSentimentAgent(gen llm.Generator, news NewsSearcher, log *zap.SugaredLogger) *SentimentAgent {
	return &SentimentAgent{gen: gen, news: news, log: log}
}

func (a *SentimentAgent) Name() string { return string(models.KindSentiment) }

func (a *SentimentAgent) Process(ctx context.Context, state *models.RunState) (*models.Update, error) {
	ticker := state.Request.Ticker

	// News lookup failures degrade the validation, not the analysis.
	var headlines []string
	var validations []string
	articles, err := a.news.GetSentimentNews(ticker)
	if err == nil && len(articles) == 0 {
		// Sentiment-targeted query found nothing; broaden to general news.
		articles, err = a.news.GetRecentNews(ticker, fallbackNewsLimit)
	}
	if err != nil {
		a.log.Warnw("news validation unavailable", "ticker", ticker, "error", err)
		validations = append(validations, fmt.Sprintf("News validation unavailable: %v", err))
	} else {
		for _, article := range articles {
			headlines = append(headlines, article.Title)
		}
		validations = append(validations,
			fmt.Sprintf("Validated sentiment using %d news articles from Tavily", len(articles)))
	}

	prompt := a.buildPrompt(ticker, state.TranscriptContent, headlines)

	var result models.SentimentResult
	if err := a.gen.Generate(ctx, prompt, &result); err != nil {
		return nil, err
	}

	result.NewsHeadlines = headlines
	result.ToolValidations = append(result.ToolValidations, validations...)

	a.log.Infow("sentiment analysis complete",
		"ticker", ticker, "sentiment", result.OverallSentiment, "confidence", result.Confidence)
	return &models.Update{Sentiment: &result}, nil
}

func (a *SentimentAgent) buildPrompt(ticker, transcript string, headlines []string) string {
	newsBlock := "No recent news available."
	if len(headlines) > 0 {
		newsBlock = bulletLines(headlines)
	}

	return fmt.Sprintf(`You are a financial sentiment analysis specialist.

Analyze the sentiment of this earnings call for %s.

Transcript excerpt:
%s

Recent market news headlines:
%s

Consider management tone, forward guidance language, and how the market news
aligns with the call. Respond with JSON only:
{
  "overall_sentiment": "very_negative|negative|neutral|positive|very_positive",
  "sentiment_score": <-1.0 to 1.0>,
  "market_sentiment": "<one paragraph summarizing market reaction>",
  "key_sentiment_drivers": ["<driver>"],
  "confidence": <0.0-1.0>
}`, ticker, excerpt(transcript, sentimentExcerptLimit), strings.TrimRight(newsBlock, "\n"))
}
