package agents

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/finsight-ai/finsight/internal/dataflows"
	"github.com/finsight-ai/finsight/internal/llm"
	"github.com/finsight-ai/finsight/internal/models"
)

// MarketAnalyzer is the slice of the Yahoo client the volatility agent needs.
type MarketAnalyzer interface {
	GetQuote(symbol string) (*dataflows.MarketData, error)
	HistoricalVolatility(symbol string) (float64, error)
	PriceMovement(symbol string) (*dataflows.PriceMovement, error)
}

// At most this many analysis questions get their own insight-extraction
// call per run.
const maxInsightQuestions = 5

// VolatilityAgent predicts post-call volatility. It combines structured
// insights extracted from the transcript with the sentiment and event
// results already in the run state, grounded by recent market data.
type VolatilityAgent struct {
	gen    llm.Generator
	market MarketAnalyzer
	log    *zap.SugaredLogger
}

func NewVolatilityAgent(gen llm.Generator, market MarketAnalyzer, log *zap.SugaredLogger) *VolatilityAgent {
	return &VolatilityAgent{gen: gen, market: market, log: log}
}

func (a *VolatilityAgent) Name() string { return string(models.KindVolatility) }

func (a *VolatilityAgent) Process(ctx context.Context, state *models.RunState) (*models.Update, error) {
	ticker := state.Request.Ticker

	var validations []string

	histVol, err := a.market.HistoricalVolatility(ticker)
	if err != nil {
		a.log.Warnw("historical volatility unavailable", "ticker", ticker, "error", err)
		validations = append(validations, fmt.Sprintf("Market data error: %v", err))
		histVol = 0
	} else {
		validations = append(validations,
			fmt.Sprintf("Validated against %.2f%% annualized historical volatility from Yahoo Finance", histVol*100))
	}

	movement, err := a.market.PriceMovement(ticker)
	if err != nil {
		a.log.Warnw("price movement unavailable", "ticker", ticker, "error", err)
		movement = nil
	}

	quote, err := a.market.GetQuote(ticker)
	if err != nil {
		a.log.Warnw("quote unavailable", "ticker", ticker, "error", err)
		quote = nil
	}

	insights := a.extractInsights(ctx, state)

	prompt := a.buildPrompt(state, histVol, movement, quote, insights)

	var result models.VolatilityResult
	if err := a.gen.Generate(ctx, prompt, &result); err != nil {
		return nil, err
	}

	result.HistoricalVolatility = histVol
	result.TranscriptInsights = insights
	result.ToolValidations = append(result.ToolValidations, validations...)

	a.log.Infow("volatility prediction complete",
		"ticker", ticker, "prediction", result.PredictedVolatility, "confidence", result.Confidence)
	return &models.Update{Volatility: &result}, nil
}

// extractInsights answers each analysis question with its own completion
// call. A failed question is skipped; the remaining answers still feed the
// prediction.
func (a *VolatilityAgent) extractInsights(ctx context.Context, state *models.RunState) []models.InsightAnswer {
	questions := state.Request.AnalysisQuestions
	if len(questions) > maxInsightQuestions {
		questions = questions[:maxInsightQuestions]
	}

	var insights []models.InsightAnswer
	for _, q := range questions {
		prompt := fmt.Sprintf(`Answer this question using only the earnings call transcript below.

Question: %s

Transcript excerpt:
%s

Respond with JSON only:
{
  "answer": "<direct answer, or state that the transcript does not address it>",
  "confidence": <0.0-1.0>,
  "relevant_quotes": ["<supporting quote from the transcript>"]
}`, q.Question, excerpt(state.TranscriptContent, insightExcerptLimit))

		var answer models.InsightAnswer
		if err := a.gen.Generate(ctx, prompt, &answer); err != nil {
			a.log.Warnw("insight extraction failed", "focus", q.FocusItem, "error", err)
			continue
		}
		answer.Category = q.Category
		answer.FocusItem = q.FocusItem
		answer.Question = q.Question
		insights = append(insights, answer)
	}
	return insights
}

func (a *VolatilityAgent) buildPrompt(state *models.RunState, histVol float64, movement *dataflows.PriceMovement, quote *dataflows.MarketData, insights []models.InsightAnswer) string {
	sentimentBlock := "Not available."
	if s := state.Sentiment; s != nil {
		sentimentBlock = fmt.Sprintf("%s (score %.2f, confidence %.2f)",
			s.OverallSentiment, s.SentimentScore, s.Confidence)
	}

	eventsBlock := "Not available."
	if e := state.Events; e != nil {
		eventsBlock = fmt.Sprintf("%d events detected, %d verified against SEC filings",
			e.TotalEvents, e.VerifiedCount)
	}

	marketBlock := fmt.Sprintf("Annualized historical volatility (1 month): %.2f%%", histVol*100)
	if movement != nil {
		marketBlock += fmt.Sprintf("\nPrice over the last month: %.2f to %.2f (%+.2f%%), range %.2f-%.2f",
			movement.StartPrice, movement.EndPrice, movement.ChangePercent, movement.Low, movement.High)
	}
	if quote != nil {
		last, _ := quote.Close.Float64()
		marketBlock += fmt.Sprintf("\nLast traded price: %.2f on volume %d", last, quote.Volume)
	}

	insightsBlock := "None extracted."
	if len(insights) > 0 {
		var lines []string
		for _, in := range insights {
			lines = append(lines, fmt.Sprintf("%s: %s", in.FocusItem, in.Answer))
		}
		insightsBlock = bulletLines(lines)
	}

	return fmt.Sprintf(`You are a stock volatility prediction specialist.

Predict the near-term volatility of %s following this earnings call.

Transcript excerpt:
%s

Call sentiment: %s
Significant events: %s

Market data:
%s

Structured transcript insights:
%s

Respond with JSON only:
{
  "predicted_volatility": "very_low|low|moderate|high|very_high",
  "volatility_score": <0.0-1.0>,
  "key_volatility_drivers": ["<driver>"],
  "sentiment_impact": "<how sentiment affects the prediction>",
  "event_impact": "<how the detected events affect the prediction>",
  "confidence": <0.0-1.0>
}`,
		state.Request.Ticker,
		excerpt(state.TranscriptContent, volatilityExcerptLimit),
		sentimentBlock,
		eventsBlock,
		marketBlock,
		insightsBlock)
}
