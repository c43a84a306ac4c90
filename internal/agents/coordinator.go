package agents

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/finsight-ai/finsight/internal/llm"
	"github.com/finsight-ai/finsight/internal/models"
)

// Coordinator interprets the user's query and plans the run. Its decision is
// advisory: the stage sequence is fixed, and the plan only informs the final
// report's metacognitive section.
type Coordinator struct {
	gen llm.Generator
	log *zap.SugaredLogger
}

func NewCoordinator(gen llm.Generator, log *zap.SugaredLogger) *Coordinator {
	return &Coordinator{gen: gen, log: log}
}

func (c *Coordinator) Name() string { return string(models.KindCoordinator) }

func (c *Coordinator) Process(ctx context.Context, state *models.RunState) (*models.Update, error) {
	c.log.Infow("coordinator planning run", "ticker", state.Request.Ticker, "query", state.Request.UserQuery)

	prompt := fmt.Sprintf(`You are the metacognitive coordinator of a multi-agent financial analysis system.

User query: %s
Company ticker: %s

Available specialist agents:
- sentiment: analyzes earnings call sentiment, validated against market news
- event_detection: identifies significant corporate events, verified against SEC filings
- volatility: predicts stock volatility from transcript insights and market data

Decide how to fulfill the query. Respond with JSON only:
{
  "user_intent": "<one sentence restating what the user wants>",
  "analysis_plan": ["<ordered plan steps>"],
  "agents_to_invoke": ["<agent names from the list above>"],
  "confidence": <0.0-1.0>,
  "reasoning": "<why this plan serves the query>"
}`, state.Request.UserQuery, state.Request.Ticker)

	var decision models.CoordinatorDecision
	if err := c.gen.Generate(ctx, prompt, &decision); err != nil {
		return nil, err
	}

	c.log.Infow("coordinator decision",
		"agents", decision.AgentsToInvoke, "confidence", decision.Confidence)
	return &models.Update{Decision: &decision}, nil
}
