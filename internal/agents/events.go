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

// FilingFetcher is the slice of the EDGAR client the event agent needs.
type FilingFetcher interface {
	RecentFilings(ticker string, filingTypes []string, limit int) (map[string][]*dataflows.Filing, error)
}

// Filing types cross-referenced against detected events.
var eventFilingTypes = []string{"8-K", "10-Q"}

const eventFilingLimit = 3

// EventAgent detects significant corporate events in the call and verifies
// them against recent SEC filings.
type EventAgent struct {
	gen     llm.Generator
	filings FilingFetcher
	log     *zap.SugaredLogger
}

func NewEventAgent(gen llm.Generator, filings FilingFetcher, log *zap.SugaredLogger) *EventAgent {
	return &EventAgent{gen: gen, filings: filings, log: log}
}

func (a *EventAgent) Name() string { return string(models.KindEvents) }

func (a *EventAgent) Process(ctx context.Context, state *models.RunState) (*models.Update, error) {
	ticker := state.Request.Ticker

	var validations []string
	filings, err := a.filings.RecentFilings(ticker, eventFilingTypes, eventFilingLimit)
	switch {
	case err != nil:
		a.log.Warnw("filing lookup failed", "ticker", ticker, "error", err)
		validations = append(validations, fmt.Sprintf("SEC filing error: %v", err))
	case countFilings(filings) == 0:
		validations = append(validations, "No recent SEC filings available for validation")
	default:
		validations = append(validations,
			fmt.Sprintf("Downloaded %d SEC filing types for cross-reference", len(filings)))
	}

	prompt := a.buildPrompt(ticker, state.TranscriptContent, filings)

	var result models.EventResult
	if err := a.gen.Generate(ctx, prompt, &result); err != nil {
		return nil, err
	}

	result.ToolValidations = append(result.ToolValidations, validations...)

	a.log.Infow("event detection complete",
		"ticker", ticker, "events", result.TotalEvents, "verified", result.VerifiedCount)
	return &models.Update{Events: &result}, nil
}

func countFilings(filings map[string][]*dataflows.Filing) int {
	total := 0
	for _, fs := range filings {
		total += len(fs)
	}
	return total
}

func (a *EventAgent) buildPrompt(ticker, transcript string, filings map[string][]*dataflows.Filing) string {
	filingBlock := "No recent SEC filings available."
	if countFilings(filings) > 0 {
		var b strings.Builder
		for _, filingType := range eventFilingTypes {
			for _, filing := range filings[filingType] {
				fmt.Fprintf(&b, "- %s filed %s: %s\n",
					filing.FilingType, filing.FilingDate.Format("2006-01-02"), filing.Description)
			}
		}
		filingBlock = strings.TrimRight(b.String(), "\n")
	}

	return fmt.Sprintf(`You are a corporate event detection specialist.

Identify significant events for %s from this earnings call.

Transcript excerpt:
%s

Recent SEC filings:
%s

Look for acquisitions, divestitures, executive changes, product launches,
legal matters, restructurings, and guidance changes. Mark an event verified
only when a filing above corroborates it. Respond with JSON only:
{
  "events": [
    {
      "event_type": "<short event category>",
      "description": "<what happened>",
      "mentioned_in_call": <true|false>,
      "verified": <true|false>,
      "source": "<transcript or the corroborating filing>",
      "impact_assessment": "high|medium|low"
    }
  ],
  "total_events_found": <count>,
  "verified_count": <count of verified events>,
  "confidence": <0.0-1.0>
}`, ticker, excerpt(transcript, eventExcerptLimit), filingBlock)
}
