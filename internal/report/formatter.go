package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/finsight-ai/finsight/internal/guardrails"
	"github.com/finsight-ai/finsight/internal/models"
)

// FormatAgentReport renders one stage's result as its canonical markdown
// artifact. The switch is exhaustive over the StageResult variants.
func FormatAgentReport(ticker string, result models.StageResult, generatedAt time.Time) string {
	switch r := result.(type) {
	case *models.SentimentResult:
		return formatSentimentReport(ticker, r, generatedAt)
	case *models.EventResult:
		return formatEventReport(ticker, r, generatedAt)
	case *models.VolatilityResult:
		return formatVolatilityReport(ticker, r, generatedAt)
	case *models.CoordinatorDecision:
		return "# Coordinator Report\n\n*Report format not implemented*"
	default:
		return fmt.Sprintf("# %s Report\n\n*Report format not implemented*", result.Kind())
	}
}

func formatSentimentReport(ticker string, r *models.SentimentResult, generatedAt time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Sentiment Analysis Report\n\n")
	fmt.Fprintf(&b, "**%s:** %s  \n", labelTicker, ticker)
	fmt.Fprintf(&b, "**%s:** %s  \n", labelGenerated, reportTime(generatedAt))
	fmt.Fprintf(&b, "**%s:** Sentiment Analysis Agent\n\n", labelAgent)
	fmt.Fprintf(&b, "---\n\n")

	fmt.Fprintf(&b, "## Overall Assessment\n\n")
	fmt.Fprintf(&b, "- **%s:** %s\n", labelSentiment, r.OverallSentiment)
	fmt.Fprintf(&b, "- **%s:** %s (range: -1.0 to 1.0)\n", labelScore, score(r.SentimentScore))
	fmt.Fprintf(&b, "- **%s:** %s\n\n", labelConfidence, pct(r.Confidence))

	fmt.Fprintf(&b, "## Market Sentiment\n\n%s\n\n", r.MarketSentiment)

	fmt.Fprintf(&b, "## Key Sentiment Drivers\n\n%s\n\n", bulletList(r.KeyDrivers))
	fmt.Fprintf(&b, "## News Headlines Analyzed\n\n%s\n\n", bulletListOrNone(r.NewsHeadlines))
	fmt.Fprintf(&b, "## Tool Validations\n\n%s\n", bulletListOrNone(r.ToolValidations))

	return b.String()
}

func formatEventReport(ticker string, r *models.EventResult, generatedAt time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Event Detection Report\n\n")
	fmt.Fprintf(&b, "**%s:** %s  \n", labelTicker, ticker)
	fmt.Fprintf(&b, "**%s:** %s  \n", labelGenerated, reportTime(generatedAt))
	fmt.Fprintf(&b, "**%s:** Significant Event Detection Agent\n\n", labelAgent)
	fmt.Fprintf(&b, "---\n\n")

	fmt.Fprintf(&b, "## Summary\n\n")
	fmt.Fprintf(&b, "- **%s:** %d\n", labelTotalEvents, r.TotalEvents)
	fmt.Fprintf(&b, "- **%s:** %d\n", labelVerified, r.VerifiedCount)
	fmt.Fprintf(&b, "- **%s:** %s\n\n", labelConfidence, pct(r.Confidence))

	fmt.Fprintf(&b, "## Detected Events\n\n")
	if len(r.Events) == 0 {
		fmt.Fprintf(&b, "*No events detected*\n\n")
	} else {
		fmt.Fprintf(&b, "%s\n\n", eventSections(r.Events))
	}

	fmt.Fprintf(&b, "## Tool Validations\n\n%s\n", bulletListOrNone(r.ToolValidations))

	return b.String()
}

func eventSections(events []models.SignificantEvent) string {
	var b strings.Builder
	for i, ev := range events {
		fmt.Fprintf(&b, "\n### Event %d: %s\n\n", i+1, ev.EventType)
		fmt.Fprintf(&b, "- **%s:** %s\n", labelDescription, ev.Description)
		fmt.Fprintf(&b, "- **%s:** %s\n", labelMentioned, yesNo(ev.MentionedInCall))
		fmt.Fprintf(&b, "- **%s:** %s\n", labelEventVerified, yesNo(ev.Verified))
		fmt.Fprintf(&b, "- **%s:** %s\n", labelSource, ev.Source)
		fmt.Fprintf(&b, "- **%s:** %s\n", labelImpact, strings.ToUpper(ev.ImpactAssessment))
	}
	return b.String()
}

func formatVolatilityReport(ticker string, r *models.VolatilityResult, generatedAt time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Volatility Prediction Report\n\n")
	fmt.Fprintf(&b, "**%s:** %s  \n", labelTicker, ticker)
	fmt.Fprintf(&b, "**%s:** %s  \n", labelGenerated, reportTime(generatedAt))
	fmt.Fprintf(&b, "**%s:** Volatility Prediction Agent\n\n", labelAgent)
	fmt.Fprintf(&b, "---\n\n")

	fmt.Fprintf(&b, "## Prediction\n\n")
	fmt.Fprintf(&b, "- **%s:** %s\n", labelPredictedVol, r.PredictedVolatility)
	fmt.Fprintf(&b, "- **%s:** %s (range: 0.0 to 1.0)\n", labelVolScore, score(r.VolatilityScore))
	fmt.Fprintf(&b, "- **%s:** %s\n", labelHistVol, pct(r.HistoricalVolatility))
	fmt.Fprintf(&b, "- **%s:** %s\n\n", labelConfidence, pct(r.Confidence))

	fmt.Fprintf(&b, "## Key Volatility Drivers\n\n%s\n\n", bulletList(r.KeyDrivers))
	fmt.Fprintf(&b, "## Sentiment Impact\n\n%s\n\n", r.SentimentImpact)
	fmt.Fprintf(&b, "## Event Impact\n\n%s\n\n", r.EventImpact)

	fmt.Fprintf(&b, "## Transcript Insights\n\n")
	if len(r.TranscriptInsights) == 0 {
		fmt.Fprintf(&b, "*No insights available*\n\n")
	} else {
		fmt.Fprintf(&b, "%s\n\n", insightSections(r.TranscriptInsights))
	}

	fmt.Fprintf(&b, "## Tool Validations\n\n%s\n", bulletListOrNone(r.ToolValidations))

	return b.String()
}

func insightSections(insights []models.InsightAnswer) string {
	var b strings.Builder
	for _, in := range insights {
		fmt.Fprintf(&b, "\n### %s\n\n", in.FocusItem)
		fmt.Fprintf(&b, "**%s:** %s  \n", labelQuestion, in.Question)
		fmt.Fprintf(&b, "**%s:** %s  \n", labelAnswer, in.Answer)
		fmt.Fprintf(&b, "**%s:** %s\n", labelConfidence, pct(in.Confidence))
	}
	return b.String()
}

// FormatFinalReport renders the aggregate run report. Missing stage results
// render their section with an explicit "not available" marker.
func FormatFinalReport(state *models.RunState, generatedAt time.Time) string {
	sent := state.Sentiment
	events := state.Events
	vol := state.Volatility
	decision := state.Decision
	selfModel := state.SelfModel
	if selfModel == nil {
		selfModel = models.DefaultSelfModel()
	}

	var b strings.Builder

	fmt.Fprintf(&b, "# FinSight Multi-Agent Analysis Report\n\n")
	fmt.Fprintf(&b, "**%s:** %s  \n", labelGenerated, reportTime(generatedAt))
	fmt.Fprintf(&b, "**Company:** %s  \n", state.Request.Ticker)
	fmt.Fprintf(&b, "**System Version:** %s\n\n", selfModel.Version)
	fmt.Fprintf(&b, "---\n\n")

	// Executive summary
	sentimentName, sentimentScore, sentimentConf := "N/A", "0.00", "0%"
	if sent != nil {
		sentimentName = sent.OverallSentiment
		sentimentScore = score(sent.SentimentScore)
		sentimentConf = pct(sent.Confidence)
	}
	eventsTotal, eventsVerified, eventsConf := 0, 0, "0%"
	if events != nil {
		eventsTotal = events.TotalEvents
		eventsVerified = events.VerifiedCount
		eventsConf = pct(events.Confidence)
	}
	volName, volScore, volConf, histVol := "N/A", "0.00", "0%", "0%"
	if vol != nil {
		volName = vol.PredictedVolatility
		volScore = score(vol.VolatilityScore)
		volConf = pct(vol.Confidence)
		histVol = pct(vol.HistoricalVolatility)
	}

	fmt.Fprintf(&b, "## Executive Summary\n\n")
	fmt.Fprintf(&b, "- **%s:** %s (Score: %s, Confidence: %s)\n", labelSentiment, sentimentName, sentimentScore, sentimentConf)
	fmt.Fprintf(&b, "- **Events Detected:** %d (%d verified, Confidence: %s)\n", eventsTotal, eventsVerified, eventsConf)
	fmt.Fprintf(&b, "- **%s:** %s (Score: %s, Confidence: %s)\n", labelPredictedVol, volName, volScore, volConf)
	fmt.Fprintf(&b, "- **%s:** %s\n\n", labelHistVol, histVol)
	fmt.Fprintf(&b, "---\n\n")

	// 1. Coordinator
	fmt.Fprintf(&b, "## 1. Coordinator's Metacognitive Analysis\n\n")
	if decision != nil {
		fmt.Fprintf(&b, "**User Intent:** %s\n\n", decision.UserIntent)
		fmt.Fprintf(&b, "**Analysis Plan:**\n")
		for i, step := range decision.AnalysisPlan {
			// The model sometimes numbers its own steps; strip that so the
			// rendered list numbering stays consistent.
			fmt.Fprintf(&b, "%d. %s\n", i+1, strings.TrimLeft(step, "0123456789. "))
		}
		fmt.Fprintf(&b, "\n**Agents Invoked:** %s\n", strings.Join(decision.AgentsToInvoke, ", "))
		fmt.Fprintf(&b, "**Coordinator Confidence:** %s\n", pct(decision.Confidence))
		fmt.Fprintf(&b, "\n**Reasoning:** %s\n", decision.Reasoning)
	}

	// 2. Sentiment
	fmt.Fprintf(&b, "\n---\n\n## 2. Sentiment Analysis\n\n")
	if sent != nil {
		fmt.Fprintf(&b, "**Overall Sentiment:** %s  \n", sent.OverallSentiment)
		fmt.Fprintf(&b, "**Sentiment Score:** %s (range: -1.0 to 1.0)  \n", score(sent.SentimentScore))
		fmt.Fprintf(&b, "**%s:** %s\n\n", labelConfidence, pct(sent.Confidence))
		fmt.Fprintf(&b, "**Market Sentiment Summary:**\n%s\n\n", sent.MarketSentiment)
		fmt.Fprintf(&b, "**Key Sentiment Drivers:**\n")
		for _, driver := range sent.KeyDrivers {
			fmt.Fprintf(&b, "- %s\n", driver)
		}
		if len(sent.NewsHeadlines) > 0 {
			fmt.Fprintf(&b, "\n**News Headlines Analyzed:**\n")
			for _, headline := range sent.NewsHeadlines {
				fmt.Fprintf(&b, "- %s\n", headline)
			}
		}
		if len(sent.ToolValidations) > 0 {
			fmt.Fprintf(&b, "\n**Tool Validations:**\n")
			for _, v := range sent.ToolValidations {
				fmt.Fprintf(&b, "- %s\n", v)
			}
		}
	} else {
		fmt.Fprintf(&b, "*Sentiment analysis not available.*\n")
	}

	// 3. Events
	fmt.Fprintf(&b, "\n---\n\n## 3. Significant Event Detection\n\n")
	if events != nil {
		fmt.Fprintf(&b, "**%s:** %d  \n", labelTotalEvents, events.TotalEvents)
		fmt.Fprintf(&b, "**%s:** %d  \n", labelVerified, events.VerifiedCount)
		fmt.Fprintf(&b, "**%s:** %s\n\n", labelConfidence, pct(events.Confidence))
		fmt.Fprintf(&b, "**Detected Events:**\n")
		for i, ev := range events.Events {
			fmt.Fprintf(&b, "\n### Event %d: %s\n\n", i+1, ev.EventType)
			fmt.Fprintf(&b, "- **%s:** %s\n", labelDescription, ev.Description)
			fmt.Fprintf(&b, "- **%s:** %s\n", labelMentioned, yesNo(ev.MentionedInCall))
			fmt.Fprintf(&b, "- **%s:** %s\n", labelEventVerified, yesNo(ev.Verified))
			fmt.Fprintf(&b, "- **%s:** %s\n", labelSource, ev.Source)
			fmt.Fprintf(&b, "- **Impact Assessment:** %s\n", strings.ToUpper(ev.ImpactAssessment))
		}
		if len(events.ToolValidations) > 0 {
			fmt.Fprintf(&b, "\n**Tool Validations:**\n")
			for _, v := range events.ToolValidations {
				fmt.Fprintf(&b, "- %s\n", v)
			}
		}
	} else {
		fmt.Fprintf(&b, "*Event detection not available.*\n")
	}

	// 4. Volatility
	fmt.Fprintf(&b, "\n---\n\n## 4. Volatility Prediction\n\n")
	if vol != nil {
		fmt.Fprintf(&b, "**%s:** %s  \n", labelPredictedVol, vol.PredictedVolatility)
		fmt.Fprintf(&b, "**%s:** %s (range: 0.0 to 1.0)  \n", labelVolScore, score(vol.VolatilityScore))
		fmt.Fprintf(&b, "**%s:** %s  \n", labelHistVol, pct(vol.HistoricalVolatility))
		fmt.Fprintf(&b, "**%s:** %s\n\n", labelConfidence, pct(vol.Confidence))
		fmt.Fprintf(&b, "**Key Volatility Drivers:**\n")
		for _, driver := range vol.KeyDrivers {
			fmt.Fprintf(&b, "- %s\n", driver)
		}
		fmt.Fprintf(&b, "\n**Sentiment Impact:**\n%s\n", vol.SentimentImpact)
		fmt.Fprintf(&b, "\n**Event Impact:**\n%s\n", vol.EventImpact)
		if len(vol.ToolValidations) > 0 {
			fmt.Fprintf(&b, "\n**Tool Validations:**\n")
			for _, v := range vol.ToolValidations {
				fmt.Fprintf(&b, "- %s\n", v)
			}
		}
		if len(vol.TranscriptInsights) > 0 {
			fmt.Fprintf(&b, "\n### Transcript Insights\n\n")
			for _, in := range vol.TranscriptInsights {
				fmt.Fprintf(&b, "#### %s\n", in.FocusItem)
				fmt.Fprintf(&b, "**%s:** %s  \n", labelQuestion, in.Question)
				fmt.Fprintf(&b, "**%s:** %s  \n", labelAnswer, in.Answer)
				fmt.Fprintf(&b, "**%s:** %s\n\n", labelConfidence, pct(in.Confidence))
			}
		}
	} else {
		fmt.Fprintf(&b, "*Volatility prediction not available.*\n")
	}

	// 5. Guardrails
	fmt.Fprintf(&b, "\n---\n\n## 5. Guardrails and System Boundaries\n\n")
	fmt.Fprintf(&b, "**Guardrail Checks Performed:** %d\n\n", len(state.GuardrailsApplied))
	if len(state.GuardrailsApplied) > 0 {
		for _, g := range state.GuardrailsApplied {
			fmt.Fprintf(&b, "- **%s** (%s)\n", g.GuardrailType, g.Agent)
			fmt.Fprintf(&b, "  - %s\n", g.Description)
			fmt.Fprintf(&b, "  - Action: %s\n", g.ActionTaken)
		}
	} else {
		fmt.Fprintf(&b, "*All confidence thresholds met. No guardrail violations detected.*\n")
	}
	fmt.Fprintf(&b, "\n**Active Guardrails:**\n")
	for _, g := range selfModel.ActiveGuardrails {
		fmt.Fprintf(&b, "- %s\n", g)
	}
	fmt.Fprintf(&b, "\n**Operating Boundaries:**\n")
	for _, boundary := range selfModel.OperatingBoundaries {
		fmt.Fprintf(&b, "- %s\n", boundary)
	}

	// 6. Confidence summary
	fmt.Fprintf(&b, "\n---\n\n## 6. System Confidence Summary\n\n")
	fmt.Fprintf(&b, "| Agent | Confidence | Threshold | Status |\n")
	fmt.Fprintf(&b, "|-------|-----------|-----------|--------|\n")
	if sent != nil {
		threshold := selfModel.AgentCapabilities[0].ConfidenceThreshold
		status := guardrails.Evaluate(sent.Confidence, threshold)
		fmt.Fprintf(&b, "| Sentiment Analysis | %s | %s | %s |\n", pct(sent.Confidence), pct(threshold), status)
	}
	if events != nil {
		threshold := selfModel.AgentCapabilities[1].ConfidenceThreshold
		status := guardrails.Evaluate(events.Confidence, threshold)
		fmt.Fprintf(&b, "| Event Detection | %s | %s | %s |\n", pct(events.Confidence), pct(threshold), status)
	}
	if vol != nil {
		threshold := selfModel.AgentCapabilities[2].ConfidenceThreshold
		status := guardrails.Evaluate(vol.Confidence, threshold)
		fmt.Fprintf(&b, "| Volatility Prediction | %s | %s | %s |\n", pct(vol.Confidence), pct(threshold), status)
	}

	// Disclaimers
	fmt.Fprintf(&b, "\n---\n\n## Disclaimers\n\n")
	fmt.Fprintf(&b, "**Mission:** %s\n\n", selfModel.Mission)
	fmt.Fprintf(&b, "This analysis is for **informational and educational purposes only**. ")
	fmt.Fprintf(&b, "It does NOT constitute investment advice or a recommendation to buy or sell securities. ")
	fmt.Fprintf(&b, "Past performance does not guarantee future results. ")
	fmt.Fprintf(&b, "All investments involve risk, including possible loss of principal.\n\n")
	fmt.Fprintf(&b, "**Generated by:** %s v%s\n", selfModel.SystemName, selfModel.Version)

	return b.String()
}

func bulletList(items []string) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, "- "+item)
	}
	return strings.Join(lines, "\n")
}

func bulletListOrNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return bulletList(items)
}
