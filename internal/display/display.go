// Package display renders run progress and results to the terminal.
package display

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/finsight-ai/finsight/internal/guardrails"
	"github.com/finsight-ai/finsight/internal/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(1, 2).
			Width(72)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#10B981"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981")).
		Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")).
			Bold(true)

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))
)

// ShowBanner prints the run header before the pipeline starts.
func ShowBanner(ticker, transcriptPath string) {
	banner := fmt.Sprintf("FinSight Multi-Agent Analysis\n\nCompany:    %s\nTranscript: %s",
		ticker, transcriptPath)
	fmt.Println(bannerStyle.Render(banner))
	fmt.Println()
}

// ShowRunSummary prints the outcome of a completed run.
func ShowRunSummary(state *models.RunState, outputDir string) {
	fmt.Println()
	fmt.Println(titleStyle.Render(fmt.Sprintf("Analysis complete for %s", state.Request.Ticker)))
	fmt.Println(dimStyle.Render("Run ID: " + state.RunID))
	fmt.Println()

	fmt.Println(sectionStyle.Render("Results"))
	showSentiment(state)
	showEvents(state)
	showVolatility(state)

	if len(state.Errors) > 0 {
		fmt.Println()
		fmt.Println(warnStyle.Render(fmt.Sprintf("Completed with %d error(s):", len(state.Errors))))
		for _, e := range state.Errors {
			fmt.Println(errStyle.Render("  - " + e))
		}
	}

	fmt.Println()
	fmt.Println(dimStyle.Render("Reports written to " + outputDir))
}

func showSentiment(state *models.RunState) {
	if state.Sentiment == nil {
		fmt.Println("  Sentiment:  " + dimStyle.Render("not available"))
		return
	}
	s := state.Sentiment
	fmt.Printf("  Sentiment:  %s (score %.2f, %s)\n",
		okStyle.Render(s.OverallSentiment), s.SentimentScore,
		confidenceBadge(s.Confidence, state.SelfModel, 0))
}

func showEvents(state *models.RunState) {
	if state.Events == nil {
		fmt.Println("  Events:     " + dimStyle.Render("not available"))
		return
	}
	e := state.Events
	fmt.Printf("  Events:     %d detected, %d verified (%s)\n",
		e.TotalEvents, e.VerifiedCount, confidenceBadge(e.Confidence, state.SelfModel, 1))
}

func showVolatility(state *models.RunState) {
	if state.Volatility == nil {
		fmt.Println("  Volatility: " + dimStyle.Render("not available"))
		return
	}
	v := state.Volatility
	fmt.Printf("  Volatility: %s (score %.2f, historical %.2f%%, %s)\n",
		okStyle.Render(v.PredictedVolatility), v.VolatilityScore,
		v.HistoricalVolatility*100, confidenceBadge(v.Confidence, state.SelfModel, 2))
}

// confidenceBadge renders a stage's confidence with its guardrail status.
func confidenceBadge(confidence float64, selfModel *models.SelfModel, capability int) string {
	text := fmt.Sprintf("confidence %.0f%%", confidence*100)
	if selfModel == nil || capability >= len(selfModel.AgentCapabilities) {
		return text
	}
	threshold := selfModel.AgentCapabilities[capability].ConfidenceThreshold
	status := string(guardrails.Evaluate(confidence, threshold))
	if guardrails.Passed(confidence, threshold) {
		return text + " " + okStyle.Render(status)
	}
	return text + " " + warnStyle.Render(status)
}
