package report

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/finsight-ai/finsight/internal/models"
)

// Extraction defaults, substituted whenever a field's pattern is absent from
// the text. A missing field is never an error.
const (
	defaultSentimentLabel  = "positive"
	defaultSentimentScore  = 0.75
	defaultConfidence      = 0.85
	defaultEventConfidence = 0.90
	defaultVolatilityLabel = "medium"
	defaultVolatilityScore = 0.65
	defaultHistVolatility  = 0.20
	defaultEventImpact     = models.ImpactMedium
	defaultEventSource     = "transcript"
)

// Field-line patterns. These are the extractor's half of the grammar; each
// corresponds to one "**Label:** value" production in the formatter.
var (
	tickerRe       = regexp.MustCompile(`\*\*` + labelTicker + `:\*\*\s*([\w.-]+)`)
	generatedRe    = regexp.MustCompile(`\*\*` + labelGenerated + `:\*\*\s*([^\n]+)`)
	agentRe        = regexp.MustCompile(`\*\*` + labelAgent + `:\*\*\s*([^\n]+)`)
	sentimentRe    = regexp.MustCompile(`\*\*` + labelSentiment + `:\*\*\s*(\w+)`)
	scoreRe        = regexp.MustCompile(`\*\*` + labelScore + `:\*\*\s*(-?[\d.]+)`)
	confidenceRe   = regexp.MustCompile(`\*\*` + labelConfidence + `:\*\*\s*([\d.]+)%`)
	totalEventsRe  = regexp.MustCompile(`\*\*` + labelTotalEvents + `:\*\*\s*(\d+)`)
	verifiedRe     = regexp.MustCompile(`\*\*` + labelVerified + `:\*\*\s*(\d+)`)
	predictedVolRe = regexp.MustCompile(`\*\*` + labelPredictedVol + `:\*\*\s*(\w+)`)
	volScoreRe     = regexp.MustCompile(`\*\*` + labelVolScore + `:\*\*\s*([\d.]+)`)
	histVolRe      = regexp.MustCompile(`\*\*` + labelHistVol + `:\*\*\s*([\d.]+)%`)

	descriptionRe = regexp.MustCompile(`\*\*` + labelDescription + `:\*\*\s*([^\n]+)`)
	mentionedRe   = regexp.MustCompile(`\*\*` + labelMentioned + `:\*\*\s*(\w+)`)
	evVerifiedRe  = regexp.MustCompile(`\*\*` + labelEventVerified + `:\*\*\s*(\w+)`)
	sourceRe      = regexp.MustCompile(`\*\*` + labelSource + `:\*\*\s*([^\n]+)`)
	impactRe      = regexp.MustCompile(`\*\*` + labelImpact + `:\*\*\s*(\w+)`)

	questionRe = regexp.MustCompile(`\*\*` + labelQuestion + `:\*\*\s*([^\n]+)`)
	answerRe   = regexp.MustCompile(`\*\*` + labelAnswer + `:\*\*\s*([^\n]+)`)

	eventHeadingRe   = regexp.MustCompile(`(?m)^### Event \d+: (.+)$`)
	insightHeadingRe = regexp.MustCompile(`(?m)^### (.+)$`)
)

// Meta is the report-level metadata every artifact carries.
type Meta struct {
	Ticker    string
	Generated string
	Agent     string
}

func parseMeta(content string) Meta {
	return Meta{
		Ticker:    matchString(tickerRe, content, ""),
		Generated: matchString(generatedRe, content, ""),
		Agent:     matchString(agentRe, content, ""),
	}
}

// ParseSentimentReport recovers a SentimentResult from report text.
func ParseSentimentReport(content string) (*models.SentimentResult, Meta) {
	return &models.SentimentResult{
		OverallSentiment: matchString(sentimentRe, content, defaultSentimentLabel),
		SentimentScore:   matchFloat(scoreRe, content, defaultSentimentScore),
		Confidence:       matchPct(confidenceRe, content, defaultConfidence),
		MarketSentiment:  section(content, "Market Sentiment"),
		KeyDrivers:       bulletItems(section(content, "Key Sentiment Drivers")),
		NewsHeadlines:    bulletItems(section(content, "News Headlines Analyzed")),
		ToolValidations:  bulletItems(section(content, "Tool Validations")),
	}, parseMeta(content)
}

// ParseEventReport recovers an EventResult from report text. Event counts
// default to the number of event sections actually found.
func ParseEventReport(content string) (*models.EventResult, Meta) {
	events := parseEventSections(section(content, "Detected Events"))

	verifiedDefault := len(events)

	return &models.EventResult{
		Events:          events,
		TotalEvents:     matchInt(totalEventsRe, content, len(events)),
		VerifiedCount:   matchInt(verifiedRe, content, verifiedDefault),
		Confidence:      matchPct(confidenceRe, content, defaultEventConfidence),
		ToolValidations: bulletItems(section(content, "Tool Validations")),
	}, parseMeta(content)
}

func parseEventSections(body string) []models.SignificantEvent {
	var events []models.SignificantEvent
	forEachHeading(eventHeadingRe, body, func(title, block string) {
		events = append(events, models.SignificantEvent{
			EventType:        strings.TrimSpace(title),
			Description:      strings.TrimSpace(matchString(descriptionRe, block, "")),
			MentionedInCall:  parseYes(matchString(mentionedRe, block, "Yes")),
			Verified:         parseYes(matchString(evVerifiedRe, block, "Yes")),
			Source:           strings.TrimSpace(matchString(sourceRe, block, defaultEventSource)),
			ImpactAssessment: strings.ToLower(matchString(impactRe, block, defaultEventImpact)),
		})
	})
	return events
}

// ParseVolatilityReport recovers a VolatilityResult from report text.
func ParseVolatilityReport(content string) (*models.VolatilityResult, Meta) {
	return &models.VolatilityResult{
		PredictedVolatility:  matchString(predictedVolRe, content, defaultVolatilityLabel),
		VolatilityScore:      matchFloat(volScoreRe, content, defaultVolatilityScore),
		HistoricalVolatility: matchPct(histVolRe, content, defaultHistVolatility),
		Confidence:           matchPct(confidenceRe, content, defaultConfidence),
		KeyDrivers:           bulletItems(section(content, "Key Volatility Drivers")),
		SentimentImpact:      section(content, "Sentiment Impact"),
		EventImpact:          section(content, "Event Impact"),
		TranscriptInsights:   parseInsightSections(section(content, "Transcript Insights")),
		ToolValidations:      bulletItems(section(content, "Tool Validations")),
	}, parseMeta(content)
}

func parseInsightSections(body string) []models.InsightAnswer {
	var insights []models.InsightAnswer
	forEachHeading(insightHeadingRe, body, func(title, block string) {
		insights = append(insights, models.InsightAnswer{
			FocusItem:  strings.TrimSpace(title),
			Question:   strings.TrimSpace(matchString(questionRe, block, "")),
			Answer:     strings.TrimSpace(matchString(answerRe, block, "")),
			Confidence: matchPct(confidenceRe, block, defaultConfidence),
		})
	})
	return insights
}

// ConfidenceRow is one parsed row of the confidence-summary table.
type ConfidenceRow struct {
	Agent      string
	Confidence float64
	Threshold  float64
	Status     string
}

// FinalSummary is the structured view recovered from a final aggregate
// report.
type FinalSummary struct {
	Version string

	Sentiment           string
	SentimentScore      float64
	SentimentConfidence float64

	EventsDetected   int
	EventsVerified   int
	EventsConfidence float64

	PredictedVolatility  string
	VolatilityScore      float64
	VolatilityConfidence float64
	HistoricalVolatility float64

	Decision *models.CoordinatorDecision

	ConfidenceSummary []ConfidenceRow

	GuardrailChecks     int
	ActiveGuardrails    []string
	OperatingBoundaries []string
}

var (
	execSentimentRe = regexp.MustCompile(`\*\*Sentiment:\*\*\s*(\w+)\s*\(Score:\s*(-?[\d.]+),\s*Confidence:\s*([\d.]+)%\)`)
	execEventsRe    = regexp.MustCompile(`\*\*Events Detected:\*\*\s*(\d+)\s*\((\d+)\s*verified,\s*Confidence:\s*([\d.]+)%\)`)
	execVolRe       = regexp.MustCompile(`\*\*Predicted Volatility:\*\*\s*(\w+)\s*\(Score:\s*([\d.]+),\s*Confidence:\s*([\d.]+)%\)`)

	versionRe   = regexp.MustCompile(`\*\*System Version:\*\*\s*([^\n]+)`)
	intentRe    = regexp.MustCompile(`(?s)\*\*User Intent:\*\*\s*(.*?)\n\n`)
	planItemRe  = regexp.MustCompile(`(?m)^\d+\.\s*(.+)$`)
	agentsRe    = regexp.MustCompile(`\*\*Agents Invoked:\*\*\s*([^\n]+)`)
	coordConfRe = regexp.MustCompile(`\*\*Coordinator Confidence:\*\*\s*([\d.]+)%`)
	reasoningRe = regexp.MustCompile(`(?s)\*\*Reasoning:\*\*\s*(.*?)\s*\z`)

	tableRowRe = regexp.MustCompile(`(?m)^\|([^|\n]+)\|\s*([\d.]+)%\s*\|\s*([\d.]+)%\s*\|([^|\n]+)\|$`)

	checksRe          = regexp.MustCompile(`\*\*Guardrail Checks Performed:\*\*\s*(\d+)`)
	activeGuardRe     = regexp.MustCompile(`(?s)\*\*Active Guardrails:\*\*\n(.*?)(?:\n\n|\z)`)
	boundariesRe      = regexp.MustCompile(`(?s)\*\*Operating Boundaries:\*\*\n(.*?)(?:\n\n|\z)`)
	metaSectionRe     = regexp.MustCompile(`(?s)## 1\. Coordinator's Metacognitive Analysis\n\n(.*?)\n\n---\n\n## 2\.`)
	finalHistVolRe    = regexp.MustCompile(`\*\*Historical Volatility:\*\*\s*([\d.]+)%`)
	finalGeneratedRe  = regexp.MustCompile(`\*\*Generated:\*\*\s*([^\n]+)`)
	finalTickerFromRe = regexp.MustCompile(`\*\*Company:\*\*\s*([\w.-]+)`)
)

// ParseFinalReport recovers the executive metrics, coordinator block,
// confidence table, and guardrail block from a final aggregate report.
func ParseFinalReport(content string) (*FinalSummary, Meta) {
	meta := Meta{
		Ticker:    matchString(finalTickerFromRe, content, ""),
		Generated: matchString(finalGeneratedRe, content, ""),
	}

	summary := &FinalSummary{
		Version:              matchString(versionRe, content, "1.0"),
		Sentiment:            defaultSentimentLabel,
		SentimentScore:       defaultSentimentScore,
		SentimentConfidence:  defaultConfidence,
		EventsConfidence:     defaultConfidence,
		PredictedVolatility:  defaultVolatilityLabel,
		VolatilityScore:      defaultVolatilityScore,
		VolatilityConfidence: defaultConfidence,
		HistoricalVolatility: matchPct(finalHistVolRe, content, defaultHistVolatility),
	}

	if m := execSentimentRe.FindStringSubmatch(content); m != nil {
		summary.Sentiment = m[1]
		summary.SentimentScore = parseFloat(m[2], defaultSentimentScore)
		summary.SentimentConfidence = parseFloat(m[3], defaultConfidence*100) / 100
	}
	if m := execEventsRe.FindStringSubmatch(content); m != nil {
		summary.EventsDetected = parseInt(m[1], 0)
		summary.EventsVerified = parseInt(m[2], 0)
		summary.EventsConfidence = parseFloat(m[3], defaultConfidence*100) / 100
	}
	if m := execVolRe.FindStringSubmatch(content); m != nil {
		summary.PredictedVolatility = m[1]
		summary.VolatilityScore = parseFloat(m[2], defaultVolatilityScore)
		summary.VolatilityConfidence = parseFloat(m[3], defaultConfidence*100) / 100
	}

	if m := metaSectionRe.FindStringSubmatch(content); m != nil {
		block := m[1]
		decision := &models.CoordinatorDecision{
			UserIntent: strings.TrimSpace(matchString(intentRe, block, "")),
			Confidence: matchPct(coordConfRe, block, 0),
			Reasoning:  strings.TrimSpace(matchString(reasoningRe, block, "")),
		}
		for _, item := range planItemRe.FindAllStringSubmatch(block, -1) {
			decision.AnalysisPlan = append(decision.AnalysisPlan, strings.TrimSpace(item[1]))
		}
		if agents := matchString(agentsRe, block, ""); agents != "" {
			for _, name := range strings.Split(agents, ",") {
				decision.AgentsToInvoke = append(decision.AgentsToInvoke, strings.TrimSpace(name))
			}
		}
		summary.Decision = decision
	}

	for _, row := range tableRowRe.FindAllStringSubmatch(content, -1) {
		agent := strings.TrimSpace(row[1])
		if agent == "Agent" || strings.HasPrefix(agent, "---") {
			continue
		}
		status := "Fail"
		// The Pass match depends on this exact checkmark glyph; any encoding
		// substitution turns every row into Fail.
		if strings.Contains(row[4], "✓") {
			status = "Pass"
		}
		summary.ConfidenceSummary = append(summary.ConfidenceSummary, ConfidenceRow{
			Agent:      agent,
			Confidence: parseFloat(row[2], 0) / 100,
			Threshold:  parseFloat(row[3], 0) / 100,
			Status:     status,
		})
	}

	summary.GuardrailChecks = matchInt(checksRe, content, 0)
	summary.ActiveGuardrails = bulletItems(matchString(activeGuardRe, content, ""))
	summary.OperatingBoundaries = bulletItems(matchString(boundariesRe, content, ""))

	return summary, meta
}

// section returns the body of the "## Title" section, bounded by the next
// heading, separator, or end of text. An absent section is empty.
func section(content, title string) string {
	re := regexp.MustCompile(`(?s)## ` + regexp.QuoteMeta(title) + `\n\n(.*?)(?:\n## |\n---|\z)`)
	m := re.FindStringSubmatch(content)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// forEachHeading iterates the "### Title" blocks inside a section body,
// calling fn with each heading title and the block up to the next heading.
func forEachHeading(headingRe *regexp.Regexp, body string, fn func(title, block string)) {
	matches := headingRe.FindAllStringSubmatchIndex(body, -1)
	for i, m := range matches {
		title := body[m[2]:m[3]]
		end := len(body)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		fn(title, body[m[1]:end])
	}
}

// bulletItems returns the "- item" lines of a block, ignoring everything
// else (including the "None" placeholder).
func bulletItems(block string) []string {
	var items []string
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "- ") {
			items = append(items, strings.TrimSpace(strings.TrimPrefix(line, "- ")))
		}
	}
	return items
}

func matchString(re *regexp.Regexp, content, def string) string {
	if m := re.FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[1])
	}
	return def
}

func matchFloat(re *regexp.Regexp, content string, def float64) float64 {
	if m := re.FindStringSubmatch(content); m != nil {
		return parseFloat(m[1], def)
	}
	return def
}

// matchPct parses a percent field into a [0,1] fraction.
func matchPct(re *regexp.Regexp, content string, def float64) float64 {
	if m := re.FindStringSubmatch(content); m != nil {
		return parseFloat(m[1], def*100) / 100
	}
	return def
}

func matchInt(re *regexp.Regexp, content string, def int) int {
	if m := re.FindStringSubmatch(content); m != nil {
		return parseInt(m[1], def)
	}
	return def
}

func parseFloat(s string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return def
	}
	return v
}

func parseInt(s string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return v
}

func parseYes(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "yes")
}
