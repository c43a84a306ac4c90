package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/finsight-ai/finsight/internal/models"
)

var testTime = time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)

func sampleSentiment() *models.SentimentResult {
	return &models.SentimentResult{
		OverallSentiment: models.SentimentPositive,
		SentimentScore:   0.80,
		MarketSentiment:  "Analysts reacted favorably to the quarter.",
		KeyDrivers:       []string{"Record revenue", "Margin expansion"},
		NewsHeadlines:    []string{"ACME beats estimates"},
		Confidence:       0.90,
		ToolValidations:  []string{"Validated sentiment using 5 news articles from Tavily"},
	}
}

func sampleEvents() *models.EventResult {
	return &models.EventResult{
		Events: []models.SignificantEvent{
			{
				EventType:        "Acquisition",
				Description:      "Announced acquisition of a robotics startup.",
				MentionedInCall:  true,
				Verified:         true,
				Source:           "8-K filing",
				ImpactAssessment: models.ImpactHigh,
			},
			{
				EventType:        "Executive Change",
				Description:      "CFO stepping down at year end.",
				MentionedInCall:  true,
				Verified:         false,
				Source:           "transcript",
				ImpactAssessment: models.ImpactMedium,
			},
		},
		TotalEvents:   2,
		VerifiedCount: 1,
		Confidence:    0.88,
	}
}

func sampleVolatility() *models.VolatilityResult {
	return &models.VolatilityResult{
		PredictedVolatility: models.VolatilityHigh,
		VolatilityScore:     0.72,
		TranscriptInsights: []models.InsightAnswer{
			{
				FocusItem:  "Dividends",
				Question:   "Was there any mention of dividends?",
				Answer:     "Management announced a 5% dividend increase.",
				Confidence: 0.85,
			},
		},
		KeyDrivers:           []string{"Earnings surprise", "Guidance revision"},
		SentimentImpact:      "Positive sentiment dampens downside volatility.",
		EventImpact:          "The acquisition adds near-term uncertainty.",
		Confidence:           0.75,
		HistoricalVolatility: 0.20,
	}
}

func TestFormatSentimentReport(t *testing.T) {
	content := FormatAgentReport("ACME", sampleSentiment(), testTime)

	assert.True(t, strings.HasPrefix(content, "# Sentiment Analysis Report\n"))
	assert.Contains(t, content, "**Ticker:** ACME  \n")
	assert.Contains(t, content, "**Generated:** 2026-08-29 10:30:00  \n")
	assert.Contains(t, content, "- **Sentiment:** positive\n")
	assert.Contains(t, content, "- **Score:** 0.80 (range: -1.0 to 1.0)\n")
	assert.Contains(t, content, "- **Confidence:** 90.00%\n")
	assert.Contains(t, content, "## Key Sentiment Drivers\n\n- Record revenue\n- Margin expansion\n")
}

func TestFormatEventReportEmpty(t *testing.T) {
	content := FormatAgentReport("ACME", &models.EventResult{Confidence: 0.9}, testTime)

	assert.Contains(t, content, "- **Total Events Found:** 0\n")
	assert.Contains(t, content, "*No events detected*")
	assert.Contains(t, content, "## Tool Validations\n\nNone\n")
}

func TestSentimentRoundTrip(t *testing.T) {
	want := sampleSentiment()
	got, meta := ParseSentimentReport(FormatAgentReport("ACME", want, testTime))

	assert.Equal(t, want, got)
	assert.Equal(t, "ACME", meta.Ticker)
	assert.Equal(t, "2026-08-29 10:30:00", meta.Generated)
	assert.Equal(t, "Sentiment Analysis Agent", meta.Agent)
}

func TestEventRoundTrip(t *testing.T) {
	want := sampleEvents()
	got, meta := ParseEventReport(FormatAgentReport("ACME", want, testTime))

	assert.Equal(t, want, got)
	assert.Equal(t, "ACME", meta.Ticker)
}

func TestVolatilityRoundTrip(t *testing.T) {
	want := sampleVolatility()
	got, meta := ParseVolatilityReport(FormatAgentReport("ACME", want, testTime))

	assert.Equal(t, want, got)
	assert.Equal(t, "Volatility Prediction Agent", meta.Agent)
}

func TestParseSentimentDefaults(t *testing.T) {
	got, _ := ParseSentimentReport("")

	assert.Equal(t, "positive", got.OverallSentiment)
	assert.InDelta(t, 0.75, got.SentimentScore, 1e-9)
	assert.InDelta(t, 0.85, got.Confidence, 1e-9)
	assert.Empty(t, got.KeyDrivers)
}

func TestParseSentimentMissingScore(t *testing.T) {
	content := FormatAgentReport("ACME", sampleSentiment(), testTime)
	content = strings.ReplaceAll(content, "- **Score:** 0.80 (range: -1.0 to 1.0)\n", "")

	got, _ := ParseSentimentReport(content)
	assert.InDelta(t, 0.75, got.SentimentScore, 1e-9)
	assert.Equal(t, "positive", got.OverallSentiment)
}

func TestParseEventDefaults(t *testing.T) {
	got, _ := ParseEventReport("")

	assert.Empty(t, got.Events)
	assert.Equal(t, 0, got.TotalEvents)
	assert.Equal(t, 0, got.VerifiedCount)
	assert.InDelta(t, 0.90, got.Confidence, 1e-9)
}

func TestParseEventCountsDefaultToParsed(t *testing.T) {
	content := FormatAgentReport("ACME", sampleEvents(), testTime)
	content = strings.ReplaceAll(content, "- **Total Events Found:** 2\n", "")
	content = strings.ReplaceAll(content, "- **Verified Events:** 1\n", "")

	got, _ := ParseEventReport(content)
	assert.Equal(t, 2, got.TotalEvents)
	assert.Equal(t, 2, got.VerifiedCount)
}

func TestParseEventFieldDefaults(t *testing.T) {
	content := "## Detected Events\n\n\n### Event 1: Lawsuit\n\nno field lines here\n\n## Tool Validations\n\nNone\n"

	got, _ := ParseEventReport(content)
	require.Len(t, got.Events, 1)
	ev := got.Events[0]
	assert.Equal(t, "Lawsuit", ev.EventType)
	assert.True(t, ev.MentionedInCall)
	assert.True(t, ev.Verified)
	assert.Equal(t, "transcript", ev.Source)
	assert.Equal(t, "medium", ev.ImpactAssessment)
}

func TestParseVolatilityDefaults(t *testing.T) {
	got, _ := ParseVolatilityReport("")

	assert.Equal(t, "medium", got.PredictedVolatility)
	assert.InDelta(t, 0.65, got.VolatilityScore, 1e-9)
	assert.InDelta(t, 0.85, got.Confidence, 1e-9)
	assert.InDelta(t, 0.20, got.HistoricalVolatility, 1e-9)
}

func finalState() *models.RunState {
	return &models.RunState{
		RunID: "run-1",
		Request: models.AnalysisRequest{
			Ticker:    "ACME",
			UserQuery: "Analyze the latest call",
		},
		SelfModel: models.DefaultSelfModel(),
		Decision: &models.CoordinatorDecision{
			UserIntent:     "Full analysis of the latest earnings call",
			AnalysisPlan:   []string{"1. Run sentiment analysis", "2. Detect events", "3. Predict volatility"},
			AgentsToInvoke: []string{"sentiment", "event_detection", "volatility"},
			Confidence:     0.88,
			Reasoning:      "The query asks for a complete picture.",
		},
		Sentiment:  sampleSentiment(),
		Events:     sampleEvents(),
		Volatility: sampleVolatility(),
	}
}

func TestFormatFinalReport(t *testing.T) {
	content := FormatFinalReport(finalState(), testTime)

	assert.Contains(t, content, "- **Sentiment:** positive (Score: 0.80, Confidence: 90.00%)\n")
	assert.Contains(t, content, "- **Events Detected:** 2 (1 verified, Confidence: 88.00%)\n")
	assert.Contains(t, content, "- **Predicted Volatility:** high (Score: 0.72, Confidence: 75.00%)\n")
	assert.Contains(t, content, "- **Historical Volatility:** 20.00%\n")

	// Step numbering stays consistent even when the model numbers its own
	// plan steps.
	assert.Contains(t, content, "1. Run sentiment analysis\n2. Detect events\n3. Predict volatility\n")

	assert.Contains(t, content, "*All confidence thresholds met. No guardrail violations detected.*")
	assert.Contains(t, content, "| Sentiment Analysis | 90.00% | 65.00% | ✓ Pass |\n")
	assert.Contains(t, content, "| Event Detection | 88.00% | 70.00% | ✓ Pass |\n")
	assert.Contains(t, content, "| Volatility Prediction | 75.00% | 60.00% | ✓ Pass |\n")
	assert.Contains(t, content, "**Generated by:** FinSight Agent v1.0\n")
}

func TestFormatFinalReportLowConfidence(t *testing.T) {
	state := finalState()
	state.Volatility.Confidence = 0.55

	content := FormatFinalReport(state, testTime)
	assert.Contains(t, content, "| Volatility Prediction | 55.00% | 60.00% | ⚠ Low |\n")
}

func TestFormatFinalReportMissingStages(t *testing.T) {
	state := finalState()
	state.Sentiment = nil
	state.Events = nil
	state.Volatility = nil

	content := FormatFinalReport(state, testTime)
	assert.Contains(t, content, "- **Sentiment:** N/A (Score: 0.00, Confidence: 0%)\n")
	assert.Contains(t, content, "*Sentiment analysis not available.*")
	assert.Contains(t, content, "*Event detection not available.*")
	assert.Contains(t, content, "*Volatility prediction not available.*")
}

func TestParseFinalReport(t *testing.T) {
	content := FormatFinalReport(finalState(), testTime)
	got, meta := ParseFinalReport(content)

	assert.Equal(t, "ACME", meta.Ticker)
	assert.Equal(t, "2026-08-29 10:30:00", meta.Generated)

	assert.Equal(t, "positive", got.Sentiment)
	assert.InDelta(t, 0.80, got.SentimentScore, 1e-9)
	assert.InDelta(t, 0.90, got.SentimentConfidence, 1e-9)
	assert.Equal(t, 2, got.EventsDetected)
	assert.Equal(t, 1, got.EventsVerified)
	assert.Equal(t, "high", got.PredictedVolatility)
	assert.InDelta(t, 0.72, got.VolatilityScore, 1e-9)
	assert.InDelta(t, 0.20, got.HistoricalVolatility, 1e-9)

	require.NotNil(t, got.Decision)
	assert.Equal(t, "Full analysis of the latest earnings call", got.Decision.UserIntent)
	assert.Equal(t, []string{"Run sentiment analysis", "Detect events", "Predict volatility"}, got.Decision.AnalysisPlan)
	assert.Equal(t, []string{"sentiment", "event_detection", "volatility"}, got.Decision.AgentsToInvoke)
	assert.InDelta(t, 0.88, got.Decision.Confidence, 1e-9)
	assert.Equal(t, "The query asks for a complete picture.", got.Decision.Reasoning)

	require.Len(t, got.ConfidenceSummary, 3)
	assert.Equal(t, "Pass", got.ConfidenceSummary[0].Status)
	assert.InDelta(t, 0.65, got.ConfidenceSummary[0].Threshold, 1e-9)

	assert.Equal(t, 0, got.GuardrailChecks)
	assert.Len(t, got.ActiveGuardrails, len(models.DefaultSelfModel().ActiveGuardrails))
	assert.Len(t, got.OperatingBoundaries, len(models.DefaultSelfModel().OperatingBoundaries))
}

func TestParseFinalReportLowStatus(t *testing.T) {
	state := finalState()
	state.Sentiment.Confidence = 0.55

	got, _ := ParseFinalReport(FormatFinalReport(state, testTime))
	require.Len(t, got.ConfidenceSummary, 3)
	assert.Equal(t, "Fail", got.ConfidenceSummary[0].Status)
	assert.Equal(t, "Pass", got.ConfidenceSummary[1].Status)
}

func TestParseFinalReportMissingDecision(t *testing.T) {
	state := finalState()
	state.Decision = nil

	got, _ := ParseFinalReport(FormatFinalReport(state, testTime))
	assert.Nil(t, got.Decision)
}

func TestArtifactStoreSave(t *testing.T) {
	dir := t.TempDir()
	store := NewArtifactStore(dir, zap.NewNop().Sugar())

	path, err := store.Save("sentiment", "acme", "report body", testTime)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sentiment_ACME_20260829_103000.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "report body", string(data))
}

func TestArtifactStoreCollisionSuffix(t *testing.T) {
	dir := t.TempDir()
	store := NewArtifactStore(dir, zap.NewNop().Sugar())

	first, err := store.Save("sentiment", "ACME", "first", testTime)
	require.NoError(t, err)
	second, err := store.Save("sentiment", "ACME", "second", testTime)
	require.NoError(t, err)
	third, err := store.Save("sentiment", "ACME", "third", testTime)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "sentiment_ACME_20260829_103000.md"), first)
	assert.Equal(t, filepath.Join(dir, "sentiment_ACME_20260829_103000_1.md"), second)
	assert.Equal(t, filepath.Join(dir, "sentiment_ACME_20260829_103000_2.md"), third)

	data, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))
}

func TestArtifactStoreLatest(t *testing.T) {
	dir := t.TempDir()
	store := NewArtifactStore(dir, zap.NewNop().Sugar())

	old, err := store.Save("volatility", "ACME", "old", testTime)
	require.NoError(t, err)
	newest, err := store.Save("volatility", "ACME", "new", testTime.Add(time.Second))
	require.NoError(t, err)
	require.NoError(t, os.Chtimes(old, testTime, testTime))

	got, err := store.Latest("volatility", "ACME")
	require.NoError(t, err)
	assert.Equal(t, newest, got)

	_, err = store.Latest("volatility", "OTHER")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExtractorLatestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewArtifactStore(dir, zap.NewNop().Sugar())

	want := sampleVolatility()
	_, err := store.SaveStage("ACME", want, testTime)
	require.NoError(t, err)

	got, meta, err := NewExtractor(dir, zap.NewNop().Sugar()).LatestVolatility("ACME")
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, "ACME", meta.Ticker)
}
