package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/finsight-ai/finsight/internal/models"
	"github.com/finsight-ai/finsight/internal/report"
)

type stubAgent struct {
	name   string
	update *models.Update
	err    error
	calls  int
}

func (s *stubAgent) Name() string { return s.name }

func (s *stubAgent) Process(_ context.Context, _ *models.RunState) (*models.Update, error) {
	s.calls++
	return s.update, s.err
}

func okAgents() (*stubAgent, *stubAgent, *stubAgent, *stubAgent) {
	coordinator := &stubAgent{name: "coordinator", update: &models.Update{
		Decision: &models.CoordinatorDecision{
			UserIntent:     "Full analysis",
			AnalysisPlan:   []string{"Run everything"},
			AgentsToInvoke: []string{"sentiment", "event_detection", "volatility"},
			Confidence:     0.9,
			Reasoning:      "Broad query",
		},
	}}
	sentiment := &stubAgent{name: "sentiment", update: &models.Update{
		Sentiment: &models.SentimentResult{
			OverallSentiment: "positive",
			SentimentScore:   0.7,
			MarketSentiment:  "Upbeat",
			Confidence:       0.9,
		},
	}}
	events := &stubAgent{name: "event_detection", update: &models.Update{
		Events: &models.EventResult{TotalEvents: 1, VerifiedCount: 1, Confidence: 0.85,
			Events: []models.SignificantEvent{{
				EventType: "Acquisition", Description: "Bought a startup",
				MentionedInCall: true, Verified: true, Source: "8-K", ImpactAssessment: "high",
			}}},
	}}
	volatility := &stubAgent{name: "volatility", update: &models.Update{
		Volatility: &models.VolatilityResult{
			PredictedVolatility: "high", VolatilityScore: 0.7,
			Confidence: 0.75, HistoricalVolatility: 0.3,
		},
	}}
	return coordinator, sentiment, events, volatility
}

func newTestEngine(t *testing.T, coordinator, sentiment, events, volatility *stubAgent) (*Engine, string) {
	t.Helper()
	dir := t.TempDir()
	log := zap.NewNop().Sugar()
	store := report.NewArtifactStore(dir, log)
	return New(coordinator, sentiment, events, volatility, store, log), dir
}

func writeTranscript(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "acme_q2.txt")
	require.NoError(t, os.WriteFile(path, []byte("Record revenue this quarter."), 0o644))
	return path
}

func testRequest(t *testing.T) models.AnalysisRequest {
	return models.AnalysisRequest{
		Ticker:            "ACME",
		TranscriptPath:    writeTranscript(t),
		UserQuery:         "Analyze the call",
		AnalysisQuestions: models.DefaultAnalysisQuestions(),
	}
}

func artifactCount(t *testing.T, dir, pattern string) int {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	require.NoError(t, err)
	return len(matches)
}

func TestRunCompletes(t *testing.T) {
	coordinator, sentiment, events, volatility := okAgents()
	eng, dir := newTestEngine(t, coordinator, sentiment, events, volatility)

	state, err := eng.Run(context.Background(), testRequest(t))
	require.NoError(t, err)

	assert.NotEmpty(t, state.RunID)
	assert.Equal(t, "Record revenue this quarter.", state.TranscriptContent)
	assert.NotNil(t, state.Decision)
	assert.NotNil(t, state.Sentiment)
	assert.NotNil(t, state.Events)
	assert.NotNil(t, state.Volatility)
	assert.Empty(t, state.Errors)
	assert.Contains(t, state.FinalReport, "# FinSight Multi-Agent Analysis Report")

	assert.Equal(t, 1, coordinator.calls)
	assert.Equal(t, 1, sentiment.calls)
	assert.Equal(t, 1, events.calls)
	assert.Equal(t, 1, volatility.calls)

	assert.Equal(t, 1, artifactCount(t, dir, "sentiment_ACME_*.md"))
	assert.Equal(t, 1, artifactCount(t, dir, "event_detection_ACME_*.md"))
	assert.Equal(t, 1, artifactCount(t, dir, "volatility_ACME_*.md"))
	assert.Equal(t, 1, artifactCount(t, dir, "final_report_ACME_*.md"))
	assert.Equal(t, 0, artifactCount(t, dir, "coordinator_ACME_*.md"))
}

func TestRunStageFailureIsSoft(t *testing.T) {
	coordinator, sentiment, events, volatility := okAgents()
	events.update = nil
	events.err = errors.New("completion did not match shape EventResult: bad json")
	eng, dir := newTestEngine(t, coordinator, sentiment, events, volatility)

	state, err := eng.Run(context.Background(), testRequest(t))
	require.NoError(t, err)

	assert.Nil(t, state.Events)
	require.Len(t, state.Errors, 1)
	assert.Contains(t, state.Errors[0], "Event detection error:")

	// Later stages still ran and the final report still rendered.
	assert.Equal(t, 1, volatility.calls)
	assert.Contains(t, state.FinalReport, "*Event detection not available.*")
	assert.Equal(t, 0, artifactCount(t, dir, "event_detection_ACME_*.md"))
	assert.Equal(t, 1, artifactCount(t, dir, "final_report_ACME_*.md"))
}

func TestRunMissingTranscript(t *testing.T) {
	coordinator, sentiment, events, volatility := okAgents()
	eng, _ := newTestEngine(t, coordinator, sentiment, events, volatility)

	request := testRequest(t)
	request.TranscriptPath = filepath.Join(t.TempDir(), "missing.txt")

	state, err := eng.Run(context.Background(), request)
	require.NoError(t, err)

	assert.Empty(t, state.TranscriptContent)
	require.Len(t, state.Errors, 1)
	assert.Equal(t, "Error: Transcript file not found at "+request.TranscriptPath, state.Errors[0])
	assert.Equal(t, 1, volatility.calls)
	assert.NotEmpty(t, state.FinalReport)
}

func TestRunCancelled(t *testing.T) {
	coordinator, sentiment, events, volatility := okAgents()
	eng, _ := newTestEngine(t, coordinator, sentiment, events, volatility)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	state, err := eng.Run(ctx, testRequest(t))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, coordinator.calls)
	assert.Empty(t, state.FinalReport)
}

func TestApplyAppendsLists(t *testing.T) {
	state := &models.RunState{Errors: []string{"first"}}
	apply(state, &models.Update{
		Errors:     []string{"second"},
		Guardrails: []models.GuardrailRecord{{GuardrailType: "confidence"}},
	})

	assert.Equal(t, []string{"first", "second"}, state.Errors)
	assert.Len(t, state.GuardrailsApplied, 1)
}

func TestApplyPanicsOnDoubleSet(t *testing.T) {
	state := &models.RunState{Sentiment: &models.SentimentResult{}}
	assert.Panics(t, func() {
		apply(state, &models.Update{Sentiment: &models.SentimentResult{}})
	})
}
