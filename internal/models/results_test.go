package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentimentResultValidate(t *testing.T) {
	r := &SentimentResult{OverallSentiment: SentimentPositive, SentimentScore: 0.8, Confidence: 0.9}
	assert.NoError(t, r.Validate())

	r.OverallSentiment = "bullish"
	assert.ErrorContains(t, r.Validate(), "overall_sentiment")

	r.OverallSentiment = SentimentNeutral
	r.SentimentScore = 1.5
	assert.ErrorContains(t, r.Validate(), "sentiment_score")

	r.SentimentScore = -1
	r.Confidence = 1.1
	assert.ErrorContains(t, r.Validate(), "confidence")
}

func TestEventResultValidate(t *testing.T) {
	r := &EventResult{TotalEvents: 2, VerifiedCount: 1, Confidence: 0.8,
		Events: []SignificantEvent{{ImpactAssessment: ImpactHigh}}}
	assert.NoError(t, r.Validate())

	r.VerifiedCount = 3
	assert.ErrorContains(t, r.Validate(), "verified_count")

	r.VerifiedCount = 1
	r.Events[0].ImpactAssessment = "severe"
	assert.ErrorContains(t, r.Validate(), "impact_assessment")
}

func TestVolatilityResultValidate(t *testing.T) {
	r := &VolatilityResult{PredictedVolatility: VolatilityModerate, VolatilityScore: 0.5, Confidence: 0.7}
	assert.NoError(t, r.Validate())

	r.PredictedVolatility = "medium"
	assert.ErrorContains(t, r.Validate(), "predicted_volatility")

	r.PredictedVolatility = VolatilityLow
	r.VolatilityScore = -0.1
	assert.ErrorContains(t, r.Validate(), "volatility_score")
}

func TestDefaultSelfModelThresholds(t *testing.T) {
	sm := DefaultSelfModel()
	assert.Len(t, sm.AgentCapabilities, 3)
	assert.InDelta(t, 0.65, sm.AgentCapabilities[0].ConfidenceThreshold, 1e-9)
	assert.InDelta(t, 0.70, sm.AgentCapabilities[1].ConfidenceThreshold, 1e-9)
	assert.InDelta(t, 0.60, sm.AgentCapabilities[2].ConfidenceThreshold, 1e-9)
}

func TestDefaultAnalysisQuestions(t *testing.T) {
	questions := DefaultAnalysisQuestions()
	assert.Len(t, questions, 5)
	for _, q := range questions {
		assert.Equal(t, "high", q.Priority)
		assert.NotEmpty(t, q.FocusItem)
		assert.NotEmpty(t, q.Question)
	}
}
