package models

import "fmt"

// StageKind discriminates the concrete result shape carried by a StageResult.
type StageKind string

const (
	KindCoordinator StageKind = "coordinator"
	KindSentiment   StageKind = "sentiment"
	KindEvents      StageKind = "event_detection"
	KindVolatility  StageKind = "volatility"
)

// StageResult is the tagged union over the four per-stage result shapes.
// Formatter and engine switch exhaustively on Kind.
type StageResult interface {
	Kind() StageKind
	Validate() error
}

// Sentiment labels, ordered from most negative to most positive.
const (
	SentimentVeryNegative = "very_negative"
	SentimentNegative     = "negative"
	SentimentNeutral      = "neutral"
	SentimentPositive     = "positive"
	SentimentVeryPositive = "very_positive"
)

var sentimentLabels = map[string]bool{
	SentimentVeryNegative: true,
	SentimentNegative:     true,
	SentimentNeutral:      true,
	SentimentPositive:     true,
	SentimentVeryPositive: true,
}

// SentimentResult is the sentiment agent's output.
type SentimentResult struct {
	OverallSentiment string   `json:"overall_sentiment"`
	SentimentScore   float64  `json:"sentiment_score"`
	MarketSentiment  string   `json:"market_sentiment"`
	KeyDrivers       []string `json:"key_sentiment_drivers"`
	NewsHeadlines    []string `json:"news_headlines"`
	Confidence       float64  `json:"confidence"`
	ToolValidations  []string `json:"tool_validations"`
}

func (r *SentimentResult) Kind() StageKind { return KindSentiment }

func (r *SentimentResult) Validate() error {
	if !sentimentLabels[r.OverallSentiment] {
		return fmt.Errorf("invalid overall_sentiment %q", r.OverallSentiment)
	}
	if r.SentimentScore < -1 || r.SentimentScore > 1 {
		return fmt.Errorf("sentiment_score %.2f outside [-1,1]", r.SentimentScore)
	}
	return validConfidence(r.Confidence)
}

// Impact levels for detected events.
const (
	ImpactHigh   = "high"
	ImpactMedium = "medium"
	ImpactLow    = "low"
)

var impactLevels = map[string]bool{ImpactHigh: true, ImpactMedium: true, ImpactLow: true}

// SignificantEvent is one corporate event detected in (or around) the call.
type SignificantEvent struct {
	EventType        string `json:"event_type"`
	Description      string `json:"description"`
	MentionedInCall  bool   `json:"mentioned_in_call"`
	Verified         bool   `json:"verified"`
	Source           string `json:"source"`
	ImpactAssessment string `json:"impact_assessment"`
}

// EventResult is the event-detection agent's output.
type EventResult struct {
	Events          []SignificantEvent `json:"events"`
	TotalEvents     int                `json:"total_events_found"`
	VerifiedCount   int                `json:"verified_count"`
	Confidence      float64            `json:"confidence"`
	ToolValidations []string           `json:"tool_validations"`
}

func (r *EventResult) Kind() StageKind { return KindEvents }

func (r *EventResult) Validate() error {
	if r.VerifiedCount > r.TotalEvents {
		return fmt.Errorf("verified_count %d exceeds total_events_found %d", r.VerifiedCount, r.TotalEvents)
	}
	for i, ev := range r.Events {
		if !impactLevels[ev.ImpactAssessment] {
			return fmt.Errorf("event %d: invalid impact_assessment %q", i, ev.ImpactAssessment)
		}
	}
	return validConfidence(r.Confidence)
}

// Volatility labels, ordered from most to least volatile.
const (
	VolatilityVeryHigh = "very_high"
	VolatilityHigh     = "high"
	VolatilityModerate = "moderate"
	VolatilityLow      = "low"
	VolatilityVeryLow  = "very_low"
)

var volatilityLabels = map[string]bool{
	VolatilityVeryHigh: true,
	VolatilityHigh:     true,
	VolatilityModerate: true,
	VolatilityLow:      true,
	VolatilityVeryLow:  true,
}

// InsightAnswer is the answer to one analysis question, extracted from the
// transcript by an independent completion call.
type InsightAnswer struct {
	Category       string   `json:"category"`
	FocusItem      string   `json:"focus_item"`
	Question       string   `json:"question"`
	Answer         string   `json:"answer"`
	Confidence     float64  `json:"confidence"`
	RelevantQuotes []string `json:"relevant_quotes"`
}

func (a *InsightAnswer) Validate() error { return validConfidence(a.Confidence) }

// VolatilityResult is the volatility agent's output.
type VolatilityResult struct {
	PredictedVolatility  string          `json:"predicted_volatility"`
	VolatilityScore      float64         `json:"volatility_score"`
	TranscriptInsights   []InsightAnswer `json:"transcript_insights"`
	KeyDrivers           []string        `json:"key_volatility_drivers"`
	SentimentImpact      string          `json:"sentiment_impact"`
	EventImpact          string          `json:"event_impact"`
	Confidence           float64         `json:"confidence"`
	HistoricalVolatility float64         `json:"historical_volatility"`
	ToolValidations      []string        `json:"tool_validations"`
}

func (r *VolatilityResult) Kind() StageKind { return KindVolatility }

func (r *VolatilityResult) Validate() error {
	if !volatilityLabels[r.PredictedVolatility] {
		return fmt.Errorf("invalid predicted_volatility %q", r.PredictedVolatility)
	}
	if r.VolatilityScore < 0 || r.VolatilityScore > 1 {
		return fmt.Errorf("volatility_score %.2f outside [0,1]", r.VolatilityScore)
	}
	return validConfidence(r.Confidence)
}

// CoordinatorDecision is the coordinator's plan for the run.
type CoordinatorDecision struct {
	UserIntent     string   `json:"user_intent"`
	AnalysisPlan   []string `json:"analysis_plan"`
	AgentsToInvoke []string `json:"agents_to_invoke"`
	Confidence     float64  `json:"confidence"`
	Reasoning      string   `json:"reasoning"`
}

func (r *CoordinatorDecision) Kind() StageKind { return KindCoordinator }

func (r *CoordinatorDecision) Validate() error { return validConfidence(r.Confidence) }

func validConfidence(v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("confidence %.2f outside [0,1]", v)
	}
	return nil
}
