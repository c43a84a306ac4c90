package models

// AnalysisRequest describes a single run: which transcript to analyze, for
// which ticker, and what the caller wants to know. Created once, never
// mutated.
type AnalysisRequest struct {
	Ticker            string             `json:"ticker"`
	TranscriptPath    string             `json:"transcript_path"`
	UserQuery         string             `json:"user_query"`
	AnalysisQuestions []AnalysisQuestion `json:"analysis_questions"`
}

// RunState accumulates the outputs of a single pipeline execution. It is
// owned exclusively by the engine; stages see it read-only and return the
// keys they changed as an Update. Error and guardrail lists only grow, and a
// stage result slot is written at most once.
type RunState struct {
	RunID   string          `json:"run_id"`
	Request AnalysisRequest `json:"request"`

	SelfModel *SelfModel `json:"self_model"`

	TranscriptContent string `json:"transcript_content"`

	Decision   *CoordinatorDecision `json:"metacognitive_decision"`
	Sentiment  *SentimentResult     `json:"sentiment_result"`
	Events     *EventResult         `json:"event_detection_result"`
	Volatility *VolatilityResult    `json:"volatility_result"`

	FinalReport string `json:"final_report"`

	GuardrailsApplied []GuardrailRecord `json:"guardrails_applied"`
	Errors            []string          `json:"errors"`
}

// Update is the partial state change a stage returns. Nil pointers mean
// "unchanged"; slices are appended, never replacing what is already there.
type Update struct {
	TranscriptContent *string

	Decision   *CoordinatorDecision
	Sentiment  *SentimentResult
	Events     *EventResult
	Volatility *VolatilityResult

	FinalReport *string

	Guardrails []GuardrailRecord
	Errors     []string
}
