package models

// GuardrailRecord is one guardrail or boundary check applied during a run.
type GuardrailRecord struct {
	Timestamp     string `json:"timestamp"`
	Agent         string `json:"agent"`
	GuardrailType string `json:"guardrail_type"`
	Description   string `json:"description"`
	ActionTaken   string `json:"action_taken"`
}

// AgentCapability describes one agent's declared abilities and its minimum
// acceptable confidence.
type AgentCapability struct {
	AgentName           string   `json:"agent_name"`
	Capabilities        []string `json:"capabilities"`
	Limitations         []string `json:"limitations"`
	ConfidenceThreshold float64  `json:"confidence_threshold"`
}

// SelfModel is the system's declared identity: mission, per-agent
// capabilities, boundaries and active guardrails. It is rendered into every
// final report.
type SelfModel struct {
	SystemName          string            `json:"system_name"`
	Version             string            `json:"version"`
	Mission             string            `json:"mission"`
	AgentCapabilities   []AgentCapability `json:"agent_capabilities"`
	OperatingBoundaries []string          `json:"operating_boundaries"`
	MinConfidence       float64           `json:"min_confidence_for_recommendation"`
	ActiveGuardrails    []string          `json:"active_guardrails"`
}

// DefaultSelfModel returns the self-model every run starts with.
func DefaultSelfModel() *SelfModel {
	return &SelfModel{
		SystemName: "FinSight Agent",
		Version:    "1.0",
		Mission: "Provide comprehensive, multi-agent financial analysis of earnings calls " +
			"while maintaining transparency, accuracy, and ethical boundaries",
		AgentCapabilities: []AgentCapability{
			{
				AgentName: "Sentiment Analysis Agent",
				Capabilities: []string{
					"Analyze sentiment from earnings call transcripts",
					"Correlate with market news sentiment using Tavily",
					"Identify sentiment drivers and trends",
				},
				Limitations: []string{
					"Cannot predict future sentiment with certainty",
					"Limited to English language sources",
				},
				ConfidenceThreshold: 0.65,
			},
			{
				AgentName: "Significant Event Detection Agent",
				Capabilities: []string{
					"Identify corporate events from transcripts",
					"Verify events against SEC filings using EDGAR",
					"Assess event materiality and impact",
				},
				Limitations: []string{
					"Cannot access all global press releases",
					"SEC filings may have reporting delays",
				},
				ConfidenceThreshold: 0.70,
			},
			{
				AgentName: "Volatility Prediction Agent",
				Capabilities: []string{
					"Extract structured insights from transcripts",
					"Analyze multi-modal signals",
					"Validate predictions using Yahoo Finance market data",
				},
				Limitations: []string{
					"Cannot guarantee prediction accuracy",
					"Subject to unforeseen market shocks",
				},
				ConfidenceThreshold: 0.60,
			},
		},
		OperatingBoundaries: []string{
			"NO personalized investment advice or stock recommendations",
			"NO guarantees about future stock performance",
			"All outputs are for educational and analytical purposes only",
			"Must disclose confidence levels and limitations",
		},
		MinConfidence: 0.7,
		ActiveGuardrails: []string{
			"Confidence threshold enforcement",
			"Source verification requirement",
			"Investment advice prohibition",
			"Transparent limitation disclosure",
		},
	}
}
