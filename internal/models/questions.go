package models

// AnalysisQuestion is one question to be answered from the transcript.
type AnalysisQuestion struct {
	Category  string `json:"category"`
	FocusItem string `json:"focus_item"`
	Question  string `json:"question"`
	Priority  string `json:"priority"`
}

// DefaultAnalysisQuestions returns the fixed question set every run carries.
func DefaultAnalysisQuestions() []AnalysisQuestion {
	return []AnalysisQuestion{
		{
			Category:  "Financial Performance",
			FocusItem: "Dividends",
			Question:  "Did this company pay investors a dividend? If yes, what was the amount and frequency?",
			Priority:  "high",
		},
		{
			Category:  "Financial Performance",
			FocusItem: "Revenue Growth",
			Question:  "What was the year-over-year revenue growth rate mentioned in the call?",
			Priority:  "high",
		},
		{
			Category:  "Strategic Initiatives",
			FocusItem: "Key Projects",
			Question:  "What are the key projects or initiatives currently being undertaken by the company?",
			Priority:  "high",
		},
		{
			Category:  "Risk Factors",
			FocusItem: "Challenges",
			Question:  "What challenges, risks, or headwinds did the management discuss?",
			Priority:  "high",
		},
		{
			Category:  "Forward Guidance",
			FocusItem: "Outlook",
			Question:  "What guidance did the company provide for the next quarter or fiscal year?",
			Priority:  "high",
		},
	}
}
