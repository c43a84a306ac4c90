// Package report owns the structured-report wire format: a formatter that
// renders typed results as canonical markdown, and an extractor that
// recovers the same fields from that text. The two sides share the grammar
// defined in this file; any label change must keep them in agreement or the
// extractor silently falls back to defaults.
package report

import (
	"fmt"
	"time"

	"github.com/finsight-ai/finsight/internal/models"
)

// Timestamp layouts used in report bodies and artifact filenames.
const (
	reportTimeLayout = "2006-01-02 15:04:05"
	fileTimeLayout   = "20060102_150405"
)

// FinalReportStage is the artifact-name prefix for the aggregate report.
const FinalReportStage = "final_report"

// Field labels. A field line renders as "**Label:** value" on its own line.
const (
	labelTicker        = "Ticker"
	labelGenerated     = "Generated"
	labelAgent         = "Agent"
	labelSentiment     = "Sentiment"
	labelScore         = "Score"
	labelConfidence    = "Confidence"
	labelTotalEvents   = "Total Events Found"
	labelVerified      = "Verified Events"
	labelDescription   = "Description"
	labelMentioned     = "Mentioned in Call"
	labelEventVerified = "Verified"
	labelSource        = "Source"
	labelImpact        = "Impact"
	labelPredictedVol  = "Predicted Volatility"
	labelVolScore      = "Volatility Score"
	labelHistVol       = "Historical Volatility"
	labelQuestion      = "Question"
	labelAnswer        = "Answer"
)

// StageFilePrefix maps a stage kind to its artifact filename prefix.
func StageFilePrefix(kind models.StageKind) string {
	return string(kind)
}

// pct renders a [0,1] fraction the way every report shows percentages.
func pct(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}

// score renders a numeric score with two decimals.
func score(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func reportTime(t time.Time) string {
	return t.Format(reportTimeLayout)
}
