// Package guardrails compares stage confidence against the per-agent
// thresholds declared in the self-model. The comparison feeds the final
// report's confidence-summary table only; it never alters pipeline control.
package guardrails

// Status is the outcome of one threshold check.
type Status string

const (
	// StatusPass renders as "✓ Pass" in the confidence-summary table.
	StatusPass Status = "✓ Pass"
	// StatusLow renders as "⚠ Low" when confidence misses the threshold.
	StatusLow Status = "⚠ Low"
)

// Evaluate reports whether a stage's self-reported confidence meets its
// agent's threshold.
func Evaluate(confidence, threshold float64) Status {
	if confidence >= threshold {
		return StatusPass
	}
	return StatusLow
}

// Passed is a convenience wrapper for callers that only need a boolean.
func Passed(confidence, threshold float64) bool {
	return Evaluate(confidence, threshold) == StatusPass
}
