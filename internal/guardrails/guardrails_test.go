package guardrails

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	assert.Equal(t, StatusPass, Evaluate(0.72, 0.65))
	assert.Equal(t, StatusLow, Evaluate(0.55, 0.70))
	// Meeting the threshold exactly passes.
	assert.Equal(t, StatusPass, Evaluate(0.60, 0.60))
}

func TestStatusGlyphs(t *testing.T) {
	assert.Equal(t, "✓ Pass", string(StatusPass))
	assert.Equal(t, "⚠ Low", string(StatusLow))
}

func TestPassed(t *testing.T) {
	assert.True(t, Passed(0.9, 0.65))
	assert.False(t, Passed(0.5, 0.65))
}
