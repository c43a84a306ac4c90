package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// StaticGenerator is the deterministic Generator used by tests. Responses
// are keyed by result-shape name; unknown shapes fail with a schema
// violation, matching the production adapter's failure mode.
type StaticGenerator struct {
	// Responses maps a shape name (e.g. "SentimentResult") to the JSON the
	// generator should return for it.
	Responses map[string]string
	// Fail forces a schema violation for the named shapes.
	Fail map[string]bool

	// Prompts records every prompt seen, in call order.
	Prompts []string
}

func (g *StaticGenerator) Generate(_ context.Context, prompt string, out any) error {
	g.Prompts = append(g.Prompts, prompt)

	shape := shapeName(out)
	if g.Fail[shape] {
		return &SchemaViolationError{Shape: shape, Cause: fmt.Errorf("forced failure")}
	}

	raw, ok := g.Responses[shape]
	if !ok {
		return &SchemaViolationError{Shape: shape, Cause: fmt.Errorf("no canned response")}
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return &SchemaViolationError{Shape: shape, Cause: err}
	}
	if v, ok := out.(interface{ Validate() error }); ok {
		if err := v.Validate(); err != nil {
			return &SchemaViolationError{Shape: shape, Cause: err}
		}
	}
	return nil
}
