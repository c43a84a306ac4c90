// Package llm abstracts the schema-constrained completion capability. The
// pipeline only ever sees the Generator interface; the production adapter
// wraps an eino chat model and a deterministic static adapter serves tests.
package llm

import "context"

// Generator produces a result conforming to the shape of out (a pointer to a
// struct with json tags) from a single prompt. Any failure to produce a
// conforming result is reported as a *SchemaViolationError.
type Generator interface {
	Generate(ctx context.Context, prompt string, out any) error
}

// SchemaViolationError means the completion call failed outright or returned
// output that does not match the declared result shape.
type SchemaViolationError struct {
	Shape string
	Cause error
}

func (e *SchemaViolationError) Error() string {
	return "completion did not match shape " + e.Shape + ": " + e.Cause.Error()
}

func (e *SchemaViolationError) Unwrap() error { return e.Cause }
