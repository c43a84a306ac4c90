// Package agents holds the pipeline's analysis stages. Each agent reads the
// run state, calls out to the completion model and its validation tools, and
// returns the state keys it produced. Agents never mutate state directly.
package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/finsight-ai/finsight/internal/models"
)

// Agent is one pipeline stage.
type Agent interface {
	Name() string
	Process(ctx context.Context, state *models.RunState) (*models.Update, error)
}

// Transcript excerpt ceilings. Prompts carry the head of the transcript, not
// all of it; the limits keep the largest prompt inside the model's context.
const (
	sentimentExcerptLimit  = 3000
	eventExcerptLimit      = 3000
	volatilityExcerptLimit = 3000
	insightExcerptLimit    = 4000
)

// excerpt truncates a transcript to at most limit characters from the start.
func excerpt(transcript string, limit int) string {
	if len(transcript) <= limit {
		return transcript
	}
	return transcript[:limit]
}

func bulletLines(items []string) string {
	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "- %s\n", item)
	}
	return b.String()
}
