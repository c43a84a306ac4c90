// Package engine runs the analysis pipeline: a fixed linear sequence of
// stages over a single accumulating run state. Stages fail soft; a stage
// error is recorded and the run still produces a final report.
package engine

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/finsight-ai/finsight/internal/agents"
	"github.com/finsight-ai/finsight/internal/models"
	"github.com/finsight-ai/finsight/internal/report"
)

// Engine owns the stage sequence and the run state. The coordinator's plan
// never changes which stages run; every run executes the full sequence.
type Engine struct {
	coordinator agents.Agent
	sentiment   agents.Agent
	events      agents.Agent
	volatility  agents.Agent

	store *report.ArtifactStore
	log   *zap.SugaredLogger
	now   func() time.Time
}

func New(coordinator, sentiment, events, volatility agents.Agent, store *report.ArtifactStore, log *zap.SugaredLogger) *Engine {
	return &Engine{
		coordinator: coordinator,
		sentiment:   sentiment,
		events:      events,
		volatility:  volatility,
		store:       store,
		log:         log,
		now:         time.Now,
	}
}

type stage struct {
	agent     agents.Agent
	errFormat string
	// result returns the stage's output to persist, nil when the stage
	// produces no artifact.
	result func(*models.RunState) models.StageResult
}

// Run executes the full pipeline for one request. The returned state is
// complete even when stages failed; only context cancellation aborts a run
// early.
func (e *Engine) Run(ctx context.Context, request models.AnalysisRequest) (*models.RunState, error) {
	state := &models.RunState{
		RunID:     uuid.NewString(),
		Request:   request,
		SelfModel: models.DefaultSelfModel(),
	}

	e.log.Infow("starting analysis run", "run_id", state.RunID, "ticker", request.Ticker)

	if err := ctx.Err(); err != nil {
		return state, err
	}
	e.runStage(ctx, state, stage{agent: e.coordinator, errFormat: "Coordinator error: %v"})
	e.loadTranscript(state)

	stages := []stage{
		{agent: e.sentiment, errFormat: "Sentiment analysis error: %v",
			result: func(s *models.RunState) models.StageResult {
				if s.Sentiment == nil {
					return nil
				}
				return s.Sentiment
			}},
		{agent: e.events, errFormat: "Event detection error: %v",
			result: func(s *models.RunState) models.StageResult {
				if s.Events == nil {
					return nil
				}
				return s.Events
			}},
		{agent: e.volatility, errFormat: "Volatility prediction error: %v",
			result: func(s *models.RunState) models.StageResult {
				if s.Volatility == nil {
					return nil
				}
				return s.Volatility
			}},
	}

	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			return state, err
		}
		e.runStage(ctx, state, st)
	}

	if err := ctx.Err(); err != nil {
		return state, err
	}
	e.synthesize(state)

	e.log.Infow("analysis run complete",
		"run_id", state.RunID, "ticker", request.Ticker, "errors", len(state.Errors))
	return state, nil
}

// runStage executes one stage, records its failure, or merges its update and
// persists its artifact.
func (e *Engine) runStage(ctx context.Context, state *models.RunState, st stage) {
	update, err := st.agent.Process(ctx, state)
	if err != nil {
		e.log.Warnw("stage failed", "stage", st.agent.Name(), "error", err)
		state.Errors = append(state.Errors, fmt.Sprintf(st.errFormat, err))
		return
	}
	apply(state, update)

	if st.result == nil {
		return
	}
	if result := st.result(state); result != nil {
		e.persist(state, result)
	}
}

// loadTranscript reads the transcript into state. A missing file is recorded
// as a run error; downstream stages analyze an empty transcript.
func (e *Engine) loadTranscript(state *models.RunState) {
	data, err := os.ReadFile(state.Request.TranscriptPath)
	if err != nil {
		e.log.Warnw("transcript not readable", "path", state.Request.TranscriptPath, "error", err)
		state.Errors = append(state.Errors,
			fmt.Sprintf("Error: Transcript file not found at %s", state.Request.TranscriptPath))
		return
	}
	state.TranscriptContent = string(data)
}

// persist writes one stage's report artifact as soon as the stage finishes,
// so partial runs still leave their completed reports on disk.
func (e *Engine) persist(state *models.RunState, result models.StageResult) {
	if _, err := e.store.SaveStage(state.Request.Ticker, result, e.now()); err != nil {
		e.log.Errorw("failed to persist report", "stage", result.Kind(), "error", err)
		state.Errors = append(state.Errors, fmt.Sprintf("Report persistence error: %v", err))
	}
}

// synthesize renders and persists the final aggregate report.
func (e *Engine) synthesize(state *models.RunState) {
	content := report.FormatFinalReport(state, e.now())
	state.FinalReport = content

	if _, err := e.store.Save(report.FinalReportStage, state.Request.Ticker, content, e.now()); err != nil {
		e.log.Errorw("failed to persist final report", "error", err)
		state.Errors = append(state.Errors, fmt.Sprintf("Report persistence error: %v", err))
	}
}

// apply merges a stage's update into the run state. Result slots are
// write-once: a second write to the same slot is a bug in the stage
// sequence, not a data condition, so it panics. List keys append.
func apply(state *models.RunState, update *models.Update) {
	if update == nil {
		return
	}

	if update.TranscriptContent != nil {
		state.TranscriptContent = *update.TranscriptContent
	}
	if update.Decision != nil {
		if state.Decision != nil {
			panic("engine: coordinator decision set twice")
		}
		state.Decision = update.Decision
	}
	if update.Sentiment != nil {
		if state.Sentiment != nil {
			panic("engine: sentiment result set twice")
		}
		state.Sentiment = update.Sentiment
	}
	if update.Events != nil {
		if state.Events != nil {
			panic("engine: event result set twice")
		}
		state.Events = update.Events
	}
	if update.Volatility != nil {
		if state.Volatility != nil {
			panic("engine: volatility result set twice")
		}
		state.Volatility = update.Volatility
	}
	if update.FinalReport != nil {
		if state.FinalReport != "" {
			panic("engine: final report set twice")
		}
		state.FinalReport = *update.FinalReport
	}

	state.GuardrailsApplied = append(state.GuardrailsApplied, update.Guardrails...)
	state.Errors = append(state.Errors, update.Errors...)
}
