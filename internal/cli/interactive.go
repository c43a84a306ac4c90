package cli

import (
	"context"
	"errors"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/spf13/cobra"

	"github.com/finsight-ai/finsight/config"
)

// runInteractiveMode collects the run parameters through prompts and then
// executes the same pipeline as `finsight analyze`.
func runInteractiveMode(cmd *cobra.Command, cfg *config.Config) error {
	ticker, err := PromptForTicker()
	if err != nil {
		return promptErr(err)
	}

	transcript, err := PromptForTranscript(cfg.InputDir)
	if err != nil {
		return promptErr(err)
	}

	query, err := PromptForQuery(ticker)
	if err != nil {
		return promptErr(err)
	}

	return runAnalysis(cmd, cfg, ticker, transcript, query)
}

// promptErr maps a Ctrl-C during a prompt onto the same path as an
// interrupted run.
func promptErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return context.Canceled
	}
	return err
}
