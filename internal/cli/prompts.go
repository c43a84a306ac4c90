package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"

	"github.com/finsight-ai/finsight/internal/dataflows"
)

// PromptForTicker prompts the user to enter a stock ticker symbol
func PromptForTicker() (string, error) {
	var ticker string
	prompt := &survey.Input{
		Message: "Enter the stock ticker symbol (e.g., AAPL, MSFT, GOOGL):",
		Help:    "The company whose earnings call you are analyzing",
	}

	err := survey.AskOne(prompt, &ticker, survey.WithValidator(func(val interface{}) error {
		str := dataflows.NormalizeSymbol(val.(string))
		if str == "" {
			return fmt.Errorf("ticker symbol cannot be empty")
		}
		return dataflows.ValidateSymbol(str)
	}))
	if err != nil {
		return "", err
	}

	return dataflows.NormalizeSymbol(ticker), nil
}

// PromptForTranscript prompts for the transcript path. When the input
// directory contains transcripts, they are offered as a pick list.
func PromptForTranscript(inputDir string) (string, error) {
	options := listTranscripts(inputDir)

	if len(options) > 0 {
		var selected string
		prompt := &survey.Select{
			Message: "Select an earnings call transcript:",
			Options: options,
			Help:    fmt.Sprintf("Transcripts found in %s", inputDir),
		}
		if err := survey.AskOne(prompt, &selected); err != nil {
			return "", err
		}
		return selected, nil
	}

	var path string
	prompt := &survey.Input{
		Message: "Enter the path to the earnings call transcript:",
		Help:    "A plain-text transcript file",
	}
	err := survey.AskOne(prompt, &path, survey.WithValidator(func(val interface{}) error {
		str := strings.TrimSpace(val.(string))
		if str == "" {
			return fmt.Errorf("transcript path cannot be empty")
		}
		if _, err := os.Stat(str); err != nil {
			return fmt.Errorf("file not found: %s", str)
		}
		return nil
	}))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(path), nil
}

// PromptForQuery asks what the analysis should focus on.
func PromptForQuery(ticker string) (string, error) {
	var query string
	prompt := &survey.Input{
		Message: "What should the analysis focus on?",
		Default: fmt.Sprintf("Analyze the latest earnings call for %s", ticker),
		Help:    "Free-form focus for the coordinator, e.g. guidance changes or dividend policy",
	}
	if err := survey.AskOne(prompt, &query); err != nil {
		return "", err
	}
	return query, nil
}

func listTranscripts(inputDir string) []string {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".txt") || strings.HasSuffix(name, ".md") {
			paths = append(paths, inputDir+string(os.PathSeparator)+name)
		}
	}
	return paths
}
