package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/finsight-ai/finsight/config"
	"github.com/finsight-ai/finsight/internal/agents"
	"github.com/finsight-ai/finsight/internal/dataflows"
	"github.com/finsight-ai/finsight/internal/debug"
	"github.com/finsight-ai/finsight/internal/display"
	"github.com/finsight-ai/finsight/internal/engine"
	"github.com/finsight-ai/finsight/internal/llm"
	"github.com/finsight-ai/finsight/internal/models"
	"github.com/finsight-ai/finsight/internal/report"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg := config.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "finsight",
		Short: "FinSight - Multi-Agent Earnings Call Analysis",
		Long: `FinSight is a multi-agent financial analysis system powered by Large Language Models.
It analyzes earnings call transcripts for sentiment, significant events, and
expected volatility, validated against market news, SEC filings, and price data.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("failed to create directories: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default behavior: prompt for the run parameters interactively
			return runInteractiveMode(cmd, cfg)
		},
	}

	rootCmd.AddCommand(newAnalyzeCmd(cfg))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(cfg))

	return rootCmd
}

// newAnalyzeCmd creates the analyze command
func newAnalyzeCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze an earnings call transcript",
		Long: `Run the full multi-agent analysis over an earnings call transcript.
Example: finsight analyze -t data/input/acme_q2.txt -s ACME`,
		RunE: func(cmd *cobra.Command, args []string) error {
			transcript, _ := cmd.Flags().GetString("transcript")
			ticker, _ := cmd.Flags().GetString("ticker")
			query, _ := cmd.Flags().GetString("query")
			output, _ := cmd.Flags().GetString("output")

			if output != "" {
				cfg.OutputDir = output
			}
			// Without the run parameters, fall back to interactive prompts.
			if transcript == "" || ticker == "" {
				return runInteractiveMode(cmd, cfg)
			}
			return runAnalysis(cmd, cfg, ticker, transcript, query)
		},
	}

	cmd.Flags().StringP("transcript", "t", "", "Path to the earnings call transcript")
	cmd.Flags().StringP("ticker", "s", "", "Stock ticker symbol of the company")
	cmd.Flags().StringP("query", "q", "", "What to focus the analysis on")
	cmd.Flags().StringP("output", "o", "", "Directory for report artifacts (defaults to OUTPUT_DIR)")

	return cmd
}

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("FinSight v1.0")
			fmt.Println("Multi-Agent Earnings Call Analysis System")
		},
	}
}

// newConfigCmd creates the config command
func newConfigCmd(cfg *config.Config) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Run: func(cmd *cobra.Command, args []string) {
			showConfig(cfg)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and dependencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateConfig(cfg)
		},
	})

	return configCmd
}

// runAnalysis executes the full pipeline for one transcript. Configuration
// and input problems fail before the run starts; stage failures during the
// run are recorded in the report instead.
func runAnalysis(cmd *cobra.Command, cfg *config.Config, ticker, transcriptPath, query string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ticker = dataflows.NormalizeSymbol(ticker)
	if err := dataflows.ValidateSymbol(ticker); err != nil {
		return err
	}
	if _, err := os.Stat(transcriptPath); err != nil {
		return fmt.Errorf("transcript file not found at %s", transcriptPath)
	}
	if query == "" {
		query = fmt.Sprintf("Analyze the latest earnings call for %s", ticker)
	}

	log := newLogger(cfg.Debug)
	defer log.Sync()

	ctx := cmd.Context()

	if err := debug.NewEinoDebugger(cfg).Initialize(ctx); err != nil {
		log.Warnw("eino debug server failed to start", "error", err)
	}

	gen, err := llm.NewEinoGenerator(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("initialize model: %w", err)
	}

	store := report.NewArtifactStore(cfg.OutputDir, log)
	eng := engine.New(
		agents.NewCoordinator(gen, log),
		agents.NewSentimentAgent(gen, dataflows.NewTavilyClient(cfg), log),
		agents.NewEventAgent(gen, dataflows.NewEdgarClient(cfg), log),
		agents.NewVolatilityAgent(gen, dataflows.NewYahooClient(cfg), log),
		store, log,
	)

	display.ShowBanner(ticker, transcriptPath)

	state, err := eng.Run(ctx, models.AnalysisRequest{
		Ticker:            ticker,
		TranscriptPath:    transcriptPath,
		UserQuery:         query,
		AnalysisQuestions: models.DefaultAnalysisQuestions(),
	})
	if err != nil {
		return err
	}

	display.ShowRunSummary(state, cfg.OutputDir)
	return nil
}

func newLogger(debugMode bool) *zap.SugaredLogger {
	var logger *zap.Logger
	if debugMode {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}
	return logger.Sugar()
}

// showConfig displays the current configuration
func showConfig(cfg *config.Config) {
	fmt.Println("Current FinSight Configuration:")
	fmt.Println("═══════════════════════════════════════")
	fmt.Printf("Input Directory:      %s\n", cfg.InputDir)
	fmt.Printf("Output Directory:     %s\n", cfg.OutputDir)
	fmt.Printf("Cache Directory:      %s\n", cfg.DataCacheDir)
	fmt.Println()
	fmt.Printf("LLM Provider:         %s\n", cfg.LLMProvider)
	fmt.Printf("Model:                %s\n", cfg.Model)
	fmt.Printf("Max Tokens:           %d\n", cfg.MaxTokens)
	fmt.Printf("Temperature:          %.1f\n", cfg.Temperature)
	fmt.Println()
	fmt.Printf("Cache Enabled:        %t\n", cfg.CacheEnabled)
	fmt.Printf("Debug Mode:           %t\n", cfg.Debug)
	fmt.Printf("Eino Debug:           %t\n", cfg.EinoDebugEnabled)
	if cfg.EinoDebugEnabled {
		fmt.Printf("Debug URL:            http://localhost:%d\n", cfg.EinoDebugPort)
	}
	fmt.Println()

	fmt.Println("API Configuration:")
	fmt.Println("─────────────────────")
	printKeyStatus("Scaleway GenAI", cfg.ScalewayProjectID != "" && cfg.ScalewayAPIKey != "")
	printKeyStatus("DeepSeek API", cfg.DeepSeekAPIKey != "")
	printKeyStatus("Tavily API", cfg.TavilyAPIKey != "")
	fmt.Printf("SEC EDGAR Identity:   %s %s\n", cfg.SECCompanyName, cfg.SECEmail)
}

func printKeyStatus(name string, configured bool) {
	status := "❌ Not configured"
	if configured {
		status = "✅ Configured"
	}
	fmt.Printf("%-21s %s\n", name+":", status)
}

// validateConfig validates the configuration and dependencies
func validateConfig(cfg *config.Config) error {
	fmt.Println("Validating FinSight Configuration...")
	fmt.Println("═══════════════════════════════════════")

	fmt.Print("Checking directories... ")
	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Println("❌")
		return fmt.Errorf("directory validation failed: %w", err)
	}
	fmt.Println("✅")

	fmt.Print("Checking required settings... ")
	if err := cfg.Validate(); err != nil {
		fmt.Println("❌")
		return err
	}
	fmt.Println("✅")

	var warnings []string
	if cfg.DeepSeekAPIKey == "" && strings.EqualFold(cfg.LLMProvider, "deepseek") {
		warnings = append(warnings, "LLM_PROVIDER is deepseek but DEEPSEEK_API_KEY is not set")
	}
	if cfg.SECEmail == "" {
		warnings = append(warnings, "SEC_EMAIL not set; EDGAR requests may be rejected")
	}

	fmt.Println()
	if len(warnings) == 0 {
		fmt.Println("✅ Configuration validation completed successfully!")
	} else {
		fmt.Printf("⚠️  Configuration validation completed with %d warnings.\n", len(warnings))
		for _, warning := range warnings {
			fmt.Printf("  ⚠️  %s\n", warning)
		}
	}
	return nil
}
