package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds every setting the analysis pipeline needs. It is built once
// at process start and passed explicitly; there is no ambient global lookup.
type Config struct {
	// Scaleway GenAI (OpenAI-compatible) configuration
	ScalewayProjectID string `json:"scaleway_project_id"`
	ScalewayAPIKey    string `json:"scaleway_api_key"`

	LLMProvider string  `json:"llm_provider"`
	Model       string  `json:"model"`
	Temperature float32 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`

	// Alternate provider
	DeepSeekAPIKey string `json:"deepseek_api_key"`

	// External data providers
	TavilyAPIKey string `json:"tavily_api_key"`

	// SEC EDGAR requires a declared identity on every request
	SECCompanyName string `json:"sec_company_name"`
	SECEmail       string `json:"sec_email"`

	// Paths
	InputDir     string `json:"input_dir"`
	OutputDir    string `json:"output_dir"`
	DataCacheDir string `json:"data_cache_dir"`

	CacheEnabled bool `json:"cache_enabled"`
	Debug        bool `json:"debug"`

	// Eino visual debug server
	EinoDebugEnabled bool `json:"eino_debug_enabled"`
	EinoDebugPort    int  `json:"eino_debug_port"`
}

// BaseURL returns the OpenAI-compatible endpoint for the configured
// Scaleway project.
func (c *Config) BaseURL() string {
	return fmt.Sprintf("https://api.scaleway.ai/%s/v1", c.ScalewayProjectID)
}

func DefaultConfig() *Config {
	currentDir, _ := os.Getwd()

	cfg := &Config{
		LLMProvider: "scaleway",
		Model:       "qwen3-235b-a22b-instruct-2507",
		Temperature: 0.0,
		MaxTokens:   2048,

		SECCompanyName: "FinSightAI",
		SECEmail:       "research@finsight.ai",

		InputDir:     filepath.Join(currentDir, "data", "input"),
		OutputDir:    filepath.Join(currentDir, "data", "output"),
		DataCacheDir: filepath.Join(currentDir, "data", "cache"),

		CacheEnabled: true,
		Debug:        false,

		EinoDebugEnabled: false,
		EinoDebugPort:    52538,
	}

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg.loadFromEnv()

	return cfg
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("SCW_DEFAULT_PROJECT_ID"); val != "" {
		c.ScalewayProjectID = val
	}
	if val := os.Getenv("SCW_SECRET_KEY"); val != "" {
		c.ScalewayAPIKey = val
	}

	if val := os.Getenv("LLM_PROVIDER"); val != "" {
		c.LLMProvider = val
	}
	if val := os.Getenv("FINSIGHT_MODEL"); val != "" {
		c.Model = val
	}
	if val := os.Getenv("FINSIGHT_MAX_TOKENS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.MaxTokens = v
		}
	}
	if val := os.Getenv("FINSIGHT_TEMPERATURE"); val != "" {
		if v, err := strconv.ParseFloat(val, 32); err == nil {
			c.Temperature = float32(v)
		}
	}

	if val := os.Getenv("DEEPSEEK_API_KEY"); val != "" {
		c.DeepSeekAPIKey = val
	}
	if val := os.Getenv("TAVILY_API_KEY"); val != "" {
		c.TavilyAPIKey = val
	}

	if val := os.Getenv("SEC_COMPANY_NAME"); val != "" {
		c.SECCompanyName = val
	}
	if val := os.Getenv("SEC_EMAIL"); val != "" {
		c.SECEmail = val
	}

	if val := os.Getenv("INPUT_DIR"); val != "" {
		c.InputDir = val
	}
	if val := os.Getenv("OUTPUT_DIR"); val != "" {
		c.OutputDir = val
	}
	if val := os.Getenv("DATA_CACHE_DIR"); val != "" {
		c.DataCacheDir = val
	}

	if val := os.Getenv("CACHE_ENABLED"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.CacheEnabled = enabled
		}
	}
	if val := os.Getenv("FINSIGHT_DEBUG"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Debug = enabled
		}
	}

	if val := os.Getenv("EINO_DEBUG_ENABLED"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.EinoDebugEnabled = enabled
		}
	}
	if val := os.Getenv("EINO_DEBUG_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			c.EinoDebugPort = port
		}
	}
}

// MissingEnvError reports every required setting that was absent so the
// operator can fix them all in one pass.
type MissingEnvError struct {
	Names []string
}

func (e *MissingEnvError) Error() string {
	return fmt.Sprintf("missing required environment variables: %s", strings.Join(e.Names, ", "))
}

// Validate checks that every required setting is present. A failure here is
// the only fatal, pre-run configuration condition.
func (c *Config) Validate() error {
	required := []struct {
		value string
		name  string
	}{
		{c.ScalewayProjectID, "SCW_DEFAULT_PROJECT_ID"},
		{c.ScalewayAPIKey, "SCW_SECRET_KEY"},
		{c.TavilyAPIKey, "TAVILY_API_KEY"},
	}

	var missing []string
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.name)
		}
	}

	if len(missing) > 0 {
		return &MissingEnvError{Names: missing}
	}
	return nil
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{c.InputDir, c.OutputDir, c.DataCacheDir}
	for _, dir := range dirs {
		path := strings.TrimSpace(dir)
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", path, err)
		}
	}
	return nil
}
