package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/finsight-ai/finsight/config"
)

const systemPrompt = `You are a financial analysis assistant. Respond with a single JSON object
that matches the requested fields exactly. Do not include any prose, markdown
fences, or commentary outside the JSON object.`

// EinoGenerator is the production Generator backed by an eino chat model.
type EinoGenerator struct {
	chatModel model.BaseChatModel
	log       *zap.SugaredLogger
}

// NewEinoGenerator builds the chat model for the configured provider. The
// default is the Scaleway OpenAI-compatible endpoint; set LLM_PROVIDER to
// "deepseek" to use the DeepSeek adapter instead.
func NewEinoGenerator(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (*EinoGenerator, error) {
	var (
		chatModel model.BaseChatModel
		err       error
	)

	switch cfg.LLMProvider {
	case "deepseek":
		chatModel, err = deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
			APIKey:    cfg.DeepSeekAPIKey,
			Model:     cfg.Model,
			MaxTokens: cfg.MaxTokens,
		})
	default:
		maxTokens := cfg.MaxTokens
		temperature := cfg.Temperature
		chatModel, err = openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL:     cfg.BaseURL(),
			APIKey:      cfg.ScalewayAPIKey,
			Model:       cfg.Model,
			MaxTokens:   &maxTokens,
			Temperature: &temperature,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("create %s chat model: %w", cfg.LLMProvider, err)
	}

	return &EinoGenerator{chatModel: chatModel, log: log.Named("llm")}, nil
}

// Generate issues one blocking completion call and unmarshals the response
// into out. Provider failures, malformed JSON, and shape-validation failures
// all surface as *SchemaViolationError.
func (g *EinoGenerator) Generate(ctx context.Context, prompt string, out any) error {
	shape := shapeName(out)

	msg, err := g.chatModel.Generate(ctx, []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(prompt),
	})
	if err != nil {
		return &SchemaViolationError{Shape: shape, Cause: err}
	}

	content := stripFences(msg.Content)
	if err := json.Unmarshal([]byte(content), out); err != nil {
		g.log.Debugw("unparseable completion", "shape", shape, "content", content)
		return &SchemaViolationError{Shape: shape, Cause: err}
	}

	if v, ok := out.(interface{ Validate() error }); ok {
		if err := v.Validate(); err != nil {
			return &SchemaViolationError{Shape: shape, Cause: err}
		}
	}
	return nil
}

// stripFences removes a surrounding ```json fence if the model added one
// despite instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func shapeName(out any) string {
	t := reflect.TypeOf(out)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "unknown"
	}
	return t.Name()
}
