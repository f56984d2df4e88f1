package llm

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"maplehr/internal/platform/config"
)

// ErrNotConfigured is returned when neither the process nor the caller supplied an API key.
var ErrNotConfigured = errors.New("model api key not configured")

// Request is one single-turn completion.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
	// JSON asks the provider for a JSON object response.
	JSON bool
	// APIKey overrides the configured key for this call only.
	APIKey string
}

// Completer sends one prompt to a hosted text-generation model and returns the raw content.
// Implementations make exactly one attempt.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

const defaultGeminiModel = "gemini-2.5-flash"

// New picks the provider named by MODEL_PROVIDER. The returned completer is usable even
// without a configured key as long as callers pass Request.APIKey.
func New(cfg config.Config, logger *zap.Logger) Completer {
	if cfg.ModelProvider == config.ProviderGemini {
		model := cfg.ModelName
		if model == "" || strings.HasPrefix(model, "gpt-") {
			model = defaultGeminiModel
		}
		return NewGemini(GeminiConfig{APIKey: cfg.GeminiAPIKey, Model: model, Timeout: cfg.ModelTimeout}, logger)
	}
	return NewOpenAI(OpenAIConfig{
		APIKey:  cfg.ModelAPIKey,
		BaseURL: cfg.ModelBaseURL,
		Model:   cfg.ModelName,
		Timeout: cfg.ModelTimeout,
	}, logger)
}
