package llm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"maplehr/internal/platform/logging"
)

type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// GeminiClient completes prompts through the Gemini API. The SDK client for the
// configured key is built lazily and reused.
type GeminiClient struct {
	cfg    GeminiConfig
	logger *zap.Logger

	mu     sync.Mutex
	client *genai.Client
}

func NewGemini(cfg GeminiConfig, logger *zap.Logger) *GeminiClient {
	if cfg.Model == "" {
		cfg.Model = defaultGeminiModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &GeminiClient{cfg: cfg, logger: logging.OrNop(logger)}
}

func (g *GeminiClient) Complete(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	client, err := g.clientFor(ctx, req.APIKey)
	if err != nil {
		return "", err
	}

	genCfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	}
	if req.MaxTokens > 0 {
		genCfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.System != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.JSON {
		genCfg.ResponseMIMEType = "application/json"
	}

	started := time.Now()
	resp, err := client.Models.GenerateContent(ctx, g.cfg.Model, genai.Text(req.Prompt), genCfg)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	content := resp.Text()
	g.logger.Debug("model completion",
		zap.String("model", g.cfg.Model),
		zap.Duration("duration", time.Since(started)),
		zap.Int("content_len", len(content)),
	)
	return content, nil
}

func (g *GeminiClient) clientFor(ctx context.Context, override string) (*genai.Client, error) {
	if override != "" && override != g.cfg.APIKey {
		return newGenAIClient(ctx, override)
	}
	if g.cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client != nil {
		return g.client, nil
	}
	client, err := newGenAIClient(ctx, g.cfg.APIKey)
	if err != nil {
		return nil, err
	}
	g.client = client
	return client, nil
}

func newGenAIClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return client, nil
}
