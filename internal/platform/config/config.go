package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	AdvisorOff       = "off"
	AdvisorUndecided = "undecided"
	AdvisorAlways    = "always"
)

type Config struct {
	Addr               string        `envconfig:"APP_ADDR" default:":8080"`
	Environment        string        `envconfig:"APP_ENV" default:"development"`
	LogLevel           string        `envconfig:"LOG_LEVEL" default:"info"`
	DatabaseURL        string        `envconfig:"DATABASE_URL"`
	DBMaxConns         int32         `envconfig:"DB_MAX_CONNS" default:"10"`
	JWTSecret          string        `envconfig:"JWT_SECRET"`
	DataEncryptionKey  string        `envconfig:"DATA_ENCRYPTION_KEY"`
	OrganizationKey    string        `envconfig:"ORGANIZATION_KEY" default:"default"`
	RunMigrations      bool          `envconfig:"RUN_MIGRATIONS" default:"true"`
	RunSeed            bool          `envconfig:"RUN_SEED" default:"true"`
	SeedDemoData       bool          `envconfig:"SEED_DEMO_DATA" default:"false"`
	MaxBodyBytes       int64         `envconfig:"MAX_BODY_BYTES" default:"1048576"`
	RateLimitPerMinute int           `envconfig:"RATE_LIMIT_PER_MINUTE" default:"120"`
	ModelProvider      string        `envconfig:"MODEL_PROVIDER" default:"openai"`
	ModelBaseURL       string        `envconfig:"MODEL_BASE_URL" default:"https://api.openai.com/v1"`
	ModelName          string        `envconfig:"MODEL_NAME" default:"gpt-4o"`
	ModelAPIKey        string        `envconfig:"MODEL_API_KEY"`
	GeminiAPIKey       string        `envconfig:"GEMINI_API_KEY"`
	ModelTimeout       time.Duration `envconfig:"MODEL_TIMEOUT" default:"60s"`
	AdvisorMode        string        `envconfig:"ADJUDICATION_ADVISOR_MODE" default:"undecided"`
	PolicyFile         string        `envconfig:"ADJUDICATION_POLICY_FILE"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	cfg.ModelProvider = strings.ToLower(strings.TrimSpace(cfg.ModelProvider))
	cfg.AdvisorMode = strings.ToLower(strings.TrimSpace(cfg.AdvisorMode))
	return cfg, nil
}

// ModelConfigured reports whether an external model can be reached without a per-request key.
func (c Config) ModelConfigured() bool {
	switch c.ModelProvider {
	case ProviderGemini:
		return c.GeminiAPIKey != ""
	default:
		return c.ModelAPIKey != ""
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Environment == "production" {
		if strings.TrimSpace(c.JWTSecret) == "" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if strings.TrimSpace(c.DataEncryptionKey) == "" {
			return fmt.Errorf("DATA_ENCRYPTION_KEY must be set in production for salary encryption at rest")
		}
		if c.SeedDemoData {
			return fmt.Errorf("SEED_DEMO_DATA must be disabled in production")
		}
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.DBMaxConns <= 0 {
		return fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if c.ModelProvider != ProviderOpenAI && c.ModelProvider != ProviderGemini {
		return fmt.Errorf("MODEL_PROVIDER must be %q or %q", ProviderOpenAI, ProviderGemini)
	}
	switch c.AdvisorMode {
	case AdvisorOff, AdvisorUndecided, AdvisorAlways:
	default:
		return fmt.Errorf("ADJUDICATION_ADVISOR_MODE must be one of off, undecided, always")
	}
	if c.ModelTimeout <= 0 {
		return fmt.Errorf("MODEL_TIMEOUT must be positive")
	}
	return nil
}
