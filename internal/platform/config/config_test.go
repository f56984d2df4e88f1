package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/maplehr")
	t.Setenv("MODEL_PROVIDER", " Gemini ")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Addr)
	require.Equal(t, int32(10), cfg.DBMaxConns)
	require.Equal(t, 60*time.Second, cfg.ModelTimeout)
	require.Equal(t, ProviderGemini, cfg.ModelProvider)
	require.Equal(t, AdvisorUndecided, cfg.AdvisorMode)
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	base := Config{
		DatabaseURL:        "postgres://localhost/maplehr",
		MaxBodyBytes:       4096,
		RateLimitPerMinute: 10,
		DBMaxConns:         2,
		ModelProvider:      ProviderOpenAI,
		AdvisorMode:        AdvisorOff,
		ModelTimeout:       time.Second,
	}
	require.NoError(t, base.Validate())

	cases := map[string]func(c *Config){
		"missing database":  func(c *Config) { c.DatabaseURL = "" },
		"tiny body limit":   func(c *Config) { c.MaxBodyBytes = 10 },
		"unknown provider":  func(c *Config) { c.ModelProvider = "groq" },
		"unknown advisor":   func(c *Config) { c.AdvisorMode = "sometimes" },
		"production secret": func(c *Config) { c.Environment = "production" },
		"zero timeout":      func(c *Config) { c.ModelTimeout = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := base
			mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestModelConfigured(t *testing.T) {
	require.False(t, Config{ModelProvider: ProviderOpenAI}.ModelConfigured())
	require.True(t, Config{ModelProvider: ProviderOpenAI, ModelAPIKey: "sk"}.ModelConfigured())
	require.False(t, Config{ModelProvider: ProviderGemini, ModelAPIKey: "sk"}.ModelConfigured())
	require.True(t, Config{ModelProvider: ProviderGemini, GeminiAPIKey: "g"}.ModelConfigured())
}
