package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load(viper.New())

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "postgres", cfg.StoreDriver)
	assert.Equal(t, "llama3-8b-8192", cfg.AI.GroqModel)
	assert.Equal(t, "gpt-3.5-turbo", cfg.AI.OpenAIModel)
	assert.Equal(t, 60*time.Second, cfg.AI.Timeout)
	assert.Equal(t, 587, cfg.Email.SMTPPort)
	assert.Equal(t, 5, cfg.Email.BulkConcurrency)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("GROQ_API_KEY", "gsk-test")
	t.Setenv("AI_TIMEOUT", "15s")
	t.Setenv("EMAIL_USER", "bot@example.com")
	t.Setenv("EMAIL_PASS", "secret")
	t.Setenv("ENVIRONMENT", "production")

	cfg := Load(viper.New())

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, "memory", cfg.StoreDriver)
	assert.Equal(t, "gsk-test", cfg.AI.GroqAPIKey)
	assert.Equal(t, 15*time.Second, cfg.AI.Timeout)
	assert.Equal(t, "bot@example.com", cfg.Email.User)
	// EMAIL_FROM falls back to EMAIL_USER
	assert.Equal(t, "bot@example.com", cfg.Email.From)
	assert.True(t, cfg.IsProduction())
}

func TestLoadExplicitFrom(t *testing.T) {
	t.Setenv("EMAIL_USER", "bot@example.com")
	t.Setenv("EMAIL_FROM", "notes@example.com")

	cfg := Load(nil)
	assert.Equal(t, "notes@example.com", cfg.Email.From)
}
