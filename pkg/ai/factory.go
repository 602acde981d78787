package ai

import (
	"net/http"
	"time"

	"github.com/AjeyHanamanal/meeting-summarizer/pkg/metrics"
)

// Config holds AI provider configuration. A provider is enabled when its API
// key (or, for Ollama, its base URL) is set.
type Config struct {
	GroqAPIKey  string
	GroqBaseURL string
	GroqModel   string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	GeminiAPIKey  string
	GeminiBaseURL string
	GeminiModel   string

	OllamaBaseURL string // e.g., "http://localhost:11434"
	OllamaModel   string // e.g., "llama3", "mistral"

	// Timeout bounds one generation round trip.
	Timeout time.Duration
}

// NewClientFromConfig builds a Client with every provider cfg enables.
func NewClientFromConfig(cfg Config, m *metrics.Metrics) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	httpClient := &http.Client{Timeout: timeout}

	var providers []Provider
	if cfg.GroqAPIKey != "" {
		model := cfg.GroqModel
		if model == "" {
			model = "llama3-8b-8192"
		}
		baseURL := cfg.GroqBaseURL
		if baseURL == "" {
			baseURL = "https://api.groq.com/openai/v1"
		}
		providers = append(providers, NewOpenAIProvider(ProviderGroq, "Groq", cfg.GroqAPIKey, baseURL, model, httpClient))
	}
	if cfg.OpenAIAPIKey != "" {
		model := cfg.OpenAIModel
		if model == "" {
			model = "gpt-3.5-turbo"
		}
		providers = append(providers, NewOpenAIProvider(ProviderOpenAI, "OpenAI", cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, model, httpClient))
	}
	if cfg.GeminiAPIKey != "" {
		providers = append(providers, NewGeminiProvider(cfg.GeminiAPIKey, cfg.GeminiBaseURL, cfg.GeminiModel, httpClient))
	}
	if cfg.OllamaBaseURL != "" {
		providers = append(providers, NewOllamaProvider(cfg.OllamaBaseURL, cfg.OllamaModel, httpClient))
	}

	return NewClient(providers, WithTimeout(timeout), WithMetrics(m))
}
