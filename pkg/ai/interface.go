package ai

import (
	"context"
)

// ProviderType identifies an AI backend.
type ProviderType string

const (
	ProviderGroq   ProviderType = "groq"
	ProviderOpenAI ProviderType = "openai"
	ProviderGemini ProviderType = "gemini"
	ProviderOllama ProviderType = "ollama"
)

// preferenceOrder decides the default provider: the first configured one wins.
var preferenceOrder = []ProviderType{ProviderGroq, ProviderOpenAI, ProviderGemini, ProviderOllama}

// CompletionRequest is a single system+user exchange with an LLM.
type CompletionRequest struct {
	System      string
	User        string
	Temperature float32
	MaxTokens   int
}

// Provider is one chat-completion backend.
// Implement this interface to add new AI providers.
type Provider interface {
	ID() ProviderType
	Name() string
	Model() string
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Result is a generated summary and how it was produced.
type Result struct {
	Summary          string       `json:"summary"`
	ProcessingTimeMs int64        `json:"processingTime"`
	Provider         ProviderType `json:"provider"`
}

// ProviderInfo describes a configured provider.
type ProviderInfo struct {
	ID        ProviderType `json:"id"`
	Name      string       `json:"name"`
	Model     string       `json:"model"`
	Available bool         `json:"available"`
}
