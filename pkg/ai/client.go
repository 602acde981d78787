package ai

import (
	"context"
	"strings"
	"time"

	"github.com/AjeyHanamanal/meeting-summarizer/pkg/logging"
	"github.com/AjeyHanamanal/meeting-summarizer/pkg/metrics"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Client routes summarization requests to the configured providers.
// Safe for concurrent use.
type Client struct {
	providers map[ProviderType]Provider
	order     []ProviderType
	timeout   time.Duration
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each generation call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithMetrics records generation outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates a client over providers. Default selection follows the
// fixed preference order groq, openai, gemini, ollama; providers outside that
// list are tried after it in the order given.
func NewClient(providers []Provider, opts ...Option) *Client {
	c := &Client{
		providers: make(map[ProviderType]Provider, len(providers)),
		timeout:   60 * time.Second,
		logger:    logging.Component("ai"),
	}
	for _, p := range providers {
		c.providers[p.ID()] = p
	}
	for _, id := range preferenceOrder {
		if _, ok := c.providers[id]; ok {
			c.order = append(c.order, id)
		}
	}
	for _, p := range providers {
		if !containsProvider(c.order, p.ID()) {
			c.order = append(c.order, p.ID())
		}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate summarizes transcript following prompt. An empty provider selects
// the default one.
func (c *Client) Generate(ctx context.Context, transcript, prompt string, provider ProviderType) (*Result, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}
	if _, _, err := ValidateTranscript(transcript); err != nil {
		return nil, err
	}

	p, err := c.resolve(provider)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	text, err := p.Complete(callCtx, CompletionRequest{
		System:      systemPrompt,
		User:        userMessage(transcript, prompt),
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	elapsed := time.Since(start)

	if err == nil && strings.TrimSpace(text) == "" {
		err = errors.New("empty completion")
	}
	if err != nil {
		perr := newProviderError(p.ID(), err)
		c.metrics.ObserveGeneration(string(p.ID()), string(perr.Class), elapsed)
		c.logger.Error().Err(err).
			Str("provider", string(p.ID())).
			Str("class", string(perr.Class)).
			Dur("elapsed", elapsed).
			Msg("generation failed")
		return nil, perr
	}

	c.metrics.ObserveGeneration(string(p.ID()), "success", elapsed)
	c.logger.Info().
		Str("provider", string(p.ID())).
		Str("model", p.Model()).
		Int64("processing_ms", elapsed.Milliseconds()).
		Msg("summary generated")

	return &Result{
		Summary:          strings.TrimSpace(text),
		ProcessingTimeMs: elapsed.Milliseconds(),
		Provider:         p.ID(),
	}, nil
}

// GenerateWithStyle summarizes with a preset style prompt using the default
// provider. customPrompt is used by custom and unrecognised styles.
func (c *Client) GenerateWithStyle(ctx context.Context, transcript string, style Style, customPrompt string) (*Result, error) {
	return c.Generate(ctx, transcript, StylePrompt(style, customPrompt), "")
}

// Providers lists configured providers in preference order.
func (c *Client) Providers() []ProviderInfo {
	infos := make([]ProviderInfo, 0, len(c.order))
	for _, id := range c.order {
		p := c.providers[id]
		infos = append(infos, ProviderInfo{
			ID:        p.ID(),
			Name:      p.Name(),
			Model:     p.Model(),
			Available: true,
		})
	}
	return infos
}

// DefaultProvider returns the provider used when none is requested, or "" if
// nothing is configured.
func (c *Client) DefaultProvider() ProviderType {
	if len(c.order) == 0 {
		return ""
	}
	return c.order[0]
}

// Styles returns the style catalogue.
func (c *Client) Styles() []StyleInfo {
	return Styles()
}

func (c *Client) resolve(provider ProviderType) (Provider, error) {
	if len(c.order) == 0 {
		return nil, ErrNoProviderConfigured
	}
	if provider == "" {
		return c.providers[c.order[0]], nil
	}
	p, ok := c.providers[ProviderType(strings.ToLower(string(provider)))]
	if !ok {
		return nil, ErrUnknownProvider
	}
	return p, nil
}

func containsProvider(ids []ProviderType, id ProviderType) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
