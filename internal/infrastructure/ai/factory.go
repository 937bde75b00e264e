// Package ai wires the configured generative AI provider behind outbound.Gateway
package ai

import (
	"context"
	"fmt"

	"github.com/fitpantry/coach/internal/infrastructure/ai/gemini"
	"github.com/fitpantry/coach/internal/infrastructure/ai/ollama"
	"github.com/fitpantry/coach/internal/infrastructure/ai/openai"
	"github.com/fitpantry/coach/internal/infrastructure/config"
	"github.com/fitpantry/coach/internal/ports/outbound"
	"go.uber.org/zap"
)

// Provider is a gateway that can also report its reachability
type Provider interface {
	outbound.Gateway
	HealthCheck(ctx context.Context) error
}

// NewProvider builds the client selected by cfg.Provider
func NewProvider(cfg config.AIConfig, logger *zap.Logger) (Provider, error) {
	switch cfg.Provider {
	case "gemini":
		return gemini.NewClient(gemini.Config{
			APIKey:      cfg.GeminiKey,
			Model:       cfg.GeminiModel,
			BaseURL:     cfg.GeminiBaseURL,
			Timeout:     cfg.Timeout,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
		}, logger), nil
	case "openai":
		return openai.NewClient(openai.Config{
			APIKey:      cfg.OpenAIKey,
			Model:       cfg.OpenAIModel,
			BaseURL:     cfg.OpenAIBaseURL,
			Timeout:     cfg.Timeout,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
		}, logger), nil
	case "ollama":
		return ollama.NewClient(ollama.Config{
			BaseURL:     cfg.OllamaHost,
			Model:       cfg.OllamaModel,
			Timeout:     cfg.Timeout,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
		}, logger), nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
}
