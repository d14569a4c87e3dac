package provider

import (
	"context"
	"fmt"
)

// Config contains provider configuration
type Config struct {
	// Provider name: "anthropic" or "gemini"
	Name string

	// Anthropic configuration
	AnthropicAPIKey  string
	AnthropicBaseURL string

	// Gemini configuration
	GeminiAPIKey string

	// Model identifier passed to the selected provider
	Model string
}

// NewProvider creates a provider based on configuration
// This is a factory function that eliminates if-else branches
func NewProvider(ctx context.Context, cfg *Config) (Provider, error) {
	switch cfg.Name {
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("anthropic: ANTHROPIC_API_KEY is required")
		}
		model := cfg.Model
		if model == "" {
			model = "claude-3-5-sonnet-20240620"
		}
		return NewAnthropicProvider(cfg.AnthropicAPIKey, cfg.AnthropicBaseURL, model), nil

	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("gemini: GEMINI_API_KEY is required")
		}
		if cfg.Model == "" {
			return nil, fmt.Errorf("gemini: MODEL is required")
		}
		return NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.Model)

	default:
		return nil, fmt.Errorf("unknown provider: %s (supported: anthropic, gemini)", cfg.Name)
	}
}
