package llm

import (
	"context"
	"encoding/json"

	"github.com/mkarev/decisive/internal/model"
)

// Provider defines the interface for LLM backends. Every pipeline stage
// that talks to the model goes through this.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete generates a free-text completion
	Complete(ctx context.Context, req Request) (string, error)

	// CompleteJSON generates a completion in constrained JSON mode and
	// returns the raw object. Callers decode into their own schema and
	// treat missing keys as defaults.
	CompleteJSON(ctx context.Context, req Request) (json.RawMessage, error)
}

// Request is the input for a completion
type Request struct {
	Prompt       string
	SystemPrompt string
	Temperature  float64
	MaxTokens    int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama, proxies)
	BaseURL string

	// Timeout for API requests, in seconds
	Timeout int

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "openai",
		Model:     "gpt-4o-mini",
		Timeout:   60,
		MaxTokens: 2000,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(cfg model.LLMConfig) Config {
	return Config{
		Provider:  cfg.Provider,
		Model:     cfg.Model,
		APIKey:    cfg.APIKey,
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.Timeout,
		MaxTokens: cfg.MaxTokens,
	}
}

// DecodeResponse unmarshals a JSON-mode response into out. A response
// that is not a JSON object leaves out untouched and returns the error;
// missing keys simply decode to zero values.
func DecodeResponse(raw json.RawMessage, out any) error {
	return json.Unmarshal(raw, out)
}
