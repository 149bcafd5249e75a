// Package llm wraps the text-generation providers and turns their JSON
// replies into flashcards.
package llm

import (
	"context"
	"errors"
	"time"
)

// ErrNoChoices is returned when a provider answers without any message
var ErrNoChoices = errors.New("provider returned no choices")

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends a system/user prompt pair and returns the raw reply
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// CompletionRequest contains the input for a single completion
type CompletionRequest struct {
	System string
	User   string

	// Model overrides the provider's configured model when set
	Model string

	Temperature float64
	MaxTokens   int

	// JSONMode asks the provider to constrain output to a JSON object
	// where the backend supports it
	JSONMode bool
}

// CompletionResponse contains the provider's reply
type CompletionResponse struct {
	// Content is the raw message text, possibly wrapped in a code fence
	Content string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption (estimated when the backend does not report it)
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (OpenAI-compatible gateways, Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "openai",
		Model:     "gpt-4o",
		Timeout:   30,
		MaxTokens: 400,
	}
}

func (c Config) timeout(fallback time.Duration) time.Duration {
	if c.Timeout <= 0 {
		return fallback
	}
	return time.Duration(c.Timeout) * time.Second
}

func (c Config) maxTokens(req CompletionRequest) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return 400
}

// estimateTokens is a rough 4-characters-per-token guess for backends that
// do not report usage
func estimateTokens(texts ...string) int {
	n := 0
	for _, t := range texts {
		n += len(t)
	}
	return n / 4
}
