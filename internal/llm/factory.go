package llm

import (
	"context"
	"fmt"

	"github.com/avaedu/ava/internal/transcript"
)

// NewProvider creates a Provider from configuration, wrapped with request
// logging. No retry middleware is applied here: interactive chat turns hit
// the provider exactly once, and callers that can tolerate retries (recap
// generation) wrap the result with WithRetry themselves.
func NewProvider(ctx context.Context, cfg Config, llmLog transcript.LLMLog) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return WithLogging(base, llmLog), nil
}

// NewProviderFromEnv builds a provider from AVA_* environment variables.
// If the configured provider is missing its key, it falls back to probing
// the standard provider key variables before giving up.
func NewProviderFromEnv(ctx context.Context, llmLog transcript.LLMLog) (Provider, error) {
	cfg := ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		discovered, ok := DiscoverConfig()
		if !ok {
			return nil, err
		}
		cfg = discovered
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return NewProvider(ctx, cfg, llmLog)
}
