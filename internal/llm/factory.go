package llm

import (
	"context"
	"fmt"

	"github.com/caplearn/caplearn/internal/store"
)

// NewProvider creates a Provider from configuration, wrapped with the
// configured request timeout and event logging middleware. No retry
// middleware is applied: a provider failure
// aborts the enclosing operation, and retry policy belongs to the caller.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo) (Provider, error) {
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

	return WithLogging(WithTimeout(base, cfg.Timeout), eventRepo), nil
}
