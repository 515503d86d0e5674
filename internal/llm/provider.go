package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/spec-kit/support-agent/internal/config"
)

// NewFromConfig selects the adapter named by cfg.Provider and applies the
// per-call timeout.
func NewFromConfig(cfg config.LLMConfig) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm provider %q: api key not configured", cfg.Provider)
	}
	var client Client
	switch cfg.Provider {
	case "openai", "":
		client = NewOpenAI(cfg.APIKey, cfg.BaseURL,
			WithOpenAIModel(cfg.Model),
			WithOpenAITemperature(cfg.Temperature),
			WithOpenAIMaxTokens(cfg.MaxTokens),
		)
	case "anthropic":
		client = NewAnthropic(cfg.APIKey, cfg.BaseURL,
			WithAnthropicModel(cfg.Model),
			WithAnthropicTemperature(cfg.Temperature),
			WithAnthropicMaxTokens(cfg.MaxTokens),
		)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
	return WithTimeout(client, cfg.Timeout()), nil
}

type timeoutClient struct {
	Client
	timeout time.Duration
}

// WithTimeout bounds every Complete call. A non-positive timeout returns
// the client unchanged.
func WithTimeout(c Client, timeout time.Duration) Client {
	if timeout <= 0 {
		return c
	}
	return &timeoutClient{Client: c, timeout: timeout}
}

func (t *timeoutClient) Complete(ctx context.Context, system string, messages []Message, tools []Tool) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.Client.Complete(ctx, system, messages, tools)
}
