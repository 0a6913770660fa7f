package llm

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/mintwell/mintwell/internal/service"
)

// NewFromConfig creates an enhancer for the configured provider. An empty or
// "none" provider yields the no-op passthrough, which is the default
// deployment mode.
func NewFromConfig(cfg Config, logger *slog.Logger) (service.Enhancer, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "none":
		return NoopEnhancer{}, nil
	case "openai":
		client, err := newOpenAIClient(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
		}
		return NewEnhancer(client, cfg, logger), nil
	case "anthropic":
		client, err := newAnthropicClient(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create Anthropic client: %w", err)
		}
		return NewEnhancer(client, cfg, logger), nil
	default:
		return nil, fmt.Errorf("unsupported enhancement provider: %s", cfg.Provider)
	}
}
