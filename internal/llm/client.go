// Package llm implements the optional external text-enhancement capability
// against hosted LLM providers, with rate limiting, retries, and a bounded
// timeout so a slow provider can never stall a pipeline run.
package llm

import (
	"context"
	"time"

	"github.com/mintwell/mintwell/internal/service"
)

// Client is the raw provider interface: one prompt in, one revised draft out.
// Providers return structured JSON which parseEnhancement decodes.
type Client interface {
	Enhance(ctx context.Context, prompt string) (service.EnhanceResponse, error)
}

// Config holds configuration for the enhancer.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	RateLimit   int           // requests per minute
	Timeout     time.Duration // per-call ceiling, enhancement included
	MaxRetries  int
	RetryDelay  time.Duration
}
