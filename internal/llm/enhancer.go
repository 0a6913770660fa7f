package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mintwell/mintwell/internal/common"
	"github.com/mintwell/mintwell/internal/service"
)

// Enhancer implements service.Enhancer against a provider client, adding
// rate limiting, retries, and a hard per-call timeout. The timeout bounds
// the whole call including retries so one slow provider call cannot stall a
// batch run.
type Enhancer struct {
	client      Client
	rateLimiter *rateLimiter
	logger      *slog.Logger
	retryOpts   service.RetryOptions
	timeout     time.Duration
}

// NewEnhancer wraps a provider client with the operational plumbing.
func NewEnhancer(client Client, cfg Config, logger *slog.Logger) *Enhancer {
	retryOpts := service.RetryOptions{
		MaxAttempts:  cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
	}
	if retryOpts.MaxAttempts == 0 {
		retryOpts.MaxAttempts = 2
	}
	if retryOpts.InitialDelay == 0 {
		retryOpts.InitialDelay = time.Second
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 20 * time.Second
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Enhancer{
		client:      client,
		rateLimiter: newRateLimiter(cfg.RateLimit),
		logger:      logger,
		retryOpts:   retryOpts,
		timeout:     timeout,
	}
}

// Enhance rewrites one draft. Any failure is wrapped in
// common.ErrEnhancementUnavailable so callers can degrade to the
// deterministic draft.
func (e *Enhancer) Enhance(ctx context.Context, req service.EnhanceRequest) (service.EnhanceResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	if err := e.rateLimiter.wait(ctx); err != nil {
		return service.EnhanceResponse{}, fmt.Errorf("%w: %v", common.ErrEnhancementUnavailable, err)
	}

	prompt := buildPrompt(req)

	var resp service.EnhanceResponse
	err := common.WithRetry(ctx, func() error {
		var callErr error
		resp, callErr = e.client.Enhance(ctx, prompt)
		return callErr
	}, e.retryOpts)
	if err != nil {
		e.logger.Warn("enhancement failed, caller should fall back to deterministic draft",
			"title", req.Title,
			"error", err)
		return service.EnhanceResponse{}, fmt.Errorf("%w: %v", common.ErrEnhancementUnavailable, err)
	}

	return resp, nil
}

// Close is a no-op; the enhancer holds no long-lived resources. It exists so
// callers can defer cleanup uniformly across enhancer implementations.
func (e *Enhancer) Close() {}

func buildPrompt(req service.EnhanceRequest) string {
	var b strings.Builder
	b.WriteString("Polish the following financial education recommendation.\n")
	b.WriteString("Rules:\n")
	fmt.Fprintf(&b, "- Keep between %d and %d action items.\n", req.MinActionItems, req.MaxActionItems)
	b.WriteString("- Keep every number and dollar figure from the original text.\n")
	b.WriteString("- Remove filler, placeholder artifacts, and zero-value statements.\n")
	b.WriteString("- Supportive, non-judgmental tone. Never scold the reader.\n")
	b.WriteString("Respond with JSON: {\"rationale\": string, \"action_items\": [string]}.\n\n")
	fmt.Fprintf(&b, "Title: %s\n", req.Title)
	fmt.Fprintf(&b, "Rationale: %s\n", req.Rationale)
	b.WriteString("Action items:\n")
	for _, item := range req.ActionItems {
		fmt.Fprintf(&b, "- %s\n", item)
	}
	return b.String()
}
