package service

import "context"

// EnhanceRequest asks the external enhancer to polish one draft
// recommendation while honoring structural constraints.
type EnhanceRequest struct {
	Title          string
	Rationale      string
	ActionItems    []string
	MinActionItems int
	MaxActionItems int
}

// EnhanceResponse is the revised draft text.
type EnhanceResponse struct {
	Rationale   string
	ActionItems []string
}

// Enhancer is the optional external text-enhancement capability. It may be
// slow, rate-limited, or unavailable; callers must treat failure as a signal
// to keep the deterministic draft, never as a pipeline error.
type Enhancer interface {
	Enhance(ctx context.Context, req EnhanceRequest) (EnhanceResponse, error)
}
