package llm

import (
	"context"

	"github.com/mintwell/mintwell/internal/service"
)

// NoopEnhancer is the null-object default: it returns the draft unchanged.
// Using it keeps the composer free of conditional enhancement branches.
type NoopEnhancer struct{}

// Enhance returns the request content as-is.
func (NoopEnhancer) Enhance(_ context.Context, req service.EnhanceRequest) (service.EnhanceResponse, error) {
	return service.EnhanceResponse{
		Rationale:   req.Rationale,
		ActionItems: req.ActionItems,
	}, nil
}
