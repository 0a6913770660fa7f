package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mintwell/mintwell/internal/service"
)

// parseEnhancement decodes a provider's JSON response, tolerating markdown
// code fences some models wrap around the payload.
func parseEnhancement(text string) (service.EnhanceResponse, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	// Some models prepend chatter despite instructions; cut to the outermost
	// JSON object.
	if start := strings.Index(cleaned, "{"); start > 0 {
		cleaned = cleaned[start:]
	}
	if end := strings.LastIndex(cleaned, "}"); end >= 0 && end < len(cleaned)-1 {
		cleaned = cleaned[:end+1]
	}

	var payload struct {
		Rationale   string   `json:"rationale"`
		ActionItems []string `json:"action_items"`
	}
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return service.EnhanceResponse{}, fmt.Errorf("failed to parse enhancement response: %w", err)
	}
	if payload.Rationale == "" {
		return service.EnhanceResponse{}, fmt.Errorf("enhancement response missing rationale")
	}

	return service.EnhanceResponse{
		Rationale:   payload.Rationale,
		ActionItems: payload.ActionItems,
	}, nil
}
