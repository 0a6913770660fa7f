// Package guardrail validates consent, offer eligibility, and tone on draft
// recommendations before they may reach an approval surface. Checks are
// independent, per-item, and every verdict is recorded in the decision trace.
package guardrail

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mintwell/mintwell/internal/catalog"
	"github.com/mintwell/mintwell/internal/model"
	"github.com/mintwell/mintwell/internal/trace"
)

// Check names as they appear in verdicts.
const (
	CheckConsent     = "consent"
	CheckEligibility = "eligibility"
	CheckTone        = "tone"
	CheckDisclaimer  = "disclaimer"
)

// ReasonNoConsent is the explicit verdict reason for consent blocks; tests
// and downstream surfaces match on it.
const ReasonNoConsent = "blocked: no consent"

// ConsentReader is the narrow read access the engine needs.
type ConsentReader interface {
	GetConsent(ctx context.Context, userID string) (*model.ConsentRecord, error)
}

// Result pairs one reviewed recommendation with its verdicts. Blocked items
// are returned too; surfacing layers filter on Allowed while the trace keeps
// the full record.
type Result struct {
	Recommendation model.Recommendation
	Verdicts       []model.GuardrailVerdict
	Allowed        bool
}

// Engine runs the guardrail checks.
type Engine struct {
	consent ConsentReader
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// NewEngine creates a guardrail engine.
func NewEngine(consent ConsentReader, cat *catalog.Catalog, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{consent: consent, catalog: cat, logger: logger}
}

// Apply validates every draft independently. One failing draft never
// invalidates its siblings; the only error returned is a consent read
// failure, which blocks nothing silently.
func (e *Engine) Apply(ctx context.Context, drafts []model.RecommendationDraft, userID string, sig *model.SignalSet, tb *trace.Builder) ([]Result, error) {
	record, err := e.consent.GetConsent(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read consent for user %s: %w", userID, err)
	}
	consented := record != nil && record.Consented

	results := make([]Result, 0, len(drafts))
	for _, draft := range drafts {
		result := e.applyOne(draft, consented, sig)
		for _, v := range result.Verdicts {
			tb.RecordVerdict(v)
		}
		results = append(results, result)
	}
	return results, nil
}

func (e *Engine) applyOne(draft model.RecommendationDraft, consented bool, sig *model.SignalSet) Result {
	result := Result{
		Recommendation: model.Recommendation{RecommendationDraft: draft, Status: model.StatusPending},
		Allowed:        true,
	}

	verdict := func(check string, outcome model.VerdictOutcome, reason string) {
		result.Verdicts = append(result.Verdicts, model.GuardrailVerdict{
			RecommendationID: draft.ID,
			Check:            check,
			Outcome:          outcome,
			Reason:           reason,
		})
		if outcome == model.VerdictBlocked {
			result.Allowed = false
		}
	}

	// Consent. Generation proceeded for audit purposes; surfacing is what
	// gets blocked, with an explicit verdict rather than a dropped draft.
	if consented {
		verdict(CheckConsent, model.VerdictPass, "")
	} else {
		verdict(CheckConsent, model.VerdictBlocked, ReasonNoConsent)
	}

	// Eligibility applies to partner offers only; a failed threshold
	// excludes this offer, not the batch.
	if draft.Kind == model.KindOffer {
		entry, found := e.catalog.Get(draft.CatalogID)
		switch {
		case !found:
			verdict(CheckEligibility, model.VerdictBlocked, fmt.Sprintf("unknown catalog entry %s", draft.CatalogID))
		default:
			if ok, reason := entry.Eligibility.Check(sig); ok {
				verdict(CheckEligibility, model.VerdictPass, "")
			} else {
				verdict(CheckEligibility, model.VerdictBlocked, reason)
			}
		}
	}

	// Tone. Substitutable matches are rewritten in place; matches with no
	// neutral equivalent reject the draft.
	rationaleScan := scanTone(result.Recommendation.Rationale)
	itemsRejected := false
	itemsSubstituted := false
	items := make([]string, len(result.Recommendation.ActionItems))
	matchedPhrase := rationaleScan.matched
	for i, item := range result.Recommendation.ActionItems {
		scan := scanTone(item)
		items[i] = scan.text
		if scan.rejected {
			itemsRejected = true
		}
		if scan.substituted {
			itemsSubstituted = true
		}
		if scan.matched != "" && matchedPhrase == "" {
			matchedPhrase = scan.matched
		}
	}

	switch {
	case rationaleScan.rejected || itemsRejected:
		verdict(CheckTone, model.VerdictBlocked, fmt.Sprintf("judgmental phrase with no neutral substitute: %q", matchedPhrase))
	case rationaleScan.substituted || itemsSubstituted:
		result.Recommendation.Rationale = rationaleScan.text
		result.Recommendation.ActionItems = items
		verdict(CheckTone, model.VerdictSubstituted, fmt.Sprintf("substituted neutral wording for %q", matchedPhrase))
	default:
		verdict(CheckTone, model.VerdictPass, "")
	}

	// Disclaimer. Composition appends it; if an enhancer stripped it,
	// restore it rather than surfacing undisclaimed content.
	if strings.Contains(result.Recommendation.Rationale, model.EducationalDisclaimer) {
		verdict(CheckDisclaimer, model.VerdictPass, "")
	} else {
		result.Recommendation.Rationale += "\n\n" + model.EducationalDisclaimer
		verdict(CheckDisclaimer, model.VerdictSubstituted, "disclaimer restored after enhancement")
	}

	return result
}
