// Package recommend composes guardrail-ready recommendation drafts from a
// user's persona distribution and signals, selecting from the catalog and
// optionally passing drafts through an external enhancer.
package recommend

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mintwell/mintwell/internal/catalog"
	"github.com/mintwell/mintwell/internal/model"
	"github.com/mintwell/mintwell/internal/service"
	"github.com/mintwell/mintwell/internal/trace"
)

// Draft count bounds per run, and the action item invariant every surfaced
// recommendation must satisfy.
const (
	minEducationDrafts = 3
	maxEducationDrafts = 5
	maxOfferDrafts     = 3
	minActionItems     = 3
	maxActionItems     = 5
)

// Composer selects and fills recommendations. The catalog is read-only and
// one Composer may serve concurrent per-user runs.
type Composer struct {
	catalog  *catalog.Catalog
	enhancer service.Enhancer
	logger   *slog.Logger
}

// NewComposer creates a composer. A nil enhancer is replaced by a no-op
// passthrough upstream; callers always pass a non-nil implementation.
func NewComposer(cat *catalog.Catalog, enhancer service.Enhancer, logger *slog.Logger) *Composer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Composer{
		catalog:  cat,
		enhancer: enhancer,
		logger:   logger,
	}
}

// Compose produces education and offer drafts for one user. count bounds the
// education drafts and is clamped to [3,5]; offers are capped at 3. A catalog
// that cannot serve any matched persona yields an empty slice with the reason
// recorded in the trace, never an error.
func (c *Composer) Compose(ctx context.Context, userID string, dist model.PersonaDistribution, sig *model.SignalSet, count int, asOf time.Time, tb *trace.Builder) []model.RecommendationDraft {
	if count < minEducationDrafts {
		count = minEducationDrafts
	}
	if count > maxEducationDrafts {
		count = maxEducationDrafts
	}

	personas := materialPersonas(dist)
	if len(personas) == 0 {
		tb.RecordComposerEvent("", "no_material_personas", "no persona above materiality threshold")
		return nil
	}

	drafts := c.selectDrafts(userID, model.KindEducation, personas, sig, count, asOf, tb)
	drafts = append(drafts, c.selectDrafts(userID, model.KindOffer, personas, sig, maxOfferDrafts, asOf, tb)...)

	if len(drafts) == 0 {
		tb.RecordComposerEvent("", "catalog_mismatch", "no catalog entry satisfied any matched persona's triggers")
		return nil
	}

	return c.enhanceAll(ctx, drafts, tb)
}

// selectDrafts allocates slots across personas and fills them from the
// catalog, deduplicating entries that apply to several matched personas.
func (c *Composer) selectDrafts(userID string, kind model.RecommendationKind, personas []model.PersonaMatch, sig *model.SignalSet, slots int, asOf time.Time, tb *trace.Builder) []model.RecommendationDraft {
	counts := allocateSlots(slots, personas)

	var drafts []model.RecommendationDraft
	used := make(map[string]bool)

	for i, p := range personas {
		if counts[i] == 0 {
			continue
		}
		tb.RecordComposerEvent(p.Persona, "slots_allocated",
			fmt.Sprintf("%d %s slots at %d%% contribution", counts[i], kind, p.ContributionPct))

		matched := c.catalog.Match(kind, p.Persona, sig)
		filled := 0
		for _, entry := range matched {
			if filled >= counts[i] {
				break
			}
			if used[entry.ID] {
				continue
			}

			rationale, ok := bindFirst(entry.RationaleTemplates, sig)
			if !ok {
				tb.RecordComposerEvent(p.Persona, "template_skipped",
					fmt.Sprintf("entry %s: no template bound all placeholders", entry.ID))
				continue
			}

			used[entry.ID] = true
			filled++
			drafts = append(drafts, model.RecommendationDraft{
				CreatedAt:      asOf,
				ID:             uuid.NewString(),
				UserID:         userID,
				CatalogID:      entry.ID,
				Kind:           kind,
				Title:          entry.Title,
				Rationale:      rationale + "\n\n" + model.EducationalDisclaimer,
				ActionItems:    entry.ActionItems,
				ExpectedImpact: entry.ExpectedImpact,
				SourcePersona:  p.Persona,
			})
		}

		if filled == 0 {
			tb.RecordComposerEvent(p.Persona, "catalog_mismatch",
				fmt.Sprintf("no %s entry satisfied triggers for this persona", kind))
		}
	}

	return drafts
}

// enhanceAll runs each draft through the enhancer, keeping the deterministic
// draft whenever the enhancement fails, violates the action item bounds, or
// reintroduces placeholder artifacts.
func (c *Composer) enhanceAll(ctx context.Context, drafts []model.RecommendationDraft, tb *trace.Builder) []model.RecommendationDraft {
	for i := range drafts {
		resp, err := c.enhancer.Enhance(ctx, service.EnhanceRequest{
			Title:          drafts[i].Title,
			Rationale:      drafts[i].Rationale,
			ActionItems:    drafts[i].ActionItems,
			MinActionItems: minActionItems,
			MaxActionItems: maxActionItems,
		})
		if err != nil {
			c.logger.Debug("enhancer unavailable, keeping deterministic draft",
				"recommendation_id", drafts[i].ID, "error", err)
			tb.RecordComposerEvent(drafts[i].SourcePersona, "enhancement_fallback",
				fmt.Sprintf("entry %s: %v", drafts[i].CatalogID, err))
			continue
		}
		if !c.acceptEnhancement(resp) {
			tb.RecordComposerEvent(drafts[i].SourcePersona, "enhancement_rejected",
				fmt.Sprintf("entry %s: revised draft violated structural constraints", drafts[i].CatalogID))
			continue
		}

		drafts[i].Rationale = resp.Rationale
		drafts[i].ActionItems = resp.ActionItems
		drafts[i].Enhanced = true
	}
	return drafts
}

// acceptEnhancement validates the structural constraints on a revised draft.
func (c *Composer) acceptEnhancement(resp service.EnhanceResponse) bool {
	if len(resp.ActionItems) < minActionItems || len(resp.ActionItems) > maxActionItems {
		return false
	}
	if !citesNumber(resp.Rationale) {
		return false
	}
	if hasPlaceholderArtifact(resp.Rationale) {
		return false
	}
	for _, item := range resp.ActionItems {
		if hasPlaceholderArtifact(item) {
			return false
		}
	}
	return true
}
