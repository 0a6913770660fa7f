// Package trace accumulates the decision audit record for one pipeline run.
// A Builder is passed by reference through the stages of a single user's run
// and finalized exactly once; it is not safe for concurrent use, which
// matches the strictly sequential stage order within a run.
package trace

import (
	"time"

	"github.com/google/uuid"
	"github.com/mintwell/mintwell/internal/model"
)

// Builder collects stage outputs into a DecisionTrace.
type Builder struct {
	userID    string
	signals   model.SignalSet
	personas  model.PersonaDistribution
	composer  []model.ComposerEvent
	verdicts  []model.GuardrailVerdict
	result    model.DecisionTrace
	finalized bool
}

// NewBuilder starts a trace for one user's run.
func NewBuilder(userID string) *Builder {
	return &Builder{userID: userID}
}

// RecordSignals captures the computed SignalSet.
func (b *Builder) RecordSignals(sig model.SignalSet) {
	b.signals = sig
}

// RecordPersonas captures the full persona evaluation, including every
// criterion's pass/fail result.
func (b *Builder) RecordPersonas(dist model.PersonaDistribution) {
	b.personas = dist
}

// RecordComposerEvent captures a selection decision made while composing:
// slot allocations, skipped templates, catalog mismatches, enhancer fallbacks.
func (b *Builder) RecordComposerEvent(persona model.PersonaID, event, detail string) {
	b.composer = append(b.composer, model.ComposerEvent{
		Persona: persona,
		Event:   event,
		Detail:  detail,
	})
}

// RecordVerdict captures one guardrail check outcome for one draft.
func (b *Builder) RecordVerdict(v model.GuardrailVerdict) {
	b.verdicts = append(b.verdicts, v)
}

// Finalize stamps the trace with a run ID and timestamp. The first call
// fixes the trace; later calls return the same trace unchanged, so a run ID
// is never minted twice for one run.
func (b *Builder) Finalize(at time.Time) model.DecisionTrace {
	if b.finalized {
		return b.result
	}
	b.finalized = true
	b.result = model.DecisionTrace{
		RunAt:    at,
		RunID:    uuid.NewString(),
		UserID:   b.userID,
		Signals:  b.signals,
		Personas: b.personas,
		Composer: b.composer,
		Verdicts: b.verdicts,
	}
	return b.result
}
