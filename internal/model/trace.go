package model

import "time"

// VerdictOutcome is the guardrail engine's decision for one candidate
// recommendation. A rejection is a first-class output, not an error.
type VerdictOutcome string

// Verdict outcome constants.
const (
	VerdictPass        VerdictOutcome = "pass"
	VerdictSubstituted VerdictOutcome = "substituted"
	VerdictBlocked     VerdictOutcome = "blocked"
)

// GuardrailVerdict records the outcome of one guardrail check against one
// draft recommendation.
type GuardrailVerdict struct {
	RecommendationID string
	Check            string // "consent", "eligibility", "tone", "disclaimer"
	Outcome          VerdictOutcome
	Reason           string
}

// ComposerEvent records a selection decision made while composing
// recommendations: slot allocations, skipped templates, catalog mismatches.
type ComposerEvent struct {
	Persona PersonaID
	Event   string
	Detail  string
}

// DecisionTrace is the append-only audit record of one pipeline run for one
// user: the inputs, every criterion evaluation, composer decisions, and every
// guardrail verdict.
type DecisionTrace struct {
	RunAt     time.Time
	RunID     string
	UserID    string
	Signals   SignalSet
	Personas  PersonaDistribution
	Composer  []ComposerEvent
	Verdicts  []GuardrailVerdict
}

// BlockedCount returns the number of blocked verdicts in the trace.
func (t *DecisionTrace) BlockedCount() int {
	n := 0
	for _, v := range t.Verdicts {
		if v.Outcome == VerdictBlocked {
			n++
		}
	}
	return n
}
