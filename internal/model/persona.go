package model

// PersonaID identifies one of the five behavioral archetypes. Personas are a
// fixed enumeration; a user matches a distribution over them, not one label.
type PersonaID string

// Persona constants, in tie-break priority order (highest first).
const (
	PersonaHighUtilization   PersonaID = "high_utilization"
	PersonaVariableIncome    PersonaID = "variable_income"
	PersonaSubscriptionHeavy PersonaID = "subscription_heavy"
	PersonaSavingsBuilder    PersonaID = "savings_builder"
	PersonaBalancedStable    PersonaID = "balanced_stable"
)

// PersonaPriority returns the fixed total order used to break exact numeric
// ties in contribution percentages. Lower values outrank higher ones.
func PersonaPriority(id PersonaID) int {
	switch id {
	case PersonaHighUtilization:
		return 0
	case PersonaVariableIncome:
		return 1
	case PersonaSubscriptionHeavy:
		return 2
	case PersonaSavingsBuilder:
		return 3
	case PersonaBalancedStable:
		return 4
	}
	return 5
}

// DisplayName returns the human-readable persona name.
func (p PersonaID) DisplayName() string {
	switch p {
	case PersonaHighUtilization:
		return "High Utilization"
	case PersonaVariableIncome:
		return "Variable Income Budgeter"
	case PersonaSubscriptionHeavy:
		return "Subscription-Heavy"
	case PersonaSavingsBuilder:
		return "Savings Builder"
	case PersonaBalancedStable:
		return "Balanced/Stable"
	}
	return string(p)
}

// RiskLevel is a monotonic bucket of total risk points.
type RiskLevel string

// Risk level constants, ordered.
const (
	RiskVeryLow  RiskLevel = "VERY_LOW"
	RiskLow      RiskLevel = "LOW"
	RiskModerate RiskLevel = "MODERATE"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// CriterionResult records the outcome of evaluating a single persona
// criterion. Every criterion is recorded, pass or fail, so the decision
// trace can show the full evaluation.
type CriterionResult struct {
	Name      string
	Reason    string
	Satisfied bool
}

// PersonaMatch is the result of evaluating one persona's rule-set against a
// SignalSet. Score is matched criteria times the persona's points-per-criterion.
type PersonaMatch struct {
	Persona         PersonaID
	Criteria        []CriterionResult
	MatchedCount    int
	TotalCount      int
	Score           int
	ContributionPct int // share of total matched score, 0..100
}

// PersonaDistribution is the full scoring result for one user: every
// evaluated persona (matched or not), the risk classification, and the top
// two personas by contribution.
type PersonaDistribution struct {
	Matches         []PersonaMatch // all five personas, priority order
	Primary         PersonaID
	Secondary       PersonaID // empty when only one persona matched
	TotalRiskPoints int
	Risk            RiskLevel
}

// Matched returns only the personas with a positive score.
func (d *PersonaDistribution) Matched() []PersonaMatch {
	out := make([]PersonaMatch, 0, len(d.Matches))
	for _, m := range d.Matches {
		if m.Score > 0 || m.ContributionPct > 0 {
			out = append(out, m)
		}
	}
	return out
}

// Contribution returns the contribution percentage for a persona, 0 when the
// persona did not match.
func (d *PersonaDistribution) Contribution(id PersonaID) int {
	for _, m := range d.Matches {
		if m.Persona == id {
			return m.ContributionPct
		}
	}
	return 0
}
