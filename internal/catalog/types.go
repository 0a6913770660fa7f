// Package catalog holds the content and offer catalogs the recommendation
// composer selects from. Catalogs are loaded once at process start and are
// read-only afterwards; they may be shared across concurrent runs.
package catalog

import (
	"fmt"

	"github.com/mintwell/mintwell/internal/model"
)

// Condition is one trigger threshold on a named signal field. All conditions
// on an entry must hold for the entry to be selectable.
type Condition struct {
	Signal string  `yaml:"signal"`
	Op     string  `yaml:"op"`
	Value  float64 `yaml:"value"`
}

// Eligibility declares the minimum-qualification thresholds for a partner
// offer. Zero values disable the corresponding threshold.
type Eligibility struct {
	MinMonthlyIncome     float64 `yaml:"min_monthly_income"`
	MinLiquidBalance     float64 `yaml:"min_liquid_balance"`
	MaxUtilization       float64 `yaml:"max_utilization"`
	RequireSteadyPayroll bool    `yaml:"require_steady_payroll"`
}

// Check evaluates the declared thresholds against a user's signals. A failed
// threshold returns the human-readable reason for the guardrail verdict.
func (el *Eligibility) Check(sig *model.SignalSet) (bool, string) {
	if el == nil {
		return true, ""
	}
	if el.MinMonthlyIncome > 0 && sig.AvgMonthlyIncome < el.MinMonthlyIncome {
		return false, fmt.Sprintf("monthly income $%.0f below required $%.0f", sig.AvgMonthlyIncome, el.MinMonthlyIncome)
	}
	if el.MinLiquidBalance > 0 && sig.LiquidBalance < el.MinLiquidBalance {
		return false, fmt.Sprintf("liquid balance $%.0f below required $%.0f", sig.LiquidBalance, el.MinLiquidBalance)
	}
	if el.MaxUtilization > 0 {
		if sig.MaxUtilization == nil {
			return false, "credit utilization unknown"
		}
		if *sig.MaxUtilization > el.MaxUtilization {
			return false, fmt.Sprintf("utilization %.0f%% above allowed %.0f%%", *sig.MaxUtilization*100, el.MaxUtilization*100)
		}
	}
	if el.RequireSteadyPayroll && !sig.PayrollDetected {
		return false, "steady payroll deposits required"
	}
	return true, ""
}

// Entry is one catalog item: education content or a partner offer, tagged
// with the personas it applies to, its trigger conditions, and ordered
// rationale templates. Templates use {field} placeholders bound to SignalSet
// fields; the composer falls back through the list when a placeholder cannot
// be bound.
type Entry struct {
	ID                 string                     `yaml:"id"`
	Kind               model.RecommendationKind   `yaml:"kind"`
	Title              string                     `yaml:"title"`
	Personas           []model.PersonaID          `yaml:"personas"`
	Trigger            []Condition                `yaml:"trigger"`
	RationaleTemplates []string                   `yaml:"rationale_templates"`
	ActionItems        []string                   `yaml:"action_items"`
	ExpectedImpact     string                     `yaml:"expected_impact"`
	Eligibility        *Eligibility               `yaml:"eligibility,omitempty"`
}

// AppliesTo reports whether the entry is tagged with the given persona.
func (e *Entry) AppliesTo(id model.PersonaID) bool {
	for _, p := range e.Personas {
		if p == id {
			return true
		}
	}
	return false
}

// Triggered evaluates the entry's trigger conditions against a SignalSet.
// A condition on an unavailable field (e.g. utilization with no known credit
// limit) fails rather than erroring.
func (e *Entry) Triggered(sig *model.SignalSet) bool {
	for _, cond := range e.Trigger {
		value, ok := FieldValue(cond.Signal, sig)
		if !ok {
			return false
		}
		if !compare(value, cond.Op, cond.Value) {
			return false
		}
	}
	return true
}

func compare(value float64, op string, threshold float64) bool {
	switch op {
	case ">=":
		return value >= threshold
	case ">":
		return value > threshold
	case "<=":
		return value <= threshold
	case "<":
		return value < threshold
	case "==":
		return value == threshold
	}
	return false
}

// Catalog is the immutable set of catalog entries for one process.
type Catalog struct {
	entries []Entry
}

// New builds a catalog after validating every entry.
func New(entries []Entry) (*Catalog, error) {
	seen := make(map[string]bool, len(entries))
	for i := range entries {
		if err := validateEntry(&entries[i]); err != nil {
			return nil, err
		}
		if seen[entries[i].ID] {
			return nil, fmt.Errorf("duplicate catalog entry id %q", entries[i].ID)
		}
		seen[entries[i].ID] = true
	}
	return &Catalog{entries: entries}, nil
}

// Match returns the entries of the given kind that are tagged with the
// persona and whose trigger conditions hold for the SignalSet.
func (c *Catalog) Match(kind model.RecommendationKind, id model.PersonaID, sig *model.SignalSet) []Entry {
	var out []Entry
	for _, e := range c.entries {
		if e.Kind != kind {
			continue
		}
		if !e.AppliesTo(id) {
			continue
		}
		if !e.Triggered(sig) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Get looks up an entry by ID.
func (c *Catalog) Get(id string) (*Entry, bool) {
	for i := range c.entries {
		if c.entries[i].ID == id {
			return &c.entries[i], true
		}
	}
	return nil, false
}

// Len returns the number of entries in the catalog.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Entries returns a copy of the catalog's entries.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

func validateEntry(e *Entry) error {
	if e.ID == "" {
		return fmt.Errorf("catalog entry missing id")
	}
	if e.Kind != model.KindEducation && e.Kind != model.KindOffer {
		return fmt.Errorf("catalog entry %s: unknown kind %q", e.ID, e.Kind)
	}
	if e.Title == "" {
		return fmt.Errorf("catalog entry %s: title is required", e.ID)
	}
	if len(e.Personas) == 0 {
		return fmt.Errorf("catalog entry %s: at least one persona tag is required", e.ID)
	}
	if len(e.RationaleTemplates) == 0 {
		return fmt.Errorf("catalog entry %s: at least one rationale template is required", e.ID)
	}
	// The deterministic draft must already satisfy the action item invariant
	// so enhancer failure can fall back to it.
	if len(e.ActionItems) < 3 || len(e.ActionItems) > 5 {
		return fmt.Errorf("catalog entry %s: action items must number 3-5, got %d", e.ID, len(e.ActionItems))
	}
	for _, cond := range e.Trigger {
		if _, known := fieldSpecs[cond.Signal]; !known {
			return fmt.Errorf("catalog entry %s: unknown trigger signal %q", e.ID, cond.Signal)
		}
	}
	return nil
}
