package model

import (
	"fmt"
	"time"
)

// RecommendationKind distinguishes education content from partner offers.
type RecommendationKind string

// Recommendation kind constants.
const (
	KindEducation RecommendationKind = "education"
	KindOffer     RecommendationKind = "offer"
)

// ApprovalStatus tracks the human-review state of a recommendation.
type ApprovalStatus string

// Approval status constants. Approved, rejected, and flagged are terminal;
// the pipeline itself only ever creates pending recommendations.
const (
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
	StatusRejected ApprovalStatus = "rejected"
	StatusFlagged  ApprovalStatus = "flagged"
)

// EducationalDisclaimer is appended to every recommendation at composition
// time. Its presence is verified by the guardrail engine before surfacing.
const EducationalDisclaimer = "This is educational information, not financial advice. " +
	"Consider consulting a licensed financial professional about your specific situation."

// RecommendationDraft is a composed recommendation before guardrail review.
// Rationale always cites at least one concrete numeric signal.
type RecommendationDraft struct {
	CreatedAt      time.Time
	ID             string
	UserID         string
	CatalogID      string
	Kind           RecommendationKind
	Title          string
	Rationale      string
	ActionItems    []string
	ExpectedImpact string
	SourcePersona  PersonaID
	Enhanced       bool
}

// Recommendation is a draft that has passed through the guardrail engine and
// carries an approval state. Only an external review action may move it out
// of pending.
type Recommendation struct {
	RecommendationDraft
	Status ApprovalStatus
}

// CanTransition reports whether the approval state machine permits moving to
// the given status. All non-pending states are terminal.
func (r *Recommendation) CanTransition(to ApprovalStatus) bool {
	if r.Status != StatusPending {
		return false
	}
	switch to {
	case StatusApproved, StatusRejected, StatusFlagged:
		return true
	}
	return false
}

// Transition applies an approval state change, enforcing one-directional
// terminal semantics.
func (r *Recommendation) Transition(to ApprovalStatus) error {
	if !r.CanTransition(to) {
		return fmt.Errorf("invalid status transition %s -> %s", r.Status, to)
	}
	r.Status = to
	return nil
}

// ConsentRecord is the user's data-use consent as read by the guardrail
// engine. Writes originate from user action outside the pipeline.
type ConsentRecord struct {
	UpdatedAt time.Time
	UserID    string
	Consented bool
}
