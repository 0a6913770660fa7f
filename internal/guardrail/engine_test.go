package guardrail

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mintwell/mintwell/internal/catalog"
	"github.com/mintwell/mintwell/internal/model"
	"github.com/mintwell/mintwell/internal/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConsent struct {
	record *model.ConsentRecord
	err    error
}

func (f *fakeConsent) GetConsent(_ context.Context, _ string) (*model.ConsentRecord, error) {
	return f.record, f.err
}

func consented() *fakeConsent {
	return &fakeConsent{record: &model.ConsentRecord{UserID: "user-1", Consented: true}}
}

func ptr(v float64) *float64 { return &v }

func draft(kind model.RecommendationKind, catalogID string) model.RecommendationDraft {
	return model.RecommendationDraft{
		CreatedAt: time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
		ID:        "rec-" + catalogID,
		UserID:    "user-1",
		CatalogID: catalogID,
		Kind:      kind,
		Title:     "Test",
		Rationale: "Your balance is $3,400.\n\n" + model.EducationalDisclaimer,
		ActionItems: []string{
			"List each card's balance",
			"Pay the highest utilization first",
			"Set a payment reminder",
		},
		SourcePersona: model.PersonaHighUtilization,
	}
}

func verdictFor(verdicts []model.GuardrailVerdict, check string) *model.GuardrailVerdict {
	for i := range verdicts {
		if verdicts[i].Check == check {
			return &verdicts[i]
		}
	}
	return nil
}

func TestApplyNoConsentBlocksEverything(t *testing.T) {
	tests := []struct {
		name   string
		reader *fakeConsent
	}{
		{name: "no record", reader: &fakeConsent{}},
		{name: "consent revoked", reader: &fakeConsent{
			record: &model.ConsentRecord{UserID: "user-1", Consented: false},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(tt.reader, catalog.Default(), nil)
			tb := trace.NewBuilder("user-1")

			drafts := []model.RecommendationDraft{
				draft(model.KindEducation, "edu-utilization-paydown"),
				draft(model.KindOffer, "offer-hysa"),
			}
			results, err := e.Apply(context.Background(), drafts, "user-1", &model.SignalSet{LiquidBalance: 1200}, tb)
			require.NoError(t, err)
			require.Len(t, results, 2)

			for _, r := range results {
				assert.False(t, r.Allowed)
				v := verdictFor(r.Verdicts, CheckConsent)
				require.NotNil(t, v)
				assert.Equal(t, model.VerdictBlocked, v.Outcome)
				assert.Equal(t, ReasonNoConsent, v.Reason)
			}
		})
	}
}

func TestApplyConsentReadErrorFailsTheRun(t *testing.T) {
	e := NewEngine(&fakeConsent{err: errors.New("db locked")}, catalog.Default(), nil)
	tb := trace.NewBuilder("user-1")

	_, err := e.Apply(context.Background(), []model.RecommendationDraft{draft(model.KindEducation, "x")}, "user-1", &model.SignalSet{}, tb)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read consent")
}

func TestApplyCleanDraftPassesAllChecks(t *testing.T) {
	e := NewEngine(consented(), catalog.Default(), nil)
	tb := trace.NewBuilder("user-1")

	results, err := e.Apply(context.Background(), []model.RecommendationDraft{draft(model.KindEducation, "edu-utilization-paydown")}, "user-1", &model.SignalSet{}, tb)
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.True(t, r.Allowed)
	assert.Equal(t, model.StatusPending, r.Recommendation.Status)

	// Education drafts get consent, tone, and disclaimer checks; no
	// eligibility.
	require.Len(t, r.Verdicts, 3)
	assert.Nil(t, verdictFor(r.Verdicts, CheckEligibility))
	for _, v := range r.Verdicts {
		assert.Equal(t, model.VerdictPass, v.Outcome)
		assert.Equal(t, r.Recommendation.ID, v.RecommendationID)
	}
}

func TestApplyOfferEligibility(t *testing.T) {
	tests := []struct {
		name        string
		catalogID   string
		sig         model.SignalSet
		wantAllowed bool
		wantReason  string
	}{
		{
			name:        "eligible",
			catalogID:   "offer-hysa",
			sig:         model.SignalSet{LiquidBalance: 1200},
			wantAllowed: true,
		},
		{
			name:        "liquid balance below floor",
			catalogID:   "offer-hysa",
			sig:         model.SignalSet{LiquidBalance: 100},
			wantAllowed: false,
			wantReason:  "liquid balance $100 below required $500",
		},
		{
			name:      "income below floor",
			catalogID: "offer-balance-transfer",
			sig: model.SignalSet{
				AvgMonthlyIncome: 1200,
				MaxUtilization:   ptr(0.68),
			},
			wantAllowed: false,
			wantReason:  "monthly income $1200 below required $2000",
		},
		{
			name:        "unknown catalog entry",
			catalogID:   "offer-gone",
			sig:         model.SignalSet{},
			wantAllowed: false,
			wantReason:  "unknown catalog entry offer-gone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(consented(), catalog.Default(), nil)
			tb := trace.NewBuilder("user-1")

			results, err := e.Apply(context.Background(), []model.RecommendationDraft{draft(model.KindOffer, tt.catalogID)}, "user-1", &tt.sig, tb)
			require.NoError(t, err)
			require.Len(t, results, 1)

			r := results[0]
			assert.Equal(t, tt.wantAllowed, r.Allowed)
			v := verdictFor(r.Verdicts, CheckEligibility)
			require.NotNil(t, v)
			if tt.wantAllowed {
				assert.Equal(t, model.VerdictPass, v.Outcome)
			} else {
				assert.Equal(t, model.VerdictBlocked, v.Outcome)
				assert.Equal(t, tt.wantReason, v.Reason)
			}
		})
	}
}

func TestApplyOneFailingOfferDoesNotBlockSiblings(t *testing.T) {
	e := NewEngine(consented(), catalog.Default(), nil)
	tb := trace.NewBuilder("user-1")

	drafts := []model.RecommendationDraft{
		draft(model.KindEducation, "edu-utilization-paydown"),
		draft(model.KindOffer, "offer-hysa"), // needs $500 liquid
	}
	results, err := e.Apply(context.Background(), drafts, "user-1", &model.SignalSet{LiquidBalance: 100}, tb)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.True(t, results[0].Allowed, "education draft must survive the offer's failure")
	assert.False(t, results[1].Allowed)
}

func TestApplyToneSubstitution(t *testing.T) {
	e := NewEngine(consented(), catalog.Default(), nil)
	tb := trace.NewBuilder("user-1")

	d := draft(model.KindEducation, "edu-subscription-audit")
	d.Rationale = "You're overspending on subscriptions by $45 each month.\n\n" + model.EducationalDisclaimer

	results, err := e.Apply(context.Background(), []model.RecommendationDraft{d}, "user-1", &model.SignalSet{}, tb)
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.True(t, r.Allowed, "substitution keeps the draft surfaced")
	assert.Contains(t, r.Recommendation.Rationale, "your spending is running ahead of plan")
	assert.NotContains(t, r.Recommendation.Rationale, "overspending")

	v := verdictFor(r.Verdicts, CheckTone)
	require.NotNil(t, v)
	assert.Equal(t, model.VerdictSubstituted, v.Outcome)
	assert.Contains(t, v.Reason, "You're overspending")
}

func TestApplyToneSubstitutionInActionItems(t *testing.T) {
	e := NewEngine(consented(), catalog.Default(), nil)
	tb := trace.NewBuilder("user-1")

	d := draft(model.KindEducation, "edu-subscription-audit")
	d.ActionItems = []string{
		"Review subscriptions flagged as irresponsible spending",
		"Cancel anything unused",
		"Set a quarterly reminder",
	}

	results, err := e.Apply(context.Background(), []model.RecommendationDraft{d}, "user-1", &model.SignalSet{}, tb)
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.True(t, r.Allowed)
	assert.Equal(t, "Review subscriptions flagged as spending above plan", r.Recommendation.ActionItems[0])
	assert.Equal(t, "Cancel anything unused", r.Recommendation.ActionItems[1])
}

func TestApplyToneRejection(t *testing.T) {
	e := NewEngine(consented(), catalog.Default(), nil)
	tb := trace.NewBuilder("user-1")

	d := draft(model.KindEducation, "edu-subscription-audit")
	d.Rationale = "Carrying this balance is reckless.\n\n" + model.EducationalDisclaimer

	results, err := e.Apply(context.Background(), []model.RecommendationDraft{d}, "user-1", &model.SignalSet{}, tb)
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.False(t, r.Allowed)
	v := verdictFor(r.Verdicts, CheckTone)
	require.NotNil(t, v)
	assert.Equal(t, model.VerdictBlocked, v.Outcome)
	assert.Contains(t, v.Reason, "reckless")
}

func TestApplyRestoresStrippedDisclaimer(t *testing.T) {
	e := NewEngine(consented(), catalog.Default(), nil)
	tb := trace.NewBuilder("user-1")

	d := draft(model.KindEducation, "edu-utilization-paydown")
	d.Rationale = "Pay down the $3,400 balance." // enhancer dropped the disclaimer
	d.Enhanced = true

	results, err := e.Apply(context.Background(), []model.RecommendationDraft{d}, "user-1", &model.SignalSet{}, tb)
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.True(t, r.Allowed)
	assert.Contains(t, r.Recommendation.Rationale, model.EducationalDisclaimer)

	v := verdictFor(r.Verdicts, CheckDisclaimer)
	require.NotNil(t, v)
	assert.Equal(t, model.VerdictSubstituted, v.Outcome)
}

func TestApplyRecordsEveryVerdictInTrace(t *testing.T) {
	e := NewEngine(consented(), catalog.Default(), nil)
	tb := trace.NewBuilder("user-1")

	drafts := []model.RecommendationDraft{
		draft(model.KindEducation, "edu-utilization-paydown"),
		draft(model.KindOffer, "offer-hysa"),
	}
	results, err := e.Apply(context.Background(), drafts, "user-1", &model.SignalSet{LiquidBalance: 1200}, tb)
	require.NoError(t, err)

	total := 0
	for _, r := range results {
		total += len(r.Verdicts)
	}
	tr := tb.Finalize(time.Now())
	assert.Len(t, tr.Verdicts, total)
}

func TestScanTone(t *testing.T) {
	tests := []struct {
		name            string
		text            string
		wantSubstituted bool
		wantRejected    bool
		wantText        string
	}{
		{
			name:     "clean text",
			text:     "Consider a mid-cycle payment.",
			wantText: "Consider a mid-cycle payment.",
		},
		{
			name:            "case-insensitive substitution",
			text:            "YOU ARE OVERSPENDING this month.",
			wantSubstituted: true,
			wantText:        "your spending is running ahead of plan this month.",
		},
		{
			name:            "rejection wins over substitution",
			text:            "You're overspending and it is shameful.",
			wantSubstituted: true,
			wantRejected:    true,
		},
		{
			name:     "word boundary protects innocent text",
			text:     "The blazy brand subscription renewed.",
			wantText: "The blazy brand subscription renewed.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scanTone(tt.text)
			assert.Equal(t, tt.wantSubstituted, got.substituted)
			assert.Equal(t, tt.wantRejected, got.rejected)
			if !tt.wantRejected {
				assert.Equal(t, tt.wantText, got.text)
			}
		})
	}
}
