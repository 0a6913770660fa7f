package trace

import (
	"testing"
	"time"

	"github.com/mintwell/mintwell/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderAccumulatesStages(t *testing.T) {
	b := NewBuilder("user-1")

	sig := model.SignalSet{UserID: "user-1", SubscriptionCount: 4}
	b.RecordSignals(sig)

	dist := model.PersonaDistribution{
		Primary: model.PersonaSubscriptionHeavy,
		Risk:    model.RiskLow,
	}
	b.RecordPersonas(dist)

	b.RecordComposerEvent(model.PersonaSubscriptionHeavy, "slots_allocated", "3 education slots at 100% contribution")
	b.RecordVerdict(model.GuardrailVerdict{
		RecommendationID: "rec-1",
		Check:            "consent",
		Outcome:          model.VerdictPass,
	})
	b.RecordVerdict(model.GuardrailVerdict{
		RecommendationID: "rec-2",
		Check:            "eligibility",
		Outcome:          model.VerdictBlocked,
		Reason:           "liquid balance $100 below required $500",
	})

	at := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	tr := b.Finalize(at)

	assert.NotEmpty(t, tr.RunID)
	assert.Equal(t, at, tr.RunAt)
	assert.Equal(t, "user-1", tr.UserID)
	assert.Equal(t, sig, tr.Signals)
	assert.Equal(t, dist.Primary, tr.Personas.Primary)
	require.Len(t, tr.Composer, 1)
	assert.Equal(t, "slots_allocated", tr.Composer[0].Event)
	require.Len(t, tr.Verdicts, 2)
	assert.Equal(t, 1, tr.BlockedCount())
}

func TestBuilderEmptyRunStillFinalizes(t *testing.T) {
	b := NewBuilder("user-2")
	tr := b.Finalize(time.Now())

	assert.NotEmpty(t, tr.RunID)
	assert.Equal(t, "user-2", tr.UserID)
	assert.Empty(t, tr.Composer)
	assert.Empty(t, tr.Verdicts)
	assert.Zero(t, tr.BlockedCount())
}

func TestFinalizeIssuesUniqueRunIDs(t *testing.T) {
	a := NewBuilder("user-1").Finalize(time.Now())
	b := NewBuilder("user-1").Finalize(time.Now())
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestFinalizeIsIdempotent(t *testing.T) {
	b := NewBuilder("user-1")
	b.RecordComposerEvent(model.PersonaSubscriptionHeavy, "slots_allocated", "3 education slots")

	first := b.Finalize(time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC))

	// A later call must not mint a second run ID or pick up new stamps.
	second := b.Finalize(time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, first.RunID, second.RunID)
	assert.Equal(t, first.RunAt, second.RunAt)
	assert.Equal(t, first, second)
}
