package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mintwell/mintwell/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func validEntry(id string) Entry {
	return Entry{
		ID:                 id,
		Kind:               model.KindEducation,
		Title:              "Test Entry",
		Personas:           []model.PersonaID{model.PersonaBalancedStable},
		RationaleTemplates: []string{"Your balance is {liquid_balance}."},
		ActionItems:        []string{"one", "two", "three"},
	}
}

func TestDefaultCatalogIsValid(t *testing.T) {
	// Default panics on an invalid built-in entry; constructing it is the test.
	cat := Default()
	assert.Equal(t, 15, cat.Len())

	education, offers := 0, 0
	for _, e := range cat.Entries() {
		switch e.Kind {
		case model.KindEducation:
			education++
		case model.KindOffer:
			offers++
		}
	}
	assert.Equal(t, 11, education)
	assert.Equal(t, 4, offers)
}

func TestDefaultEveryPersonaHasEducation(t *testing.T) {
	cat := Default()
	personas := []model.PersonaID{
		model.PersonaHighUtilization,
		model.PersonaVariableIncome,
		model.PersonaSubscriptionHeavy,
		model.PersonaSavingsBuilder,
		model.PersonaBalancedStable,
	}
	for _, p := range personas {
		found := false
		for _, e := range cat.Entries() {
			if e.Kind == model.KindEducation && e.AppliesTo(p) {
				found = true
				break
			}
		}
		assert.True(t, found, "no education entries for %s", p)
	}
}

func TestNewRejectsInvalidEntries(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Entry)
		errMsg string
	}{
		{
			name:   "missing id",
			mutate: func(e *Entry) { e.ID = "" },
			errMsg: "missing id",
		},
		{
			name:   "unknown kind",
			mutate: func(e *Entry) { e.Kind = "webinar" },
			errMsg: "unknown kind",
		},
		{
			name:   "missing title",
			mutate: func(e *Entry) { e.Title = "" },
			errMsg: "title is required",
		},
		{
			name:   "no personas",
			mutate: func(e *Entry) { e.Personas = nil },
			errMsg: "persona tag",
		},
		{
			name:   "no templates",
			mutate: func(e *Entry) { e.RationaleTemplates = nil },
			errMsg: "rationale template",
		},
		{
			name:   "too few action items",
			mutate: func(e *Entry) { e.ActionItems = []string{"one", "two"} },
			errMsg: "action items must number 3-5",
		},
		{
			name: "too many action items",
			mutate: func(e *Entry) {
				e.ActionItems = []string{"1", "2", "3", "4", "5", "6"}
			},
			errMsg: "action items must number 3-5",
		},
		{
			name: "unknown trigger signal",
			mutate: func(e *Entry) {
				e.Trigger = []Condition{{Signal: "credit_score", Op: ">=", Value: 700}}
			},
			errMsg: "unknown trigger signal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := validEntry("test-entry")
			tt.mutate(&entry)
			_, err := New([]Entry{entry})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestNewRejectsDuplicateIDs(t *testing.T) {
	_, err := New([]Entry{validEntry("dup"), validEntry("dup")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate catalog entry")
}

func TestTriggered(t *testing.T) {
	entry := validEntry("trigger-test")
	entry.Trigger = []Condition{
		{Signal: "subscription_count", Op: ">=", Value: 3},
		{Signal: "subscription_share", Op: ">=", Value: 0.10},
	}

	tests := []struct {
		name string
		sig  model.SignalSet
		want bool
	}{
		{
			name: "all conditions hold",
			sig:  model.SignalSet{SubscriptionCount: 4, SubscriptionShare: 0.15},
			want: true,
		},
		{
			name: "boundary values are inclusive",
			sig:  model.SignalSet{SubscriptionCount: 3, SubscriptionShare: 0.10},
			want: true,
		},
		{
			name: "one condition fails",
			sig:  model.SignalSet{SubscriptionCount: 4, SubscriptionShare: 0.05},
			want: false,
		},
		{
			name: "zero signals fail",
			sig:  model.SignalSet{},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, entry.Triggered(&tt.sig))
		})
	}
}

func TestTriggeredUnavailableFieldFails(t *testing.T) {
	entry := validEntry("util-test")
	entry.Trigger = []Condition{{Signal: "max_utilization", Op: ">=", Value: 0.50}}

	// No known credit limits: the condition cannot be evaluated and fails.
	assert.False(t, entry.Triggered(&model.SignalSet{}))
	assert.True(t, entry.Triggered(&model.SignalSet{MaxUtilization: ptr(0.68)}))
}

func TestMatch(t *testing.T) {
	cat := Default()
	sig := &model.SignalSet{
		MaxUtilization:  ptr(0.68),
		MaxCardBalance:  3400,
		InterestCharges: 42.80,
	}

	matches := cat.Match(model.KindEducation, model.PersonaHighUtilization, sig)
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.ID)
	}
	assert.ElementsMatch(t, []string{"edu-utilization-paydown", "edu-interest-costs", "edu-payoff-plan"}, ids)

	// Same signals, different persona: nothing applies.
	assert.Empty(t, cat.Match(model.KindEducation, model.PersonaSubscriptionHeavy, sig))

	// Offers are filtered by kind.
	offers := cat.Match(model.KindOffer, model.PersonaHighUtilization, sig)
	require.Len(t, offers, 1)
	assert.Equal(t, "offer-balance-transfer", offers[0].ID)
}

func TestEligibilityCheck(t *testing.T) {
	tests := []struct {
		name       string
		elig       *Eligibility
		sig        model.SignalSet
		wantOK     bool
		wantReason string
	}{
		{
			name:   "nil eligibility always passes",
			elig:   nil,
			sig:    model.SignalSet{},
			wantOK: true,
		},
		{
			name:       "income below floor",
			elig:       &Eligibility{MinMonthlyIncome: 2000},
			sig:        model.SignalSet{AvgMonthlyIncome: 1500},
			wantOK:     false,
			wantReason: "monthly income $1500 below required $2000",
		},
		{
			name:       "liquid balance below floor",
			elig:       &Eligibility{MinLiquidBalance: 500},
			sig:        model.SignalSet{LiquidBalance: 200},
			wantOK:     false,
			wantReason: "liquid balance $200 below required $500",
		},
		{
			name:       "utilization above ceiling",
			elig:       &Eligibility{MaxUtilization: 0.95},
			sig:        model.SignalSet{MaxUtilization: ptr(0.97)},
			wantOK:     false,
			wantReason: "utilization 97% above allowed 95%",
		},
		{
			name:       "utilization unknown",
			elig:       &Eligibility{MaxUtilization: 0.95},
			sig:        model.SignalSet{},
			wantOK:     false,
			wantReason: "credit utilization unknown",
		},
		{
			name:       "payroll required but absent",
			elig:       &Eligibility{RequireSteadyPayroll: true},
			sig:        model.SignalSet{},
			wantOK:     false,
			wantReason: "steady payroll deposits required",
		},
		{
			name: "all thresholds satisfied",
			elig: &Eligibility{MinMonthlyIncome: 2000, MinLiquidBalance: 500, MaxUtilization: 0.95},
			sig: model.SignalSet{
				AvgMonthlyIncome: 3200,
				LiquidBalance:    1200,
				MaxUtilization:   ptr(0.68),
			},
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := tt.elig.Check(&tt.sig)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantReason != "" {
				assert.Equal(t, tt.wantReason, reason)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	content := `entries:
  - id: custom-entry
    kind: education
    title: Custom Entry
    personas: [balanced_stable]
    trigger:
      - signal: liquid_balance
        op: ">="
        value: 1000
    rationale_templates:
      - "You hold {liquid_balance} in liquid accounts."
    action_items:
      - "first"
      - "second"
      - "third"
    expected_impact: "Testing."
`
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cat, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, cat.Len())

	entry, ok := cat.Get("custom-entry")
	require.True(t, ok)
	assert.Equal(t, model.KindEducation, entry.Kind)
	assert.True(t, entry.AppliesTo(model.PersonaBalancedStable))
	require.Len(t, entry.Trigger, 1)
	assert.Equal(t, "liquid_balance", entry.Trigger[0].Signal)
	assert.InDelta(t, 1000.0, entry.Trigger[0].Value, 1e-9)
}

func TestLoadFileErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read catalog file")
	})

	t.Run("empty catalog", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.yaml")
		require.NoError(t, os.WriteFile(path, []byte("entries: []\n"), 0o600))
		_, err := LoadFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "contains no entries")
	})

	t.Run("invalid entry", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		bad := "entries:\n  - id: bad\n    kind: education\n"
		require.NoError(t, os.WriteFile(path, []byte(bad), 0o600))
		_, err := LoadFile(path)
		require.Error(t, err)
	})
}

func TestLoadDefaultsOnEmptyPath(t *testing.T) {
	cat, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Len(), cat.Len())
}
