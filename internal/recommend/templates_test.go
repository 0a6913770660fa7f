package recommend

import (
	"testing"

	"github.com/mintwell/mintwell/internal/model"
	"github.com/stretchr/testify/assert"
)

func ptr(v float64) *float64 { return &v }

func TestBindTemplate(t *testing.T) {
	sig := &model.SignalSet{
		SubscriptionCount: 4,
		SubscriptionSpend: 45.48,
		MaxUtilization:    ptr(0.68),
		MaxCardBalance:    3400,
	}

	tests := []struct {
		name     string
		template string
		want     string
		wantOK   bool
	}{
		{
			name:     "no placeholders",
			template: "Plain text stays as-is.",
			want:     "Plain text stays as-is.",
			wantOK:   true,
		},
		{
			name:     "single placeholder",
			template: "You have {subscription_count} subscriptions.",
			want:     "You have 4 subscriptions.",
			wantOK:   true,
		},
		{
			name:     "multiple placeholders",
			template: "Balance {max_card_balance} at {max_utilization} utilization.",
			want:     "Balance $3,400 at 68% utilization.",
			wantOK:   true,
		},
		{
			name:     "unknown field fails the bind",
			template: "Your score is {credit_score}.",
			wantOK:   false,
		},
		{
			name:     "unavailable field fails the bind",
			template: "Paychecks arrive every {median_pay_gap_days}.",
			wantOK:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := bindTemplate(tt.template, sig)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestBindFirstFallsThrough(t *testing.T) {
	// First template needs a field this user lacks; the second binds.
	sig := &model.SignalSet{MaxUtilization: ptr(0.68)}
	templates := []string{
		"Utilization {max_utilization} with balance {max_card_balance}.",
		"Utilization has reached {max_utilization}.",
	}

	got, ok := bindFirst(templates, sig)
	assert.True(t, ok)
	assert.Equal(t, "Utilization has reached 68%.", got)
}

func TestBindFirstAllFail(t *testing.T) {
	_, ok := bindFirst([]string{"{max_card_balance}", "{median_pay_gap_days}"}, &model.SignalSet{})
	assert.False(t, ok)
}

func TestCitesNumber(t *testing.T) {
	assert.True(t, citesNumber("Pay down the $3,400 balance."))
	assert.True(t, citesNumber("68% utilization"))
	assert.False(t, citesNumber("Pay down your balance soon."))
	assert.False(t, citesNumber(""))
}

func TestHasPlaceholderArtifact(t *testing.T) {
	assert.True(t, hasPlaceholderArtifact("Your balance is {max_card_balance}."))
	assert.False(t, hasPlaceholderArtifact("Your balance is $3,400."))
	assert.False(t, hasPlaceholderArtifact("JSON braces {\"ok\": true} do not count"))
}
