package recommend

import (
	"testing"

	"github.com/mintwell/mintwell/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func match(id model.PersonaID, pct int) model.PersonaMatch {
	return model.PersonaMatch{Persona: id, ContributionPct: pct, Score: pct}
}

func TestMaterialPersonas(t *testing.T) {
	dist := model.PersonaDistribution{
		Matches: []model.PersonaMatch{
			match(model.PersonaHighUtilization, 8),
			match(model.PersonaVariableIncome, 46),
			match(model.PersonaSubscriptionHeavy, 46),
			match(model.PersonaSavingsBuilder, 0),
			match(model.PersonaBalancedStable, 0),
		},
	}

	out := materialPersonas(dist)
	require.Len(t, out, 2, "personas below 10%% must be dropped")

	// Equal contributions order by the fixed priority.
	assert.Equal(t, model.PersonaVariableIncome, out[0].Persona)
	assert.Equal(t, model.PersonaSubscriptionHeavy, out[1].Persona)
}

func TestMaterialPersonasOrdersByContribution(t *testing.T) {
	dist := model.PersonaDistribution{
		Matches: []model.PersonaMatch{
			match(model.PersonaHighUtilization, 20),
			match(model.PersonaSubscriptionHeavy, 70),
			match(model.PersonaBalancedStable, 10),
		},
	}

	out := materialPersonas(dist)
	require.Len(t, out, 3)
	assert.Equal(t, model.PersonaSubscriptionHeavy, out[0].Persona)
	assert.Equal(t, model.PersonaHighUtilization, out[1].Persona)
	assert.Equal(t, model.PersonaBalancedStable, out[2].Persona)
}

func TestAllocateSlots(t *testing.T) {
	tests := []struct {
		name     string
		slots    int
		personas []model.PersonaMatch
		want     []int
	}{
		{
			name:     "no slots",
			slots:    0,
			personas: []model.PersonaMatch{match(model.PersonaHighUtilization, 100)},
			want:     []int{0},
		},
		{
			name:     "no personas",
			slots:    3,
			personas: nil,
			want:     []int{},
		},
		{
			name:     "single persona takes everything",
			slots:    5,
			personas: []model.PersonaMatch{match(model.PersonaHighUtilization, 100)},
			want:     []int{5},
		},
		{
			name:  "more personas than slots",
			slots: 3,
			personas: []model.PersonaMatch{
				match(model.PersonaHighUtilization, 40),
				match(model.PersonaVariableIncome, 30),
				match(model.PersonaSubscriptionHeavy, 20),
				match(model.PersonaSavingsBuilder, 10),
			},
			want: []int{1, 1, 1, 0},
		},
		{
			name:  "proportional with materiality floor",
			slots: 5,
			personas: []model.PersonaMatch{
				match(model.PersonaHighUtilization, 60),
				match(model.PersonaVariableIncome, 25),
				match(model.PersonaSubscriptionHeavy, 15),
			},
			want: []int{3, 1, 1},
		},
		{
			name:  "largest remainder breaks the split",
			slots: 5,
			personas: []model.PersonaMatch{
				match(model.PersonaHighUtilization, 55),
				match(model.PersonaVariableIncome, 45),
			},
			want: []int{3, 2},
		},
		{
			name:  "floor over-allocation trims from the top",
			slots: 4,
			personas: []model.PersonaMatch{
				match(model.PersonaHighUtilization, 50),
				match(model.PersonaVariableIncome, 25),
				match(model.PersonaSubscriptionHeavy, 15),
				match(model.PersonaSavingsBuilder, 10),
			},
			want: []int{1, 1, 1, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := allocateSlots(tt.slots, tt.personas)
			assert.Equal(t, tt.want, got)

			total := 0
			for _, n := range got {
				total += n
			}
			assert.LessOrEqual(t, total, max(tt.slots, 0))
		})
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
