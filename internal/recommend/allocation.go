package recommend

import (
	"sort"

	"github.com/mintwell/mintwell/internal/model"
)

// Personas below this contribution percentage get no recommendation slots.
const materialityThresholdPct = 10

// materialPersonas filters a distribution down to the personas above the
// materiality threshold, ordered by contribution descending with exact ties
// broken by the fixed priority order.
func materialPersonas(dist model.PersonaDistribution) []model.PersonaMatch {
	var out []model.PersonaMatch
	for _, m := range dist.Matches {
		if m.ContributionPct >= materialityThresholdPct {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].ContributionPct != out[b].ContributionPct {
			return out[a].ContributionPct > out[b].ContributionPct
		}
		return model.PersonaPriority(out[a].Persona) < model.PersonaPriority(out[b].Persona)
	})
	return out
}

// allocateSlots spreads slot counts across material personas proportionally
// to contribution percentage. Every persona present gets at least one slot
// when slots allow; leftovers go by largest remainder with allocation ties
// favoring higher-priority personas (the input order encodes that already).
func allocateSlots(slots int, personas []model.PersonaMatch) []int {
	counts := make([]int, len(personas))
	if slots <= 0 || len(personas) == 0 {
		return counts
	}

	// More personas than slots: the top personas get one slot each.
	if len(personas) >= slots {
		for i := 0; i < slots; i++ {
			counts[i] = 1
		}
		return counts
	}

	totalPct := 0
	for _, p := range personas {
		totalPct += p.ContributionPct
	}
	if totalPct == 0 {
		counts[0] = slots
		return counts
	}

	type remainder struct {
		index int
		frac  float64
	}

	allocated := 0
	remainders := make([]remainder, 0, len(personas))
	for i, p := range personas {
		exact := float64(slots) * float64(p.ContributionPct) / float64(totalPct)
		counts[i] = int(exact)
		if counts[i] == 0 {
			counts[i] = 1 // materiality floor
		}
		allocated += counts[i]
		remainders = append(remainders, remainder{index: i, frac: exact - float64(int(exact))})
	}

	// The materiality floor can over-allocate; trim from the
	// lowest-contribution persona upward, never below one slot.
	for allocated > slots {
		trimmed := false
		for i := len(counts) - 1; i >= 0; i-- {
			if counts[i] > 1 {
				counts[i]--
				allocated--
				trimmed = true
				break
			}
		}
		if !trimmed {
			break
		}
	}

	sort.SliceStable(remainders, func(a, b int) bool {
		return remainders[a].frac > remainders[b].frac
	})
	for i := 0; allocated < slots && i < len(remainders); i++ {
		counts[remainders[i].index]++
		allocated++
	}

	return counts
}
