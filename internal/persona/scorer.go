package persona

import (
	"sort"

	"github.com/mintwell/mintwell/internal/model"
)

// Scorer evaluates the persona definitions against SignalSets. The
// definitions are fixed at construction; one Scorer may be shared across
// concurrent runs.
type Scorer struct {
	definitions []Definition
}

// NewScorer creates a scorer over the standard five persona definitions.
func NewScorer() *Scorer {
	return &Scorer{definitions: Definitions()}
}

// Assign evaluates every criterion of every persona against the SignalSet and
// returns the normalized distribution. Every criterion result is recorded,
// pass or fail, so the decision trace can show the full evaluation. A
// SignalSet matching nothing resolves to Balanced/Stable at 100%.
func (s *Scorer) Assign(sig *model.SignalSet) model.PersonaDistribution {
	matches := make([]model.PersonaMatch, 0, len(s.definitions))
	totalScore := 0

	for _, def := range s.definitions {
		match := model.PersonaMatch{
			Persona:    def.ID,
			TotalCount: len(def.Criteria),
			Criteria:   make([]model.CriterionResult, 0, len(def.Criteria)),
		}
		for _, crit := range def.Criteria {
			satisfied := crit.Test(sig)
			match.Criteria = append(match.Criteria, model.CriterionResult{
				Name:      crit.Name,
				Satisfied: satisfied,
				Reason:    crit.Reason(sig),
			})
			if satisfied {
				match.MatchedCount++
			}
		}
		match.Score = match.MatchedCount * def.Points
		totalScore += match.Score
		matches = append(matches, match)
	}

	dist := model.PersonaDistribution{
		Matches:         matches,
		TotalRiskPoints: totalScore,
		Risk:            riskLevel(totalScore),
	}

	if totalScore == 0 {
		// Nothing matched: default to Balanced/Stable at 100% so callers
		// never see an empty distribution.
		for i := range dist.Matches {
			if dist.Matches[i].Persona == model.PersonaBalancedStable {
				dist.Matches[i].ContributionPct = 100
			}
		}
		dist.Primary = model.PersonaBalancedStable
		return dist
	}

	normalize(dist.Matches, totalScore)
	dist.Primary, dist.Secondary = topTwo(dist.Matches)
	return dist
}

// normalize converts raw scores into contribution percentages that sum to
// exactly 100, using largest-remainder allocation. Remainder ties go to the
// higher-priority persona.
func normalize(matches []model.PersonaMatch, totalScore int) {
	type share struct {
		index     int
		remainder float64
	}

	allocated := 0
	shares := make([]share, 0, len(matches))
	for i := range matches {
		if matches[i].Score == 0 {
			continue
		}
		exact := float64(matches[i].Score) / float64(totalScore) * 100
		floor := int(exact)
		matches[i].ContributionPct = floor
		allocated += floor
		shares = append(shares, share{index: i, remainder: exact - float64(floor)})
	}

	sort.SliceStable(shares, func(a, b int) bool {
		if shares[a].remainder != shares[b].remainder {
			return shares[a].remainder > shares[b].remainder
		}
		return model.PersonaPriority(matches[shares[a].index].Persona) <
			model.PersonaPriority(matches[shares[b].index].Persona)
	})

	for i := 0; allocated < 100 && i < len(shares); i++ {
		matches[shares[i].index].ContributionPct++
		allocated++
	}
}

// topTwo returns the primary and secondary personas by contribution
// percentage, breaking exact ties by the fixed priority order.
func topTwo(matches []model.PersonaMatch) (primary, secondary model.PersonaID) {
	ranked := make([]model.PersonaMatch, 0, len(matches))
	for _, m := range matches {
		if m.ContributionPct > 0 {
			ranked = append(ranked, m)
		}
	}

	sort.SliceStable(ranked, func(a, b int) bool {
		if ranked[a].ContributionPct != ranked[b].ContributionPct {
			return ranked[a].ContributionPct > ranked[b].ContributionPct
		}
		return model.PersonaPriority(ranked[a].Persona) < model.PersonaPriority(ranked[b].Persona)
	})

	if len(ranked) > 0 {
		primary = ranked[0].Persona
	}
	if len(ranked) > 1 {
		secondary = ranked[1].Persona
	}
	return primary, secondary
}
