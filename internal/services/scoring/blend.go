package scoring

import (
	"strings"

	"github.com/atlascap/maradar/internal/common"
	"github.com/atlascap/maradar/internal/models"
)

// Blend weighting: the oracle's self-reported relevance carries 70% of the
// final score, the origination grid at most 30 points.
const (
	oracleWeightNum = 7
	oracleWeightDen = 10
	maxGridBonus    = 30
	bonusDivisor    = 3
)

// FinalScore combines the oracle relevance score with the rule-weight grid
// and the urgency bonus into the final 0-100 integer score.
//
// The grid bonus scans the weight table once per identified tag, in the
// table's declared order, and adds the first entry whose key (underscores
// normalized to spaces) appears in the joined lower-cased tag list; the scan
// stops at that entry for the pass. At most one grid entry contributes per
// pass, so the bonus grows with the tag count, not with the number of
// distinct matching rules. This mirrors the historical scoring behavior;
// changing it would shift scores on live data.
func FinalScore(cfg common.ScoringConfig, oracleScore int, tags []string, urgency models.Urgency) int {
	bonus := ruleBonus(cfg.Weights, tags)
	bonusNormalized := bonus / bonusDivisor
	if bonusNormalized > maxGridBonus {
		bonusNormalized = maxGridBonus
	}

	final := (oracleScore*oracleWeightNum)/oracleWeightDen + bonusNormalized

	switch urgency {
	case models.UrgencyCritique:
		final += 10
		if final > 100 {
			final = 100
		}
	case models.UrgencyFort:
		final += 5
		if final > 100 {
			final = 100
		}
	}

	if final > 100 {
		final = 100
	}
	if final < 0 {
		final = 0
	}
	return final
}

// ruleBonus accumulates grid points for the identified tags.
func ruleBonus(weights []common.ScoringWeight, tags []string) int {
	if len(tags) == 0 {
		return 0
	}

	joined := strings.ToLower(strings.Join(tags, " "))
	joined = strings.ReplaceAll(joined, "_", " ")

	bonus := 0
	for range tags {
		for _, w := range weights {
			needle := strings.ToLower(strings.ReplaceAll(w.Key, "_", " "))
			if strings.Contains(joined, needle) {
				bonus += w.Points
				break
			}
		}
	}
	return bonus
}

// TierFor assigns the alert tier for a final score. It is a pure function of
// the score against the configured thresholds, evaluated highest first.
func TierFor(cfg common.ScoringConfig, score int) models.AlertTier {
	switch {
	case score >= cfg.SeuilCritique:
		return models.TierCritique
	case score >= cfg.SeuilVigilance:
		return models.TierVigilance
	case score >= cfg.SeuilRadar:
		return models.TierRadar
	default:
		return models.TierFaible
	}
}
