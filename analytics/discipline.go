package analytics

import (
	"math"
	"time"
)

const (
	BandHigh   = "high"
	BandMedium = "medium"
	BandLow    = "low"
)

func checklistBand(t Trade) (string, bool) {
	v, ok := finite(t.ChecklistPercent)
	if !ok {
		return "", false
	}
	switch {
	case v >= 90:
		return BandHigh, true
	case v >= 70:
		return BandMedium, true
	default:
		return BandLow, true
	}
}

// adherenceImpact buckets trades by checklist completion. All three bands are
// always present, in high, medium, low order; trades with no checklist value
// are left out.
func adherenceImpact(trades []Trade) []AdherenceBucket {
	bands := []string{BandHigh, BandMedium, BandLow}
	members := map[string][]Trade{}
	for _, t := range trades {
		if b, ok := checklistBand(t); ok {
			members[b] = append(members[b], t)
		}
	}

	out := make([]AdherenceBucket, len(bands))
	for i, b := range bands {
		rs := outcomes(members[b])
		out[i] = AdherenceBucket{
			Band:       b,
			Trades:     len(members[b]),
			RTrades:    len(rs),
			Expectancy: optional(Expectancy(rs)),
			WinRate:    WinRate(rs),
		}
	}
	return out
}

func bandExpectancy(buckets []AdherenceBucket, band string) (float64, bool) {
	for _, b := range buckets {
		if b.Band == band && b.Expectancy != nil {
			return *b.Expectancy, true
		}
	}
	return 0, false
}

// disciplineInputs are the already-computed signals the score blends.
type disciplineInputs struct {
	trades      int
	risk        RiskBehavior
	adherence   []AdherenceBucket
	lossTallies int
	overtrading int
}

const neutralComponent = 50.0

// disciplineScore blends risk consistency (35%), checklist payoff (35%) and
// emotional stability (30%), then subtracts up to 30 points for overtrading.
func disciplineScore(in disciplineInputs) (DisciplineComponents, float64) {
	c := DisciplineComponents{
		RiskConsistency:    neutralComponent,
		Adherence:          neutralComponent,
		EmotionalStability: 100,
	}
	if in.risk.ConsistencyScore != nil {
		c.RiskConsistency = *in.risk.ConsistencyScore
	}

	high, hok := bandExpectancy(in.adherence, BandHigh)
	low, lok := bandExpectancy(in.adherence, BandLow)
	if hok && lok {
		// One R of payoff between the bands spans the whole scale.
		c.Adherence = clamp(neutralComponent+50*(high-low), 0, 100)
	}

	if in.trades > 0 {
		ratio := math.Min(1, float64(in.lossTallies)/float64(in.trades))
		c.EmotionalStability = 100 * (1 - ratio)
	}
	c.OvertradingPenalty = math.Min(30, 10*float64(in.overtrading))

	score := 0.35*c.RiskConsistency + 0.35*c.Adherence + 0.30*c.EmotionalStability - c.OvertradingPenalty
	return c, clamp(score, 0, 100)
}

// disciplineOf computes the score from scratch for a chronological window.
func disciplineOf(trades []Trade, gap time.Duration) float64 {
	_, overtrading := scanBehavior(trades, gap)
	_, score := disciplineScore(disciplineInputs{
		trades:      len(trades),
		risk:        riskBehavior(trades),
		adherence:   adherenceImpact(trades),
		lossTallies: totalTally(tallies(scanStreaks(trades).loss)),
		overtrading: overtrading,
	})
	return score
}
