package analytics

// mindsetScores rates emotion tags by mindset quality, 5 best to 1 worst.
// Tags not listed score neutralMindset.
var mindsetScores = map[string]float64{
	"calm":        5,
	"confident":   5,
	"focused":     5,
	"disciplined": 5,
	"patient":     5,
	"hopeful":     4,
	"neutral":     3,
	"excited":     3,
	"bored":       2,
	"anxious":     2,
	"impatient":   2,
	"frustrated":  2,
	"greedy":      1,
	"fearful":     1,
	"fomo":        1,
	"revenge":     1,
	"angry":       1,
}

const neutralMindset = 3

// MindsetScore averages the mindset quality of a trade's emotion tags.
func MindsetScore(emotions []string) (float64, bool) {
	var scores []float64
	for _, e := range emotions {
		e = normalizeTag(e)
		if e == "" {
			continue
		}
		s, ok := mindsetScores[e]
		if !ok {
			s = neutralMindset
		}
		scores = append(scores, s)
	}
	return Expectancy(scores)
}

// correlate pairs x(t) with Outcome-R, dropping any trade where either side
// is absent.
func correlate(trades []Trade, x func(Trade) (float64, bool)) Correlation {
	var xs, ys []float64
	for _, t := range trades {
		r, ok := OutcomeR(t)
		if !ok {
			continue
		}
		v, ok := x(t)
		if !ok {
			continue
		}
		xs = append(xs, v)
		ys = append(ys, r)
	}
	c, ok := PearsonCorrelation(xs, ys)
	return Correlation{Coefficient: optional(c, ok), Pairs: len(xs)}
}

func correlations(trades []Trade) Correlations {
	return Correlations{
		ConfidenceR: correlate(trades, func(t Trade) (float64, bool) { return finite(t.Confidence) }),
		ExecutionR:  correlate(trades, func(t Trade) (float64, bool) { return finite(t.Execution) }),
		ChecklistR:  correlate(trades, func(t Trade) (float64, bool) { return finite(t.ChecklistPercent) }),
		EmotionR:    correlate(trades, func(t Trade) (float64, bool) { return MindsetScore(t.Emotions) }),
	}
}
