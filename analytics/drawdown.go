package analytics

// drawdownWalk is the accumulator for the drawdown fold over an R sequence.
// The curve starts flat at 0R, so a losing first trade opens an episode.
type drawdownWalk struct {
	equity, peak float64
	maxDD        float64

	underwater  bool
	depth       float64 // deepest point of the open episode
	duration    int     // steps spent in the open episode
	sinceTrough int

	depths     []float64
	recoveries []float64
	longest    int
	stepsUnder int
	points     []DrawdownPoint
}

func (w *drawdownWalk) closeEpisode() {
	w.depths = append(w.depths, w.depth)
	if w.duration > w.longest {
		w.longest = w.duration
	}
	w.underwater, w.depth, w.duration, w.sinceTrough = false, 0, 0, 0
}

func stepDrawdown(w drawdownWalk, i int, r float64) drawdownWalk {
	w.equity += r
	if w.equity >= w.peak {
		if w.underwater {
			w.recoveries = append(w.recoveries, float64(w.sinceTrough+1))
			w.closeEpisode()
		}
		w.peak = w.equity
	} else {
		w.underwater = true
		w.duration++
		w.stepsUnder++
		dd := w.peak - w.equity
		if dd > w.depth {
			w.depth = dd
			w.sinceTrough = 0
		} else {
			w.sinceTrough++
		}
		if dd > w.maxDD {
			w.maxDD = dd
		}
	}
	w.points = append(w.points, DrawdownPoint{Index: i, DrawdownR: round(w.peak-w.equity, 6)})
	return w
}

// drawdownReport walks the chronological Outcome-R sequence.
func drawdownReport(rs []float64) DrawdownReport {
	w := foldl(rs, drawdownWalk{points: make([]DrawdownPoint, 0, len(rs))}, stepDrawdown)
	current := w.peak - w.equity
	if w.underwater {
		w.closeEpisode()
	}

	rep := DrawdownReport{
		MaxDrawdownR:          round(w.maxDD, 6),
		CurrentDrawdownR:      round(current, 6),
		Episodes:              len(w.depths),
		LongestDurationTrades: w.longest,
		AverageRecoveryTrades: optional(Expectancy(w.recoveries)),
		Points:                w.points,
	}
	if avg, ok := Expectancy(w.depths); ok {
		rep.AverageDrawdownR = round(avg, 6)
	}
	if len(rs) > 0 {
		rep.FrequencyPct = float64(w.stepsUnder) / float64(len(rs)) * 100
	}
	return rep
}
