package analytics

import (
	"fmt"
	"sort"
	"time"
)

const maxWarnings = 30

// behaviorScan is the accumulator of the behavioral-warning fold. prev and
// prev2 are the one- and two-back trades in chronological order.
type behaviorScan struct {
	prev, prev2 *Trade
	gap         time.Duration
	warnings    []string
	seen        map[string]bool
	overtrading int
}

func (s *behaviorScan) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if s.seen[msg] {
		return
	}
	s.seen[msg] = true
	s.warnings = append(s.warnings, msg)
}

func tradeLabel(t Trade, i int) string {
	if t.ID != "" {
		return t.ID
	}
	return fmt.Sprintf("#%d", i+1)
}

// tradeEnd is the recorded exit time, else the entry time. Neither is
// reported for an undated trade.
func tradeEnd(t Trade) (time.Time, bool) {
	if !t.ExitTime.IsZero() {
		return t.ExitTime, true
	}
	return t.EntryTime, !t.EntryTime.IsZero()
}

func stepBehavior(s behaviorScan, i int, t Trade) behaviorScan {
	if p := s.prev; p != nil && p.IsLoss() {
		label := tradeLabel(t, i)
		if cur, ok := finite(t.RiskPercent); ok {
			if before, ok := finite(p.RiskPercent); ok && cur > before {
				s.warn("Risk increased after a loss on trade %s: %.2f%% -> %.2f%%", label, before, cur)
			}
		}
		if cur, ok := finite(t.ChecklistPercent); ok {
			if before, ok := finite(p.ChecklistPercent); ok && cur < before {
				s.warn("Checklist completion dropped after a loss on trade %s: %.0f%% -> %.0f%%", label, before, cur)
			}
		}
		if cur, ok := finite(t.Quantity); ok {
			if before, ok := finite(p.Quantity); ok && cur > before {
				s.warn("Position size increased after a loss on trade %s: %g -> %g", label, before, cur)
			}
		}
		end, dated := tradeEnd(*p)
		if pp := s.prev2; pp != nil && pp.IsLoss() && dated && !t.EntryTime.IsZero() {
			gap := t.EntryTime.Sub(end)
			if gap >= 0 && gap < s.gap {
				s.overtrading++
				s.warn("Possible overtrading on trade %s: entered %s after two consecutive losses", label, gap.Round(time.Second))
			}
		}
	}
	cur := t
	s.prev2, s.prev = s.prev, &cur
	return s
}

// scanBehavior compares each trade with its predecessors. trades must be in
// chronological order. The returned warnings are deduplicated and capped;
// the overtrading count is not.
func scanBehavior(trades []Trade, gap time.Duration) ([]string, int) {
	s := foldl(trades, behaviorScan{gap: gap, seen: map[string]bool{}}, stepBehavior)
	if len(s.warnings) > maxWarnings {
		s.warnings = s.warnings[:maxWarnings]
	}
	if s.warnings == nil {
		s.warnings = []string{}
	}
	return s.warnings, s.overtrading
}

// streakScan tracks consecutive wins and losses.
type streakScan struct {
	lossRun, winRun int
	loss, win       map[string]int
	// lossPairs counts streaks that reached two consecutive losses.
	lossPairs int
	// afterTwoWins holds the Outcome-R of trades that directly follow two wins.
	afterTwoWins []float64
}

func stepStreak(s streakScan, _ int, t Trade) streakScan {
	if s.winRun >= 2 {
		if r, ok := OutcomeR(t); ok {
			s.afterTwoWins = append(s.afterTwoWins, r)
		}
	}

	switch {
	case t.IsLoss():
		s.lossRun++
		s.winRun = 0
	case t.IsWin():
		s.winRun++
		s.lossRun = 0
	default:
		s.lossRun, s.winRun = 0, 0
	}

	if s.lossRun == 2 {
		s.lossPairs++
	}
	tally := func(m map[string]int) {
		for _, e := range uniqueTags(t.Emotions) {
			m[e]++
		}
	}
	if s.lossRun >= 2 {
		tally(s.loss)
	}
	if s.winRun >= 2 {
		tally(s.win)
	}
	return s
}

func scanStreaks(trades []Trade) streakScan {
	return foldl(trades, streakScan{loss: map[string]int{}, win: map[string]int{}}, stepStreak)
}

func uniqueTags(tags []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, e := range tags {
		e = normalizeTag(e)
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}

func tallies(m map[string]int) []EmotionTally {
	out := make([]EmotionTally, 0, len(m))
	for e, n := range m {
		out = append(out, EmotionTally{Emotion: e, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Emotion < out[j].Emotion
	})
	return out
}

func totalTally(ts []EmotionTally) int {
	n := 0
	for _, t := range ts {
		n += t.Count
	}
	return n
}
