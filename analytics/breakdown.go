package analytics

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// member is one (group key, trade) pair. Grouping goes through an explicit
// expansion step so that a trade may belong to several groups at once.
type member struct {
	key   string
	trade Trade
}

type group struct {
	key    string
	trades []Trade
}

// groupMembers collects members by key, keeping the order in which keys
// first appear and the trade order within each key.
func groupMembers(members []member) []group {
	index := map[string]int{}
	var groups []group
	for _, m := range members {
		i, ok := index[m.key]
		if !ok {
			i = len(groups)
			index[m.key] = i
			groups = append(groups, group{key: m.key})
		}
		groups[i].trades = append(groups[i].trades, m.trade)
	}
	return groups
}

func normalizeTag(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// expandEmotions flattens trades into one member per distinct emotion tag.
// Per-emotion counts can therefore add up to more than the trade count.
func expandEmotions(trades []Trade) []member {
	var out []member
	for _, t := range trades {
		seen := map[string]bool{}
		for _, e := range t.Emotions {
			e = normalizeTag(e)
			if e == "" || seen[e] {
				continue
			}
			seen[e] = true
			out = append(out, member{key: e, trade: t})
		}
	}
	return out
}

func groupStats(key string, trades []Trade) GroupStats {
	rs := outcomes(trades)
	exp, ok := Expectancy(rs)
	pf, pfok := ProfitFactorFrom(rs)
	return GroupStats{
		Key:          key,
		Trades:       len(trades),
		RTrades:      len(rs),
		WinRate:      WinRate(rs),
		AverageR:     optional(exp, ok),
		Expectancy:   optional(exp, ok),
		TotalR:       round(sum(rs), 6),
		ProfitFactor: optionalFactor(pf, pfok),
		MaxDrawdownR: maxDrawdownR(rs),
	}
}

func statsFor(groups []group) []GroupStats {
	out := make([]GroupStats, len(groups))
	for i, g := range groups {
		out[i] = groupStats(g.key, g.trades)
	}
	return out
}

// emotionPerformance is the emotion matrix, sorted by tag.
func emotionPerformance(trades []Trade) []GroupStats {
	groups := groupMembers(expandEmotions(trades))
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].key < groups[j].key })
	return statsFor(groups)
}

func reliabilityFor(n int) Reliability {
	switch {
	case n < 20:
		return ReliabilityLow
	case n <= 50:
		return ReliabilityMedium
	default:
		return ReliabilityHigh
	}
}

func setupGroups(trades []Trade) []group {
	var members []member
	for _, t := range trades {
		if s := strings.TrimSpace(t.Setup); s != "" {
			members = append(members, member{key: s, trade: t})
		}
	}
	groups := groupMembers(members)
	sort.SliceStable(groups, func(i, j int) bool {
		if len(groups[i].trades) != len(groups[j].trades) {
			return len(groups[i].trades) > len(groups[j].trades)
		}
		return groups[i].key < groups[j].key
	})
	return groups
}

// setupPerformance ranks setups by trade count and labels each with a
// sample-size reliability.
func setupPerformance(trades []Trade) []SetupStats {
	groups := setupGroups(trades)
	out := make([]SetupStats, len(groups))
	for i, g := range groups {
		out[i] = SetupStats{
			GroupStats:  groupStats(g.key, g.trades),
			Reliability: reliabilityFor(len(g.trades)),
		}
	}
	return out
}

// orderedGroups groups trades by an integer ordinal and returns the groups in
// ascending ordinal order. Trades for which ord reports false are skipped.
func orderedGroups(trades []Trade, ord func(Trade) (int, bool), label func(int) string) []GroupStats {
	buckets := map[int][]Trade{}
	for _, t := range trades {
		if k, ok := ord(t); ok {
			buckets[k] = append(buckets[k], t)
		}
	}
	keys := make([]int, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	out := make([]GroupStats, 0, len(keys))
	for _, k := range keys {
		out = append(out, groupStats(label(k), buckets[k]))
	}
	return out
}

func timeBreakdowns(trades []Trade) TimeBreakdowns {
	sessionIndex := map[Session]int{}
	for i, s := range Sessions {
		sessionIndex[s] = i
	}

	return TimeBreakdowns{
		Session: orderedGroups(trades,
			func(t Trade) (int, bool) {
				i, ok := sessionIndex[ParseSession(string(t.Session))]
				return i, ok
			},
			func(i int) string { return string(Sessions[i]) }),
		Hour: orderedGroups(trades,
			func(t Trade) (int, bool) {
				when, ok := recordedDate(t)
				return when.Hour(), ok
			},
			strconv.Itoa),
		// Monday first.
		DayOfWeek: orderedGroups(trades,
			func(t Trade) (int, bool) {
				when, ok := recordedDate(t)
				return (int(when.Weekday()) + 6) % 7, ok
			},
			func(i int) string { return time.Weekday((i + 1) % 7).String() }),
		TradeNumber: orderedGroups(trades,
			func(t Trade) (int, bool) {
				if t.TradeNumber == nil {
					return 0, false
				}
				return *t.TradeNumber, true
			},
			strconv.Itoa),
	}
}

func isAGrade(t Trade) bool {
	return strings.EqualFold(strings.TrimSpace(t.Grade), "A")
}

func highChecklist(t Trade) bool {
	v, ok := finite(t.ChecklistPercent)
	return ok && v >= 90
}

func selectTrades(trades []Trade, keep func(Trade) bool) []Trade {
	var out []Trade
	for _, t := range trades {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

func namedCurves(groups []group, initialBalance float64) []NamedCurve {
	out := make([]NamedCurve, len(groups))
	for i, g := range groups {
		out[i] = NamedCurve{
			Name:   g.key,
			Trades: len(g.trades),
			Points: BuildEquityCurve(g.trades, initialBalance),
		}
	}
	return out
}

// equityComparisons builds overlayable curves for head-to-head comparison.
func equityComparisons(trades []Trade, initialBalance float64) EquityComparison {
	emotions := groupMembers(expandEmotions(trades))
	sort.SliceStable(emotions, func(i, j int) bool { return emotions[i].key < emotions[j].key })

	return EquityComparison{
		All:           BuildEquityCurve(trades, initialBalance),
		AGrade:        BuildEquityCurve(selectTrades(trades, isAGrade), initialBalance),
		HighChecklist: BuildEquityCurve(selectTrades(trades, highChecklist), initialBalance),
		BySetup:       namedCurves(setupGroups(trades), initialBalance),
		ByEmotion:     namedCurves(emotions, initialBalance),
	}
}
