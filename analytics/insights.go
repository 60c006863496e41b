package analytics

import "fmt"

const maxInsights = 8

// GenerateInsights turns a computed Result into short observations. Rules
// fire in a fixed order and the list is cut at eight; order is not severity.
// trades must be the chronological set res was built from, and are read only
// for the streak rules.
func GenerateInsights(res *Result, trades []Trade) []string {
	out := []string{}
	add := func(format string, args ...any) {
		if len(out) < maxInsights {
			out = append(out, fmt.Sprintf(format, args...))
		}
	}

	streaks := scanStreaks(trades)

	if base := res.Summary.Expectancy; base != nil {
		if after, ok := Expectancy(streaks.afterTwoWins); ok && after < *base {
			add("Expectancy after two consecutive wins is %+.2fR versus a %+.2fR baseline; watch for overconfidence.", after, *base)
		}
	}

	rb := res.RiskBehavior
	if rb.AfterLossRiskPct != nil && rb.AfterWinRiskPct != nil && *rb.AfterLossRiskPct > *rb.AfterWinRiskPct {
		add("You risk more after losses (%.2f%%) than after wins (%.2f%%).", *rb.AfterLossRiskPct, *rb.AfterWinRiskPct)
	}

	high, hok := bandExpectancy(res.Adherence, BandHigh)
	low, lok := bandExpectancy(res.Adherence, BandLow)
	if hok && lok && high > low {
		add("Checklist adherence pays: trades at 90%%+ checklist completion average %+.2fR versus %+.2fR below 70%%.", high, low)
	}

	for _, e := range res.Emotions {
		if e.Expectancy != nil && *e.Expectancy < 0 {
			add("Trades tagged %q have negative expectancy (%+.2fR over %d trades).", e.Key, *e.Expectancy, e.Trades)
		}
	}

	if streaks.lossPairs >= 2 {
		add("Back-to-back losses happened %d times; consider a pause rule after two losses in a row.", streaks.lossPairs)
	}

	return out
}
