package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(trades []Trade) []string {
	out := make([]string, len(trades))
	for i, t := range trades {
		out[i] = t.ID
	}
	return out
}

func journalSample() []Trade {
	a := rTrade("a", 0, 2)
	a.Emotions = []string{"Calm", "confident"}
	a.Setup = "breakout"
	a.Session = SessionLondon
	a.ChecklistPercent = Float(95)
	a.Confidence = Float(8)
	a.RiskPercent = Float(1)

	b := rTrade("b", 1, -1)
	b.Emotions = []string{"fomo"}
	b.Setup = "pullback"
	b.Session = SessionNewYork
	b.ChecklistPercent = Float(60)
	b.RiskPercent = Float(2)

	c := rTrade("c", 2, 0)
	c.Setup = "breakout"
	c.Session = SessionAsia
	c.TradeNumber = Int(2)

	d := Trade{ID: "d", EntryTime: base.Add(3 * time.Hour), PnL: Float(-20)}

	return []Trade{a, b, c, d}
}

func TestApplyFiltersNilSpecCopies(t *testing.T) {
	t.Parallel()

	in := journalSample()
	out := ApplyFilters(in, nil)
	assert.Equal(t, ids(in), ids(out))

	out[0].ID = "changed"
	assert.Equal(t, "a", in[0].ID)
}

func TestApplyFilters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		spec FilterSpec
		want []string
	}{
		{"empty spec", FilterSpec{}, []string{"a", "b", "c", "d"}},
		{"r range inclusive", FilterSpec{R: Between(-1, 0)}, []string{"b", "c"}},
		{"r min only excludes absent r", FilterSpec{R: &Range{Min: Float(-5)}}, []string{"a", "b", "c"}},
		{"checklist range excludes missing", FilterSpec{Checklist: Between(90, 100)}, []string{"a"}},
		{"confidence", FilterSpec{Confidence: &Range{Min: Float(5)}}, []string{"a"}},
		{"risk percent", FilterSpec{RiskPercent: &Range{Max: Float(1.5)}}, []string{"a"}},
		{"trade number", FilterSpec{TradeNumber: Between(2, 2)}, []string{"c"}},
		{"duration", FilterSpec{DurationMinutes: Between(0, 45)}, []string{"a", "b", "c"}},
		{"emotion any tag, case insensitive", FilterSpec{Emotions: []string{"CONFIDENT"}}, []string{"a"}},
		{"setup set", FilterSpec{Setups: []string{"breakout"}}, []string{"a", "c"}},
		{"session set", FilterSpec{Sessions: []Session{SessionAsia, SessionNewYork}}, []string{"b", "c"}},
		{"symbol set", FilterSpec{Symbols: []string{"eur_usd"}}, []string{"a", "b", "c"}},
		{"wins", FilterSpec{Outcome: OutcomeWin}, []string{"a"}},
		{"losses fall back to pnl", FilterSpec{Outcome: OutcomeLoss}, []string{"b", "d"}},
		{"breakeven", FilterSpec{Outcome: OutcomeBreakeven}, []string{"c"}},
		{"date window", FilterSpec{From: base.Add(time.Hour), To: base.Add(2 * time.Hour)}, []string{"b", "c"}},
		{"and across dimensions", FilterSpec{Setups: []string{"breakout"}, Outcome: OutcomeWin}, []string{"a"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			spec := tt.spec
			got := ApplyFilters(journalSample(), &spec)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestResolvePercentiles(t *testing.T) {
	t.Parallel()

	trades := rTrades(-2, -1, 0, 1, 2)
	spec := ResolvePercentiles(trades, &FilterSpec{RPercentile: Between(25, 75)})

	require.NotNil(t, spec.R)
	assert.Nil(t, spec.RPercentile)
	assert.InDelta(t, -1.0, *spec.R.Min, 1e-12)
	assert.InDelta(t, 1.0, *spec.R.Max, 1e-12)

	got := ApplyFilters(trades, spec)
	assert.Equal(t, []string{"b", "c", "d"}, ids(got))

	// Unresolved percentiles match nothing.
	assert.Empty(t, ApplyFilters(trades, &FilterSpec{RPercentile: Between(25, 75)}))

	// An explicit R range that is tighter wins.
	spec = ResolvePercentiles(trades, &FilterSpec{R: &Range{Max: Float(0)}, RPercentile: Between(0, 75)})
	assert.InDelta(t, 0.0, *spec.R.Max, 1e-12)
	assert.InDelta(t, -2.0, *spec.R.Min, 1e-12)

	// Without any R the percentile constraint excludes everything.
	noR := []Trade{{ID: "x", PnL: Float(10)}}
	assert.Empty(t, ApplyFilters(noR, ResolvePercentiles(noR, &FilterSpec{RPercentile: Between(0, 100)})))
}

func TestApplyFiltersPercentileIdempotent(t *testing.T) {
	t.Parallel()

	trades := rTrades(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	spec := ResolvePercentiles(trades, &FilterSpec{RPercentile: Between(0, 50)})

	once := ApplyFilters(trades, spec)
	twice := ApplyFilters(once, spec)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids(once))
	assert.Equal(t, ids(once), ids(twice))

	res := Run(trades, Options{Filters: &FilterSpec{RPercentile: Between(0, 50)}, Rand: seeded(1)})
	assert.Equal(t, 5, res.Summary.Trades, "Run resolves against its whole input")
}

func TestApplyFiltersIdempotent(t *testing.T) {
	t.Parallel()

	spec := &FilterSpec{R: &Range{Min: Float(-1)}, Setups: []string{"breakout", "pullback"}}
	once := ApplyFilters(journalSample(), spec)
	twice := ApplyFilters(once, spec)
	assert.Equal(t, ids(once), ids(twice))
}
