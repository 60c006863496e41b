package analytics

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC) // a Monday

// rTrade builds a trade with a recorded R-multiple, n hours after base.
func rTrade(id string, n int, r float64) Trade {
	return Trade{
		ID:        id,
		Symbol:    "EUR_USD",
		EntryTime: base.Add(time.Duration(n) * time.Hour),
		ExitTime:  base.Add(time.Duration(n)*time.Hour + 30*time.Minute),
		PnL:       Float(r * 100),
		RMultiple: Float(r),
	}
}

func rTrades(rs ...float64) []Trade {
	out := make([]Trade, len(rs))
	for i, r := range rs {
		out[i] = rTrade(string(rune('a'+i)), i, r)
	}
	return out
}

func TestToFinite(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
		want float64
		ok   bool
	}{
		{"zero", 0, 0, true},
		{"float", 1.5, 1.5, true},
		{"string", " -2.25 ", -2.25, true},
		{"empty string", "", 0, false},
		{"junk string", "n/a", 0, false},
		{"nil", nil, 0, false},
		{"nan", math.NaN(), 0, false},
		{"inf", math.Inf(-1), 0, false},
		{"nil pointer", (*float64)(nil), 0, false},
		{"pointer", Float(3), 3, true},
		{"json number", json.Number("4"), 4, true},
		{"bool", true, 0, false},
		{"int64 seconds", int64(7), 7, true},
		{"unsupported width", float32(1), 0, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ToFinite(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestAsDate(t *testing.T) {
	t.Parallel()

	got, ok := AsDate("2024-03-04T09:00:00Z")
	require.True(t, ok)
	assert.True(t, got.Equal(base))

	got, ok = AsDate("2024-03-04")
	require.True(t, ok)
	assert.Equal(t, 4, got.Day())

	got, ok = AsDate(int64(base.Unix()))
	require.True(t, ok)
	assert.True(t, got.Equal(base))

	_, ok = AsDate("yesterday")
	assert.False(t, ok)
	_, ok = AsDate(time.Time{})
	assert.False(t, ok)
	_, ok = AsDate("")
	assert.False(t, ok)
}

func TestTradeDateFallbacks(t *testing.T) {
	t.Parallel()

	created := base.Add(-time.Hour)
	assert.True(t, TradeDate(Trade{EntryTime: base, CreatedAt: created}).Equal(base))
	assert.True(t, TradeDate(Trade{CreatedAt: created}).Equal(created))
	assert.True(t, TradeDate(Trade{}).Equal(time.Unix(0, 0)))
}

func TestOutcomeR(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		trade Trade
		want  float64
		ok    bool
	}{
		{"recorded multiple wins", Trade{RMultiple: Float(1.5), PnL: Float(10), RiskAmount: Float(100)}, 1.5, true},
		{"pnl over risk", Trade{PnL: Float(-50), RiskAmount: Float(100)}, -0.5, true},
		{"zero pnl is a value", Trade{PnL: Float(0), RiskAmount: Float(100)}, 0, true},
		{"zero risk", Trade{PnL: Float(50), RiskAmount: Float(0)}, 0, false},
		{"negative risk", Trade{PnL: Float(50), RiskAmount: Float(-10)}, 0, false},
		{"nan multiple falls back", Trade{RMultiple: Float(math.NaN()), PnL: Float(20), RiskAmount: Float(10)}, 2, true},
		{"no pnl", Trade{RiskAmount: Float(100)}, 0, false},
		{"nothing", Trade{}, 0, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := OutcomeR(tt.trade)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestExpectancyAndWinRate(t *testing.T) {
	t.Parallel()

	_, ok := Expectancy(nil)
	assert.False(t, ok)

	exp, ok := Expectancy([]float64{2, -1, 1, -1, 3})
	require.True(t, ok)
	assert.InDelta(t, 0.8, exp, 1e-12)

	assert.Equal(t, 0.0, WinRate(nil))
	assert.InDelta(t, 60.0, WinRate([]float64{2, -1, 1, -1, 3}), 1e-12)
	assert.Equal(t, 0.0, WinRate([]float64{0, 0}))
}

func TestProfitFactorFrom(t *testing.T) {
	t.Parallel()

	pf, ok := ProfitFactorFrom([]float64{2, -1, 1, -1, 3})
	require.True(t, ok)
	assert.InDelta(t, 3.0, float64(pf), 1e-12)

	// Wins and no losses: infinite edge.
	pf, ok = ProfitFactorFrom([]float64{1, 2})
	require.True(t, ok)
	assert.True(t, pf.IsInf())

	// No trades at all: no data.
	_, ok = ProfitFactorFrom(nil)
	assert.False(t, ok)

	// Only breakevens: no data either.
	_, ok = ProfitFactorFrom([]float64{0, 0})
	assert.False(t, ok)

	pf, ok = ProfitFactorFrom([]float64{-1, -2})
	require.True(t, ok)
	assert.Equal(t, Factor(0), pf)
}

func TestFactorJSON(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(Factor(math.Inf(1)))
	require.NoError(t, err)
	assert.Equal(t, `"Infinity"`, string(b))

	b, err = json.Marshal(Factor(1.5))
	require.NoError(t, err)
	assert.Equal(t, `1.5`, string(b))

	var f Factor
	require.NoError(t, json.Unmarshal([]byte(`"Infinity"`), &f))
	assert.True(t, f.IsInf())
	assert.Equal(t, "inf", f.String())
}

func TestMaxDrawdownFromCurve(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, MaxDrawdownFromCurve(nil))
	assert.Equal(t, 0.0, MaxDrawdownFromCurve([]float64{1, 2, 3}))
	assert.InDelta(t, 1.0, MaxDrawdownFromCurve([]float64{2, 1, 2, 1, 4}), 1e-12)
	assert.InDelta(t, 5.0, MaxDrawdownFromCurve([]float64{3, 5, 0, 4}), 1e-12)
}

func TestPearsonCorrelation(t *testing.T) {
	t.Parallel()

	c, ok := PearsonCorrelation([]float64{1, 2, 3, 4}, []float64{2, 4, 6, 8})
	require.True(t, ok)
	assert.InDelta(t, 1.0, c, 1e-12)

	c, ok = PearsonCorrelation([]float64{1, 2, 3}, []float64{3, 2, 1})
	require.True(t, ok)
	assert.InDelta(t, -1.0, c, 1e-12)

	_, ok = PearsonCorrelation([]float64{1}, []float64{1})
	assert.False(t, ok, "fewer than two points")
	_, ok = PearsonCorrelation([]float64{1, 1, 1}, []float64{1, 2, 3})
	assert.False(t, ok, "zero variance")
	_, ok = PearsonCorrelation([]float64{1, 2}, []float64{1, 2, 3})
	assert.False(t, ok, "length mismatch")
}

func TestBuildEquityCurve(t *testing.T) {
	t.Parallel()

	trades := []Trade{
		rTrade("late", 2, 1.0/3),
		rTrade("early", 0, 1.0/3),
		{ID: "no-r", EntryTime: base.Add(time.Hour), PnL: Float(10.005)},
	}

	curve := BuildEquityCurve(trades, 1000)
	require.Len(t, curve, 3)

	assert.Equal(t, "early", curve[0].TradeID)
	assert.Equal(t, "no-r", curve[1].TradeID)
	assert.Equal(t, "late", curve[2].TradeID)

	assert.Equal(t, 0.333333, curve[0].CumulativeR)
	assert.Nil(t, curve[1].R)
	assert.Equal(t, 0.333333, curve[1].CumulativeR)
	assert.Equal(t, 0.666667, curve[2].CumulativeR)

	assert.Equal(t, 33.33, curve[0].CumulativePnL)
	assert.Equal(t, 1033.33, curve[0].Balance)
	assert.Equal(t, 76.67, curve[2].CumulativePnL)
}
