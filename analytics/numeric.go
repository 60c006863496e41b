package analytics

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ToFinite coerces a journal cell (string, float64, int, int64, *float64 or
// json.Number) to a finite float64. Blank strings, nil, NaN, Inf and other
// types are reported as absent; a literal 0 is a value.
func ToFinite(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = x
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case *float64:
		if x == nil {
			return 0, false
		}
		f = *x
	case json.Number:
		p, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = p
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		p, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = p
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// AsDate coerces v to an instant. Numbers are Unix seconds; strings are tried
// against a small set of ISO-8601 layouts.
func AsDate(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, !x.IsZero()
	case *time.Time:
		if x == nil || x.IsZero() {
			return time.Time{}, false
		}
		return *x, true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	}
	if secs, ok := ToFinite(v); ok {
		whole, frac := math.Modf(secs)
		return time.Unix(int64(whole), int64(frac*1e9)).UTC(), true
	}
	return time.Time{}, false
}

func finite(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return ToFinite(*p)
}

// TradeDate is the instant used to order trades: entry time, then creation
// time, then the Unix epoch.
func TradeDate(t Trade) time.Time {
	if !t.EntryTime.IsZero() {
		return t.EntryTime
	}
	if !t.CreatedAt.IsZero() {
		return t.CreatedAt
	}
	return time.Unix(0, 0).UTC()
}

// recordedDate is TradeDate without the epoch fallback.
func recordedDate(t Trade) (time.Time, bool) {
	when := TradeDate(t)
	return when, !t.EntryTime.IsZero() || !t.CreatedAt.IsZero()
}

// OutcomeR normalizes a trade's result into R. A recorded R-multiple wins;
// otherwise P&L is divided by the planned risk amount when that is positive.
func OutcomeR(t Trade) (float64, bool) {
	if r, ok := finite(t.RMultiple); ok {
		return r, true
	}
	risk, ok := finite(t.RiskAmount)
	if !ok || risk <= 0 {
		return 0, false
	}
	pnl, ok := finite(t.PnL)
	if !ok {
		return 0, false
	}
	return pnl / risk, true
}

// Expectancy is the mean of values; absent for an empty slice.
func Expectancy(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	return sum(values) / float64(len(values)), true
}

// WinRate is the percentage of strictly positive values. An empty slice
// yields 0 rather than absent.
func WinRate(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	wins := 0
	for _, v := range values {
		if v > 0 {
			wins++
		}
	}
	return float64(wins) / float64(len(values)) * 100
}

// ProfitFactorFrom divides gross profit by gross loss. With no losses it is
// +Inf when there are wins and absent when there is nothing at all.
func ProfitFactorFrom(values []float64) (Factor, bool) {
	var gains, losses float64
	for _, v := range values {
		if v > 0 {
			gains += v
		} else if v < 0 {
			losses += -v
		}
	}
	if losses == 0 {
		if gains > 0 {
			return Factor(math.Inf(1)), true
		}
		return 0, false
	}
	return Factor(gains / losses), true
}

// MaxDrawdownFromCurve is the largest fall from a running peak. The peak
// starts at the first point, so the result is never negative.
func MaxDrawdownFromCurve(curve []float64) float64 {
	if len(curve) == 0 {
		return 0
	}
	peak := curve[0]
	maxDD := 0.0
	for _, v := range curve {
		if v > peak {
			peak = v
		}
		if dd := peak - v; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// PearsonCorrelation returns the product-moment correlation of x and y.
// It needs two or more equal-length points with variance in both series.
func PearsonCorrelation(x, y []float64) (float64, bool) {
	n := len(x)
	if n < 2 || n != len(y) {
		return 0, false
	}
	mx := sum(x) / float64(n)
	my := sum(y) / float64(n)

	var cov, vx, vy float64
	for i := 0; i < n; i++ {
		dx := x[i] - mx
		dy := y[i] - my
		cov += dx * dy
		vx += dx * dx
		vy += dy * dy
	}
	if vx == 0 || vy == 0 {
		return 0, false
	}
	r := cov / math.Sqrt(vx*vy)
	return clamp(r, -1, 1), true
}

// runningSum returns the cumulative sum of values.
func runningSum(values []float64) []float64 {
	out := make([]float64, len(values))
	acc := 0.0
	for i, v := range values {
		acc += v
		out[i] = acc
	}
	return out
}

// maxDrawdownR is the drawdown of a cumulative R path that starts flat at 0.
func maxDrawdownR(values []float64) float64 {
	return MaxDrawdownFromCurve(append([]float64{0}, runningSum(values)...))
}

// percentile interpolates linearly between closest ranks. sorted must be
// ascending; p is in [0,1].
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	idx := p * float64(n-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= n {
		return sorted[n-1]
	}
	frac := idx - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

func sortedCopy(values []float64) []float64 {
	out := append([]float64(nil), values...)
	sort.Float64s(out)
	return out
}

func sum(values []float64) float64 {
	s := 0.0
	for _, v := range values {
		s += v
	}
	return s
}

func variance(values []float64) (float64, bool) {
	mean, ok := Expectancy(values)
	if !ok {
		return 0, false
	}
	acc := 0.0
	for _, v := range values {
		d := v - mean
		acc += d * d
	}
	return acc / float64(len(values)), true
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

func optional(v float64, ok bool) *float64 {
	if !ok {
		return nil
	}
	return &v
}

func optionalFactor(v Factor, ok bool) *Factor {
	if !ok {
		return nil
	}
	return &v
}

// foldl threads acc through xs left to right.
func foldl[T, A any](xs []T, acc A, f func(A, int, T) A) A {
	for i, x := range xs {
		acc = f(acc, i, x)
	}
	return acc
}

// outcomes collects the defined Outcome-R values of trades in order.
func outcomes(trades []Trade) []float64 {
	out := make([]float64, 0, len(trades))
	for _, t := range trades {
		if r, ok := OutcomeR(t); ok {
			out = append(out, r)
		}
	}
	return out
}
