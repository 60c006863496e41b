package analytics

import (
	"strings"
	"time"
)

type OutcomeClass string

const (
	OutcomeAny       OutcomeClass = ""
	OutcomeWin       OutcomeClass = "win"
	OutcomeLoss      OutcomeClass = "loss"
	OutcomeBreakeven OutcomeClass = "breakeven"
)

// Range is an inclusive numeric bound. A nil side is open.
type Range struct {
	Min *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max *float64 `json:"max,omitempty" yaml:"max,omitempty"`
}

// Between builds a closed Range.
func Between(lo, hi float64) *Range {
	return &Range{Min: Float(lo), Max: Float(hi)}
}

func (r *Range) active() bool {
	return r != nil && (r.Min != nil || r.Max != nil)
}

// admits reports whether a (possibly absent) value satisfies the range. An
// absent value never satisfies an active range.
func (r *Range) admits(v float64, ok bool) bool {
	if !r.active() {
		return true
	}
	if !ok {
		return false
	}
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// FilterSpec narrows a trade collection. Every zero-valued field means no
// constraint on that dimension; present constraints are ANDed.
type FilterSpec struct {
	From time.Time `json:"from,omitempty" yaml:"from,omitempty"`
	To   time.Time `json:"to,omitempty" yaml:"to,omitempty"`

	R               *Range `json:"r,omitempty" yaml:"r,omitempty"`
	RPercentile     *Range `json:"r_percentile,omitempty" yaml:"r_percentile,omitempty"`
	RiskPercent     *Range `json:"risk_percent,omitempty" yaml:"risk_percent,omitempty"`
	Checklist       *Range `json:"checklist,omitempty" yaml:"checklist,omitempty"`
	Confidence      *Range `json:"confidence,omitempty" yaml:"confidence,omitempty"`
	Execution       *Range `json:"execution,omitempty" yaml:"execution,omitempty"`
	DurationMinutes *Range `json:"duration_minutes,omitempty" yaml:"duration_minutes,omitempty"`
	TradeNumber     *Range `json:"trade_number,omitempty" yaml:"trade_number,omitempty"`

	Emotions []string  `json:"emotions,omitempty" yaml:"emotions,omitempty"`
	Setups   []string  `json:"setups,omitempty" yaml:"setups,omitempty"`
	Sessions []Session `json:"sessions,omitempty" yaml:"sessions,omitempty"`
	Symbols  []string  `json:"symbols,omitempty" yaml:"symbols,omitempty"`

	Outcome OutcomeClass `json:"outcome,omitempty" yaml:"outcome,omitempty"`
}

// ResolvePercentiles converts RPercentile (0-100) into absolute bounds on R
// measured over trades, tightening any existing R range. The returned spec has
// no relative constraints left.
func ResolvePercentiles(trades []Trade, spec *FilterSpec) *FilterSpec {
	if spec == nil || !spec.RPercentile.active() {
		return spec
	}
	out := *spec
	out.RPercentile = nil

	sorted := sortedCopy(outcomes(trades))
	if len(sorted) == 0 {
		// No trade carries an R, so any R bound excludes everything.
		out.R = Between(0, 0)
		return &out
	}

	r := Range{}
	if out.R != nil {
		r = *out.R
	}
	if p := spec.RPercentile.Min; p != nil {
		lo := percentile(sorted, clamp(*p, 0, 100)/100)
		if r.Min == nil || lo > *r.Min {
			r.Min = Float(lo)
		}
	}
	if p := spec.RPercentile.Max; p != nil {
		hi := percentile(sorted, clamp(*p, 0, 100)/100)
		if r.Max == nil || hi < *r.Max {
			r.Max = Float(hi)
		}
	}
	out.R = &r
	return &out
}

// ApplyFilters keeps the trades that satisfy every constraint in spec. A nil
// spec returns an unfiltered copy.
//
// RPercentile is relative to a collection, so it must be turned into absolute
// bounds with ResolvePercentiles before filtering. A spec that still carries
// RPercentile matches nothing.
func ApplyFilters(trades []Trade, spec *FilterSpec) []Trade {
	if spec == nil {
		return append([]Trade(nil), trades...)
	}

	out := make([]Trade, 0, len(trades))
	for _, t := range trades {
		if spec.match(t) {
			out = append(out, t)
		}
	}
	return out
}

func (s *FilterSpec) match(t Trade) bool {
	if s.RPercentile.active() {
		return false
	}
	when := TradeDate(t)
	if !s.From.IsZero() && when.Before(s.From) {
		return false
	}
	if !s.To.IsZero() && when.After(s.To) {
		return false
	}

	r, rok := OutcomeR(t)
	if !s.R.admits(r, rok) {
		return false
	}
	if v, ok := finite(t.RiskPercent); !s.RiskPercent.admits(v, ok) {
		return false
	}
	if v, ok := finite(t.ChecklistPercent); !s.Checklist.admits(v, ok) {
		return false
	}
	if v, ok := finite(t.Confidence); !s.Confidence.admits(v, ok) {
		return false
	}
	if v, ok := finite(t.Execution); !s.Execution.admits(v, ok) {
		return false
	}
	if v, ok := t.DurationMinutes(); !s.DurationMinutes.admits(v, ok) {
		return false
	}
	if s.TradeNumber.active() {
		if t.TradeNumber == nil || !s.TradeNumber.admits(float64(*t.TradeNumber), true) {
			return false
		}
	}

	if len(s.Emotions) > 0 && !anyIn(t.Emotions, s.Emotions) {
		return false
	}
	if len(s.Setups) > 0 && !anyIn([]string{t.Setup}, s.Setups) {
		return false
	}
	if len(s.Symbols) > 0 && !anyIn([]string{t.Symbol}, s.Symbols) {
		return false
	}
	if len(s.Sessions) > 0 {
		want := make([]string, len(s.Sessions))
		for i, ss := range s.Sessions {
			want[i] = string(ParseSession(string(ss)))
		}
		if !anyIn([]string{string(ParseSession(string(t.Session)))}, want) {
			return false
		}
	}

	switch s.Outcome {
	case OutcomeWin:
		return t.IsWin()
	case OutcomeLoss:
		return t.IsLoss()
	case OutcomeBreakeven:
		_, hasPnL := finite(t.PnL)
		return (rok || hasPnL) && !t.IsWin() && !t.IsLoss()
	}
	return true
}

// anyIn reports whether any non-empty value of have appears in want,
// ignoring case and surrounding space.
func anyIn(have, want []string) bool {
	for _, h := range have {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		for _, w := range want {
			if strings.EqualFold(h, strings.TrimSpace(w)) {
				return true
			}
		}
	}
	return false
}
