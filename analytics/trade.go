// Package analytics derives performance, behavioral and risk metrics from a
// collection of closed journal trades.
//
// The engine is a single-shot batch computation: Run takes the trades and an
// Options bag and returns a Result built from scratch. Nothing is cached
// between calls. Missing or non-finite numeric fields are treated as absent,
// never as zero.
package analytics

import (
	"strings"
	"time"
)

type Session string

const (
	SessionAsia    Session = "Asia"
	SessionLondon  Session = "London"
	SessionNewYork Session = "NewYork"
	SessionOther   Session = "Other"
)

// Sessions lists the known sessions in reporting order.
var Sessions = []Session{SessionAsia, SessionLondon, SessionNewYork, SessionOther}

// ParseSession maps free-form session labels onto the known sessions.
// Anything unrecognised but non-blank is Other.
func ParseSession(s string) Session {
	key := strings.ToLower(strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s))
	switch key {
	case "":
		return ""
	case "asia", "asian", "tokyo", "sydney":
		return SessionAsia
	case "london", "europe":
		return SessionLondon
	case "newyork", "ny", "us":
		return SessionNewYork
	default:
		return SessionOther
	}
}

// Trade is a closed position as recorded in the journal.
//
// Pointer fields are optional. A nil pointer (or a NaN/Inf value) means the
// trader did not record it.
type Trade struct {
	ID         string    `json:"id" yaml:"id"`
	Symbol     string    `json:"symbol" yaml:"symbol"`
	EntryTime  time.Time `json:"entry_time" yaml:"entry_time"`
	ExitTime   time.Time `json:"exit_time" yaml:"exit_time"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
	EntryPrice float64   `json:"entry_price" yaml:"entry_price"`
	ExitPrice  float64   `json:"exit_price" yaml:"exit_price"`

	Quantity    *float64 `json:"quantity,omitempty" yaml:"quantity,omitempty"`
	PnL         *float64 `json:"pnl,omitempty" yaml:"pnl,omitempty"`
	RiskAmount  *float64 `json:"risk_amount,omitempty" yaml:"risk_amount,omitempty"`
	RiskPercent *float64 `json:"risk_percent,omitempty" yaml:"risk_percent,omitempty"`
	RMultiple   *float64 `json:"r_multiple,omitempty" yaml:"r_multiple,omitempty"`

	Emotions []string `json:"emotions,omitempty" yaml:"emotions,omitempty"`
	Setup    string   `json:"setup,omitempty" yaml:"setup,omitempty"`
	Session  Session  `json:"session,omitempty" yaml:"session,omitempty"`

	ChecklistPercent *float64 `json:"checklist_percent,omitempty" yaml:"checklist_percent,omitempty"`
	Confidence       *float64 `json:"confidence,omitempty" yaml:"confidence,omitempty"`
	Execution        *float64 `json:"execution,omitempty" yaml:"execution,omitempty"`
	Grade            string   `json:"grade,omitempty" yaml:"grade,omitempty"`
	TradeNumber      *int     `json:"trade_number,omitempty" yaml:"trade_number,omitempty"`
}

// Float returns a pointer to v, for filling optional trade fields.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// DurationMinutes is the holding time, absent when either timestamp is
// missing or the exit precedes the entry.
func (t Trade) DurationMinutes() (float64, bool) {
	if t.EntryTime.IsZero() || t.ExitTime.IsZero() || t.ExitTime.Before(t.EntryTime) {
		return 0, false
	}
	return t.ExitTime.Sub(t.EntryTime).Minutes(), true
}

// IsLoss reports whether the trade lost, judged by Outcome-R and falling back
// to the sign of P&L when no R is available.
func (t Trade) IsLoss() bool {
	if r, ok := OutcomeR(t); ok {
		return r < 0
	}
	if pnl, ok := finite(t.PnL); ok {
		return pnl < 0
	}
	return false
}

// IsWin is the positive counterpart of IsLoss.
func (t Trade) IsWin() bool {
	if r, ok := OutcomeR(t); ok {
		return r > 0
	}
	if pnl, ok := finite(t.PnL); ok {
		return pnl > 0
	}
	return false
}
