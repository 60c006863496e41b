package analytics

import (
	"sort"
	"time"
)

// EquityPoint is one step of a cumulative curve. Trades without an Outcome-R
// (or without P&L) add nothing to the respective running sum.
type EquityPoint struct {
	Index         int       `json:"index"`
	TradeID       string    `json:"trade_id"`
	Time          time.Time `json:"time"`
	R             *float64  `json:"r"`
	CumulativeR   float64   `json:"cumulative_r"`
	CumulativePnL float64   `json:"cumulative_pnl"`
	Balance       float64   `json:"balance"`
}

// NamedCurve is an equity curve for one group of trades.
type NamedCurve struct {
	Name   string        `json:"name"`
	Trades int           `json:"trades"`
	Points []EquityPoint `json:"points"`
}

// SortTrades returns a copy of trades ordered by TradeDate. Ties keep their
// input order.
func SortTrades(trades []Trade) []Trade {
	out := append([]Trade(nil), trades...)
	sort.SliceStable(out, func(i, j int) bool {
		return TradeDate(out[i]).Before(TradeDate(out[j]))
	})
	return out
}

// BuildEquityCurve sorts trades chronologically and emits one point per trade
// with running R (6 decimals) and running P&L (2 decimals). Balance is
// initialBalance plus the running P&L.
func BuildEquityCurve(trades []Trade, initialBalance float64) []EquityPoint {
	type acc struct {
		r, pnl float64
		points []EquityPoint
	}
	sorted := SortTrades(trades)
	res := foldl(sorted, acc{points: make([]EquityPoint, 0, len(sorted))}, func(a acc, i int, t Trade) acc {
		r, rok := OutcomeR(t)
		if rok {
			a.r += r
		}
		if pnl, ok := finite(t.PnL); ok {
			a.pnl += pnl
		}
		pnl := round(a.pnl, 2)
		a.points = append(a.points, EquityPoint{
			Index:         i,
			TradeID:       t.ID,
			Time:          TradeDate(t),
			R:             optional(round(r, 6), rok),
			CumulativeR:   round(a.r, 6),
			CumulativePnL: pnl,
			Balance:       round(initialBalance+pnl, 2),
		})
		return a
	})
	return res.points
}
