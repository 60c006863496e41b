// Package journal stores and loads closed trades for the analytics engine.
package journal

import (
	"errors"

	"github.com/rustyeddy/tradejournal/analytics"
)

// ErrTradeNotFound is returned when a trade id is not in the journal.
var ErrTradeNotFound = errors.New("trade not found")

// Journal records trades and equity curve points.
type Journal interface {
	RecordTrade(analytics.Trade) error
	RecordEquity(analytics.EquityPoint) error
	Close() error
}
