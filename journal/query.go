package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rustyeddy/tradejournal/analytics"
)

type scanner interface {
	Scan(dest ...any) error
}

func scanTrade(row scanner) (analytics.Trade, error) {
	var (
		t                                analytics.Trade
		entry, exit, created             sql.NullTime
		qty, pnl, risk, riskPct, rMult   sql.NullFloat64
		checklist, confidence, execution sql.NullFloat64
		emotions, session                string
		number                           sql.NullInt64
	)
	err := row.Scan(
		&t.ID, &t.Symbol, &entry, &exit, &created, &t.EntryPrice, &t.ExitPrice,
		&qty, &pnl, &risk, &riskPct, &rMult, &emotions, &t.Setup, &session,
		&checklist, &confidence, &execution, &t.Grade, &number,
	)
	if err != nil {
		return analytics.Trade{}, err
	}

	t.EntryTime = entry.Time
	t.ExitTime = exit.Time
	t.CreatedAt = created.Time
	t.Quantity = ptr(qty)
	t.PnL = ptr(pnl)
	t.RiskAmount = ptr(risk)
	t.RiskPercent = ptr(riskPct)
	t.RMultiple = ptr(rMult)
	t.Emotions = splitEmotions(emotions)
	t.Session = analytics.Session(session)
	t.ChecklistPercent = ptr(checklist)
	t.Confidence = ptr(confidence)
	t.Execution = ptr(execution)
	if number.Valid {
		t.TradeNumber = analytics.Int(int(number.Int64))
	}
	return t, nil
}

func ptr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return analytics.Float(v.Float64)
}

// GetTrade returns a single trade by ID, or ErrTradeNotFound.
func (j *SQLite) GetTrade(ctx context.Context, tradeID string) (analytics.Trade, error) {
	row := j.db.QueryRowContext(ctx, `SELECT `+tradeColumns+` FROM trades WHERE trade_id = ?`, tradeID)

	t, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return analytics.Trade{}, fmt.Errorf("trade %q: %w", tradeID, ErrTradeNotFound)
		}
		return analytics.Trade{}, fmt.Errorf("get trade %q: %w", tradeID, err)
	}
	return t, nil
}

// ListTrades returns the whole journal ordered by entry time.
func (j *SQLite) ListTrades(ctx context.Context) ([]analytics.Trade, error) {
	return j.query(ctx, `SELECT `+tradeColumns+` FROM trades ORDER BY entry_time ASC, trade_id ASC`)
}

// ListTradesClosedBetween returns trades whose exit_time is within [start, end).
func (j *SQLite) ListTradesClosedBetween(ctx context.Context, start, end time.Time) ([]analytics.Trade, error) {
	return j.query(ctx, `
		SELECT `+tradeColumns+`
		FROM trades
		WHERE exit_time >= ? AND exit_time < ?
		ORDER BY exit_time ASC`, start.UTC(), end.UTC())
}

// ListEquity returns the recorded equity curve in index order.
func (j *SQLite) ListEquity(ctx context.Context) ([]analytics.EquityPoint, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT idx, trade_id, time, r, cumulative_r, cumulative_pnl, balance
		FROM equity
		ORDER BY idx ASC`)
	if err != nil {
		return nil, fmt.Errorf("list equity: %w", err)
	}
	defer rows.Close()

	var out []analytics.EquityPoint
	for rows.Next() {
		var (
			p  analytics.EquityPoint
			at sql.NullTime
			r  sql.NullFloat64
		)
		if err := rows.Scan(&p.Index, &p.TradeID, &at, &r, &p.CumulativeR, &p.CumulativePnL, &p.Balance); err != nil {
			return nil, fmt.Errorf("scan equity: %w", err)
		}
		p.Time = at.Time
		p.R = ptr(r)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (j *SQLite) query(ctx context.Context, q string, args ...any) ([]analytics.Trade, error) {
	rows, err := j.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}
	defer rows.Close()

	var out []analytics.Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
