package journal

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/logging"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create journal schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

const insertTrade = `INSERT OR REPLACE INTO trades (` + tradeColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func writeTrade(ctx context.Context, db execer, t analytics.Trade) error {
	if t.ID == "" {
		return fmt.Errorf("record trade: missing trade id")
	}
	var number any
	if t.TradeNumber != nil {
		number = *t.TradeNumber
	}
	_, err := db.ExecContext(ctx, insertTrade,
		t.ID, t.Symbol,
		nullTime(t.EntryTime), nullTime(t.ExitTime), nullTime(t.CreatedAt),
		t.EntryPrice, t.ExitPrice,
		nullFloat(t.Quantity), nullFloat(t.PnL), nullFloat(t.RiskAmount),
		nullFloat(t.RiskPercent), nullFloat(t.RMultiple),
		joinEmotions(t.Emotions), t.Setup, string(t.Session),
		nullFloat(t.ChecklistPercent), nullFloat(t.Confidence), nullFloat(t.Execution),
		t.Grade, number,
	)
	if err != nil {
		return fmt.Errorf("record trade %s: %w", t.ID, err)
	}
	return nil
}

func (j *SQLite) RecordTrade(t analytics.Trade) error {
	return writeTrade(context.Background(), j.db, t)
}

// RecordTrades writes all trades in one transaction. Existing ids are
// replaced, so re-importing the same file is harmless. Progress is logged to
// the logger carried by ctx.
func (j *SQLite) RecordTrades(ctx context.Context, trades []analytics.Trade) error {
	log := logging.FromContext(ctx)
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	for _, t := range trades {
		if err := writeTrade(ctx, tx, t); err != nil {
			_ = tx.Rollback()
			log.Warn().Err(err).Msg("import rolled back")
			return err
		}
		tl := logging.WithTrade(log, t.ID)
		tl.Debug().Str("symbol", t.Symbol).Msg("trade recorded")
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}

func (j *SQLite) RecordEquity(p analytics.EquityPoint) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(idx, trade_id, time, r, cumulative_r, cumulative_pnl, balance)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Index, p.TradeID, nullTime(p.Time), nullFloat(p.R),
		p.CumulativeR, p.CumulativePnL, p.Balance,
	)
	if err != nil {
		return fmt.Errorf("record equity point %d: %w", p.Index, err)
	}
	return nil
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}

func nullFloat(p *float64) any {
	if p == nil || math.IsNaN(*p) || math.IsInf(*p, 0) {
		return nil
	}
	return *p
}

func joinEmotions(tags []string) string {
	return strings.Join(tags, ",")
}

func splitEmotions(s string) []string {
	var out []string
	for _, e := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' || r == '|' }) {
		if e = strings.TrimSpace(e); e != "" {
			out = append(out, e)
		}
	}
	return out
}
