package journal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/pkg/id"
)

var tradeHeader = []string{
	"id", "symbol", "entry_time", "exit_time", "created_at", "entry_price", "exit_price",
	"quantity", "pnl", "risk_amount", "risk_percent", "r_multiple", "emotions", "setup",
	"session", "checklist_percent", "confidence", "execution", "grade", "trade_number",
}

var equityHeader = []string{"index", "trade_id", "time", "r", "cumulative_r", "cumulative_pnl", "balance"}

// headerAliases maps broker-style column names onto journal columns.
var headerAliases = map[string]string{
	"trade_id":    "id",
	"instrument":  "symbol",
	"units":       "quantity",
	"open_time":   "entry_time",
	"close_time":  "exit_time",
	"realized_pl": "pnl",
	"r":           "r_multiple",
}

// ReadTradesCSV parses a header-led CSV of trades. Columns are matched by
// name in any order and unknown columns are ignored. Blank or unparseable
// numeric cells leave the field absent. Rows without an id get a ULID
// stamped with their entry time.
func ReadTradesCSV(r io.Reader) ([]analytics.Trade, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read trades csv: empty file")
		}
		return nil, fmt.Errorf("read trades csv header: %w", err)
	}

	col := map[string]int{}
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if alias, ok := headerAliases[h]; ok {
			h = alias
		}
		if _, dup := col[h]; !dup {
			col[h] = i
		}
	}
	if _, ok := col["pnl"]; !ok {
		if _, ok := col["r_multiple"]; !ok {
			return nil, fmt.Errorf("read trades csv: need a pnl or r_multiple column")
		}
	}

	var out []analytics.Trade
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read trades csv line %d: %w", line, err)
		}
		out = append(out, parseRow(rec, col))
	}
	return out, nil
}

func parseRow(rec []string, col map[string]int) analytics.Trade {
	cell := func(name string) string {
		if i, ok := col[name]; ok && i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}
	num := func(name string) *float64 {
		if v, ok := analytics.ToFinite(cell(name)); ok {
			return analytics.Float(v)
		}
		return nil
	}
	when := func(name string) time.Time {
		if t, ok := analytics.AsDate(cell(name)); ok {
			return t
		}
		return time.Time{}
	}
	plain := func(name string) float64 {
		v, _ := analytics.ToFinite(cell(name))
		return v
	}

	t := analytics.Trade{
		ID:               cell("id"),
		Symbol:           cell("symbol"),
		EntryTime:        when("entry_time"),
		ExitTime:         when("exit_time"),
		CreatedAt:        when("created_at"),
		EntryPrice:       plain("entry_price"),
		ExitPrice:        plain("exit_price"),
		Quantity:         num("quantity"),
		PnL:              num("pnl"),
		RiskAmount:       num("risk_amount"),
		RiskPercent:      num("risk_percent"),
		RMultiple:        num("r_multiple"),
		Emotions:         splitEmotions(cell("emotions")),
		Setup:            cell("setup"),
		Session:          analytics.ParseSession(cell("session")),
		ChecklistPercent: num("checklist_percent"),
		Confidence:       num("confidence"),
		Execution:        num("execution"),
		Grade:            cell("grade"),
	}
	if n, err := strconv.Atoi(cell("trade_number")); err == nil {
		t.TradeNumber = analytics.Int(n)
	}
	if t.ID == "" {
		t.ID = id.NewAt(analytics.TradeDate(t))
	}
	return t
}

// CSVJournal writes trades and equity points to CSV files. Either path may
// be empty to skip that file.
type CSVJournal struct {
	trades *csv.Writer
	equity *csv.Writer
	tf, ef *os.File
}

func NewCSV(tradesPath, equityPath string) (*CSVJournal, error) {
	j := &CSVJournal{}
	if tradesPath != "" {
		tf, err := os.Create(tradesPath)
		if err != nil {
			return nil, fmt.Errorf("create trades csv: %w", err)
		}
		j.tf, j.trades = tf, csv.NewWriter(tf)
		if err := j.write(j.trades, tradeHeader); err != nil {
			_ = j.Close()
			return nil, err
		}
	}
	if equityPath != "" {
		ef, err := os.Create(equityPath)
		if err != nil {
			_ = j.Close()
			return nil, fmt.Errorf("create equity csv: %w", err)
		}
		j.ef, j.equity = ef, csv.NewWriter(ef)
		if err := j.write(j.equity, equityHeader); err != nil {
			_ = j.Close()
			return nil, err
		}
	}
	return j, nil
}

func (j *CSVJournal) write(w *csv.Writer, rec []string) error {
	if err := w.Write(rec); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	w.Flush()
	return w.Error()
}

func (j *CSVJournal) RecordTrade(t analytics.Trade) error {
	if j.trades == nil {
		return fmt.Errorf("record trade: no trades file")
	}
	number := ""
	if t.TradeNumber != nil {
		number = strconv.Itoa(*t.TradeNumber)
	}
	return j.write(j.trades, []string{
		t.ID,
		t.Symbol,
		ts(t.EntryTime),
		ts(t.ExitTime),
		ts(t.CreatedAt),
		f(t.EntryPrice),
		f(t.ExitPrice),
		opt(t.Quantity),
		opt(t.PnL),
		opt(t.RiskAmount),
		opt(t.RiskPercent),
		opt(t.RMultiple),
		strings.Join(t.Emotions, ";"),
		t.Setup,
		string(t.Session),
		opt(t.ChecklistPercent),
		opt(t.Confidence),
		opt(t.Execution),
		t.Grade,
		number,
	})
}

func (j *CSVJournal) RecordEquity(p analytics.EquityPoint) error {
	if j.equity == nil {
		return fmt.Errorf("record equity: no equity file")
	}
	return j.write(j.equity, []string{
		strconv.Itoa(p.Index),
		p.TradeID,
		ts(p.Time),
		opt(p.R),
		f(p.CumulativeR),
		f(p.CumulativePnL),
		f(p.Balance),
	})
}

func (j *CSVJournal) Close() error {
	var errs []error
	for _, w := range []*csv.Writer{j.trades, j.equity} {
		if w != nil {
			w.Flush()
			errs = append(errs, w.Error())
		}
	}
	for _, fh := range []*os.File{j.tf, j.ef} {
		if fh != nil {
			errs = append(errs, fh.Close())
		}
	}
	return errors.Join(errs...)
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}

func opt(p *float64) string {
	if v, ok := analytics.ToFinite(p); ok {
		return f(v)
	}
	return ""
}

func ts(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
