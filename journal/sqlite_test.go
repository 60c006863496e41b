package journal

import (
	"bytes"
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)

	return j, path
}

func sampleTrade() analytics.Trade {
	open := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return analytics.Trade{
		ID:               "T1",
		Symbol:           "EUR_USD",
		EntryTime:        open,
		ExitTime:         open.Add(61 * time.Minute),
		EntryPrice:       1.2345678,
		ExitPrice:        1.3456789,
		Quantity:         analytics.Float(1000),
		PnL:              analytics.Float(-12.5),
		RiskAmount:       analytics.Float(25),
		RiskPercent:      analytics.Float(0.5),
		Emotions:         []string{"calm", "fomo"},
		Setup:            "breakout",
		Session:          analytics.SessionLondon,
		ChecklistPercent: analytics.Float(0),
		Grade:            "B",
		TradeNumber:      analytics.Int(3),
	}
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('trades','equity')`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		assert.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	assert.NoError(t, rows.Err())

	assert.True(t, found["trades"])
	assert.True(t, found["equity"])
}

func TestSQLiteRecordTradeNullables(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	require.NoError(t, j.RecordTrade(sampleTrade()))
	require.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var (
		symbol    string
		emotions  string
		rMultiple sql.NullFloat64
		checklist sql.NullFloat64
		created   sql.NullTime
	)
	err = db.QueryRow(`SELECT symbol, emotions, r_multiple, checklist_percent, created_at FROM trades WHERE trade_id = ?`, "T1").
		Scan(&symbol, &emotions, &rMultiple, &checklist, &created)
	require.NoError(t, err)

	assert.Equal(t, "EUR_USD", symbol)
	assert.Equal(t, "calm,fomo", emotions)
	assert.False(t, rMultiple.Valid, "unrecorded r multiple stays NULL")
	assert.True(t, checklist.Valid, "a recorded zero is a value")
	assert.Equal(t, 0.0, checklist.Float64)
	assert.False(t, created.Valid)
}

func TestSQLiteRecordTradeRequiresID(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	tr := sampleTrade()
	tr.ID = ""
	assert.Error(t, j.RecordTrade(tr))
}

func TestSQLiteRecordTradesReplaces(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })
	ctx := context.Background()

	first := sampleTrade()
	second := sampleTrade()
	second.PnL = analytics.Float(40)

	require.NoError(t, j.RecordTrades(ctx, []analytics.Trade{first}))
	require.NoError(t, j.RecordTrades(ctx, []analytics.Trade{second}))

	all, err := j.ListTrades(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 40.0, *all[0].PnL)
}

func TestSQLiteRecordTradesRollsBack(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })
	ctx := context.Background()

	bad := sampleTrade()
	bad.ID = ""
	other := sampleTrade()
	other.ID = "T2"

	require.Error(t, j.RecordTrades(ctx, []analytics.Trade{other, bad}))

	all, err := j.ListTrades(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSQLiteRecordTradesLogsFromContext(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	var buf bytes.Buffer
	ctx := logging.WithContext(context.Background(), zerolog.New(&buf).Level(zerolog.DebugLevel))

	require.NoError(t, j.RecordTrades(ctx, []analytics.Trade{sampleTrade()}))
	assert.Contains(t, buf.String(), `"trade_id":"T1"`)
	assert.Contains(t, buf.String(), `"message":"trade recorded"`)

	bad := sampleTrade()
	bad.ID = ""
	buf.Reset()
	require.Error(t, j.RecordTrades(ctx, []analytics.Trade{bad}))
	assert.Contains(t, buf.String(), "import rolled back")
}

func TestSQLiteRecordEquity(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	curve := analytics.BuildEquityCurve([]analytics.Trade{sampleTrade()}, 1000)
	for _, p := range curve {
		require.NoError(t, j.RecordEquity(p))
	}

	got, err := j.ListEquity(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "T1", got[0].TradeID)
	require.NotNil(t, got[0].R)
	assert.InDelta(t, -0.5, *got[0].R, 1e-9)
	assert.InDelta(t, 987.5, got[0].Balance, 1e-9)
	assert.True(t, got[0].Time.Equal(sampleTrade().EntryTime))
}
