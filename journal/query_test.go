package journal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTradeRoundTrip(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	want := sampleTrade()
	require.NoError(t, j.RecordTrade(want))

	got, err := j.GetTrade(context.Background(), "T1")
	require.NoError(t, err)

	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Symbol, got.Symbol)
	assert.True(t, want.EntryTime.Equal(got.EntryTime))
	assert.True(t, want.ExitTime.Equal(got.ExitTime))
	assert.True(t, got.CreatedAt.IsZero())
	assert.InDelta(t, want.EntryPrice, got.EntryPrice, 1e-12)
	assert.Equal(t, *want.Quantity, *got.Quantity)
	assert.Equal(t, *want.PnL, *got.PnL)
	assert.Equal(t, *want.RiskAmount, *got.RiskAmount)
	assert.Nil(t, got.RMultiple)
	assert.Nil(t, got.Confidence)
	assert.Equal(t, want.Emotions, got.Emotions)
	assert.Equal(t, analytics.SessionLondon, got.Session)
	assert.Equal(t, 0.0, *got.ChecklistPercent)
	assert.Equal(t, "B", got.Grade)
	assert.Equal(t, 3, *got.TradeNumber)

	wantDur, _ := want.DurationMinutes()
	gotDur, ok := got.DurationMinutes()
	require.True(t, ok)
	assert.Equal(t, wantDur, gotDur)

	r, ok := analytics.OutcomeR(got)
	require.True(t, ok)
	assert.InDelta(t, -0.5, r, 1e-12)
}

func TestGetTradeNotFound(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	_, err := j.GetTrade(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTradeNotFound))
	assert.Contains(t, err.Error(), `"missing"`)
}

func TestListTradesOrdered(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"c", "a", "b"} {
		tr := sampleTrade()
		tr.ID = id
		tr.EntryTime = base.Add(time.Duration(2-i) * time.Hour)
		tr.ExitTime = tr.EntryTime.Add(time.Minute)
		require.NoError(t, j.RecordTrade(tr))
	}

	got, err := j.ListTrades(context.Background())
	require.NoError(t, err)
	ids := []string{}
	for _, tr := range got {
		ids = append(ids, tr.ID)
	}
	assert.Equal(t, []string{"b", "a", "c"}, ids)
}

func TestListTradesClosedBetween(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	closes := map[string]time.Time{
		"before": day.Add(-time.Minute),
		"start":  day,
		"noon":   day.Add(12 * time.Hour),
		"end":    day.Add(24 * time.Hour),
	}
	for id, c := range closes {
		tr := sampleTrade()
		tr.ID = id
		tr.EntryTime = c.Add(-time.Hour)
		tr.ExitTime = c
		require.NoError(t, j.RecordTrade(tr))
	}

	got, err := j.ListTradesClosedBetween(context.Background(), day, day.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "start", got[0].ID)
	assert.Equal(t, "noon", got[1].ID)
}

func TestListTradesEmpty(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	got, err := j.ListTrades(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}
