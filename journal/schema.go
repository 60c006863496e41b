package journal

// Schema holds every trade field. Optional metrics are nullable so that an
// unrecorded value never reads back as zero.
const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	symbol TEXT NOT NULL,
	entry_time DATETIME,
	exit_time DATETIME,
	created_at DATETIME,
	entry_price REAL NOT NULL DEFAULT 0,
	exit_price REAL NOT NULL DEFAULT 0,
	quantity REAL,
	pnl REAL,
	risk_amount REAL,
	risk_percent REAL,
	r_multiple REAL,
	emotions TEXT NOT NULL DEFAULT '',
	setup TEXT NOT NULL DEFAULT '',
	session TEXT NOT NULL DEFAULT '',
	checklist_percent REAL,
	confidence REAL,
	execution REAL,
	grade TEXT NOT NULL DEFAULT '',
	trade_number INTEGER
);

CREATE INDEX IF NOT EXISTS idx_trades_entry_time ON trades(entry_time);
CREATE INDEX IF NOT EXISTS idx_trades_exit_time ON trades(exit_time);

CREATE TABLE IF NOT EXISTS equity (
	idx INTEGER NOT NULL,
	trade_id TEXT NOT NULL,
	time DATETIME,
	r REAL,
	cumulative_r REAL NOT NULL,
	cumulative_pnl REAL NOT NULL,
	balance REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_equity_idx ON equity(idx);
`

const tradeColumns = `trade_id, symbol, entry_time, exit_time, created_at, entry_price, exit_price,
	quantity, pnl, risk_amount, risk_percent, r_multiple, emotions, setup, session,
	checklist_percent, confidence, execution, grade, trade_number`
