package ledger

const schemaSQL = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS paper_trades (
    id TEXT PRIMARY KEY,
    market_id TEXT NOT NULL,
    question TEXT NOT NULL,
    category TEXT NOT NULL,
    our_prediction REAL NOT NULL,
    market_odds REAL NOT NULL,
    direction TEXT NOT NULL,
    confidence REAL NOT NULL,
    edge REAL NOT NULL,
    sentiment_score REAL NOT NULL,
    reasoning TEXT NOT NULL,
    trade_size REAL NOT NULL,
    open_time TEXT NOT NULL,
    resolve_time TEXT,
    outcome TEXT,
    resolved_value REAL,
    pnl REAL,
    created_at TEXT NOT NULL DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_trades_market ON paper_trades(market_id);
CREATE INDEX IF NOT EXISTS idx_trades_open ON paper_trades(outcome) WHERE outcome IS NULL;
`
