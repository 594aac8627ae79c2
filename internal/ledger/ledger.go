package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrNotFound means no open trade exists for the market.
	ErrNotFound = errors.New("no open trade for market")
	// ErrAlreadyResolved means every trade for the market is already
	// settled; resolved rows are immutable.
	ErrAlreadyResolved = errors.New("trade already resolved")
)

// PaperTrade is one ledger row: an accepted, hypothetical position and,
// once resolved, its outcome and profit-and-loss.
type PaperTrade struct {
	ID            string
	MarketID      string
	Question      string
	Category      string
	OurPrediction float64
	MarketOdds    float64
	Direction     string // "YES" or "NO"
	Confidence    float64
	Edge          float64
	Sentiment     float64
	Reasoning     string
	TradeSize     float64
	OpenTime      time.Time
	ResolveTime   *time.Time
	Outcome       *string
	ResolvedValue *float64
	PnL           *float64
}

// Stats aggregates the ledger: all rows, plus win/loss figures among the
// resolved ones.
type Stats struct {
	TotalTrades int
	Resolved    int
	Wins        int
	Losses      int
	WinRate     float64
	TotalPnL    float64
}

// OpenPositions is the risk gate's view of current exposure.
type OpenPositions struct {
	Count   int
	Markets map[string]bool
}

// Has reports whether the market already carries an open position.
func (o OpenPositions) Has(marketID string) bool {
	return o.Markets[marketID]
}

// Ledger is the durable paper-trade store.
type Ledger struct {
	db *sql.DB
}

func New(db *sql.DB) *Ledger {
	return &Ledger{db: db}
}

// Record inserts all trades from one scan cycle in a single transaction:
// either every row becomes visible or none does.
func (l *Ledger) Record(ctx context.Context, trades []PaperTrade) error {
	if len(trades) == 0 {
		return nil
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO paper_trades
			(id, market_id, question, category, our_prediction, market_odds,
			 direction, confidence, edge, sentiment_score, reasoning,
			 trade_size, open_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range trades {
		if _, err := stmt.ExecContext(ctx,
			t.ID, t.MarketID, t.Question, t.Category, t.OurPrediction,
			t.MarketOdds, t.Direction, t.Confidence, t.Edge, t.Sentiment,
			t.Reasoning, t.TradeSize, t.OpenTime.UTC().Format(time.RFC3339),
		); err != nil {
			return fmt.Errorf("inserting trade %s: %w", t.MarketID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing trades: %w", err)
	}
	return nil
}

// Resolve settles the open trade for a market, computing profit-and-loss
// from the recorded entry price and the resolved value. It updates exactly
// one row, exactly once: a second call for the same market returns
// ErrAlreadyResolved, never an overwrite.
func (l *Ledger) Resolve(ctx context.Context, marketID, outcome string, resolvedValue float64) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var id, direction string
	var size, odds float64
	err = tx.QueryRowContext(ctx, `
		SELECT id, direction, trade_size, market_odds
		FROM paper_trades
		WHERE market_id = ? AND outcome IS NULL`, marketID).
		Scan(&id, &direction, &size, &odds)
	if errors.Is(err, sql.ErrNoRows) {
		// Distinguish a replayed resolution from an unknown market.
		var n int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM paper_trades WHERE market_id = ?`, marketID).Scan(&n); err != nil {
			return fmt.Errorf("checking resolved trades: %w", err)
		}
		if n > 0 {
			return ErrAlreadyResolved
		}
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("loading open trade: %w", err)
	}

	pnl := computePnL(direction, size, odds, resolvedValue)
	now := time.Now().UTC().Format(time.RFC3339)

	if _, err := tx.ExecContext(ctx, `
		UPDATE paper_trades
		SET resolve_time = ?, outcome = ?, resolved_value = ?, pnl = ?
		WHERE id = ?`, now, outcome, resolvedValue, pnl, id,
	); err != nil {
		return fmt.Errorf("updating trade %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing resolution: %w", err)
	}
	return nil
}

// computePnL settles a binary position: the stake bought trade_size/price
// shares at the recorded market price, each share paying out the resolved
// value (YES) or its complement (NO).
func computePnL(direction string, size, odds, resolvedValue float64) float64 {
	price := odds
	payoutPerShare := resolvedValue
	if direction == "NO" {
		price = 1 - odds
		payoutPerShare = 1 - resolvedValue
	}
	if price <= 0 || price >= 1 {
		// Degenerate entry price; nothing sensible to settle.
		return 0
	}
	shares := size / price
	return math.Round((shares*payoutPerShare-size)*100) / 100
}

// OpenPositions returns the count and market set of unresolved trades.
func (l *Ledger) OpenPositions(ctx context.Context) (OpenPositions, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT DISTINCT market_id FROM paper_trades WHERE outcome IS NULL`)
	if err != nil {
		return OpenPositions{}, fmt.Errorf("querying open positions: %w", err)
	}
	defer rows.Close()

	open := OpenPositions{Markets: make(map[string]bool)}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return OpenPositions{}, fmt.Errorf("scanning open position: %w", err)
		}
		open.Markets[id] = true
		open.Count++
	}
	return open, rows.Err()
}

// OpenTrades returns all unresolved rows, oldest first, for the reconciler.
func (l *Ledger) OpenTrades(ctx context.Context) ([]PaperTrade, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, market_id, question, category, our_prediction, market_odds,
		       direction, confidence, edge, sentiment_score, reasoning,
		       trade_size, open_time
		FROM paper_trades
		WHERE outcome IS NULL
		ORDER BY open_time ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying open trades: %w", err)
	}
	defer rows.Close()

	var trades []PaperTrade
	for rows.Next() {
		var t PaperTrade
		var openTime string
		if err := rows.Scan(
			&t.ID, &t.MarketID, &t.Question, &t.Category, &t.OurPrediction,
			&t.MarketOdds, &t.Direction, &t.Confidence, &t.Edge, &t.Sentiment,
			&t.Reasoning, &t.TradeSize, &openTime,
		); err != nil {
			return nil, fmt.Errorf("scanning open trade: %w", err)
		}
		t.OpenTime, _ = time.Parse(time.RFC3339, openTime)
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

// Stats aggregates the ledger. Read-only; safe to call concurrently with
// inserts.
func (l *Ledger) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	err := l.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN outcome IS NOT NULL THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN outcome = 'WIN' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN outcome = 'LOSS' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(pnl), 0)
		FROM paper_trades`).
		Scan(&s.TotalTrades, &s.Resolved, &s.Wins, &s.Losses, &s.TotalPnL)
	if err != nil {
		return Stats{}, fmt.Errorf("querying stats: %w", err)
	}

	if s.Wins+s.Losses > 0 {
		s.WinRate = float64(s.Wins) / float64(s.Wins+s.Losses)
	}
	return s, nil
}
