package ledger

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"testing"
	"time"
)

func newTestLedger(t *testing.T) (*Ledger, *sql.DB) {
	t.Helper()
	database, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { database.Close() })

	if err := Migrate(database); err != nil {
		t.Fatal(err)
	}
	return New(database), database
}

func testTrade(id, marketID string) PaperTrade {
	return PaperTrade{
		ID:            id,
		MarketID:      marketID,
		Question:      "Will Bitcoin reach $100k?",
		Category:      "crypto",
		OurPrediction: 0.60,
		MarketOdds:    0.35,
		Direction:     "YES",
		Confidence:    0.70,
		Edge:          0.25,
		Sentiment:     0.40,
		Reasoning:     "Bullish sentiment (+0.40) from 4 sources",
		TradeSize:     38,
		OpenTime:      time.Now().UTC(),
	}
}

func TestMigrate_CreatesTables(t *testing.T) {
	_, database := newTestLedger(t)

	for _, table := range []string{"schema_version", "paper_trades"} {
		row := database.QueryRow(
			`SELECT count(*) FROM sqlite_master WHERE type='table' AND name=?`, table)
		var count int
		if err := row.Scan(&count); err != nil {
			t.Fatalf("checking table %s: %v", table, err)
		}
		if count != 1 {
			t.Errorf("table %s not found", table)
		}
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	database, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer database.Close()

	// Run twice — should not error.
	if err := Migrate(database); err != nil {
		t.Fatal(err)
	}
	if err := Migrate(database); err != nil {
		t.Fatal(err)
	}
}

func TestRecord_PersistsAllFields(t *testing.T) {
	led, database := newTestLedger(t)
	ctx := context.Background()

	if err := led.Record(ctx, []PaperTrade{testTrade("t1", "m1")}); err != nil {
		t.Fatal(err)
	}

	var question string
	var prediction, size float64
	var outcome sql.NullString
	row := database.QueryRow(
		`SELECT question, our_prediction, trade_size, outcome FROM paper_trades WHERE id = 't1'`)
	if err := row.Scan(&question, &prediction, &size, &outcome); err != nil {
		t.Fatal(err)
	}
	if question != "Will Bitcoin reach $100k?" {
		t.Errorf("unexpected question %q", question)
	}
	if prediction != 0.60 {
		t.Errorf("expected prediction 0.60, got %f", prediction)
	}
	if size != 38 {
		t.Errorf("expected size 38, got %f", size)
	}
	if outcome.Valid {
		t.Error("new trade should have NULL outcome")
	}
}

func TestRecord_EmptyBatchIsNoop(t *testing.T) {
	led, _ := newTestLedger(t)

	if err := led.Record(context.Background(), nil); err != nil {
		t.Fatal(err)
	}

	stats, err := led.Stats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalTrades != 0 {
		t.Errorf("expected empty ledger, got %d trades", stats.TotalTrades)
	}
}

func TestResolve_WinComputesPnL(t *testing.T) {
	led, _ := newTestLedger(t)
	ctx := context.Background()

	// YES at odds 0.35 with size 38: 38/0.35 shares paying 1.0 each.
	if err := led.Record(ctx, []PaperTrade{testTrade("t1", "m1")}); err != nil {
		t.Fatal(err)
	}
	if err := led.Resolve(ctx, "m1", "WIN", 1.0); err != nil {
		t.Fatal(err)
	}

	trades, err := led.OpenTrades(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(trades) != 0 {
		t.Fatalf("expected no open trades after resolve, got %d", len(trades))
	}

	stats, err := led.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	wantPnL := math.Round((38/0.35-38)*100) / 100
	if stats.TotalPnL != wantPnL {
		t.Errorf("expected pnl %f, got %f", wantPnL, stats.TotalPnL)
	}
	if stats.Wins != 1 {
		t.Errorf("expected 1 win, got %d", stats.Wins)
	}
}

func TestResolve_LossLosesStake(t *testing.T) {
	led, _ := newTestLedger(t)
	ctx := context.Background()

	if err := led.Record(ctx, []PaperTrade{testTrade("t1", "m1")}); err != nil {
		t.Fatal(err)
	}
	// YES position, market resolved NO: every share pays zero.
	if err := led.Resolve(ctx, "m1", "LOSS", 0.0); err != nil {
		t.Fatal(err)
	}

	stats, err := led.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalPnL != -38 {
		t.Errorf("expected pnl -38, got %f", stats.TotalPnL)
	}
	if stats.Losses != 1 {
		t.Errorf("expected 1 loss, got %d", stats.Losses)
	}
}

func TestResolve_SecondCallReturnsAlreadyResolved(t *testing.T) {
	led, _ := newTestLedger(t)
	ctx := context.Background()

	if err := led.Record(ctx, []PaperTrade{testTrade("t1", "m1")}); err != nil {
		t.Fatal(err)
	}
	if err := led.Resolve(ctx, "m1", "WIN", 1.0); err != nil {
		t.Fatal(err)
	}

	err := led.Resolve(ctx, "m1", "LOSS", 0.0)
	if !errors.Is(err, ErrAlreadyResolved) {
		t.Fatalf("expected ErrAlreadyResolved, got %v", err)
	}

	// The original resolution must be untouched.
	stats, err := led.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Wins != 1 || stats.Losses != 0 {
		t.Errorf("expected 1 win / 0 losses, got %d / %d", stats.Wins, stats.Losses)
	}
}

func TestResolve_UnknownMarket(t *testing.T) {
	led, _ := newTestLedger(t)

	err := led.Resolve(context.Background(), "nope", "WIN", 1.0)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOpenPositions_TracksUnresolvedOnly(t *testing.T) {
	led, _ := newTestLedger(t)
	ctx := context.Background()

	trades := []PaperTrade{testTrade("t1", "m1"), testTrade("t2", "m2")}
	if err := led.Record(ctx, trades); err != nil {
		t.Fatal(err)
	}

	open, err := led.OpenPositions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if open.Count != 2 {
		t.Fatalf("expected 2 open positions, got %d", open.Count)
	}
	if !open.Has("m1") || !open.Has("m2") {
		t.Error("expected m1 and m2 to be open")
	}

	if err := led.Resolve(ctx, "m1", "WIN", 1.0); err != nil {
		t.Fatal(err)
	}

	open, err = led.OpenPositions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if open.Count != 1 || open.Has("m1") {
		t.Errorf("expected only m2 open, got count %d", open.Count)
	}
}

func TestStats_WinRate(t *testing.T) {
	led, _ := newTestLedger(t)
	ctx := context.Background()

	trades := []PaperTrade{
		testTrade("t1", "m1"),
		testTrade("t2", "m2"),
		testTrade("t3", "m3"),
	}
	if err := led.Record(ctx, trades); err != nil {
		t.Fatal(err)
	}
	if err := led.Resolve(ctx, "m1", "WIN", 1.0); err != nil {
		t.Fatal(err)
	}
	if err := led.Resolve(ctx, "m2", "LOSS", 0.0); err != nil {
		t.Fatal(err)
	}

	stats, err := led.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalTrades != 3 {
		t.Errorf("expected 3 trades, got %d", stats.TotalTrades)
	}
	if stats.Resolved != 2 {
		t.Errorf("expected 2 resolved, got %d", stats.Resolved)
	}
	if stats.WinRate != 0.5 {
		t.Errorf("expected win rate 0.5, got %f", stats.WinRate)
	}
}

func TestComputePnL(t *testing.T) {
	cases := []struct {
		name          string
		direction     string
		size, odds    float64
		resolvedValue float64
		want          float64
	}{
		{"yes win", "YES", 38, 0.35, 1.0, math.Round((38/0.35-38)*100) / 100},
		{"yes loss", "YES", 38, 0.35, 0.0, -38},
		{"no win", "NO", 20, 0.80, 0.0, math.Round((20/0.20-20)*100) / 100},
		{"no loss", "NO", 20, 0.80, 1.0, -20},
		{"degenerate price", "YES", 38, 0, 1.0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := computePnL(tc.direction, tc.size, tc.odds, tc.resolvedValue)
			if got != tc.want {
				t.Errorf("expected %f, got %f", tc.want, got)
			}
		})
	}
}
