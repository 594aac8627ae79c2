package report

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/olekukonko/tablewriter"

	"edgehound/internal/ledger"
	"edgehound/internal/pipeline"
)

// Reporter renders cycle results and ledger stats to a console writer.
type Reporter struct {
	out io.Writer
}

func New(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

// Cycle prints the trades accepted in one scan cycle.
func (r *Reporter) Cycle(result *pipeline.CycleResult) {
	fmt.Fprintf(r.out, "\nScanned %d events (%d markets); skipped %d past-date, %d past-year, %d beyond horizon\n",
		result.Events, result.Markets, result.SkippedDate, result.SkippedYear, result.TooFarOut)

	if len(result.Accepted) == 0 {
		fmt.Fprintln(r.out, "No trades met the edge and confidence thresholds")
		return
	}

	fmt.Fprintf(r.out, "Paper trades: %d\n", len(result.Accepted))

	table := tablewriter.NewWriter(r.out)
	table.Header("#", "Market", "Dir", "Ours", "Market", "Edge", "Conf", "Size")

	for i, t := range result.Accepted {
		table.Append(
			fmt.Sprintf("%d", i+1),
			truncate(t.Question, 45),
			t.Direction,
			fmt.Sprintf("%.0f%%", t.OurPrediction*100),
			fmt.Sprintf("%.0f%%", t.MarketOdds*100),
			fmt.Sprintf("%.0f%%", t.Edge*100),
			fmt.Sprintf("%.2f", t.Confidence),
			fmt.Sprintf("$%.2f", t.TradeSize),
		)
	}

	table.Render()
}

// Stats prints the historical ledger aggregate.
func (r *Reporter) Stats(s ledger.Stats) {
	table := tablewriter.NewWriter(r.out)
	table.Header("Trades", "Resolved", "Wins", "Losses", "Win rate", "Total PnL")
	table.Append(
		fmt.Sprintf("%d", s.TotalTrades),
		fmt.Sprintf("%d", s.Resolved),
		fmt.Sprintf("%d", s.Wins),
		fmt.Sprintf("%d", s.Losses),
		fmt.Sprintf("%.1f%%", s.WinRate*100),
		fmt.Sprintf("$%.2f", s.TotalPnL),
	)
	table.Render()

	slog.Info("ledger stats",
		"total_trades", s.TotalTrades,
		"resolved", s.Resolved,
		"wins", s.Wins,
		"losses", s.Losses,
		"win_rate", s.WinRate,
		"total_pnl", s.TotalPnL,
	)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
