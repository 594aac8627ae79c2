package reconcile

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"edgehound/internal/ledger"
	"edgehound/internal/listing"
)

// Reconciler closes open ledger rows whose markets have since resolved.
type Reconciler struct {
	lookup listing.MarketLookup
	ledger *ledger.Ledger
}

func New(lookup listing.MarketLookup, led *ledger.Ledger) *Reconciler {
	return &Reconciler{lookup: lookup, ledger: led}
}

// Run checks every open trade against the provider. Lookup failures skip
// that market only; the pass always completes.
func (r *Reconciler) Run(ctx context.Context) error {
	open, err := r.ledger.OpenTrades(ctx)
	if err != nil {
		return err
	}
	if len(open) == 0 {
		slog.Info("no open trades to reconcile")
		return nil
	}

	resolved := 0
	for _, t := range open {
		rec, err := r.lookup.FetchMarket(ctx, t.MarketID)
		if err != nil {
			slog.Warn("resolution lookup failed", "market", t.MarketID, "error", err)
			continue
		}
		if !rec.Resolved {
			continue
		}

		value := resolvedValue(rec.Outcome)
		outcome := outcomeFor(t.Direction, value)

		err = r.ledger.Resolve(ctx, t.MarketID, outcome, value)
		switch {
		case errors.Is(err, ledger.ErrAlreadyResolved):
			continue
		case err != nil:
			slog.Error("resolve failed", "market", t.MarketID, "error", err)
			continue
		}

		resolved++
		slog.Info("trade resolved",
			"market", t.MarketID,
			"direction", t.Direction,
			"outcome", outcome,
			"resolved_value", value,
		)
	}

	slog.Info("reconciliation complete", "open", len(open), "resolved", resolved)
	return nil
}

// resolvedValue maps the provider's resolution to the YES settlement value.
func resolvedValue(outcome string) float64 {
	if strings.EqualFold(outcome, "yes") {
		return 1.0
	}
	return 0.0
}

// outcomeFor reports whether our direction matched the resolution.
func outcomeFor(direction string, resolvedValue float64) string {
	yesWon := resolvedValue == 1.0
	if (direction == "YES") == yesWon {
		return "WIN"
	}
	return "LOSS"
}
