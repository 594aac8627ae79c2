package risk

import (
	"log/slog"
	"math"

	"edgehound/internal/config"
	"edgehound/internal/ledger"
)

// Gate enforces the position-count and duplicate-market limits and sizes
// approved positions. It is the only place those two invariants live.
type Gate struct {
	cfg config.RiskConfig
}

func NewGate(cfg config.RiskConfig) *Gate {
	return &Gate{cfg: cfg}
}

// Approve decides whether a market may take on a new position given current
// open exposure, and returns the proposed size. Rejections are normal
// negative decisions, not errors.
func (g *Gate) Approve(marketID string, confidence float64, open ledger.OpenPositions) (float64, bool) {
	if open.Count >= g.cfg.MaxOpenPositions {
		slog.Debug("gate rejected: max open positions",
			"market", marketID,
			"open", open.Count,
			"limit", g.cfg.MaxOpenPositions,
		)
		return 0, false
	}

	if open.Has(marketID) {
		slog.Debug("gate rejected: position already open", "market", marketID)
		return 0, false
	}

	return g.Size(confidence), true
}

// Size computes the proposed position size: base plus a confidence-scaled
// increment, capped at the per-trade maximum. Monotonically non-decreasing
// in confidence and never below base.
func (g *Gate) Size(confidence float64) float64 {
	size := g.cfg.BaseSize + confidence*g.cfg.ConfidenceScale
	size = math.Min(size, g.cfg.MaxTradeSize)
	return math.Round(size*100) / 100
}
