package pipeline

import (
	"math"

	"edgehound/internal/market"
	"edgehound/internal/predict"
)

// Opportunity is a market whose estimate diverges enough from the quote to
// be worth recording. It exists only within one scan cycle.
type Opportunity struct {
	Market     market.Market
	Prediction predict.Prediction
	Edge       float64
	Direction  string // "YES" or "NO"
}

// Score applies the edge and confidence gate. Pure function: identical
// inputs always produce the identical accept/reject decision. The edge is
// always recomputed here, never carried in from upstream.
func Score(m market.Market, p predict.Prediction, minEdge, minConfidence float64) (Opportunity, bool) {
	edge := math.Abs(p.ProbYes - m.YesPrice)
	if edge < minEdge || p.Confidence < minConfidence {
		return Opportunity{}, false
	}

	direction := "NO"
	if p.ProbYes > m.YesPrice {
		direction = "YES"
	}

	return Opportunity{
		Market:     m,
		Prediction: p,
		Edge:       edge,
		Direction:  direction,
	}, true
}
