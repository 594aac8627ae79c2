package risk

import (
	"testing"

	"edgehound/internal/config"
	"edgehound/internal/ledger"
)

func newTestGate() *Gate {
	return NewGate(config.RiskConfig{
		MinEdge:          0.10,
		MinConfidence:    0.65,
		MaxTradeSize:     50,
		MaxOpenPositions: 5,
		BaseSize:         10,
		ConfidenceScale:  40,
	})
}

func noPositions() ledger.OpenPositions {
	return ledger.OpenPositions{Markets: make(map[string]bool)}
}

func TestSize_ScalesWithConfidence(t *testing.T) {
	g := newTestGate()

	// 10 + 0.70*40 = 38.
	if size := g.Size(0.70); size != 38 {
		t.Errorf("expected size 38 at confidence 0.70, got %f", size)
	}

	// Zero confidence still stakes the base.
	if size := g.Size(0); size != 10 {
		t.Errorf("expected base size 10 at zero confidence, got %f", size)
	}
}

func TestSize_CappedAtMax(t *testing.T) {
	g := newTestGate()

	// 10 + 1.0*40 = 50, exactly at the cap.
	if size := g.Size(1.0); size != 50 {
		t.Errorf("expected size 50, got %f", size)
	}

	// Above the cap with a generous scale.
	g2 := NewGate(config.RiskConfig{MaxTradeSize: 50, BaseSize: 10, ConfidenceScale: 100})
	if size := g2.Size(0.85); size != 50 {
		t.Errorf("expected cap 50, got %f", size)
	}
}

func TestApprove_AllowsWithinLimits(t *testing.T) {
	g := newTestGate()

	size, ok := g.Approve("m1", 0.70, noPositions())
	if !ok {
		t.Fatal("expected approval with no open positions")
	}
	if size != 38 {
		t.Errorf("expected size 38, got %f", size)
	}
}

func TestApprove_RejectsAtMaxPositions(t *testing.T) {
	g := newTestGate()

	open := noPositions()
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		open.Markets[id] = true
		open.Count++
	}

	if _, ok := g.Approve("m1", 0.90, open); ok {
		t.Error("expected rejection at max open positions")
	}
}

func TestApprove_RejectsDuplicateMarket(t *testing.T) {
	g := newTestGate()

	open := noPositions()
	open.Markets["m1"] = true
	open.Count = 1

	if _, ok := g.Approve("m1", 0.90, open); ok {
		t.Error("expected rejection for market with open position")
	}

	// A different market is still fine.
	if _, ok := g.Approve("m2", 0.90, open); !ok {
		t.Error("expected approval for a fresh market")
	}
}
