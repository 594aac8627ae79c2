package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"edgehound/internal/config"
	"edgehound/internal/ledger"
	"edgehound/internal/listing"
	"edgehound/internal/market"
	"edgehound/internal/predict"
	"edgehound/internal/risk"
)

const maxReasoningLen = 100

// CycleResult summarizes one scan cycle.
type CycleResult struct {
	Events        int
	Markets       int
	SkippedDate   int
	SkippedYear   int
	TooFarOut     int
	Predicted     int
	Opportunities int
	Accepted      []ledger.PaperTrade
}

// Pipeline drives one scan cycle: fetch, normalize, filter, predict, score,
// gate, persist.
type Pipeline struct {
	source  listing.Source
	filter  *market.Filter
	engine  *predict.Engine
	gate    *risk.Gate
	ledger  *ledger.Ledger
	riskCfg config.RiskConfig
	workers int
}

func New(
	source listing.Source,
	filter *market.Filter,
	engine *predict.Engine,
	gate *risk.Gate,
	led *ledger.Ledger,
	riskCfg config.RiskConfig,
	workers int,
) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{
		source:  source,
		filter:  filter,
		engine:  engine,
		gate:    gate,
		ledger:  led,
		riskCfg: riskCfg,
		workers: workers,
	}
}

// Scan runs one full cycle. A fetch or ledger failure aborts the cycle with
// nothing persisted; a prediction failure drops only that market.
func (p *Pipeline) Scan(ctx context.Context) (*CycleResult, error) {
	events, err := p.source.FetchEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching listings: %w", err)
	}

	markets := listing.Normalize(events)
	result := &CycleResult{Events: len(events), Markets: len(markets)}
	slog.Info("listings normalized", "events", len(events), "markets", len(markets))

	opportunities := p.evaluate(ctx, markets, result)
	result.Opportunities = len(opportunities)

	slog.Info("markets filtered",
		"tradeable", result.Predicted,
		"skipped_date", result.SkippedDate,
		"skipped_year", result.SkippedYear,
		"too_far_out", result.TooFarOut,
	)

	if len(opportunities) == 0 {
		slog.Info("no opportunities this cycle")
		return result, nil
	}

	// Best edge first, so position slots go to the strongest signals.
	sort.Slice(opportunities, func(i, j int) bool {
		return opportunities[i].Edge > opportunities[j].Edge
	})

	open, err := p.ledger.OpenPositions(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading open positions: %w", err)
	}

	now := time.Now().UTC()
	for _, opp := range opportunities {
		size, ok := p.gate.Approve(opp.Market.ID, opp.Prediction.Confidence, open)
		if !ok {
			continue
		}
		result.Accepted = append(result.Accepted, draftTrade(opp, size, now))

		// Accepted drafts count against this cycle's exposure too.
		open.Markets[opp.Market.ID] = true
		open.Count++
	}

	if err := p.ledger.Record(ctx, result.Accepted); err != nil {
		return nil, fmt.Errorf("recording trades: %w", err)
	}

	slog.Info("scan cycle complete",
		"opportunities", result.Opportunities,
		"accepted", len(result.Accepted),
	)
	return result, nil
}

// evaluate runs filter, predict and score for each market on a bounded
// worker pool. Markets are independent: no ordering requirement, and one
// market's failure never affects another.
func (p *Pipeline) evaluate(ctx context.Context, markets []market.Market, result *CycleResult) []Opportunity {
	now := time.Now().UTC()

	var mu sync.Mutex
	var opportunities []Opportunity

	sem := make(chan struct{}, p.workers)
	var wg sync.WaitGroup

	for _, m := range markets {
		wg.Add(1)
		go func(m market.Market) {
			defer wg.Done()
			sem <- struct{}{}        // Acquire.
			defer func() { <-sem }() // Release.

			verdict := p.filter.Check(m, now)
			if verdict != market.Tradeable {
				mu.Lock()
				switch verdict {
				case market.SkippedDate:
					result.SkippedDate++
					slog.Debug("market skipped", "reason", verdict.String(), "question", m.Question)
				case market.SkippedYear:
					result.SkippedYear++
					slog.Debug("market skipped", "reason", verdict.String(), "question", m.Question)
				case market.TooFarOut:
					result.TooFarOut++
				}
				mu.Unlock()
				return
			}

			pred := p.engine.PredictAnchored(ctx, m.Question, m.Category, m.YesPrice)

			mu.Lock()
			result.Predicted++
			if opp, ok := Score(m, pred, p.riskCfg.MinEdge, p.riskCfg.MinConfidence); ok {
				opportunities = append(opportunities, opp)
			}
			mu.Unlock()
		}(m)
	}

	wg.Wait()
	return opportunities
}

func draftTrade(opp Opportunity, size float64, now time.Time) ledger.PaperTrade {
	reasoning := opp.Prediction.Reasoning
	if len(reasoning) > maxReasoningLen {
		reasoning = reasoning[:maxReasoningLen]
	}

	return ledger.PaperTrade{
		ID:            uuid.NewString(),
		MarketID:      opp.Market.ID,
		Question:      opp.Market.Question,
		Category:      string(opp.Market.Category),
		OurPrediction: opp.Prediction.ProbYes,
		MarketOdds:    opp.Market.YesPrice,
		Direction:     opp.Direction,
		Confidence:    opp.Prediction.Confidence,
		Edge:          opp.Edge,
		Sentiment:     opp.Prediction.Sentiment,
		Reasoning:     reasoning,
		TradeSize:     size,
		OpenTime:      now,
	}
}
