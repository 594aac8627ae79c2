package listing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonnyspicer/mango"
)

// ManifoldSource adapts the Manifold API to the listing contract. Manifold
// serves flat market lists, so each market becomes a single-market event.
type ManifoldSource struct {
	client    *mango.Client
	maxEvents int
}

func NewManifoldSource(client *mango.Client, maxEvents int) *ManifoldSource {
	return &ManifoldSource{client: client, maxEvents: maxEvents}
}

// FetchEvents returns open binary markets sorted by liquidity.
func (m *ManifoldSource) FetchEvents(_ context.Context) ([]Event, error) {
	markets, err := m.client.SearchMarkets(mango.SearchMarketsRequest{
		Filter:       "open",
		ContractType: "BINARY",
		Sort:         "liquidity",
		Limit:        int64(m.maxEvents),
	})
	if err != nil {
		return nil, fmt.Errorf("searching binary markets: %w", err)
	}
	if markets == nil {
		return nil, nil
	}

	events := make([]Event, 0, len(*markets))
	for _, fm := range *markets {
		events = append(events, Event{
			Title:   fm.Question,
			Markets: []MarketRecord{manifoldRecord(fm)},
		})
	}

	slog.Info("fetched events", "source", "manifold", "count", len(events))
	return events, nil
}

// FetchMarket returns a single market by ID, for resolution checks.
func (m *ManifoldSource) FetchMarket(_ context.Context, id string) (*MarketRecord, error) {
	fm, err := m.client.GetMarketByID(id)
	if err != nil {
		return nil, fmt.Errorf("getting market %s: %w", id, err)
	}
	if fm == nil {
		return nil, fmt.Errorf("market %s not found", id)
	}
	rec := manifoldRecord(*fm)
	return &rec, nil
}

func manifoldRecord(fm mango.FullMarket) MarketRecord {
	return MarketRecord{
		ID:       fm.Id,
		Question: fm.Question,
		EndDate:  time.UnixMilli(fm.CloseTime).UTC().Format(time.RFC3339),
		Prices:   PriceBlock{Yes: Number(fm.Probability)},
		Volume:   Number(fm.Volume),
		Resolved: fm.IsResolved,
		Outcome:  fm.Resolution,
	}
}
