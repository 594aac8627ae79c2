package listing

import (
	"time"

	"edgehound/internal/market"
)

// Normalize flattens provider events into Market entities. Markets without
// their own endDate inherit the parent event's. This is a pure transform:
// no I/O, no errors — malformed fields were already defaulted at decode time.
func Normalize(events []Event) []market.Market {
	var markets []market.Market
	for _, ev := range events {
		for _, rec := range ev.Markets {
			endDate := rec.EndDate
			if endDate == "" {
				endDate = ev.EndDate
			}
			markets = append(markets, market.Market{
				ID:       rec.ID,
				Question: rec.Question,
				Category: market.ParseCategory(rec.Category, rec.Question),
				YesPrice: float64(rec.Prices.Yes),
				EndDate:  parseEndDate(endDate),
				Volume:   float64(rec.Volume),
			})
		}
	}
	return markets
}

// parseEndDate parses an ISO-8601 timestamp, returning the zero time when
// the value is missing or unparseable. The temporal filter treats zero as
// "unknown" and lets the market through.
func parseEndDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		// Some providers drop the time component entirely.
		t, err = time.Parse("2006-01-02", s)
		if err != nil {
			return time.Time{}
		}
	}
	return t.UTC()
}
