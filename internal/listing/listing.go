package listing

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
)

// Event is one provider event with nested markets. Providers also serve
// flat market lists; those decode as events with a single market each.
type Event struct {
	Title   string         `json:"title"`
	EndDate string         `json:"endDate"`
	Markets []MarketRecord `json:"markets"`
}

// MarketRecord is the raw inbound shape for one market. Numeric fields
// arrive as numbers or strings depending on the provider; both decode,
// and malformed values default to zero rather than failing the record.
type MarketRecord struct {
	ID       string     `json:"id"`
	Question string     `json:"question"`
	Category string     `json:"category"`
	EndDate  string     `json:"endDate"`
	Prices   PriceBlock `json:"prices"`
	Volume   Number     `json:"volume"`
	Resolved bool       `json:"resolved"`
	Outcome  string     `json:"outcome"` // "Yes"/"No" once resolved
}

// PriceBlock carries the quoted YES price.
type PriceBlock struct {
	Yes Number `json:"yes"`
}

// Number decodes JSON numbers, numeric strings, and null. Anything that
// does not parse becomes 0.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*n = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*n = 0
			return nil
		}
		*n = Number(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		*n = 0
		return nil
	}
	*n = Number(f)
	return nil
}

// Source fetches active events from a listing provider.
type Source interface {
	FetchEvents(ctx context.Context) ([]Event, error)
}

// MarketLookup fetches a single market by ID, used by the resolution
// reconciler. Not every source supports it.
type MarketLookup interface {
	FetchMarket(ctx context.Context, id string) (*MarketRecord, error)
}
