package predict

import (
	"fmt"
	"strings"

	"edgehound/internal/market"
)

const maxQueryLen = 100

// stopwords are dropped from the question before searching: they carry no
// signal and waste query budget.
var stopwords = map[string]bool{
	"will": true,
	"by":   true,
	"the":  true,
	"in":   true,
	"on":   true,
	"if":   true,
}

// BuildQuery turns a market question into a search query: lowercase, strip
// stopwords and price punctuation, append category context, cap the length.
func BuildQuery(question string, cat market.Category, year int) string {
	var kept []string
	for _, w := range strings.Fields(strings.ToLower(question)) {
		w = strings.Trim(w, "?$%")
		if w == "" || stopwords[w] {
			continue
		}
		kept = append(kept, w)
	}

	if ctx := categoryContext(cat, year); ctx != "" {
		kept = append(kept, ctx)
	}
	query := strings.Join(kept, " ")

	if len(query) > maxQueryLen {
		query = strings.TrimSpace(query[:maxQueryLen])
	}
	return query
}

// categoryContext returns the per-category search phrase. Every category is
// an explicit arm: politics, sports and technology share generic phrasing
// until specialized analyzers exist, and that gap is visible here rather
// than hidden behind a default case.
func categoryContext(cat market.Category, year int) string {
	switch cat {
	case market.CategoryCrypto:
		return fmt.Sprintf("price prediction forecast %d", year)
	case market.CategoryPolitics:
		return "polls odds prediction"
	case market.CategorySports:
		return "odds prediction"
	case market.CategoryTechnology:
		return "forecast"
	case market.CategoryOther:
		return ""
	}
	return ""
}
