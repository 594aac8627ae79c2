package market

import (
	"strings"
	"time"
)

// Market is an immutable snapshot of one binary prediction market,
// taken once per scan cycle. The pipeline never mutates it.
type Market struct {
	ID       string
	Question string
	Category Category
	YesPrice float64   // quoted probability of YES, 0-1
	EndDate  time.Time // zero when the provider gave none
	Volume   float64
}

// Category tags a market for category-specific research context.
type Category string

const (
	CategoryCrypto     Category = "crypto"
	CategoryPolitics   Category = "politics"
	CategorySports     Category = "sports"
	CategoryTechnology Category = "technology"
	CategoryOther      Category = "other"
)

var categoryKeywords = []struct {
	cat   Category
	words []string
}{
	{CategoryCrypto, []string{"bitcoin", "btc", "crypto", "ethereum"}},
	{CategoryPolitics, []string{"trump", "biden", "election", "senate"}},
	{CategorySports, []string{"super bowl", "nba", "nfl", "championship"}},
}

// DetectCategory classifies a market question by keyword. Questions that
// match nothing fall into CategoryOther; CategoryTechnology is only assigned
// through an explicit provider tag, never detected.
func DetectCategory(question string) Category {
	q := strings.ToLower(question)
	for _, ck := range categoryKeywords {
		for _, w := range ck.words {
			if strings.Contains(q, w) {
				return ck.cat
			}
		}
	}
	return CategoryOther
}

// ParseCategory maps a provider-supplied tag onto a known Category,
// falling back to keyword detection on the question.
func ParseCategory(tag, question string) Category {
	switch Category(strings.ToLower(tag)) {
	case CategoryCrypto:
		return CategoryCrypto
	case CategoryPolitics:
		return CategoryPolitics
	case CategorySports:
		return CategorySports
	case CategoryTechnology:
		return CategoryTechnology
	}
	return DetectCategory(question)
}
