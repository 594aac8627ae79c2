package predict

import "strings"

// KeywordScorer scores sentiment by keyword membership: each bullish word
// present in the text counts +1, each bearish word -1, normalized by the
// total hits. No text or no hits scores 0.
type KeywordScorer struct {
	bullish []string
	bearish []string
}

func NewKeywordScorer() *KeywordScorer {
	return &KeywordScorer{
		bullish: []string{
			"bull", "bullish", "rally", "surge", "moon", "strong", "higher",
			"growth", "confident", "expected", "likely", "yes", "reach",
			"target", "predict", "forecast",
		},
		bearish: []string{
			"bear", "bearish", "crash", "dump", "fall", "lower", "weak",
			"unlikely", "doubt", "correction", "no",
		},
	}
}

func (k *KeywordScorer) Score(text string) float64 {
	if text == "" {
		return 0
	}
	text = strings.ToLower(text)

	var pos, neg int
	for _, w := range k.bullish {
		if strings.Contains(text, w) {
			pos++
		}
	}
	for _, w := range k.bearish {
		if strings.Contains(text, w) {
			neg++
		}
	}

	total := pos + neg
	if total == 0 {
		return 0
	}
	return float64(pos-neg) / float64(total)
}
