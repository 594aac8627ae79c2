package predict

import (
	"context"
	"strings"
)

// Prediction is the engine's estimate for one market question.
type Prediction struct {
	ProbYes    float64 // estimated probability of YES, clamped to [0.05, 0.95]
	Confidence float64 // self-reported certainty, clamped to [0, 0.85]
	Sentiment  float64 // lexical polarity of retrieved text, -1 to +1
	Reasoning  string  // audit display only, never used for scoring
	Sources    int     // corroborating sources behind the estimate
}

// Searcher retrieves supporting text for a query. Implementations own the
// transport (HTTP API, local index, test stub); the engine only sees text.
type Searcher interface {
	Search(ctx context.Context, query string) (SearchResult, error)
}

// SearchResult is what a Searcher returns for one query.
type SearchResult struct {
	Answer   string
	Snippets []Snippet
}

// Snippet is one retrieved source.
type Snippet struct {
	Title   string
	Content string
}

// Empty reports whether the search produced nothing usable.
func (r SearchResult) Empty() bool {
	return r.Answer == "" && len(r.Snippets) == 0
}

// Text concatenates everything retrieved, for sentiment scoring.
func (r SearchResult) Text() string {
	var b strings.Builder
	b.WriteString(r.Answer)
	for _, s := range r.Snippets {
		b.WriteByte(' ')
		b.WriteString(s.Title)
		b.WriteByte(' ')
		b.WriteString(s.Content)
	}
	return b.String()
}

// SentimentScorer scores text polarity in [-1, 1]. Kept behind an interface
// so the keyword scorer can be swapped for a model-backed one without
// touching the engine.
type SentimentScorer interface {
	Score(text string) float64
}
