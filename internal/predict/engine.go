package predict

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"edgehound/internal/market"
)

const (
	probFloor = 0.05
	probCeil  = 0.95

	confidenceBase = 0.35
	confidenceCeil = 0.85
	perSourceBoost = 0.08
	maxSources     = 6 // past this, source count stops raising confidence

	neutralAnchor      = 0.5
	neutralAdjustment  = 0.25
	anchoredAdjustment = 0.30
)

// Engine estimates probability-of-YES for market questions. Results are
// memoized per (question, category) for the process lifetime; the first
// computation for a key wins, anchor included.
type Engine struct {
	searcher Searcher
	scorer   SentimentScorer
	cache    *Cache
}

func NewEngine(searcher Searcher, scorer SentimentScorer, cache *Cache) *Engine {
	return &Engine{searcher: searcher, scorer: scorer, cache: cache}
}

// Predict estimates without a market anchor: probability starts at 0.5 and
// moves with sentiment.
func (e *Engine) Predict(ctx context.Context, question string, cat market.Category) Prediction {
	return e.predict(ctx, question, cat, neutralAnchor, neutralAdjustment)
}

// PredictAnchored estimates starting from the quoted market price, with a
// stronger sentiment adjustment. The pipeline always has a quote, so this
// is the production path.
func (e *Engine) PredictAnchored(ctx context.Context, question string, cat market.Category, quoted float64) Prediction {
	return e.predict(ctx, question, cat, quoted, anchoredAdjustment)
}

func (e *Engine) predict(ctx context.Context, question string, cat market.Category, anchor, adjustment float64) Prediction {
	key := Key{Question: question, Category: cat}
	if p, ok := e.cache.Get(key); ok {
		return p
	}

	query := BuildQuery(question, cat, time.Now().UTC().Year())

	result, err := e.searcher.Search(ctx, query)
	if err != nil {
		// Research failures degrade to a neutral estimate, never propagate.
		slog.Warn("search failed, using neutral prediction", "query", query, "error", err)
		result = SearchResult{}
	}

	p := e.derive(result, anchor, adjustment)
	e.cache.Put(key, p)

	slog.Debug("prediction computed",
		"category", cat,
		"prob_yes", p.ProbYes,
		"confidence", p.Confidence,
		"sentiment", p.Sentiment,
		"sources", p.Sources,
	)
	return p
}

func (e *Engine) derive(result SearchResult, anchor, adjustment float64) Prediction {
	if result.Empty() {
		return Prediction{ProbYes: 0.5, Confidence: 0, Reasoning: "no data"}
	}

	sentiment := round2(e.scorer.Score(result.Text()))
	sources := len(result.Snippets)

	probYes := clamp(anchor+sentiment*adjustment, probFloor, probCeil)

	effective := sources
	if effective > maxSources {
		effective = maxSources
	}
	confidence := confidenceBase + float64(effective)*perSourceBoost + math.Abs(sentiment)*0.25
	confidence = clamp(confidence, 0, confidenceCeil)

	return Prediction{
		ProbYes:    round2(probYes),
		Confidence: round2(confidence),
		Sentiment:  sentiment,
		Reasoning:  reasoning(sentiment, sources),
		Sources:    sources,
	}
}

func reasoning(sentiment float64, sources int) string {
	bucket := "Mixed"
	switch {
	case sentiment > 0.3:
		bucket = "Bullish"
	case sentiment < -0.3:
		bucket = "Bearish"
	}
	return fmt.Sprintf("%s sentiment (%+.2f) from %d sources", bucket, sentiment, sources)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
