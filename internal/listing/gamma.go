package listing

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/time/rate"

	"edgehound/internal/config"
)

// GammaSource fetches active events from a Gamma-style REST API.
type GammaSource struct {
	baseURL   string
	maxEvents int
	client    *http.Client
	limiter   *rate.Limiter
}

func NewGammaSource(cfg config.ListingConfig) *GammaSource {
	return &GammaSource{
		baseURL:   cfg.GammaBaseURL,
		maxEvents: cfg.MaxEvents,
		client:    &http.Client{Timeout: cfg.RequestTimeout.Duration},
		limiter:   rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), 1),
	}
}

// FetchEvents returns active, unresolved events with their nested markets.
func (g *GammaSource) FetchEvents(ctx context.Context) ([]Event, error) {
	q := url.Values{}
	q.Set("active", "true")
	q.Set("closed", "false")
	q.Set("limit", strconv.Itoa(g.maxEvents))

	var events []Event
	if err := g.getJSON(ctx, "/events?"+q.Encode(), &events); err != nil {
		return nil, fmt.Errorf("fetching events: %w", err)
	}

	slog.Info("fetched events", "source", "gamma", "count", len(events))
	return events, nil
}

// FetchMarket returns a single market by ID, for resolution checks.
func (g *GammaSource) FetchMarket(ctx context.Context, id string) (*MarketRecord, error) {
	var rec MarketRecord
	if err := g.getJSON(ctx, "/markets/"+url.PathEscape(id), &rec); err != nil {
		return nil, fmt.Errorf("fetching market %s: %w", id, err)
	}
	return &rec, nil
}

func (g *GammaSource) getJSON(ctx context.Context, path string, out any) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
