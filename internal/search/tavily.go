package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/time/rate"

	"edgehound/internal/config"
	"edgehound/internal/predict"
)

// TavilyClient implements predict.Searcher against the Tavily search API.
type TavilyClient struct {
	baseURL    string
	apiKey     string
	maxResults int
	client     *http.Client
	limiter    *rate.Limiter
}

func NewTavilyClient(cfg config.SearchConfig, apiKey string) *TavilyClient {
	return &TavilyClient{
		baseURL:    cfg.BaseURL,
		apiKey:     apiKey,
		maxResults: cfg.MaxResults,
		client:     &http.Client{Timeout: cfg.Timeout.Duration},
		// Tavily's free tier allows roughly one request per second.
		limiter: rate.NewLimiter(rate.Limit(1), 1),
	}
}

type searchRequest struct {
	Query         string `json:"query"`
	MaxResults    int    `json:"max_results"`
	IncludeAnswer bool   `json:"include_answer"`
}

type searchResponse struct {
	Answer  string `json:"answer"`
	Results []struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	} `json:"results"`
}

// Search runs one query. The caller treats any error as "no data"; the
// bounded client timeout keeps a slow search from stalling the cycle.
func (t *TavilyClient) Search(ctx context.Context, query string) (predict.SearchResult, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return predict.SearchResult{}, err
	}

	body, err := json.Marshal(searchRequest{
		Query:         query,
		MaxResults:    t.maxResults,
		IncludeAnswer: true,
	})
	if err != nil {
		return predict.SearchResult{}, fmt.Errorf("encoding search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return predict.SearchResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.apiKey)

	resp, err := t.client.Do(req)
	if err != nil {
		return predict.SearchResult{}, fmt.Errorf("searching: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return predict.SearchResult{}, fmt.Errorf("search API status %d", resp.StatusCode)
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return predict.SearchResult{}, fmt.Errorf("decoding search response: %w", err)
	}

	result := predict.SearchResult{Answer: decoded.Answer}
	for _, r := range decoded.Results {
		result.Snippets = append(result.Snippets, predict.Snippet{
			Title:   r.Title,
			Content: r.Content,
		})
	}
	return result, nil
}
