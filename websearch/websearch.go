// Package websearch fetches optional web context for a council turn.
//
// A search failure is never fatal to a turn. Callers treat any error from a
// Searcher as "no findings" and move on.
package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Finding is a single web search result.
type Finding struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Snippet     string `json:"snippet"`
	PublishedAt string `json:"published_at,omitempty"`
}

// Searcher retrieves findings for a query.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]Finding, error)
}

// HTTPSearcher calls a JSON search API over HTTP.
//
// The request body is {"query": ..., "max_results": ...} and the expected
// response shape is {"results": [{title, url, snippet, published_at}]}.
type HTTPSearcher struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewHTTPSearcher creates a searcher for the given endpoint. The API key is
// optional; when set it is sent as a bearer token.
func NewHTTPSearcher(endpoint, apiKey string) (*HTTPSearcher, error) {
	if endpoint == "" {
		return nil, errors.New("search endpoint cannot be empty")
	}
	return &HTTPSearcher{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 15 * time.Second},
	}, nil
}

type searchRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type searchResponse struct {
	Results []Finding `json:"results"`
}

// Search implements Searcher. It issues a single POST and decodes the
// results list. maxResults values below 1 are clamped to 1.
func (s *HTTPSearcher) Search(ctx context.Context, query string, maxResults int) ([]Finding, error) {
	if maxResults < 1 {
		maxResults = 1
	}

	body, err := json.Marshal(searchRequest{Query: query, MaxResults: maxResults})
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API returned status %d", resp.StatusCode)
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	if len(decoded.Results) > maxResults {
		decoded.Results = decoded.Results[:maxResults]
	}
	return decoded.Results, nil
}

// NullSearcher returns no findings for every query. Used when no search
// endpoint is configured.
type NullSearcher struct{}

// Search implements Searcher with an always-empty result.
func (NullSearcher) Search(ctx context.Context, query string, maxResults int) ([]Finding, error) {
	return nil, nil
}
