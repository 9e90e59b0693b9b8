// Package searching provides the client for the external semantic-search
// service that backs knowledge-base answers.
package searching

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Document is one retrieved knowledge-base snippet.
type Document struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// Searcher retrieves the k most relevant documents for a query.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]Document, error)
}

// Config holds search client settings.
type Config struct {
	Endpoint string
	Timeout  time.Duration
}

// Client is an HTTP Searcher.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient constructs a search client for the configured endpoint.
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

type searchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

type searchResponse struct {
	Results []Document `json:"results"`
}

// Search posts the query and returns the ranked documents. An empty result
// set is not an error; callers decide how to answer without context.
func (c *Client) Search(ctx context.Context, query string, k int) ([]Document, error) {
	body, err := json.Marshal(searchRequest{Query: query, TopK: k})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("search request failed with status %d: %s",
			resp.StatusCode, string(data))
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("parse search response: %w", err)
	}
	return parsed.Results, nil
}

// StaticSearcher returns a fixed result set. Used in tests and offline
// development.
type StaticSearcher struct {
	Documents []Document
	Err       error
}

// Search returns the configured documents or error.
func (s *StaticSearcher) Search(context.Context, string, int) ([]Document, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Documents, nil
}

var (
	_ Searcher = (*Client)(nil)
	_ Searcher = (*StaticSearcher)(nil)
)
