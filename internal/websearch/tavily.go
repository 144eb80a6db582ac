// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package websearch queries the Tavily API for the corrective web-search
// fallback. Callers treat it as best-effort: failures degrade to the
// locally retrieved context and are never fatal to a turn.
package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/arxivhub/internal/httputil"
	"github.com/pdiddy/arxivhub/pkg/types"
)

// tavilyAPIBase is the Tavily search endpoint. Declared as a var so tests
// can substitute an httptest server.
var tavilyAPIBase = "https://api.tavily.com/search"

// Client queries the Tavily search API.
type Client struct {
	HTTPClient *http.Client
	APIKey     string
}

// tavilyRequest is the request body for the Tavily Search API.
type tavilyRequest struct {
	APIKey        string `json:"api_key"`
	Query         string `json:"query"`
	SearchDepth   string `json:"search_depth,omitempty"`
	IncludeAnswer bool   `json:"include_answer"`
	MaxResults    int    `json:"max_results"`
}

// tavilyResponse is the response body from the Tavily Search API.
type tavilyResponse struct {
	Query   string         `json:"query"`
	Results []tavilyResult `json:"results"`
}

type tavilyResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// Search queries Tavily and returns the raw results.
func (c *Client) Search(ctx context.Context, query string, cfg types.WebSearchConfig) ([]types.WebResult, error) {
	if query == "" {
		return nil, fmt.Errorf("empty web search query")
	}
	if c.APIKey == "" {
		return nil, fmt.Errorf("Tavily API key not configured")
	}

	depth := cfg.Depth
	if depth == "" {
		depth = "advanced"
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 3
	}

	reqBody := tavilyRequest{
		APIKey:      c.APIKey,
		Query:       query,
		SearchDepth: depth,
		MaxResults:  maxResults,
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tavilyAPIBase, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("Tavily API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Tavily API returned HTTP %d: %s", resp.StatusCode, string(body))
	}

	var tr tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("parsing Tavily response: %w", err)
	}

	results := make([]types.WebResult, 0, len(tr.Results))
	for _, r := range tr.Results {
		if r.Content == "" {
			continue
		}
		title := r.Title
		if title == "" {
			title = "Web Result"
		}
		results = append(results, types.WebResult{
			Title:   title,
			URL:     r.URL,
			Content: r.Content,
			Score:   r.Score,
		})
	}
	return results, nil
}
