// Package newsdata implements the NewsFetcher port against the newsdata.io
// latest-news API.
package newsdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	ports "github.com/longlodw/news/news/core/ports"
)

// DefaultEndpoint is the newsdata.io latest-news URL.
const DefaultEndpoint = "https://newsdata.io/api/1/latest"

// Client fetches latest news articles matching a query.
type Client struct {
	endpoint string
	apiKey   string
	language string
	http     *http.Client
}

// NewClient creates a newsdata.io client. Empty endpoint falls back to
// DefaultEndpoint; empty language to "en". A nil httpClient uses
// http.DefaultClient, whose timeout bounds the fetch.
func NewClient(endpoint, apiKey, language string, httpClient *http.Client) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if language == "" {
		language = "en"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		language: language,
		http:     httpClient,
	}
}

type latestResponse struct {
	Status  string          `json:"status"`
	Results []ports.Article `json:"results"`
}

// Fetch returns articles matching query. An empty result list is benign;
// transport and non-200 failures are returned as errors.
func (c *Client) Fetch(ctx context.Context, query string) ([]ports.Article, error) {
	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("q", query)
	params.Set("language", c.language)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build news request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch news: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch news: %s", resp.Status)
	}

	var decoded latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("invalid news response: %w", err)
	}

	return decoded.Results, nil
}

// Ensure Client implements the NewsFetcher port.
var _ ports.NewsFetcher = (*Client)(nil)
