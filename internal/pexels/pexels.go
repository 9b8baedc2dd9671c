// Package pexels is the optional image-search backend client. The news
// variant uses it to find a featured image when the topic carries none.
package pexels

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pressgen/internal/config"
)

// Photo is one search result.
type Photo struct {
	ID           int    `json:"id"`
	Photographer string `json:"photographer"`
	Preview      string `json:"preview"`
	Large        string `json:"large"`
}

// Client talks to the image-search backend.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a client from configuration.
func NewClient(cfg config.Pexels) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// NewClientWithHTTP creates a client with an explicit http.Client, used by
// tests.
func NewClientWithHTTP(baseURL, apiKey string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// Configured reports whether the backend can be queried at all.
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

// searchResponse is the subset of the backend response the client consumes.
type searchResponse struct {
	Photos []struct {
		ID           int    `json:"id"`
		Photographer string `json:"photographer"`
		Src          struct {
			Medium string `json:"medium"`
			Large  string `json:"large2x"`
		} `json:"src"`
	} `json:"photos"`
}

// Search returns photos matching the free-text query, most relevant first.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Photo, error) {
	if limit <= 0 {
		limit = 1
	}

	params := url.Values{
		"query":    {query},
		"per_page": {fmt.Sprint(limit)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image search failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image search returned status %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	photos := make([]Photo, 0, len(parsed.Photos))
	for _, p := range parsed.Photos {
		photos = append(photos, Photo{
			ID:           p.ID,
			Photographer: p.Photographer,
			Preview:      p.Src.Medium,
			Large:        p.Src.Large,
		})
	}
	return photos, nil
}
