// Package topics acquires the single topic candidate a run turns into an
// article: from the news-aggregation backend, or from model-proposed
// suggestions when a site has no concept feed.
package topics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pressgen/internal/config"
	"pressgen/internal/core"
)

// snippetLimit truncates the discovered article body into a context snippet.
const snippetLimit = 700

// Discovery queries the news-aggregation backend for the most relevant
// recent article matching a site's concept identifiers.
type Discovery struct {
	baseURL    string
	apiKey     string
	language   string
	windowDays int
	httpClient *http.Client
	now        func() time.Time
}

// NewDiscovery creates a discovery client from configuration.
func NewDiscovery(cfg config.EventRegistry) *Discovery {
	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		timeout = 30 * time.Second
	}
	return &Discovery{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		language:   cfg.Language,
		windowDays: cfg.WindowDays,
		httpClient: &http.Client{Timeout: timeout},
		now:        time.Now,
	}
}

// NewDiscoveryWithHTTP creates a discovery client with an explicit
// http.Client and clock, used by tests.
func NewDiscoveryWithHTTP(baseURL, apiKey, language string, windowDays int, httpClient *http.Client, now func() time.Time) *Discovery {
	return &Discovery{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		language:   language,
		windowDays: windowDays,
		httpClient: httpClient,
		now:        now,
	}
}

// discoveryRequest is the query body: concept identifiers, language and a
// trailing date window, asking for the single most relevant article.
type discoveryRequest struct {
	Action        string   `json:"action"`
	ConceptURI    []string `json:"conceptUri"`
	Lang          string   `json:"lang"`
	DateStart     string   `json:"dateStart"`
	ArticlesCount int      `json:"articlesCount"`
	SortBy        string   `json:"articlesSortBy"`
	APIKey        string   `json:"apiKey"`
}

// discoveryResponse is the subset of the backend response the pipeline uses.
type discoveryResponse struct {
	Articles struct {
		Results []struct {
			Title  string `json:"title"`
			Body   string `json:"body"`
			URL    string `json:"url"`
			Image  string `json:"image"`
			Source struct {
				Title string `json:"title"`
			} `json:"source"`
		} `json:"results"`
	} `json:"articles"`
}

// Latest returns the most relevant article for the site's topic concepts
// within the trailing date window, or an error when the backend returns
// nothing: no candidate means topic-acquisition failure.
func (d *Discovery) Latest(ctx context.Context, site config.SiteProfile) (*core.TopicCandidate, error) {
	if len(site.TopicConcepts) == 0 {
		return nil, fmt.Errorf("site %q has no topic concepts configured", site.ID)
	}

	payload := discoveryRequest{
		Action:        "getArticles",
		ConceptURI:    site.TopicConcepts,
		Lang:          d.language,
		DateStart:     d.now().AddDate(0, 0, -d.windowDays).Format("2006-01-02"),
		ArticlesCount: 1,
		SortBy:        "rel",
		APIKey:        d.apiKey,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal discovery query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/article/getArticles", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create discovery request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("discovery request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read discovery response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("discovery backend returned status %d", resp.StatusCode)
	}

	var parsed discoveryResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse discovery response: %w", err)
	}

	if len(parsed.Articles.Results) == 0 {
		return nil, fmt.Errorf("no topic found for site %q in the last %d days", site.ID, d.windowDays)
	}

	article := parsed.Articles.Results[0]
	return &core.TopicCandidate{
		Title:      article.Title,
		URL:        article.URL,
		Snippet:    truncate(article.Body, snippetLimit),
		SourceName: article.Source.Title,
		ImageURL:   article.Image,
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
