// Package wordpress is the content-management backend client. It covers the
// four REST surfaces the pipeline needs: paginated category listing, tag
// search and creation, media upload and post creation.
package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"pressgen/internal/config"
	"pressgen/internal/core"
)

// perPage is the page size used when listing categories.
const perPage = 100

// Term is a taxonomy term (category or tag) as the backend returns it.
type Term struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Post is the created post as the backend returns it.
type Post struct {
	ID   int    `json:"id"`
	Link string `json:"link"`
}

// Client talks to one site's content backend.
type Client struct {
	baseURL    string
	auth       config.Auth
	httpClient *http.Client
}

// NewClient creates a client for the given site profile.
func NewClient(site config.SiteProfile, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(site.APIBase, "/"),
		auth:       site.Auth,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewClientWithHTTP creates a client with an explicit http.Client, used by
// tests to point at a fake backend.
func NewClientWithHTTP(baseURL string, auth config.Auth, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		auth:       auth,
		httpClient: httpClient,
	}
}

// authorize attaches the site's credentials to the request. Two schemes are
// supported: HTTP Basic (shared-secret pair) and Bearer token.
func (c *Client) authorize(req *http.Request) {
	if c.auth.Method == "bearer" {
		req.Header.Set("Authorization", "Bearer "+c.auth.Token)
		return
	}
	req.SetBasicAuth(c.auth.Username, c.auth.Password)
}

// Categories lists every category the backend exposes, following pagination
// until a short page is returned. WordPress rejects out-of-range pages with
// an error rather than an empty list, so when the total is an exact multiple
// of the page size the request past the last page counts as end-of-list.
func (c *Client) Categories(ctx context.Context) ([]Term, error) {
	var all []Term

	for page := 1; ; page++ {
		query := url.Values{
			"per_page": {strconv.Itoa(perPage)},
			"page":     {strconv.Itoa(page)},
		}

		var terms []Term
		if err := c.getJSON(ctx, "/categories?"+query.Encode(), &terms); err != nil {
			if page > 1 {
				return all, nil
			}
			return nil, fmt.Errorf("failed to list categories (page %d): %w", page, err)
		}

		all = append(all, terms...)
		if len(terms) < perPage {
			return all, nil
		}
	}
}

// SearchTags returns the backend's matches for a tag name search.
func (c *Client) SearchTags(ctx context.Context, name string) ([]Term, error) {
	query := url.Values{"search": {name}}

	var terms []Term
	if err := c.getJSON(ctx, "/tags?"+query.Encode(), &terms); err != nil {
		return nil, fmt.Errorf("failed to search tags for %q: %w", name, err)
	}
	return terms, nil
}

// CreateTag creates a new tag term with a slug derived from the name.
func (c *Client) CreateTag(ctx context.Context, name string) (Term, error) {
	payload := map[string]string{
		"name": name,
		"slug": strings.ReplaceAll(strings.ToLower(name), " ", "-"),
	}

	var term Term
	if err := c.postJSON(ctx, "/tags", payload, &term); err != nil {
		return Term{}, fmt.Errorf("failed to create tag %q: %w", name, err)
	}
	return term, nil
}

// UploadMedia posts a binary body with the Content-Disposition/Content-Type
// header pair and returns the created media id.
func (c *Client) UploadMedia(ctx context.Context, data []byte, filename string, contentType string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/media", bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("failed to create media request: %w", err)
	}
	c.authorize(req)
	req.Header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	req.Header.Set("Content-Type", contentType)

	var media struct {
		ID int `json:"id"`
	}
	if err := c.do(req, &media); err != nil {
		return 0, fmt.Errorf("failed to upload media: %w", err)
	}
	return media.ID, nil
}

// CreatePost publishes the payload and returns the created post with its
// public link.
func (c *Client) CreatePost(ctx context.Context, payload core.PublishPayload) (*Post, error) {
	var post Post
	if err := c.postJSON(ctx, "/posts", payload, &post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return &post, nil
}

// getJSON performs an authorized GET and decodes the JSON response.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.authorize(req)
	return c.do(req, out)
}

// postJSON performs an authorized POST with a JSON body and decodes the JSON
// response.
func (c *Client) postJSON(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.authorize(req)
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// do executes the request and decodes a 2xx JSON response into out. Non-2xx
// responses become errors carrying the backend's response detail.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("backend returned status %d: %s", resp.StatusCode, truncate(string(body), 300))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response body: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
