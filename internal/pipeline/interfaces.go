package pipeline

import (
	"context"

	"pressgen/internal/config"
	"pressgen/internal/core"
	"pressgen/internal/pexels"
	"pressgen/internal/wordpress"
)

// Generator invokes a language-model backend with a composed prompt.
type Generator interface {
	// Complete sends the prompt as a single user message and returns the
	// first choice's text, or an error on any failure. No internal retry.
	Complete(ctx context.Context, model string, prompt string) (string, error)
}

// TopicDiscoverer finds the most relevant recent article for a site's
// configured concepts.
type TopicDiscoverer interface {
	Latest(ctx context.Context, site config.SiteProfile) (*core.TopicCandidate, error)
}

// TopicSuggester proposes a topic from the site's editorial guidelines.
type TopicSuggester interface {
	Suggest(ctx context.Context, site config.SiteProfile) (*core.TopicCandidate, error)
}

// TitleRewriter produces a keyword-compliant replacement title. It never
// fails: a deterministic fallback covers the corrective call failing.
type TitleRewriter interface {
	Rewrite(ctx context.Context, badTitle string, keyword string) string
}

// TaxonomyResolver resolves the category and tag ids for an article. Both
// operations are best-effort and degrade internally.
type TaxonomyResolver interface {
	ResolveCategory(ctx context.Context, title string, body string, override int) int
	ResolveTags(ctx context.Context, title string, body string) []int
}

// MediaResolver attaches a featured image, returning 0 when none could be
// resolved.
type MediaResolver interface {
	Attach(ctx context.Context, topic core.TopicCandidate, title string) int
}

// ImageSearcher finds stock photos for a free-text query.
type ImageSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]pexels.Photo, error)
}

// Publisher sends the terminal payload to the content backend.
type Publisher interface {
	CreatePost(ctx context.Context, payload core.PublishPayload) (*wordpress.Post, error)
}
