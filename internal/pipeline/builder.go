package pipeline

import (
	"fmt"

	"pressgen/internal/config"
	"pressgen/internal/keyword"
	"pressgen/internal/llm"
	"pressgen/internal/media"
	"pressgen/internal/pexels"
	"pressgen/internal/prompt"
	"pressgen/internal/taxonomy"
	"pressgen/internal/topics"
	"pressgen/internal/wordpress"
)

// Builder assembles a Pipeline for one site from configuration. Every
// component can be overridden before Build, which tests use to substitute
// fakes for the network-facing pieces.
type Builder struct {
	cfg  *config.Config
	site config.SiteProfile

	research  Generator
	editorial Generator
	discovery TopicDiscoverer
	suggester TopicSuggester
	rewriter  TitleRewriter
	taxonomy  TaxonomyResolver
	media     MediaResolver
	images    ImageSearcher
	publisher Publisher
}

// NewBuilder creates a builder for the given site id. The site must exist
// in the configuration.
func NewBuilder(cfg *config.Config, siteID string) (*Builder, error) {
	site, err := cfg.Site(siteID)
	if err != nil {
		return nil, fmt.Errorf("resolving site %q: %w", siteID, err)
	}
	return &Builder{cfg: cfg, site: site}, nil
}

// WithResearchGenerator overrides the research-model backend.
func (b *Builder) WithResearchGenerator(g Generator) *Builder {
	b.research = g
	return b
}

// WithEditorialGenerator overrides the editorial-model backend.
func (b *Builder) WithEditorialGenerator(g Generator) *Builder {
	b.editorial = g
	return b
}

// WithDiscovery overrides the automatic topic source.
func (b *Builder) WithDiscovery(d TopicDiscoverer) *Builder {
	b.discovery = d
	return b
}

// WithSuggester overrides the model-backed topic source.
func (b *Builder) WithSuggester(s TopicSuggester) *Builder {
	b.suggester = s
	return b
}

// WithRewriter overrides the title rewriter.
func (b *Builder) WithRewriter(r TitleRewriter) *Builder {
	b.rewriter = r
	return b
}

// WithTaxonomy overrides the category and tag resolver.
func (b *Builder) WithTaxonomy(t TaxonomyResolver) *Builder {
	b.taxonomy = t
	return b
}

// WithMedia overrides the featured-image resolver.
func (b *Builder) WithMedia(m MediaResolver) *Builder {
	b.media = m
	return b
}

// WithImageSearch overrides the stock-photo fallback source.
func (b *Builder) WithImageSearch(s ImageSearcher) *Builder {
	b.images = s
	return b
}

// WithPublisher overrides the content backend.
func (b *Builder) WithPublisher(p Publisher) *Builder {
	b.publisher = p
	return b
}

// Build wires the remaining components from configuration and returns the
// assembled pipeline.
func (b *Builder) Build() *Pipeline {
	composer := prompt.NewComposer(b.site)

	research := b.research
	if research == nil {
		research = llm.NewClient(b.cfg.LLM.Research)
	}
	editorial := b.editorial
	if editorial == nil {
		editorial = llm.NewClient(b.cfg.LLM.Editorial)
	}

	wp := wordpress.NewClient(b.site, b.cfg.Publish.TimeoutDuration())
	publisher := b.publisher
	if publisher == nil {
		publisher = wp
	}

	tax := b.taxonomy
	if tax == nil {
		tax = taxonomy.NewResolver(wp, editorial, b.cfg.LLM.Editorial.Model, composer, b.cfg.Publish.FallbackCategoryID)
	}
	med := b.media
	if med == nil {
		med = media.NewResolver(wp, b.cfg.Images.FetchTimeoutDuration())
	}
	rewriter := b.rewriter
	if rewriter == nil {
		rewriter = keyword.NewRewriter(editorial, b.cfg.LLM.Editorial.Model, composer)
	}

	discovery := b.discovery
	if discovery == nil && b.cfg.Topics.EventRegistry.APIKey != "" && len(b.site.TopicConcepts) > 0 {
		discovery = topics.NewDiscovery(b.cfg.Topics.EventRegistry)
	}
	suggester := b.suggester
	if suggester == nil && b.site.TopicPrompt != "" {
		suggester = topics.NewSuggester(research, b.cfg.LLM.Research.Model)
	}
	images := b.images
	if images == nil {
		if c := pexels.NewClient(b.cfg.Images.Pexels); c.Configured() {
			images = c
		}
	}

	return &Pipeline{
		site:          b.site,
		research:      research,
		researchModel: b.cfg.LLM.Research.Model,
		composer:      composer,
		discovery:     discovery,
		suggester:     suggester,
		rewriter:      rewriter,
		taxonomy:      tax,
		media:         med,
		images:        images,
		publisher:     publisher,
	}
}
