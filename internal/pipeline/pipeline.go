package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"pressgen/internal/config"
	"pressgen/internal/core"
	"pressgen/internal/keyword"
	"pressgen/internal/logger"
	"pressgen/internal/outline"
	"pressgen/internal/prompt"
	"pressgen/internal/sanitize"
)

// Pipeline runs the full article flow for one site: acquire a topic,
// research it, generate a draft, enforce the title keyword, sanitize the
// body, resolve taxonomy and media, and publish exactly once.
type Pipeline struct {
	site config.SiteProfile

	research      Generator
	researchModel string
	composer      *prompt.Composer

	discovery TopicDiscoverer
	suggester TopicSuggester
	rewriter  TitleRewriter
	taxonomy  TaxonomyResolver
	media     MediaResolver
	images    ImageSearcher
	publisher Publisher
}

// Run executes the pipeline for the given options and returns the outcome.
// Fatal stages abort the run with no publish; best-effort stages degrade
// and the run continues.
func (p *Pipeline) Run(ctx context.Context, opts core.RunOptions) core.Outcome {
	log := logger.With("run_id", uuid.New().String(), "site", p.site.ID, "variant", string(opts.Variant))
	log.Info("pipeline started", "source", string(opts.Source))

	topic, out := p.acquireTopic(ctx, opts)
	if out != nil {
		return *out
	}
	log.Info("topic acquired", "title", topic.Title, "source_name", topic.SourceName)

	// Manual topics carry an editorial commitment: the submitted title is
	// the keyword the published title must honor.
	kw := ""
	if opts.Source == core.SourceManual {
		kw = topic.Title
	}

	research, err := p.research.Complete(ctx, p.researchModel, p.composer.Research(*topic))
	if err != nil {
		return failure(core.StageResearch, err.Error())
	}
	log.Info("research complete", "chars", len(research))

	html, out := p.generateDraft(ctx, log, opts, *topic, research, kw)
	if out != nil {
		return *out
	}

	title, body := splitTitle(html)
	if title == "" {
		title = topic.Title
	}

	if kw != "" && !keyword.TitleRespectsKeyword(title, kw) {
		rewritten := p.rewriter.Rewrite(ctx, title, kw)
		log.Info("title rewritten", "from", title, "to", rewritten)
		title = rewritten
	}

	body = sanitize.Sanitize(body)
	if strings.TrimSpace(body) == "" {
		return failure(core.StageSanitize, "sanitized body is empty")
	}

	categoryID := p.taxonomy.ResolveCategory(ctx, title, body, opts.CategoryOverride)
	tags := p.taxonomy.ResolveTags(ctx, title, body)
	log.Info("taxonomy resolved", "category", categoryID, "tags", len(tags))

	p.fillFallbackImage(ctx, log, opts, topic, title)
	mediaID := p.media.Attach(ctx, *topic, title)
	if mediaID > 0 {
		log.Info("featured image attached", "media_id", mediaID)
	}

	payload := core.PublishPayload{
		Title:         title,
		Content:       body,
		Status:        "publish",
		Categories:    []int{categoryID},
		Tags:          tags,
		FeaturedMedia: mediaID,
		Author:        p.site.AuthorID,
	}
	post, err := p.publisher.CreatePost(ctx, payload)
	if err != nil {
		return failure(core.StagePublish, err.Error())
	}
	log.Info("article published", "post_id", post.ID, "link", post.Link)
	return core.Outcome{
		OK:      true,
		Message: fmt.Sprintf("Article published: %s", post.Link),
		Link:    post.Link,
	}
}

func (p *Pipeline) acquireTopic(ctx context.Context, opts core.RunOptions) (*core.TopicCandidate, *core.Outcome) {
	switch opts.Source {
	case core.SourceManual:
		if opts.ManualTopic == nil || strings.TrimSpace(opts.ManualTopic.Title) == "" {
			return nil, failurePtr(core.StageTopic, "manual topic requires a title")
		}
		t := *opts.ManualTopic
		return &t, nil
	case core.SourceSuggested:
		if p.suggester == nil {
			return nil, failurePtr(core.StageTopic, "topic suggestions are not configured for this site")
		}
		t, err := p.suggester.Suggest(ctx, p.site)
		if err != nil {
			return nil, failurePtr(core.StageTopic, err.Error())
		}
		return t, nil
	default:
		if p.discovery == nil {
			return nil, failurePtr(core.StageTopic, "automatic topic discovery is not configured")
		}
		t, err := p.discovery.Latest(ctx, p.site)
		if err != nil {
			return nil, failurePtr(core.StageTopic, err.Error())
		}
		return t, nil
	}
}

func (p *Pipeline) generateDraft(ctx context.Context, log *slog.Logger, opts core.RunOptions, topic core.TopicCandidate, research, kw string) (string, *core.Outcome) {
	if opts.Variant == core.VariantNews {
		html, err := p.research.Complete(ctx, p.researchModel, p.composer.News(research, topic, kw))
		if err != nil {
			return "", failurePtr(core.StageDraft, err.Error())
		}
		return html, nil
	}

	outlineHTML, err := p.research.Complete(ctx, p.researchModel, p.composer.Outline(research, kw))
	if err != nil {
		return "", failurePtr(core.StageOutline, err.Error())
	}
	log.Info("outline generated", "chars", len(outlineHTML))

	if opts.DraftMode == core.DraftSections {
		return p.draftBySections(ctx, log, topic, outlineHTML)
	}

	html, err := p.research.Complete(ctx, p.researchModel, p.composer.Draft(research, outlineHTML, topic, kw))
	if err != nil {
		return "", failurePtr(core.StageDraft, err.Error())
	}
	return html, nil
}

// draftBySections researches and writes each outline section on its own.
// A failed section is skipped; the draft fails only when every section
// failed.
func (p *Pipeline) draftBySections(ctx context.Context, log *slog.Logger, topic core.TopicCandidate, outlineHTML string) (string, *core.Outcome) {
	sections, err := outline.Parse(outlineHTML)
	if err != nil || len(sections) == 0 {
		return "", failurePtr(core.StageOutline, "outline has no parseable sections")
	}

	var parts []string
	for _, section := range sections {
		sectionResearch, err := p.research.Complete(ctx, p.researchModel, p.composer.SectionResearch(section, topic))
		if err != nil {
			log.Warn("section research failed, skipping", "section", section.Title, "error", err)
			continue
		}
		sectionHTML, err := p.research.Complete(ctx, p.researchModel, p.composer.SectionDraft(sectionResearch, section, topic))
		if err != nil {
			log.Warn("section draft failed, skipping", "section", section.Title, "error", err)
			continue
		}
		parts = append(parts, strings.TrimSpace(sectionHTML))
	}
	if len(parts) == 0 {
		return "", failurePtr(core.StageDraft, "all outline sections failed to draft")
	}
	return strings.Join(parts, "\n"), nil
}

// fillFallbackImage searches stock photos for news articles whose source
// carried no image. Failures leave the topic untouched.
func (p *Pipeline) fillFallbackImage(ctx context.Context, log *slog.Logger, opts core.RunOptions, topic *core.TopicCandidate, title string) {
	if opts.Variant != core.VariantNews || topic.HasImage() || p.images == nil {
		return
	}
	query := title
	if idx := strings.Index(query, ":"); idx > 0 {
		query = query[:idx]
	}
	photos, err := p.images.Search(ctx, strings.TrimSpace(query), 1)
	if err != nil || len(photos) == 0 {
		log.Warn("stock photo search yielded nothing", "query", query, "error", err)
		return
	}
	topic.ImageURL = photos[0].Large
}

// splitTitle extracts the first h2 heading as the article title and
// returns the remaining markup as the body. Missing heading yields an
// empty title and the input unchanged.
func splitTitle(html string) (string, string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", html
	}
	heading := doc.Find("h2").First()
	if heading.Length() == 0 {
		return "", html
	}
	title := strings.TrimSpace(heading.Text())
	heading.Remove()
	body, err := doc.Find("body").Html()
	if err != nil {
		return title, html
	}
	return title, strings.TrimSpace(body)
}

// failure builds the outcome for a broken stage. Only stages the policy
// table classifies as Fatal may abort a run; best-effort stages degrade
// inside their resolvers and must never reach this path.
func failure(stage core.Stage, detail string) core.Outcome {
	if core.StagePolicies[stage] != core.Fatal {
		logger.Warn("best-effort stage escalated to run failure", "stage", string(stage))
	}
	return core.Outcome{
		OK:          false,
		Message:     fmt.Sprintf("pipeline failed at %s stage: %s", stage, detail),
		FailedStage: stage,
	}
}

func failurePtr(stage core.Stage, detail string) *core.Outcome {
	out := failure(stage, detail)
	return &out
}
