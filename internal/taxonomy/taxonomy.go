// Package taxonomy resolves the category and tag identifiers attached to a
// published article. Resolution is best-effort by contract: every failure
// path degrades to the fallback category or fewer tags, never to a run abort.
package taxonomy

import (
	"context"
	"encoding/json"
	"strings"

	"pressgen/internal/logger"
	"pressgen/internal/prompt"
	"pressgen/internal/wordpress"
)

// Backend is the content-backend surface the resolver needs.
type Backend interface {
	Categories(ctx context.Context) ([]wordpress.Term, error)
	SearchTags(ctx context.Context, name string) ([]wordpress.Term, error)
	CreateTag(ctx context.Context, name string) (wordpress.Term, error)
}

// Generator is the classification/generation model call the resolver depends on.
type Generator interface {
	Complete(ctx context.Context, model string, prompt string) (string, error)
}

// Resolver resolves taxonomy terms for one site.
type Resolver struct {
	backend    Backend
	generator  Generator
	model      string
	composer   *prompt.Composer
	fallbackID int
}

// NewResolver creates a resolver using the editorial model for category
// choice and tag generation.
func NewResolver(backend Backend, generator Generator, model string, composer *prompt.Composer, fallbackID int) *Resolver {
	return &Resolver{
		backend:    backend,
		generator:  generator,
		model:      model,
		composer:   composer,
		fallbackID: fallbackID,
	}
}

// ResolveCategory returns the single category id for the article. Resolution
// order: explicit override, the backend's only category, a model choice
// validated against the backend's list, the fallback sentinel. The validation
// step guards against hallucinated category names reaching the backend. The
// result is never zero.
func (r *Resolver) ResolveCategory(ctx context.Context, title string, body string, override int) int {
	if override > 0 {
		return override
	}

	categories, err := r.backend.Categories(ctx)
	if err != nil {
		logger.Error("failed to list categories, using fallback", err, "fallback_id", r.fallbackID)
		return r.fallbackID
	}

	switch len(categories) {
	case 0:
		return r.fallbackID
	case 1:
		return categories[0].ID
	}

	names := make([]string, len(categories))
	byName := make(map[string]int, len(categories))
	for i, cat := range categories {
		names[i] = cat.Name
		byName[strings.ToLower(cat.Name)] = cat.ID
	}

	answer, err := r.generator.Complete(ctx, r.model, r.composer.CategoryChoice(title, names))
	if err != nil {
		logger.Error("category choice call failed, using fallback", err, "fallback_id", r.fallbackID)
		return r.fallbackID
	}

	// The model may answer with one or two names, quoted or embedded in a
	// sentence; accept only names present in the backend's set. Ties at the
	// same position go to the longest name, so "Sporty zimowe" beats its
	// prefix "Sport".
	answerLower := strings.ToLower(answer)
	best := 0
	bestPos := len(answerLower) + 1
	bestLen := 0
	for lower, id := range byName {
		pos := strings.Index(answerLower, lower)
		if pos < 0 {
			continue
		}
		if pos < bestPos || (pos == bestPos && len(lower) > bestLen) {
			best = id
			bestPos = pos
			bestLen = len(lower)
		}
	}
	if best == 0 {
		logger.Warn("model chose no known category, using fallback", "answer", answer, "fallback_id", r.fallbackID)
		return r.fallbackID
	}
	return best
}

// ResolveTags asks the generation model for 5-7 short tag names and resolves
// each to a term id via case-insensitive lookup-then-create. The get-or-create
// ordering keeps the operation idempotent within a run; concurrent runs
// proposing the same new name may still race, which the backend does not
// guard against.
func (r *Resolver) ResolveTags(ctx context.Context, title string, body string) []int {
	answer, err := r.generator.Complete(ctx, r.model, r.composer.Tags(title, body))
	if err != nil {
		logger.Error("tag generation call failed, publishing without tags", err)
		return nil
	}

	names := parseTagNames(answer)
	ids := make([]int, 0, len(names))
	for _, name := range names {
		id, err := r.getOrCreateTag(ctx, name)
		if err != nil {
			logger.Error("failed to resolve tag", err, "tag", name)
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// getOrCreateTag looks a tag up by case-insensitive exact name match and
// creates it only when absent.
func (r *Resolver) getOrCreateTag(ctx context.Context, name string) (int, error) {
	matches, err := r.backend.SearchTags(ctx, name)
	if err != nil {
		return 0, err
	}
	for _, term := range matches {
		if strings.EqualFold(term.Name, name) {
			return term.ID, nil
		}
	}

	term, err := r.backend.CreateTag(ctx, name)
	if err != nil {
		return 0, err
	}
	return term.ID, nil
}

// parseTagNames extracts tag strings from a model answer: either a bare JSON
// array or an object carrying a "tags" array, possibly wrapped in prose.
func parseTagNames(answer string) []string {
	var names []string

	if start, end := strings.Index(answer, "["), strings.LastIndex(answer, "]"); start >= 0 && end > start {
		if err := json.Unmarshal([]byte(answer[start:end+1]), &names); err == nil {
			return cleanNames(names)
		}
	}

	var wrapped struct {
		Tags []string `json:"tags"`
	}
	if start, end := strings.Index(answer, "{"), strings.LastIndex(answer, "}"); start >= 0 && end > start {
		if err := json.Unmarshal([]byte(answer[start:end+1]), &wrapped); err == nil {
			return cleanNames(wrapped.Tags)
		}
	}

	return nil
}

func cleanNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}
