package topics

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"

	"pressgen/internal/config"
	"pressgen/internal/core"
	"pressgen/internal/prompt"
)

// Generator is the language-model call the suggester depends on.
type Generator interface {
	Complete(ctx context.Context, model string, prompt string) (string, error)
}

// Suggester asks the research model for topic ideas when a site publishes
// from editorial guidelines instead of a concept feed.
type Suggester struct {
	generator Generator
	model     string
	pick      func(n int) int
}

// NewSuggester creates a suggester backed by the research model.
func NewSuggester(generator Generator, model string) *Suggester {
	return &Suggester{generator: generator, model: model, pick: rand.Intn}
}

// NewSuggesterWithPick creates a suggester with a deterministic picker, used
// by tests.
func NewSuggesterWithPick(generator Generator, model string, pick func(n int) int) *Suggester {
	return &Suggester{generator: generator, model: model, pick: pick}
}

// Suggest asks for five topic proposals based on the site's topic prompt and
// picks one at random. The chosen topic becomes a candidate with no URL and
// no image.
func (s *Suggester) Suggest(ctx context.Context, site config.SiteProfile) (*core.TopicCandidate, error) {
	if site.TopicPrompt == "" {
		return nil, fmt.Errorf("site %q has no topic prompt configured", site.ID)
	}

	composer := prompt.NewComposer(site)
	answer, err := s.generator.Complete(ctx, s.model, composer.TopicSuggestions())
	if err != nil {
		return nil, fmt.Errorf("topic suggestion call failed: %w", err)
	}

	topicList, err := parseTopics(answer)
	if err != nil {
		return nil, err
	}

	chosen := topicList[s.pick(len(topicList))]
	return &core.TopicCandidate{
		Title:      chosen,
		Snippet:    "Topic proposed by the editorial model.",
		SourceName: "AI Generated",
	}, nil
}

// parseTopics extracts the "topics" array from the model answer, tolerating
// prose around the JSON object.
func parseTopics(answer string) ([]string, error) {
	start, end := strings.Index(answer, "{"), strings.LastIndex(answer, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("suggestion answer contains no JSON object")
	}

	var parsed struct {
		Topics []string `json:"topics"`
	}
	if err := json.Unmarshal([]byte(answer[start:end+1]), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse suggestion answer: %w", err)
	}

	topics := make([]string, 0, len(parsed.Topics))
	for _, t := range parsed.Topics {
		if t = strings.TrimSpace(t); t != "" {
			topics = append(topics, t)
		}
	}
	if len(topics) == 0 {
		return nil, fmt.Errorf("model proposed no topics")
	}
	return topics, nil
}
