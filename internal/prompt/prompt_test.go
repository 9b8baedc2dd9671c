package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"pressgen/internal/config"
	"pressgen/internal/core"
)

func testSite() config.SiteProfile {
	return config.SiteProfile{
		ID:            "moto",
		Name:          "Moto Site",
		ThematicFocus: "motoryzacja",
		WritingRules:  "Write for {site_name} about {thematic_focus}. Topic: {title} ({url}). Context: {snippet}",
		TopicPrompt:   "Propose automotive topics.",
	}
}

func testTopic() core.TopicCandidate {
	return core.TopicCandidate{
		Title:   "Nowe przepisy dla kierowców",
		URL:     "https://news.example/a",
		Snippet: "Od stycznia zmieniają się stawki mandatów.",
	}
}

func TestResearchPromptCarriesTopic(t *testing.T) {
	composer := NewComposer(testSite())

	got := composer.Research(testTopic())

	assert.Contains(t, got, "DO NOT WRITE AN ARTICLE")
	assert.Contains(t, got, "https://news.example/a")
	assert.Contains(t, got, "Nowe przepisy dla kierowców")
	assert.Contains(t, got, "stawki mandatów")
}

func TestResearchPromptWithoutURL(t *testing.T) {
	composer := NewComposer(testSite())
	topic := core.TopicCandidate{Title: "Temat bez źródła"}

	got := composer.Research(topic)

	assert.Contains(t, got, "URL: none")
}

func TestOutlinePromptKeywordClause(t *testing.T) {
	composer := NewComposer(testSite())

	withKeyword := composer.Outline("dane", "nowe przepisy 2025")
	assert.Contains(t, withKeyword, "HARD REQUIREMENT")
	assert.Contains(t, withKeyword, `"nowe przepisy 2025"`)
	assert.Contains(t, withKeyword, "do not narrow")

	withoutKeyword := composer.Outline("dane", "")
	assert.NotContains(t, withoutKeyword, "HARD REQUIREMENT")
	assert.Contains(t, withoutKeyword, "<h2>")
}

func TestDraftPromptExpandsWritingRules(t *testing.T) {
	composer := NewComposer(testSite())

	got := composer.Draft("dane", "<h2>Plan</h2>", testTopic(), "")

	assert.Contains(t, got, "Write for Moto Site about motoryzacja.")
	assert.Contains(t, got, "Topic: Nowe przepisy dla kierowców (https://news.example/a)")
	assert.NotContains(t, got, "{site_name}")
	assert.NotContains(t, got, "{title}")
}

func TestDraftingPromptsForbidCitationMarkers(t *testing.T) {
	composer := NewComposer(testSite())
	topic := testTopic()
	section := core.Section{Level: "h3", Title: "Sekcja", Desc: "Opis."}

	prompts := map[string]string{
		"draft":         composer.Draft("dane", "plan", topic, ""),
		"section draft": composer.SectionDraft("dane", section, topic),
		"news":          composer.News("dane", topic, ""),
	}

	for name, p := range prompts {
		assert.Contains(t, p, "categorically forbidden", name)
		assert.Contains(t, p, "[1]", name)
	}
}

func TestNewsPromptLimitsTags(t *testing.T) {
	composer := NewComposer(testSite())

	got := composer.News("dane", testTopic(), "klucz")

	assert.Contains(t, got, "300-400 words")
	assert.Contains(t, got, "<blockquote>")
	assert.Contains(t, got, `"klucz"`)
}

func TestSectionPromptsCarryHeadingLevel(t *testing.T) {
	composer := NewComposer(testSite())
	section := core.Section{Level: "h3", Title: "Zmiany w mandatach", Desc: "Co się zmienia."}

	research := composer.SectionResearch(section, testTopic())
	assert.Contains(t, research, "<h3>Zmiany w mandatach</h3>")

	draft := composer.SectionDraft("dane", section, testTopic())
	assert.Contains(t, draft, "<h3> heading")
}

func TestTitleRewritePrompt(t *testing.T) {
	composer := NewComposer(testSite())

	got := composer.TitleRewrite("Zły tytuł", "nowe przepisy")

	assert.Contains(t, got, `"Zły tytuł"`)
	assert.Contains(t, got, `"nowe przepisy"`)
	assert.Contains(t, got, "70 characters")
	assert.Contains(t, got, "Return only the new title")
}

func TestTopicSuggestionsPrompt(t *testing.T) {
	composer := NewComposer(testSite())

	got := composer.TopicSuggestions()

	assert.Contains(t, got, "Propose automotive topics.")
	assert.Contains(t, got, `"topics"`)
}

func TestCategoryChoicePrompt(t *testing.T) {
	composer := NewComposer(testSite())

	got := composer.CategoryChoice("Tytuł", []string{"Motoryzacja", "Finanse"})

	assert.Contains(t, got, "[Motoryzacja, Finanse]")
	assert.Contains(t, got, `"Tytuł"`)
}

func TestTagsPromptTruncatesBody(t *testing.T) {
	composer := NewComposer(testSite())
	long := strings.Repeat("a", 5000)

	got := composer.Tags("Tytuł", long)

	assert.Less(t, len(got), 1500)
	assert.Contains(t, got, "JSON array")
}
