// Package prompt builds the stage-specific instruction sets sent to the
// language-model backends. Every generation stage composes its prompt here
// from the site profile, the topic candidate and earlier stage artifacts.
package prompt

import (
	"fmt"
	"strings"

	"pressgen/internal/config"
	"pressgen/internal/core"
)

// Composer builds prompts for one site profile.
type Composer struct {
	site config.SiteProfile
}

// NewComposer creates a composer bound to the given site profile.
func NewComposer(site config.SiteProfile) *Composer {
	return &Composer{site: site}
}

// Research builds the research-stage prompt: a bullet-style factual and
// narrative synthesis, explicitly not article prose.
func (c *Composer) Research(topic core.TopicCandidate) string {
	var prompt strings.Builder

	prompt.WriteString("Conduct deep research on the topic below. Analyze the source URL and/or subject and find additional reliable sources.\n")
	prompt.WriteString("**DO NOT WRITE AN ARTICLE.** Your only goal is to collect and present the key information.\n\n")

	prompt.WriteString("**TOPIC TO ANALYZE:**\n")
	prompt.WriteString(fmt.Sprintf("- URL: %s\n", orNone(topic.URL)))
	prompt.WriteString(fmt.Sprintf("- Title: %q\n", topic.Title))
	prompt.WriteString(fmt.Sprintf("- Context: %q\n\n", topic.Snippet))

	prompt.WriteString("**FIND AND LIST AS BULLET POINTS:**\n")
	prompt.WriteString("- Key facts, numbers, statistics.\n")
	prompt.WriteString("- Named experts and their claims, including quotes.\n")
	prompt.WriteString("- Important dates and names of official documents or reports.\n")
	prompt.WriteString("- The main arguments for and against (where applicable).\n")
	prompt.WriteString("- Potential material for a comparison table.\n")
	prompt.WriteString("- Narrative elements: a human angle, interesting anecdotes, controversies or turning points that make the topic compelling.\n\n")

	prompt.WriteString("Return a concise, well-organized list of bullet points.")

	return prompt.String()
}

// SectionResearch builds a research prompt scoped to a single outline section,
// used by the per-section drafting mode.
func (c *Composer) SectionResearch(section core.Section, topic core.TopicCandidate) string {
	var prompt strings.Builder

	prompt.WriteString("Conduct precise, data-driven research for only the following article section:\n\n")
	prompt.WriteString(fmt.Sprintf("<%s>%s</%s>\n", section.Level, section.Title, section.Level))
	prompt.WriteString(fmt.Sprintf("Section description: %s\n\n", section.Desc))

	prompt.WriteString("Starting point:\n")
	prompt.WriteString(fmt.Sprintf("- Topic title: %s\n", topic.Title))
	prompt.WriteString(fmt.Sprintf("- Source URL: %s\n", orNone(topic.URL)))
	prompt.WriteString(fmt.Sprintf("- Introductory context: %s\n\n", topic.Snippet))

	prompt.WriteString("Find current data, reports and figures, expert claims with quotes, historical context and controversies, and concrete information for this section.\n")
	prompt.WriteString("Do not write prose. List precise bullet points from credible sources only.")

	return prompt.String()
}

// Outline builds the outline-stage prompt. When keyword is non-empty the
// instruction set requires the proposed title to contain the keyword (or a
// close variant) and forbids narrowing the topic relative to it.
func (c *Composer) Outline(research string, keyword string) string {
	var prompt strings.Builder

	prompt.WriteString(fmt.Sprintf("Based on the data synthesis below, create a creative, engaging and logical plan for a premium article for %s.\n\n", c.site.Name))
	prompt.WriteString("**COLLECTED DATA:**\n")
	prompt.WriteString(research)
	prompt.WriteString("\n\n**YOUR TASK:**\n")

	if keyword != "" {
		prompt.WriteString(fmt.Sprintf("1. Propose a new, catchy and substantive title. **HARD REQUIREMENT:** the title must contain the key phrase %q or a close grammatical variant of it, and the article scope must stay as broad as the phrase itself - do not narrow it. Put the finished title in an `<h2>` tag.\n", keyword))
	} else {
		prompt.WriteString("1. Propose a new, catchy and substantive title. Put it in an `<h2>` tag.\n")
	}

	prompt.WriteString("2. Create a unique article structure. Choose the sections and their order so they tell the story best.\n")
	prompt.WriteString("3. Propose creative, intriguing section titles (`<h2>`, `<h3>`), not generic labels.\n")
	prompt.WriteString("4. Include high-value blocks (comparison table, historical analysis, practical advice, key-information box) only where they genuinely enrich this topic.\n")
	prompt.WriteString("5. Under each heading, write in 1-2 sentences what exactly the section will cover.\n")
	prompt.WriteString("6. Do not use the words \"Introduction\", \"Conclusion\", \"Prologue\", \"Epilogue\", \"Premium\" or \"Box\" in headings.\n\n")
	prompt.WriteString("Return only the complete, ready-to-execute article plan as HTML.")

	return prompt.String()
}

// Draft builds the whole-article draft prompt: the final HTML document,
// starting with an <h2> title and observing the outline.
func (c *Composer) Draft(research string, outline string, topic core.TopicCandidate, keyword string) string {
	var prompt strings.Builder

	prompt.WriteString("Write the complete premium article following the plan and rules below.\n\n")

	prompt.WriteString("---\nWriting rules:\n")
	prompt.WriteString(c.expandRules(topic))
	prompt.WriteString("\n---\nArticle plan (follow the section order exactly):\n")
	prompt.WriteString(outline)
	prompt.WriteString("\n---\nResearch data:\n")
	prompt.WriteString(research)
	prompt.WriteString("\n---\n\n")

	prompt.WriteString("Start the response with the article title in an `<h2>` tag.\n")
	if keyword != "" {
		prompt.WriteString(fmt.Sprintf("The title must contain the key phrase %q or a close grammatical variant.\n", keyword))
	}
	c.writeCitationRules(&prompt)
	prompt.WriteString("Return only the finished article HTML.")

	return prompt.String()
}

// SectionDraft builds the prompt generating a single section of the article
// from its research, used by the per-section drafting mode.
func (c *Composer) SectionDraft(research string, section core.Section, topic core.TopicCandidate) string {
	var prompt strings.Builder

	prompt.WriteString("Write only one section of a premium article, following the rules and data below.\n\n")
	prompt.WriteString(fmt.Sprintf("<%s>%s</%s>\n", section.Level, section.Title, section.Level))
	prompt.WriteString(fmt.Sprintf("Section description: %s\n\n", section.Desc))

	prompt.WriteString("---\nWriting rules:\n")
	prompt.WriteString(c.expandRules(topic))
	prompt.WriteString("\n---\nResearch data:\n")
	prompt.WriteString(research)
	prompt.WriteString("\n---\n\n")

	prompt.WriteString(fmt.Sprintf("Write this one section in HTML, using a <%s> heading. Keep the narrative, analytical, expert style.\n", section.Level))
	c.writeCitationRules(&prompt)

	return prompt.String()
}

// News builds the short-form variant prompt: a condensed 300-400 word piece
// under the same citation and keyword rules as the long form.
func (c *Composer) News(research string, topic core.TopicCandidate, keyword string) string {
	var prompt strings.Builder

	prompt.WriteString("You are a news journalist. Condense the information below into a **short article (300-400 words)**:\n")
	prompt.WriteString(fmt.Sprintf("- The most important facts and figures about: %q (%s)\n", topic.Title, orNone(topic.URL)))
	prompt.WriteString("- Expert opinions (real quotes only, if available).\n")
	prompt.WriteString("- Your own objective closing summary with an informal punchline or comment, in a mood fitting the subject.\n\n")

	prompt.WriteString("Data to analyze:\n")
	prompt.WriteString(research)
	prompt.WriteString("\n---\nWriting rules:\n")
	prompt.WriteString(c.expandRules(topic))
	prompt.WriteString("\n---\n\n")

	prompt.WriteString("Start the response with the article title in an `<h2>` tag.\n")
	if keyword != "" {
		prompt.WriteString(fmt.Sprintf("The title must contain the key phrase %q or a close grammatical variant.\n", keyword))
	}
	c.writeCitationRules(&prompt)
	prompt.WriteString("Return the finished text in HTML using only <h2>, <p>, <ul>, <li>, <strong> and <blockquote> tags.")

	return prompt.String()
}

// TitleRewrite builds the corrective prompt for a title that does not honor
// the mandatory keyword.
func (c *Composer) TitleRewrite(badTitle string, keyword string) string {
	var prompt strings.Builder

	prompt.WriteString("The article title below does not contain the required key phrase. Write a new title that does.\n\n")
	prompt.WriteString(fmt.Sprintf("Current title: %q\n", badTitle))
	prompt.WriteString(fmt.Sprintf("Required key phrase: %q\n\n", keyword))
	prompt.WriteString("Requirements:\n")
	prompt.WriteString("- The new title must contain the key phrase or a close grammatical variant.\n")
	prompt.WriteString("- At most 70 characters.\n")
	prompt.WriteString("- Sentence capitalization: only the first word and proper nouns start with a capital letter.\n\n")
	prompt.WriteString("Return only the new title, nothing else.")

	return prompt.String()
}

// TopicSuggestions builds the prompt asking for five article topic ideas,
// returned as a JSON object with a "topics" array.
func (c *Composer) TopicSuggestions() string {
	var prompt strings.Builder

	prompt.WriteString("You are an editor-in-chief. Based on the guidelines below, propose 5 catchy, current and engaging article topics.\n")
	prompt.WriteString(fmt.Sprintf("Guidelines: %q\n\n", c.site.TopicPrompt))
	prompt.WriteString("Return the answer as JSON, inside an object with a \"topics\" key. Example:\n")
	prompt.WriteString("{\n  \"topics\": [\n    \"First topic idea\",\n    \"Second topic idea\",\n    \"Third topic idea\",\n    \"Fourth topic idea\",\n    \"Fifth topic idea\"\n  ]\n}")

	return prompt.String()
}

// CategoryChoice builds the classification prompt choosing one or two
// category names from the supplied set.
func (c *Composer) CategoryChoice(title string, categories []string) string {
	return fmt.Sprintf(
		"Choose the single best category for an article from the list. Title: %q. Available categories: [%s]. Return only the category name, exactly as listed.",
		title, strings.Join(categories, ", "))
}

// Tags builds the tag-generation prompt asking for 5-7 short tag strings as
// a JSON array.
func (c *Composer) Tags(title string, body string) string {
	var prompt strings.Builder

	prompt.WriteString("Generate 5-7 accurate tags (1-2 words each, in the article's language) for the article below. ")
	prompt.WriteString("Return them as a JSON array, e.g. [\"tag1\", \"tag2\"].\n\n")
	prompt.WriteString(fmt.Sprintf("Title: %s\n", title))
	prompt.WriteString(fmt.Sprintf("Excerpt: %s\n", truncate(body, 1000)))

	return prompt.String()
}

// writeCitationRules appends the source-attribution constraint shared by all
// drafting prompts: descriptive in-sentence attribution, never numeric
// citation markers.
func (c *Composer) writeCitationRules(prompt *strings.Builder) {
	prompt.WriteString("You are categorically forbidden from using numeric citation markers such as [1], [2] or superscript footnotes. ")
	prompt.WriteString("Weave every source reference into the sentence in a natural journalistic way, naming the institution and date.\n")
	prompt.WriteString("BAD: `Car sales rose 15% [3].`\n")
	prompt.WriteString("GOOD: `**According to the latest industry report**, car sales rose 15%.`\n")
}

// expandRules expands the site's parametrized writing-rules template with the
// topic's placeholders.
func (c *Composer) expandRules(topic core.TopicCandidate) string {
	replacer := strings.NewReplacer(
		"{site_name}", c.site.Name,
		"{thematic_focus}", c.site.ThematicFocus,
		"{title}", topic.Title,
		"{url}", orNone(topic.URL),
		"{snippet}", topic.Snippet,
	)
	return replacer.Replace(c.site.WritingRules)
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
