// Package keyword decides whether a generated title honors a mandatory key
// phrase and, when it does not, produces a compliant replacement. The check
// tolerates inflection: Polish sources routinely bend every token of a phrase
// ("Kraków" becoming "Krakowie"), so token comparison allows one miss and
// prefix stems.
package keyword

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"pressgen/internal/logger"
	"pressgen/internal/prompt"
)

// MaxTitleLength caps rewritten titles.
const MaxTitleLength = 70

// minTokenLength drops short function words before comparison.
const minTokenLength = 4

// stopwords are discarded from both keyword and title during normalization.
// Tokens shorter than minTokenLength never reach this list.
var stopwords = map[string]bool{
	"oraz": true, "jako": true, "przez": true, "jest": true,
	"która": true, "który": true, "które": true, "żeby": true,
	"także": true, "tego": true, "temu": true,
	"this": true, "that": true, "with": true, "from": true,
	"have": true, "will": true, "what": true, "when": true, "where": true,
}

// TitleRespectsKeyword reports whether the generated title honors the key
// phrase. Both sides are normalized (lower-cased, diacritic-preserving,
// stopwords and sub-4-character tokens discarded); the check passes when the
// title covers all but at most one keyword token. An empty keyword always
// passes: auto-discovered topics carry no constraint.
func TitleRespectsKeyword(title string, keyword string) bool {
	keywordTokens := normalize(keyword)
	if len(keywordTokens) == 0 {
		return true
	}

	titleTokens := normalize(title)

	missing := 0
	for _, kw := range keywordTokens {
		if !tokenMatches(kw, titleTokens) {
			missing++
		}
	}

	return missing <= 1
}

// tokenMatches reports whether any title token equals the keyword token or
// shares a stem with it (one being a prefix of the other).
func tokenMatches(kw string, titleTokens []string) bool {
	for _, tt := range titleTokens {
		if tt == kw || strings.HasPrefix(tt, kw) || strings.HasPrefix(kw, tt) {
			return true
		}
	}
	return false
}

// normalize lower-cases the text, splits it on non-letter, non-digit runes,
// and drops stopwords and tokens shorter than minTokenLength. Diacritics are
// preserved.
func normalize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) < minTokenLength || stopwords[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// Generator is the language-model call the rewriter depends on.
type Generator interface {
	Complete(ctx context.Context, model string, prompt string) (string, error)
}

// Rewriter produces a keyword-compliant title when the check fails.
type Rewriter struct {
	generator Generator
	model     string
	composer  *prompt.Composer
}

// NewRewriter creates a rewriter backed by the editorial model.
func NewRewriter(generator Generator, model string, composer *prompt.Composer) *Rewriter {
	return &Rewriter{generator: generator, model: model, composer: composer}
}

// Rewrite attempts a single corrective model call for a keyword-compliant,
// length-capped, properly-capitalized title. When the call fails it falls
// back to a deterministic construction from the raw keyword, so the rewrite
// never blocks the pipeline.
func (r *Rewriter) Rewrite(ctx context.Context, badTitle string, kw string) string {
	text, err := r.generator.Complete(ctx, r.model, r.composer.TitleRewrite(badTitle, kw))
	if err == nil {
		title := cleanTitle(text)
		if title != "" && TitleRespectsKeyword(title, kw) {
			return title
		}
		logger.Warn("rewritten title still off-keyword, using fallback", "title", title)
	} else {
		logger.Error("title rewrite call failed, using fallback", err)
	}

	return FallbackTitle(kw)
}

// FallbackTitle builds the deterministic replacement: the raw keyword with
// its first letter capitalized, truncated to MaxTitleLength.
func FallbackTitle(kw string) string {
	kw = strings.TrimSpace(kw)
	if kw == "" {
		return ""
	}

	runes := []rune(kw)
	runes[0] = unicode.ToUpper(runes[0])
	if len(runes) > MaxTitleLength {
		runes = runes[:MaxTitleLength]
	}
	return string(runes)
}

// cleanTitle strips quoting and heading markup a model may wrap around the
// returned title, and enforces the length cap.
func cleanTitle(text string) string {
	title := strings.TrimSpace(text)
	title = strings.TrimPrefix(title, "<h2>")
	title = strings.TrimSuffix(title, "</h2>")
	title = strings.Trim(title, "\"'„”")
	title = strings.TrimSpace(title)

	runes := []rune(title)
	if len(runes) > MaxTitleLength {
		runes = runes[:MaxTitleLength]
		title = strings.TrimSpace(string(runes))
	}
	return title
}
