// Package sanitize is the pure text transform applied to every draft before
// publishing. It strips citation-style artifacts the drafting prompts forbid
// but cannot fully prevent, removes trailing source lists, and enforces the
// outbound link policy. The transform is idempotent: output fed back in comes
// out unchanged.
package sanitize

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	// Superscript numeral citation markers: <sup>2</sup>, <sup>1,3</sup>, <sup>[4]</sup>.
	supCitationRe = regexp.MustCompile(`(?is)<sup[^>]*>\s*[\[\]\d,;\s\-–]*\d[\[\]\d,;\s\-–]*\s*</sup>`)

	// Bracketed numeral citation groups: [3], [1-4], [2, 5], [1,3-6].
	bracketCitationRe = regexp.MustCompile(`\[\d+(?:\s*[-–]\s*\d+)?(?:\s*,\s*\d+(?:\s*[-–]\s*\d+)?)*\]`)

	// Caret footnote markers: [^1].
	caretFootnoteRe = regexp.MustCompile(`\[\^\d+\]`)

	// Parenthesized bare-numeral artifacts: (3), (1, 2). Limited to one or
	// two digits so years like (2025) survive.
	parenCitationRe = regexp.MustCompile(`\(\s*\d{1,2}(?:\s*,\s*\d{1,2})*\s*\)`)

	// Residual whitespace left behind by the strips above.
	spaceBeforePunctRe = regexp.MustCompile(`[ \t]+([.,;:!?])`)
	doubleSpaceRe      = regexp.MustCompile(`[ \t]{2,}`)
	blankLinesRe       = regexp.MustCompile(`\n{3,}`)
)

// sourceLabels are heading texts that open a source list to be removed,
// compared case-insensitively after trimming trailing punctuation.
var sourceLabels = map[string]bool{
	"źródła":       true,
	"zrodla":       true,
	"źródło":       true,
	"bibliografia": true,
	"przypisy":     true,
	"literatura":   true,
	"sources":      true,
	"source":       true,
	"bibliography": true,
	"references":   true,
}

// Sanitize strips citation artifacts and source lists from the rendered
// markup, normalizes residual whitespace and applies the link policy.
// Re-applying it to its own output is a no-op.
func Sanitize(html string) string {
	cleaned := stripCitationArtifacts(html)
	cleaned = rewriteDocument(cleaned)
	cleaned = normalizeWhitespace(cleaned)
	return cleaned
}

// stripCitationArtifacts removes the pattern-matchable citation forms. This
// is a best-effort filter over what the drafting prompts already forbid, not
// a correctness guarantee.
func stripCitationArtifacts(html string) string {
	html = supCitationRe.ReplaceAllString(html, "")
	html = caretFootnoteRe.ReplaceAllString(html, "")
	html = bracketCitationRe.ReplaceAllString(html, "")
	html = parenCitationRe.ReplaceAllString(html, "")
	return html
}

// rewriteDocument runs the structural pass: source-list removal and the link
// policy, serializing back to fragment HTML.
func rewriteDocument(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}

	removeSourceSections(doc)
	enforceLinkPolicy(doc)

	out, err := doc.Find("body").Html()
	if err != nil {
		return html
	}
	return out
}

// removeSourceSections drops every heading whose text is a source-list label,
// together with everything up to the next heading or document end.
func removeSourceSections(doc *goquery.Document) {
	doc.Find("h2, h3, h4").Each(func(_ int, heading *goquery.Selection) {
		label := strings.ToLower(strings.TrimSpace(heading.Text()))
		label = strings.TrimRight(label, ":.")
		if !sourceLabels[label] {
			return
		}
		heading.NextUntil("h1, h2, h3, h4").Remove()
		heading.Remove()
	})
}

// enforceLinkPolicy adds a no-follow, no-opener relation and a new-tab target
// to every absolute-URL anchor without touching anchor text.
func enforceLinkPolicy(doc *goquery.Document) {
	doc.Find("a[href]").Each(func(_ int, anchor *goquery.Selection) {
		href, _ := anchor.Attr("href")
		if !strings.HasPrefix(href, "http://") && !strings.HasPrefix(href, "https://") {
			return
		}
		anchor.SetAttr("rel", "nofollow noopener")
		anchor.SetAttr("target", "_blank")
	})
}

// normalizeWhitespace removes space left before punctuation by the strips and
// collapses runs of blank lines.
func normalizeWhitespace(html string) string {
	html = spaceBeforePunctRe.ReplaceAllString(html, "$1")
	html = doubleSpaceRe.ReplaceAllString(html, " ")
	html = blankLinesRe.ReplaceAllString(html, "\n\n")
	return strings.TrimSpace(html)
}
