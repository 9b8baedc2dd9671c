// Package outline parses a generated article plan into an ordered list of
// section descriptors.
package outline

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"pressgen/internal/core"
)

// Parse scans h2 and h3 headings in document order and returns one Section
// per heading. When the element immediately following a heading is a
// paragraph, its text becomes the section description; otherwise the
// description stays empty. Order is preserved.
func Parse(outlineHTML string) ([]core.Section, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(outlineHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse outline: %w", err)
	}

	var sections []core.Section
	doc.Find("h2, h3").Each(func(_ int, heading *goquery.Selection) {
		section := core.Section{
			Level: goquery.NodeName(heading),
			Title: strings.TrimSpace(heading.Text()),
		}

		next := heading.Next()
		if next.Length() > 0 && goquery.NodeName(next) == "p" {
			section.Desc = strings.TrimSpace(next.Text())
		}

		sections = append(sections, section)
	})

	return sections, nil
}
