package core

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// StripHTML reduces HTML-bearing text to its visible content. Text fragments
// from distinct nodes are joined with a single space and the result is
// trimmed. Empty input yields an empty string. Markup is removed, not
// escaped; input without markup passes through unchanged apart from
// whitespace normalization at fragment boundaries.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		// Unparseable input degrades to trimmed raw text.
		return strings.TrimSpace(s)
	}

	var parts []string
	collectText(doc.Selection, &parts)
	return strings.Join(parts, " ")
}

// collectText walks the node tree and gathers trimmed text fragments.
func collectText(sel *goquery.Selection, parts *[]string) {
	sel.Contents().Each(func(_ int, s *goquery.Selection) {
		if goquery.NodeName(s) == "#text" {
			if text := strings.TrimSpace(s.Text()); text != "" {
				*parts = append(*parts, text)
			}
			return
		}
		collectText(s, parts)
	})
}
