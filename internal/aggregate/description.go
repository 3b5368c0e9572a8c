package aggregate

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// cleanDescription strips markup from a graph-supplied description and
// bounds its length. Graph descriptions occasionally arrive as HTML
// fragments; plain text passes through unchanged.
func cleanDescription(desc string) string {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return ""
	}

	if strings.ContainsAny(desc, "<>") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(desc)); err == nil {
			desc = strings.TrimSpace(doc.Text())
		}
	}

	desc = strings.Join(strings.Fields(desc), " ")
	return truncate(desc, maxDescriptionLen)
}

// truncate cuts text to at most limit runes, backing up to the last word
// boundary and appending an ellipsis.
func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}

	cut := string(runes[:limit])
	if idx := strings.LastIndex(cut, " "); idx > limit/2 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " .,;:") + "..."
}
