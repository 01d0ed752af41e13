package ui

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Span is a run of text with its emphasis.
type Span struct {
	Text   string
	Bold   bool
	Italic bool
}

var emphasis = regexp.MustCompile(`\*\*\*[^*]+\*\*\*|\*\*[^*]+\*\*|\*[^*]+\*`)

// ParseFormatted splits text on ***bold italic***, **bold** and *italic*
// markers. Unmatched asterisks are left as plain text.
func ParseFormatted(text string) []Span {
	var spans []Span
	last := 0
	for _, loc := range emphasis.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			spans = append(spans, Span{Text: text[last:loc[0]]})
		}
		part := text[loc[0]:loc[1]]
		switch {
		case strings.HasPrefix(part, "***"):
			spans = append(spans, Span{Text: part[3 : len(part)-3], Bold: true, Italic: true})
		case strings.HasPrefix(part, "**"):
			spans = append(spans, Span{Text: part[2 : len(part)-2], Bold: true})
		default:
			spans = append(spans, Span{Text: part[1 : len(part)-1], Italic: true})
		}
		last = loc[1]
	}
	if last < len(text) {
		spans = append(spans, Span{Text: text[last:]})
	}
	return spans
}

// RenderFormatted renders text with emphasis applied on top of base.
func RenderFormatted(text string, base lipgloss.Style) string {
	var b strings.Builder
	for _, s := range ParseFormatted(text) {
		st := base
		if s.Bold {
			st = st.Bold(true)
		}
		if s.Italic {
			st = st.Italic(true)
		}
		b.WriteString(st.Render(s.Text))
	}
	return b.String()
}

// PlainFormatted strips emphasis markers, for width calculations and wrapping.
func PlainFormatted(text string) string {
	var b strings.Builder
	for _, s := range ParseFormatted(text) {
		b.WriteString(s.Text)
	}
	return b.String()
}
