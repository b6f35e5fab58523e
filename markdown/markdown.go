// Package markdown renders tutor replies to ANSI-styled terminal output
// using goldmark for parsing and lipgloss for styling.
package markdown

import (
	"strings"

	"github.com/fwojciec/lingua"
	"github.com/rivo/uniseg"
)

const defaultWidth = 80

// Render parses markdown source and returns ANSI-styled terminal output.
// Paragraphs, quotes and list items are word-wrapped to width. Code blocks
// and tables keep their layout.
func Render(source string, width int, theme lingua.Theme) string {
	if source == "" {
		return ""
	}
	if width <= 0 {
		width = defaultWidth
	}
	return newRenderer(theme).render([]byte(source), width)
}

// Excerpt returns the first non-blank line of source, truncated to width
// terminal cells with a trailing ellipsis. Grapheme clusters are never
// split.
func Excerpt(source string, width int) string {
	var line string
	for l := range strings.Lines(source) {
		if l = strings.TrimSpace(l); l != "" {
			line = l
			break
		}
	}
	if width <= 0 || uniseg.StringWidth(line) <= width {
		return line
	}

	var b strings.Builder
	used := 0
	state := -1
	rest := line
	for rest != "" {
		var cluster string
		var w int
		cluster, rest, w, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if used+w > width-1 {
			break
		}
		b.WriteString(cluster)
		used += w
	}
	return b.String() + "…"
}
