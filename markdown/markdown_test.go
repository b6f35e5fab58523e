package markdown_test

import (
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/lingua"
	"github.com/fwojciec/lingua/markdown"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}

func TestMain(m *testing.M) {
	// Force color output so styled elements are distinguishable.
	lipgloss.SetColorProfile(termenv.ANSI)
	os.Exit(m.Run())
}

func TestRender(t *testing.T) {
	t.Parallel()
	theme := lingua.DefaultTheme()

	t.Run("empty input returns empty string", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "", markdown.Render("", 80, theme))
	})

	t.Run("plain paragraph", func(t *testing.T) {
		t.Parallel()
		assert.Contains(t, stripANSI(markdown.Render("¡Hola! ¿Qué tal?", 80, theme)), "¡Hola! ¿Qué tal?")
	})

	t.Run("heading is styled differently from a paragraph", func(t *testing.T) {
		t.Parallel()
		heading := markdown.Render("# Vocabulary", 80, theme)
		paragraph := markdown.Render("Vocabulary", 80, theme)
		assert.Contains(t, stripANSI(heading), "Vocabulary")
		assert.NotEqual(t, heading, paragraph)
	})

	t.Run("emphasis keeps text", func(t *testing.T) {
		t.Parallel()
		for _, src := range []string{"**bold**", "*italic*", "***both***", "`code`", "~~wrong~~"} {
			out := stripANSI(markdown.Render(src, 80, theme))
			assert.Contains(t, out, strings.Trim(src, "*`~"))
		}
	})

	t.Run("strikethrough is styled", func(t *testing.T) {
		t.Parallel()
		assert.NotEqual(t, markdown.Render("~~fue~~", 80, theme), markdown.Render("fue", 80, theme))
	})

	t.Run("fenced code block keeps lines and language", func(t *testing.T) {
		t.Parallel()
		src := "```excel\n=SUMIF(A:A,\"Paid\",B:B)\n```"
		out := stripANSI(markdown.Render(src, 20, theme))
		assert.Contains(t, out, "excel")
		assert.Contains(t, out, `│ =SUMIF(A:A,"Paid",B:B)`)
	})

	t.Run("indented code block", func(t *testing.T) {
		t.Parallel()
		out := stripANSI(markdown.Render("paragraph\n\n    indented code\n    more code", 80, theme))
		assert.Contains(t, out, "indented code")
		assert.Contains(t, out, "more code")
	})

	t.Run("bullet and ordered lists", func(t *testing.T) {
		t.Parallel()
		out := stripANSI(markdown.Render("- uno\n- dos\n\n3. tres\n4. cuatro", 80, theme))
		assert.Contains(t, out, "• uno")
		assert.Contains(t, out, "• dos")
		assert.Contains(t, out, "3. tres")
		assert.Contains(t, out, "4. cuatro")
	})

	t.Run("nested list is indented", func(t *testing.T) {
		t.Parallel()
		out := stripANSI(markdown.Render("- verbs\n  - ser\n  - estar", 80, theme))
		assert.Contains(t, out, "• verbs")
		assert.Contains(t, out, "  • ser")
		assert.Contains(t, out, "  • estar")
	})

	t.Run("list continuation lines are indented", func(t *testing.T) {
		t.Parallel()
		src := "- this is a very long list item that should wrap and keep continuation lines aligned"
		lines := strings.Split(stripANSI(markdown.Render(src, 30, theme)), "\n")
		require.Greater(t, len(lines), 1)
		assert.True(t, strings.HasPrefix(lines[0], "• "))
		for _, line := range lines[1:] {
			if strings.TrimSpace(line) != "" {
				assert.True(t, strings.HasPrefix(line, "  "), "continuation line should be indented: %q", line)
			}
		}
	})

	t.Run("blockquote has a gutter", func(t *testing.T) {
		t.Parallel()
		out := stripANSI(markdown.Render("> Me llamo Ana.", 80, theme))
		assert.Contains(t, out, "┃ Me llamo Ana.")
	})

	t.Run("table columns are aligned", func(t *testing.T) {
		t.Parallel()
		src := "| English | Español |\n|---|---|\n| dog | perro |\n| butterfly | mariposa |"
		out := stripANSI(markdown.Render(src, 80, theme))
		var lines []string
		for _, l := range strings.Split(out, "\n") {
			lines = append(lines, strings.TrimRight(l, " "))
		}
		require.Len(t, lines, 4)
		assert.Equal(t, "English   │ Español", lines[0])
		assert.Contains(t, lines[1], "┼")
		assert.Equal(t, "dog       │ perro", lines[2])
		assert.Equal(t, "butterfly │ mariposa", lines[3])
	})

	t.Run("link shows text and URL", func(t *testing.T) {
		t.Parallel()
		out := stripANSI(markdown.Render("[RAE](https://rae.es)", 80, theme))
		assert.Contains(t, out, "RAE")
		assert.Contains(t, out, "(https://rae.es)")
	})

	t.Run("paragraph wraps to width", func(t *testing.T) {
		t.Parallel()
		long := "word1 word2 word3 word4 word5 word6 word7 word8 word9 word10 word11 word12"
		out := markdown.Render(long, 30, theme)
		assert.Contains(t, stripANSI(out), "word12")
		assert.Greater(t, len(strings.Split(out, "\n")), 1)
	})

	t.Run("thematic break", func(t *testing.T) {
		t.Parallel()
		out := stripANSI(markdown.Render("above\n\n---\n\nbelow", 20, theme))
		assert.Contains(t, out, strings.Repeat("─", 20))
		assert.Contains(t, out, "below")
	})

	t.Run("width zero defaults to 80", func(t *testing.T) {
		t.Parallel()
		assert.Contains(t, stripANSI(markdown.Render("hello world", 0, theme)), "hello world")
	})
}

func TestExcerpt(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		source string
		width  int
		want   string
	}{
		{"short line unchanged", "Hola", 10, "Hola"},
		{"first non-blank line", "\n\n  Buenos días\nsecond", 20, "Buenos días"},
		{"truncated with ellipsis", "Paraphrase the following text", 10, "Paraphras…"},
		{"wide runes counted by cells", "日本語のテキスト", 7, "日本語…"},
		{"grapheme clusters kept whole", "éééé", 3, "éé…"},
		{"zero width disables truncation", "anything goes", 0, "anything goes"},
		{"empty", "", 5, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, markdown.Excerpt(tt.source, tt.width))
		})
	}
}
