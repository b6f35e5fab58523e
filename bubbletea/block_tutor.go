package bubbletea

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/lingua"
	"github.com/fwojciec/lingua/markdown"
)

var _ streamingBlock = (*TutorBlock)(nil)

// TutorBlock renders streamed tutor text as markdown. Text up to the last
// paragraph break outside a code fence is stable: it is rendered once per
// width and cached, so each delta only re-renders the open paragraph.
type TutorBlock struct {
	raw   strings.Builder
	theme lingua.Theme

	stable string
	cache  map[int]string
}

func NewTutorBlock(text string, theme lingua.Theme) *TutorBlock {
	b := &TutorBlock{theme: theme, cache: make(map[int]string)}
	b.Append(text)
	return b
}

// Append adds a delta.
func (b *TutorBlock) Append(delta string) {
	if delta == "" {
		return
	}
	b.raw.WriteString(delta)
	b.advanceStable()
}

// Text returns all text received so far.
func (b *TutorBlock) Text() string { return b.raw.String() }

func (b *TutorBlock) Update(tea.Msg) (MessageBlock, tea.Cmd) { return b, nil }

func (b *TutorBlock) View(width int) string {
	head := b.renderStable(width)
	open := b.open()
	if openFence(open) {
		open += "\n```"
	}
	if strings.TrimSpace(open) == "" {
		return head
	}
	tail := markdown.Render(open, width, b.theme)
	if strings.TrimSpace(tail) == "" {
		return head
	}
	if head == "" {
		return tail
	}
	return strings.TrimRight(head, "\n") + "\n\n" + strings.TrimLeft(tail, "\n")
}

// advanceStable moves the stable boundary to the last "\n\n" whose prefix
// has every code fence closed.
func (b *TutorBlock) advanceStable() {
	raw := b.raw.String()
	end := len(raw)
	for {
		i := strings.LastIndex(raw[:end], "\n\n")
		if i <= 0 {
			return
		}
		if prefix := raw[:i]; !openFence(prefix) {
			if prefix != b.stable {
				b.stable = prefix
				clear(b.cache)
			}
			return
		}
		end = i
	}
}

func (b *TutorBlock) renderStable(width int) string {
	if width <= 0 || b.stable == "" {
		return ""
	}
	if s, ok := b.cache[width]; ok {
		return s
	}
	s := markdown.Render(b.stable, width, b.theme)
	b.cache[width] = s
	return s
}

func (b *TutorBlock) open() string {
	raw := b.raw.String()
	if b.stable == "" {
		return raw
	}
	return strings.TrimPrefix(raw, b.stable+"\n\n")
}

// openFence reports an odd number of ``` markers. Triple backticks inside
// inline code are miscounted; tutor replies rarely contain them.
func openFence(s string) bool {
	return strings.Count(s, "```")%2 == 1
}
