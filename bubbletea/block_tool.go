package bubbletea

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/lingua"
	"github.com/fwojciec/lingua/markdown"
)

var _ streamingBlock = (*ToolBlock)(nil)

const previewWidth = 60

// ToolBlock renders a paraphrase or formula request and its streamed
// result. Finished results can be collapsed to a one-line preview.
type ToolBlock struct {
	title     string
	input     string
	result    *TutorBlock
	done      bool
	failed    bool
	collapsed bool
	styles    Styles
}

func NewToolBlock(title, input string, theme lingua.Theme, styles Styles) *ToolBlock {
	return &ToolBlock{
		title:  title,
		input:  input,
		result: NewTutorBlock("", theme),
		styles: styles,
	}
}

// Append adds a result delta.
func (b *ToolBlock) Append(delta string) { b.result.Append(delta) }

// Finish records how the request ended.
func (b *ToolBlock) Finish(o lingua.Outcome) {
	b.done = true
	b.failed = !o.OK()
}

// Result returns the text received so far.
func (b *ToolBlock) Result() string { return b.result.Text() }

// Collapsed reports whether the block shows only its preview line.
func (b *ToolBlock) Collapsed() bool { return b.collapsed }

func (b *ToolBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	if _, ok := msg.(ToggleMsg); ok && b.done {
		b.collapsed = !b.collapsed
	}
	return b, nil
}

func (b *ToolBlock) View(width int) string {
	status := b.styles.Muted.Render("…")
	switch {
	case b.done && b.failed:
		status = b.styles.Error.Render("✗")
	case b.done:
		status = b.styles.Success.Render("✓")
	}

	if b.collapsed {
		header := b.styles.Tool.Render("▶ "+b.title) + " " + status
		if preview := markdown.Excerpt(b.Result(), previewWidth); preview != "" {
			header += "  " + preview
		}
		return lipgloss.NewStyle().Width(width).Render(header)
	}

	header := b.styles.Tool.Render("▼ "+b.title) + " " + status
	input := b.styles.Muted.Render(fmt.Sprintf("“%s”", markdown.Excerpt(b.input, max(width-2, 10))))
	content := lipgloss.NewStyle().Width(width).Render(header + "\n" + input)
	if body := b.result.View(width); body != "" {
		content += "\n" + body
	}
	return content
}
