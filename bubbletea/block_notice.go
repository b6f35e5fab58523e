package bubbletea

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var _ MessageBlock = (*NoticeBlock)(nil)

// NoticeBlock renders a titled notice: an outcome that did not complete,
// missing tool input, or a command hint.
type NoticeBlock struct {
	title       string
	description string
	isError     bool
	styles      Styles
}

// NewNoticeBlock creates an informational notice.
func NewNoticeBlock(title, description string, styles Styles) *NoticeBlock {
	return &NoticeBlock{title: title, description: description, styles: styles}
}

// NewErrorNoticeBlock creates a notice styled as an error.
func NewErrorNoticeBlock(title, description string, styles Styles) *NoticeBlock {
	return &NoticeBlock{title: title, description: description, isError: true, styles: styles}
}

// IsError reports whether the notice is styled as an error.
func (b *NoticeBlock) IsError() bool { return b.isError }

func (b *NoticeBlock) Update(tea.Msg) (MessageBlock, tea.Cmd) { return b, nil }

func (b *NoticeBlock) View(width int) string {
	title := b.styles.Accent.Render("! " + b.title)
	if b.isError {
		title = b.styles.Error.Bold(true).Render("✗ " + b.title)
	}
	content := title
	if b.description != "" {
		content += "\n" + b.styles.Muted.Render(b.description)
	}
	return lipgloss.NewStyle().Width(width).Render(content)
}
