package bubbletea

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var _ MessageBlock = (*UserMessageBlock)(nil)

// UserMessageBlock renders a learner message with a "> " prefix.
type UserMessageBlock struct {
	text   string
	styles Styles
}

func NewUserMessageBlock(text string, styles Styles) *UserMessageBlock {
	return &UserMessageBlock{text: text, styles: styles}
}

func (b *UserMessageBlock) Update(tea.Msg) (MessageBlock, tea.Cmd) { return b, nil }

func (b *UserMessageBlock) View(width int) string {
	return lipgloss.NewStyle().Width(width).Render(b.styles.UserMsg.Render("> ") + b.text)
}
