package bubbletea

import tea "github.com/charmbracelet/bubbletea"

// MessageBlock is a renderable element in the conversation.
// Unlike tea.Model, View takes a width parameter so the root model
// controls layout and blocks are testable in isolation.
type MessageBlock interface {
	Update(tea.Msg) (MessageBlock, tea.Cmd)
	View(width int) string
}

// streamingBlock receives deltas while a job runs.
type streamingBlock interface {
	MessageBlock
	Append(delta string)
}

// ToggleMsg tells a collapsible block to toggle its collapsed state.
type ToggleMsg struct{}

// blockSeparator returns the text placed between two adjacent blocks.
// A notice reads as a footnote to the block above it.
func blockSeparator(prev, curr MessageBlock) string {
	if _, ok := curr.(*NoticeBlock); ok {
		switch prev.(type) {
		case *TutorBlock, *ToolBlock:
			return "\n"
		}
	}
	return "\n\n"
}
