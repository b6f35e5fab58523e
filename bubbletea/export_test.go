package bubbletea

import "context"

// BlockSeparator exports blockSeparator for testing.
func BlockSeparator(prev, curr MessageBlock) string {
	return blockSeparator(prev, curr)
}

// RenderContent exports renderContent for testing.
func RenderContent(m Model) string {
	return m.renderContent()
}

// SetRunning puts the model in the middle of a tutor turn.
func SetRunning(m Model) Model {
	m.job = jobTurn
	return m
}

// SetRunningWithCancel puts the model in the middle of a tutor turn that
// cancel aborts.
func SetRunningWithCancel(m Model, cancel context.CancelFunc) Model {
	m.job = jobTurn
	m.cancel = cancel
	return m
}
