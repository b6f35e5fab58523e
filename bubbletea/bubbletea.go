// Package bubbletea provides the Bubble Tea terminal UI for lingua: the
// chat tutor, the paraphrase and formula tools, and the progress view.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/lingua"
)

// SendFunc runs one tutor turn against the transcript. onEvent is called
// for each delta in arrival order. It blocks until the turn ends.
type SendFunc func(ctx context.Context, t *lingua.Transcript, text string, onEvent func(lingua.Event)) lingua.Outcome

// CompleteFunc runs a one-shot prompt for the paraphrase and formula tools.
type CompleteFunc func(ctx context.Context, prompt string, onEvent func(lingua.Event)) lingua.Outcome

// ProgressFunc loads the signed-in user and their progress counters.
type ProgressFunc func(ctx context.Context) (lingua.User, lingua.Progress, error)

// SignInFunc exchanges an email and password for a session.
type SignInFunc func(ctx context.Context, email, password string) (lingua.User, error)

// SignOutFunc ends the current session.
type SignOutFunc func(ctx context.Context) error

// Run creates and runs the Bubble Tea program. It blocks until the program
// exits. Cancelling ctx quits the program.
func Run(ctx context.Context, m Model) (Model, error) {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		m = fm
	}
	return m, err
}

// StreamEventMsg wraps a streaming event for delivery to the model.
type StreamEventMsg struct {
	Event lingua.Event
}

// JobDoneMsg signals that the running turn or tool request has ended.
type JobDoneMsg struct {
	Outcome lingua.Outcome
}

// SpeechMsg delivers a playback notification.
type SpeechMsg struct {
	Event lingua.SpeechEvent
}

// ProgressMsg carries the result of a progress lookup.
type ProgressMsg struct {
	User     lingua.User
	Progress lingua.Progress
	Err      error
}

// AccountMsg carries the result of a sign-in or sign-out.
type AccountMsg struct {
	User      lingua.User
	SignedOut bool
	Err       error
}
