package bubbletea_test

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/lingua"
	bt "github.com/fwojciec/lingua/bubbletea"
	"github.com/fwojciec/lingua/mock"
	"github.com/fwojciec/lingua/tutor"
	"github.com/stretchr/testify/require"
)

func greeting() *lingua.Transcript {
	return lingua.NewTranscript("tr-test", lingua.AssistantText(lingua.TutorGreeting))
}

// initModel creates a model and sends a WindowSizeMsg to initialize the viewport.
func initModel(t *testing.T, send bt.SendFunc, opts ...bt.Option) bt.Model {
	t.Helper()
	return initModelWithSize(t, send, 80, 24, opts...)
}

func initModelWithSize(t *testing.T, send bt.SendFunc, width, height int, opts ...bt.Option) bt.Model {
	t.Helper()
	m := bt.New(send, greeting(), lingua.DefaultTheme(), opts...)
	return updateModel(t, m, tea.WindowSizeMsg{Width: width, Height: height})
}

// updateModel sends a message and returns the updated Model.
func updateModel(t *testing.T, m bt.Model, msg tea.Msg) bt.Model {
	t.Helper()
	m, _ = update(t, m, msg)
	return m
}

func update(t *testing.T, m bt.Model, msg tea.Msg) (bt.Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model, cmd
}

// submit types text and presses Enter, then runs any job it started to
// completion.
func submit(t *testing.T, m bt.Model, text string) bt.Model {
	t.Helper()
	m.Input.SetValue(text)
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	return settle(t, m, cmd)
}

// settle executes cmd and feeds the resulting messages back into the model
// until a job, progress lookup or account request finishes. Commands that do neither are
// dropped.
func settle(t *testing.T, m bt.Model, cmd tea.Cmd) bt.Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case bt.StreamEventMsg:
			var next tea.Cmd
			m, next = update(t, m, msg)
			queue = append(queue, next)
		case bt.JobDoneMsg, bt.ProgressMsg, bt.AccountMsg:
			return updateModel(t, m, msg)
		}
	}
	return m
}

// nopSend completes immediately without a reply.
func nopSend(context.Context, *lingua.Transcript, string, func(lingua.Event)) lingua.Outcome {
	return lingua.Outcome{Kind: lingua.OutcomeCompleted}
}

// providerReplying returns a provider that streams deltas then ends with err.
func providerReplying(err error, deltas ...string) *mock.Provider {
	return &mock.Provider{
		StreamFn: func(context.Context, lingua.Request) (lingua.Stream, error) {
			return mock.TextStream(err, deltas...), nil
		},
	}
}

// tutorSend wires an orchestrator the way the CLI does.
func tutorSend(o *tutor.Orchestrator) bt.SendFunc {
	return func(ctx context.Context, t *lingua.Transcript, text string, onEvent func(lingua.Event)) lingua.Outcome {
		return o.Send(ctx, t, text, tutor.WithEventHandler(onEvent))
	}
}

func tutorComplete(o *tutor.Orchestrator) bt.CompleteFunc {
	return func(ctx context.Context, prompt string, onEvent func(lingua.Event)) lingua.Outcome {
		return o.Complete(ctx, prompt, tutor.WithEventHandler(onEvent))
	}
}
