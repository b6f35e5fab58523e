package bubbletea

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/lingua"
	"github.com/fwojciec/lingua/markdown"
)

var _ tea.Model = Model{}

const (
	progressTimeout = 15 * time.Second
	accountTimeout  = 15 * time.Second
	placeholder     = "Type your message..."
)

type jobKind int

const (
	jobNone jobKind = iota
	jobTurn
	jobTool
)

// Option configures a Model.
type Option func(*Model)

// WithComplete enables the paraphrase and formula tools.
func WithComplete(fn CompleteFunc) Option {
	return func(m *Model) { m.complete = fn }
}

// WithProgress enables the /progress view.
func WithProgress(fn ProgressFunc) Option {
	return func(m *Model) { m.progress = fn }
}

// WithAccount enables /signin and /signout.
func WithAccount(signIn SignInFunc, signOut SignOutFunc) Option {
	return func(m *Model) {
		m.signIn = signIn
		m.signOut = signOut
	}
}

// WithSpeaker enables /say and /stop.
func WithSpeaker(s lingua.Speaker) Option {
	return func(m *Model) { m.speaker = s }
}

// WithSpeechEvents subscribes the model to playback notifications, which
// drive the speaking indicator.
func WithSpeechEvents(ch <-chan lingua.SpeechEvent) Option {
	return func(m *Model) { m.speechCh = ch }
}

// Model is the Bubble Tea model for the lingua TUI.
type Model struct {
	// Input is the text input component. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable output area. Exported for test access.
	Viewport viewport.Model

	send       SendFunc
	complete   CompleteFunc
	progress   ProgressFunc
	signIn     SignInFunc
	signOut    SignOutFunc
	speaker    lingua.Speaker
	speechCh   <-chan lingua.SpeechEvent
	transcript *lingua.Transcript
	theme      lingua.Theme
	styles     Styles

	blocks     []MessageBlock
	blockFocus int // index of the focused ToolBlock (-1 = none)
	// active receives deltas of the running job. A turn creates its
	// TutorBlock on the first delta so failed turns leave no empty block.
	active streamingBlock

	job             jobKind
	loadingProgress bool
	// signInEmail is set while the input is asking for that account's
	// password.
	signInEmail string
	// authenticating holds the status text of a pending account request.
	authenticating string
	speaking        bool
	speechErr       error
	last            lingua.Outcome
	cancel          context.CancelFunc
	eventCh         chan lingua.Event
	doneCh          chan lingua.Outcome
	ready           bool
}

// New creates a TUI Model driving turns on t through send.
func New(send SendFunc, t *lingua.Transcript, theme lingua.Theme, opts ...Option) Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 0

	m := Model{
		Input:      ti,
		send:       send,
		transcript: t,
		theme:      theme,
		styles:     NewStyles(theme),
		blockFocus: -1,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Running reports whether a turn or tool request is in progress.
func (m Model) Running() bool { return m.job != jobNone }

// Speaking reports whether the speaker is playing.
func (m Model) Speaking() bool { return m.speaking }

// LastOutcome returns the outcome of the most recent turn or tool request.
func (m Model) LastOutcome() lingua.Outcome { return m.last }

// Transcript returns the tutor transcript.
func (m Model) Transcript() *lingua.Transcript { return m.transcript }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, listenForSpeech(m.speechCh))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StreamEventMsg:
		m = m.processEvent(msg.Event)
		m = m.refresh()
		if m.eventCh != nil {
			return m, listenForEvent(m.eventCh, m.doneCh)
		}
		return m, nil

	case JobDoneMsg:
		return m.finishJob(msg.Outcome)

	case SpeechMsg:
		switch msg.Event.Kind {
		case lingua.SpeechStarted:
			m.speaking = true
			m.speechErr = nil
		case lingua.SpeechEnded:
			m.speaking = false
		case lingua.SpeechFailed:
			m.speaking = false
			m.speechErr = msg.Event.Err
		}
		return m, listenForSpeech(m.speechCh)

	case ProgressMsg:
		m.loadingProgress = false
		m = m.showProgress(msg)
		return m.refresh(), nil

	case AccountMsg:
		m.authenticating = ""
		m = m.showAccount(msg)
		return m.refresh(), nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)
	if !m.Running() {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	var b strings.Builder
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	const inputHeight, statusHeight, gaps = 1, 1, 2
	vpHeight := max(msg.Height-inputHeight-statusHeight-gaps, 1)

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m = m.renderTranscript()
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
	}
	m.Input.Width = msg.Width
	return m.refresh()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.Running() {
			if m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}
		if m.speaker != nil {
			m.speaker.Stop()
		}
		return m, tea.Quit

	case tea.KeyEsc:
		if m.signInEmail != "" {
			m = m.endPasswordPrompt()
			return m.notify(NewNoticeBlock("Sign in cancelled", "Type /signin <email> to try again.", m.styles)), nil
		}
		if m.speaker != nil && m.speaking {
			m.speaker.Stop()
			m.speaking = false
		}
		return m, nil

	case tea.KeyEnter:
		if m.Running() || m.authenticating != "" {
			return m, nil
		}
		if m.signInEmail != "" {
			email, password := m.signInEmail, m.Input.Value()
			m = m.endPasswordPrompt()
			m.authenticating = "Signing in..."
			return m.refresh(), signInCmd(m.signIn, email, password)
		}
		text := strings.TrimSpace(m.Input.Value())
		if text == "" {
			return m, nil
		}
		m.Input.SetValue("")
		if cmd, ok := parseCommand(text); ok {
			return m.runCommand(cmd)
		}
		return m.startTurn(text)

	case tea.KeyTab:
		if !m.Running() && m.blockFocus >= 0 {
			block, cmd := m.blocks[m.blockFocus].Update(ToggleMsg{})
			m.blocks[m.blockFocus] = block
			m.Viewport.SetContent(m.renderContent())
			return m, cmd
		}
		return m, nil

	case tea.KeyShiftTab:
		if !m.Running() {
			m = m.cycleFocusPrev()
		}
		return m, nil
	}

	if m.Running() {
		return m, nil
	}
	// Character keys go to the input only; 'j' and 'k' are text here.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	if msg.Type != tea.KeyRunes {
		m.Viewport, cmd = m.Viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.Input, cmd = m.Input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) startTurn(text string) (tea.Model, tea.Cmd) {
	m.blocks = append(m.blocks, NewUserMessageBlock(text, m.styles))
	m.active = nil
	send, t := m.send, m.transcript
	return m.startJob(jobTurn, func(ctx context.Context, onEvent func(lingua.Event)) lingua.Outcome {
		return send(ctx, t, text, onEvent)
	})
}

func (m Model) startTool(name, arg string) (tea.Model, tea.Cmd) {
	tl := tools[name]
	prompt, err := tl.prompt(arg)
	if err != nil {
		return m.notify(NewErrorNoticeBlock("Input required", tl.missing, m.styles)), nil
	}
	if m.complete == nil {
		return m.notify(NewErrorNoticeBlock(tl.title+" unavailable", "No provider is configured for tools.", m.styles)), nil
	}
	block := NewToolBlock(tl.title, arg, m.theme, m.styles)
	m.blocks = append(m.blocks, block)
	m.active = block
	complete := m.complete
	return m.startJob(jobTool, func(ctx context.Context, onEvent func(lingua.Event)) lingua.Outcome {
		return complete(ctx, prompt, onEvent)
	})
}

func (m Model) startJob(kind jobKind, run func(context.Context, func(lingua.Event)) lingua.Outcome) (tea.Model, tea.Cmd) {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.eventCh = make(chan lingua.Event, 256)
	m.doneCh = make(chan lingua.Outcome, 1)
	m.job = kind
	m.Input.Blur()
	m = m.refresh()
	return m, tea.Batch(
		runJob(ctx, run, m.eventCh, m.doneCh),
		listenForEvent(m.eventCh, m.doneCh),
	)
}

func (m Model) finishJob(o lingua.Outcome) (tea.Model, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
	}
	if tb, ok := m.active.(*ToolBlock); ok {
		tb.Finish(o)
	}
	m.job = jobNone
	m.cancel = nil
	m.eventCh = nil
	m.doneCh = nil
	m.active = nil
	m.last = o

	if !o.OK() {
		title, desc := o.Notice()
		if o.Kind == lingua.OutcomeCancelled {
			m.blocks = append(m.blocks, NewNoticeBlock(title, desc, m.styles))
		} else {
			m.blocks = append(m.blocks, NewErrorNoticeBlock(title, desc, m.styles))
		}
	}
	m = m.updateBlockFocus()
	m = m.refresh()
	cmd := m.Input.Focus()
	return m, cmd
}

func (m Model) processEvent(evt lingua.Event) Model {
	e, ok := evt.(lingua.EventTextDelta)
	if !ok || m.job == jobNone {
		return m
	}
	if m.active == nil {
		b := NewTutorBlock("", m.theme)
		m.blocks = append(m.blocks, b)
		m.active = b
	}
	m.active.Append(e.Delta)
	return m
}

func (m Model) runCommand(c command) (tea.Model, tea.Cmd) {
	switch c.name {
	case "paraphrase", "formula":
		return m.startTool(c.name, c.arg)
	case "progress":
		if m.progress == nil {
			return m.notify(NewErrorNoticeBlock("Progress unavailable", "Sign in to a backend to see your progress.", m.styles)), nil
		}
		m.loadingProgress = true
		return m.refresh(), loadProgress(m.progress)
	case "signin":
		if m.signIn == nil {
			return m.notify(NewErrorNoticeBlock("Sign in unavailable", "No account service is configured.", m.styles)), nil
		}
		if !strings.Contains(c.arg, "@") {
			return m.notify(NewErrorNoticeBlock("Input required", "Usage: /signin <email>", m.styles)), nil
		}
		m.signInEmail = c.arg
		m.Input.EchoMode = textinput.EchoPassword
		m.Input.EchoCharacter = '•'
		m.Input.Placeholder = "Password"
		return m.refresh(), nil
	case "signout":
		if m.signOut == nil {
			return m.notify(NewErrorNoticeBlock("Sign out unavailable", "No account service is configured.", m.styles)), nil
		}
		m.authenticating = "Signing out..."
		return m.refresh(), signOutCmd(m.signOut)
	case "say":
		return m.say(c.arg), nil
	case "stop":
		if m.speaker != nil {
			m.speaker.Stop()
		}
		m.speaking = false
		return m.refresh(), nil
	case "voice":
		return m.notify(NewNoticeBlock("Voice input unavailable", "Voice input is not supported in the terminal yet. Type your message instead.", m.styles)), nil
	case "help":
		return m.notify(NewNoticeBlock("Commands", helpText, m.styles)), nil
	default:
		return m.notify(NewErrorNoticeBlock("Unknown command", "Type /help to see the available commands.", m.styles)), nil
	}
}

// say reads the nth tutor message aloud, counting from 1. An empty arg
// picks the latest.
func (m Model) say(arg string) Model {
	if m.speaker == nil {
		return m.notify(NewErrorNoticeBlock("Speech unavailable", "Speech is turned off.", m.styles))
	}
	var replies []string
	for _, msg := range m.transcript.Messages() {
		if msg.Role == lingua.RoleAssistant && msg.Content != "" {
			replies = append(replies, msg.Content)
		}
	}
	if len(replies) == 0 {
		return m.notify(NewNoticeBlock("Nothing to say", "The tutor has not replied yet.", m.styles))
	}
	n := len(replies)
	if arg != "" {
		v, err := strconv.Atoi(arg)
		if err != nil || v < 1 || v > len(replies) {
			return m.notify(NewErrorNoticeBlock("Nothing to say", fmt.Sprintf("Choose a message between 1 and %d.", len(replies)), m.styles))
		}
		n = v
	}
	m.speaker.Speak(replies[n-1])
	return m.notify(NewNoticeBlock(fmt.Sprintf("Reading message %d", n), markdown.Excerpt(replies[n-1], previewWidth), m.styles))
}

func (m Model) showProgress(msg ProgressMsg) Model {
	switch {
	case msg.Err == nil:
		m.blocks = append(m.blocks, NewProgressBlock(msg.User, msg.Progress, m.styles))
	case errors.Is(msg.Err, lingua.ErrNoProgress):
		m.blocks = append(m.blocks, NewNoticeBlock("No progress yet", "Start your first lesson to see your progress!", m.styles))
	case errors.Is(msg.Err, lingua.ErrNotAuthenticated):
		m.blocks = append(m.blocks, NewErrorNoticeBlock("Not signed in", "Sign in to see your progress.", m.styles))
	default:
		m.blocks = append(m.blocks, NewErrorNoticeBlock("Error", "Failed to load progress. Please try again.", m.styles))
	}
	return m
}

func (m Model) showAccount(msg AccountMsg) Model {
	switch {
	case msg.SignedOut && msg.Err != nil:
		m.blocks = append(m.blocks, NewErrorNoticeBlock("Sign out failed", "The session was dropped locally but the server did not confirm.", m.styles))
	case msg.SignedOut:
		m.blocks = append(m.blocks, NewNoticeBlock("Signed out", "Your session has ended.", m.styles))
	case errors.Is(msg.Err, lingua.ErrValidation):
		m.blocks = append(m.blocks, NewErrorNoticeBlock("Input required", "Enter your email and password.", m.styles))
	case msg.Err != nil:
		m.blocks = append(m.blocks, NewErrorNoticeBlock("Sign in failed", "Check your email and password and try again.", m.styles))
	default:
		m.blocks = append(m.blocks, NewNoticeBlock("Signed in", msg.User.Email, m.styles))
	}
	return m
}

// endPasswordPrompt restores the input after the password prompt. The
// typed password is cleared.
func (m Model) endPasswordPrompt() Model {
	m.signInEmail = ""
	m.Input.Reset()
	m.Input.EchoMode = textinput.EchoNormal
	m.Input.Placeholder = placeholder
	return m
}

func (m Model) notify(b *NoticeBlock) Model {
	m.blocks = append(m.blocks, b)
	return m.refresh()
}

func (m Model) refresh() Model {
	if !m.ready {
		return m
	}
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()
	return m
}

// renderTranscript creates blocks for messages already in the transcript.
func (m Model) renderTranscript() Model {
	for _, msg := range m.transcript.Messages() {
		switch msg.Role {
		case lingua.RoleUser:
			m.blocks = append(m.blocks, NewUserMessageBlock(msg.Content, m.styles))
		case lingua.RoleAssistant:
			m.blocks = append(m.blocks, NewTutorBlock(msg.Content, m.theme))
		}
	}
	return m
}

func (m Model) renderContent() string {
	var b strings.Builder
	for i, block := range m.blocks {
		if i > 0 {
			b.WriteString(blockSeparator(m.blocks[i-1], block))
		}
		b.WriteString(block.View(m.Viewport.Width))
	}
	return b.String()
}

// updateBlockFocus focuses the last finished ToolBlock.
func (m Model) updateBlockFocus() Model {
	m.blockFocus = -1
	for i := len(m.blocks) - 1; i >= 0; i-- {
		if tb, ok := m.blocks[i].(*ToolBlock); ok && tb.done {
			m.blockFocus = i
			return m
		}
	}
	return m
}

// cycleFocusPrev moves focus to the previous finished ToolBlock, wrapping.
func (m Model) cycleFocusPrev() Model {
	n := len(m.blocks)
	start := m.blockFocus - 1
	if start < 0 {
		start = n - 1
	}
	for i := range n {
		idx := (start - i + n) % n
		if tb, ok := m.blocks[idx].(*ToolBlock); ok && tb.done {
			m.blockFocus = idx
			return m
		}
	}
	m.blockFocus = -1
	return m
}

func (m Model) statusLine() string {
	switch {
	case m.job == jobTurn:
		return m.styles.Muted.Render("Tutor is typing... Ctrl+C to cancel")
	case m.job == jobTool:
		return m.styles.Muted.Render("Generating... Ctrl+C to cancel")
	case m.loadingProgress:
		return m.styles.Muted.Render("Loading progress...")
	case m.authenticating != "":
		return m.styles.Muted.Render(m.authenticating)
	case m.signInEmail != "":
		return m.styles.Accent.Render(fmt.Sprintf("Password for %s. Enter to sign in, Esc to cancel", m.signInEmail))
	case m.speaking:
		return m.styles.Speaking.Render("♪ Speaking... Esc to stop")
	case m.speechErr != nil:
		return m.styles.Error.Render(fmt.Sprintf("Speech failed: %v", m.speechErr))
	}
	return m.styles.Muted.Render("Enter to send, /help for commands, Ctrl+C to quit")
}

// runJob runs a turn or tool request in the command goroutine and reports
// its outcome after the last event.
func runJob(ctx context.Context, run func(context.Context, func(lingua.Event)) lingua.Outcome, eventCh chan<- lingua.Event, doneCh chan<- lingua.Outcome) tea.Cmd {
	return func() tea.Msg {
		o := run(ctx, func(e lingua.Event) {
			select {
			case eventCh <- e:
			case <-ctx.Done():
			}
		})
		close(eventCh)
		doneCh <- o
		return nil
	}
}

// listenForEvent waits for the next event. When the channel closes it
// returns the outcome as a JobDoneMsg.
func listenForEvent(ch <-chan lingua.Event, doneCh <-chan lingua.Outcome) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return JobDoneMsg{Outcome: <-doneCh}
		}
		return StreamEventMsg{Event: evt}
	}
}

func listenForSpeech(ch <-chan lingua.SpeechEvent) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		e, ok := <-ch
		if !ok {
			return nil
		}
		return SpeechMsg{Event: e}
	}
}

func loadProgress(fn ProgressFunc) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), progressTimeout)
		defer cancel()
		user, p, err := fn(ctx)
		return ProgressMsg{User: user, Progress: p, Err: err}
	}
}

func signInCmd(fn SignInFunc, email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), accountTimeout)
		defer cancel()
		user, err := fn(ctx, email, password)
		return AccountMsg{User: user, Err: err}
	}
}

func signOutCmd(fn SignOutFunc) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), accountTimeout)
		defer cancel()
		return AccountMsg{SignedOut: true, Err: fn(ctx)}
	}
}
