package lingua

import (
	"strings"
	"sync"
	"time"
)

// Transcript is the ordered message list of one conversation. It is
// append-only except for the assistant message at the tail of an open
// turn, whose content is replaced as deltas arrive.
//
// One goroutine writes (the orchestrator draining a stream); any number may
// read through Messages and Text.
type Transcript struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time

	mu       sync.Mutex
	messages []Message
	inFlight bool
	// tail is the index of the open assistant message, -1 until the first
	// delta of the current turn.
	tail int
	text strings.Builder
}

// NewTranscript returns a transcript seeded with the given sealed messages.
func NewTranscript(id string, seed ...Message) *Transcript {
	now := time.Now()
	return &Transcript{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
		messages:  append([]Message(nil), seed...),
		tail:      -1,
	}
}

// Begin opens a turn. It fails with ErrTurnInFlight while a previous turn
// has not been sealed.
func (t *Transcript) Begin() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.inFlight {
		return ErrTurnInFlight
	}
	t.inFlight = true
	t.tail = -1
	t.text.Reset()
	return nil
}

// AppendUser appends a sealed user message.
func (t *Transcript) AppendUser(content string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, UserText(content))
	t.UpdatedAt = time.Now()
}

// Apply folds one delta into the open turn and returns the accumulated
// assistant text. The first delta appends a new assistant message; later
// deltas replace the tail content with the full text received so far.
// Empty deltas and deltas outside an open turn are ignored.
func (t *Transcript) Apply(delta string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.inFlight || delta == "" {
		return t.text.String()
	}
	t.text.WriteString(delta)
	content := t.text.String()
	if t.tail < 0 {
		t.messages = append(t.messages, AssistantText(content))
		t.tail = len(t.messages) - 1
	} else {
		t.messages[t.tail] = AssistantText(content)
	}
	t.UpdatedAt = time.Now()
	return content
}

// Seal closes the open turn and returns its final assistant text. Sealing
// without an open turn is a no-op that returns "".
func (t *Transcript) Seal() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.inFlight {
		return ""
	}
	final := t.text.String()
	t.inFlight = false
	t.tail = -1
	t.text.Reset()
	return final
}

// InFlight reports whether a turn is open.
func (t *Transcript) InFlight() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inFlight
}

// Messages returns a copy of the current messages.
func (t *Transcript) Messages() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Message(nil), t.messages...)
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.messages)
}

// Text returns the assistant text accumulated in the open turn.
func (t *Transcript) Text() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.text.String()
}
