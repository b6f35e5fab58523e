package lingua

// StreamState indicates the current state of a Stream.
type StreamState int

const (
	StreamStateNew       StreamState = iota // Before Next() is ever called.
	StreamStateStreaming                    // Mid-stream, receiving deltas.
	StreamStateComplete                     // Next() returned io.EOF.
	StreamStateError                        // Next() returned non-EOF error.
	StreamStateClosed                       // Close() called before terminal state.
)

// String returns a lowercase name for the state.
func (s StreamState) String() string {
	switch s {
	case StreamStateNew:
		return "new"
	case StreamStateStreaming:
		return "streaming"
	case StreamStateComplete:
		return "complete"
	case StreamStateError:
		return "error"
	case StreamStateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Stream uses a pull-based iterator pattern. Cancellation flows through the
// context passed to Provider.Stream().
//
// Next returns one EventTextDelta per non-empty fragment, in the order the
// underlying bytes arrived, and io.EOF once the stream completes normally.
// Any other error is terminal and Next keeps returning it.
//
// Text returns the concatenation of every delta returned so far, regardless
// of state. After an error or Close it is the partial text.
type Stream interface {
	Next() (Event, error)
	State() StreamState
	Text() string
	Close() error
}
