package supabase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/lingua"
	"github.com/fwojciec/lingua/sse"
)

// stream implements [lingua.Stream] over a chat function response body.
type stream struct {
	body   io.ReadCloser
	reader *sse.Reader
	ctx    context.Context
	state  lingua.StreamState
	text   strings.Builder
	err    error // terminal error, if any
}

// Interface compliance check.
var _ lingua.Stream = (*stream)(nil)

func newStream(ctx context.Context, body io.ReadCloser, opts ...sse.Option) *stream {
	return &stream{
		body:   body,
		reader: sse.NewReader(body, opts...),
		ctx:    ctx,
		state:  lingua.StreamStateNew,
	}
}

// Next returns the next text delta, or io.EOF when the stream completes.
func (s *stream) Next() (lingua.Event, error) {
	switch s.state {
	case lingua.StreamStateComplete:
		return nil, io.EOF
	case lingua.StreamStateError:
		return nil, s.err
	case lingua.StreamStateClosed:
		return nil, fmt.Errorf("supabase: %w", lingua.ErrStreamClosed)
	}

	delta, err := s.reader.Next()
	if errors.Is(err, io.EOF) {
		s.state = lingua.StreamStateComplete
		return nil, io.EOF
	}
	if err != nil {
		s.terminate(err)
		return nil, s.err
	}
	s.state = lingua.StreamStateStreaming
	s.text.WriteString(delta)
	return lingua.EventTextDelta{Delta: delta}, nil
}

// State returns the current stream state.
func (s *stream) State() lingua.StreamState {
	return s.state
}

// Text returns the text received so far.
func (s *stream) Text() string {
	return s.text.String()
}

// Close closes the underlying HTTP response body.
func (s *stream) Close() error {
	if s.state != lingua.StreamStateComplete && s.state != lingua.StreamStateError {
		s.state = lingua.StreamStateClosed
	}
	return s.body.Close()
}

// terminate records a terminal error. When the context is done its cause
// takes precedence, so cancellation and idle timeouts are reported as such
// rather than as read failures.
func (s *stream) terminate(err error) {
	s.state = lingua.StreamStateError
	if cause := context.Cause(s.ctx); cause != nil {
		s.err = fmt.Errorf("supabase: %w: %w", cause, err)
		return
	}
	s.err = fmt.Errorf("supabase: %w", err)
}
