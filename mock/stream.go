package mock

import (
	"io"
	"strings"

	"github.com/fwojciec/lingua"
)

// Interface compliance check.
var _ lingua.Stream = (*Stream)(nil)

// Stream is a test double for lingua.Stream.
// Set the function fields for the methods you need. NextFn panics when nil
// to catch missing setup. CloseFn, StateFn and TextFn are nil-safe because
// test code commonly calls defer stream.Close() and these methods rarely
// need custom behavior.
type Stream struct {
	NextFn  func() (lingua.Event, error)
	StateFn func() lingua.StreamState
	TextFn  func() string
	CloseFn func() error
}

// Next delegates to NextFn.
func (s *Stream) Next() (lingua.Event, error) {
	return s.NextFn()
}

// State delegates to StateFn. Returns StreamStateNew when StateFn is nil.
func (s *Stream) State() lingua.StreamState {
	if s.StateFn == nil {
		return lingua.StreamStateNew
	}
	return s.StateFn()
}

// Text delegates to TextFn. Returns "" when TextFn is nil.
func (s *Stream) Text() string {
	if s.TextFn == nil {
		return ""
	}
	return s.TextFn()
}

// Close delegates to CloseFn. Returns nil when CloseFn is not set.
func (s *Stream) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

// TextStream returns a Stream that yields one EventTextDelta per delta and
// then err, or io.EOF when err is nil.
func TextStream(err error, deltas ...string) *Stream {
	var (
		i    int
		text strings.Builder
	)
	return &Stream{
		NextFn: func() (lingua.Event, error) {
			if i < len(deltas) {
				d := deltas[i]
				i++
				text.WriteString(d)
				return lingua.EventTextDelta{Delta: d}, nil
			}
			if err != nil {
				return nil, err
			}
			return nil, io.EOF
		},
		TextFn: text.String,
	}
}
