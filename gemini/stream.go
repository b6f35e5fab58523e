package gemini

import (
	"context"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/fwojciec/lingua"
	"google.golang.org/genai"
)

// stream implements [lingua.Stream] by wrapping the genai SDK's streaming
// iterator. One response chunk may carry several parts; they are emitted
// as a single delta.
type stream struct {
	ctx   context.Context
	pull  func() (*genai.GenerateContentResponse, error, bool)
	stop  func()
	state lingua.StreamState
	text  strings.Builder
	err   error
}

// Interface compliance check.
var _ lingua.Stream = (*stream)(nil)

func newStream(ctx context.Context, iterFn iter.Seq2[*genai.GenerateContentResponse, error]) *stream {
	next, stop := iter.Pull2(iterFn)
	return &stream{
		ctx:   ctx,
		pull:  next,
		stop:  stop,
		state: lingua.StreamStateNew,
	}
}

// Next returns the next non-empty text delta, or io.EOF when the iterator
// is exhausted.
func (s *stream) Next() (lingua.Event, error) {
	switch s.state {
	case lingua.StreamStateComplete:
		return nil, io.EOF
	case lingua.StreamStateError:
		return nil, s.err
	case lingua.StreamStateClosed:
		return nil, fmt.Errorf("gemini: %w", lingua.ErrStreamClosed)
	}
	for {
		resp, err, ok := s.pull()
		if !ok {
			s.state = lingua.StreamStateComplete
			return nil, io.EOF
		}
		if err != nil {
			s.terminate(err)
			return nil, s.err
		}
		s.state = lingua.StreamStateStreaming
		if delta := responseText(resp); delta != "" {
			s.text.WriteString(delta)
			return lingua.EventTextDelta{Delta: delta}, nil
		}
	}
}

func (s *stream) State() lingua.StreamState {
	return s.state
}

func (s *stream) Text() string {
	return s.text.String()
}

func (s *stream) Close() error {
	if s.state != lingua.StreamStateComplete && s.state != lingua.StreamStateError {
		s.state = lingua.StreamStateClosed
	}
	s.stop()
	return nil
}

func (s *stream) terminate(err error) {
	s.state = lingua.StreamStateError
	if cause := context.Cause(s.ctx); cause != nil {
		s.err = fmt.Errorf("gemini: %w: %w", cause, err)
		return
	}
	s.err = classifyAPIError(err)
}

// responseText joins the non-thought text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	c := resp.Candidates[0]
	if c == nil || c.Content == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range c.Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		b.WriteString(p.Text)
	}
	return b.String()
}
