package sse

import (
	"errors"
	"fmt"
	"io"

	"github.com/fwojciec/lingua"
)

// Reader pulls text deltas from an io.Reader carrying a frame stream.
type Reader struct {
	r     io.Reader
	dec   *Decoder
	chunk []byte
	queue []string
	err   error
}

// Option configures a Reader.
type Option func(*Reader)

// WithChunkSize sets how many bytes are read from the source at a time.
func WithChunkSize(n int) Option {
	return func(r *Reader) {
		if n > 0 {
			r.chunk = make([]byte, n)
		}
	}
}

// NewReader returns a Reader decoding frames from r.
func NewReader(r io.Reader, opts ...Option) *Reader {
	rd := &Reader{
		r:     r,
		dec:   NewDecoder(),
		chunk: make([]byte, defaultChunkSize),
	}
	for _, opt := range opts {
		opt(rd)
	}
	return rd
}

// Next returns the next non-empty delta. It returns io.EOF once the sentinel
// is seen or the source is exhausted cleanly. Deltas decoded before a
// failure are always returned before the failure itself.
func (r *Reader) Next() (string, error) {
	for len(r.queue) == 0 {
		if r.err != nil {
			return "", r.err
		}
		r.fill()
	}
	delta := r.queue[0]
	r.queue = r.queue[1:]
	return delta, nil
}

// Done reports whether the sentinel frame has been observed.
func (r *Reader) Done() bool { return r.dec.Done() }

func (r *Reader) fill() {
	n, err := r.r.Read(r.chunk)
	if n > 0 {
		deltas, derr := r.dec.Feed(r.chunk[:n])
		r.queue = append(r.queue, deltas...)
		if derr != nil {
			r.err = derr
			return
		}
		if r.dec.Done() {
			r.err = io.EOF
			return
		}
	}
	switch {
	case errors.Is(err, io.EOF):
		deltas, derr := r.dec.Close()
		r.queue = append(r.queue, deltas...)
		if derr != nil {
			r.err = derr
			return
		}
		r.err = io.EOF
	case err != nil:
		r.err = fmt.Errorf("sse: read: %w: %w", lingua.ErrTransportFailed, err)
	}
}
