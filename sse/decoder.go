package sse

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/lingua"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Decoder turns raw stream bytes into text deltas. It is not safe for
// concurrent use; each stream owns its own Decoder.
type Decoder struct {
	utf8  transform.Transformer
	carry []byte // undecoded bytes of a character split across chunks

	buf string // decoded text not yet split into lines

	// pending is the payload of a data line that did not parse. It stays at
	// the front of the buffer and the following line is joined to it.
	pending string

	done   bool // sentinel observed
	closed bool
	err    error
}

// NewDecoder returns a Decoder ready for the first chunk.
func NewDecoder() *Decoder {
	return &Decoder{utf8: unicode.UTF8BOM.NewDecoder()}
}

// Feed decodes one chunk and returns the deltas completed by it, in order.
// After the sentinel has been observed Feed returns nothing. A non-nil error
// is terminal and is returned by every later call.
func (d *Decoder) Feed(chunk []byte) ([]string, error) {
	if d.err != nil {
		return nil, d.err
	}
	if d.done || d.closed {
		return nil, nil
	}
	d.buf += d.decode(chunk, false)
	return d.drain()
}

// Close signals the end of input. It flushes a partial character, processes
// an unterminated final line, and returns ErrTruncated when the input ended
// inside a data payload. The deltas it returns come before the error.
func (d *Decoder) Close() ([]string, error) {
	if d.err != nil {
		return nil, d.err
	}
	if d.done || d.closed {
		d.closed = true
		return nil, nil
	}
	d.closed = true
	d.buf += d.decode(nil, true)
	deltas, err := d.drain()
	if err != nil || d.done {
		return deltas, err
	}
	if rest := d.buf; rest != "" {
		d.buf = ""
		delta, err := d.line(rest)
		if err != nil {
			d.err = err
			return deltas, err
		}
		if delta != "" {
			deltas = append(deltas, delta)
		}
	}
	if d.pending != "" && !d.done {
		d.err = fmt.Errorf("sse: input ended inside payload %q: %w", abbreviate(strings.TrimSpace(d.pending)), lingua.ErrTruncated)
		return deltas, d.err
	}
	return deltas, nil
}

// Done reports whether the sentinel frame has been observed.
func (d *Decoder) Done() bool { return d.done }

// drain extracts every complete line from the front of the buffer.
func (d *Decoder) drain() ([]string, error) {
	var deltas []string
	for !d.done {
		i := strings.IndexByte(d.buf, '\n')
		if i < 0 {
			break
		}
		line := d.buf[:i]
		d.buf = d.buf[i+1:]
		delta, err := d.line(line)
		if err != nil {
			d.err = err
			return deltas, err
		}
		if delta != "" {
			deltas = append(deltas, delta)
		}
	}
	return deltas, nil
}

// line applies the frame rules to one line without its terminator.
func (d *Decoder) line(line string) (string, error) {
	line = strings.TrimSuffix(line, "\r")
	if d.pending != "" {
		return d.continuation(line)
	}
	if strings.TrimSpace(line) == "" || strings.HasPrefix(line, ":") {
		return "", nil
	}
	if !strings.HasPrefix(line, dataPrefix) {
		return "", nil
	}
	return d.payload(line[len(dataPrefix):]), nil
}

// continuation joins a line onto the pending payload verbatim. A line
// starting with a colon is a comment only if the join still does not parse.
func (d *Decoder) continuation(line string) (string, error) {
	switch {
	case line == "":
		return "", nil
	case strings.HasPrefix(line, dataPrefix):
		return "", fmt.Errorf("sse: payload %q never completed before next frame: %w", abbreviate(strings.TrimSpace(d.pending)), lingua.ErrMalformedFrame)
	case strings.HasPrefix(line, ":"):
		if _, ok := extractDelta(strings.TrimSpace(d.pending + line)); !ok {
			return "", nil
		}
	}
	return d.payload(d.pending + line), nil
}

// payload handles one raw data payload. Only the copy compared with the
// sentinel and parsed is trimmed; pending keeps the raw text so whitespace
// at a join survives.
func (d *Decoder) payload(raw string) string {
	p := strings.TrimSpace(raw)
	if p == sentinel {
		d.done = true
		d.buf = ""
		d.pending = ""
		return ""
	}
	if p == "" {
		d.pending = ""
		return ""
	}
	delta, ok := extractDelta(p)
	if !ok {
		d.pending = raw
		return ""
	}
	d.pending = ""
	return delta
}

// decode runs the chunk through the incremental UTF-8 decoder. Bytes of a
// character cut off at the end of the chunk are carried to the next call
// unless atEOF is set, in which case they become U+FFFD.
func (d *Decoder) decode(chunk []byte, atEOF bool) string {
	src := chunk
	if len(d.carry) > 0 {
		src = append(d.carry, chunk...)
		d.carry = nil
	}
	var out strings.Builder
	dst := make([]byte, 3*len(src)+utf8.UTFMax)
	for {
		nDst, nSrc, err := d.utf8.Transform(dst, src, atEOF)
		out.Write(dst[:nDst])
		src = src[nSrc:]
		if errors.Is(err, transform.ErrShortDst) {
			if nSrc == 0 {
				dst = make([]byte, 2*len(dst))
			}
			continue
		}
		if errors.Is(err, transform.ErrShortSrc) {
			d.carry = bytes.Clone(src)
		}
		return out.String()
	}
}

// extractDelta parses a payload and returns choices[0].delta.content.
// ok is false only when the payload is not well-formed JSON; a well-formed
// document of an unexpected shape yields an empty delta.
func extractDelta(p string) (delta string, ok bool) {
	if !json.Valid([]byte(p)) {
		return "", false
	}
	var c chunkPayload
	if err := json.Unmarshal([]byte(p), &c); err != nil {
		return "", true
	}
	if len(c.Choices) == 0 {
		return "", true
	}
	return c.Choices[0].Delta.Content, true
}

func abbreviate(s string) string {
	const limit = 48
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
