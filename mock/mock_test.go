package mock_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/fwojciec/lingua"
	"github.com/fwojciec/lingua/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_Stream(t *testing.T) {
	t.Parallel()
	t.Run("delegates to StreamFn", func(t *testing.T) {
		t.Parallel()
		var s mock.Stream
		p := mock.Provider{
			StreamFn: func(ctx context.Context, req lingua.Request) (lingua.Stream, error) {
				return &s, nil
			},
		}
		got, err := p.Stream(context.Background(), lingua.Request{})
		require.NoError(t, err)
		assert.Equal(t, &s, got)
	})

	t.Run("panics when StreamFn not set", func(t *testing.T) {
		t.Parallel()
		p := mock.Provider{}
		assert.Panics(t, func() {
			_, _ = p.Stream(context.Background(), lingua.Request{})
		})
	})
}

func TestStream_NilSafeMethods(t *testing.T) {
	t.Parallel()
	s := mock.Stream{}
	assert.Equal(t, lingua.StreamStateNew, s.State())
	assert.Empty(t, s.Text())
	assert.NoError(t, s.Close())
}

func TestTextStream(t *testing.T) {
	t.Parallel()

	t.Run("yields deltas then EOF", func(t *testing.T) {
		t.Parallel()
		s := mock.TextStream(nil, "a", "b")

		evt, err := s.Next()
		require.NoError(t, err)
		assert.Equal(t, lingua.EventTextDelta{Delta: "a"}, evt)
		assert.Equal(t, "a", s.Text())

		_, err = s.Next()
		require.NoError(t, err)
		_, err = s.Next()
		assert.ErrorIs(t, err, io.EOF)
		assert.Equal(t, "ab", s.Text())
	})

	t.Run("yields deltas then error", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		s := mock.TextStream(boom, "a")

		_, err := s.Next()
		require.NoError(t, err)
		_, err = s.Next()
		assert.ErrorIs(t, err, boom)
	})
}

func TestSpeaker_Records(t *testing.T) {
	t.Parallel()
	var s mock.Speaker
	s.Speak("one")
	s.Speak("two")
	s.Stop()

	assert.Equal(t, []string{"one", "two"}, s.Spoken())
	assert.Equal(t, 1, s.Stops())
}

func TestSynthesizer_NilSafe(t *testing.T) {
	t.Parallel()
	var s mock.Synthesizer
	assert.Nil(t, s.Voices())
	assert.NoError(t, s.Speak(lingua.Utterance{Text: "x"}))
	s.OnVoicesChanged(func() {})
	s.Cancel()
}
