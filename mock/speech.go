package mock

import (
	"sync"

	"github.com/fwojciec/lingua"
)

// Interface compliance checks.
var (
	_ lingua.Synthesizer = (*Synthesizer)(nil)
	_ lingua.Speaker     = (*Speaker)(nil)
)

// Synthesizer is a test double for lingua.Synthesizer.
// Nil function fields are no-ops; Voices returns nil.
type Synthesizer struct {
	VoicesFn          func() []lingua.Voice
	OnVoicesChangedFn func(fn func())
	SpeakFn           func(u lingua.Utterance) error
	CancelFn          func()
}

// Voices delegates to VoicesFn.
func (s *Synthesizer) Voices() []lingua.Voice {
	if s.VoicesFn == nil {
		return nil
	}
	return s.VoicesFn()
}

// OnVoicesChanged delegates to OnVoicesChangedFn.
func (s *Synthesizer) OnVoicesChanged(fn func()) {
	if s.OnVoicesChangedFn != nil {
		s.OnVoicesChangedFn(fn)
	}
}

// Speak delegates to SpeakFn.
func (s *Synthesizer) Speak(u lingua.Utterance) error {
	if s.SpeakFn == nil {
		return nil
	}
	return s.SpeakFn(u)
}

// Cancel delegates to CancelFn.
func (s *Synthesizer) Cancel() {
	if s.CancelFn != nil {
		s.CancelFn()
	}
}

// Speaker is a test double for lingua.Speaker that records what it was
// asked to say. It is safe for concurrent use.
type Speaker struct {
	mu     sync.Mutex
	spoken []string
	stops  int
}

// Speak records text.
func (s *Speaker) Speak(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spoken = append(s.spoken, text)
}

// Stop records a stop request.
func (s *Speaker) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stops++
}

// Spoken returns every text passed to Speak, in order.
func (s *Speaker) Spoken() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.spoken...)
}

// Stops returns how many times Stop was called.
func (s *Speaker) Stops() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stops
}
