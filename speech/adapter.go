// Package speech reads assistant replies aloud.
//
// [Adapter] turns "speak this text" into a configured utterance on a
// [lingua.Synthesizer], deferring playback while the synthesizer is still
// loading its voices. [Command] is a Synthesizer backed by an external
// text-to-speech program.
package speech

import (
	"fmt"
	"strings"
	"sync"

	"github.com/fwojciec/lingua"
	"github.com/rs/zerolog"
)

// Interface compliance check.
var _ lingua.Speaker = (*Adapter)(nil)

const (
	defaultLanguage = "en"
	defaultLang     = "en-US"
	defaultRate     = 0.9
	defaultPitch    = 1.0
	defaultVolume   = 1.0
)

// Adapter plays text through a Synthesizer. At most one utterance is
// active; each Speak or Stop supersedes everything before it.
type Adapter struct {
	synth    lingua.Synthesizer
	language string // preferred voice language prefix
	lang     string // utterance language tag
	rate     float64
	pitch    float64
	volume   float64
	logger   zerolog.Logger

	mu       sync.Mutex
	gen      uint64 // bumped by every Speak and Stop
	speaking bool
	onEvent  func(lingua.SpeechEvent)
}

// Option configures an [Adapter].
type Option func(*Adapter)

// WithLanguage sets the language prefix used to pick a voice, e.g. "en".
func WithLanguage(prefix string) Option {
	return func(a *Adapter) { a.language = prefix }
}

// WithRate sets the speaking rate, where 1 is the synthesizer's normal speed.
func WithRate(rate float64) Option {
	return func(a *Adapter) { a.rate = rate }
}

// WithLogger sets the logger. Defaults to a disabled logger.
func WithLogger(l zerolog.Logger) Option {
	return func(a *Adapter) { a.logger = l }
}

// NewAdapter returns an Adapter speaking through synth.
func NewAdapter(synth lingua.Synthesizer, opts ...Option) *Adapter {
	a := &Adapter{
		synth:    synth,
		language: defaultLanguage,
		lang:     defaultLang,
		rate:     defaultRate,
		pitch:    defaultPitch,
		volume:   defaultVolume,
		logger:   zerolog.Nop(),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// OnEvent registers the playback notification handler. It may be called
// from the synthesizer's goroutines.
func (a *Adapter) OnEvent(fn func(lingua.SpeechEvent)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onEvent = fn
}

// Speaking reports whether an utterance is playing.
func (a *Adapter) Speaking() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.speaking
}

// Speak cancels any current playback and plays text. Interrupted playback
// reports SpeechEnded before the new utterance starts. While the synthesizer
// has no voices the utterance waits for the voice list to change, once.
func (a *Adapter) Speak(text string) {
	a.mu.Lock()
	a.gen++
	gen := a.gen
	was := a.speaking
	a.speaking = false
	a.mu.Unlock()

	a.synth.Cancel()
	if was {
		a.emit(lingua.SpeechEvent{Kind: lingua.SpeechEnded})
	}
	if strings.TrimSpace(text) == "" {
		return
	}

	voices := a.synth.Voices()
	if len(voices) > 0 {
		a.play(gen, text, voices)
		return
	}

	a.logger.Debug().Msg("no voices yet, deferring playback")
	var once sync.Once
	a.synth.OnVoicesChanged(func() {
		once.Do(func() {
			if !a.current(gen) {
				return
			}
			a.play(gen, text, a.synth.Voices())
		})
	})
}

// Stop cancels current playback and any deferred utterance.
func (a *Adapter) Stop() {
	a.mu.Lock()
	a.gen++
	was := a.speaking
	a.speaking = false
	a.mu.Unlock()

	a.synth.Cancel()
	if was {
		a.emit(lingua.SpeechEvent{Kind: lingua.SpeechEnded})
	}
}

func (a *Adapter) play(gen uint64, text string, voices []lingua.Voice) {
	u := lingua.Utterance{
		Text:   text,
		Voice:  pickVoice(voices, a.language),
		Lang:   a.lang,
		Rate:   a.rate,
		Pitch:  a.pitch,
		Volume: a.volume,
		OnStart: func() {
			if a.transition(gen, true) {
				a.emit(lingua.SpeechEvent{Kind: lingua.SpeechStarted})
			}
		},
		OnEnd: func() {
			if a.transition(gen, false) {
				a.emit(lingua.SpeechEvent{Kind: lingua.SpeechEnded})
			}
		},
		OnError: func(err error) {
			a.fail(gen, err)
		},
	}
	if err := a.synth.Speak(u); err != nil {
		a.fail(gen, err)
	}
}

func (a *Adapter) fail(gen uint64, err error) {
	if !a.transition(gen, false) {
		return
	}
	a.logger.Warn().Err(err).Msg("speech playback failed")
	a.emit(lingua.SpeechEvent{
		Kind: lingua.SpeechFailed,
		Err:  fmt.Errorf("speech: %w: %w", lingua.ErrPlaybackFailed, err),
	})
}

// current reports whether gen is still the latest request.
func (a *Adapter) current(gen uint64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gen == gen
}

// transition sets the speaking flag for gen. Notifications from superseded
// utterances are dropped.
func (a *Adapter) transition(gen uint64, speaking bool) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.gen != gen {
		return false
	}
	a.speaking = speaking
	return true
}

func (a *Adapter) emit(evt lingua.SpeechEvent) {
	a.mu.Lock()
	fn := a.onEvent
	a.mu.Unlock()
	if fn != nil {
		fn(evt)
	}
}

// pickVoice returns the first voice whose language starts with prefix, or
// nil for the synthesizer default.
func pickVoice(voices []lingua.Voice, prefix string) *lingua.Voice {
	prefix = strings.ToLower(prefix)
	for _, v := range voices {
		if strings.HasPrefix(strings.ToLower(v.Lang), prefix) {
			return &v
		}
	}
	return nil
}
