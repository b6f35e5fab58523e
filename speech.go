package lingua

// Voice is one voice offered by a speech synthesizer.
type Voice struct {
	Name string
	Lang string // BCP 47 tag, e.g. "en-US".
}

// Utterance is a request to speak text with a particular voice and prosody.
// The callbacks are invoked by the synthesizer, possibly from another
// goroutine; any of them may be nil.
type Utterance struct {
	Text   string
	Voice  *Voice // nil = synthesizer default
	Lang   string
	Rate   float64
	Pitch  float64
	Volume float64

	OnStart func()
	OnEnd   func()
	OnError func(error)
}

// Synthesizer is the text-to-speech capability. Implementations own the
// audio subsystem; callers never touch it directly.
type Synthesizer interface {
	// Voices returns the voices available right now. The list may be empty
	// while the synthesizer is still loading.
	Voices() []Voice
	// OnVoicesChanged registers fn to run once, the next time the voice list
	// changes.
	OnVoicesChanged(fn func())
	// Speak queues an utterance for playback.
	Speak(u Utterance) error
	// Cancel stops the current utterance and drops queued ones.
	Cancel()
}

// SpeechEventKind identifies a playback notification.
type SpeechEventKind int

const (
	SpeechStarted SpeechEventKind = iota
	SpeechEnded
	SpeechFailed
)

// SpeechEvent is a playback notification. Err is set for SpeechFailed.
type SpeechEvent struct {
	Kind SpeechEventKind
	Err  error
}

// Speaker plays assistant text aloud. Speak replaces whatever is playing;
// failures are reported asynchronously, never returned.
type Speaker interface {
	Speak(text string)
	Stop()
}
