package speech_test

import (
	"os/exec"
	"testing"
	"time"

	"github.com/fwojciec/lingua"
	"github.com/fwojciec/lingua/speech"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEspeakVoices(t *testing.T) {
	t.Parallel()
	out := `Pty Language       Age/Gender VoiceName          File                 Other Languages
 5  af              --/M      Afrikaans          gmw/af
 2  en-gb           --/M      English_(Great_Britain) gmw/en               (en 2)
 2  en-us           --/M      English_(America)  gmw/en-US            (en 3)
`
	got := speech.ParseEspeakVoices(out)

	assert.Equal(t, []lingua.Voice{
		{Name: "Afrikaans", Lang: "af"},
		{Name: "English (Great Britain)", Lang: "en-gb"},
		{Name: "English (America)", Lang: "en-us"},
	}, got)
}

func TestParseSayVoices(t *testing.T) {
	t.Parallel()
	out := `Alice               it_IT    # Salve, mi chiamo Alice e sono una voce italiana.
Bad News            en_US    # The light you see at the end of the tunnel is the headlamp of a fast approaching train.
Samantha            en_US    # Hello, my name is Samantha. I am an American-English voice.
`
	got := speech.ParseSayVoices(out)

	assert.Equal(t, []lingua.Voice{
		{Name: "Alice", Lang: "it-IT"},
		{Name: "Bad News", Lang: "en-US"},
		{Name: "Samantha", Lang: "en-US"},
	}, got)
}

func TestNewCommand_ProgramNotFound(t *testing.T) {
	t.Parallel()
	_, err := speech.NewCommand(speech.WithProgram("definitely-not-a-tts-program"))
	require.ErrorIs(t, err, lingua.ErrPlaybackFailed)
}

// shellCommand runs utterance text as a shell script, which lets tests
// drive exit codes and durations.
func shellCommand(t *testing.T) *speech.Command {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	c, err := speech.NewCommand(speech.WithProgram("sh"), speech.WithVoices(nil))
	require.NoError(t, err)
	return c
}

type lifecycle struct {
	started chan struct{}
	ended   chan struct{}
	failed  chan error
}

func newLifecycle() *lifecycle {
	return &lifecycle{
		started: make(chan struct{}, 1),
		ended:   make(chan struct{}, 1),
		failed:  make(chan error, 1),
	}
}

func (l *lifecycle) utterance(text string) lingua.Utterance {
	return lingua.Utterance{
		Text:    text,
		OnStart: func() { l.started <- struct{}{} },
		OnEnd:   func() { l.ended <- struct{}{} },
		OnError: func(err error) { l.failed <- err },
	}
}

func TestCommand_SpeakEnds(t *testing.T) {
	t.Parallel()
	c := shellCommand(t)
	l := newLifecycle()

	require.NoError(t, c.Speak(l.utterance("exit 0")))

	<-l.started
	select {
	case <-l.ended:
	case err := <-l.failed:
		t.Fatalf("unexpected failure: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("utterance did not end")
	}
}

func TestCommand_SpeakFails(t *testing.T) {
	t.Parallel()
	c := shellCommand(t)
	l := newLifecycle()

	require.NoError(t, c.Speak(l.utterance("exit 3")))

	select {
	case err := <-l.failed:
		assert.ErrorIs(t, err, lingua.ErrPlaybackFailed)
	case <-l.ended:
		t.Fatal("expected failure")
	case <-time.After(5 * time.Second):
		t.Fatal("utterance did not finish")
	}
}

func TestCommand_Cancel(t *testing.T) {
	t.Parallel()
	c := shellCommand(t)
	l := newLifecycle()

	require.NoError(t, c.Speak(l.utterance("sleep 30")))
	<-l.started
	c.Cancel()

	select {
	case <-l.ended:
	case err := <-l.failed:
		t.Fatalf("cancel reported as failure: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("cancel did not stop the program")
	}
}

func TestCommand_OnVoicesChangedAfterLoad(t *testing.T) {
	t.Parallel()
	c := shellCommand(t)
	called := make(chan struct{})

	c.OnVoicesChanged(func() { close(called) })

	select {
	case <-called:
	case <-time.After(5 * time.Second):
		t.Fatal("listener not called")
	}
	assert.Empty(t, c.Voices())
}
