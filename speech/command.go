package speech

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/fwojciec/lingua"
	"github.com/rs/zerolog"
)

// Interface compliance check.
var _ lingua.Synthesizer = (*Command)(nil)

// Programs tried, in order, when no command is configured.
var defaultPrograms = []string{"espeak-ng", "say"}

const (
	espeakWordsPerMinute = 175
	sayWordsPerMinute    = 175
)

// Command is a Synthesizer that runs an external text-to-speech program
// once per utterance, writing the text to its standard input. espeak-ng and
// macOS say get voice and prosody flags; any other program is run without
// arguments.
type Command struct {
	program string
	flavor  string
	logger  zerolog.Logger

	mu      sync.Mutex
	voices  []lingua.Voice
	loaded  bool
	waiters []func()
	cancel  context.CancelFunc // stops the running utterance
	seq     uint64
}

// CommandOption configures a [Command].
type CommandOption func(*commandConfig)

type commandConfig struct {
	program string
	voices  []lingua.Voice
	static  bool
	logger  zerolog.Logger
}

// WithProgram sets the text-to-speech program to run.
func WithProgram(name string) CommandOption {
	return func(c *commandConfig) { c.program = name }
}

// WithVoices fixes the voice list instead of asking the program.
func WithVoices(voices []lingua.Voice) CommandOption {
	return func(c *commandConfig) {
		c.voices = voices
		c.static = true
	}
}

// WithCommandLogger sets the logger. Defaults to a disabled logger.
func WithCommandLogger(l zerolog.Logger) CommandOption {
	return func(c *commandConfig) { c.logger = l }
}

// NewCommand locates the text-to-speech program and starts loading its
// voices in the background.
func NewCommand(opts ...CommandOption) (*Command, error) {
	cfg := commandConfig{logger: zerolog.Nop()}
	for _, o := range opts {
		o(&cfg)
	}

	candidates := defaultPrograms
	if cfg.program != "" {
		candidates = []string{cfg.program}
	}
	var program string
	for _, name := range candidates {
		if p, err := exec.LookPath(name); err == nil {
			program = p
			break
		}
	}
	if program == "" {
		return nil, fmt.Errorf("speech: no text-to-speech program found (tried %s): %w",
			strings.Join(candidates, ", "), lingua.ErrPlaybackFailed)
	}

	c := &Command{
		program: program,
		flavor:  filepath.Base(program),
		logger:  cfg.logger,
	}
	if cfg.static {
		c.voices = cfg.voices
		c.loaded = true
		return c, nil
	}
	go c.loadVoices()
	return c, nil
}

// Voices returns the voices loaded so far.
func (c *Command) Voices() []lingua.Voice {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]lingua.Voice(nil), c.voices...)
}

// OnVoicesChanged registers fn to run once when the voice list has been
// loaded. If loading already finished, fn runs right away on its own
// goroutine.
func (c *Command) OnVoicesChanged(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		go fn()
		return
	}
	c.waiters = append(c.waiters, fn)
}

// Speak starts the program for u. Lifecycle callbacks run on a separate
// goroutine. Speak does not wait for playback to finish.
func (c *Command) Speak(u lingua.Utterance) error {
	ctx, cancel := context.WithCancel(context.Background())
	cmd := exec.CommandContext(ctx, c.program, c.args(u)...)
	cmd.Stdin = strings.NewReader(u.Text)

	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.cancel = cancel
	c.seq++
	seq := c.seq
	c.mu.Unlock()

	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("speech: start %s: %w", c.flavor, err)
	}
	c.logger.Debug().Str("program", c.flavor).Int("chars", len(u.Text)).Msg("utterance started")
	go c.wait(ctx, cmd, u, seq)
	return nil
}

// Cancel kills the running utterance, if any.
func (c *Command) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Command) wait(ctx context.Context, cmd *exec.Cmd, u lingua.Utterance, seq uint64) {
	if u.OnStart != nil {
		u.OnStart()
	}
	err := cmd.Wait()
	cancelled := ctx.Err() != nil

	c.mu.Lock()
	if c.seq == seq && c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.mu.Unlock()

	switch {
	case err == nil, cancelled:
		if u.OnEnd != nil {
			u.OnEnd()
		}
	default:
		c.logger.Warn().Err(err).Str("program", c.flavor).Msg("utterance failed")
		if u.OnError != nil {
			u.OnError(fmt.Errorf("%w: %w", lingua.ErrPlaybackFailed, err))
		}
	}
}

// args builds the flag list for the configured program.
func (c *Command) args(u lingua.Utterance) []string {
	switch c.flavor {
	case "espeak-ng", "espeak":
		var args []string
		switch {
		case u.Voice != nil && u.Voice.Lang != "":
			args = append(args, "-v", u.Voice.Lang)
		case u.Lang != "":
			args = append(args, "-v", strings.ToLower(u.Lang))
		}
		if u.Rate > 0 {
			args = append(args, "-s", strconv.Itoa(int(u.Rate*espeakWordsPerMinute)))
		}
		if u.Pitch > 0 {
			args = append(args, "-p", strconv.Itoa(min(int(u.Pitch*50), 99)))
		}
		if u.Volume > 0 {
			args = append(args, "-a", strconv.Itoa(min(int(u.Volume*100), 200)))
		}
		return args
	case "say":
		var args []string
		if u.Voice != nil && u.Voice.Name != "" {
			args = append(args, "-v", u.Voice.Name)
		}
		if u.Rate > 0 {
			args = append(args, "-r", strconv.Itoa(int(u.Rate*sayWordsPerMinute)))
		}
		return args
	default:
		return nil
	}
}

// loadVoices asks the program for its voices, then notifies waiters. A
// failed listing leaves the list empty; waiters still run so deferred
// utterances fall back to the default voice.
func (c *Command) loadVoices() {
	var voices []lingua.Voice
	var err error
	switch c.flavor {
	case "espeak-ng", "espeak":
		voices, err = c.list(parseEspeakVoices, "--voices")
	case "say":
		voices, err = c.list(parseSayVoices, "-v", "?")
	}
	if err != nil {
		c.logger.Warn().Err(err).Str("program", c.flavor).Msg("listing voices failed")
	}

	c.mu.Lock()
	c.voices = voices
	c.loaded = true
	waiters := c.waiters
	c.waiters = nil
	c.mu.Unlock()

	c.logger.Debug().Int("voices", len(voices)).Msg("voices loaded")
	for _, fn := range waiters {
		fn()
	}
}

func (c *Command) list(parse func(string) []lingua.Voice, args ...string) ([]lingua.Voice, error) {
	out, err := exec.Command(c.program, args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("speech: list voices: %w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("speech: list voices: %w", err)
	}
	return parse(string(out)), nil
}

// parseEspeakVoices reads the table printed by "espeak-ng --voices":
//
//	Pty Language       Age/Gender VoiceName          File          Other Languages
//	 5  en-gb           --/M      English_(Great_Britain) gmw/en
func parseEspeakVoices(out string) []lingua.Voice {
	var voices []lingua.Voice
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 4 || fields[0] == "Pty" {
			continue
		}
		voices = append(voices, lingua.Voice{
			Name: strings.ReplaceAll(fields[3], "_", " "),
			Lang: fields[1],
		})
	}
	return voices
}

// parseSayVoices reads the list printed by "say -v ?":
//
//	Samantha            en_US    # Hello, my name is Samantha.
func parseSayVoices(out string) []lingua.Voice {
	var voices []lingua.Voice
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		line, _, _ := strings.Cut(sc.Text(), "#")
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		lang := fields[len(fields)-1]
		name := strings.Join(fields[:len(fields)-1], " ")
		voices = append(voices, lingua.Voice{
			Name: name,
			Lang: strings.ReplaceAll(lang, "_", "-"),
		})
	}
	return voices
}
