// Package tutor drives one request at a time from a transcript to a
// Provider and back: it streams deltas into the transcript, classifies how
// the request ended, and hands completed replies to a Speaker.
package tutor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fwojciec/lingua"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Metrics records request lifecycle measurements.
type Metrics interface {
	TurnStarted()
	TurnFinished(kind lingua.OutcomeKind, elapsed time.Duration, deltas int)
}

type nopMetrics struct{}

func (nopMetrics) TurnStarted() {}
func (nopMetrics) TurnFinished(lingua.OutcomeKind, time.Duration, int) {}

// Orchestrator sends transcripts to a Provider.
type Orchestrator struct {
	provider    lingua.Provider
	speaker     lingua.Speaker
	logger      zerolog.Logger
	metrics     Metrics
	idleTimeout time.Duration
}

// Option configures an [Orchestrator].
type Option func(*Orchestrator)

// WithSpeaker sets the Speaker that reads completed replies aloud.
func WithSpeaker(s lingua.Speaker) Option {
	return func(o *Orchestrator) { o.speaker = s }
}

// WithLogger sets the logger. Defaults to a disabled logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithIdleTimeout aborts a request with [lingua.OutcomeDecodeStalled] when
// no delta arrives for d. Zero disables the timeout.
func WithIdleTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.idleTimeout = d }
}

// New creates an [Orchestrator] for the given provider.
func New(provider lingua.Provider, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		provider: provider,
		logger:   zerolog.Nop(),
		metrics:  nopMetrics{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// SendOption configures a single Send or Complete call.
type SendOption func(*sendConfig)

type sendConfig struct {
	onEvent func(lingua.Event)
	silent  bool
}

// WithEventHandler sets a callback that receives each delta in arrival
// order, after it has been applied to the transcript.
func WithEventHandler(h func(lingua.Event)) SendOption {
	return func(c *sendConfig) { c.onEvent = h }
}

// WithoutSpeech suppresses playback of the reply.
func WithoutSpeech() SendOption {
	return func(c *sendConfig) { c.silent = true }
}

// Send appends text as a user message, sends the whole conversation, and
// streams the reply into t. It returns exactly one Outcome.
//
// A send while a turn of t is still in flight is rejected without touching
// t. Whatever the outcome, the user message stays, and any partial reply
// stays as a sealed assistant message. Only a completed, non-empty reply is
// spoken, once.
func (o *Orchestrator) Send(ctx context.Context, t *lingua.Transcript, text string, opts ...SendOption) lingua.Outcome {
	cfg := newSendConfig(opts)
	text = strings.TrimSpace(text)
	if text == "" {
		return lingua.Outcome{
			Kind: lingua.OutcomeRejected,
			Err:  fmt.Errorf("tutor: empty message: %w", lingua.ErrValidation),
		}
	}
	if err := t.Begin(); err != nil {
		o.logger.Warn().Str("transcript", t.ID).Msg("send rejected: turn in flight")
		return lingua.Outcome{Kind: lingua.OutcomeRejected, Err: fmt.Errorf("tutor: %w", err)}
	}
	t.AppendUser(text)
	return o.run(ctx, t, cfg)
}

// Complete runs a one-shot prompt through a private transcript. It is used
// by the paraphrase and formula tools and never speaks.
func (o *Orchestrator) Complete(ctx context.Context, prompt string, opts ...SendOption) lingua.Outcome {
	opts = append(opts, WithoutSpeech())
	return o.Send(ctx, lingua.NewTranscript(uuid.NewString()), prompt, opts...)
}

func newSendConfig(opts []SendOption) *sendConfig {
	var cfg sendConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// run drains one stream into the open turn of t and seals it.
func (o *Orchestrator) run(ctx context.Context, t *lingua.Transcript, cfg *sendConfig) lingua.Outcome {
	start := time.Now()
	log := o.logger.With().
		Str("turn", uuid.NewString()).
		Str("transcript", t.ID).
		Logger()
	log.Info().Int("messages", t.Len()).Msg("turn started")
	o.metrics.TurnStarted()

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	deltas, err := o.drain(ctx, cancel, t, cfg)
	final := t.Seal()

	kind, err := classify(ctx, err)
	outcome := lingua.Outcome{Kind: kind, Text: final, Err: err}
	elapsed := time.Since(start)
	o.metrics.TurnFinished(kind, elapsed, deltas)

	evt := log.Info()
	if kind != lingua.OutcomeCompleted {
		evt = log.Warn().Err(err)
	}
	evt.Stringer("outcome", kind).
		Int("deltas", deltas).
		Int("chars", len(final)).
		Dur("elapsed", elapsed).
		Msg("turn finished")

	if kind == lingua.OutcomeCompleted && final != "" && !cfg.silent && o.speaker != nil {
		o.speaker.Speak(final)
	}
	return outcome
}

// drain reads the stream to its end. It returns the number of deltas
// applied and the terminal error, nil on normal completion.
func (o *Orchestrator) drain(ctx context.Context, cancel context.CancelCauseFunc, t *lingua.Transcript, cfg *sendConfig) (int, error) {
	stream, err := o.provider.Stream(ctx, lingua.Request{Messages: t.Messages()})
	if err != nil {
		return 0, err
	}
	defer stream.Close()

	var idle *time.Timer
	if o.idleTimeout > 0 {
		idle = time.AfterFunc(o.idleTimeout, func() { cancel(lingua.ErrDecodeStalled) })
		defer idle.Stop()
	}

	n := 0
	for {
		evt, err := stream.Next()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		if idle != nil {
			idle.Reset(o.idleTimeout)
		}
		delta, ok := evt.(lingua.EventTextDelta)
		if !ok || delta.Delta == "" {
			continue
		}
		n++
		t.Apply(delta.Delta)
		if cfg.onEvent != nil {
			cfg.onEvent(delta)
		}
	}
}

// classify maps the terminal error to an outcome. A done context
// contributes its cause so cancellation and idle timeouts win over the
// read error they provoked.
func classify(ctx context.Context, err error) (lingua.OutcomeKind, error) {
	if err == nil {
		return lingua.OutcomeCompleted, nil
	}
	if cause := context.Cause(ctx); cause != nil && !errors.Is(err, cause) {
		err = fmt.Errorf("%w: %w", cause, err)
	}
	return lingua.ClassifyError(err), err
}
