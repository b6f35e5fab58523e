// Command lingua is a terminal client for the AI language tutor.
//
// Usage:
//
//	SUPABASE_URL=... SUPABASE_PUBLISHABLE_KEY=... lingua [flags]
//	GEMINI_API_KEY=... lingua -provider gemini [flags]
//
// Flags:
//
//	-config string     Path to config file (default: ./config.yml or ~/.lingua/config.yml)
//	-provider string   Provider: supabase, gemini (overrides config)
//	-session string    Path to transcript file to resume or create
//	-resume            Resume the most recent saved transcript
//	-no-speech         Disable reading replies aloud
//	-log-level string  Log level (overrides config)
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fwojciec/lingua"
	bt "github.com/fwojciec/lingua/bubbletea"
	linguachi "github.com/fwojciec/lingua/chi"
	"github.com/fwojciec/lingua/config"
	linguajson "github.com/fwojciec/lingua/json"
	"github.com/fwojciec/lingua/logger"
	linguaprom "github.com/fwojciec/lingua/prometheus"
	"github.com/fwojciec/lingua/speech"
	"github.com/fwojciec/lingua/tutor"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "lingua: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath   = flag.String("config", "", "Path to config file")
		providerFlag = flag.String("provider", "", "Provider: supabase, gemini (overrides config)")
		sessionPath  = flag.String("session", "", "Path to transcript file to resume or create")
		resume       = flag.Bool("resume", false, "Resume the most recent saved transcript")
		noSpeech     = flag.Bool("no-speech", false, "Disable reading replies aloud")
		logLevel     = flag.String("log-level", "", "Log level (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(config.LoaderOptions{
		ConfigFile: *configPath,
		Provider:   *providerFlag,
		LogLevel:   *logLevel,
	})
	if err != nil {
		return err
	}

	log, logCloser, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := resolveProvider(ctx, cfg)
	if err != nil {
		return err
	}

	opts := []tutor.Option{
		tutor.WithLogger(log.With().Str("component", "tutor").Logger()),
		tutor.WithIdleTimeout(cfg.Stream.IdleTimeout),
	}

	if cfg.Metrics.Addr != "" {
		reg := prometheus.NewRegistry()
		opts = append(opts, tutor.WithMetrics(linguaprom.NewMetrics(reg)))
		srv := linguachi.NewServer(cfg.Metrics.Addr, reg, linguachi.WithLogger(log))
		if err := srv.Open(); err != nil {
			return fmt.Errorf("metrics server: %w", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Close(ctx); err != nil {
				log.Warn().Err(err).Msg("metrics server shutdown")
			}
		}()
	}

	var uiOpts []bt.Option
	if cfg.Speech.Enabled && !*noSpeech {
		adapter, events, err := newSpeaker(cfg.Speech, log)
		if err != nil {
			log.Warn().Err(err).Msg("speech disabled")
		} else {
			defer adapter.Stop()
			opts = append(opts, tutor.WithSpeaker(adapter))
			uiOpts = append(uiOpts, bt.WithSpeaker(adapter), bt.WithSpeechEvents(events))
		}
	}

	account := newAccount(cfg.Supabase)
	if account != nil {
		uiOpts = append(uiOpts, bt.WithAccount(signInFunc(account, log), account.SignOut))
	}
	if progress, closeStore, err := resolveProgress(ctx, cfg, account); err != nil {
		log.Warn().Err(err).Msg("progress view disabled")
	} else if progress != nil {
		defer closeStore()
		uiOpts = append(uiOpts, bt.WithProgress(progress))
	}

	orch := tutor.New(provider, opts...)
	uiOpts = append(uiOpts, bt.WithComplete(func(ctx context.Context, prompt string, onEvent func(lingua.Event)) lingua.Outcome {
		return orch.Complete(ctx, prompt, tutor.WithEventHandler(onEvent))
	}))
	send := func(ctx context.Context, t *lingua.Transcript, text string, onEvent func(lingua.Event)) lingua.Outcome {
		return orch.Send(ctx, t, text, tutor.WithEventHandler(onEvent))
	}

	transcript, savePath, err := openTranscript(*sessionPath, *resume, cfg.Session.Dir)
	if err != nil {
		return err
	}
	log.Info().Str("transcript", transcript.ID).Str("provider", cfg.Provider).Msg("session started")

	if _, err := bt.Run(ctx, bt.New(send, transcript, lingua.DefaultTheme(), uiOpts...)); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}

	// The greeting alone is not worth saving.
	if transcript.Len() > 1 {
		if err := linguajson.Save(savePath, transcript); err != nil {
			return fmt.Errorf("save transcript: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Transcript saved to %s\n", savePath)
	}
	return nil
}

// newSpeaker starts the TTS command and an adapter over it. Playback
// notifications are forwarded to the returned channel; events are dropped
// when the UI falls behind.
func newSpeaker(cfg config.SpeechConfig, log zerolog.Logger) (*speech.Adapter, <-chan lingua.SpeechEvent, error) {
	var cmdOpts []speech.CommandOption
	if cfg.Command != "" {
		cmdOpts = append(cmdOpts, speech.WithProgram(cfg.Command))
	}
	cmdOpts = append(cmdOpts, speech.WithCommandLogger(log.With().Str("component", "tts").Logger()))
	synth, err := speech.NewCommand(cmdOpts...)
	if err != nil {
		return nil, nil, err
	}

	adapter := speech.NewAdapter(synth,
		speech.WithLanguage(cfg.Language),
		speech.WithLogger(log.With().Str("component", "speech").Logger()),
	)
	events := make(chan lingua.SpeechEvent, 16)
	adapter.OnEvent(func(e lingua.SpeechEvent) {
		select {
		case events <- e:
		default:
		}
	})
	return adapter, events, nil
}

// openTranscript resolves which transcript to use and where to save it.
// An explicit path wins over -resume; a missing file at that path starts a
// new transcript there.
func openTranscript(path string, resume bool, dir string) (*lingua.Transcript, string, error) {
	if path == "" && resume {
		latest, err := linguajson.Latest(dir)
		if err != nil {
			return nil, "", fmt.Errorf("resume: %w", err)
		}
		path = latest
	}
	if path != "" {
		t, err := linguajson.Load(path)
		switch {
		case err == nil:
			return t, path, nil
		case errors.Is(err, os.ErrNotExist):
			return newTranscript(), path, nil
		default:
			return nil, "", fmt.Errorf("load transcript: %w", err)
		}
	}
	t := newTranscript()
	return t, linguajson.Path(dir, t.ID), nil
}

func newTranscript() *lingua.Transcript {
	return lingua.NewTranscript(uuid.NewString(), lingua.AssistantText(lingua.TutorGreeting))
}
