// Package logger builds the zerolog logger used across lingua.
//
// The terminal belongs to the UI, so the default output is a file rather
// than stdout or stderr.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"

	OutputStdout  = "stdout"
	OutputStderr  = "stderr"
	OutputDiscard = "discard"
)

// Config contains logging configuration.
type Config struct {
	Level   string `mapstructure:"level" validate:"oneof=trace debug info warn error disabled"`
	Format  string `mapstructure:"format" validate:"oneof=json console"`
	Output  string `mapstructure:"output" validate:"required"`
	NoColor bool   `mapstructure:"no_color"`
}

// ApplyDefaults fills empty fields.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = FormatJSON
	}
	if c.Output == "" {
		c.Output = DefaultOutput()
	}
}

// DefaultOutput returns ~/.lingua/lingua.log, or stderr when the home
// directory is unknown.
func DefaultOutput() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return OutputStderr
	}
	return filepath.Join(home, ".lingua", "lingua.log")
}

// New creates a logger from cfg. The returned closer releases the log file
// when Output is a path; it is a no-op otherwise.
func New(cfg Config) (zerolog.Logger, io.Closer, error) {
	cfg.ApplyDefaults()

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("logger: %w", err)
	}

	out, closer, err := openOutput(cfg.Output)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}

	var w io.Writer = out
	if strings.ToLower(cfg.Format) == FormatConsole {
		w = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "15:04:05",
			NoColor:    cfg.NoColor || closer != nil,
		}
	}
	if closer == nil {
		closer = nopCloser{}
	}

	l := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return l, closer, nil
}

// openOutput resolves an output name. Paths are created with their parent
// directory and opened for appending.
func openOutput(output string) (io.Writer, io.Closer, error) {
	switch strings.ToLower(output) {
	case OutputStdout:
		return os.Stdout, nil, nil
	case OutputStderr:
		return os.Stderr, nil, nil
	case OutputDiscard, "none":
		return io.Discard, nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return nil, nil, fmt.Errorf("logger: create log directory: %w", err)
	}
	f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("logger: open log file: %w", err)
	}
	return f, f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
