// Package json persists tutor transcripts as JSON files.
package json

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fwojciec/lingua"
)

const version = 1

// ErrNoTranscripts is returned by Latest when the directory holds no saved
// transcripts.
var ErrNoTranscripts = errors.New("no saved transcripts")

// envelope is the v1 wire format for a persisted transcript.
type envelope struct {
	Version   int          `json:"version"`
	ID        string       `json:"id"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	Messages  []messageDTO `json:"messages"`
}

type messageDTO struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// MarshalTranscript serializes the sealed state of a transcript. An open
// turn's partial reply is included as it stands.
func MarshalTranscript(t *lingua.Transcript) ([]byte, error) {
	msgs := t.Messages()
	env := envelope{
		Version:   version,
		ID:        t.ID,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
		Messages:  make([]messageDTO, len(msgs)),
	}
	for i, m := range msgs {
		env.Messages[i] = messageDTO{Role: string(m.Role), Content: m.Content}
	}
	return json.MarshalIndent(env, "", "  ")
}

// UnmarshalTranscript restores a transcript from v1 envelope format.
func UnmarshalTranscript(data []byte) (*lingua.Transcript, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != version {
		return nil, fmt.Errorf("unsupported envelope version: %d", env.Version)
	}
	msgs := make([]lingua.Message, len(env.Messages))
	for i, dto := range env.Messages {
		role := lingua.Role(dto.Role)
		if role != lingua.RoleUser && role != lingua.RoleAssistant {
			return nil, fmt.Errorf("message %d: unknown role: %q", i, dto.Role)
		}
		msgs[i] = lingua.Message{Role: role, Content: dto.Content}
	}
	t := lingua.NewTranscript(env.ID, msgs...)
	t.CreatedAt = env.CreatedAt
	t.UpdatedAt = env.UpdatedAt
	return t, nil
}

// Save writes a transcript to path atomically, creating parent directories
// as needed.
func Save(path string, t *lingua.Transcript) error {
	data, err := MarshalTranscript(t)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Load reads a transcript from a JSON file.
func Load(path string) (*lingua.Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return UnmarshalTranscript(data)
}

// Path returns the file a transcript with the given id is saved to in dir.
func Path(dir, id string) string {
	return filepath.Join(dir, id+".json")
}

// Latest returns the most recently modified transcript file under dir,
// searching subdirectories too.
func Latest(dir string) (string, error) {
	matches, err := doublestar.Glob(os.DirFS(dir), "**/*.json", doublestar.WithFilesOnly())
	if err != nil {
		return "", fmt.Errorf("glob %s: %w", dir, err)
	}
	var (
		latest  string
		modTime time.Time
	)
	for _, m := range matches {
		info, err := fs.Stat(os.DirFS(dir), m)
		if err != nil {
			continue
		}
		if latest == "" || info.ModTime().After(modTime) {
			latest, modTime = m, info.ModTime()
		}
	}
	if latest == "" {
		return "", ErrNoTranscripts
	}
	return filepath.Join(dir, filepath.FromSlash(latest)), nil
}
