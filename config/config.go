// Package config loads lingua configuration from an optional YAML file,
// a .env file, and LINGUA_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/lingua"
	"github.com/fwojciec/lingua/logger"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProviderSupabase = "supabase"
	ProviderGemini   = "gemini"

	envPrefix = "LINGUA"
)

// Config is the full client configuration.
type Config struct {
	Provider string         `mapstructure:"provider" validate:"oneof=supabase gemini"`
	Supabase SupabaseConfig `mapstructure:"supabase"`
	Gemini   GeminiConfig   `mapstructure:"gemini"`
	Database DatabaseConfig `mapstructure:"database"`
	Speech   SpeechConfig   `mapstructure:"speech"`
	Log      logger.Config  `mapstructure:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Stream   StreamConfig   `mapstructure:"stream"`
	Session  SessionConfig  `mapstructure:"session"`
}

type SupabaseConfig struct {
	URL            string `mapstructure:"url" validate:"omitempty,url"`
	PublishableKey string `mapstructure:"publishable_key"`
	Function       string `mapstructure:"function" validate:"required"`
	AccessToken    string `mapstructure:"access_token"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model" validate:"required"`
}

// DatabaseConfig points the progress view at Postgres directly. When URL
// is empty progress is read through the Supabase REST API.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type SpeechConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Language string `mapstructure:"language" validate:"required"`
	Command  string `mapstructure:"command"`
}

// MetricsConfig enables the operational server when Addr is set.
type MetricsConfig struct {
	Addr string `mapstructure:"addr" validate:"omitempty,hostname_port"`
}

type StreamConfig struct {
	IdleTimeout time.Duration `mapstructure:"idle_timeout" validate:"gte=0"`
}

type SessionConfig struct {
	Dir string `mapstructure:"dir" validate:"required"`
}

// LoaderOptions controls where configuration is read from.
type LoaderOptions struct {
	// ConfigFile is an explicit YAML file. When empty, config.yml is looked
	// up in the working directory and ~/.lingua.
	ConfigFile string
	// EnvFile is loaded into the environment when it exists. Defaults to .env.
	EnvFile string
	// Provider and LogLevel override every other source when set.
	Provider string
	LogLevel string
}

// Load reads, defaults and validates the configuration.
func Load(opts LoaderOptions) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("config: load env file %s: %w", envFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", opts.ConfigFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir := homeDir(); dir != "" {
			v.AddConfigPath(dir)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: read config: %w", err)
			}
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindCompatEnv(v); err != nil {
		return nil, err
	}
	if opts.Provider != "" {
		v.Set("provider", opts.Provider)
	}
	if opts.LogLevel != "" {
		v.Set("log.level", opts.LogLevel)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	cfg.Log.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints and the credentials the selected
// provider needs.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w: %w", lingua.ErrValidation, err)
	}
	switch c.Provider {
	case ProviderSupabase:
		if c.Supabase.URL == "" || c.Supabase.PublishableKey == "" {
			return fmt.Errorf("config: %w: supabase provider requires supabase.url and supabase.publishable_key", lingua.ErrValidation)
		}
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("config: %w: gemini provider requires gemini.api_key", lingua.ErrValidation)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("provider", ProviderSupabase)
	v.SetDefault("supabase.url", "")
	v.SetDefault("supabase.publishable_key", "")
	v.SetDefault("supabase.function", "chat-tutor")
	v.SetDefault("supabase.access_token", "")
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("database.url", "")
	v.SetDefault("speech.enabled", true)
	v.SetDefault("speech.language", "en")
	v.SetDefault("speech.command", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", logger.FormatJSON)
	v.SetDefault("log.output", logger.DefaultOutput())
	v.SetDefault("log.no_color", false)
	v.SetDefault("metrics.addr", "")
	v.SetDefault("stream.idle_timeout", 60*time.Second)
	v.SetDefault("session.dir", filepath.Join(homeDir(), "sessions"))
}

// bindCompatEnv lets the unprefixed variables used by the hosted product
// configure the client. LINGUA_* takes precedence.
func bindCompatEnv(v *viper.Viper) error {
	compat := map[string]string{
		"supabase.url":             "SUPABASE_URL",
		"supabase.publishable_key": "SUPABASE_PUBLISHABLE_KEY",
		"gemini.api_key":           "GEMINI_API_KEY",
		"database.url":             "DATABASE_URL",
	}
	for key, env := range compat {
		prefixed := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, env); err != nil {
			return fmt.Errorf("config: bind %s: %w", env, err)
		}
	}
	return nil
}

// homeDir returns ~/.lingua, or "" when the home directory is unknown.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".lingua")
}
