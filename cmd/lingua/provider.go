package main

import (
	"context"
	"fmt"

	"github.com/fwojciec/lingua"
	bt "github.com/fwojciec/lingua/bubbletea"
	"github.com/fwojciec/lingua/config"
	"github.com/fwojciec/lingua/gemini"
	"github.com/fwojciec/lingua/postgres"
	"github.com/fwojciec/lingua/supabase"
	"github.com/rs/zerolog"
)

// resolveProvider constructs the chat provider selected by cfg.
func resolveProvider(ctx context.Context, cfg *config.Config) (lingua.Provider, error) {
	switch cfg.Provider {
	case config.ProviderSupabase:
		return newSupabase(cfg.Supabase), nil
	case config.ProviderGemini:
		client, err := gemini.New(ctx, cfg.Gemini.APIKey, gemini.WithModel(cfg.Gemini.Model))
		if err != nil {
			return nil, fmt.Errorf("gemini: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown provider %q: must be \"supabase\" or \"gemini\"", cfg.Provider)
	}
}

func newSupabase(cfg config.SupabaseConfig) *supabase.Client {
	opts := []supabase.Option{supabase.WithFunction(cfg.Function)}
	if cfg.AccessToken != "" {
		opts = append(opts, supabase.WithAccessToken(cfg.AccessToken))
	}
	return supabase.New(cfg.URL, cfg.PublishableKey, opts...)
}

// newAccount returns the Supabase client used for auth and progress, or
// nil when no Supabase project is configured.
func newAccount(cfg config.SupabaseConfig) *supabase.Client {
	if cfg.URL == "" || cfg.PublishableKey == "" {
		return nil
	}
	return newSupabase(cfg)
}

// resolveProgress builds the progress lookup. The user always comes from
// the account client; counters are read from Postgres when database.url is
// set and through the REST API otherwise. A nil func means no account is
// configured. The returned close func releases the store.
func resolveProgress(ctx context.Context, cfg *config.Config, account *supabase.Client) (bt.ProgressFunc, func(), error) {
	nop := func() {}
	if account == nil {
		return nil, nop, nil
	}
	if cfg.Database.URL == "" {
		return progressFunc(account, account), nop, nil
	}
	store, err := postgres.Open(ctx, cfg.Database.URL)
	if err != nil {
		return nil, nop, err
	}
	return progressFunc(account, store), store.Close, nil
}

// passwordSignIn is the part of the account client /signin needs.
type passwordSignIn interface {
	SignInWithPassword(ctx context.Context, email, password string) (supabase.Session, error)
}

func signInFunc(a passwordSignIn, log zerolog.Logger) bt.SignInFunc {
	return func(ctx context.Context, email, password string) (lingua.User, error) {
		s, err := a.SignInWithPassword(ctx, email, password)
		if err != nil {
			log.Warn().Err(err).Msg("sign in failed")
			return lingua.User{}, err
		}
		log.Info().Str("user", s.User.ID).Msg("signed in")
		return s.User, nil
	}
}

func progressFunc(auth lingua.Authenticator, store lingua.ProgressStore) bt.ProgressFunc {
	return func(ctx context.Context) (lingua.User, lingua.Progress, error) {
		user, err := auth.CurrentUser(ctx)
		if err != nil {
			return lingua.User{}, lingua.Progress{}, err
		}
		p, err := store.Progress(ctx, user.ID)
		return user, p, err
	}
}
