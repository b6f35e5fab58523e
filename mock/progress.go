package mock

import (
	"context"

	"github.com/fwojciec/lingua"
)

// Interface compliance checks.
var (
	_ lingua.Authenticator = (*Authenticator)(nil)
	_ lingua.ProgressStore = (*ProgressStore)(nil)
)

// Authenticator is a test double for lingua.Authenticator.
type Authenticator struct {
	CurrentUserFn func(ctx context.Context) (lingua.User, error)
}

// CurrentUser delegates to CurrentUserFn.
func (a *Authenticator) CurrentUser(ctx context.Context) (lingua.User, error) {
	return a.CurrentUserFn(ctx)
}

// ProgressStore is a test double for lingua.ProgressStore.
type ProgressStore struct {
	ProgressFn func(ctx context.Context, userID string) (lingua.Progress, error)
}

// Progress delegates to ProgressFn.
func (p *ProgressStore) Progress(ctx context.Context, userID string) (lingua.Progress, error) {
	return p.ProgressFn(ctx, userID)
}
