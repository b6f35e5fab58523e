package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/fwojciec/lingua"
)

// Session is a signed-in user session.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
	User         lingua.User
}

// CurrentUser returns the user the client's session token belongs to.
// Without a session it returns [lingua.ErrNotAuthenticated].
func (c *Client) CurrentUser(ctx context.Context) (lingua.User, error) {
	if !c.hasSession() {
		return lingua.User{}, fmt.Errorf("supabase: %w", lingua.ErrNotAuthenticated)
	}
	var u apiUser
	if err := c.do(ctx, http.MethodGet, userPath, nil, &u); err != nil {
		return lingua.User{}, err
	}
	if u.ID == "" {
		return lingua.User{}, fmt.Errorf("supabase: empty user: %w", lingua.ErrNotAuthenticated)
	}
	return lingua.User{ID: u.ID, Email: u.Email}, nil
}

// SignInWithPassword exchanges credentials for a session and keeps its
// access token for later calls.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (Session, error) {
	if email == "" || password == "" {
		return Session{}, fmt.Errorf("supabase: email and password are required: %w", lingua.ErrValidation)
	}
	var s apiSession
	if err := c.do(ctx, http.MethodPost, tokenPath, apiCredentials{Email: email, Password: password}, &s); err != nil {
		return Session{}, err
	}
	if s.AccessToken == "" {
		return Session{}, errors.New("supabase: sign in returned no access token")
	}
	c.setToken(s.AccessToken)
	return Session{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresIn:    s.ExpiresIn,
		User:         lingua.User{ID: s.User.ID, Email: s.User.Email},
	}, nil
}

// SignOut revokes the current session. The local token is dropped even if
// the server call fails.
func (c *Client) SignOut(ctx context.Context) error {
	if !c.hasSession() {
		return nil
	}
	err := c.do(ctx, http.MethodPost, logoutPath, nil, nil)
	c.setToken("")
	return err
}
