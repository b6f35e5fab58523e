package lingua

import "context"

// Provider is a strategy pattern interface for chat-completion backends.
type Provider interface {
	Stream(ctx context.Context, req Request) (Stream, error)
}
