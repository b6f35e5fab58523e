// Package mock provides test doubles for lingua interfaces using function fields.
package mock

import (
	"context"

	"github.com/fwojciec/lingua"
)

// Interface compliance check.
var _ lingua.Provider = (*Provider)(nil)

// Provider is a test double for lingua.Provider.
// Set StreamFn before calling Stream.
type Provider struct {
	StreamFn func(ctx context.Context, req lingua.Request) (lingua.Stream, error)
}

// Stream delegates to StreamFn.
func (p *Provider) Stream(ctx context.Context, req lingua.Request) (lingua.Stream, error) {
	return p.StreamFn(ctx, req)
}
