package gemini

import (
	"context"
	"iter"

	"github.com/fwojciec/lingua"
	"google.golang.org/genai"
)

// NewStreamFromIter exposes newStream for tests.
func NewStreamFromIter(ctx context.Context, it iter.Seq2[*genai.GenerateContentResponse, error]) lingua.Stream {
	return newStream(ctx, it)
}

var ClassifyAPIError = classifyAPIError
