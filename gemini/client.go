package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/fwojciec/lingua"
	"google.golang.org/genai"
)

// Interface compliance check.
var _ lingua.Provider = (*Client)(nil)

// Client implements [lingua.Provider] for the Google Gemini API.
type Client struct {
	client       *genai.Client
	model        string
	systemPrompt string
	maxTokens    int32
}

// Option configures a [Client].
type Option func(*Client)

// WithModel sets the model ID. Default is gemini-2.5-flash.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// WithSystemPrompt replaces the tutor instructions sent with every request.
func WithSystemPrompt(prompt string) Option {
	return func(c *Client) { c.systemPrompt = prompt }
}

// WithMaxTokens caps the length of each reply.
func WithMaxTokens(n int) Option {
	return func(c *Client) { c.maxTokens = int32(n) }
}

// New creates a new Gemini [Client] with the given API key and options.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	c := &Client{
		client:       gc,
		model:        defaultModel,
		systemPrompt: defaultSystemPrompt,
		maxTokens:    defaultMaxTokens,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Stream sends the conversation to Gemini and returns a [lingua.Stream] of
// text deltas.
func (c *Client) Stream(ctx context.Context, req lingua.Request) (lingua.Stream, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	iter := c.client.Models.GenerateContentStream(ctx, c.model, ConvertMessages(req.Messages), c.config())
	return newStream(ctx, iter), nil
}

func (c *Client) config() *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		MaxOutputTokens: c.maxTokens,
	}
	if c.systemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: c.systemPrompt}},
		}
	}
	return config
}

// ConvertMessages converts lingua Messages to genai Contents.
// Exported for testing.
func ConvertMessages(msgs []lingua.Message) []*genai.Content {
	result := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		role := string(genai.RoleUser)
		if m.Role == lingua.RoleAssistant {
			role = string(genai.RoleModel)
		}
		result = append(result, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Content}},
		})
	}
	return result
}

// classifyAPIError wraps SDK errors with the matching sentinel.
func classifyAPIError(err error) error {
	code := 0
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.Code
	case errors.As(err, &apiErrPtr):
		code = apiErrPtr.Code
	}
	switch code {
	case 0:
		return fmt.Errorf("gemini: %w: %w", lingua.ErrTransportFailed, err)
	case http.StatusTooManyRequests:
		return fmt.Errorf("gemini: %w: %w", lingua.ErrRateLimited, err)
	case http.StatusPaymentRequired:
		return fmt.Errorf("gemini: %w: %w", lingua.ErrQuotaExceeded, err)
	default:
		return fmt.Errorf("gemini: HTTP %d: %w: %w", code, lingua.ErrTransportFailed, err)
	}
}
