package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/fwojciec/lingua"
	"github.com/fwojciec/lingua/sse"
)

// Interface compliance checks.
var (
	_ lingua.Provider      = (*Client)(nil)
	_ lingua.Authenticator = (*Client)(nil)
	_ lingua.ProgressStore = (*Client)(nil)
)

// Client talks to one Supabase project.
type Client struct {
	url        string
	key        string
	function   string
	chunkSize  int
	httpClient *http.Client

	mu          sync.RWMutex
	accessToken string
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithFunction sets the name of the chat function. Defaults to "chat-tutor".
func WithFunction(name string) Option {
	return func(c *Client) { c.function = name }
}

// WithAccessToken sets the user session token used for auth and REST calls.
func WithAccessToken(token string) Option {
	return func(c *Client) { c.accessToken = token }
}

// WithChunkSize sets the read size for response bodies.
func WithChunkSize(n int) Option {
	return func(c *Client) { c.chunkSize = n }
}

// New creates a [Client] for the project at url, authorised with the
// project's publishable key.
func New(url, key string, opts ...Option) *Client {
	c := &Client{
		url:        strings.TrimRight(url, "/"),
		key:        key,
		function:   defaultFunction,
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Stream posts the conversation to the chat function and returns a
// [lingua.Stream] of text deltas.
func (c *Client) Stream(ctx context.Context, req lingua.Request) (lingua.Stream, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("supabase: %w", err)
	}
	body, err := json.Marshal(apiRequest{Messages: convertMessages(req.Messages)})
	if err != nil {
		return nil, fmt.Errorf("supabase: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+functionsPath+c.function, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("supabase: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.key)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if cause := context.Cause(ctx); cause != nil {
			return nil, fmt.Errorf("supabase: %w: %w", cause, err)
		}
		return nil, fmt.Errorf("supabase: %w: %w", lingua.ErrTransportFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, parseHTTPError(resp)
	}
	if resp.Body == nil || resp.Body == http.NoBody || resp.ContentLength == 0 {
		if resp.Body != nil {
			resp.Body.Close()
		}
		return nil, fmt.Errorf("supabase: response has no body: %w", lingua.ErrTransportFailed)
	}

	var opts []sse.Option
	if c.chunkSize > 0 {
		opts = append(opts, sse.WithChunkSize(c.chunkSize))
	}
	return newStream(ctx, resp.Body, opts...), nil
}

// token returns the session token, falling back to the publishable key.
func (c *Client) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.accessToken != "" {
		return c.accessToken
	}
	return c.key
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.accessToken = token
	c.mu.Unlock()
}

func (c *Client) hasSession() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken != ""
}

// do sends a gateway request carrying the apikey header and decodes a JSON
// response into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("supabase: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.url+path, body)
	if err != nil {
		return fmt.Errorf("supabase: %w", err)
	}
	req.Header.Set("Apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.token())
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("supabase: %w: %w", lingua.ErrTransportFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseHTTPError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("supabase: decode %s: %w", path, err)
	}
	return nil
}

func convertMessages(msgs []lingua.Message) []apiMessage {
	result := make([]apiMessage, len(msgs))
	for i, m := range msgs {
		result[i] = apiMessage{Role: string(m.Role), Content: m.Content}
	}
	return result
}

// parseHTTPError maps a non-2xx response to a sentinel-wrapped error.
func parseHTTPError(resp *http.Response) error {
	sentinel := lingua.ErrTransportFailed
	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		sentinel = lingua.ErrRateLimited
	case http.StatusPaymentRequired:
		sentinel = lingua.ErrQuotaExceeded
	case http.StatusUnauthorized, http.StatusForbidden:
		sentinel = lingua.ErrNotAuthenticated
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return fmt.Errorf("supabase: HTTP %d (failed to read body: %v): %w", resp.StatusCode, err, sentinel)
	}
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.text() != "" {
		return fmt.Errorf("supabase: HTTP %d: %s: %w", resp.StatusCode, apiErr.text(), sentinel)
	}
	if msg := strings.TrimSpace(string(body)); msg != "" {
		return fmt.Errorf("supabase: HTTP %d: %s: %w", resp.StatusCode, msg, sentinel)
	}
	return fmt.Errorf("supabase: HTTP %d: %w", resp.StatusCode, sentinel)
}
