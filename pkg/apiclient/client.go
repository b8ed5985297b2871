// Package apiclient talks to the remote employee-management API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is the origin of the production API.
const DefaultBaseURL = "https://crud.parxfit.com"

// Error is the single failure type returned by every call. Message is what
// operators see.
type Error struct {
	Status  int
	Message string
	Err     error
	// Remote is set when Message came from the response body.
	Remote bool
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Message extracts a displayable message from err, falling back to def.
func Message(err error, def string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if err != nil && def == "" {
		return err.Error()
	}
	return def
}

// Observer is notified once per completed call. Status is 0 on transport failure.
type Observer func(op string, status int, elapsed time.Duration)

// Client is safe for concurrent use. One Client shares one connection pool.
type Client struct {
	baseURL  string
	http     *http.Client
	log      *zap.Logger
	observer Observer
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// New creates a client for baseURL. An empty baseURL means DefaultBaseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type tokenKey struct{}

// WithToken returns a context whose calls carry token as a bearer credential.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func tokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// envelope covers the keys any response may carry.
type envelope struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) do(ctx context.Context, op, method, path string, body any) ([]byte, error) {
	start := time.Now()
	status := 0
	defer func() {
		elapsed := time.Since(start)
		if c.observer != nil {
			c.observer(op, status, elapsed)
		}
		c.log.Debug("api call",
			zap.String("op", op),
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", elapsed),
		)
	}()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Message: "request failed: " + err.Error(), Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, &Error{Message: "request failed: " + err.Error(), Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := tokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Message: "request failed: " + err.Error(), Err: err}
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Status: status, Message: "request failed: " + err.Error(), Err: err}
	}

	var env envelope
	_ = json.Unmarshal(raw, &env)

	remote := env.Message != "" || env.Error != ""
	if status < 200 || status >= 300 {
		return nil, &Error{Status: status, Message: pickMessage(env, fmt.Sprintf("HTTP error: %d", status)), Remote: remote}
	}
	if env.Success != nil && !*env.Success {
		return nil, &Error{Status: status, Message: pickMessage(env, "request was not successful"), Remote: remote}
	}
	return raw, nil
}

func pickMessage(env envelope, def string) string {
	switch {
	case env.Message != "":
		return env.Message
	case env.Error != "":
		return env.Error
	default:
		return def
	}
}

// decodeField pulls one top-level key out of a response body.
func decodeField(raw []byte, key string) (json.RawMessage, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, false
	}
	v, ok := obj[key]
	return v, ok
}

// decodeArray returns the elements of raw, or nil when raw is not an array.
func decodeArray(raw json.RawMessage) []json.RawMessage {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	return items
}
