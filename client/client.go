// Package client talks to the ARDU REST API. Every method takes a context;
// the client adds its own per-request timeout on top of it.
package client

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

	"github.com/google/uuid"

	"ardu.app/feed/log"
	"ardu.app/feed/session"
)

const DefaultTimeout = 10 * time.Second

type Client struct {
	baseURL string
	http    *http.Client
	session *session.Session
	timeout time.Duration
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout bounds every request. A request that runs past it fails with
// a Status 0 Error and is treated like any other failure.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// New returns a client for baseURL. sess may be anonymous but not nil; it
// is read on every call, so logging in or out through it takes effect
// immediately.
func New(baseURL string, sess *session.Session, opts ...Option) *Client {
	if sess == nil {
		sess = session.New()
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		session: sess,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Session() *session.Session { return c.session }

type request struct {
	method string
	path   string
	auth   bool // bearer token required
	body   any
	out    any
}

func (c *Client) do(ctx context.Context, req request) error {
	token := c.session.Token()
	if req.auth && token == "" {
		return ErrNotSignedIn
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if req.body != nil {
		b, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("client: encode %s %s: %w", req.method, req.path, err)
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, body)
	if err != nil {
		return fmt.Errorf("client: build %s %s: %w", req.method, req.path, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		log.Warn.Printf("%s %s failed after %s: %v", req.method, req.path, time.Since(start), err)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return &Error{Message: "request timed out", Err: err}
		}
		return &Error{Message: "network error", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Status: 0, Message: "network error", Err: err}
	}
	log.Info.Printf("%s %s -> %d (%s)", req.method, req.path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromBody(resp.StatusCode, raw)
	}
	if req.out == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, req.out); err != nil {
		return fmt.Errorf("client: decode %s %s: %w", req.method, req.path, err)
	}
	return nil
}
