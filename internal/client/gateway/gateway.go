// Package gateway is the single HTTP path to the WombGuard backend.
//
// Every request carries the bearer token that is current at dispatch time,
// a JSON content type when it has a body and a fresh X-Request-ID. A 401
// runs the unauthorized handler before the error reaches the caller.
// 401s whose handler runs overlap in time share one call; a later 401 runs
// the handler again, so the handler must be idempotent. Other statuses come back as *APIError. Requests are independent:
// no retries, no queueing, no shared lock.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/wombguard/wombguard-cli/internal/common"
	"github.com/wombguard/wombguard-cli/internal/logging"
)

const (
	DefaultTimeout = 30 * time.Second
	UserAgent      = "wombguard-cli"

	maxErrorBody = 64 << 10
)

// TokenSource yields the bearer token to attach, or "" for none.
type TokenSource interface {
	Token(ctx context.Context) string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func(ctx context.Context) string

func (f TokenFunc) Token(ctx context.Context) string { return f(ctx) }

// UnauthorizedHandler tears the session down after a 401. It must be safe to
// call repeatedly.
type UnauthorizedHandler func(ctx context.Context)

type Gateway struct {
	base           *url.URL
	httpClient     *http.Client
	tokens         TokenSource
	onUnauthorized UnauthorizedHandler
	teardown       singleflight.Group
	log            logging.Logger
}

type Option func(*Gateway)

func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) { g.httpClient = c }
}

func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.httpClient.Timeout = d
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(g *Gateway) { g.log = l }
}

// WithUnauthorizedHandler sets the 401 handler.
func WithUnauthorizedHandler(h UnauthorizedHandler) Option {
	return func(g *Gateway) { g.onUnauthorized = h }
}

func New(baseURL string, tokens TokenSource, opts ...Option) (*Gateway, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q must be http or https", baseURL)
	}
	if tokens == nil {
		tokens = TokenFunc(func(context.Context) string { return "" })
	}
	g := &Gateway{
		base:       u,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		tokens:     tokens,
		log:        logging.Discard(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.log = g.log.With("component", "gateway")
	return g, nil
}

// BaseURL returns the backend base URL.
func (g *Gateway) BaseURL() string { return g.base.String() }

// Do sends in (when non-nil) as JSON and decodes a 2xx body into out (when
// non-nil).
func (g *Gateway) Do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	req, err := g.newRequest(ctx, method, path, query, in)
	if err != nil {
		return err
	}
	reqID := req.Header.Get(common.RequestIDHeaderName)

	start := time.Now()
	resp, err := g.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s %s: %w", method, path, ctxErr)
		}
		g.log.Debug(ctx, "request failed", "method", method, "path", path, "request_id", reqID, "error", err)
		return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	g.log.Debug(ctx, "request completed",
		"method", method, "path", path, "status", resp.StatusCode,
		"request_id", reqID, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Detail:     parseDetail(body),
			Method:     method,
			Path:       path,
		}
		if resp.StatusCode == http.StatusUnauthorized {
			g.unauthorized(ctx)
		}
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (g *Gateway) Get(ctx context.Context, path string, query url.Values, out any) error {
	return g.Do(ctx, http.MethodGet, path, query, nil, out)
}

func (g *Gateway) Post(ctx context.Context, path string, query url.Values, in, out any) error {
	return g.Do(ctx, http.MethodPost, path, query, in, out)
}

func (g *Gateway) newRequest(ctx context.Context, method, path string, query url.Values, in any) (*http.Request, error) {
	u := g.base.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s request: %w", method, path, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := g.tokens.Token(ctx); tok != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+tok)
	}
	return req, nil
}

// unauthorized runs the 401 handler synchronously. Callers arriving while a
// teardown is in flight wait for it instead of starting another.
func (g *Gateway) unauthorized(ctx context.Context) {
	h := g.onUnauthorized
	if h == nil {
		return
	}
	_, _, shared := g.teardown.Do("teardown", func() (any, error) {
		h(context.WithoutCancel(ctx))
		return nil, nil
	})
	g.log.Info(ctx, "session torn down after 401", "shared", shared)
}
