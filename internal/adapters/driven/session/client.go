package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/sync/singleflight"

	"github.com/custodia-labs/oversight-cli/internal/core/domain"
	"github.com/custodia-labs/oversight-cli/internal/core/ports/driven"
	"github.com/custodia-labs/oversight-cli/internal/logger"
)

// Ensure Client implements the driven ports.
var (
	_ driven.Requester = (*Client)(nil)
	_ driven.Session   = (*Client)(nil)
)

const (
	// DefaultRefreshPath is the token refresh endpoint.
	DefaultRefreshPath = "/auth/refresh"
	// DefaultIdentityPath is the identity check endpoint.
	DefaultIdentityPath = "/auth/me"
	// DefaultTimeout bounds each request attempt.
	DefaultTimeout = 10 * time.Second

	// refreshBuffer is how early the token source refreshes before expiry.
	refreshBuffer = 5 * time.Minute

	maxBodySize = 10 << 20
)

// Config configures a Client.
type Config struct {
	// BaseURL is the API root, e.g. "https://api.example.com/api/v1".
	BaseURL string
	// Timeout bounds each non-streaming attempt. Defaults to DefaultTimeout.
	Timeout      time.Duration
	RefreshPath  string
	IdentityPath string
	// HTTPClient is optional. A cookie jar is added when it has none.
	HTTPClient *http.Client
	// Metrics is optional.
	Metrics   *Metrics
	UserAgent string
}

// Client is the authenticated API client. It is safe for concurrent use.
type Client struct {
	baseURL      *url.URL
	timeout      time.Duration
	refreshPath  string
	identityPath string
	userAgent    string
	http         *http.Client
	store        driven.CredentialStore
	metrics      *Metrics

	mu     sync.RWMutex
	pair   *domain.CredentialPair
	loaded bool

	flight singleflight.Group

	subMu       sync.RWMutex
	subscribers []func(domain.SessionEvent)
}

// pendingRequest is one attempt of a request. attempt is 0 for the first
// send and 1 for the replay after a refresh.
type pendingRequest struct {
	req     *domain.Request
	attempt int
}

func (p pendingRequest) retried() bool {
	return p.attempt > 0
}

func (p pendingRequest) next() pendingRequest {
	return pendingRequest{req: p.req, attempt: p.attempt + 1}
}

// New creates a session client that persists credentials in store.
func New(cfg Config, store driven.CredentialStore) (*Client, error) {
	if store == nil {
		return nil, fmt.Errorf("credential store is required: %w", domain.ErrInvalidInput)
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, domain.ErrInvalidInput)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}
	hc := &http.Client{}
	if cfg.HTTPClient != nil {
		copied := *cfg.HTTPClient
		hc = &copied
	}
	if hc.Jar == nil {
		hc.Jar = jar
	}

	c := &Client{
		baseURL:      base,
		timeout:      cfg.Timeout,
		refreshPath:  cfg.RefreshPath,
		identityPath: cfg.IdentityPath,
		userAgent:    cfg.UserAgent,
		http:         hc,
		store:        store,
		metrics:      cfg.Metrics,
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.refreshPath == "" {
		c.refreshPath = DefaultRefreshPath
	}
	if c.identityPath == "" {
		c.identityPath = DefaultIdentityPath
	}
	return c, nil
}

// Do sends req, attaching the bearer credential when one is held. A 401 on
// a data request triggers one refresh and one replay.
func (c *Client) Do(ctx context.Context, req *domain.Request) (*domain.Response, error) {
	if req == nil {
		return nil, domain.ErrInvalidInput
	}
	return c.do(ctx, pendingRequest{req: req})
}

func (c *Client) do(ctx context.Context, p pendingRequest) (*domain.Response, error) {
	kind := c.kindOf(p.req)

	token := ""
	if pair := c.current(ctx); pair != nil {
		token = pair.AccessToken
	}

	resp, err := c.send(ctx, p.req, token)
	if err != nil {
		c.metrics.request(kind.String(), "error")
		return nil, err
	}
	if resp.StatusCode < http.StatusBadRequest {
		c.metrics.request(kind.String(), "ok")
		return resp, nil
	}

	if resp.StatusCode != http.StatusUnauthorized || !c.recoverable(ctx, p, kind) {
		c.metrics.request(kind.String(), "failed")
		return nil, c.responseFailure(resp, kind)
	}

	c.metrics.request(kind.String(), "unauthorized")
	logger.From(ctx).Debug("session: access token rejected, refreshing",
		"path", p.req.Path, "attempt", p.attempt)

	if err := c.refresh(ctx, token); err != nil {
		return nil, err
	}

	c.metrics.retry()
	return c.do(ctx, p.next())
}

// recoverable reports whether a 401 may be answered with refresh-and-retry.
func (c *Client) recoverable(ctx context.Context, p pendingRequest, kind domain.RequestKind) bool {
	return kind == domain.RequestData && !p.retried() && !domain.OnAuthSurface(ctx)
}

func (c *Client) kindOf(req *domain.Request) domain.RequestKind {
	if req.Kind != domain.RequestData {
		return req.Kind
	}
	switch req.Path {
	case c.refreshPath:
		return domain.RequestRefresh
	case c.identityPath:
		return domain.RequestIdentity
	}
	return domain.RequestData
}

// send performs a single HTTP exchange. Error statuses are returned as a
// response, not an error; only transport failures produce an error.
func (c *Client) send(ctx context.Context, req *domain.Request, token string) (*domain.Response, error) {
	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	attemptCtx, cancel := ctx, context.CancelFunc(func() {})
	if !req.Stream {
		timeout := req.Timeout
		if timeout <= 0 {
			timeout = c.timeout
		}
		attemptCtx, cancel = context.WithTimeout(ctx, timeout)
	}
	defer cancel()

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	httpReq, err := http.NewRequestWithContext(attemptCtx, method, c.resolve(req), body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.Stream {
		httpReq.Header.Set("Accept", "text/event-stream")
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}
	httpReq.Header.Set("X-Request-Id", uuid.NewString())
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, transportFailure(ctx, err)
	}

	if req.Stream && resp.StatusCode < http.StatusBadRequest {
		return &domain.Response{
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			Stream:     resp.Body,
		}, nil
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, transportFailure(ctx, err)
	}
	return &domain.Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

func (c *Client) resolve(req *domain.Request) string {
	u := *c.baseURL
	u.Path = c.baseURL.Path + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}
	return u.String()
}

// Subscribe registers fn for session lifecycle events. fn runs on the
// goroutine that caused the event and must not block.
func (c *Client) Subscribe(fn func(domain.SessionEvent)) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	c.subscribers = append(c.subscribers, fn)
}

func (c *Client) emit(ev domain.SessionEvent) {
	c.subMu.RLock()
	subs := append([]func(domain.SessionEvent){}, c.subscribers...)
	c.subMu.RUnlock()

	ev.At = time.Now()
	for _, fn := range subs {
		fn(ev)
	}
}

// isContextErr reports whether err came from ctx being done.
func isContextErr(ctx context.Context, err error) bool {
	return ctx.Err() != nil && errors.Is(err, ctx.Err())
}
