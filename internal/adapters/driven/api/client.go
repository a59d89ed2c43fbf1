package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/custodia-labs/oversight-cli/internal/core/domain"
	"github.com/custodia-labs/oversight-cli/internal/core/ports/driven"
)

// Ensure Client implements the driven API ports.
var (
	_ driven.AuthAPI        = (*Client)(nil)
	_ driven.WorkspaceAPI   = (*Client)(nil)
	_ driven.IntegrationAPI = (*Client)(nil)
	_ driven.ChatAPI        = (*Client)(nil)
)

// DefaultLongTimeout bounds slow calls such as a workspace sync.
const DefaultLongTimeout = 30 * time.Second

// ErrEmptyResponse is returned when a successful response carries no data.
var ErrEmptyResponse = errors.New("response has no data")

// Config configures the API client.
type Config struct {
	// LongTimeout bounds each attempt of slow calls. Defaults to DefaultLongTimeout.
	LongTimeout time.Duration
	RateLimit   RateLimitConfig
}

// Client calls the backend API through a Requester.
type Client struct {
	requester   driven.Requester
	limiter     *RateLimiter
	longTimeout time.Duration
}

// New creates an API client. requester is normally the session client.
func New(requester driven.Requester, cfg Config) *Client {
	if cfg.LongTimeout <= 0 {
		cfg.LongTimeout = DefaultLongTimeout
	}
	return &Client{
		requester:   requester,
		limiter:     NewRateLimiter(cfg.RateLimit),
		longTimeout: cfg.LongTimeout,
	}
}

// call paces and sends req.
func (c *Client) call(ctx context.Context, req *domain.Request) (*domain.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, waitFailure(err)
	}

	resp, err := c.requester.Do(ctx, req)
	if err != nil {
		var f *domain.Failure
		if errors.As(err, &f) && f.StatusCode == http.StatusTooManyRequests {
			c.limiter.RecordRateLimitError(f.RetryAfter)
		}
		return nil, err
	}
	return resp, nil
}

// exec sends req and checks the envelope for an error, ignoring data.
func (c *Client) exec(ctx context.Context, req *domain.Request) error {
	resp, err := c.call(ctx, req)
	if err != nil {
		return err
	}
	if len(resp.Body) == 0 {
		return nil
	}

	var env domain.Envelope[json.RawMessage]
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return malformed(fmt.Errorf("decoding response: %w", err))
	}
	if env.Error != nil {
		return domain.NewEnvelopeFailure(resp.StatusCode, env.Error, env.Meta)
	}
	return nil
}

// fetch sends req and decodes the envelope data into T.
func fetch[T any](ctx context.Context, c *Client, req *domain.Request) (*T, error) {
	resp, err := c.call(ctx, req)
	if err != nil {
		return nil, err
	}
	return decode[T](resp)
}

func decode[T any](resp *domain.Response) (*T, error) {
	var env domain.Envelope[T]
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, malformed(fmt.Errorf("decoding response: %w", err))
	}
	if env.Error != nil {
		return nil, domain.NewEnvelopeFailure(resp.StatusCode, env.Error, env.Meta)
	}
	if env.Data == nil {
		return nil, malformed(ErrEmptyResponse)
	}
	return env.Data, nil
}

// waitFailure classifies an error from the rate limiter. The limiter fails
// early when the deadline would pass before a token is available.
func waitFailure(err error) *domain.Failure {
	if errors.Is(err, context.Canceled) {
		return &domain.Failure{Kind: domain.FailureNetwork, Message: domain.MessageNetwork, Err: err}
	}
	return &domain.Failure{Kind: domain.FailureTimeout, Message: domain.MessageTimeout, Err: err}
}

// malformed wraps a successful response the client could not use.
func malformed(err error) *domain.Failure {
	return &domain.Failure{Kind: domain.FailureServer, Message: domain.MessageServer, Err: err}
}

func listQuery(params domain.ListParams) url.Values {
	q := url.Values{}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	if params.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(params.PageSize))
	}
	if params.Search != "" {
		q.Set("search", params.Search)
	}
	return q
}

func idPath(format string, id int64) string {
	return fmt.Sprintf(format, id)
}
