package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/custodia-labs/oversight-cli/internal/core/domain"
	"github.com/custodia-labs/oversight-cli/internal/logger"
)

const refreshKey = "refresh"

// errCredentialsCleared is the cause reported to requests that arrive after
// another request's refresh already ended the session.
var errCredentialsCleared = errors.New("credentials were cleared")

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// refresh obtains a new pair on behalf of a request that failed with stale.
// Concurrent callers share one in-flight refresh. A caller whose stale token
// was already replaced returns immediately and just retries.
func (c *Client) refresh(ctx context.Context, stale string) error {
	if done, err := c.settled(ctx, stale); done {
		c.metrics.coalesce()
		return err
	}

	// The shared refresh must not be aborted by one caller's cancellation.
	shared := context.WithoutCancel(ctx)
	ch := c.flight.DoChan(refreshKey, func() (any, error) {
		return nil, c.doRefresh(shared, stale)
	})

	select {
	case res := <-ch:
		if res.Shared {
			c.metrics.coalesce()
		}
		return res.Err
	case <-ctx.Done():
		return transportFailure(ctx, ctx.Err())
	}
}

// settled reports whether the pair has changed since stale was sent. When
// the pair was cleared the session is already gone and err says so.
func (c *Client) settled(ctx context.Context, stale string) (bool, error) {
	pair := c.current(ctx)
	switch {
	case pair != nil && pair.AccessToken != stale:
		return true, nil
	case pair == nil && stale != "":
		return true, sessionExpired(errCredentialsCleared)
	}
	return false, nil
}

func (c *Client) doRefresh(ctx context.Context, stale string) error {
	if done, err := c.settled(ctx, stale); done {
		return err
	}

	log := logger.From(ctx)
	log.Debug("session: refreshing access token")

	var refreshToken string
	if pair := c.current(ctx); pair != nil {
		refreshToken = pair.RefreshToken
	}

	resp, err := c.send(ctx, &domain.Request{
		Method: http.MethodPost,
		Path:   c.refreshPath,
		Body:   refreshRequest{RefreshToken: refreshToken},
		Kind:   domain.RequestRefresh,
	}, "")
	if err != nil {
		// No answer from the server: the session may still be valid.
		c.metrics.refresh("error")
		log.Warn("session: refresh request failed", "error", err)
		return err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return c.invalidate(ctx, c.responseFailure(resp, domain.RequestRefresh))
	}

	tokens, err := decodeTokens(resp.Body)
	if err != nil {
		return c.invalidate(ctx, err)
	}

	if tokens.AccessToken != "" {
		if tokens.RefreshToken == "" {
			tokens.RefreshToken = refreshToken
		}
		if err := c.StoreTokens(ctx, *tokens); err != nil {
			c.metrics.refresh("error")
			log.Warn("session: storing refreshed tokens failed", "error", err)
			return &domain.Failure{Kind: domain.FailureClient, Message: domain.MessageUnknown, Err: err}
		}
	}

	c.metrics.refresh("success")
	log.Debug("session: access token refreshed", "access_token", logger.RedactToken(tokens.AccessToken))
	c.emit(domain.SessionEvent{Type: domain.SessionRefreshed})
	return nil
}

// decodeTokens accepts an enveloped or bare token response. An empty body
// means the server rotated cookies only.
func decodeTokens(body []byte) (*domain.TokenResponse, error) {
	if len(body) == 0 {
		return &domain.TokenResponse{}, nil
	}

	var env domain.Envelope[domain.TokenResponse]
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decoding refresh response: %w", err)
	}
	if env.Error != nil {
		return nil, domain.NewEnvelopeFailure(http.StatusOK, env.Error, env.Meta)
	}
	if env.Data != nil {
		return env.Data, nil
	}

	var bare domain.TokenResponse
	if err := json.Unmarshal(body, &bare); err != nil {
		return nil, fmt.Errorf("decoding refresh response: %w", err)
	}
	return &bare, nil
}

// invalidate discards the pair after a failed refresh and notifies subscribers.
func (c *Client) invalidate(ctx context.Context, cause error) error {
	c.metrics.refresh("failure")
	logger.From(ctx).Info("session: refresh rejected, signing out", "error", cause)

	if err := c.ClearCredentials(ctx); err != nil {
		logger.From(ctx).Warn("session: clearing credentials failed", "error", err)
	}
	c.emit(domain.SessionEvent{Type: domain.SessionInvalidated, Reason: cause})
	return sessionExpired(cause)
}

func sessionExpired(cause error) *domain.Failure {
	return &domain.Failure{
		Kind:    domain.FailureSessionExpired,
		Message: domain.MessageSessionExpired,
		Err:     fmt.Errorf("%w: %v", domain.ErrTokenRefreshFailed, cause),
	}
}
