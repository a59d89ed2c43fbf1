package api

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/oversight-cli/internal/core/domain"
)

func newTestClient(m *mockRequester) *Client {
	return New(m, Config{RateLimit: RateLimitConfig{RequestsPerSecond: 1000, BurstSize: 1000}})
}

func TestClient_Stats(t *testing.T) {
	m := &mockRequester{body: `{"meta":{"request_id":"r1"},"data":{"total_users":12,"total_groups":3,"total_apps":40,"active_authorizations":77,"last_sync_at":null}}`}
	c := newTestClient(m)

	stats, err := c.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 12, stats.TotalUsers)
	assert.Equal(t, 40, stats.TotalApps)
	assert.Nil(t, stats.LastSyncAt)
	assert.Equal(t, http.MethodGet, m.last().Method)
	assert.Equal(t, "/workspace/stats", m.last().Path)
}

func TestClient_Apps_Pagination(t *testing.T) {
	m := &mockRequester{body: `{"data":{"items":[{"id":1,"display_name":"Slack","client_id":"c1","status":"active","scopes_count":4}],"pagination":{"page":2,"page_size":25,"total_items":30,"total_pages":2}}}`}
	c := newTestClient(m)

	page, err := c.Apps(context.Background(), domain.ListParams{Page: 2, PageSize: 25, Search: "sla"})

	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Slack", page.Items[0].Name())
	assert.False(t, page.Pagination.HasNext())

	req := m.last()
	assert.Equal(t, "/workspace/apps", req.Path)
	assert.Equal(t, "2", req.Query.Get("page"))
	assert.Equal(t, "25", req.Query.Get("page_size"))
	assert.Equal(t, "sla", req.Query.Get("search"))
}

func TestClient_DetailPaths(t *testing.T) {
	m := &mockRequester{body: `{"data":{"id":7}}`}
	c := newTestClient(m)
	ctx := context.Background()

	_, err := c.User(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "/workspace/users/7", m.last().Path)

	_, err = c.Group(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "/workspace/groups/7", m.last().Path)

	_, err = c.App(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "/workspace/apps/7", m.last().Path)

	m.body = `{"data":{"items":[],"pagination":{"page":1,"page_size":20,"total_items":0,"total_pages":0}}}`
	_, err = c.AppTimeline(ctx, 7, domain.ListParams{})
	require.NoError(t, err)
	assert.Equal(t, "/workspace/apps/7/timeline", m.last().Path)
	assert.Empty(t, m.last().Query)
}

func TestClient_EnvelopeError(t *testing.T) {
	m := &mockRequester{body: `{"meta":{"request_id":"r9"},"data":null,"error":{"code":"NO_CONNECTION","message":"Workspace not connected"}}`}
	c := newTestClient(m)

	_, err := c.ConnectionSettings(context.Background())

	require.Error(t, err)
	var f *domain.Failure
	require.True(t, errors.As(err, &f))
	assert.Equal(t, domain.FailureClient, f.Kind)
	assert.Equal(t, "NO_CONNECTION", f.Code)
	assert.Equal(t, "Workspace not connected", f.Message)
	assert.Equal(t, "r9", f.RequestID)
}

func TestClient_EmptyData(t *testing.T) {
	m := &mockRequester{body: `{"data":null}`}
	c := newTestClient(m)

	_, err := c.Stats(context.Background())

	assert.ErrorIs(t, err, ErrEmptyResponse)
	assert.ErrorIs(t, err, domain.ErrServer)
	assert.Equal(t, domain.MessageServer, domain.UserMessage(err))
}

func TestClient_MalformedBodyIsTyped(t *testing.T) {
	c := newTestClient(&mockRequester{body: `<html>gateway</html>`})

	_, err := c.Stats(context.Background())
	var f *domain.Failure
	require.True(t, errors.As(err, &f))
	assert.Equal(t, domain.FailureServer, f.Kind)
	assert.ErrorContains(t, f.Err, "decoding response")

	err = c.DisconnectWorkspace(context.Background())
	assert.ErrorIs(t, err, domain.ErrServer)
}

func TestClient_CancelledWhileWaitingIsTyped(t *testing.T) {
	c := newTestClient(&mockRequester{body: `{"data":{}}`})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Stats(ctx)

	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_RequesterErrorPassesThrough(t *testing.T) {
	failure := &domain.Failure{Kind: domain.FailureSessionExpired, Message: domain.MessageSessionExpired}
	c := newTestClient(&mockRequester{err: failure})

	_, err := c.Stats(context.Background())

	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestClient_RateLimitedBacksOff(t *testing.T) {
	failure := &domain.Failure{Kind: domain.FailureClient, StatusCode: http.StatusTooManyRequests, RetryAfter: time.Minute}
	c := newTestClient(&mockRequester{err: failure})

	_, err := c.Stats(context.Background())
	require.ErrorIs(t, err, domain.ErrRateLimited)

	assert.False(t, c.limiter.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.Stats(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.ErrorIs(t, err, domain.ErrTimeout)
}

func TestClient_Auth(t *testing.T) {
	m := &mockRequester{body: `{"data":{"authorization_url":"https://accounts.google.com/o/oauth2/auth?x=1","state":"s1"}}`}
	c := newTestClient(m)
	ctx := context.Background()

	authURL, err := c.GoogleAuthURL(ctx, "http://localhost:8085/callback")
	require.NoError(t, err)
	assert.Equal(t, "s1", authURL.State)
	assert.Equal(t, "/auth/google", m.last().Path)
	assert.Equal(t, "http://localhost:8085/callback", m.last().Query.Get("redirect_uri"))

	m.body = `{"data":{"access_token":"a1","refresh_token":"r1","token_type":"bearer","expires_in":900,"user":{"id":1,"email":"ada@example.com"},"is_new_user":true}}`
	success, err := c.OAuthCallback(ctx, "code-1", "s1")
	require.NoError(t, err)
	assert.Equal(t, "a1", success.AccessToken)
	assert.Equal(t, "ada@example.com", success.User.Email)
	assert.True(t, success.IsNewUser)
	assert.Equal(t, "code-1", m.last().Query.Get("code"))

	m.body = `{"data":{"id":1,"email":"ada@example.com"}}`
	user, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, domain.RequestIdentity, m.last().Kind)

	m.body = `{"data":{"access_token":"a2","refresh_token":"r2","token_type":"bearer"}}`
	tokens, err := c.Refresh(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "a2", tokens.AccessToken)
	assert.Equal(t, domain.RequestRefresh, m.last().Kind)
	assert.Equal(t, refreshTokenBody{RefreshToken: "r1"}, m.last().Body)

	m.body = `{"data":{"message":"Logged out"}}`
	require.NoError(t, c.Logout(ctx, "r2"))
	assert.Equal(t, "/auth/logout", m.last().Path)
	assert.Equal(t, http.MethodPost, m.last().Method)
}

func TestClient_Integrations(t *testing.T) {
	m := &mockRequester{body: `{"data":{"authorization_url":"https://google.example/auth","state":"st"}}`}
	c := New(m, Config{LongTimeout: 45 * time.Second, RateLimit: RateLimitConfig{RequestsPerSecond: 1000, BurstSize: 1000}})
	ctx := context.Background()

	_, err := c.Connect(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "/integrations/connect", m.last().Path)
	assert.Equal(t, connectBody{IdentityProviderSlug: domain.DefaultIdentityProvider}, m.last().Body)

	m.body = `{"data":{"connections":[{"id":3,"identity_provider_slug":"google-workspace","status":"active"}]}}`
	conns, err := c.Connections(ctx)
	require.NoError(t, err)
	require.Len(t, conns, 1)
	assert.Equal(t, int64(3), conns[0].ID)

	m.body = `{"data":{"connection_id":3,"status":"completed","sync_stats":{"users_synced":10,"groups_synced":2,"apps_discovered":5,"authorizations_found":20},"started_at":"2026-01-02T10:00:00Z","completed_at":"2026-01-02T10:00:30Z"}}`
	result, err := c.Sync(ctx, 3, true)
	require.NoError(t, err)
	assert.Equal(t, 10, result.Stats.UsersSynced)
	assert.Equal(t, 30*time.Second, result.Duration())
	assert.Equal(t, "/integrations/3/sync", m.last().Path)
	assert.Equal(t, syncBody{ConnectionID: 3, FullSync: true}, m.last().Body)
	assert.Equal(t, 45*time.Second, m.last().Timeout)

	m.body = `{"data":{"message":"Disconnected"}}`
	require.NoError(t, c.Disconnect(ctx, 3))
	assert.Equal(t, http.MethodDelete, m.last().Method)
	assert.Equal(t, "/integrations/3", m.last().Path)
}

func TestClient_DisconnectWorkspace_EmptyBody(t *testing.T) {
	m := &mockRequester{status: http.StatusNoContent}
	c := newTestClient(m)

	require.NoError(t, c.DisconnectWorkspace(context.Background()))
	assert.Equal(t, "/workspace/disconnect", m.last().Path)
}

func TestNewRateLimiter_Defaults(t *testing.T) {
	r := NewRateLimiter(RateLimitConfig{})

	assert.Equal(t, float64(DefaultRateLimit.RequestsPerSecond), float64(r.limiter.Limit()))
	assert.Equal(t, DefaultRateLimit.BurstSize, r.limiter.Burst())
	assert.True(t, r.Allow())
}
