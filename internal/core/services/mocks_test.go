package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/oversight-cli/internal/core/domain"
)

// mockAuthAPI is a mock implementation of driven.AuthAPI.
type mockAuthAPI struct {
	authURL   *domain.AuthURL
	success   *domain.AuthSuccess
	user      *domain.User
	err       error
	meErr     error
	logoutErr error

	loggedOutWith string
	callbackCode  string
}

func (m *mockAuthAPI) GoogleAuthURL(_ context.Context, _ string) (*domain.AuthURL, error) {
	return m.authURL, m.err
}

func (m *mockAuthAPI) OAuthCallback(_ context.Context, code, _ string) (*domain.AuthSuccess, error) {
	m.callbackCode = code
	return m.success, m.err
}

func (m *mockAuthAPI) Me(_ context.Context) (*domain.User, error) {
	return m.user, m.meErr
}

func (m *mockAuthAPI) Logout(_ context.Context, refreshToken string) error {
	m.loggedOutWith = refreshToken
	return m.logoutErr
}

// mockSession is a mock implementation of driven.Session.
type mockSession struct {
	mu          sync.Mutex
	pair        *domain.CredentialPair
	stored      *domain.TokenResponse
	cleared     int
	subscribers []func(domain.SessionEvent)
}

func (m *mockSession) Credentials(_ context.Context) (*domain.CredentialPair, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pair, nil
}

func (m *mockSession) SetCredentials(_ context.Context, access, refresh string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pair = &domain.CredentialPair{AccessToken: access, RefreshToken: refresh}
	return nil
}

func (m *mockSession) StoreTokens(_ context.Context, tokens domain.TokenResponse) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stored = &tokens
	m.pair = &domain.CredentialPair{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}
	return nil
}

func (m *mockSession) ClearCredentials(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleared++
	m.pair = nil
	return nil
}

func (m *mockSession) Subscribe(fn func(domain.SessionEvent)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, fn)
}

func (m *mockSession) emit(ev domain.SessionEvent) {
	m.mu.Lock()
	subs := append([]func(domain.SessionEvent){}, m.subscribers...)
	m.mu.Unlock()
	for _, fn := range subs {
		fn(ev)
	}
}

// mockWorkspaceAPI is a mock implementation of driven.WorkspaceAPI.
type mockWorkspaceAPI struct {
	mu       sync.Mutex
	stats    *domain.WorkspaceStats
	apps     []domain.DiscoveredApp
	pageSize int
	scopes   map[int64][]string
	err      error
	appErr   error

	pagesRequested []int
	disconnected   bool
}

func (m *mockWorkspaceAPI) Stats(_ context.Context) (*domain.WorkspaceStats, error) {
	return m.stats, m.err
}

func (m *mockWorkspaceAPI) Users(_ context.Context, _ domain.ListParams) (*domain.Page[domain.WorkspaceUser], error) {
	return &domain.Page[domain.WorkspaceUser]{}, m.err
}

func (m *mockWorkspaceAPI) User(_ context.Context, id int64) (*domain.UserDetail, error) {
	return &domain.UserDetail{ID: id}, m.err
}

func (m *mockWorkspaceAPI) Groups(_ context.Context, _ domain.ListParams) (*domain.Page[domain.WorkspaceGroup], error) {
	return &domain.Page[domain.WorkspaceGroup]{}, m.err
}

func (m *mockWorkspaceAPI) Group(_ context.Context, id int64) (*domain.GroupDetail, error) {
	return &domain.GroupDetail{ID: id}, m.err
}

// Apps pages through m.apps using m.pageSize, ignoring the requested size.
func (m *mockWorkspaceAPI) Apps(_ context.Context, params domain.ListParams) (*domain.Page[domain.DiscoveredApp], error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	m.pagesRequested = append(m.pagesRequested, params.Page)
	m.mu.Unlock()

	size := m.pageSize
	if size == 0 {
		size = len(m.apps) + 1
	}
	total := (len(m.apps) + size - 1) / size
	start := (params.Page - 1) * size
	end := start + size
	if start > len(m.apps) {
		start = len(m.apps)
	}
	if end > len(m.apps) {
		end = len(m.apps)
	}
	return &domain.Page[domain.DiscoveredApp]{
		Items: m.apps[start:end],
		Pagination: domain.Pagination{
			Page:       params.Page,
			PageSize:   size,
			TotalItems: len(m.apps),
			TotalPages: total,
		},
	}, nil
}

func (m *mockWorkspaceAPI) App(_ context.Context, id int64) (*domain.AppDetail, error) {
	if m.appErr != nil {
		return nil, m.appErr
	}
	return &domain.AppDetail{ID: id, AllScopes: m.scopes[id]}, nil
}

func (m *mockWorkspaceAPI) AppTimeline(_ context.Context, _ int64, _ domain.ListParams) (*domain.Page[domain.TimelineEvent], error) {
	return &domain.Page[domain.TimelineEvent]{}, m.err
}

func (m *mockWorkspaceAPI) ConnectionSettings(_ context.Context) (*domain.ConnectionSettings, error) {
	return &domain.ConnectionSettings{CanSync: true}, m.err
}

func (m *mockWorkspaceAPI) DisconnectWorkspace(_ context.Context) error {
	m.disconnected = true
	return m.err
}

// mockIntegrationAPI is a mock implementation of driven.IntegrationAPI.
type mockIntegrationAPI struct {
	connections []domain.Connection
	result      *domain.SyncResult
	err         error

	connectedSlug string
}

func (m *mockIntegrationAPI) Connect(_ context.Context, slug string) (*domain.AuthURL, error) {
	m.connectedSlug = slug
	return &domain.AuthURL{AuthorizationURL: "https://example.com/auth"}, m.err
}

func (m *mockIntegrationAPI) Connections(_ context.Context) ([]domain.Connection, error) {
	return m.connections, m.err
}

func (m *mockIntegrationAPI) Sync(_ context.Context, _ int64, _ bool) (*domain.SyncResult, error) {
	return m.result, m.err
}

func (m *mockIntegrationAPI) Disconnect(_ context.Context, _ int64) error {
	return m.err
}

// mockChatAPI is a mock implementation of driven.ChatAPI.
type mockChatAPI struct {
	events []domain.ChatEvent
	err    error

	message string
}

func (m *mockChatAPI) Chat(_ context.Context, message string, fn func(domain.ChatEvent) error) error {
	m.message = message
	for _, ev := range m.events {
		if err := fn(ev); err != nil {
			return err
		}
	}
	return m.err
}
