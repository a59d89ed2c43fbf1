package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/oversight-cli/internal/core/domain"
	"github.com/custodia-labs/oversight-cli/internal/core/ports/driving"
)

// mockSessionService implements driving.SessionService for testing.
type mockSessionService struct {
	mu sync.Mutex

	user       *domain.User
	err        error
	loginURL   string
	loggedOut  bool
	redirectTo string
	code       string
	state      string
	signedOut  []func(error)
}

func (m *mockSessionService) Bootstrap(_ context.Context) (*domain.User, error) {
	return m.user, m.err
}

func (m *mockSessionService) BeginLogin(_ context.Context, redirectURI string) (*driving.LoginRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.redirectTo = redirectURI
	return &driving.LoginRequest{AuthorizationURL: m.loginURL, State: "state-1"}, m.err
}

func (m *mockSessionService) CompleteLogin(_ context.Context, code, state string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.code = code
	m.state = state
	return m.user, m.err
}

func (m *mockSessionService) Logout(_ context.Context) error {
	m.loggedOut = true
	return m.err
}

func (m *mockSessionService) CurrentUser() *domain.User { return m.user }

func (m *mockSessionService) IsAuthenticated() bool { return m.user != nil }

func (m *mockSessionService) OnSignedOut(fn func(error)) {
	m.signedOut = append(m.signedOut, fn)
}

func (m *mockSessionService) redirectURI() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.redirectTo
}

// mockWorkspaceService implements driving.WorkspaceService for testing.
type mockWorkspaceService struct {
	err          error
	disconnected bool
	lastParams   domain.ListParams
	lastSearch   string
}

func (m *mockWorkspaceService) Stats(_ context.Context) (*domain.WorkspaceStats, error) {
	synced := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &domain.WorkspaceStats{TotalUsers: 42, TotalGroups: 7, TotalApps: 13, ActiveAuthorizations: 99, LastSyncAt: &synced}, m.err
}

func (m *mockWorkspaceService) Users(_ context.Context, params domain.ListParams) (*domain.Page[domain.WorkspaceUser], error) {
	m.lastParams = params
	return &domain.Page[domain.WorkspaceUser]{
		Items: []domain.WorkspaceUser{
			{ID: 1, Email: "ada@example.com", FullName: "Ada Lovelace", IsAdmin: true, Status: "active", AuthorizedAppsCount: 3},
			{ID: 2, Email: "alan@example.com", Status: "suspended"},
		},
		Pagination: domain.Pagination{Page: 1, PageSize: 20, TotalItems: 2, TotalPages: 1},
	}, m.err
}

func (m *mockWorkspaceService) User(_ context.Context, id int64) (*domain.UserDetail, error) {
	return &domain.UserDetail{
		ID:     id,
		Email:  "ada@example.com",
		Status: "active",
		Authorizations: []domain.UserAppAuthorization{
			{AppID: 9, AppName: "Mail Merge", Scopes: []string{"https://mail.google.com/"}},
		},
	}, m.err
}

func (m *mockWorkspaceService) Groups(_ context.Context, params domain.ListParams) (*domain.Page[domain.WorkspaceGroup], error) {
	m.lastParams = params
	return &domain.Page[domain.WorkspaceGroup]{}, m.err
}

func (m *mockWorkspaceService) Group(_ context.Context, id int64) (*domain.GroupDetail, error) {
	return &domain.GroupDetail{
		ID:      id,
		Name:    "Engineering",
		Email:   "eng@example.com",
		Members: []domain.GroupMember{{Email: "ada@example.com", Role: "OWNER"}},
	}, m.err
}

func (m *mockWorkspaceService) Apps(_ context.Context, params domain.ListParams) (*domain.Page[domain.DiscoveredApp], error) {
	m.lastParams = params
	return &domain.Page[domain.DiscoveredApp]{
		Items:      []domain.DiscoveredApp{{ID: 9, DisplayName: "Mail Merge", ClientID: "123.apps", Status: "active", ScopesCount: 2}},
		Pagination: domain.Pagination{Page: 2, PageSize: 1, TotalItems: 3, TotalPages: 3},
	}, m.err
}

func (m *mockWorkspaceService) App(_ context.Context, id int64) (*domain.AppDetail, error) {
	return &domain.AppDetail{
		ID:        id,
		ClientID:  "123.apps",
		Status:    "active",
		AllScopes: []string{"https://www.googleapis.com/auth/admin.directory.user", "https://www.googleapis.com/auth/userinfo.email"},
		Authorizations: []domain.AppAuthorizationUser{
			{UserID: 1, Email: "ada@example.com", Scopes: []string{"openid"}, Status: "active"},
		},
	}, m.err
}

func (m *mockWorkspaceService) AppTimeline(_ context.Context, _ int64, params domain.ListParams) (*domain.Page[domain.TimelineEvent], error) {
	m.lastParams = params
	return &domain.Page[domain.TimelineEvent]{
		Items:      []domain.TimelineEvent{{ID: 1, EventType: "revoke", ActorEmail: "ada@example.com"}},
		Pagination: domain.Pagination{Page: 1, TotalItems: 1, TotalPages: 1},
	}, m.err
}

func (m *mockWorkspaceService) Settings(_ context.Context) (*domain.ConnectionSettings, error) {
	return &domain.ConnectionSettings{
		Connection: &domain.WorkspaceConnection{ConnectionID: 5, Status: "active", WorkspaceDomain: "example.com"},
		CanSync:    true,
	}, m.err
}

func (m *mockWorkspaceService) Disconnect(_ context.Context) error {
	m.disconnected = true
	return m.err
}

func (m *mockWorkspaceService) AllApps(_ context.Context, search string) ([]domain.DiscoveredApp, error) {
	m.lastSearch = search
	return []domain.DiscoveredApp{
		{ID: 1, ClientID: "a.apps"},
		{ID: 2, ClientID: "b.apps"},
	}, m.err
}

func (m *mockWorkspaceService) RiskSummary(_ context.Context) (*domain.RiskSummary, error) {
	return &domain.RiskSummary{Low: 4, Medium: 2, High: 1, HighRiskApps: []string{"Mail Merge"}}, m.err
}

// mockIntegrationService implements driving.IntegrationService for testing.
type mockIntegrationService struct {
	err          error
	connectSlug  string
	syncedID     int64
	syncedFull   bool
	disconnected int64
	historyConn  int64
	historyLimit int
}

func (m *mockIntegrationService) Connect(_ context.Context, slug string) (*domain.AuthURL, error) {
	m.connectSlug = slug
	return &domain.AuthURL{AuthorizationURL: "https://accounts.example.com/consent"}, m.err
}

func (m *mockIntegrationService) List(_ context.Context) ([]domain.Connection, error) {
	return []domain.Connection{
		{ID: 5, IdentityProviderName: "Google Workspace", WorkspaceDomain: "example.com", Status: "active"},
	}, m.err
}

func (m *mockIntegrationService) Sync(_ context.Context, id int64, full bool) (*domain.SyncResult, error) {
	m.syncedID = id
	m.syncedFull = full
	if m.err != nil {
		return nil, m.err
	}
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &domain.SyncResult{
		ConnectionID: id,
		Status:       "completed",
		Stats:        domain.SyncStats{UsersSynced: 10, GroupsSynced: 2, AppsDiscovered: 4, AuthorizationsFound: 17},
		StartedAt:    start,
		CompletedAt:  start.Add(90 * time.Second),
	}, nil
}

func (m *mockIntegrationService) Disconnect(_ context.Context, id int64) error {
	m.disconnected = id
	return m.err
}

func (m *mockIntegrationService) History(_ context.Context, connID int64, limit int) ([]domain.SyncRecord, error) {
	m.historyConn = connID
	m.historyLimit = limit
	return []domain.SyncRecord{
		{ID: 2, ConnectionID: 5, Status: "failed", Error: "Server error. Please try again later."},
		{ID: 1, ConnectionID: 5, FullSync: true, Status: "completed", Stats: domain.SyncStats{UsersSynced: 10, AppsDiscovered: 4}},
	}, m.err
}

// mockChatService implements driving.ChatService for testing.
type mockChatService struct {
	events  []domain.ChatEvent
	err     error
	message string
}

func (m *mockChatService) Ask(_ context.Context, message string, onEvent func(domain.ChatEvent)) (*domain.ChatReply, error) {
	m.message = message
	reply := &domain.ChatReply{}
	for _, ev := range m.events {
		reply.Append(ev)
		onEvent(ev)
	}
	return reply, m.err
}

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	values map[string]string
	err    error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	settings := domain.DefaultAppSettings()
	settings.DataDir = "/tmp/oversight"
	return &settings, m.err
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.err != nil {
		return m.err
	}
	if m.values == nil {
		m.values = map[string]string{}
	}
	m.values[key] = value
	return nil
}

func (m *mockSettingsService) Unset(key string) error {
	if m.err != nil {
		return m.err
	}
	delete(m.values, key)
	return nil
}

func (m *mockSettingsService) Keys() []string {
	return []string{"api.base_url", "session.store"}
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// staticTokenSource returns a fixed token.
type staticTokenSource struct {
	token *oauth2.Token
	err   error
}

func (s staticTokenSource) Token() (*oauth2.Token, error) {
	return s.token, s.err
}

// testServices bundles the mocks injected by setupTestServices.
type testServices struct {
	session     *mockSessionService
	workspace   *mockWorkspaceService
	integration *mockIntegrationService
	chat        *mockChatService
	settings    *mockSettingsService
}

func setupTestServices(t *testing.T) *testServices {
	t.Helper()

	ts := &testServices{
		session: &mockSessionService{
			user: &domain.User{
				Email:        "ada@example.com",
				FullName:     "Ada Lovelace",
				Role:         domain.Role{DisplayName: "Owner"},
				Organization: domain.Organization{Name: "Analytical Engines"},
			},
			loginURL: "https://accounts.example.com/o/oauth2/auth",
		},
		workspace:   &mockWorkspaceService{},
		integration: &mockIntegrationService{},
		chat:        &mockChatService{},
		settings:    &mockSettingsService{},
	}
	SetServices(&Services{
		Session:     ts.session,
		Workspace:   ts.workspace,
		Integration: ts.integration,
		Chat:        ts.chat,
		Settings:    ts.settings,
		TokenSource: func(context.Context) oauth2.TokenSource {
			return staticTokenSource{token: &oauth2.Token{AccessToken: "access-123"}}
		},
	})
	t.Cleanup(func() { SetServices(nil) })
	return ts
}

// run executes the root command with args and returns its combined output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
		resetFlags()
	})

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

// resetFlags restores flag variables, which cobra keeps between executions.
func resetFlags() {
	flagVerbose, flagAPIURL, flagConfigDir, flagNoConfig = false, "", "", false
	authLoginNoBrowser, authLoginPort, authLoginTimeout = false, 0, 5*time.Minute
	listPage, listPageSize, listSearch = 1, 20, ""
	appsAll, disconnectOK = false, false
	connectProvider, connectCallbackPort = domain.DefaultIdentityProvider, 0
	connectNoBrowser, connectTimeout = false, 5*time.Minute
	syncFull, historyConnection, historyLimit = false, 0, 20
	chatQuiet = false
	_ = mcpServeCmd.Flags().Set("port", "0")
}
