package driven

import (
	"context"

	"github.com/custodia-labs/oversight-cli/internal/core/domain"
)

// AuthAPI is the backend authentication surface.
type AuthAPI interface {
	// GoogleAuthURL returns the provider URL that starts sign-in.
	GoogleAuthURL(ctx context.Context, redirectURI string) (*domain.AuthURL, error)

	// OAuthCallback exchanges the provider code for a session.
	OAuthCallback(ctx context.Context, code, state string) (*domain.AuthSuccess, error)

	// Me performs the identity check.
	Me(ctx context.Context) (*domain.User, error)

	// Logout revokes the refresh token on the server.
	Logout(ctx context.Context, refreshToken string) error
}

// WorkspaceAPI reads the synced workspace.
type WorkspaceAPI interface {
	Stats(ctx context.Context) (*domain.WorkspaceStats, error)
	Users(ctx context.Context, params domain.ListParams) (*domain.Page[domain.WorkspaceUser], error)
	User(ctx context.Context, id int64) (*domain.UserDetail, error)
	Groups(ctx context.Context, params domain.ListParams) (*domain.Page[domain.WorkspaceGroup], error)
	Group(ctx context.Context, id int64) (*domain.GroupDetail, error)
	Apps(ctx context.Context, params domain.ListParams) (*domain.Page[domain.DiscoveredApp], error)
	App(ctx context.Context, id int64) (*domain.AppDetail, error)
	AppTimeline(ctx context.Context, id int64, params domain.ListParams) (*domain.Page[domain.TimelineEvent], error)
	ConnectionSettings(ctx context.Context) (*domain.ConnectionSettings, error)
	DisconnectWorkspace(ctx context.Context) error
}

// IntegrationAPI manages identity provider connections.
type IntegrationAPI interface {
	// Connect starts a provider connection and returns its authorization URL.
	Connect(ctx context.Context, providerSlug string) (*domain.AuthURL, error)
	Connections(ctx context.Context) ([]domain.Connection, error)
	Sync(ctx context.Context, connectionID int64, fullSync bool) (*domain.SyncResult, error)
	Disconnect(ctx context.Context, connectionID int64) error
}

// ChatAPI streams assistant replies.
type ChatAPI interface {
	// Chat sends message and calls fn for every streamed event, in order.
	Chat(ctx context.Context, message string, fn func(domain.ChatEvent) error) error
}
