package api

import (
	"context"
	"net/http"

	"github.com/custodia-labs/oversight-cli/internal/core/domain"
)

// Integration endpoints, relative to the API base URL.
const (
	pathIntegrationsConnect = "/integrations/connect"
	pathIntegrations        = "/integrations"
	pathIntegrationSync     = "/integrations/%d/sync"
	pathIntegration         = "/integrations/%d"
)

type connectBody struct {
	IdentityProviderSlug string `json:"identity_provider_slug"`
}

type syncBody struct {
	ConnectionID int64 `json:"connection_id"`
	FullSync     bool  `json:"full_sync"`
}

type connectionList struct {
	Connections []domain.Connection `json:"connections"`
}

// Connect starts connecting an identity provider. An empty slug connects
// Google Workspace.
func (c *Client) Connect(ctx context.Context, providerSlug string) (*domain.AuthURL, error) {
	if providerSlug == "" {
		providerSlug = domain.DefaultIdentityProvider
	}
	return fetch[domain.AuthURL](ctx, c, &domain.Request{
		Method: http.MethodPost,
		Path:   pathIntegrationsConnect,
		Body:   connectBody{IdentityProviderSlug: providerSlug},
	})
}

// Connections lists the organization's provider connections.
func (c *Client) Connections(ctx context.Context) ([]domain.Connection, error) {
	list, err := fetch[connectionList](ctx, c, &domain.Request{Method: http.MethodGet, Path: pathIntegrations})
	if err != nil {
		return nil, err
	}
	return list.Connections, nil
}

// Sync runs a workspace sync and waits for it to complete.
func (c *Client) Sync(ctx context.Context, connectionID int64, fullSync bool) (*domain.SyncResult, error) {
	return fetch[domain.SyncResult](ctx, c, &domain.Request{
		Method:  http.MethodPost,
		Path:    idPath(pathIntegrationSync, connectionID),
		Body:    syncBody{ConnectionID: connectionID, FullSync: fullSync},
		Timeout: c.longTimeout,
	})
}

// Disconnect removes a provider connection.
func (c *Client) Disconnect(ctx context.Context, connectionID int64) error {
	return c.exec(ctx, &domain.Request{Method: http.MethodDelete, Path: idPath(pathIntegration, connectionID)})
}
