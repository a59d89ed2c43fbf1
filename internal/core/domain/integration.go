package domain

import "time"

// DefaultIdentityProvider is the provider slug used when none is given.
const DefaultIdentityProvider = "google-workspace"

// Connection is an identity provider connection of the organization.
type Connection struct {
	ID                   int64      `json:"id"`
	OrganizationID       int64      `json:"organization_id"`
	IdentityProviderID   int64      `json:"identity_provider_id"`
	IdentityProviderSlug string     `json:"identity_provider_slug"`
	IdentityProviderName string     `json:"identity_provider_name"`
	Status               string     `json:"status"`
	AdminEmail           string     `json:"admin_email,omitempty"`
	WorkspaceDomain      string     `json:"workspace_domain,omitempty"`
	LastSyncCompletedAt  *time.Time `json:"last_sync_completed_at"`
	LastSyncStatus       string     `json:"last_sync_status,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}

// SyncStats counts what a sync run found.
type SyncStats struct {
	UsersSynced         int `json:"users_synced"`
	GroupsSynced        int `json:"groups_synced"`
	AppsDiscovered      int `json:"apps_discovered"`
	AuthorizationsFound int `json:"authorizations_found"`
}

// SyncResult is returned when a sync completes.
type SyncResult struct {
	ConnectionID int64     `json:"connection_id"`
	Status       string    `json:"status"`
	Stats        SyncStats `json:"sync_stats"`
	StartedAt    time.Time `json:"started_at"`
	CompletedAt  time.Time `json:"completed_at"`
}

// Duration returns how long the sync took on the server.
func (r SyncResult) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.CompletedAt.IsZero() {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}

// SyncRecord is a locally recorded sync run.
type SyncRecord struct {
	ID           int64
	ConnectionID int64
	FullSync     bool
	Status       string
	Stats        SyncStats
	// Error is set when the sync call failed.
	Error       string
	RequestedAt time.Time
	StartedAt   time.Time
	CompletedAt time.Time
}
