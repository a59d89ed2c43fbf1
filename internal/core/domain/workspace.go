package domain

import (
	"strings"
	"time"
)

// WorkspaceStats summarises the synced workspace.
type WorkspaceStats struct {
	TotalUsers           int        `json:"total_users"`
	TotalGroups          int        `json:"total_groups"`
	TotalApps            int        `json:"total_apps"`
	ActiveAuthorizations int        `json:"active_authorizations"`
	LastSyncAt           *time.Time `json:"last_sync_at"`
}

// WorkspaceUser is a user row in the workspace users list.
type WorkspaceUser struct {
	ID                  int64  `json:"id"`
	Email               string `json:"email"`
	FullName            string `json:"full_name,omitempty"`
	AvatarURL           string `json:"avatar_url,omitempty"`
	IsAdmin             bool   `json:"is_admin"`
	IsDelegatedAdmin    bool   `json:"is_delegated_admin"`
	Status              string `json:"status"`
	AuthorizedAppsCount int    `json:"authorized_apps_count"`
}

// WorkspaceGroup is a group row in the workspace groups list.
type WorkspaceGroup struct {
	ID                 int64  `json:"id"`
	Email              string `json:"email"`
	Name               string `json:"name"`
	Description        string `json:"description,omitempty"`
	DirectMembersCount int    `json:"direct_members_count"`
}

// DiscoveredApp is a third-party OAuth app found during sync.
type DiscoveredApp struct {
	ID                   int64     `json:"id"`
	DisplayName          string    `json:"display_name,omitempty"`
	ClientID             string    `json:"client_id"`
	ClientType           string    `json:"client_type,omitempty"`
	Status               string    `json:"status"`
	FirstSeenAt          time.Time `json:"first_seen_at"`
	LastSeenAt           time.Time `json:"last_seen_at"`
	ScopesCount          int       `json:"scopes_count"`
	AuthorizedUsersCount int       `json:"authorized_users_count"`
}

// Name returns the display name, falling back to the client ID.
func (a DiscoveredApp) Name() string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	return a.ClientID
}

// UserAppAuthorization is an app grant seen from the user side.
type UserAppAuthorization struct {
	AppID        int64     `json:"app_id"`
	AppName      string    `json:"app_name,omitempty"`
	ClientID     string    `json:"client_id"`
	Scopes       []string  `json:"scopes"`
	AuthorizedAt time.Time `json:"authorized_at"`
	Status       string    `json:"status"`
}

// UserDetail is a workspace user with their app authorizations.
type UserDetail struct {
	ID             int64                  `json:"id"`
	Email          string                 `json:"email"`
	FullName       string                 `json:"full_name,omitempty"`
	AvatarURL      string                 `json:"avatar_url,omitempty"`
	IsAdmin        bool                   `json:"is_admin"`
	Status         string                 `json:"status"`
	OrgUnitPath    string                 `json:"org_unit_path,omitempty"`
	Authorizations []UserAppAuthorization `json:"authorizations"`
}

// AppAuthorizationUser is an app grant seen from the app side.
type AppAuthorizationUser struct {
	UserID       int64     `json:"user_id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name,omitempty"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	Scopes       []string  `json:"scopes"`
	AuthorizedAt time.Time `json:"authorized_at"`
	Status       string    `json:"status"`
}

// AppDetail is a discovered app with every user that authorized it.
type AppDetail struct {
	ID             int64                  `json:"id"`
	DisplayName    string                 `json:"display_name,omitempty"`
	ClientID       string                 `json:"client_id"`
	ClientType     string                 `json:"client_type,omitempty"`
	Status         string                 `json:"status"`
	AllScopes      []string               `json:"all_scopes"`
	FirstSeenAt    time.Time              `json:"first_seen_at"`
	LastSeenAt     time.Time              `json:"last_seen_at"`
	Authorizations []AppAuthorizationUser `json:"authorizations"`
}

// Name returns the display name, falling back to the client ID.
func (a AppDetail) Name() string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	return a.ClientID
}

// GroupMember is a member of a workspace group.
type GroupMember struct {
	UserID    int64  `json:"user_id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Role      string `json:"role"`
}

// GroupDetail is a workspace group with its members.
type GroupDetail struct {
	ID                 int64         `json:"id"`
	Email              string        `json:"email"`
	Name               string        `json:"name"`
	Description        string        `json:"description,omitempty"`
	DirectMembersCount int           `json:"direct_members_count"`
	Members            []GroupMember `json:"members"`
}

// WorkspaceConnection is the connection summary shown in workspace settings.
type WorkspaceConnection struct {
	ConnectionID        int64      `json:"connection_id"`
	Status              string     `json:"status"`
	AdminEmail          string     `json:"admin_email,omitempty"`
	WorkspaceDomain     string     `json:"workspace_domain,omitempty"`
	LastSyncCompletedAt *time.Time `json:"last_sync_completed_at"`
	LastSyncStatus      string     `json:"last_sync_status,omitempty"`
}

// ConnectionSettings reports the workspace connection and sync availability.
type ConnectionSettings struct {
	Connection *WorkspaceConnection `json:"connection"`
	CanSync    bool                 `json:"can_sync"`
	IsSyncing  bool                 `json:"is_syncing"`
}

// TimelineEvent is an entry in a discovered app's history.
type TimelineEvent struct {
	ID             int64          `json:"id"`
	EventType      string         `json:"event_type"`
	EventTime      time.Time      `json:"event_time"`
	ActorEmail     string         `json:"actor_email,omitempty"`
	ActorName      string         `json:"actor_name,omitempty"`
	ActorAvatarURL string         `json:"actor_avatar_url,omitempty"`
	RawData        map[string]any `json:"raw_data,omitempty"`
}

// Label returns a human-readable label for the event type.
func (e TimelineEvent) Label() string {
	switch strings.ToLower(e.EventType) {
	case "authorize", "grant":
		return "Access Granted"
	case "revoke":
		return "Access Revoked"
	case "risk_change":
		return "Risk Score Changed"
	case "suspicious_activity":
		return "Suspicious Activity"
	default:
		return strings.ReplaceAll(e.EventType, "_", " ")
	}
}
