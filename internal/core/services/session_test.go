package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/oversight-cli/internal/core/domain"
)

func notSignedIn() error {
	return &domain.Failure{Kind: domain.FailureNotSignedIn, StatusCode: 401, Message: domain.MessageNotSignedIn}
}

func TestSessionService_Bootstrap_SignedIn(t *testing.T) {
	auth := &mockAuthAPI{user: &domain.User{ID: 1, Email: "ada@example.com"}}
	service := NewSessionService(auth, &mockSession{})

	user, err := service.Bootstrap(context.Background())

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.True(t, service.IsAuthenticated())
	assert.Equal(t, "ada@example.com", service.CurrentUser().Email)
}

func TestSessionService_Bootstrap_NotSignedIn(t *testing.T) {
	session := &mockSession{pair: &domain.CredentialPair{AccessToken: "a1"}}
	service := NewSessionService(&mockAuthAPI{meErr: notSignedIn()}, session)

	user, err := service.Bootstrap(context.Background())

	require.NoError(t, err)
	assert.Nil(t, user)
	assert.False(t, service.IsAuthenticated())
	assert.Zero(t, session.cleared, "identity check must not clear credentials")
}

func TestSessionService_Bootstrap_OtherErrors(t *testing.T) {
	netErr := &domain.Failure{Kind: domain.FailureNetwork, Message: domain.MessageNetwork}
	service := NewSessionService(&mockAuthAPI{meErr: netErr}, &mockSession{})

	_, err := service.Bootstrap(context.Background())

	assert.ErrorIs(t, err, domain.ErrNetwork)
}

func TestSessionService_Login(t *testing.T) {
	auth := &mockAuthAPI{
		authURL: &domain.AuthURL{AuthorizationURL: "https://accounts.google.com/auth", State: "st-1"},
		success: &domain.AuthSuccess{
			TokenResponse: domain.TokenResponse{AccessToken: "a1", RefreshToken: "r1", ExpiresIn: 900},
			User:          domain.User{ID: 1, Email: "ada@example.com"},
		},
	}
	session := &mockSession{}
	service := NewSessionService(auth, session)
	ctx := context.Background()

	login, err := service.BeginLogin(ctx, "http://localhost:8085/callback")
	require.NoError(t, err)
	assert.Equal(t, "https://accounts.google.com/auth", login.AuthorizationURL)
	assert.Equal(t, "st-1", login.State)

	user, err := service.CompleteLogin(ctx, "code-1", "st-1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "code-1", auth.callbackCode)
	require.NotNil(t, session.stored)
	assert.Equal(t, "a1", session.stored.AccessToken)
	assert.Equal(t, 900, session.stored.ExpiresIn)
	assert.True(t, service.IsAuthenticated())
}

func TestSessionService_CompleteLogin_StateMismatch(t *testing.T) {
	auth := &mockAuthAPI{authURL: &domain.AuthURL{AuthorizationURL: "https://x", State: "expected"}}
	service := NewSessionService(auth, &mockSession{})
	ctx := context.Background()

	_, err := service.BeginLogin(ctx, "http://localhost/callback")
	require.NoError(t, err)

	_, err = service.CompleteLogin(ctx, "code", "forged")
	assert.ErrorIs(t, err, ErrStateMismatch)
	assert.Empty(t, auth.callbackCode)
}

func TestSessionService_CompleteLogin_CookieSession(t *testing.T) {
	auth := &mockAuthAPI{success: &domain.AuthSuccess{User: domain.User{ID: 2, Email: "bob@example.com"}}}
	session := &mockSession{pair: &domain.CredentialPair{AccessToken: "stale"}}
	service := NewSessionService(auth, session)

	user, err := service.CompleteLogin(context.Background(), "code", "")

	require.NoError(t, err)
	assert.Equal(t, int64(2), user.ID)
	assert.Nil(t, session.stored)
	assert.Equal(t, 1, session.cleared)
	assert.Nil(t, session.pair)
}

func TestSessionService_CompleteLogin_Validation(t *testing.T) {
	service := NewSessionService(&mockAuthAPI{}, &mockSession{})

	_, err := service.CompleteLogin(context.Background(), "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = service.BeginLogin(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSessionService_Logout_IgnoresServerError(t *testing.T) {
	auth := &mockAuthAPI{logoutErr: errors.New("server down")}
	session := &mockSession{pair: &domain.CredentialPair{AccessToken: "a1", RefreshToken: "r1"}}
	service := NewSessionService(auth, session)
	service.setUser(&domain.User{ID: 1})

	err := service.Logout(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "r1", auth.loggedOutWith)
	assert.Equal(t, 1, session.cleared)
	assert.False(t, service.IsAuthenticated())
}

func TestSessionService_InvalidatedEventSignsOut(t *testing.T) {
	session := &mockSession{}
	service := NewSessionService(&mockAuthAPI{}, session)
	service.setUser(&domain.User{ID: 1})

	var reasons []error
	service.OnSignedOut(func(reason error) { reasons = append(reasons, reason) })

	cause := errors.New("refresh rejected")
	session.emit(domain.SessionEvent{Type: domain.SessionRefreshed})
	assert.True(t, service.IsAuthenticated())
	assert.Empty(t, reasons)

	session.emit(domain.SessionEvent{Type: domain.SessionInvalidated, Reason: cause})
	assert.False(t, service.IsAuthenticated())
	require.Len(t, reasons, 1)
	assert.Equal(t, cause, reasons[0])
}
