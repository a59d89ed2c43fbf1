package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/custodia-labs/oversight-cli/internal/core/domain"
	"github.com/custodia-labs/oversight-cli/internal/core/ports/driven"
	"github.com/custodia-labs/oversight-cli/internal/core/ports/driving"
	"github.com/custodia-labs/oversight-cli/internal/logger"
)

// Ensure SessionService implements the interface.
var _ driving.SessionService = (*SessionService)(nil)

// ErrStateMismatch is returned when the callback state differs from the
// state issued by BeginLogin.
var ErrStateMismatch = errors.New("oauth state mismatch")

// SessionService tracks the signed-in user on top of the session client.
type SessionService struct {
	auth    driven.AuthAPI
	session driven.Session

	mu        sync.RWMutex
	user      *domain.User
	state     string
	onSignOut []func(reason error)
}

// NewSessionService creates a session service and subscribes it to the
// session's lifecycle events.
func NewSessionService(auth driven.AuthAPI, session driven.Session) *SessionService {
	s := &SessionService{
		auth:    auth,
		session: session,
	}
	session.Subscribe(s.handleEvent)
	return s
}

// Bootstrap runs the identity check.
func (s *SessionService) Bootstrap(ctx context.Context) (*domain.User, error) {
	user, err := s.auth.Me(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotSignedIn) {
			s.setUser(nil)
			return nil, nil
		}
		return nil, err
	}
	s.setUser(user)
	return user, nil
}

// BeginLogin asks the backend for the Google authorization URL.
func (s *SessionService) BeginLogin(ctx context.Context, redirectURI string) (*driving.LoginRequest, error) {
	if redirectURI == "" {
		return nil, fmt.Errorf("redirect URI is required: %w", domain.ErrInvalidInput)
	}

	authURL, err := s.auth.GoogleAuthURL(ctx, redirectURI)
	if err != nil {
		return nil, fmt.Errorf("get authorization url: %w", err)
	}

	s.mu.Lock()
	s.state = authURL.State
	s.mu.Unlock()

	return &driving.LoginRequest{AuthorizationURL: authURL.AuthorizationURL, State: authURL.State}, nil
}

// CompleteLogin exchanges the callback code and stores the returned tokens.
// When the backend answers without tokens it manages the session with
// cookies, so any stale local pair is dropped.
func (s *SessionService) CompleteLogin(ctx context.Context, code, state string) (*domain.User, error) {
	if code == "" {
		return nil, fmt.Errorf("authorization code is required: %w", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	expected := s.state
	s.state = ""
	s.mu.Unlock()
	if expected != "" && state != expected {
		return nil, ErrStateMismatch
	}

	success, err := s.auth.OAuthCallback(ctx, code, state)
	if err != nil {
		return nil, fmt.Errorf("complete sign-in: %w", err)
	}

	if success.AccessToken != "" {
		if err := s.session.StoreTokens(ctx, success.TokenResponse); err != nil {
			return nil, fmt.Errorf("store credentials: %w", err)
		}
	} else if err := s.session.ClearCredentials(ctx); err != nil {
		return nil, fmt.Errorf("clear credentials: %w", err)
	}

	user := success.User
	s.setUser(&user)
	logger.Debug("Signed in as %s", logger.RedactEmail(user.Email))
	return &user, nil
}

// Logout revokes the session on the server, best effort, and always clears
// local state.
func (s *SessionService) Logout(ctx context.Context) error {
	var refreshToken string
	if pair, err := s.session.Credentials(ctx); err == nil && pair != nil {
		refreshToken = pair.RefreshToken
	}

	if err := s.auth.Logout(ctx, refreshToken); err != nil {
		logger.Debug("Server logout failed: %v", err)
	}

	s.setUser(nil)
	if err := s.session.ClearCredentials(ctx); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

// CurrentUser returns the signed-in user, or nil.
func (s *SessionService) CurrentUser() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// IsAuthenticated returns true if a user is signed in.
func (s *SessionService) IsAuthenticated() bool {
	return s.CurrentUser() != nil
}

// OnSignedOut registers fn to run when the session is invalidated.
func (s *SessionService) OnSignedOut(fn func(reason error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSignOut = append(s.onSignOut, fn)
}

func (s *SessionService) handleEvent(ev domain.SessionEvent) {
	if ev.Type != domain.SessionInvalidated {
		return
	}

	s.mu.Lock()
	s.user = nil
	hooks := append([]func(error){}, s.onSignOut...)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn(ev.Reason)
	}
}

func (s *SessionService) setUser(user *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
}
