package session

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/oversight-cli/internal/core/domain"
	"github.com/custodia-labs/oversight-cli/internal/logger"
)

// current returns the cached pair, loading it from the store on first use.
func (c *Client) current(ctx context.Context) *domain.CredentialPair {
	// Fast path: check cache with read lock
	c.mu.RLock()
	if c.loaded {
		pair := c.pair
		c.mu.RUnlock()
		return pair
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if c.loaded {
		return c.pair
	}

	pair, err := c.store.Load(ctx)
	if err != nil {
		logger.From(ctx).Warn("session: loading stored credentials failed", "error", err)
		pair = nil
	}
	if pair != nil && pair.Validate() != nil {
		pair = nil
	}
	if pair != nil && pair.Expiry.IsZero() {
		pair.Expiry = tokenExpiry(pair.AccessToken)
	}
	c.pair = pair
	c.loaded = true
	return c.pair
}

// Reload drops the cached pair so the next request reads the store again.
// Used when another process changed the stored credentials.
func (c *Client) Reload() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pair = nil
	c.loaded = false
}

// Credentials returns a copy of the current pair, or nil when signed out.
func (c *Client) Credentials(ctx context.Context) (*domain.CredentialPair, error) {
	pair := c.current(ctx)
	if pair == nil {
		return nil, nil
	}
	cp := *pair
	return &cp, nil
}

// SetCredentials stores a new pair. The access token is required; the
// refresh token may be empty when the server keeps it in a cookie.
func (c *Client) SetCredentials(ctx context.Context, accessToken, refreshToken string) error {
	return c.save(ctx, domain.CredentialPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		Expiry:       tokenExpiry(accessToken),
	})
}

// StoreTokens stores a token response. Expiry comes from expires_in, or
// from the token's exp claim when the response omits it.
func (c *Client) StoreTokens(ctx context.Context, tokens domain.TokenResponse) error {
	pair := domain.CredentialPair{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		TokenType:    tokens.TokenType,
	}
	if tokens.ExpiresIn > 0 {
		pair.Expiry = time.Now().Add(time.Duration(tokens.ExpiresIn) * time.Second)
	} else {
		pair.Expiry = tokenExpiry(tokens.AccessToken)
	}
	return c.save(ctx, pair)
}

func (c *Client) save(ctx context.Context, pair domain.CredentialPair) error {
	if err := pair.Validate(); err != nil {
		return fmt.Errorf("access token is required: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Save(ctx, pair); err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}
	c.pair = &pair
	c.loaded = true
	return nil
}

// ClearCredentials discards the pair. Later requests carry no bearer header.
func (c *Client) ClearCredentials(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pair = nil
	c.loaded = true
	if err := c.store.Clear(ctx); err != nil {
		return fmt.Errorf("clearing credentials: %w", err)
	}
	return nil
}
