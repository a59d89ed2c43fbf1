package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/oversight-cli/internal/core/domain"
	"github.com/custodia-labs/oversight-cli/internal/core/ports/driven"
)

type credentialStore struct {
	store *Store
}

var _ driven.CredentialStore = (*credentialStore)(nil)

// Load returns the stored pair, or nil if none is stored.
func (s *credentialStore) Load(ctx context.Context) (*domain.CredentialPair, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT access_token, refresh_token, token_type, expiry
		FROM session_credentials WHERE id = 1
	`)

	var pair domain.CredentialPair
	var expiry sql.NullTime
	if err := row.Scan(&pair.AccessToken, &pair.RefreshToken, &pair.TokenType, &expiry); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning credentials: %w", err)
	}
	if expiry.Valid {
		pair.Expiry = expiry.Time
	}
	return &pair, nil
}

// Save replaces the stored pair.
func (s *credentialStore) Save(ctx context.Context, pair domain.CredentialPair) error {
	if err := pair.Validate(); err != nil {
		return err
	}

	var expiry sql.NullTime
	if !pair.Expiry.IsZero() {
		expiry = sql.NullTime{Time: pair.Expiry.UTC(), Valid: true}
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO session_credentials
			(id, access_token, refresh_token, token_type, expiry, updated_at)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			token_type = excluded.token_type,
			expiry = excluded.expiry,
			updated_at = excluded.updated_at
	`, pair.AccessToken, pair.RefreshToken, pair.TokenType, expiry, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}
	return nil
}

// Clear removes the stored pair.
func (s *credentialStore) Clear(ctx context.Context) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM session_credentials"); err != nil {
		return fmt.Errorf("clearing credentials: %w", err)
	}
	return nil
}
