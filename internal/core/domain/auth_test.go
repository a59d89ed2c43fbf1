package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_DisplayName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", (&User{Email: "ada@example.com", FullName: "Ada Lovelace"}).DisplayName())
	assert.Equal(t, "ada@example.com", (&User{Email: "ada@example.com"}).DisplayName())
}

func TestAuthSuccess_DecodesEmbeddedTokens(t *testing.T) {
	raw := `{
		"access_token": "a1",
		"refresh_token": "r1",
		"token_type": "bearer",
		"expires_in": 900,
		"is_new_user": true,
		"user": {"id": 7, "email": "ada@example.com", "role": {"name": "admin"}, "organization": {"slug": "acme"}}
	}`

	var got AuthSuccess
	require.NoError(t, json.Unmarshal([]byte(raw), &got))

	assert.Equal(t, "a1", got.AccessToken)
	assert.Equal(t, "r1", got.RefreshToken)
	assert.Equal(t, 900, got.ExpiresIn)
	assert.True(t, got.IsNewUser)
	assert.Equal(t, int64(7), got.User.ID)
	assert.Equal(t, "acme", got.User.Organization.Slug)
}

func TestTokenResponse_NullRefreshToken(t *testing.T) {
	var got TokenResponse
	require.NoError(t, json.Unmarshal([]byte(`{"access_token":"a2","refresh_token":null,"token_type":"bearer","expires_in":60}`), &got))

	assert.Equal(t, "a2", got.AccessToken)
	assert.Empty(t, got.RefreshToken)
}
