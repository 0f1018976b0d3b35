package biz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("secret", "yoga-studio", time.Hour)

	token, claims, err := m.Issue("user-1", "a@studio.test")
	require.NoError(t, err)
	assert.NotEmpty(t, claims.ID)

	parsed, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", parsed.UserID)
	assert.Equal(t, claims.ID, parsed.ID)

	_, second, err := m.Issue("user-1", "a@studio.test")
	require.NoError(t, err)
	assert.NotEqual(t, claims.ID, second.ID)
}

func TestTokenRejections(t *testing.T) {
	m := NewTokenManager("secret", "yoga-studio", time.Hour)
	token, _, err := m.Issue("user-1", "a@studio.test")
	require.NoError(t, err)

	_, err = NewTokenManager("other", "yoga-studio", time.Hour).Parse(token)
	assert.Error(t, err, "wrong secret")

	_, err = NewTokenManager("secret", "someone-else", time.Hour).Parse(token)
	assert.Error(t, err, "wrong issuer")

	late := NewTokenManager("secret", "yoga-studio", time.Hour)
	late.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = late.Parse(token)
	assert.Error(t, err, "expired")

	_, err = m.Parse("not.a.token")
	assert.Error(t, err)

	disabled := NewTokenManager("", "yoga-studio", time.Hour)
	assert.False(t, disabled.Enabled())
	_, _, err = disabled.Issue("user-1", "a@studio.test")
	assert.Error(t, err)
}

func TestExtractBearer(t *testing.T) {
	token, ok := ExtractBearer("Bearer abc.def")
	assert.True(t, ok)
	assert.Equal(t, "abc.def", token)

	_, ok = ExtractBearer("Basic xyz")
	assert.False(t, ok)
	_, ok = ExtractBearer("Bearer ")
	assert.False(t, ok)
}
