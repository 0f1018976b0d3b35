package conf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, 12*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, "studio-media", cfg.Storage.Bucket)
	assert.Equal(t, "site", cfg.Storage.Prefix)
	assert.Equal(t, 10, cfg.Storage.MaxUploadMB)
	assert.Equal(t, "https://dev.to/api", cfg.Blog.FeedBaseURL)
	assert.False(t, cfg.Storage.Enabled())
	assert.Zero(t, cfg.Maintenance.SweepInterval)
	assert.Equal(t, 4, cfg.Seed.Workers)
	assert.EqualValues(t, 10<<20, cfg.Storage.MaxUploadBytes())
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  port: 9090
auth:
  jwt_secret: from-file
  session_ttl: 2h
storage:
  endpoint: localhost:9000
  access_key_id: studio
  secret_access_key: studio-secret
  public_base_url: https://cdn.example.com/media
blog:
  username: ana
maintenance:
  sweep_interval: 30m
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("STUDIO_AUTH_JWT_SECRET", "from-env")
	t.Setenv("STUDIO_SITE_BOOKING_FORM_URL", "https://forms.example.com/book")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, "https://forms.example.com/book", cfg.Site.BookingFormURL)
	assert.Equal(t, "localhost:9000", cfg.Storage.Endpoint)
	assert.True(t, cfg.Storage.Enabled())
	assert.Equal(t, "ana", cfg.Blog.Username)
	assert.Equal(t, 30*time.Minute, cfg.Maintenance.SweepInterval)
}

func TestLoadConfigRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o600))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestProblems(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	problems := cfg.Problems()
	assert.Contains(t, problems, "auth.jwt_secret is empty: sign-in is disabled")
	assert.Contains(t, problems, "storage is not configured: uploads are disabled")

	cfg.Auth.JWTSecret = "s"
	assert.NotContains(t, cfg.Problems(), "auth.jwt_secret is empty: sign-in is disabled")
}
