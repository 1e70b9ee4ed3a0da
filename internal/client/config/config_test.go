package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "https://identitytoolkit.googleapis.com", c.IdentityURL)
	assert.Equal(t, "https://securetoken.googleapis.com", c.TokenURL)
	assert.Equal(t, "namecard.db", c.DatabasePath)
	assert.Equal(t, StorageHosted, c.StorageBackend)
	assert.Equal(t, 30*time.Second, c.RequestTimeout)
	require.NoError(t, c.Validate())
}

func TestLoad_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"api_key": "from-json",
		"project_id": "json-project",
		"database_path": "json.db",
		"request_timeout": "5s"
	}`), 0o600))

	t.Setenv("NAMECARD_PROJECT_ID", "env-project")
	t.Setenv("NAMECARD_DB_PATH", "env.db")

	cfg, err := Load([]string{"-c", path, "-d", "flag.db", "whatever"})
	require.NoError(t, err)

	assert.Equal(t, "from-json", cfg.APIKey)
	assert.Equal(t, "env-project", cfg.ProjectID)
	assert.Equal(t, "flag.db", cfg.DatabasePath)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "info", cfg.LogLevel, "untouched fields keep defaults")
}

func TestLoad_EnvDurationAndBackend(t *testing.T) {
	t.Setenv("NAMECARD_STORAGE_BACKEND", "s3")
	t.Setenv("NAMECARD_S3_BUCKET", "namecards")
	t.Setenv("NAMECARD_S3_URL_EXPIRY", "1h")

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, StorageS3, cfg.StorageBackend)
	assert.Equal(t, time.Hour, cfg.S3().URLExpiry)
	assert.Equal(t, "namecards", cfg.S3().Bucket)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing json file", func(t *testing.T) {
		_, err := Load([]string{"-config", filepath.Join(t.TempDir(), "nope.json")})
		require.Error(t, err)
	})

	t.Run("bad env duration", func(t *testing.T) {
		t.Setenv("NAMECARD_REQUEST_TIMEOUT", "soon")
		_, err := Load(nil)
		require.ErrorContains(t, err, "parse env")
	})

	t.Run("bad flag value", func(t *testing.T) {
		_, err := Load([]string{"-t", "later"})
		require.Error(t, err)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := Load([]string{"-s", "ftp"})
		require.ErrorContains(t, err, "unknown storage backend")
	})

	t.Run("s3 without bucket", func(t *testing.T) {
		_, err := Load([]string{"-s", "s3"})
		require.ErrorContains(t, err, "s3_bucket")
	})
}

func TestConfig_Endpoints(t *testing.T) {
	var c Config
	c.LoadDefaults()
	c.APIKey = "k"
	c.ProjectID = "p"
	c.StorageBucket = "b"
	c.FirestoreURL = "http://127.0.0.1:8080"
	c.RequestTimeout = time.Second

	e := c.Endpoints()
	assert.Equal(t, "k", e.APIKey)
	assert.Equal(t, "p", e.ProjectID)
	assert.Equal(t, "b", e.StorageBucket)
	assert.Equal(t, "http://127.0.0.1:8080", e.FirestoreURL)
	assert.Equal(t, "https://accounts.google.com/o/oauth2/v2/auth", e.OAuthAuthURL)
	assert.Equal(t, time.Second, e.Timeout)
}
