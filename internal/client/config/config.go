package config

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/namecard/internal/client/blob"
	"github.com/dmitrijs2005/namecard/internal/client/client"
)

const (
	StorageHosted = "hosted"
	StorageS3     = "s3"
)

// Config holds runtime settings for the namecard CLI. The env tags are
// read with the NAMECARD_ prefix.
type Config struct {
	APIKey        string `env:"API_KEY"`
	ProjectID     string `env:"PROJECT_ID"`
	StorageBucket string `env:"STORAGE_BUCKET"`
	OAuthClientID string `env:"OAUTH_CLIENT_ID"`
	ShareBaseURL  string `env:"SHARE_BASE_URL"`

	IdentityURL  string `env:"IDENTITY_URL"`
	TokenURL     string `env:"TOKEN_URL"`
	FirestoreURL string `env:"FIRESTORE_URL"`
	StorageURL   string `env:"STORAGE_URL"`

	DatabasePath      string `env:"DB_PATH"`
	SessionPassphrase string `env:"SESSION_PASSPHRASE"`

	StorageBackend string        `env:"STORAGE_BACKEND"`
	S3Endpoint     string        `env:"S3_ENDPOINT"`
	S3Region       string        `env:"S3_REGION"`
	S3Bucket       string        `env:"S3_BUCKET"`
	S3AccessKey    string        `env:"S3_ACCESS_KEY"`
	S3SecretKey    string        `env:"S3_SECRET_KEY"`
	S3URLExpiry    time.Duration `env:"S3_URL_EXPIRY"`

	LogLevel       string        `env:"LOG_LEVEL"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// LoadDefaults populates c with defaults that talk to the production
// service endpoints.
func (c *Config) LoadDefaults() {
	d := client.DefaultEndpoints()
	c.IdentityURL = d.IdentityURL
	c.TokenURL = d.TokenURL
	c.FirestoreURL = d.FirestoreURL
	c.StorageURL = d.StorageURL
	c.ShareBaseURL = "http://localhost:3000"
	c.DatabasePath = "namecard.db"
	c.StorageBackend = StorageHosted
	c.S3Region = "us-east-1"
	c.S3URLExpiry = 7 * 24 * time.Hour
	c.LogLevel = "info"
	c.RequestTimeout = 30 * time.Second
}

// Load builds a Config from defaults, then the JSON file named by -c/-config,
// then NAMECARD_* environment variables, then flags. Later sources win.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.StorageBackend {
	case StorageHosted, StorageS3:
	default:
		return fmt.Errorf("config: unknown storage backend %q", c.StorageBackend)
	}
	if c.StorageBackend == StorageS3 && c.S3Bucket == "" {
		return fmt.Errorf("config: s3 storage backend needs s3_bucket")
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("config: request timeout must not be negative")
	}
	return nil
}

func (c *Config) Endpoints() client.Endpoints {
	e := client.DefaultEndpoints()
	e.APIKey = c.APIKey
	e.ProjectID = c.ProjectID
	e.StorageBucket = c.StorageBucket
	e.OAuthClientID = c.OAuthClientID
	e.ShareBaseURL = c.ShareBaseURL
	e.IdentityURL = c.IdentityURL
	e.TokenURL = c.TokenURL
	e.FirestoreURL = c.FirestoreURL
	e.StorageURL = c.StorageURL
	e.Timeout = c.RequestTimeout
	return e
}

func (c *Config) S3() blob.S3Config {
	return blob.S3Config{
		Endpoint:  c.S3Endpoint,
		Region:    c.S3Region,
		Bucket:    c.S3Bucket,
		AccessKey: c.S3AccessKey,
		SecretKey: c.S3SecretKey,
		URLExpiry: c.S3URLExpiry,
	}
}
