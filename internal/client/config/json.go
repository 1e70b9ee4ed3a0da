package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/namecard/internal/flagx"
)

// duration accepts "3s"-style strings or integer nanoseconds.
type duration time.Duration

func (d *duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		v, err := time.ParseDuration(s)
		if err != nil {
			return err
		}
		*d = duration(v)
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("duration must be a string or integer nanoseconds: %s", b)
	}
	*d = duration(n)
	return nil
}

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent keys
// stay nil and leave the corresponding Config field alone.
type JsonConfig struct {
	APIKey        *string `json:"api_key"`
	ProjectID     *string `json:"project_id"`
	StorageBucket *string `json:"storage_bucket"`
	OAuthClientID *string `json:"oauth_client_id"`
	ShareBaseURL  *string `json:"share_base_url"`

	IdentityURL  *string `json:"identity_url"`
	TokenURL     *string `json:"token_url"`
	FirestoreURL *string `json:"firestore_url"`
	StorageURL   *string `json:"storage_url"`

	DatabasePath      *string `json:"database_path"`
	SessionPassphrase *string `json:"session_passphrase"`

	StorageBackend *string   `json:"storage_backend"`
	S3Endpoint     *string   `json:"s3_endpoint"`
	S3Region       *string   `json:"s3_region"`
	S3Bucket       *string   `json:"s3_bucket"`
	S3AccessKey    *string   `json:"s3_access_key"`
	S3SecretKey    *string   `json:"s3_secret_key"`
	S3URLExpiry    *duration `json:"s3_url_expiry"`

	LogLevel       *string   `json:"log_level"`
	RequestTimeout *duration `json:"request_timeout"`
}

// parseJSON overlays cfg with the JSON file named by -c/-config in args.
// Without such a flag it does nothing.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.APIKey, jc.APIKey)
	setString(&cfg.ProjectID, jc.ProjectID)
	setString(&cfg.StorageBucket, jc.StorageBucket)
	setString(&cfg.OAuthClientID, jc.OAuthClientID)
	setString(&cfg.ShareBaseURL, jc.ShareBaseURL)
	setString(&cfg.IdentityURL, jc.IdentityURL)
	setString(&cfg.TokenURL, jc.TokenURL)
	setString(&cfg.FirestoreURL, jc.FirestoreURL)
	setString(&cfg.StorageURL, jc.StorageURL)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.SessionPassphrase, jc.SessionPassphrase)
	setString(&cfg.StorageBackend, jc.StorageBackend)
	setString(&cfg.S3Endpoint, jc.S3Endpoint)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)
	setString(&cfg.LogLevel, jc.LogLevel)
	setDuration(&cfg.S3URLExpiry, jc.S3URLExpiry)
	setDuration(&cfg.RequestTimeout, jc.RequestTimeout)
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *duration) {
	if v != nil {
		*dst = time.Duration(*v)
	}
}
