// Package config loads runtime configuration for the namecard CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. NAMECARD_* environment variables (e.g. NAMECARD_API_KEY).
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-k string     API key of the hosted project
//	-p string     project id
//	-b string     storage bucket
//	-d string     path of the local SQLite database
//	-l string     log level (debug, info, warn, error)
//	-s string     blob storage backend (hosted, s3)
//	-t duration   per-request timeout (0 disables)
//
// # JSON schema
//
// Durations are strings like "30s" or integer nanoseconds:
//
//	{
//	  "api_key": "AIza...",
//	  "project_id": "namecard-demo",
//	  "storage_bucket": "namecard-demo.appspot.com",
//	  "request_timeout": "30s",
//	  "storage_backend": "s3",
//	  "s3_endpoint": "http://127.0.0.1:9000",
//	  "s3_bucket": "namecards"
//	}
package config
