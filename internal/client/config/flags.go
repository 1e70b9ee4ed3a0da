package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/namecard/internal/flagx"
)

var knownFlags = []string{"-k", "-p", "-b", "-d", "-l", "-s", "-t"}

// parseFlags overlays cfg with the flags it knows about; other arguments are
// filtered out with flagx.FilterArgs so they do not trip the parser.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("namecard", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIKey, "k", cfg.APIKey, "API key of the hosted project")
	fs.StringVar(&cfg.ProjectID, "p", cfg.ProjectID, "project id")
	fs.StringVar(&cfg.StorageBucket, "b", cfg.StorageBucket, "storage bucket")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the local database")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.StorageBackend, "s", cfg.StorageBackend, "blob storage backend (hosted, s3)")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "per-request timeout")

	return fs.Parse(flagx.FilterArgs(args, knownFlags))
}
