package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

const envPrefix = "NAMECARD_"

// parseEnv overlays cfg with the NAMECARD_* variables that are set.
func parseEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: envPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
