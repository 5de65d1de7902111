package config

import (
	"fmt"
	"strings"

	"synopsis/internal/services"
)

// Validate ensures the configuration is usable. Required-credential checks are
// collected so a single error names every missing field. Failures carry the
// configuration marker so callers can classify them as fatal.
func (c *Config) Validate() error {
	if err := c.validateRequired(); err != nil {
		return err
	}
	if err := c.validateSync(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateRequired() error {
	var missing []string
	if c.Plex.URL == "" {
		missing = append(missing, "plex.url")
	}
	if c.Plex.Token == "" {
		missing = append(missing, "plex.token")
	}
	if c.TMDB.APIKey == "" {
		missing = append(missing, "tmdb.api_key")
	}
	if len(missing) > 0 {
		message := fmt.Sprintf("missing required configuration: %s (set PLEX_URL, PLEX_TOKEN, and TMDB_API_KEY env vars or run 'synopsis config init')", strings.Join(missing, ", "))
		return services.Wrap(services.ErrConfiguration, "config", "validate", message, nil)
	}
	return nil
}

func (c *Config) validateSync() error {
	if c.Sync.Workers <= 0 {
		return services.Wrap(services.ErrConfiguration, "config", "validate", "sync.workers must be positive", nil)
	}
	if c.Sync.RequestTimeout <= 0 {
		return services.Wrap(services.ErrConfiguration, "config", "validate", "sync.request_timeout must be positive (seconds)", nil)
	}
	return nil
}
