package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePlex(); err != nil {
		return err
	}
	c.normalizeTMDB()
	if err := c.normalizeSync(); err != nil {
		return err
	}
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePlex() error {
	c.Plex.URL = strings.TrimSpace(c.Plex.URL)
	if c.Plex.URL == "" {
		if value, ok := os.LookupEnv("PLEX_URL"); ok {
			c.Plex.URL = strings.TrimSpace(value)
		}
	}
	c.Plex.URL = strings.TrimRight(c.Plex.URL, "/")

	c.Plex.Token = strings.TrimSpace(c.Plex.Token)
	if c.Plex.Token == "" {
		if value, ok := os.LookupEnv("PLEX_TOKEN"); ok {
			c.Plex.Token = strings.TrimSpace(value)
		}
	}
	return nil
}

func (c *Config) normalizeTMDB() {
	c.TMDB.APIKey = strings.TrimSpace(c.TMDB.APIKey)
	if c.TMDB.APIKey == "" {
		if value, ok := os.LookupEnv("TMDB_API_KEY"); ok {
			c.TMDB.APIKey = strings.TrimSpace(value)
		}
	}
	c.TMDB.BaseURL = strings.TrimSpace(c.TMDB.BaseURL)
	if c.TMDB.BaseURL == "" {
		if value, ok := os.LookupEnv("TMDB_BASE_URL"); ok {
			c.TMDB.BaseURL = strings.TrimSpace(value)
		}
	}
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = defaultTMDBBaseURL
	}
	c.TMDB.BaseURL = strings.TrimRight(c.TMDB.BaseURL, "/")
	c.TMDB.Language = strings.TrimSpace(c.TMDB.Language)
}

func (c *Config) normalizeSync() error {
	if value, ok := os.LookupEnv("SYNOPSIS_WORKERS"); ok {
		workers, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("SYNOPSIS_WORKERS: %w", err)
		}
		c.Sync.Workers = workers
	}
	if c.Sync.Workers == 0 {
		c.Sync.Workers = defaultSyncWorkers
	}
	if value, ok := os.LookupEnv("SYNOPSIS_VERIFY_TLS"); ok {
		verify, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("SYNOPSIS_VERIFY_TLS: %w", err)
		}
		c.Sync.VerifyTLS = verify
	}
	if c.Sync.RequestTimeout == 0 {
		c.Sync.RequestTimeout = defaultSyncRequestTimeout
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) != "" {
		if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
			return fmt.Errorf("paths.log_dir: %w", err)
		}
	}
	if strings.TrimSpace(c.Paths.LockPath) == "" {
		c.Paths.LockPath = defaultStatePath("sync.lock")
	}
	if c.Paths.LockPath, err = expandPath(c.Paths.LockPath); err != nil {
		return fmt.Errorf("paths.lock_path: %w", err)
	}
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = defaultStatePath("history.db")
	}
	if c.History.Path, err = expandPath(c.History.Path); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
