// Package testsupport provides shared helpers for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"synopsis/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a validated config seeded with placeholder credentials
// and unique temp paths per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Plex.URL = "http://plex.local:32400"
	cfg.Plex.Token = "test-token"
	cfg.TMDB.APIKey = "test-key"
	cfg.Paths.LockPath = filepath.Join(base, "sync.lock")
	cfg.History.Path = filepath.Join(base, "history.db")

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}

// WithPlex points the config at a specific Plex server, usually an httptest
// instance.
func WithPlex(url, token string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Plex.URL = url
		cfg.Plex.Token = token
	}
}

// WithTMDB points the config at a specific TMDB endpoint.
func WithTMDB(apiKey, baseURL string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.TMDB.APIKey = apiKey
		cfg.TMDB.BaseURL = baseURL
	}
}

// WithWorkers overrides the pool size.
func WithWorkers(workers int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Sync.Workers = workers
	}
}
