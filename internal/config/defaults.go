package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultTMDBBaseURL  = "https://api.themoviedb.org/3"
	defaultTMDBLanguage = "en-US"

	defaultSyncWorkers        = 10
	defaultSyncRequestTimeout = 10

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		TMDB: TMDB{
			BaseURL:  defaultTMDBBaseURL,
			Language: defaultTMDBLanguage,
		},
		Sync: Sync{
			Workers:        defaultSyncWorkers,
			RequestTimeout: defaultSyncRequestTimeout,
		},
		History: History{
			Path: defaultStatePath("history.db"),
		},
		Paths: Paths{
			LockPath: defaultStatePath("sync.lock"),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

func defaultStatePath(name string) string {
	if base, ok := os.LookupEnv("XDG_STATE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "synopsis", name)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "synopsis", name)
	}
	return filepath.Join(home, ".local", "state", "synopsis", name)
}
