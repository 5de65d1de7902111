package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// clearSyncEnv unsets every environment fallback so host settings cannot
// leak into a test. t.Setenv registers the restore; Unsetenv removes the
// placeholder value.
func clearSyncEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PLEX_URL", "PLEX_TOKEN",
		"TMDB_API_KEY", "TMDB_BASE_URL",
		"SYNOPSIS_WORKERS", "SYNOPSIS_VERIFY_TLS",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

type testConfigParams struct {
	plexURL        string
	tmdbURL        string
	historyEnabled bool
}

func writeTestConfig(t *testing.T, params testConfigParams) string {
	t.Helper()
	base := t.TempDir()
	content := fmt.Sprintf(`[plex]
url = %q
token = "test-token"

[tmdb]
api_key = "test-key"
base_url = %q

[sync]
workers = 2

[history]
enabled = %t
path = %q

[paths]
lock_path = %q

[logging]
level = "error"
`,
		params.plexURL,
		params.tmdbURL,
		params.historyEnabled,
		filepath.Join(base, "history.db"),
		filepath.Join(base, "sync.lock"),
	)

	path := filepath.Join(base, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
