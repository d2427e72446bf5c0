package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allConfigKeys lists every env var that Load() reads.
var allConfigKeys = []string{
	"REVIEWSYNC_GITHUB_TOKEN",
	"REVIEWSYNC_GITHUB_APIURL",
	"REVIEWSYNC_OUTPUT_DIR",
	"REVIEWSYNC_OUTPUT_HTML",
	"REVIEWSYNC_HISTORY_DB",
	"REVIEWSYNC_LOG_LEVEL",
	"GITHUB_TOKEN",
	"GH_TOKEN",
}

// isolateConfigEnv saves and unsets all config env vars so tests don't
// inherit values from the host environment. HOME points at an empty temp dir
// so no default config file is picked up.
func isolateConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range allConfigKeys {
		if orig, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, orig) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
	t.Setenv("HOME", t.TempDir())
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	isolateConfigEnv(t)

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, DefaultOutputDir, cfg.Output.Dir)
	assert.False(t, cfg.Output.HTML)
	assert.Empty(t, cfg.GitHub.Token)
	assert.Empty(t, cfg.GitHub.APIURL)
	assert.False(t, cfg.HistoryEnabled())
	assert.False(t, cfg.HasGitHubToken())
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoad_File(t *testing.T) {
	isolateConfigEnv(t)
	path := writeConfig(t, t.TempDir(), `
[github]
token = "ghp_file"
apiurl = "https://ghe.example.com/api/v3/"

[output]
dir = "/srv/reviews"
html = true

[history]
db = "/var/lib/reviewsync/history.db"

[log]
level = "debug"
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "ghp_file", cfg.GitHub.Token)
	assert.Equal(t, "https://ghe.example.com/api/v3/", cfg.GitHub.APIURL)
	assert.Equal(t, "/srv/reviews", cfg.Output.Dir)
	assert.True(t, cfg.Output.HTML)
	assert.Equal(t, "/var/lib/reviewsync/history.db", cfg.History.DB)
	assert.True(t, cfg.HistoryEnabled())
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoad_DefaultPathUsedWhenPresent(t *testing.T) {
	isolateConfigEnv(t)
	dir := filepath.Join(os.Getenv("HOME"), ".config", "reviewsync")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	writeConfig(t, dir, "[output]\ndir = \"/from/home\"\n")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "/from/home", cfg.Output.Dir)
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	isolateConfigEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config file")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolateConfigEnv(t)
	path := writeConfig(t, t.TempDir(), "[output]\ndir = \"/from/file\"\nhtml = false\n")
	t.Setenv("REVIEWSYNC_OUTPUT_DIR", "/from/env")
	t.Setenv("REVIEWSYNC_OUTPUT_HTML", "true")
	t.Setenv("REVIEWSYNC_LOG_LEVEL", "warn")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.Output.Dir)
	assert.True(t, cfg.Output.HTML)
	assert.Equal(t, slog.LevelWarn, cfg.SlogLevel())
}

func TestLoad_TokenFallback(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "prefixed wins",
			env:  map[string]string{"REVIEWSYNC_GITHUB_TOKEN": "a", "GITHUB_TOKEN": "b", "GH_TOKEN": "c"},
			want: "a",
		},
		{
			name: "GITHUB_TOKEN before GH_TOKEN",
			env:  map[string]string{"GITHUB_TOKEN": "b", "GH_TOKEN": "c"},
			want: "b",
		},
		{
			name: "GH_TOKEN last",
			env:  map[string]string{"GH_TOKEN": "c"},
			want: "c",
		},
		{
			name: "none",
			env:  map[string]string{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateConfigEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load("")

			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.GitHub.Token)
		})
	}
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("REVIEWSYNC_LOG_LEVEL", "verbose")

	_, err := Load("")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
	assert.Contains(t, err.Error(), "verbose")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseLevel("loud")
	assert.ErrorIs(t, err, errInvalidLevel)
}
