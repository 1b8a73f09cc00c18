package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), dataDir)
	require.NoError(t, err)

	want := DefaultConfig()
	want.DataDir = dataDir
	assert.Equal(t, want, *cfg)
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("", "/data")
	require.NoError(t, err)
	assert.Equal(t, "/data", cfg.DataDir)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://catalog.example.com/bp
  timeout: 3s
catalog:
  page_sizes: [25, 50]
notifications:
  durations:
    error: 12s
tui:
  theme: gruvbox
`)

	cfg, err := Load(path, "/data")
	require.NoError(t, err)

	assert.Equal(t, "https://catalog.example.com/bp", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, "catalog", cfg.API.UserAgent)
	assert.Equal(t, []int{25, 50}, cfg.Catalog.PageSizes)
	assert.Equal(t, 25, cfg.Catalog.DefaultPageSize, "default falls back to the first page size")
	assert.Equal(t, PolicyFailOpen, cfg.Catalog.UniqueIDPolicy)
	assert.Equal(t, 12*time.Second, cfg.Notifications.Durations.Error)
	assert.Equal(t, 5*time.Second, cfg.Notifications.Durations.Success)
	assert.Equal(t, "gruvbox", cfg.TUI.Theme)
	assert.Equal(t, "/data", cfg.DataDir)
}

func TestLoad_DataDirNotReadFromFile(t *testing.T) {
	path := writeConfig(t, "DataDir: /elsewhere\n")

	cfg, err := Load(path, "/data")
	require.NoError(t, err)
	assert.Equal(t, "/data", cfg.DataDir)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "malformed yaml",
			body:    "api: [",
			wantErr: "parse config file",
		},
		{
			name:    "bad policy",
			body:    "catalog:\n  unique_id_policy: maybe\n",
			wantErr: "unique_id_policy",
		},
		{
			name:    "default page size not offered",
			body:    "catalog:\n  page_sizes: [5, 10]\n  default_page_size: 7\n",
			wantErr: "default_page_size",
		},
		{
			name:    "non http base url",
			body:    "api:\n  base_url: ftp://example.com\n",
			wantErr: "api.base_url",
		},
		{
			name:    "unknown theme",
			body:    "tui:\n  theme: neon\n",
			wantErr: "tui.theme",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body), t.TempDir())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLogFile(t *testing.T) {
	cfg := Config{DataDir: "/data"}
	assert.Equal(t, filepath.Join("/data", "catalog.log"), cfg.LogFile())
}

func TestRead_SkipsValidation(t *testing.T) {
	path := writeConfig(t, `
catalog:
  unique_id_policy: sometimes
`)

	cfg, err := Read(path, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "sometimes", cfg.Catalog.UniqueIDPolicy)
	assert.Contains(t, fieldNames(t, cfg.Validate()), "catalog.unique_id_policy")

	_, err = Load(path, t.TempDir())
	require.Error(t, err)
}
