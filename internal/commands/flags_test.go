package commands

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")

	assert.Equal(t, filepath.Join("/tmp/cfg", "catalog", "config.yaml"), DefaultConfigPath())
	assert.Equal(t, filepath.Join("/tmp/data", "catalog"), DefaultDataDir())
}

func TestDefaultPaths_HomeFallback(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("HOME", "/home/tester")

	assert.Equal(t, "/home/tester/.config/catalog/config.yaml", DefaultConfigPath())
	assert.Equal(t, "/home/tester/.local/share/catalog", DefaultDataDir())
}
