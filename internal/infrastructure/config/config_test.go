package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FromFileWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 8099
admin:
  token: from-file
report:
  strict_transitions: true
`), 0o600))

	t.Setenv("GORODOK_ADMIN_TOKEN", "from-env")

	cfg, err := Load("test", path)
	require.NoError(t, err)

	assert.Equal(t, 8099, cfg.Server.Port)
	assert.Equal(t, "test", cfg.Server.Mode)
	assert.Equal(t, "from-env", cfg.Admin.Token)
	assert.True(t, cfg.Report.StrictTransitions)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "file", cfg.Store.Backend)
	assert.Same(t, cfg, Get())
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load("", filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
