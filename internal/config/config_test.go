package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8090", cfg.Server.Addr)
	assert.Equal(t, "data/guest-registry.db", cfg.Database.Path)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout())
	assert.Equal(t, "daily", cfg.Sync.DefaultFrequency)
	assert.Equal(t, 20.0, cfg.Housekeeping.DefaultPay)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9000"
database:
  path: `+filepath.Join(dir, "db", "app.db")+`
sync:
  request_timeout_seconds: 30
housekeeping:
  default_pay: 35
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout())
	assert.Equal(t, 35.0, cfg.Housekeeping.DefaultPay)
	assert.DirExists(t, filepath.Join(dir, "db"))
}

func TestLoad_EnvExpansion(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("APP_ADDR", ":7070")

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: "${APP_ADDR}"
database:
  path: `+filepath.Join(dir, "app.db")+`
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)
}
