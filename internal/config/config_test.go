package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cashcanvas.yaml")
	contents := `server:
  listen: ":9090"
  allowed_origins:
    - http://localhost:3000
data:
  file: my-transactions.csv
limits:
  max_upload_bytes: 1048576
  default_page_size: 25
  max_page_size: 200
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Listen)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "my-transactions.csv", cfg.Data.File)
	assert.Equal(t, int64(1048576), cfg.Limits.MaxUploadBytes)
	assert.Equal(t, 25, cfg.Limits.DefaultPageSize)
	assert.Equal(t, 200, cfg.Limits.MaxPageSize)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cashcanvas.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: {}\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.Server.Listen, cfg.Server.Listen)
	assert.Equal(t, def.Data.File, cfg.Data.File)
	assert.Equal(t, def.Limits.MaxUploadBytes, cfg.Limits.MaxUploadBytes)
	assert.Equal(t, def.Limits.DefaultPageSize, cfg.Limits.DefaultPageSize)
	assert.Equal(t, def.Limits.MaxPageSize, cfg.Limits.MaxPageSize)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cashcanvas.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cashcanvas.yaml")

	cfg := Default()
	cfg.Server.Listen = ":7070"
	cfg.Data.File = "ledger.csv"
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ":8080", cfg.Server.Listen)
	assert.Equal(t, "transactions.csv", cfg.Data.File)
	assert.Equal(t, int64(10*1024*1024), cfg.Limits.MaxUploadBytes)
	assert.Equal(t, 100, cfg.Limits.DefaultPageSize)
	assert.Equal(t, 1000, cfg.Limits.MaxPageSize)
}
