package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comixd/comixd/config"
)

func TestLoad_Defaults(t *testing.T) {
	// Load with no config files should use defaults
	cfg, err := config.Load(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 31257, cfg.Server.Port)
	assert.Equal(t, 8192, cfg.Server.ChunkSize)
	assert.False(t, cfg.Server.Debug)
	assert.Equal(t, "/manga", cfg.Library.Root)
	assert.Contains(t, cfg.Library.HiddenNames, "@eaDir")
	assert.Contains(t, cfg.Library.HiddenNames, "Thumbs.db")
	assert.Contains(t, cfg.Library.ImageExts, "jpg")
	assert.Contains(t, cfg.Library.ArchiveExts, "cbz")
	assert.Equal(t, []string{"euc-kr", "shift_jis", "windows-1252"}, cfg.Encoding.Candidates)
	assert.Empty(t, cfg.Auth.Password)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_ConfigFile(t *testing.T) {
	// Create a temp config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  host: 127.0.0.1
  port: 8080
  chunk_size: 65536
  debug: true
library:
  root: /srv/comics
  hidden_names:
    - .git
  image_exts:
    - jpg
    - webp
  archive_exts:
    - zip
  banner: home server
encoding:
  candidates:
    - shift_jis
auth:
  password: hunter2
log:
  level: debug
`
	err := os.WriteFile(configPath, []byte(configContent), 0o644)
	require.NoError(t, err)

	cfg, err := config.Load([]string{configPath}, nil)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 65536, cfg.Server.ChunkSize)
	assert.True(t, cfg.Server.Debug)
	assert.Equal(t, "/srv/comics", cfg.Library.Root)
	assert.Equal(t, []string{".git"}, cfg.Library.HiddenNames)
	assert.Equal(t, []string{"jpg", "webp"}, cfg.Library.ImageExts)
	assert.Equal(t, []string{"zip"}, cfg.Library.ArchiveExts)
	assert.Equal(t, "home server", cfg.Library.Banner)
	assert.Equal(t, []string{"shift_jis"}, cfg.Encoding.Candidates)
	assert.Equal(t, "hunter2", cfg.Auth.Password)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_ConfigFileMerge(t *testing.T) {
	tmpDir := t.TempDir()

	// Base config
	basePath := filepath.Join(tmpDir, "base.yaml")
	baseContent := `
server:
  port: 31257
library:
  root: /srv/comics
  banner: base
log:
  level: info
`
	err := os.WriteFile(basePath, []byte(baseContent), 0o644)
	require.NoError(t, err)

	// Override config
	overridePath := filepath.Join(tmpDir, "override.yaml")
	overrideContent := `
server:
  port: 9000
auth:
  password: secret
`
	err = os.WriteFile(overridePath, []byte(overrideContent), 0o644)
	require.NoError(t, err)

	// Load with merge (later files override earlier)
	cfg, err := config.Load([]string{basePath, overridePath}, nil)
	require.NoError(t, err)

	// Overridden values
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "secret", cfg.Auth.Password)

	// Preserved values from base
	assert.Equal(t, "/srv/comics", cfg.Library.Root)
	assert.Equal(t, "base", cfg.Library.Banner)
}

func TestLoad_ValidationError_InvalidPort(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  port: 99999
library:
  root: /srv/comics
log:
  level: info
`
	err := os.WriteFile(configPath, []byte(configContent), 0o644)
	require.NoError(t, err)

	_, err = config.Load([]string{configPath}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validate config")
}

func TestLoad_ValidationError_InvalidLogLevel(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  port: 31257
library:
  root: /srv/comics
log:
  level: verbose
`
	err := os.WriteFile(configPath, []byte(configContent), 0o644)
	require.NoError(t, err)

	_, err = config.Load([]string{configPath}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validate config")
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	// Set environment variables
	t.Setenv("COMIX_SERVER_HOST", "::1")
	t.Setenv("COMIX_SERVER_PORT", "9090")
	t.Setenv("COMIX_LIBRARY_ROOT", "/mnt/books")
	t.Setenv("COMIX_AUTH_PASSWORD", "letmein")

	cfg, err := config.Load(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "::1", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/mnt/books", cfg.Library.Root)
	assert.Equal(t, "letmein", cfg.Auth.Password)
}

func TestRules(t *testing.T) {
	cfg, err := config.Load(nil, nil)
	require.NoError(t, err)

	rules := cfg.Rules()
	assert.True(t, rules.IsImage("page.jpg"))
	assert.True(t, rules.IsArchive("volume.cbz"))
	assert.True(t, rules.IsHidden("Thumbs.db"))
	assert.False(t, rules.IsHidden("One Piece"))
}
