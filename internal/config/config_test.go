package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yml"))
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.DBPath)
	assert.Equal(t, 30*time.Second, cfg.SyncInterval)
	assert.Empty(t, cfg.Remote.URL)
}

func TestSaveLoad_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yml")

	want := &Config{
		DBPath:       "/tmp/notes.db",
		SyncInterval: 5 * time.Second,
		LogFile:      "/tmp/watch.log",
		Remote: RemoteConfig{
			URL:    "https://example.supabase.co/rest/v1",
			APIKey: "key",
			UserID: "me@example.com",
		},
	}
	require.NoError(t, want.Save(path))
	assert.True(t, ConfigExists(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoad_NormalizesBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("db_path: \"\"\nsync_interval: -5\n"), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.DBPath)
	assert.Equal(t, 30*time.Second, cfg.SyncInterval)
}

func TestLoad_ExpandsHomePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("db_path: ~/notes/notes.db\n"), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "notes", "notes.db"), cfg.DBPath)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0600))

	_, err := Load(path)
	require.Error(t, err)
}
