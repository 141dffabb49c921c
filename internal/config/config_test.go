package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "./signage.db", cfg.DB.Path)
	assert.False(t, cfg.DB.Debug)
	assert.Equal(t, "", cfg.Realtime.URL)
	assert.Equal(t, 50, cfg.Editor.GridSpacing)
	assert.True(t, cfg.Editor.ShowGrid)
	assert.Equal(t, 50, cfg.Editor.HistoryLimit)
	assert.Equal(t, 16*time.Millisecond, cfg.Editor.FrameInterval)
	assert.Equal(t, ".", cfg.Editor.ImageDir)
	assert.Empty(t, cfg.File)
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	body := `{
		"logLevel": "debug",
		"db": { "path": "/tmp/venue.db" },
		"editor": { "gridSpacing": 25, "showGrid": false, "frameInterval": "33ms" }
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "signage.json"), []byte(body), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/venue.db", cfg.DB.Path)
	assert.Equal(t, 25, cfg.Editor.GridSpacing)
	assert.False(t, cfg.Editor.ShowGrid)
	assert.Equal(t, 33*time.Millisecond, cfg.Editor.FrameInterval)
	assert.Equal(t, filepath.Join(dir, "signage.json"), cfg.File)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("SIGNAGE_REALTIME_URL", "ws://feed.local/changes")
	t.Setenv("SIGNAGE_EDITOR_HISTORYLIMIT", "10")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "ws://feed.local/changes", cfg.Realtime.URL)
	assert.Equal(t, 10, cfg.Editor.HistoryLimit)
}

func TestLoad_DotEnv(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SIGNAGE_REALTIME_TOKEN=from-dotenv\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("SIGNAGE_REALTIME_TOKEN") })

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Realtime.Token)
}

func TestLoad_MalformedFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "signage.json"), []byte(`{"logLevel":`), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "signage.yaml"), []byte("editor:\n  gridSpacing: 0\n"), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gridSpacing")
}

func TestValidate(t *testing.T) {
	cfg := Config{DB: DB{Path: "x.db"}, Editor: Editor{GridSpacing: 10, HistoryLimit: 0}}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "historyLimit")

	cfg.Editor.HistoryLimit = 5
	assert.NoError(t, cfg.Validate())
}

func TestImagePath(t *testing.T) {
	cfg := Config{Editor: Editor{ImageDir: "/srv/plans"}}
	assert.Equal(t, "/srv/plans/hall.png", cfg.ImagePath("hall.png"))
	assert.Equal(t, "/abs/hall.png", cfg.ImagePath("/abs/hall.png"))
	assert.Equal(t, "", cfg.ImagePath(""))
}
