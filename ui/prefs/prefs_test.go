package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefs_SaveAndReload(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	p := LoadFrom(dir)
	p.SetString(KeyLastFloorPlan, "fp-1")
	p.SetFloat(KeyWindowWidth, 1280)
	p.SetBool(KeyShowGrid, true)
	require.NoError(t, p.Save())

	q := LoadFrom(dir)
	assert.Equal(t, "fp-1", q.String(KeyLastFloorPlan))
	assert.Equal(t, 1280.0, q.Float(KeyWindowWidth, 0))
	assert.True(t, q.Bool(KeyShowGrid, false))
	assert.Equal(t, filepath.Join(dir, prefsFile), q.Path())
}

func TestPrefs_Fallbacks(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, prefsFile), []byte("not json"), 0o644))

	p := LoadFrom(dir)
	assert.Equal(t, "", p.String(KeyLastFloorPlan))
	assert.Equal(t, 7.0, p.Float(KeyGridSpacing, 7))
	assert.True(t, p.Bool(KeyShowLabels, true))

	p.SetString(KeyGridSpacing, "wide")
	assert.Equal(t, 7.0, p.Float(KeyGridSpacing, 7), "wrong type falls back")
}

func TestPrefs_Canvas(t *testing.T) {
	p := LoadFrom(t.TempDir())
	defaults := Canvas{ShowGrid: false, GridSpacing: 50, ShowLabels: true}
	assert.Equal(t, defaults, p.Canvas(defaults))

	p.SetCanvas(Canvas{ShowGrid: true, GridSpacing: 25})
	assert.Equal(t, Canvas{ShowGrid: true, GridSpacing: 25}, p.Canvas(defaults))

	p.SetFloat(KeyGridSpacing, -3)
	assert.Equal(t, 50.0, p.Canvas(defaults).GridSpacing)
}
