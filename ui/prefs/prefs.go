// Package prefs stores per-user editor preferences in a JSON file.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

const prefsFile = "preferences.json"

// Keys used by the editor.
const (
	KeyShowGrid      = "canvas.showGrid"
	KeyGridSpacing   = "canvas.gridSpacing"
	KeyShowLabels    = "canvas.showLabels"
	KeyLastFloorPlan = "session.lastFloorPlan"
	KeyWindowWidth   = "window.width"
	KeyWindowHeight  = "window.height"
)

// Prefs stores preferences as a key-value map.
type Prefs struct {
	mu     sync.RWMutex
	values map[string]interface{}
	path   string
}

// Load reads preferences from the user config directory. Missing or
// unreadable files yield empty preferences.
func Load() *Prefs {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return LoadFrom(filepath.Join(configDir, "signage-planner"))
}

// LoadFrom reads preferences from dir/preferences.json.
func LoadFrom(dir string) *Prefs {
	p := &Prefs{
		values: make(map[string]interface{}),
		path:   filepath.Join(dir, prefsFile),
	}
	data, err := os.ReadFile(p.path)
	if err != nil {
		return p
	}
	_ = json.Unmarshal(data, &p.values)
	return p
}

// Path returns the preferences file location.
func (p *Prefs) Path() string {
	return p.path
}

// Save writes preferences to disk.
func (p *Prefs) Save() error {
	p.mu.RLock()
	data, err := json.MarshalIndent(p.values, "", "  ")
	p.mu.RUnlock()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p.path, data, 0o644)
}

// Float returns a float64 preference, or fallback if not set.
func (p *Prefs) Float(key string, fallback float64) float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	switch n := p.values[key].(type) {
	case float64:
		return n
	case int:
		return float64(n)
	}
	return fallback
}

// SetFloat stores a float64 preference.
func (p *Prefs) SetFloat(key string, val float64) {
	p.set(key, val)
}

// String returns a string preference, or "" if not set.
func (p *Prefs) String(key string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s, _ := p.values[key].(string)
	return s
}

// SetString stores a string preference.
func (p *Prefs) SetString(key string, val string) {
	p.set(key, val)
}

// Bool returns a bool preference, or fallback if not set.
func (p *Prefs) Bool(key string, fallback bool) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if b, ok := p.values[key].(bool); ok {
		return b
	}
	return fallback
}

// SetBool stores a bool preference.
func (p *Prefs) SetBool(key string, val bool) {
	p.set(key, val)
}

func (p *Prefs) set(key string, val interface{}) {
	p.mu.Lock()
	p.values[key] = val
	p.mu.Unlock()
}

// Canvas holds the display settings remembered between sessions.
type Canvas struct {
	ShowGrid    bool
	GridSpacing float64
	ShowLabels  bool
}

// Canvas returns the stored canvas settings, falling back to defaults.
func (p *Prefs) Canvas(defaults Canvas) Canvas {
	c := Canvas{
		ShowGrid:    p.Bool(KeyShowGrid, defaults.ShowGrid),
		GridSpacing: p.Float(KeyGridSpacing, defaults.GridSpacing),
		ShowLabels:  p.Bool(KeyShowLabels, defaults.ShowLabels),
	}
	if c.GridSpacing <= 0 {
		c.GridSpacing = defaults.GridSpacing
	}
	return c
}

// SetCanvas stores canvas settings.
func (p *Prefs) SetCanvas(c Canvas) {
	p.SetBool(KeyShowGrid, c.ShowGrid)
	p.SetFloat(KeyGridSpacing, c.GridSpacing)
	p.SetBool(KeyShowLabels, c.ShowLabels)
}
