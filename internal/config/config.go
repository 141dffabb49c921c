// Package config loads editor settings from defaults, an optional config
// file, a .env file and SIGNAGE_ environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ConfigName is the base name of the config file (json or yaml).
const ConfigName = "signage"

// DB holds store settings.
type DB struct {
	Path  string `mapstructure:"path"`
	Debug bool   `mapstructure:"debug"`
}

// Realtime holds change-feed settings. An empty URL disables the feed.
type Realtime struct {
	URL   string `mapstructure:"url"`
	Token string `mapstructure:"token"`
}

// Editor holds canvas and session settings.
type Editor struct {
	FloorPlanID   string        `mapstructure:"floorPlanId"`
	GridSpacing   int           `mapstructure:"gridSpacing"`
	ShowGrid      bool          `mapstructure:"showGrid"`
	HistoryLimit  int           `mapstructure:"historyLimit"`
	FrameInterval time.Duration `mapstructure:"frameInterval"`
	ImageDir      string        `mapstructure:"imageDir"`
}

// Config is the typed view of all settings.
type Config struct {
	LogLevel string   `mapstructure:"logLevel"`
	DB       DB       `mapstructure:"db"`
	Realtime Realtime `mapstructure:"realtime"`
	Editor   Editor   `mapstructure:"editor"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")

	v.SetDefault("db.path", "./signage.db")
	v.SetDefault("db.debug", false)

	v.SetDefault("realtime.url", "")
	v.SetDefault("realtime.token", "")

	v.SetDefault("editor.floorPlanId", "")
	v.SetDefault("editor.gridSpacing", 50)
	v.SetDefault("editor.showGrid", true)
	v.SetDefault("editor.historyLimit", 50)
	v.SetDefault("editor.frameInterval", "16ms")
	v.SetDefault("editor.imageDir", ".")
}

// Load reads configuration. configDir is searched for signage.json or
// signage.yaml, followed by the user config directory. A missing file is
// not an error; a malformed one is.
func Load(configDir string) (*Config, error) {
	envFile := filepath.Join(configDir, ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName(ConfigName)
	v.AddConfigPath(configDir)
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "signage-planner"))
	}

	v.SetEnvPrefix("SIGNAGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the editor cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.DB.Path == "" {
		errs = append(errs, errors.New("db.path must not be empty"))
	}
	if c.Editor.GridSpacing <= 0 {
		errs = append(errs, fmt.Errorf("editor.gridSpacing must be positive, got %d", c.Editor.GridSpacing))
	}
	if c.Editor.HistoryLimit <= 0 {
		errs = append(errs, fmt.Errorf("editor.historyLimit must be positive, got %d", c.Editor.HistoryLimit))
	}
	if c.Editor.FrameInterval < 0 {
		errs = append(errs, fmt.Errorf("editor.frameInterval must not be negative, got %s", c.Editor.FrameInterval))
	}
	return errors.Join(errs...)
}

// ImagePath resolves a floor-plan image reference against the image dir.
func (c *Config) ImagePath(ref string) string {
	if ref == "" || filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(c.Editor.ImageDir, ref)
}
