package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roman-kulish/satlink-analyzer/internal/analysis"
	"github.com/roman-kulish/satlink-analyzer/internal/render"
)

const (
	defaultLogLevel      = "info"
	defaultDataDirectory = "data"
	defaultDatabase      = "satlink.sqlite"
)

// Config represents the main application configuration
type Config struct {
	Settings Settings        `yaml:"settings"`
	Analysis analysis.Config `yaml:"analysis"`
	Storage  StorageConfig   `yaml:"storage"`
	Render   RenderConfig    `yaml:"render"`
}

// Settings represents global application settings
type Settings struct {
	LogLevel string `yaml:"logLevel"`
}

// StorageConfig represents storage settings
type StorageConfig struct {
	DataDirectory string `yaml:"dataDirectory"`
	Database      string `yaml:"database"`
}

// RenderConfig represents plot settings
type RenderConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Format string `yaml:"format"`
	View   string `yaml:"view"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Settings: Settings{LogLevel: defaultLogLevel},
		Analysis: analysis.DefaultConfig(),
		Storage: StorageConfig{
			DataDirectory: defaultDataDirectory,
			Database:      defaultDatabase,
		},
		Render: RenderConfig{
			Format: string(render.FormatPNG),
			View:   string(render.ViewGlobal),
		},
	}
}

// LoadConfig reads the YAML configuration at path over the defaults. Unknown keys
// are rejected. An empty path returns the defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err = dec.Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	if err = config.Validate(); err != nil {
		return nil, fmt.Errorf("validating %s: %w", path, err)
	}
	return config, nil
}

// Validate checks every section of the configuration.
func (c *Config) Validate() error {
	if _, err := c.Settings.Level(); err != nil {
		return err
	}
	if err := c.Analysis.Validate(); err != nil {
		return err
	}
	if c.Storage.Database == "" {
		return errors.New("storage.database must not be empty")
	}
	if c.Render.Width < 0 || c.Render.Height < 0 {
		return fmt.Errorf("render size %dx%d must not be negative", c.Render.Width, c.Render.Height)
	}
	if _, err := render.ParseFormat(c.Render.Format); err != nil {
		return fmt.Errorf("render.format: %w", err)
	}
	if _, err := render.ParseView(c.Render.View); err != nil {
		return fmt.Errorf("render.view: %w", err)
	}
	return nil
}

// Level parses the configured log level; empty means info.
func (s Settings) Level() (slog.Level, error) {
	var level slog.Level
	if s.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return 0, fmt.Errorf("settings.logLevel: %w", err)
	}
	return level, nil
}

// DatabasePath returns the path of the run database. A relative database name
// is placed inside the data directory.
func (c StorageConfig) DatabasePath() string {
	if filepath.IsAbs(c.Database) || c.DataDirectory == "" {
		return c.Database
	}
	return filepath.Join(c.DataDirectory, c.Database)
}
