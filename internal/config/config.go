// Package config holds the renditions settings: where originals live, which
// renditions are created by default, how JPEGs are encoded and where the
// rendition index is kept.
//
// Settings come from Default, optionally overlaid by a JSON file and then by
// IMAGES_* environment variables, and are checked with Validate.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"

	"github.com/stuartaccent/images/internal/env"
	"github.com/stuartaccent/images/internal/filter"
)

// Environment variables read by ApplyEnv.
const (
	EnvMediaRoot             = "IMAGES_MEDIA_ROOT"
	EnvClearRenditionsOnSave = "IMAGES_CLEAR_RENDITIONS_ON_SAVE"
	EnvDefaultFilterSpecs    = "IMAGES_DEFAULT_FILTER_SPECS"
	EnvJPGQuality            = "IMAGES_JPG_QUALITY"
	EnvThumbnailFilterSpec   = "IMAGES_THUMBNAIL_FILTER_SPEC"
	EnvAllowedExtensions     = "IMAGES_ALLOWED_FILE_EXTENSIONS"
	EnvLogLevel              = "IMAGES_LOG_LEVEL"
	EnvRedisAddr             = "IMAGES_REDIS_ADDR"
	EnvRedisPassword         = "IMAGES_REDIS_PW"
	EnvRedisDB               = "IMAGES_REDIS_DB"
	EnvRedisEnabled          = "IMAGES_REDIS_ENABLED"
)

// Config holds the application configuration
type Config struct {
	// MediaRoot is the directory originals are read from and renditions
	// written under.
	MediaRoot string `json:"media_root" validate:"required"`

	// ClearRenditionsOnSave deletes existing renditions before the default
	// renditions of an image are regenerated.
	ClearRenditionsOnSave bool `json:"clear_renditions_on_save"`

	// DefaultFilterSpecs are rendered for every saved image, together with
	// the thumbnail spec.
	DefaultFilterSpecs []string `json:"default_filter_specs" validate:"dive,required"`

	// JPGQuality is used for JPEG output when a spec sets no jpegquality.
	JPGQuality int `json:"jpg_quality" validate:"min=1,max=100"`

	// AllowedFileExtensions lists the upload extensions, lower case with
	// the leading dot.
	AllowedFileExtensions []string `json:"allowed_file_extensions" validate:"required,dive,startswith=.,lowercase"`

	// ThumbnailFilterSpec replaces the "thumbnail" alias. Empty disables it.
	ThumbnailFilterSpec string `json:"thumbnail_filter_spec"`

	LogLevel string `json:"log_level" validate:"oneof=debug info warn error"`

	Redis RedisConfig `json:"redis"`
}

// RedisConfig holds the connection settings of the rendition index.
type RedisConfig struct {
	Enabled  bool   `json:"enabled"`
	Addr     string `json:"addr" validate:"required_if=Enabled true"`
	Password string `json:"password"`
	DB       int    `json:"db" validate:"min=0"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		MediaRoot:             "./media",
		ClearRenditionsOnSave: true,
		DefaultFilterSpecs:    []string{"original"},
		JPGQuality:            filter.DefaultJPEGQuality,
		AllowedFileExtensions: []string{".jpeg", ".jpg", ".png", ".gif"},
		ThumbnailFilterSpec:   "width-100",
		LogLevel:              "info",
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
	}
}

// LoadFromFile loads configuration from a JSON file. Keys missing from the
// file keep their default values.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Load builds the effective configuration: defaults, then the JSON file at
// filename if it is not empty, then environment overrides. The result is
// validated.
func Load(filename string) (*Config, error) {
	config := Default()
	if filename != "" {
		var err error
		if config, err = LoadFromFile(filename); err != nil {
			return nil, err
		}
	}

	config.ApplyEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides settings from IMAGES_* environment variables that are
// set.
func (c *Config) ApplyEnv() {
	c.MediaRoot = env.GetString(EnvMediaRoot, c.MediaRoot)
	c.ClearRenditionsOnSave = env.GetBool(EnvClearRenditionsOnSave, c.ClearRenditionsOnSave)
	c.DefaultFilterSpecs = env.GetStrings(EnvDefaultFilterSpecs, c.DefaultFilterSpecs)
	c.JPGQuality = env.GetInt(EnvJPGQuality, c.JPGQuality)
	c.ThumbnailFilterSpec = env.GetString(EnvThumbnailFilterSpec, c.ThumbnailFilterSpec)
	c.AllowedFileExtensions = env.GetStrings(EnvAllowedExtensions, c.AllowedFileExtensions)
	c.LogLevel = env.GetString(EnvLogLevel, c.LogLevel)

	c.Redis.Addr = env.GetString(EnvRedisAddr, c.Redis.Addr)
	c.Redis.Password = env.GetString(EnvRedisPassword, c.Redis.Password)
	c.Redis.DB = env.GetInt(EnvRedisDB, c.Redis.DB)
	c.Redis.Enabled = env.GetBool(EnvRedisEnabled, c.Redis.Enabled)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and that every configured filter spec
// parses.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if c.ThumbnailFilterSpec != "" {
		if _, err := filter.Parse(c.ThumbnailFilterSpec, ""); err != nil {
			return fmt.Errorf("invalid config: thumbnail_filter_spec: %w", err)
		}
	}

	for _, spec := range c.DefaultFilterSpecs {
		if _, err := filter.Parse(spec, c.ThumbnailFilterSpec); err != nil {
			return fmt.Errorf("invalid config: default_filter_specs: %w", err)
		}
	}

	return nil
}

// FilterOptions returns the options filters are created with.
func (c *Config) FilterOptions() filter.Options {
	return filter.Options{
		ThumbnailSpec: c.ThumbnailFilterSpec,
		JPEGQuality:   c.JPGQuality,
	}
}
