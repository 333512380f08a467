package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}

	if !c.ClearRenditionsOnSave {
		t.Error("ClearRenditionsOnSave: got false, want true")
	}
	if !reflect.DeepEqual(c.DefaultFilterSpecs, []string{"original"}) {
		t.Errorf("DefaultFilterSpecs: got %v", c.DefaultFilterSpecs)
	}
	if c.JPGQuality != 85 {
		t.Errorf("JPGQuality: got %d, want 85", c.JPGQuality)
	}
	if c.ThumbnailFilterSpec != "width-100" {
		t.Errorf("ThumbnailFilterSpec: got %q", c.ThumbnailFilterSpec)
	}

	opts := c.FilterOptions()
	if opts.ThumbnailSpec != "width-100" || opts.JPEGQuality != 85 {
		t.Errorf("FilterOptions: got %+v", opts)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
		errMsg string
	}{
		{"quality too high", func(c *Config) { c.JPGQuality = 101 }, "JPGQuality"},
		{"quality negative", func(c *Config) { c.JPGQuality = -1 }, "JPGQuality"},
		{"quality zero", func(c *Config) { c.JPGQuality = 0 }, "JPGQuality"},
		{"no media root", func(c *Config) { c.MediaRoot = "" }, "MediaRoot"},
		{"no extensions", func(c *Config) { c.AllowedFileExtensions = nil }, "AllowedFileExtensions"},
		{"extension without dot", func(c *Config) { c.AllowedFileExtensions = []string{"jpg"} }, "AllowedFileExtensions"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "LogLevel"},
		{"redis without addr", func(c *Config) { c.Redis.Enabled = true; c.Redis.Addr = "" }, "Addr"},
		{"empty default spec", func(c *Config) { c.DefaultFilterSpecs = []string{""} }, "DefaultFilterSpecs"},
		{"invalid default spec", func(c *Config) { c.DefaultFilterSpecs = []string{"width-abc"} }, "default_filter_specs"},
		{"invalid thumbnail spec", func(c *Config) { c.ThumbnailFilterSpec = "nope-1" }, "thumbnail_filter_spec"},
		{"thumbnail alias without spec", func(c *Config) {
			c.ThumbnailFilterSpec = ""
			c.DefaultFilterSpecs = []string{"thumbnail"}
		}, "default_filter_specs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.modify(c)

			err := c.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("error %q should mention %q", err, tt.errMsg)
			}
		})
	}
}

func TestValidate_Accepts(t *testing.T) {
	c := Default()
	c.JPGQuality = 1
	c.ThumbnailFilterSpec = ""
	c.DefaultFilterSpecs = []string{"original", "fill-100x100-c50|format-png"}
	c.Redis.Enabled = true

	if err := c.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"jpg_quality": 60, "default_filter_specs": ["width-200", "thumbnail"]}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if c.JPGQuality != 60 {
		t.Errorf("JPGQuality: got %d, want 60", c.JPGQuality)
	}
	if !reflect.DeepEqual(c.DefaultFilterSpecs, []string{"width-200", "thumbnail"}) {
		t.Errorf("DefaultFilterSpecs: got %v", c.DefaultFilterSpecs)
	}
	// Missing keys keep their defaults.
	if c.ThumbnailFilterSpec != "width-100" || !c.ClearRenditionsOnSave {
		t.Errorf("defaults lost: %+v", c)
	}
}

func TestLoadFromFile_Errors(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected error for malformed file")
	}
}

func TestSaveToFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	c := Default()
	c.DefaultFilterSpecs = []string{"max-800x600"}
	if err := c.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile failed: %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if !reflect.DeepEqual(loaded, c) {
		t.Errorf("got %+v, want %+v", loaded, c)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvClearRenditionsOnSave, "false")
	t.Setenv(EnvDefaultFilterSpecs, "original, width-400")
	t.Setenv(EnvJPGQuality, "70")
	t.Setenv(EnvThumbnailFilterSpec, "fill-50x50")
	t.Setenv(EnvRedisEnabled, "true")
	t.Setenv(EnvRedisDB, "2")

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if c.ClearRenditionsOnSave {
		t.Error("ClearRenditionsOnSave: got true, want false")
	}
	if !reflect.DeepEqual(c.DefaultFilterSpecs, []string{"original", "width-400"}) {
		t.Errorf("DefaultFilterSpecs: got %v", c.DefaultFilterSpecs)
	}
	if c.JPGQuality != 70 {
		t.Errorf("JPGQuality: got %d, want 70", c.JPGQuality)
	}
	if c.ThumbnailFilterSpec != "fill-50x50" {
		t.Errorf("ThumbnailFilterSpec: got %q", c.ThumbnailFilterSpec)
	}
	if !c.Redis.Enabled || c.Redis.DB != 2 {
		t.Errorf("Redis: got %+v", c.Redis)
	}
}

func TestLoad_EmptyThumbnailFromEnv(t *testing.T) {
	t.Setenv(EnvThumbnailFilterSpec, "")

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.ThumbnailFilterSpec != "" {
		t.Errorf("ThumbnailFilterSpec: got %q, want empty", c.ThumbnailFilterSpec)
	}
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv(EnvJPGQuality, "150")

	if _, err := Load(""); err == nil {
		t.Error("expected validation error")
	}
}
