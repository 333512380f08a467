package main

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stuartaccent/images/internal/config"
	"github.com/stuartaccent/images/internal/imaging"
)

func TestNewLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		if _, err := newLogger(level); err != nil {
			t.Errorf("newLogger(%q): %v", level, err)
		}
	}
	if _, err := newLogger("loud"); err == nil {
		t.Error("newLogger should reject unknown levels")
	}
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.png")

	f, err := os.Create(src)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, image.NewGray(image.Rect(0, 0, 200, 100))); err != nil {
		t.Fatal(err)
	}
	f.Close()

	out := filepath.Join(dir, "out.png")
	if err := render(config.Default(), []string{src, "fill-40x40", out, "150", "50", "20", "20"}); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	info, err := imaging.LoadImageInfo(out)
	if err != nil {
		t.Fatalf("output unreadable: %v", err)
	}
	if info.Width != 40 || info.Height != 40 {
		t.Errorf("output: got %dx%d, want 40x40", info.Width, info.Height)
	}
}

func TestRender_BadArguments(t *testing.T) {
	cfg := config.Default()

	tests := [][]string{
		{"only-source"},
		{"a.png", "original", "b.png", "1", "2"},
		{"a.png", "original", "b.png", "1", "2", "3", "-4"},
		{"a.png", "original", "b.png", "x", "2", "3", "4"},
	}
	for _, args := range tests {
		if err := render(cfg, args); err == nil {
			t.Errorf("render(%v) should fail", args)
		}
	}
}

func TestWriteConfig(t *testing.T) {
	cfg := config.Default()
	cfg.JPGQuality = 70
	cfg.DefaultFilterSpecs = []string{"original", "fill-80x80"}

	path := filepath.Join(t.TempDir(), "renditions.json")
	if err := writeConfig(cfg, []string{path}); err != nil {
		t.Fatalf("writeConfig failed: %v", err)
	}

	loaded, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.JPGQuality != 70 || len(loaded.DefaultFilterSpecs) != 2 || loaded.DefaultFilterSpecs[1] != "fill-80x80" {
		t.Errorf("round trip: got %+v", loaded)
	}

	if err := writeConfig(cfg, nil); err == nil {
		t.Error("writeConfig should require a file argument")
	}
}
