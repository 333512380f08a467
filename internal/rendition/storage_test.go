package rendition

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readAll(t *testing.T, s Storage, name string) string {
	t.Helper()
	rc, err := s.Open(name)
	if err != nil {
		t.Fatalf("Open(%q) failed: %v", name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	return string(data)
}

func TestFileSystem_SaveOpenDelete(t *testing.T) {
	root := t.TempDir()
	fs := NewFileSystem(root)

	name, err := fs.Save("images_renditions/photo.original.png", strings.NewReader("first"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if name != "images_renditions/photo.original.png" {
		t.Errorf("name: got %q", name)
	}
	if _, err := os.Stat(filepath.Join(root, "images_renditions", "photo.original.png")); err != nil {
		t.Errorf("file not written: %v", err)
	}

	second, err := fs.Save("images_renditions/photo.original.png", strings.NewReader("second"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if second != "images_renditions/photo.original_1.png" {
		t.Errorf("taken name: got %q, want photo.original_1.png", second)
	}

	if got := readAll(t, fs, name); got != "first" {
		t.Errorf("first file: got %q", got)
	}
	if got := readAll(t, fs, second); got != "second" {
		t.Errorf("second file: got %q", got)
	}

	if err := fs.Delete(name); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := fs.Open(name); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Open after Delete: got %v, want ErrNotExist", err)
	}
	if err := fs.Delete(name); err != nil {
		t.Errorf("deleting a missing file should not fail: %v", err)
	}
}

func TestFileSystem_PathStaysInRoot(t *testing.T) {
	root := t.TempDir()
	fs := NewFileSystem(root)

	tests := []struct {
		name string
		want string
	}{
		{"a/b.png", filepath.Join(root, "a", "b.png")},
		{"../../etc/passwd", filepath.Join(root, "etc", "passwd")},
		{"/abs/x.png", filepath.Join(root, "abs", "x.png")},
	}

	for _, tt := range tests {
		got, err := fs.Path(tt.name)
		if err != nil {
			t.Errorf("Path(%q) failed: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Path(%q): got %q, want %q", tt.name, got, tt.want)
		}
	}

	if _, err := fs.Path(".."); err == nil {
		t.Error("Path(\"..\") should fail")
	}
}
