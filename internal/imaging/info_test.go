package imaging

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

// createTestImage writes a PNG of the given size into a temp dir and returns
// its path.
func createTestImage(t *testing.T, name string, width, height int, c color.Color) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, encodePNG(t, createInMemoryImage(width, height, c)), 0o644); err != nil {
		t.Fatalf("failed to write test image: %v", err)
	}
	return path
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"png", encodePNG(t, createInMemoryImage(2, 2, color.White)), "png"},
		{"jpeg", encodeJPEG(t, createInMemoryImage(2, 2, color.White)), "jpeg"},
		{"gif", encodeGIF(t, 1), "gif"},
		{"text", []byte("hello world"), ""},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFormat(tt.data); got != tt.want {
				t.Errorf("DetectFormat: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadImageInfo(t *testing.T) {
	path := createTestImage(t, "photo.png", 120, 80, color.NRGBA{0, 0, 0, 255})

	info, err := LoadImageInfo(path)
	if err != nil {
		t.Fatalf("LoadImageInfo failed: %v", err)
	}

	if info.Width != 120 || info.Height != 80 {
		t.Errorf("size: got %dx%d, want 120x80", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("Format: got %q, want png", info.Format)
	}
	if info.MimeType != "image/png" {
		t.Errorf("MimeType: got %q, want image/png", info.MimeType)
	}
	if info.Animated {
		t.Error("Animated: got true, want false")
	}

	st, _ := os.Stat(path)
	if info.FileSizeBytes != st.Size() {
		t.Errorf("FileSizeBytes: got %d, want %d", info.FileSizeBytes, st.Size())
	}
}

func TestLoadImageInfo_SniffsContent(t *testing.T) {
	path := createTestImage(t, "really-a-png.jpg", 10, 10, color.White)

	info, err := LoadImageInfo(path)
	if err != nil {
		t.Fatalf("LoadImageInfo failed: %v", err)
	}
	if info.Format != "png" {
		t.Errorf("Format: got %q, want png", info.Format)
	}
}

func TestLoadImageInfo_Errors(t *testing.T) {
	if _, err := LoadImageInfo(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "notes.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadImageInfo(path); err == nil {
		t.Error("expected error for non-image file")
	}
}

func TestGetDimensions(t *testing.T) {
	dims, err := GetDimensions(encodeGIF(t, 2))
	if err != nil {
		t.Fatalf("GetDimensions failed: %v", err)
	}
	if dims.Width != 20 || dims.Height != 10 {
		t.Errorf("got %dx%d, want 20x10", dims.Width, dims.Height)
	}

	if _, err := GetDimensions([]byte("junk")); err == nil {
		t.Error("expected error for junk data")
	}
}

func TestBackendDimensions(t *testing.T) {
	w, h, err := NewBackend().Dimensions(encodeJPEG(t, createInMemoryImage(33, 17, color.White)))
	if err != nil {
		t.Fatalf("Dimensions failed: %v", err)
	}
	if w != 33 || h != 17 {
		t.Errorf("got %dx%d, want 33x17", w, h)
	}

	if _, _, err := NewBackend().Dimensions(nil); err == nil {
		t.Error("expected error for empty data")
	}
}
