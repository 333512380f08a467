package rendition

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"testing"
)

func TestValidateFileExtension(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatal(err)
	}
	pngData := buf.Bytes()
	allowed := []string{".jpeg", ".jpg", ".png", ".gif"}

	tests := []struct {
		name    string
		file    string
		data    []byte
		wantErr bool
	}{
		{"png", "photo.png", pngData, false},
		{"upper case extension", "PHOTO.PNG", pngData, false},
		{"no content check", "photo.jpg", nil, false},
		{"disallowed extension", "photo.bmp", pngData, true},
		{"no extension", "photo", pngData, true},
		{"not an image", "notes.png", []byte("just some text"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFileExtension(tt.file, tt.data, allowed)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFileType) {
					t.Errorf("got %v, want ErrUnsupportedFileType", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
