package imaging

import (
	"bytes"
	"fmt"
	"image"
	"os"

	"github.com/gabriel-vasile/mimetype"
)

// formatsByMIME maps sniffed MIME types to decoder format names.
var formatsByMIME = map[string]string{
	"image/jpeg": "jpeg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/bmp":  "bmp",
	"image/tiff": "tiff",
	"image/webp": "webp",
}

// DetectFormat sniffs the image format from the content of data, ignoring
// any file name. It returns "" for content that is not a supported image.
func DetectFormat(data []byte) string {
	mt := mimetype.Detect(data)
	for m := mt; m != nil; m = m.Parent() {
		if format, ok := formatsByMIME[m.String()]; ok {
			return format
		}
	}
	return ""
}

// ImageInfo contains metadata about an image file.
//
// This struct provides essential information about an image without requiring
// the caller to decode all of its pixels.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the format sniffed from the file content: "jpeg", "png",
	// "gif", "bmp", "tiff" or "webp".
	Format string `json:"format"`

	// MimeType is the sniffed MIME type, e.g. "image/png".
	MimeType string `json:"mime_type"`

	// HasAlpha indicates whether the decoded image has an alpha channel.
	HasAlpha bool `json:"has_alpha"`

	// Animated is true for GIFs with more than one frame.
	Animated bool `json:"animated"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo reads an image file and returns metadata about it.
//
// Parameters:
//   - path: Path to the image file.
//
// Returns:
//   - *ImageInfo: Metadata about the image.
//   - error: Non-nil if the file cannot be read or is not a supported image.
//
// # Format Detection
//
// Unlike a file-extension lookup, the format is sniffed from the file
// content, so a PNG saved as "photo.jpg" reports "png".
func LoadImageInfo(path string) (*ImageInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	h, err := NewBackend().Open(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	width, height := h.Size()
	return &ImageInfo{
		Width:         width,
		Height:        height,
		Format:        h.FormatName(),
		MimeType:      mimetype.Detect(data).String(),
		HasAlpha:      h.HasAlpha(),
		Animated:      h.HasAnimation(),
		FileSizeBytes: int64(len(data)),
	}, nil
}

// DimensionsResult contains the width and height of an image.
type DimensionsResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GetDimensions reads only the image header to report its size.
func GetDimensions(data []byte) (*DimensionsResult, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image header: %w", err)
	}
	return &DimensionsResult{Width: cfg.Width, Height: cfg.Height}, nil
}

// Dimensions reports the size of an encoded image from its header, without
// decoding pixels.
func (b *Backend) Dimensions(data []byte) (int, int, error) {
	dims, err := GetDimensions(data)
	if err != nil {
		return 0, 0, err
	}
	return dims.Width, dims.Height, nil
}
