package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder

	"github.com/stuartaccent/images/internal/filter"
)

// Backend decodes images for the filter pipeline using the standard library
// codecs and disintegration/imaging for pixel operations.
//
// Backend is stateless and safe for concurrent use. Each Handle it returns is
// owned by the caller.
type Backend struct{}

// NewBackend returns an image backend.
func NewBackend() *Backend {
	return &Backend{}
}

// Open reads and decodes an encoded image.
//
// The whole stream is buffered so the image can later be re-decoded with its
// EXIF orientation applied (see Handle.AutoOrient) and so GIF frames can be
// counted.
//
// # Errors
//
//   - Returns error if the stream cannot be read
//   - Returns error if the data is not a supported image format
func (b *Backend) Open(r io.Reader) (filter.Handle, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	format := DetectFormat(data)
	if format == "" {
		return nil, fmt.Errorf("failed to decode image: %w", image.ErrFormat)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(false))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	h := &Handle{img: img, format: format, source: data}
	if format == filter.FormatGIF {
		h.animated = countGIFFrames(data) > 1
	}
	return h, nil
}

func countGIFFrames(data []byte) int {
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return 0
	}
	return len(g.Image)
}

// Handle is a decoded image. Every transformation returns a new Handle.
type Handle struct {
	img      image.Image
	format   string
	animated bool

	// source holds the encoded bytes until the image has been oriented.
	source []byte
}

// NewHandle wraps an in-memory image, for callers that already hold pixels.
func NewHandle(img image.Image, format string) *Handle {
	return &Handle{img: img, format: format}
}

// Image returns the current pixels.
func (h *Handle) Image() image.Image {
	return h.img
}

func (h *Handle) derive(img image.Image) *Handle {
	return &Handle{img: img, format: h.format, animated: h.animated}
}

// Size returns the image width and height in pixels.
func (h *Handle) Size() (int, int) {
	b := h.img.Bounds()
	return b.Dx(), b.Dy()
}

// HasAlpha reports whether the image has transparent pixels.
//
// Images that report themselves opaque have no alpha, whatever their Go
// type; the PNG decoder and every imaging transform return RGBA or NRGBA
// even for opaque data. Otherwise it is determined by the Go image type:
//   - *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64 -> true
//   - *image.Paletted -> true when any palette entry is not fully opaque
//   - All other types -> false
func (h *Handle) HasAlpha() bool {
	if o, ok := h.img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return false
	}
	switch img := h.img.(type) {
	case *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64:
		return true
	case *image.Paletted:
		for _, c := range img.Palette {
			if _, _, _, a := c.RGBA(); a != 0xffff {
				return true
			}
		}
	}
	return false
}

// HasAnimation reports whether the source was a GIF with more than one frame.
func (h *Handle) HasAnimation() bool {
	return h.animated
}

// FormatName returns the detected source format: "jpeg", "png", "gif",
// "bmp", "tiff" or "webp".
func (h *Handle) FormatName() string {
	return h.format
}

// AutoOrient applies the EXIF orientation of the source, if any. It is a
// no-op on handles that are already oriented or were not decoded by Open.
func (h *Handle) AutoOrient() (filter.Handle, error) {
	if h.source == nil {
		return h, nil
	}

	img, err := imaging.Decode(bytes.NewReader(h.source), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode oriented image: %w", err)
	}
	return h.derive(img), nil
}

// Resize scales the image to exactly width x height using Lanczos resampling.
// Sizes below one pixel are raised to one.
func (h *Handle) Resize(width, height int) filter.Handle {
	return h.derive(imaging.Resize(h.img, max(width, 1), max(height, 1), imaging.Lanczos))
}

// Crop cuts out r, given relative to the image's top-left corner. The
// rectangle is clipped to the image bounds.
func (h *Handle) Crop(r image.Rectangle) filter.Handle {
	return h.derive(imaging.Crop(h.img, r.Add(h.img.Bounds().Min)))
}

// SetBackgroundColorRGB composites the image over an opaque canvas of c,
// removing any transparency.
func (h *Handle) SetBackgroundColorRGB(c color.RGBA) filter.Handle {
	width, height := h.Size()
	canvas := imaging.New(width, height, color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255})
	return h.derive(imaging.Overlay(canvas, h.img, image.Pt(0, 0), 1.0))
}

// SaveAsJPEG encodes the image as JPEG at opts.Quality.
//
// The standard library encoder always writes baseline, Huffman-default JPEGs,
// so Progressive and Optimize are accepted but have no effect.
func (h *Handle) SaveAsJPEG(w io.Writer, opts filter.JPEGOptions) error {
	return imaging.Encode(w, h.img, imaging.JPEG, imaging.JPEGQuality(opts.Quality))
}

// SaveAsPNG encodes the image as PNG.
func (h *Handle) SaveAsPNG(w io.Writer) error {
	return imaging.Encode(w, h.img, imaging.PNG)
}

// SaveAsGIF encodes the image as a single-frame GIF.
func (h *Handle) SaveAsGIF(w io.Writer) error {
	return imaging.Encode(w, h.img, imaging.GIF)
}
