package filter

import (
	"image"
	"image/color"
	"io"
)

// Output formats understood by the pipeline.
const (
	FormatJPEG = "jpeg"
	FormatPNG  = "png"
	FormatGIF  = "gif"
)

// JPEGOptions controls JPEG encoding.
type JPEGOptions struct {
	Quality     int
	Progressive bool
	Optimize    bool
}

// Backend decodes source images into Handles.
type Backend interface {
	Open(r io.Reader) (Handle, error)
}

// Handle is a decoded image owned by a single pipeline run. Transformations
// return a new Handle and leave the receiver untouched.
type Handle interface {
	Size() (width, height int)
	HasAlpha() bool
	HasAnimation() bool
	FormatName() string

	AutoOrient() (Handle, error)
	Resize(width, height int) Handle
	Crop(r image.Rectangle) Handle
	SetBackgroundColorRGB(c color.RGBA) Handle

	SaveAsJPEG(w io.Writer, opts JPEGOptions) error
	SaveAsPNG(w io.Writer) error
	SaveAsGIF(w io.Writer) error
}
