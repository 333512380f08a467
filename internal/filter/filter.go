package filter

import (
	"fmt"
	"image/color"
	"io"
	"sync"

	"github.com/stuartaccent/images/internal/geometry"
)

// DefaultJPEGQuality is used when neither the spec nor Options set a quality.
const DefaultJPEGQuality = 85

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Env carries state between the operations of a single Run.
type Env struct {
	// OriginalFormat is the format name of the decoded source.
	OriginalFormat string

	// OutputFormat is set by the format operation; empty means unset.
	OutputFormat string

	// JPEGQuality is set by the jpegquality operation when HasJPEGQuality.
	JPEGQuality    int
	HasJPEGQuality bool
}

// Source is an image a filter can be run on.
type Source interface {
	// Open returns a reader over the encoded source image. The pipeline
	// closes it before Run returns.
	Open() (io.ReadCloser, error)

	// FocalPoint returns the region crops must preserve, or nil.
	FocalPoint() *geometry.FocalPoint
}

// Options configures how a Filter resolves its spec and encodes output.
type Options struct {
	// ThumbnailSpec replaces the "thumbnail" alias. Empty disables the alias.
	ThumbnailSpec string

	// JPEGQuality is used for JPEG output when the spec sets none. Zero
	// selects DefaultJPEGQuality.
	JPEGQuality int
}

// DefaultOptions returns the stock thumbnail spec and JPEG quality.
func DefaultOptions() Options {
	return Options{
		ThumbnailSpec: "width-100",
		JPEGQuality:   DefaultJPEGQuality,
	}
}

// Result describes an encoded rendition.
type Result struct {
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Filter is a parsed filter spec. The zero value is not usable; use New.
type Filter struct {
	spec string
	opts Options

	once sync.Once
	ops  []Operation
	err  error
}

// New creates a Filter for spec. Parsing is deferred to the first call that
// needs the operations.
func New(spec string, opts Options) *Filter {
	return &Filter{spec: spec, opts: opts}
}

// Spec returns the spec the filter was created with.
func (f *Filter) Spec() string {
	return f.spec
}

// ResolvedSpec returns the spec with the thumbnail alias expanded.
func (f *Filter) ResolvedSpec() string {
	return ExpandThumbnail(f.spec, f.opts.ThumbnailSpec)
}

// Operations returns the parsed operations in spec order.
func (f *Filter) Operations() ([]Operation, error) {
	f.once.Do(func() {
		f.ops, f.err = Parse(f.spec, f.opts.ThumbnailSpec)
	})
	return f.ops, f.err
}

// CacheKey returns the rendition cache key for src; see CacheKey.
func (f *Filter) CacheKey(src Source) (string, error) {
	ops, err := f.Operations()
	if err != nil {
		return "", err
	}
	return CacheKey(ops, src.FocalPoint()), nil
}

// Run applies the filter to src and writes the encoded result to w.
//
// The source is auto-oriented from its EXIF data first. Output is in the
// format chosen by a format operation, else the source format; unanimated
// GIFs and formats that cannot be written become PNG. JPEG output has any
// transparency flattened onto white.
func (f *Filter) Run(backend Backend, src Source, w io.Writer) (*Result, error) {
	ops, err := f.Operations()
	if err != nil {
		return nil, err
	}

	rc, err := src.Open()
	if err != nil {
		return nil, &SourceImageIOError{Err: err}
	}
	defer rc.Close()

	h, err := backend.Open(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to decode source image: %w", err)
	}

	originalFormat := h.FormatName()

	h, err = h.AutoOrient()
	if err != nil {
		return nil, fmt.Errorf("failed to orient source image: %w", err)
	}

	env := &Env{OriginalFormat: originalFormat}
	focal := src.FocalPoint()

	for _, op := range ops {
		next, err := op.Run(h, focal, env)
		if err != nil {
			return nil, fmt.Errorf("operation %s: %w", op.Name(), err)
		}
		if next != nil {
			h = next
		}
	}

	outputFormat := resolveOutputFormat(env, h)

	switch outputFormat {
	case FormatJPEG:
		quality := f.opts.JPEGQuality
		if quality == 0 {
			quality = DefaultJPEGQuality
		}
		if env.HasJPEGQuality {
			quality = env.JPEGQuality
		}
		if h.HasAlpha() {
			h = h.SetBackgroundColorRGB(white)
		}
		err = h.SaveAsJPEG(w, JPEGOptions{Quality: quality, Progressive: true, Optimize: true})
	case FormatGIF:
		err = h.SaveAsGIF(w)
	default:
		err = h.SaveAsPNG(w)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", outputFormat, err)
	}

	width, height := h.Size()
	return &Result{Format: outputFormat, Width: width, Height: height}, nil
}

func resolveOutputFormat(env *Env, h Handle) string {
	if env.OutputFormat != "" {
		return env.OutputFormat
	}

	switch env.OriginalFormat {
	case FormatJPEG, FormatPNG:
		return env.OriginalFormat
	case FormatGIF:
		if h.HasAnimation() {
			return FormatGIF
		}
		return FormatPNG
	default:
		return FormatPNG
	}
}
