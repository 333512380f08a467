package filter

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/stuartaccent/images/internal/geometry"
)

// recorder is a Handle that records the backend calls made on it instead of
// touching pixels. Its size follows the resize and crop calls.
type recorder struct {
	width, height int
	format        string
	alpha         bool
	animated      bool

	calls []string
}

func newRecorder(width, height int) *recorder {
	return &recorder{width: width, height: height, format: FormatJPEG}
}

func (r *recorder) Size() (int, int)   { return r.width, r.height }
func (r *recorder) HasAlpha() bool     { return r.alpha }
func (r *recorder) HasAnimation() bool { return r.animated }
func (r *recorder) FormatName() string { return r.format }
func (r *recorder) record(call string) { r.calls = append(r.calls, call) }

func (r *recorder) AutoOrient() (Handle, error) {
	r.record("auto_orient")
	return r, nil
}

func (r *recorder) Resize(width, height int) Handle {
	r.record(fmt.Sprintf("resize(%d,%d)", width, height))
	r.width, r.height = width, height
	return r
}

func (r *recorder) Crop(box image.Rectangle) Handle {
	r.record(fmt.Sprintf("crop(%d,%d,%d,%d)", box.Min.X, box.Min.Y, box.Max.X, box.Max.Y))
	r.width, r.height = box.Dx(), box.Dy()
	return r
}

func (r *recorder) SetBackgroundColorRGB(c color.RGBA) Handle {
	r.record(fmt.Sprintf("bgcolor(%d,%d,%d)", c.R, c.G, c.B))
	r.alpha = false
	return r
}

func (r *recorder) SaveAsJPEG(w io.Writer, opts JPEGOptions) error {
	r.record(fmt.Sprintf("save_jpeg(quality=%d,progressive=%t,optimize=%t)", opts.Quality, opts.Progressive, opts.Optimize))
	return nil
}

func (r *recorder) SaveAsPNG(w io.Writer) error {
	r.record("save_png")
	return nil
}

func (r *recorder) SaveAsGIF(w io.Writer) error {
	r.record("save_gif")
	return nil
}

// recorderBackend hands out a prepared recorder.
type recorderBackend struct {
	handle *recorder
	err    error
}

func (b *recorderBackend) Open(r io.Reader) (Handle, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.handle, nil
}

// memSource is an in-memory Source that remembers whether it was closed.
type memSource struct {
	data    []byte
	focal   *geometry.FocalPoint
	openErr error
	closed  bool
}

func (s *memSource) Open() (io.ReadCloser, error) {
	if s.openErr != nil {
		return nil, s.openErr
	}
	return &trackingCloser{Reader: bytes.NewReader(s.data), src: s}, nil
}

func (s *memSource) FocalPoint() *geometry.FocalPoint {
	return s.focal
}

type trackingCloser struct {
	io.Reader
	src *memSource
}

func (c *trackingCloser) Close() error {
	c.src.closed = true
	return nil
}

var errStorageDown = errors.New("storage unavailable")

// runOperation parses a single-stage spec and runs it on a recorder.
func runOperation(spec string, width, height int, focal *geometry.FocalPoint) ([]string, error) {
	ops, err := Parse(spec, "")
	if err != nil {
		return nil, err
	}
	r := newRecorder(width, height)
	env := &Env{}
	var h Handle = r
	for _, op := range ops {
		next, err := op.Run(h, focal, env)
		if err != nil {
			return r.calls, err
		}
		if next != nil {
			h = next
		}
	}
	return r.calls, nil
}
