package filter

import (
	"image/color"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/stuartaccent/images/internal/geometry"
)

// parsePositive parses a strictly positive integer argument.
func parsePositive(what, s string) (int, *InvalidFilterSpecError) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, invalidSpec("%s must be an integer, got %q", what, s)
	}
	if n <= 0 {
		return 0, invalidSpec("%s must be positive, got %d", what, n)
	}
	return n, nil
}

// parseSize parses a "WxH" argument.
func parseSize(s string) (width, height int, e *InvalidFilterSpecError) {
	parts := strings.Split(s, "x")
	if len(parts) != 2 {
		return 0, 0, invalidSpec("size must be WIDTHxHEIGHT, got %q", s)
	}
	if width, e = parsePositive("width", parts[0]); e != nil {
		return 0, 0, e
	}
	if height, e = parsePositive("height", parts[1]); e != nil {
		return 0, 0, e
	}
	return width, height, nil
}

func expectArgs(name string, args []string, n int) *InvalidFilterSpecError {
	if len(args) != n {
		return invalidSpec("%s takes %d argument(s), got %d", name, n, len(args))
	}
	return nil
}

// === original ===

type doNothing struct {
	name string
}

func newDoNothing(name string, args []string) (Operation, *InvalidFilterSpecError) {
	if e := expectArgs(name, args, 0); e != nil {
		return nil, e
	}
	return &doNothing{name: name}, nil
}

// Kind and Name identify the operation in parsed specs.
func (op *doNothing) Kind() Kind   { return KindDoNothing }
func (op *doNothing) Name() string { return op.name }

func (op *doNothing) Run(Handle, *geometry.FocalPoint, *Env) (Handle, error) {
	return nil, nil
}

// === width / height ===

type widthHeight struct {
	method string
	size   int
}

func newWidthHeight(name string, args []string) (Operation, *InvalidFilterSpecError) {
	if e := expectArgs(name, args, 1); e != nil {
		return nil, e
	}
	size, e := parsePositive(name, args[0])
	if e != nil {
		return nil, e
	}
	return &widthHeight{method: name, size: size}, nil
}

// Kind and Name identify the operation in parsed specs.
func (op *widthHeight) Kind() Kind   { return KindWidthHeight }
func (op *widthHeight) Name() string { return op.method }

func (op *widthHeight) Run(h Handle, _ *geometry.FocalPoint, _ *Env) (Handle, error) {
	imageWidth, imageHeight := h.Size()

	var width, height int
	switch op.method {
	case "width":
		if imageWidth <= op.size {
			return nil, nil
		}
		scale := float64(op.size) / float64(imageWidth)
		width = op.size
		height = int(float64(imageHeight) * scale)
	case "height":
		if imageHeight <= op.size {
			return nil, nil
		}
		scale := float64(op.size) / float64(imageHeight)
		width = int(float64(imageWidth) * scale)
		height = op.size
	default:
		return nil, nil
	}

	return h.Resize(width, height), nil
}

// === min / max ===

type minMax struct {
	method        string
	width, height int
}

func newMinMax(name string, args []string) (Operation, *InvalidFilterSpecError) {
	if e := expectArgs(name, args, 1); e != nil {
		return nil, e
	}
	width, height, e := parseSize(args[0])
	if e != nil {
		return nil, e
	}
	return &minMax{method: name, width: width, height: height}, nil
}

// Kind and Name identify the operation in parsed specs.
func (op *minMax) Kind() Kind   { return KindMinMax }
func (op *minMax) Name() string { return op.method }

func (op *minMax) Run(h Handle, _ *geometry.FocalPoint, _ *Env) (Handle, error) {
	imageWidth, imageHeight := h.Size()

	horzScale := float64(op.width) / float64(imageWidth)
	vertScale := float64(op.height) / float64(imageHeight)

	var width, height int
	switch op.method {
	case "min":
		// Shrinking further would drop one side below its target.
		if imageWidth <= op.width || imageHeight <= op.height {
			return nil, nil
		}
		if horzScale > vertScale {
			width = op.width
			height = int(float64(imageHeight) * horzScale)
		} else {
			width = int(float64(imageWidth) * vertScale)
			height = op.height
		}
	case "max":
		if imageWidth <= op.width && imageHeight <= op.height {
			return nil, nil
		}
		if horzScale < vertScale {
			width = op.width
			height = int(float64(imageHeight) * horzScale)
		} else {
			width = int(float64(imageWidth) * vertScale)
			height = op.height
		}
	default:
		return nil, nil
	}

	return h.Resize(width, height), nil
}

// === format ===

type format struct {
	format string
}

func newFormat(name string, args []string) (Operation, *InvalidFilterSpecError) {
	if e := expectArgs(name, args, 1); e != nil {
		return nil, e
	}
	switch args[0] {
	case FormatJPEG, FormatPNG, FormatGIF:
		return &format{format: args[0]}, nil
	default:
		return nil, invalidSpec("format must be one of jpeg, png or gif, got %q", args[0])
	}
}

// Kind and Name identify the operation in parsed specs.
func (op *format) Kind() Kind   { return KindFormat }
func (op *format) Name() string { return "format" }

func (op *format) Run(_ Handle, _ *geometry.FocalPoint, env *Env) (Handle, error) {
	env.OutputFormat = op.format
	return nil, nil
}

// === jpegquality ===

type jpegQuality struct {
	quality int
}

func newJPEGQuality(name string, args []string) (Operation, *InvalidFilterSpecError) {
	if e := expectArgs(name, args, 1); e != nil {
		return nil, e
	}
	quality, err := strconv.Atoi(args[0])
	if err != nil {
		return nil, invalidSpec("jpeg quality must be an integer, got %q", args[0])
	}
	if quality < 0 || quality > 100 {
		return nil, invalidSpec("jpeg quality must be between 0 and 100, got %d", quality)
	}
	return &jpegQuality{quality: quality}, nil
}

// Kind and Name identify the operation in parsed specs.
func (op *jpegQuality) Kind() Kind   { return KindJPEGQuality }
func (op *jpegQuality) Name() string { return "jpegquality" }

func (op *jpegQuality) Run(_ Handle, _ *geometry.FocalPoint, env *Env) (Handle, error) {
	env.JPEGQuality = op.quality
	env.HasJPEGQuality = true
	return nil, nil
}

// === bgcolor ===

type backgroundColor struct {
	color color.RGBA
}

func newBackgroundColor(name string, args []string) (Operation, *InvalidFilterSpecError) {
	if e := expectArgs(name, args, 1); e != nil {
		return nil, e
	}
	c, e := ParseColor(args[0])
	if e != nil {
		return nil, e
	}
	return &backgroundColor{color: c}, nil
}

// Kind and Name identify the operation in parsed specs.
func (op *backgroundColor) Kind() Kind   { return KindBackgroundColor }
func (op *backgroundColor) Name() string { return "bgcolor" }

func (op *backgroundColor) Run(h Handle, _ *geometry.FocalPoint, _ *Env) (Handle, error) {
	return h.SetBackgroundColorRGB(op.color), nil
}

// ParseColor parses a 3 or 6 digit hex colour without a leading '#'. In the
// short form each digit is doubled, so "f80" is "ff8800".
func ParseColor(s string) (color.RGBA, *InvalidFilterSpecError) {
	if len(s) != 3 && len(s) != 6 {
		return color.RGBA{}, invalidSpec("colour must be 3 or 6 hex digits, got %q", s)
	}
	for _, ch := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", ch) {
			return color.RGBA{}, invalidSpec("colour must be 3 or 6 hex digits, got %q", s)
		}
	}

	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}

	c, err := colorful.Hex("#" + strings.ToLower(s))
	if err != nil {
		return color.RGBA{}, invalidSpec("colour %q: %v", s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}
