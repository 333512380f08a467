package filter

import (
	"strings"

	"github.com/stuartaccent/images/internal/geometry"
)

// ThumbnailAlias is replaced by the configured thumbnail spec before parsing.
const ThumbnailAlias = "thumbnail"

// Kind identifies an operation variant.
type Kind int

const (
	KindDoNothing Kind = iota
	KindWidthHeight
	KindMinMax
	KindFill
	KindCrop
	KindFormat
	KindJPEGQuality
	KindBackgroundColor
)

var kindNames = map[Kind]string{
	KindDoNothing:       "do-nothing",
	KindWidthHeight:     "width-height",
	KindMinMax:          "min-max",
	KindFill:            "fill",
	KindCrop:            "crop",
	KindFormat:          "format",
	KindJPEGQuality:     "jpeg-quality",
	KindBackgroundColor: "background-color",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// registry maps the leading token of a stage to its operation kind.
// Synonyms (width/height, min/max) share a kind and are told apart by name.
var registry = map[string]Kind{
	"original":    KindDoNothing,
	"width":       KindWidthHeight,
	"height":      KindWidthHeight,
	"min":         KindMinMax,
	"max":         KindMinMax,
	"fill":        KindFill,
	"crop":        KindCrop,
	"format":      KindFormat,
	"jpegquality": KindJPEGQuality,
	"bgcolor":     KindBackgroundColor,
}

// Lookup returns the kind registered for an operation name.
func Lookup(name string) (Kind, bool) {
	k, ok := registry[name]
	return k, ok
}

// Operation is one parsed stage of a filter spec.
//
// Run reads the current image from h and returns the transformed handle, or
// nil when the image is unchanged (operations that only record output
// settings in env return nil).
type Operation interface {
	Kind() Kind
	Name() string
	Run(h Handle, focal *geometry.FocalPoint, env *Env) (Handle, error)
}

// varier is implemented by operations whose output depends on fields of the
// source image beyond its pixels.
type varier interface {
	VaryFields() []string
}

// ExpandThumbnail replaces every occurrence of the thumbnail alias in spec.
// An empty thumbnailSpec leaves spec unchanged.
func ExpandThumbnail(spec, thumbnailSpec string) string {
	if thumbnailSpec == "" || !strings.Contains(spec, ThumbnailAlias) {
		return spec
	}
	return strings.ReplaceAll(spec, ThumbnailAlias, thumbnailSpec)
}

// Parse splits spec into its operations in order.
func Parse(spec, thumbnailSpec string) ([]Operation, error) {
	expanded := ExpandThumbnail(spec, thumbnailSpec)

	stages := strings.Split(expanded, "|")
	ops := make([]Operation, 0, len(stages))

	for _, stage := range stages {
		parts := strings.Split(stage, "-")
		name, args := parts[0], parts[1:]

		kind, ok := Lookup(name)
		if !ok {
			return nil, &InvalidFilterSpecError{Spec: spec, Reason: "unrecognised operation: " + name}
		}

		op, err := newOperation(kind, name, args)
		if err != nil {
			err.Spec = spec
			return nil, err
		}
		ops = append(ops, op)
	}

	return ops, nil
}

func newOperation(kind Kind, name string, args []string) (Operation, *InvalidFilterSpecError) {
	switch kind {
	case KindDoNothing:
		return newDoNothing(name, args)
	case KindWidthHeight:
		return newWidthHeight(name, args)
	case KindMinMax:
		return newMinMax(name, args)
	case KindFill:
		return newFill(name, args)
	case KindCrop:
		return newCrop(name, args)
	case KindFormat:
		return newFormat(name, args)
	case KindJPEGQuality:
		return newJPEGQuality(name, args)
	case KindBackgroundColor:
		return newBackgroundColor(name, args)
	default:
		return nil, invalidSpec("unhandled operation kind %v", kind)
	}
}
