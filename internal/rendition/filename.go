package rendition

import (
	"path"
	"strings"

	"github.com/stuartaccent/images/internal/filter"
)

// MaxFilenameLength bounds the length of generated rendition file names.
const MaxFilenameLength = 60

var extensions = map[string]string{
	filter.FormatJPEG: ".jpg",
	filter.FormatPNG:  ".png",
	filter.FormatGIF:  ".gif",
}

// Extension returns the file extension for an output format, with the dot.
func Extension(format string) string {
	if ext, ok := extensions[format]; ok {
		return ext
	}
	return "." + format
}

// Filename derives the rendition file name for an original named sourceName
// rendered with spec into format.
//
// The name is the original's base name without extension, a dot, the spec
// with "|" replaced by ".", and the format extension:
//
//	Filename("original_images/photo.png", "width-100|height-100", "jpeg")
//	// "photo.width-100.height-100.jpg"
//
// The base name is truncated so the result stays within MaxFilenameLength
// characters; when the spec alone is too long the base name is dropped.
func Filename(sourceName, spec, format string) string {
	base := path.Base(strings.ReplaceAll(sourceName, "\\", "/"))
	base = strings.TrimSuffix(base, path.Ext(base))

	suffix := strings.ReplaceAll(spec, "|", ".") + Extension(format)

	keep := MaxFilenameLength - 1 - len(suffix)
	if keep < 0 {
		keep = 0
	}
	if len(base) > keep {
		base = base[:keep]
	}

	return base + "." + suffix
}
