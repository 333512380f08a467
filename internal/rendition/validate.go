package rendition

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ErrUnsupportedFileType is returned for uploads that are not an allowed
// image type.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// ValidateFileExtension checks an upload named name against the allowed
// extensions, compared case-insensitively, and that data sniffs as an image.
// Empty data skips the content check.
func ValidateFileExtension(name string, data []byte, allowed []string) error {
	ext := strings.ToLower(filepath.Ext(name))

	ok := false
	for _, a := range allowed {
		if ext == strings.ToLower(a) {
			ok = true
			break
		}
	}
	if !ok {
		return fmt.Errorf("%w, please use one of %s", ErrUnsupportedFileType, strings.Join(allowed, ", "))
	}

	if len(data) == 0 {
		return nil
	}
	if mt := mimetype.Detect(data); !strings.HasPrefix(mt.String(), "image/") {
		return fmt.Errorf("%w: content is %s", ErrUnsupportedFileType, mt.String())
	}
	return nil
}
