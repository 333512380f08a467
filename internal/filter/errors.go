package filter

import (
	"errors"
	"fmt"
)

// ErrInvalidImageSize is returned when an operation needs a positive image
// size and the current image has none.
var ErrInvalidImageSize = errors.New("image width and height must be positive")

// InvalidFilterSpecError reports a filter spec that cannot be parsed: an
// unknown operation name or a missing, extra or malformed argument.
type InvalidFilterSpecError struct {
	// Spec is the full spec being parsed, when known.
	Spec string

	// Reason describes the failure.
	Reason string
}

func (e *InvalidFilterSpecError) Error() string {
	if e.Spec == "" {
		return "invalid filter spec: " + e.Reason
	}
	return fmt.Sprintf("invalid filter spec %q: %s", e.Spec, e.Reason)
}

func invalidSpec(format string, args ...interface{}) *InvalidFilterSpecError {
	return &InvalidFilterSpecError{Reason: fmt.Sprintf(format, args...)}
}

// SourceImageIOError reports that the source image could not be opened, for
// example because its storage is unavailable. It is distinct from decode
// errors so callers can fall back to a placeholder rendition.
type SourceImageIOError struct {
	Err error
}

func (e *SourceImageIOError) Error() string {
	return fmt.Sprintf("source image unavailable: %v", e.Err)
}

func (e *SourceImageIOError) Unwrap() error {
	return e.Err
}

// IsInvalidFilterSpec reports whether err is or wraps an InvalidFilterSpecError.
func IsInvalidFilterSpec(err error) bool {
	var target *InvalidFilterSpecError
	return errors.As(err, &target)
}

// IsSourceImageIO reports whether err is or wraps a SourceImageIOError.
func IsSourceImageIO(err error) bool {
	var target *SourceImageIOError
	return errors.As(err, &target)
}
