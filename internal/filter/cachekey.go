package filter

import (
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/stuartaccent/images/internal/geometry"
)

// CacheKey fingerprints the source attributes that ops vary on, so that two
// renditions of one spec with different focal points do not collide. It is
// empty when no operation varies on anything.
func CacheKey(ops []Operation, focal *geometry.FocalPoint) string {
	var parts []string
	for _, op := range ops {
		v, ok := op.(varier)
		if !ok {
			continue
		}
		for _, field := range v.VaryFields() {
			parts = append(parts, FocalPointField(focal, field))
		}
	}

	joined := strings.Join(parts, "-")
	if joined == "" {
		return ""
	}

	sum := sha1.Sum([]byte(joined))
	return hex.EncodeToString(sum[:])[:8]
}

// FocalPointField returns the named focal point attribute as a string, or ""
// when there is no focal point or the name is unknown.
func FocalPointField(focal *geometry.FocalPoint, field string) string {
	if focal == nil {
		return ""
	}
	switch field {
	case FieldFocalPointX:
		return strconv.Itoa(focal.X)
	case FieldFocalPointY:
		return strconv.Itoa(focal.Y)
	case FieldFocalPointWidth:
		return strconv.Itoa(focal.Width)
	case FieldFocalPointHeight:
		return strconv.Itoa(focal.Height)
	default:
		return ""
	}
}
