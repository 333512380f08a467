package filter

import (
	"crypto/sha1"
	"encoding/hex"
	"testing"

	"github.com/stuartaccent/images/internal/geometry"
)

func mustParse(t *testing.T, spec string) []Operation {
	t.Helper()
	ops, err := Parse(spec, "")
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", spec, err)
	}
	return ops
}

func TestCacheKey_NoVaryingOperations(t *testing.T) {
	focal := &geometry.FocalPoint{X: 1, Y: 2, Width: 3, Height: 4}

	for _, spec := range []string{"original", "width-100|height-100", "crop|format-png", "max-10x10"} {
		if key := CacheKey(mustParse(t, spec), focal); key != "" {
			t.Errorf("CacheKey(%q): got %q, want empty", spec, key)
		}
	}
}

func TestCacheKey_Fill(t *testing.T) {
	ops := mustParse(t, "fill-100x100")

	a := CacheKey(ops, &geometry.FocalPoint{X: 10, Y: 20, Width: 30, Height: 40})
	b := CacheKey(ops, &geometry.FocalPoint{X: 10, Y: 20, Width: 30, Height: 40})
	if a == "" || a != b {
		t.Fatalf("identical focal points: got %q and %q", a, b)
	}
	if len(a) != 8 {
		t.Errorf("key length: got %d, want 8", len(a))
	}

	// Vary fields are width, height, x, y in that order.
	sum := sha1.Sum([]byte("30-40-10-20"))
	if want := hex.EncodeToString(sum[:])[:8]; a != want {
		t.Errorf("key: got %q, want %q", a, want)
	}

	variants := []geometry.FocalPoint{
		{X: 11, Y: 20, Width: 30, Height: 40},
		{X: 10, Y: 21, Width: 30, Height: 40},
		{X: 10, Y: 20, Width: 31, Height: 40},
		{X: 10, Y: 20, Width: 30, Height: 41},
	}
	for _, v := range variants {
		v := v
		if key := CacheKey(ops, &v); key == a {
			t.Errorf("focal point %+v should change the key", v)
		}
	}
}

func TestCacheKey_FillWithoutFocalPoint(t *testing.T) {
	key := CacheKey(mustParse(t, "fill-100x100"), nil)

	sum := sha1.Sum([]byte("---"))
	if want := hex.EncodeToString(sum[:])[:8]; key != want {
		t.Errorf("key: got %q, want %q", key, want)
	}
}

func TestFilter_CacheKey(t *testing.T) {
	src := &memSource{focal: &geometry.FocalPoint{X: 10, Y: 20, Width: 30, Height: 40}}

	key, err := New("thumbnail", Options{ThumbnailSpec: "fill-50x50"}).CacheKey(src)
	if err != nil {
		t.Fatalf("CacheKey failed: %v", err)
	}
	if want := CacheKey(mustParse(t, "fill-50x50"), src.focal); key != want {
		t.Errorf("key: got %q, want %q", key, want)
	}

	if _, err := New("nope", DefaultOptions()).CacheKey(src); !IsInvalidFilterSpec(err) {
		t.Errorf("got %v, want InvalidFilterSpecError", err)
	}
}
