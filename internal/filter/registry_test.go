package filter

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	ops, err := Parse("width-100|height-100|format-png", "")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	var names []string
	for _, op := range ops {
		names = append(names, op.Name())
	}
	want := []string{"width", "height", "format"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("names: got %v, want %v", names, want)
	}

	if ops[0].Kind() != KindWidthHeight || ops[1].Kind() != KindWidthHeight {
		t.Error("width and height should share the width-height kind")
	}
	if ops[2].Kind() != KindFormat {
		t.Errorf("kind: got %v, want %v", ops[2].Kind(), KindFormat)
	}
}

func TestParse_Thumbnail(t *testing.T) {
	fromAlias, err := runOperationWithThumbnail("thumbnail", "width-100")
	if err != nil {
		t.Fatalf("thumbnail failed: %v", err)
	}
	direct, err := runOperation("width-100", 400, 200, nil)
	if err != nil {
		t.Fatalf("width-100 failed: %v", err)
	}

	if !reflect.DeepEqual(fromAlias, direct) {
		t.Errorf("thumbnail: got %v, want %v", fromAlias, direct)
	}
}

func runOperationWithThumbnail(spec, thumbnail string) ([]string, error) {
	ops, err := Parse(spec, thumbnail)
	if err != nil {
		return nil, err
	}
	r := newRecorder(400, 200)
	for _, op := range ops {
		if _, err := op.Run(r, nil, &Env{}); err != nil {
			return nil, err
		}
	}
	return r.calls, nil
}

func TestExpandThumbnail(t *testing.T) {
	tests := []struct {
		spec, thumbnail, want string
	}{
		{"thumbnail", "width-100", "width-100"},
		{"thumbnail|format-png", "fill-50x50", "fill-50x50|format-png"},
		{"width-200", "width-100", "width-200"},
		{"thumbnail", "", "thumbnail"},
	}

	for _, tt := range tests {
		if got := ExpandThumbnail(tt.spec, tt.thumbnail); got != tt.want {
			t.Errorf("ExpandThumbnail(%q, %q): got %q, want %q", tt.spec, tt.thumbnail, got, tt.want)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	specs := []string{
		"foo-1",
		"",
		"thumbnail",
		"original-cannot-take-multiple-parameters",
		"width",
		"width-abc",
		"width-800x600",
		"width-800-c100",
		"width-0",
		"height--5",
		"min",
		"min-800",
		"min-abc",
		"min-800xabc",
		"min-800x600-",
		"min-800x600-c100",
		"min-800x600x10",
		"max-0x10",
		"fill",
		"fill-800x600x10",
		"fill-800x600-x50",
		"fill-800x600-c",
		"fill-800x0",
		"crop-1x2x3",
		"crop-1x2x0x4",
		"crop-1x2x3x4-5",
		"format-foo",
		"format",
		"jpegquality",
		"jpegquality-abc",
		"jpegquality-101",
		"bgcolor-ff",
		"bgcolor-ggg",
		"bgcolor-12345g",
		"width-100|bogus",
	}

	for _, spec := range specs {
		t.Run(spec, func(t *testing.T) {
			_, err := Parse(spec, "")
			if err == nil {
				t.Fatal("Parse should fail")
			}
			var specErr *InvalidFilterSpecError
			if !errors.As(err, &specErr) {
				t.Fatalf("error type: got %T, want *InvalidFilterSpecError", err)
			}
			if specErr.Spec != spec {
				t.Errorf("Spec: got %q, want %q", specErr.Spec, spec)
			}
		})
	}
}

func TestParse_UnknownOperationNamed(t *testing.T) {
	_, err := Parse("foo-1", "")
	if err == nil || !strings.Contains(err.Error(), "foo") {
		t.Errorf("error should name the operation, got %v", err)
	}
	if !IsInvalidFilterSpec(err) {
		t.Error("IsInvalidFilterSpec should be true")
	}
}

func TestLookup(t *testing.T) {
	for _, name := range []string{"original", "width", "height", "min", "max", "fill", "crop", "format", "jpegquality", "bgcolor"} {
		if _, ok := Lookup(name); !ok {
			t.Errorf("%s should be registered", name)
		}
	}
	if _, ok := Lookup("Width"); ok {
		t.Error("operation names are case-sensitive")
	}
	if KindFill.String() != "fill" || Kind(99).String() != "unknown" {
		t.Error("Kind.String mismatch")
	}
}
