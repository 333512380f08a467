package rendition

import (
	"testing"

	"github.com/stuartaccent/images/internal/geometry"
)

func intPtr(v int) *int {
	return &v
}

func TestImage_FocalPoint(t *testing.T) {
	img := &Image{}
	if fp := img.FocalPoint(); fp != nil {
		t.Errorf("unset: got %+v, want nil", fp)
	}

	// Partially set counts as unset.
	img.FocalPointX, img.FocalPointY, img.FocalPointWidth = intPtr(1), intPtr(2), intPtr(3)
	if fp := img.FocalPoint(); fp != nil {
		t.Errorf("partial: got %+v, want nil", fp)
	}

	img.FocalPointHeight = intPtr(4)
	want := geometry.FocalPoint{X: 1, Y: 2, Width: 3, Height: 4}
	if fp := img.FocalPoint(); fp == nil || *fp != want {
		t.Errorf("got %+v, want %+v", fp, want)
	}
}

func TestImage_SetFocalPoint(t *testing.T) {
	img := &Image{}

	r := geometry.NewRect(100, 50, 300, 150)
	img.SetFocalPoint(&r)

	want := geometry.FocalPoint{X: 200, Y: 100, Width: 200, Height: 100}
	if fp := img.FocalPoint(); fp == nil || *fp != want {
		t.Fatalf("got %+v, want %+v", fp, want)
	}

	img.SetFocalPoint(nil)
	if img.FocalPointX != nil || img.FocalPointY != nil || img.FocalPointWidth != nil || img.FocalPointHeight != nil {
		t.Error("SetFocalPoint(nil) should clear every field")
	}
}
