package rendition

import (
	"io"

	"github.com/stuartaccent/images/internal/filter"
	"github.com/stuartaccent/images/internal/geometry"
)

// Image is a source image renditions are generated from.
type Image struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`

	// File is the name of the original within Storage, e.g.
	// "original_images/photo.jpg".
	File string `json:"file"`

	Width  int `json:"width"`
	Height int `json:"height"`

	// The focal point is set as a whole or not at all.
	FocalPointX      *int `json:"focal_point_x,omitempty"`
	FocalPointY      *int `json:"focal_point_y,omitempty"`
	FocalPointWidth  *int `json:"focal_point_width,omitempty"`
	FocalPointHeight *int `json:"focal_point_height,omitempty"`
}

// FocalPoint returns the focal point, or nil unless all four fields are set.
func (img *Image) FocalPoint() *geometry.FocalPoint {
	if img.FocalPointX == nil || img.FocalPointY == nil ||
		img.FocalPointWidth == nil || img.FocalPointHeight == nil {
		return nil
	}
	return &geometry.FocalPoint{
		X:      *img.FocalPointX,
		Y:      *img.FocalPointY,
		Width:  *img.FocalPointWidth,
		Height: *img.FocalPointHeight,
	}
}

// SetFocalPoint stores r as the focal point. A nil r clears it.
func (img *Image) SetFocalPoint(r *geometry.Rect) {
	if r == nil {
		img.FocalPointX, img.FocalPointY = nil, nil
		img.FocalPointWidth, img.FocalPointHeight = nil, nil
		return
	}

	fp := geometry.FocalPointFromRect(*r)
	img.FocalPointX, img.FocalPointY = &fp.X, &fp.Y
	img.FocalPointWidth, img.FocalPointHeight = &fp.Width, &fp.Height
}

// Source returns img as a filter source reading its original from storage.
func (img *Image) Source(storage Storage) filter.Source {
	return &imageSource{img: img, storage: storage}
}

type imageSource struct {
	img     *Image
	storage Storage
}

func (s *imageSource) Open() (io.ReadCloser, error) {
	return s.storage.Open(s.img.File)
}

func (s *imageSource) FocalPoint() *geometry.FocalPoint {
	return s.img.FocalPoint()
}
