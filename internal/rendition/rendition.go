package rendition

import (
	"fmt"
	"time"
)

// Directories within Storage.
const (
	OriginalsDir  = "original_images"
	RenditionsDir = "images_renditions"
)

// NotFoundFile is the file name of placeholder renditions.
const NotFoundFile = "not-found"

// Rendition is a generated image file for one (image, spec, focal point).
type Rendition struct {
	ImageID int64 `json:"image_id"`

	// FilterSpec is the spec with the thumbnail alias expanded.
	FilterSpec string `json:"filter_spec"`

	// FocalPointKey is the filter cache key; empty when the spec does not
	// depend on the focal point.
	FocalPointKey string `json:"focal_point_key"`

	// File is the rendition's name within Storage.
	File string `json:"file"`

	Format    string    `json:"format"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	CreatedAt time.Time `json:"created_at"`
}

// NotFound returns a 0x0 placeholder for a rendition of img whose original
// is missing. It is never stored.
func NotFound(img *Image, spec string) *Rendition {
	return &Rendition{
		ImageID:    img.ID,
		FilterSpec: spec,
		File:       NotFoundFile,
	}
}

// IsNotFound reports whether r is a placeholder from NotFound.
func (r *Rendition) IsNotFound() bool {
	return r.File == NotFoundFile
}

// key identifies a rendition within a Store.
func (r *Rendition) key() string {
	return renditionKey(r.ImageID, r.FilterSpec, r.FocalPointKey)
}

func renditionKey(imageID int64, spec, focalPointKey string) string {
	return fmt.Sprintf("rendition:%d:%s:%s", imageID, spec, focalPointKey)
}
