package geometry

import "math"

// FocalPoint marks the region of an image that crops must preserve. It is
// stored as a centre point plus size, all in whole pixels.
type FocalPoint struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect returns the focal point as a rectangle centred on (X, Y).
func (fp FocalPoint) Rect() Rect {
	return FromPoint(float64(fp.X), float64(fp.Y), float64(fp.Width), float64(fp.Height))
}

// FocalPointFromRect converts a rectangle, such as a selection made in a
// cropping UI, into a focal point. The centre is rounded to whole pixels.
func FocalPointFromRect(r Rect) FocalPoint {
	x, y := r.Centroid()
	return FocalPoint{
		X:      int(math.RoundToEven(x)),
		Y:      int(math.RoundToEven(y)),
		Width:  int(math.RoundToEven(r.Width())),
		Height: int(math.RoundToEven(r.Height())),
	}
}

// Valid reports whether every component is non-negative.
func (fp FocalPoint) Valid() bool {
	return fp.X >= 0 && fp.Y >= 0 && fp.Width >= 0 && fp.Height >= 0
}
