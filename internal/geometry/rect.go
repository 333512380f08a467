package geometry

import (
	"errors"
	"fmt"
	"image"
	"math"
)

// ErrInvalidBounds is returned when a rectangle cannot be clamped into bounds
// that have no area.
var ErrInvalidBounds = errors.New("bounds must have positive width and height")

// Rect is an axis-aligned rectangle.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// NewRect creates a rectangle from its edges. Swapped edges are normalized so
// that Left <= Right and Top <= Bottom always hold.
func NewRect(left, top, right, bottom float64) Rect {
	if left > right {
		left, right = right, left
	}
	if top > bottom {
		top, bottom = bottom, top
	}
	return Rect{Left: left, Top: top, Right: right, Bottom: bottom}
}

// FromPoint creates a rectangle of the given size centred on (x, y).
func FromPoint(x, y, width, height float64) Rect {
	return NewRect(x-width/2, y-height/2, x+width/2, y+height/2)
}

// Width returns Right - Left.
func (r Rect) Width() float64 {
	return r.Right - r.Left
}

// Height returns Bottom - Top.
func (r Rect) Height() float64 {
	return r.Bottom - r.Top
}

// Centroid returns the centre point of the rectangle.
func (r Rect) Centroid() (x, y float64) {
	return (r.Left + r.Right) / 2, (r.Top + r.Bottom) / 2
}

// Contains reports whether other lies entirely inside r.
func (r Rect) Contains(other Rect) bool {
	return other.Left >= r.Left && other.Right <= r.Right &&
		other.Top >= r.Top && other.Bottom <= r.Bottom
}

// MoveToCover translates r by the smallest amount needed for it to contain
// other. The size of r is never changed, so if other is larger than r on an
// axis the trailing edges win.
func (r Rect) MoveToCover(other Rect) Rect {
	if r.Contains(other) {
		return r
	}

	w, h := r.Width(), r.Height()
	moved := r

	if moved.Left > other.Left {
		moved.Left, moved.Right = other.Left, other.Left+w
	}
	if moved.Top > other.Top {
		moved.Top, moved.Bottom = other.Top, other.Top+h
	}
	if moved.Right < other.Right {
		moved.Left, moved.Right = other.Right-w, other.Right
	}
	if moved.Bottom < other.Bottom {
		moved.Top, moved.Bottom = other.Bottom-h, other.Bottom
	}

	return moved
}

// MoveToClamp translates r by the smallest amount needed to lie inside bounds.
// If r is larger than bounds on an axis it is aligned to the leading (left or
// top) edge of bounds on that axis; r is never shrunk.
func (r Rect) MoveToClamp(bounds Rect) (Rect, error) {
	if bounds.Width() <= 0 || bounds.Height() <= 0 {
		return Rect{}, fmt.Errorf("clamp %v: %w", bounds, ErrInvalidBounds)
	}
	if bounds.Contains(r) {
		return r, nil
	}

	w, h := r.Width(), r.Height()
	moved := r

	if moved.Right > bounds.Right {
		moved.Left, moved.Right = bounds.Right-w, bounds.Right
	}
	if moved.Bottom > bounds.Bottom {
		moved.Top, moved.Bottom = bounds.Bottom-h, bounds.Bottom
	}
	if moved.Left < bounds.Left {
		moved.Left, moved.Right = bounds.Left, bounds.Left+w
	}
	if moved.Top < bounds.Top {
		moved.Top, moved.Bottom = bounds.Top, bounds.Top+h
	}

	return moved, nil
}

// Round rounds every edge to the nearest integer, halves to even.
func (r Rect) Round() Rect {
	return NewRect(
		math.RoundToEven(r.Left),
		math.RoundToEven(r.Top),
		math.RoundToEven(r.Right),
		math.RoundToEven(r.Bottom),
	)
}

// Image converts r to an image.Rectangle, truncating any fractional part.
// Call Round first for nearest-pixel conversion.
func (r Rect) Image() image.Rectangle {
	return image.Rect(int(r.Left), int(r.Top), int(r.Right), int(r.Bottom))
}

func (r Rect) String() string {
	return fmt.Sprintf("Rect(left: %g, top: %g, right: %g, bottom: %g)", r.Left, r.Top, r.Right, r.Bottom)
}
