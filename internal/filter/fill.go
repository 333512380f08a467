package filter

import (
	"fmt"
	"image"
	"math"
	"strconv"
	"strings"

	"github.com/stuartaccent/images/internal/geometry"
)

// Vary field names, matching the focal point attributes of a source image.
const (
	FieldFocalPointWidth  = "focal_point_width"
	FieldFocalPointHeight = "focal_point_height"
	FieldFocalPointX      = "focal_point_x"
	FieldFocalPointY      = "focal_point_y"
)

var focalPointFields = []string{
	FieldFocalPointWidth,
	FieldFocalPointHeight,
	FieldFocalPointX,
	FieldFocalPointY,
}

type fill struct {
	width, height int

	// closeness is in [0, 1].
	closeness float64
}

func newFill(name string, args []string) (Operation, *InvalidFilterSpecError) {
	if len(args) == 0 {
		return nil, invalidSpec("%s takes a WIDTHxHEIGHT argument", name)
	}
	width, height, e := parseSize(args[0])
	if e != nil {
		return nil, e
	}

	op := &fill{width: width, height: height}
	for _, extra := range args[1:] {
		if !strings.HasPrefix(extra, "c") {
			return nil, invalidSpec("unrecognised filter spec part: %q", extra)
		}
		percent, err := strconv.Atoi(extra[1:])
		if err != nil || percent < 0 {
			return nil, invalidSpec("crop closeness must be a non-negative integer, got %q", extra)
		}
		op.closeness = math.Min(float64(percent)/100, 1)
	}

	return op, nil
}

func (op *fill) Kind() Kind   { return KindFill }
func (op *fill) Name() string { return "fill" }

// VaryFields lists the source attributes the crop position depends on.
func (op *fill) VaryFields() []string {
	return focalPointFields
}

func (op *fill) Run(h Handle, focal *geometry.FocalPoint, _ *Env) (Handle, error) {
	imageWidth, imageHeight := h.Size()
	if imageWidth <= 0 || imageHeight <= 0 {
		return nil, fmt.Errorf("fill %dx%d on %dx%d image: %w", op.width, op.height, imageWidth, imageHeight, ErrInvalidImageSize)
	}

	box, err := op.cropBox(imageWidth, imageHeight, focal)
	if err != nil {
		return nil, err
	}
	h = h.Crop(box)

	// Same scale on both axes; only ever shrink.
	afterWidth, _ := h.Size()
	if float64(op.width)/float64(afterWidth) < 1.0 {
		h = h.Resize(op.width, op.height)
	}

	return h, nil
}

// cropBox returns the pixel rectangle to crop from an image of the given size.
func (op *fill) cropBox(imageWidth, imageHeight int, focal *geometry.FocalPoint) (image.Rectangle, error) {
	iw, ih := float64(imageWidth), float64(imageHeight)
	targetWidth, targetHeight := float64(op.width), float64(op.height)
	aspect := targetWidth / targetHeight

	// Largest box of the target aspect ratio that fits in the image.
	maxScale := math.Min(iw, ih*aspect)
	maxWidth, maxHeight := maxScale, maxScale/aspect

	cropWidth, cropHeight := maxWidth, maxHeight

	var focalRect geometry.Rect
	if focal != nil {
		focalRect = focal.Rect()

		// Smallest box of the target aspect ratio that holds the focal point.
		minScale := math.Max(focalRect.Width(), focalRect.Height()*aspect)
		minWidth, minHeight := minScale, minScale/aspect

		// The focal point may be as big as, or bigger than, the max box.
		if minScale < maxScale && maxWidth != minWidth && maxHeight != minHeight {
			// Zooming in past this would need upscaling to reach the target.
			maxCloseness := math.Max(
				1-(targetWidth-minWidth)/(maxWidth-minWidth),
				1-(targetHeight-minHeight)/(maxHeight-minHeight),
			)

			closeness := math.Min(op.closeness, maxCloseness)
			if closeness >= 0 && closeness <= 1 {
				cropWidth = maxWidth + (minWidth-maxWidth)*closeness
				cropHeight = maxHeight + (minHeight-maxHeight)*closeness
			}
		}
	}

	fx, fy := iw/2, ih/2
	if focal != nil {
		fx, fy = focalRect.Centroid()
	}

	// Keep the focal point at the same relative position in the crop box as
	// it has in the whole image.
	cropX := fx - (fx/iw-0.5)*cropWidth
	cropY := fy - (fy/ih-0.5)*cropHeight

	rect := geometry.FromPoint(cropX, cropY, cropWidth, cropHeight)
	if focal != nil {
		rect = rect.MoveToCover(focalRect)
	}

	rect, err := rect.MoveToClamp(geometry.NewRect(0, 0, iw, ih))
	if err != nil {
		return image.Rectangle{}, err
	}

	return atLeastOnePixel(rect.Round().Image(), imageWidth, imageHeight), nil
}

// atLeastOnePixel grows a degenerate box to 1px on each axis, staying inside
// the image.
func atLeastOnePixel(box image.Rectangle, imageWidth, imageHeight int) image.Rectangle {
	if box.Dx() < 1 {
		if box.Min.X < imageWidth {
			box.Max.X = box.Min.X + 1
		} else {
			box.Min.X, box.Max.X = imageWidth-1, imageWidth
		}
	}
	if box.Dy() < 1 {
		if box.Min.Y < imageHeight {
			box.Max.Y = box.Min.Y + 1
		} else {
			box.Min.Y, box.Max.Y = imageHeight-1, imageHeight
		}
	}
	return box
}
