package filter

import (
	"strconv"
	"strings"

	"github.com/stuartaccent/images/internal/geometry"
)

type crop struct {
	// box overrides the source focal point when set.
	box *geometry.Rect
}

func newCrop(name string, args []string) (Operation, *InvalidFilterSpecError) {
	switch len(args) {
	case 0:
		return &crop{}, nil
	case 1:
	default:
		return nil, invalidSpec("%s takes at most one LEFTxTOPxWIDTHxHEIGHT argument, got %d", name, len(args))
	}

	parts := strings.Split(args[0], "x")
	if len(parts) != 4 {
		return nil, invalidSpec("crop box must be LEFTxTOPxWIDTHxHEIGHT, got %q", args[0])
	}

	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, invalidSpec("crop box values must be integers, got %q", args[0])
		}
		if n < 0 {
			return nil, invalidSpec("crop box values must not be negative, got %q", args[0])
		}
		v[i] = n
	}
	if v[2] == 0 || v[3] == 0 {
		return nil, invalidSpec("crop box must have a positive size, got %q", args[0])
	}

	box := geometry.NewRect(float64(v[0]), float64(v[1]), float64(v[0]+v[2]), float64(v[1]+v[3]))
	return &crop{box: &box}, nil
}

func (op *crop) Kind() Kind   { return KindCrop }
func (op *crop) Name() string { return "crop" }

func (op *crop) Run(h Handle, focal *geometry.FocalPoint, _ *Env) (Handle, error) {
	var rect geometry.Rect
	switch {
	case op.box != nil:
		rect = *op.box
	case focal != nil:
		rect = focal.Rect()
	default:
		return nil, nil
	}

	return h.Crop(rect.Round().Image()), nil
}
