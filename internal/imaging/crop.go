package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Region is a rectangle in pixel coordinates. (X1, Y1) is inclusive and
// (X2, Y2) exclusive.
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Width returns the number of columns in the region.
func (r Region) Width() int { return r.X2 - r.X1 }

// Height returns the number of rows in the region.
func (r Region) Height() int { return r.Y2 - r.Y1 }

// Validate checks that r is non-empty and lies inside a width x height image.
func (r Region) Validate(width, height int) error {
	if r.X1 < 0 || r.Y1 < 0 || r.X2 > width || r.Y2 > height {
		return fmt.Errorf("region (%d,%d)-(%d,%d) outside image bounds (0,0)-(%d,%d)",
			r.X1, r.Y1, r.X2, r.Y2, width, height)
	}
	if r.X1 >= r.X2 || r.Y1 >= r.Y2 {
		return fmt.Errorf("invalid region: x1 must be < x2, y1 must be < y2")
	}
	return nil
}

// Crop extracts a region from img. The result's bounds start at (0, 0).
func Crop(img image.Image, r Region) (*image.NRGBA, error) {
	bounds := img.Bounds()
	if err := r.Validate(bounds.Dx(), bounds.Dy()); err != nil {
		return nil, err
	}
	rect := image.Rect(r.X1, r.Y1, r.X2, r.Y2).Add(bounds.Min)
	return imaging.Crop(img, rect), nil
}

// Scale resizes img by factor with a Lanczos filter. A factor of 1 returns img
// unchanged. Both dimensions are kept at one pixel or more.
func Scale(img image.Image, factor float64) (image.Image, error) {
	if factor <= 0 {
		return nil, fmt.Errorf("scale must be positive, got %g", factor)
	}
	if factor == 1.0 {
		return img, nil
	}
	w := max(1, int(float64(img.Bounds().Dx())*factor))
	h := max(1, int(float64(img.Bounds().Dy())*factor))
	return imaging.Resize(img, w, h, imaging.Lanczos), nil
}
