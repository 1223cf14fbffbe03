package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DefaultGridColor is drawn when a grid is requested without a color.
const DefaultGridColor = "#ffffff"

// Grid describes a coordinate grid drawn over a rendered disparity map so
// pixel positions can be read off for sampling.
type Grid struct {
	// Spacing between lines in pixels. Zero disables the grid.
	Spacing int
	// Labels prints "x,y" at every line crossing.
	Labels bool
	// Color is a "#rrggbb" hex string; empty selects DefaultGridColor.
	Color string
}

// Validate reports whether g can be drawn.
func (g Grid) Validate() error {
	if g.Spacing < 0 {
		return fmt.Errorf("grid spacing must not be negative, got %d", g.Spacing)
	}
	if _, err := g.color(); err != nil {
		return err
	}
	return nil
}

func (g Grid) color() (color.NRGBA, error) {
	hex := g.Color
	if hex == "" {
		hex = DefaultGridColor
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid grid color %q: %w", g.Color, err)
	}
	r, gr, b := c.RGB255()
	return color.NRGBA{R: r, G: gr, B: b, A: 255}, nil
}

// DrawGrid draws g onto img in place.
func DrawGrid(img *image.NRGBA, g Grid) error {
	if g.Spacing == 0 {
		return nil
	}
	if err := g.Validate(); err != nil {
		return err
	}
	lineColor, _ := g.color()

	b := img.Bounds()
	for x := b.Min.X + g.Spacing; x < b.Max.X; x += g.Spacing {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			img.SetNRGBA(x, y, lineColor)
		}
	}
	for y := b.Min.Y + g.Spacing; y < b.Max.Y; y += g.Spacing {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetNRGBA(x, y, lineColor)
		}
	}

	if g.Labels {
		fg := color.NRGBA{255, 255, 255, 255}
		bg := color.NRGBA{0, 0, 0, 255}
		for y := g.Spacing; y < b.Dy(); y += g.Spacing {
			for x := g.Spacing; x < b.Dx(); x += g.Spacing {
				drawLabel(img, b.Min.X+x+2, b.Min.Y+y+2, fmt.Sprintf("%d,%d", x, y), fg, bg)
			}
		}
	}
	return nil
}

// labelFace renders grid labels.
var labelFace font.Face = basicfont.Face7x13

// drawLabel draws text on a bg box whose top-left corner is at (x, y). The
// box is padded by one pixel and clipped to img.
func drawLabel(img *image.NRGBA, x, y int, text string, fg, bg color.NRGBA) {
	metrics := labelFace.Metrics()
	width := font.MeasureString(labelFace, text).Ceil()
	box := image.Rect(x-1, y-1, x+width+1, y+metrics.Height.Ceil()+1)
	xdraw.Draw(img, box.Intersect(img.Bounds()), image.NewUniform(bg), image.Point{}, xdraw.Src)

	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: labelFace,
		Dot:  fixed.P(x, y+metrics.Ascent.Ceil()),
	}
	d.DrawString(text)
}
