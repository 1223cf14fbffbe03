package imaging

import (
	"fmt"
	"image/color"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Colormap names a mapping from normalized disparity to color.
type Colormap string

const (
	// ColormapGray maps far to black and near to white.
	ColormapGray Colormap = "gray"
	// ColormapJet runs blue, cyan, yellow, red from far to near.
	ColormapJet Colormap = "jet"
	// ColormapViridis is perceptually uniform, dark purple to yellow.
	ColormapViridis Colormap = "viridis"
)

// Colormaps lists every supported colormap.
var Colormaps = []Colormap{ColormapGray, ColormapJet, ColormapViridis}

// ParseColormap returns the colormap named s. The empty string selects jet.
func ParseColormap(s string) (Colormap, error) {
	if s == "" {
		return ColormapJet, nil
	}
	c := Colormap(strings.ToLower(s))
	for _, known := range Colormaps {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown colormap %q (supported: gray, jet, viridis)", s)
}

// gradientStop is a control color at a position in [0, 1].
type gradientStop struct {
	col colorful.Color
	pos float64
}

type gradient []gradientStop

func mustGradient(hexes ...string) gradient {
	g := make(gradient, len(hexes))
	for i, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			panic(err)
		}
		g[i] = gradientStop{col: c, pos: float64(i) / float64(len(hexes)-1)}
	}
	return g
}

// at blends the two stops around t in L*a*b* space.
func (g gradient) at(t float64) colorful.Color {
	for i := 0; i < len(g)-1; i++ {
		c1, c2 := g[i], g[i+1]
		if c1.pos <= t && t <= c2.pos {
			t := (t - c1.pos) / (c2.pos - c1.pos)
			return c1.col.BlendLab(c2.col, t).Clamped()
		}
	}
	return g[len(g)-1].col
}

var gradients = map[Colormap]gradient{
	ColormapJet:     mustGradient("#00007f", "#0000ff", "#00ffff", "#ffff00", "#ff0000", "#7f0000"),
	ColormapViridis: mustGradient("#440154", "#3b528b", "#21918c", "#5ec962", "#fde725"),
}

// At returns the color of t, clamped to [0, 1].
func (c Colormap) At(t float64) color.NRGBA {
	t = min(1, max(0, t))
	if c == ColormapGray {
		v := uint8(t*255 + 0.5)
		return color.NRGBA{R: v, G: v, B: v, A: 255}
	}
	g, ok := gradients[c]
	if !ok {
		g = gradients[ColormapJet]
	}
	r, gg, b := g.at(t).RGB255()
	return color.NRGBA{R: r, G: gg, B: b, A: 255}
}
