package render

import (
	"image/color"
	"math"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Gradient is a sequential color scale. At(0) is the first stop, At(1) the last;
// values in between blend linearly between neighbouring stops.
type Gradient []drawing.Color

// YlOrBr returns the 9-class ColorBrewer yellow-orange-brown scale.
func YlOrBr() Gradient {
	hexes := []string{
		"ffffe5", "fff7bc", "fee391", "fec44f", "fe9929",
		"ec7014", "cc4c02", "993404", "662506",
	}
	g := make(Gradient, len(hexes))
	for i, h := range hexes {
		g[i] = drawing.ColorFromHex(h)
	}
	return g
}

// At returns the color at position t. t is clamped to [0, 1]; NaN maps to 0.
func (g Gradient) At(t float64) color.RGBA {
	switch len(g) {
	case 0:
		return color.RGBA{A: 255}
	case 1:
		return rgba(g[0])
	}
	if math.IsNaN(t) || t <= 0 {
		return rgba(g[0])
	}
	if t >= 1 {
		return rgba(g[len(g)-1])
	}

	pos := t * float64(len(g)-1)
	i := int(pos)
	frac := pos - float64(i)
	a, b := g[i], g[i+1]
	return color.RGBA{
		R: lerp(a.R, b.R, frac),
		G: lerp(a.G, b.G, frac),
		B: lerp(a.B, b.B, frac),
		A: lerp(a.A, b.A, frac),
	}
}

func rgba(c drawing.Color) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func lerp(a, b uint8, frac float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*frac))
}
