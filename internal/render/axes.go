package render

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	tickCount  = 5
	tickLength = 5
	labelGap   = 3
)

var labelPrinter = message.NewPrinter(language.English)

type axis struct {
	lo, hi float64
}

// ticks returns tickCount evenly spaced values from lo to hi, or a single value
// when the axis is flat.
func (a axis) ticks() []float64 {
	if a.hi == a.lo {
		return []float64{a.lo}
	}
	out := make([]float64, tickCount)
	step := (a.hi - a.lo) / float64(tickCount-1)
	for i := range out {
		out[i] = a.lo + step*float64(i)
	}
	out[tickCount-1] = a.hi
	return out
}

// frac returns where v sits between lo and hi. A flat axis puts every value in
// the middle.
func (a axis) frac(v float64) float64 {
	if a.hi == a.lo {
		return 0.5
	}
	return (v - a.lo) / (a.hi - a.lo)
}

// drawAxes frames the plot area and labels x (depth, left to right) and
// y (sample column, bottom to top).
func drawAxes(dst draw.Image, plot image.Rectangle, x, y axis) {
	ink := image.NewUniform(color.Black)
	face := basicfont.Face7x13
	d := &font.Drawer{Dst: dst, Src: ink, Face: face}

	hline(dst, plot.Min.X, plot.Max.X, plot.Min.Y, ink)
	hline(dst, plot.Min.X, plot.Max.X, plot.Max.Y-1, ink)
	vline(dst, plot.Min.X, plot.Min.Y, plot.Max.Y, ink)
	vline(dst, plot.Max.X-1, plot.Min.Y, plot.Max.Y, ink)

	ascent := face.Metrics().Ascent.Ceil()

	for _, v := range x.ticks() {
		px := plot.Min.X + int(x.frac(v)*float64(plot.Dx()-1))
		vline(dst, px, plot.Max.Y, plot.Max.Y+tickLength, ink)
		label := formatTick(v)
		w := d.MeasureString(label).Ceil()
		d.Dot = fixed.P(px-w/2, plot.Max.Y+tickLength+labelGap+ascent)
		d.DrawString(label)
	}

	for _, v := range y.ticks() {
		py := plot.Max.Y - 1 - int(y.frac(v)*float64(plot.Dy()-1))
		hline(dst, plot.Min.X-tickLength, plot.Min.X, py, ink)
		label := formatTick(v)
		w := d.MeasureString(label).Ceil()
		d.Dot = fixed.P(plot.Min.X-tickLength-labelGap-w, py+ascent/2)
		d.DrawString(label)
	}
}

func hline(dst draw.Image, x0, x1, y int, src image.Image) {
	draw.Draw(dst, image.Rect(x0, y, x1, y+1), src, image.Point{}, draw.Src)
}

func vline(dst draw.Image, x, y0, y1 int, src image.Image) {
	draw.Draw(dst, image.Rect(x, y0, x+1, y1), src, image.Point{}, draw.Src)
}

// formatTick renders an axis value with grouping and at most two decimals.
func formatTick(v float64) string {
	return labelPrinter.Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(2)))
}
