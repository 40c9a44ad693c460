// Package render draws a depth slice as a heatmap PNG.
//
// Samples run down the image (y) and depths run across it (x). Colors come from
// a sequential gradient scaled to the finite minimum and maximum of the slice
// being drawn, so every image uses its full color range.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/draw"
	"gonum.org/v1/gonum/mat"

	"github.com/roach88/depthview/internal/model"
)

// Default figure size in pixels (an 18x8 inch figure at 100 dpi).
const (
	DefaultWidth  = 1800
	DefaultHeight = 800
)

// Plot area margins. Figures too small to hold them are drawn without axes.
const (
	marginLeft   = 80
	marginRight  = 30
	marginTop    = 20
	marginBottom = 50
	minPlotSide  = 10
)

// Options configures a Renderer. Zero fields take defaults.
type Options struct {
	Width      int
	Height     int
	Gradient   Gradient
	NoData     color.Color
	Background color.Color
}

// Renderer turns range query results into heatmap images.
type Renderer struct {
	width      int
	height     int
	gradient   Gradient
	noData     color.Color
	background color.Color
}

// New creates a Renderer.
func New(opts Options) *Renderer {
	r := &Renderer{
		width:      opts.Width,
		height:     opts.Height,
		gradient:   opts.Gradient,
		noData:     opts.NoData,
		background: opts.Background,
	}
	if r.width <= 0 {
		r.width = DefaultWidth
	}
	if r.height <= 0 {
		r.height = DefaultHeight
	}
	if len(r.gradient) == 0 {
		r.gradient = YlOrBr()
	}
	if r.noData == nil {
		r.noData = drawing.ColorFromHex("bdbdbd")
	}
	if r.background == nil {
		r.background = color.White
	}
	return r
}

// Size returns the figure size in pixels.
func (r *Renderer) Size() (int, int) {
	return r.width, r.height
}

// Render draws the slice and encodes it as PNG.
func (r *Renderer) Render(s model.Slice) ([]byte, error) {
	img, err := r.Image(s)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Image draws the slice into a new RGBA image of the renderer's size.
func (r *Renderer) Image(s model.Slice) (*image.RGBA, error) {
	grid, err := buildGrid(s)
	if err != nil {
		return nil, err
	}

	fig := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	draw.Draw(fig, fig.Bounds(), image.NewUniform(r.background), image.Point{}, draw.Src)

	plot, withAxes := r.plotArea()
	cells := r.rasterize(grid)
	draw.NearestNeighbor.Scale(fig, plot, cells, cells.Bounds(), draw.Src, nil)

	if withAxes {
		w, _ := grid.Dims()
		drawAxes(fig, plot, axis{lo: s.Depths[0], hi: s.Depths[len(s.Depths)-1]}, axis{lo: 0, hi: float64(w)})
	}
	return fig, nil
}

// plotArea returns the rectangle the grid is scaled into and whether there is
// room for axes around it.
func (r *Renderer) plotArea() (image.Rectangle, bool) {
	plotW := r.width - marginLeft - marginRight
	plotH := r.height - marginTop - marginBottom
	if plotW < minPlotSide || plotH < minPlotSide {
		return image.Rect(0, 0, r.width, r.height), false
	}
	return image.Rect(marginLeft, marginTop, marginLeft+plotW, marginTop+plotH), true
}

// rasterize maps each grid cell to one pixel. grid rows are samples, columns
// are depths.
func (r *Renderer) rasterize(grid mat.Matrix) *image.RGBA {
	rows, cols := grid.Dims()
	lo, hi, ok := finiteRange(grid)

	img := image.NewRGBA(image.Rect(0, 0, cols, rows))
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			v := grid.At(y, x)
			if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
				img.Set(x, y, r.noData)
				continue
			}
			img.SetRGBA(x, y, r.gradient.At(normalize(v, lo, hi)))
		}
	}
	return img
}

// buildGrid validates the slice and returns it as a samples x depths matrix.
func buildGrid(s model.Slice) (mat.Matrix, error) {
	if s.Empty() {
		return nil, &RenderError{Msg: "empty result set"}
	}
	if len(s.Depths) != len(s.Samples) {
		return nil, &RenderError{Msg: fmt.Sprintf("%d depths but %d sample rows", len(s.Depths), len(s.Samples))}
	}
	width := len(s.Samples[0])
	if width == 0 {
		return nil, &RenderError{Msg: "rows have no samples"}
	}

	data := make([]float64, 0, len(s.Samples)*width)
	for i, row := range s.Samples {
		if len(row) != width {
			return nil, &RenderError{Msg: fmt.Sprintf("row %d has %d samples, want %d", i, len(row), width)}
		}
		data = append(data, row...)
	}
	return mat.NewDense(len(s.Samples), width, data).T(), nil
}

// finiteRange returns the smallest and largest finite values in m. ok is false
// when m holds no finite value.
func finiteRange(m mat.Matrix) (lo, hi float64, ok bool) {
	rows, cols := m.Dims()
	lo, hi = math.Inf(1), math.Inf(-1)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := m.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
			ok = true
		}
	}
	return lo, hi, ok
}

// normalize maps v into [0, 1]. A flat range maps everything to 0.
func normalize(v, lo, hi float64) float64 {
	if hi <= lo {
		return 0
	}
	return (v - lo) / (hi - lo)
}
