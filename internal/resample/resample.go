// Package resample resizes sample vectors to a fixed width by piecewise-linear
// interpolation over their index positions.
package resample

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/roach88/depthview/internal/model"
)

// Positions returns width evenly spaced positions over [0, n-1].
// A width of one yields the single position 0.
func Positions(n, width int) []float64 {
	if width <= 0 {
		return nil
	}
	if width == 1 || n <= 1 {
		return make([]float64, width)
	}
	return floats.Span(make([]float64, width), 0, float64(n-1))
}

// Row interpolates samples at width evenly spaced positions.
//
// Integer positions return the source value unchanged, so a width equal to
// len(samples) is the identity. A single sample yields a constant row and an
// empty input yields NaN.
func Row(samples []float64, width int) []float64 {
	out := make([]float64, width)
	switch len(samples) {
	case 0:
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	case 1:
		for i := range out {
			out[i] = samples[0]
		}
		return out
	}

	last := len(samples) - 1
	for i, t := range Positions(len(samples), width) {
		lo := int(math.Floor(t))
		if lo >= last {
			out[i] = samples[last]
			continue
		}
		frac := t - float64(lo)
		if frac == 0 {
			out[i] = samples[lo]
			continue
		}
		out[i] = samples[lo] + (samples[lo+1]-samples[lo])*frac
	}
	return out
}

// Matrix resamples every row of m to width samples. Depths are copied as is.
func Matrix(m model.Matrix, width int) (model.Matrix, error) {
	if width < 1 {
		return model.Matrix{}, fmt.Errorf("resample: width must be at least 1, got %d", width)
	}
	out := model.Matrix{Rows: make([]model.Row, len(m.Rows))}
	for i, r := range m.Rows {
		out.Rows[i] = model.Row{Depth: r.Depth, Samples: Row(r.Samples, width)}
	}
	return out, nil
}
