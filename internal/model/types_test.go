package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatrix_WidthAndDepths(t *testing.T) {
	m := Matrix{Rows: []Row{
		{Depth: 100, Samples: []float64{1, 2, 3}},
		{Depth: 150, Samples: []float64{4, 5, 6}},
	}}

	assert.Equal(t, 2, m.Len())
	assert.Equal(t, 3, m.Width())
	assert.Equal(t, []float64{100, 150}, m.Depths())
}

func TestMatrix_EmptyWidth(t *testing.T) {
	assert.Equal(t, 0, Matrix{}.Width())
	assert.Empty(t, Matrix{}.Depths())
}

func TestEmptySlice(t *testing.T) {
	s := EmptySlice()
	assert.True(t, s.Empty())
	assert.NotNil(t, s.Depths)
	assert.NotNil(t, s.Samples)
	assert.Equal(t, 0, s.Len())
}
