package model

// Row is one depth-indexed record.
type Row struct {
	Depth   float64
	Samples []float64
}

// Matrix is an ordered sequence of rows.
// All rows of a well-formed Matrix carry the same number of samples.
type Matrix struct {
	Rows []Row
}

// Len returns the number of rows.
func (m Matrix) Len() int {
	return len(m.Rows)
}

// Width returns the sample count of the first row, or 0 for an empty matrix.
func (m Matrix) Width() int {
	if len(m.Rows) == 0 {
		return 0
	}
	return len(m.Rows[0].Samples)
}

// Depths returns the depth column.
func (m Matrix) Depths() []float64 {
	depths := make([]float64, len(m.Rows))
	for i, r := range m.Rows {
		depths[i] = r.Depth
	}
	return depths
}

// Slice is the result of a depth range query.
// Depths[i] is the depth of the sample vector Samples[i].
type Slice struct {
	Depths  []float64
	Samples [][]float64
}

// Len returns the number of matched depths.
func (s Slice) Len() int {
	return len(s.Depths)
}

// Empty reports whether no depth matched.
func (s Slice) Empty() bool {
	return len(s.Depths) == 0
}

// EmptySlice returns a Slice with non-nil, zero-length fields.
func EmptySlice() Slice {
	return Slice{Depths: []float64{}, Samples: [][]float64{}}
}
