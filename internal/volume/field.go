package volume

// ScalarField is a dense 3-D float64 field with the same indexing scheme as
// Grid. Clearance, traversal-cost and arrival-time fields all share this
// representation; each stage of the pipeline writes a field once and hands
// it to the next stage read-only.
type ScalarField struct {
	dims [3]int
	data []float64
}

// NewScalarField allocates a zero-filled field with the given dimensions.
func NewScalarField(dims [3]int) *ScalarField {
	return &ScalarField{
		dims: dims,
		data: make([]float64, dims[0]*dims[1]*dims[2]),
	}
}

// Dims returns the field dimensions.
func (f *ScalarField) Dims() [3]int { return f.dims }

// Len returns the total element count.
func (f *ScalarField) Len() int { return len(f.data) }

// InBounds reports whether (i,j,k) lies inside the field.
func (f *ScalarField) InBounds(i, j, k int) bool {
	return i >= 0 && i < f.dims[0] &&
		j >= 0 && j < f.dims[1] &&
		k >= 0 && k < f.dims[2]
}

// Index returns the linear index of (i,j,k).
func (f *ScalarField) Index(i, j, k int) int {
	return i + f.dims[0]*(j+f.dims[1]*k)
}

// Coords is the inverse of Index.
func (f *ScalarField) Coords(idx int) (i, j, k int) {
	i = idx % f.dims[0]
	idx /= f.dims[0]
	j = idx % f.dims[1]
	k = idx / f.dims[1]
	return i, j, k
}

// At returns the value at (i,j,k). Caller must ensure bounds.
func (f *ScalarField) At(i, j, k int) float64 {
	return f.data[f.Index(i, j, k)]
}

// AtVoxel returns the value at v. Caller must ensure bounds.
func (f *ScalarField) AtVoxel(v Voxel) float64 {
	return f.At(v.I, v.J, v.K)
}

// Set stores a value at (i,j,k). Caller must ensure bounds.
func (f *ScalarField) Set(i, j, k int, v float64) {
	f.data[f.Index(i, j, k)] = v
}

// Fill sets every element to v.
func (f *ScalarField) Fill(v float64) {
	for i := range f.data {
		f.data[i] = v
	}
}

// Data returns the backing slice in linear-index order. Exposed for bulk
// scans (gonum floats); callers must not resize it.
func (f *ScalarField) Data() []float64 { return f.data }
