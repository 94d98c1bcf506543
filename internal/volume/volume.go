// Package volume provides the voxel grid types shared by the corridor
// planning pipeline: the immutable labelled volume produced by an external
// loader, and the dense scalar fields derived from it (clearance, traversal
// cost, arrival times).
//
// A Grid is read-only after construction. Every downstream component treats
// it as a binary obstacle/free field: any label > 0 is an obstacle (bone),
// label 0 is free space. Label identity is irrelevant to planning.
package volume

import (
	"errors"
	"fmt"
)

// ErrBadDimensions reports a grid constructed with non-positive dimensions
// or a backing slice whose length does not match the dimensions.
var ErrBadDimensions = errors.New("volume: malformed grid dimensions")

// Voxel is an integer grid coordinate.
type Voxel struct {
	I, J, K int
}

// Point is a continuous position in voxel-index space. Path extraction
// produces sub-voxel positions, so planning paths are sequences of Points
// rather than Voxels.
type Point struct {
	X, Y, Z float64
}

// Voxel returns the nearest integer voxel to the point (round half away
// from zero on each axis).
func (p Point) Voxel() Voxel {
	return Voxel{I: roundInt(p.X), J: roundInt(p.Y), K: roundInt(p.Z)}
}

func roundInt(v float64) int {
	if v >= 0 {
		return int(v + 0.5)
	}
	return int(v - 0.5)
}

// Grid is an immutable labelled volume with physical spacing. Dimensions and
// spacing are fixed for the lifetime of a planning session; no component
// mutates the labels after construction, so concurrent reads are safe.
type Grid struct {
	dims    [3]int
	spacing [3]float64 // mm per voxel along each axis
	labels  []float64
}

// NewGrid wraps a dense label volume. The labels slice is indexed
// i + dims[0]*(j + dims[1]*k) and must have exactly dims[0]*dims[1]*dims[2]
// elements. Spacing axes must be positive; pass {1,1,1} when physical
// spacing is unknown.
func NewGrid(dims [3]int, spacing [3]float64, labels []float64) (*Grid, error) {
	for a := 0; a < 3; a++ {
		if dims[a] <= 0 {
			return nil, fmt.Errorf("%w: dims=%v", ErrBadDimensions, dims)
		}
		if spacing[a] <= 0 {
			return nil, fmt.Errorf("%w: spacing=%v", ErrBadDimensions, spacing)
		}
	}
	if len(labels) != dims[0]*dims[1]*dims[2] {
		return nil, fmt.Errorf("%w: %d labels for dims %v", ErrBadDimensions, len(labels), dims)
	}
	return &Grid{dims: dims, spacing: spacing, labels: labels}, nil
}

// Dims returns the grid dimensions (voxels per axis).
func (g *Grid) Dims() [3]int { return g.dims }

// Spacing returns the physical voxel spacing in mm per axis.
func (g *Grid) Spacing() [3]float64 { return g.spacing }

// NumVoxels returns the total voxel count.
func (g *Grid) NumVoxels() int { return len(g.labels) }

// InBounds reports whether v lies inside the grid.
func (g *Grid) InBounds(v Voxel) bool {
	return v.I >= 0 && v.I < g.dims[0] &&
		v.J >= 0 && v.J < g.dims[1] &&
		v.K >= 0 && v.K < g.dims[2]
}

// Label returns the raw label at v. Caller must ensure v is in bounds.
func (g *Grid) Label(v Voxel) float64 {
	return g.labels[v.I+g.dims[0]*(v.J+g.dims[1]*v.K)]
}

// Obstacle reports whether v is an obstacle voxel (any label > 0).
func (g *Grid) Obstacle(v Voxel) bool {
	return g.Label(v) > 0
}

// VoxelsToMM converts a distance measured in voxel units to millimetres
// using the mean axis spacing. Exact only for isotropic volumes; the solver
// indexes isotropically, so this is a display conversion, not a planning
// input.
func (g *Grid) VoxelsToMM(d float64) float64 {
	return d * (g.spacing[0] + g.spacing[1] + g.spacing[2]) / 3
}
