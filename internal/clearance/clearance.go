// Package clearance derives, for every voxel of a labelled volume, the
// Euclidean distance (in voxel units) to the nearest obstacle voxel.
//
// The transform is the exact squared-distance algorithm of Felzenszwalb and
// Huttenlocher: a lower-envelope-of-parabolas pass along each axis in turn,
// O(N) per axis. Obstacle voxels seed the transform at distance zero, so
// every obstacle voxel reports clearance 0 and free-space values satisfy the
// 1-Lipschitz property between neighbours.
package clearance

import (
	"errors"
	"math"

	"github.com/osteon-labs/corridor.plan/internal/volume"
)

// ErrEmptyObstacleSet reports a volume with no obstacle voxels; the distance
// transform is unbounded and planning against it is meaningless.
var ErrEmptyObstacleSet = errors.New("clearance: volume contains no obstacle voxels")

// seedInf stands in for +infinity in the squared-distance passes. Kept
// finite so parabola intersections never produce NaN; any surviving value
// this large means a row with no seed, which a later axis pass resolves.
const seedInf = 1e20

// Compute returns the clearance field for g. Fails with ErrEmptyObstacleSet
// when g contains no voxel with label > 0.
func Compute(g *volume.Grid) (*volume.ScalarField, error) {
	dims := g.Dims()
	f := volume.NewScalarField(dims)

	// Seed: squared distance 0 at obstacles, "infinite" elsewhere.
	seeded := false
	for k := 0; k < dims[2]; k++ {
		for j := 0; j < dims[1]; j++ {
			for i := 0; i < dims[0]; i++ {
				if g.Obstacle(volume.Voxel{I: i, J: j, K: k}) {
					seeded = true
				} else {
					f.Set(i, j, k, seedInf)
				}
			}
		}
	}
	if !seeded {
		return nil, ErrEmptyObstacleSet
	}

	maxDim := dims[0]
	if dims[1] > maxDim {
		maxDim = dims[1]
	}
	if dims[2] > maxDim {
		maxDim = dims[2]
	}
	row := make([]float64, maxDim)
	out := make([]float64, maxDim)
	v := make([]int, maxDim)
	z := make([]float64, maxDim+1)

	// Axis I.
	for k := 0; k < dims[2]; k++ {
		for j := 0; j < dims[1]; j++ {
			for i := 0; i < dims[0]; i++ {
				row[i] = f.At(i, j, k)
			}
			envelope(row[:dims[0]], out[:dims[0]], v, z)
			for i := 0; i < dims[0]; i++ {
				f.Set(i, j, k, out[i])
			}
		}
	}

	// Axis J.
	for k := 0; k < dims[2]; k++ {
		for i := 0; i < dims[0]; i++ {
			for j := 0; j < dims[1]; j++ {
				row[j] = f.At(i, j, k)
			}
			envelope(row[:dims[1]], out[:dims[1]], v, z)
			for j := 0; j < dims[1]; j++ {
				f.Set(i, j, k, out[j])
			}
		}
	}

	// Axis K.
	for j := 0; j < dims[1]; j++ {
		for i := 0; i < dims[0]; i++ {
			for k := 0; k < dims[2]; k++ {
				row[k] = f.At(i, j, k)
			}
			envelope(row[:dims[2]], out[:dims[2]], v, z)
			for k := 0; k < dims[2]; k++ {
				f.Set(i, j, k, out[k])
			}
		}
	}

	// Squared distances → Euclidean.
	data := f.Data()
	for i, d := range data {
		if d <= 0 {
			data[i] = 0
			continue
		}
		data[i] = math.Sqrt(d)
	}
	return f, nil
}

// envelope performs the 1-D squared-distance transform of f into d using the
// lower envelope of the parabolas q ↦ (q-p)² + f[p]. v holds the parabola
// vertices, z the boundaries between consecutive parabolas.
func envelope(f, d []float64, v []int, z []float64) {
	n := len(f)
	if n == 1 {
		d[0] = f[0]
		return
	}
	k := 0
	v[0] = 0
	z[0] = -seedInf
	z[1] = seedInf
	for q := 1; q < n; q++ {
		s := intersect(f, q, v[k])
		for s <= z[k] {
			k--
			s = intersect(f, q, v[k])
		}
		k++
		v[k] = q
		z[k] = s
		z[k+1] = seedInf
	}
	k = 0
	for q := 0; q < n; q++ {
		for z[k+1] < float64(q) {
			k++
		}
		dq := float64(q - v[k])
		d[q] = dq*dq + f[v[k]]
	}
}

// intersect returns the abscissa where the parabolas rooted at q and p cross.
func intersect(f []float64, q, p int) float64 {
	return ((f[q] + float64(q*q)) - (f[p] + float64(p*p))) / float64(2*(q-p))
}
