// Package corridor extracts a planned access path from an arrival-time
// field by walking the steepest-descent direction from the target back to
// the source. The walk is a fixed-step gradient descent over finite
// differences; it has no formal convergence guarantee near flat regions, so
// a walk that stalls on a plateau or runs out of budget is returned as a
// partial path with Incomplete set rather than discarded; a partial
// corridor can still be informative to the caller.
package corridor

import (
	"errors"
	"fmt"
	"math"

	"github.com/osteon-labs/corridor.plan/internal/volume"
)

var (
	// ErrTargetOutOfBounds reports a target voxel outside the field.
	ErrTargetOutOfBounds = errors.New("corridor: target voxel out of bounds")
	// ErrTargetUnreachable reports a target with infinite arrival time:
	// the front never reached it, so no corridor exists.
	ErrTargetUnreachable = errors.New("corridor: target voxel unreachable from source")
)

// StopReason records why the descent walk terminated.
type StopReason int

const (
	// ReachedSource: the walk came within SourceTolerance of the source.
	ReachedSource StopReason = iota
	// GradientPlateau: the local gradient magnitude fell below the
	// numeric floor away from the source.
	GradientPlateau
	// LeftBounds: the next step would have exited the grid.
	LeftBounds
	// BudgetExhausted: MaxSteps iterations elapsed.
	BudgetExhausted
)

func (r StopReason) String() string {
	switch r {
	case ReachedSource:
		return "reached source"
	case GradientPlateau:
		return "gradient plateau"
	case LeftBounds:
		return "left grid bounds"
	case BudgetExhausted:
		return "step budget exhausted"
	default:
		return fmt.Sprintf("StopReason(%d)", int(r))
	}
}

// Path is an ordered corridor from source to target in continuous
// voxel-index coordinates. Incomplete is set when the walk stopped before
// reaching the source; Reason says why it stopped either way.
type Path struct {
	Points     []volume.Point
	Incomplete bool
	Reason     StopReason
}

// Options tunes the descent walk. Zero fields take the defaults below.
type Options struct {
	StepSize        float64 // voxels per step (default 0.5)
	SourceTolerance float64 // arrival radius around the source (default 2.0)
	MaxSteps        int     // iteration budget (default 10000)
}

const (
	defaultStepSize        = 0.5
	defaultSourceTolerance = 2.0
	defaultMaxSteps        = 10000

	// gradFloor is the magnitude below which the gradient is treated as a
	// plateau.
	gradFloor = 1e-6
)

func (o Options) withDefaults() Options {
	if o.StepSize <= 0 {
		o.StepSize = defaultStepSize
	}
	if o.SourceTolerance <= 0 {
		o.SourceTolerance = defaultSourceTolerance
	}
	if o.MaxSteps <= 0 {
		o.MaxSteps = defaultMaxSteps
	}
	return o
}

// Extract walks downhill through the arrival-time field from target toward
// source and returns the corridor ordered source → target. The walk is
// deterministic: identical inputs yield identical paths.
func Extract(arrival *volume.ScalarField, target, source volume.Voxel, opts Options) (Path, error) {
	opts = opts.withDefaults()

	if !arrival.InBounds(target.I, target.J, target.K) {
		return Path{}, fmt.Errorf("%w: %v for dims %v", ErrTargetOutOfBounds, target, arrival.Dims())
	}
	if math.IsInf(arrival.AtVoxel(target), 1) {
		return Path{}, fmt.Errorf("%w: %v", ErrTargetUnreachable, target)
	}

	src := volume.Point{X: float64(source.I), Y: float64(source.J), Z: float64(source.K)}
	cur := volume.Point{X: float64(target.I), Y: float64(target.J), Z: float64(target.K)}
	points := []volume.Point{cur}

	reason := BudgetExhausted
	if distance(cur, src) < opts.SourceTolerance {
		reason = ReachedSource
	} else {
		for step := 0; step < opts.MaxSteps; step++ {
			gx, gy, gz := gradientAt(arrival, cur)
			norm := math.Sqrt(gx*gx + gy*gy + gz*gz)
			if norm < gradFloor {
				reason = GradientPlateau
				break
			}

			// Downhill: against the gradient, which points away from
			// the source.
			next := volume.Point{
				X: cur.X - opts.StepSize*gx/norm,
				Y: cur.Y - opts.StepSize*gy/norm,
				Z: cur.Z - opts.StepSize*gz/norm,
			}
			if !inBounds(arrival, next) {
				reason = LeftBounds
				break
			}

			cur = next
			points = append(points, cur)

			if distance(cur, src) < opts.SourceTolerance {
				reason = ReachedSource
				break
			}
		}
	}

	// Walked target → source; report source → target.
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}

	return Path{
		Points:     points,
		Incomplete: reason != ReachedSource,
		Reason:     reason,
	}, nil
}

// gradientAt evaluates a finite-difference gradient of the arrival field at
// the voxel nearest to p. Central differences where both neighbours are
// finite, one-sided at field borders and against unreached (+Inf) voxels; an
// axis with no finite neighbour contributes zero.
func gradientAt(arrival *volume.ScalarField, p volume.Point) (gx, gy, gz float64) {
	dims := arrival.Dims()
	v := p.Voxel()
	i := clamp(v.I, dims[0]-1)
	j := clamp(v.J, dims[1]-1)
	k := clamp(v.K, dims[2]-1)

	gx = axisDiff(arrival, i, j, k, 0)
	gy = axisDiff(arrival, i, j, k, 1)
	gz = axisDiff(arrival, i, j, k, 2)
	return gx, gy, gz
}

func axisDiff(arrival *volume.ScalarField, i, j, k, axis int) float64 {
	center := arrival.At(i, j, k)
	if math.IsInf(center, 1) {
		// Unreached voxel under the walk position; no usable slope here.
		return 0
	}

	sample := func(step int) (float64, bool) {
		ni, nj, nk := i, j, k
		switch axis {
		case 0:
			ni += step
		case 1:
			nj += step
		case 2:
			nk += step
		}
		if !arrival.InBounds(ni, nj, nk) {
			return 0, false
		}
		t := arrival.At(ni, nj, nk)
		if math.IsInf(t, 1) {
			return 0, false
		}
		return t, true
	}

	fwd, okF := sample(1)
	back, okB := sample(-1)
	switch {
	case okF && okB:
		return (fwd - back) / 2
	case okF:
		return fwd - center
	case okB:
		return center - back
	default:
		return 0
	}
}

func inBounds(arrival *volume.ScalarField, p volume.Point) bool {
	dims := arrival.Dims()
	return p.X >= 0 && p.X < float64(dims[0]) &&
		p.Y >= 0 && p.Y < float64(dims[1]) &&
		p.Z >= 0 && p.Z < float64(dims[2])
}

func distance(a, b volume.Point) float64 {
	dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func clamp(v, hi int) int {
	if v < 0 {
		return 0
	}
	if v > hi {
		return hi
	}
	return v
}
