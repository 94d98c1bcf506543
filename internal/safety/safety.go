// Package safety scores a planned corridor against the clearance field,
// producing the clearance statistics and verdict the caller presents to the
// surgeon. Evaluation is a pure function of its inputs.
package safety

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/osteon-labs/corridor.plan/internal/corridor"
	"github.com/osteon-labs/corridor.plan/internal/volume"
)

// ErrInvalidThreshold reports a non-positive minimum-safe-clearance
// threshold.
var ErrInvalidThreshold = errors.New("safety: minimum safe clearance must be positive")

// DefaultMinSafeClearance is the default verdict threshold in voxel units.
const DefaultMinSafeClearance = 3.0

// Report holds clearance statistics sampled along a corridor. Clearances are
// in voxel units. PointCount is the number of in-bounds path points that
// contributed to the statistics; points outside the grid are excluded, not
// counted as zero clearance.
type Report struct {
	MinClearance  float64
	MaxClearance  float64
	MeanClearance float64
	PointCount    int
	Safe          bool
}

// Evaluate samples clearance at the voxel nearest each path point and
// returns min/max/mean statistics plus the verdict: Safe iff the minimum
// sampled clearance is at least minSafeClearance. A path with no in-bounds
// points yields a zero Report with Safe=false.
func Evaluate(path corridor.Path, clear *volume.ScalarField, minSafeClearance float64) (Report, error) {
	if minSafeClearance <= 0 {
		return Report{}, fmt.Errorf("%w: got %v", ErrInvalidThreshold, minSafeClearance)
	}

	samples := make([]float64, 0, len(path.Points))
	for _, p := range path.Points {
		v := p.Voxel()
		if !clear.InBounds(v.I, v.J, v.K) {
			continue
		}
		samples = append(samples, clear.AtVoxel(v))
	}
	if len(samples) == 0 {
		return Report{}, nil
	}

	minC := floats.Min(samples)
	return Report{
		MinClearance:  minC,
		MaxClearance:  floats.Max(samples),
		MeanClearance: stat.Mean(samples, nil),
		PointCount:    len(samples),
		Safe:          minC >= minSafeClearance,
	}, nil
}

// Recommendation returns a short advisory string for the report, tiered on
// minimum clearance the same way the verdict thresholds are.
func (r Report) Recommendation() string {
	switch {
	case r.PointCount == 0:
		return "no corridor to evaluate"
	case r.MinClearance < DefaultMinSafeClearance:
		return "path too close to bone; consider an alternative approach"
	case r.MinClearance < 5.0:
		return "acceptable with caution; consider imaging guidance"
	default:
		return "good surgical corridor"
	}
}
