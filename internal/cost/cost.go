// Package cost converts a clearance field into the traversal-cost ("speed")
// field consumed by the arrival-time solver. Higher values mean safer,
// faster travel; values are normalised by the field's own maximum so the
// range is comparable across volumes of very different absolute clearance.
package cost

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/osteon-labs/corridor.plan/internal/volume"
)

// ErrNegativeMargin reports a negative safety margin.
var ErrNegativeMargin = errors.New("cost: safety margin must be non-negative")

const (
	// MinSpeed is the floor applied after normalisation. A strictly
	// positive floor guarantees the arrival-time front always makes
	// progress, even flush against an obstacle.
	MinSpeed = 0.1
	// MaxSpeed is the ceiling after normalisation.
	MaxSpeed = 1.0
)

// DefaultSafetyMargin is the conservative buffer (voxel units) added to
// clearance before normalising, biasing the field toward caution near bone
// to cover unsegmented vessels and nerves.
const DefaultSafetyMargin = 5.0

// Compute returns the traversal-cost field for the given clearance field and
// safety margin. Output values lie in [MinSpeed, MaxSpeed] and are monotone
// in clearance: a larger clearance never yields a smaller cost value.
func Compute(clear *volume.ScalarField, margin float64) (*volume.ScalarField, error) {
	if margin < 0 {
		return nil, fmt.Errorf("%w: got %v", ErrNegativeMargin, margin)
	}

	// Normalising by max(clearance)+margin is identical to shifting every
	// voxel by the margin first, and avoids a second pass.
	maxShifted := floats.Max(clear.Data()) + margin

	speed := volume.NewScalarField(clear.Dims())
	out := speed.Data()
	for i, c := range clear.Data() {
		s := (c + margin) / maxShifted
		if s < MinSpeed {
			s = MinSpeed
		} else if s > MaxSpeed {
			s = MaxSpeed
		}
		out[i] = s
	}
	return speed, nil
}
