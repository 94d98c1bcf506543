package cost

import (
	"errors"
	"testing"

	"github.com/osteon-labs/corridor.plan/internal/volume"
)

func clearanceField(t *testing.T, dims [3]int, values []float64) *volume.ScalarField {
	t.Helper()
	f := volume.NewScalarField(dims)
	copy(f.Data(), values)
	return f
}

func TestCompute_NegativeMargin(t *testing.T) {
	f := clearanceField(t, [3]int{2, 1, 1}, []float64{0, 1})
	_, err := Compute(f, -0.5)
	if !errors.Is(err, ErrNegativeMargin) {
		t.Fatalf("expected ErrNegativeMargin, got %v", err)
	}
}

func TestCompute_Range(t *testing.T) {
	// Clearances from an obstacle surface outward.
	f := clearanceField(t, [3]int{5, 1, 1}, []float64{0, 1, 2, 5, 10})

	for _, margin := range []float64{0, 1, 5, 50} {
		speed, err := Compute(f, margin)
		if err != nil {
			t.Fatalf("Compute(margin=%v): %v", margin, err)
		}
		for i, s := range speed.Data() {
			if s < MinSpeed || s > MaxSpeed {
				t.Errorf("margin %v: speed[%d] = %v outside [%v, %v]",
					margin, i, s, MinSpeed, MaxSpeed)
			}
		}
		// The maximum-clearance voxel always normalises to full speed.
		if got := speed.At(4, 0, 0); got != MaxSpeed {
			t.Errorf("margin %v: speed at max clearance = %v, want %v", margin, got, MaxSpeed)
		}
	}
}

func TestCompute_MonotoneInClearance(t *testing.T) {
	f := clearanceField(t, [3]int{6, 1, 1}, []float64{0, 0.5, 1, 3, 7, 12})
	speed, err := Compute(f, 2)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	data := speed.Data()
	for i := 1; i < len(data); i++ {
		if data[i] < data[i-1] {
			t.Errorf("speed not monotone in clearance: speed[%d]=%v < speed[%d]=%v",
				i, data[i], i-1, data[i-1])
		}
	}
}

// TestCompute_MarginFlattens verifies a larger margin never lowers the cost
// of any voxel: it pushes the near-bone penalty outward.
func TestCompute_MarginFlattens(t *testing.T) {
	f := clearanceField(t, [3]int{5, 1, 1}, []float64{0, 1, 2, 4, 8})

	low, err := Compute(f, 1)
	if err != nil {
		t.Fatalf("Compute(margin=1): %v", err)
	}
	high, err := Compute(f, 6)
	if err != nil {
		t.Fatalf("Compute(margin=6): %v", err)
	}
	for i := range low.Data() {
		if high.Data()[i] < low.Data()[i] {
			t.Errorf("voxel %d: margin 6 speed %v < margin 1 speed %v",
				i, high.Data()[i], low.Data()[i])
		}
	}
}
