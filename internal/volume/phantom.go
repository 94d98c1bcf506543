package volume

// CervicalPhantom builds a synthetic cervical-spine segmentation for tests
// and demos: seven vertebral bodies (labels 1..7) spaced along the K axis,
// each a rectangular body with a hollow spinal canal and two lateral
// processes. The geometry is coarse but leaves the canal and the volume
// margins as free-space corridors, which is all the planner needs.
//
// Spacing is set to 1 mm isotropic.
func CervicalPhantom(dims [3]int) (*Grid, error) {
	labels := make([]float64, dims[0]*dims[1]*dims[2])
	g, err := NewGrid(dims, [3]float64{1, 1, 1}, labels)
	if err != nil {
		return nil, err
	}

	cx, cy := dims[0]/2, dims[1]/2
	set := func(i0, i1, j0, j1, k int, label float64) {
		for i := max(i0, 0); i < min(i1, dims[0]); i++ {
			for j := max(j0, 0); j < min(j1, dims[1]); j++ {
				labels[i+dims[0]*(j+dims[1]*k)] = label
			}
		}
	}

	for n := 0; n < 7; n++ {
		kc := 15 + n*12
		label := float64(n + 1)
		for k := kc - 4; k < kc+4; k++ {
			if k < 0 || k >= dims[2] {
				continue
			}
			// Vertebral body.
			set(cx-20, cx+20, cy-25, cy+25, k, label)
			// Hollow spinal canal.
			set(cx-8, cx+8, cy-8, cy+8, k, 0)
			// Lateral processes.
			set(cx-28, cx-20, cy-10, cy+10, k, label)
			set(cx+20, cx+28, cy-10, cy+10, k, label)
		}
	}
	return g, nil
}

// BlockPhantom builds a volume that is free space except for a solid
// axis-aligned obstacle block spanning [lo, hi) on each axis. Used by tests
// that need a single central obstacle. Spacing is 1 mm isotropic.
func BlockPhantom(dims [3]int, lo, hi [3]int) (*Grid, error) {
	labels := make([]float64, dims[0]*dims[1]*dims[2])
	g, err := NewGrid(dims, [3]float64{1, 1, 1}, labels)
	if err != nil {
		return nil, err
	}
	for k := max(lo[2], 0); k < min(hi[2], dims[2]); k++ {
		for j := max(lo[1], 0); j < min(hi[1], dims[1]); j++ {
			for i := max(lo[0], 0); i < min(hi[0], dims[0]); i++ {
				labels[i+dims[0]*(j+dims[1]*k)] = 1
			}
		}
	}
	return g, nil
}
