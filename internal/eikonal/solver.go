// Package eikonal computes minimum cumulative travel cost ("arrival time")
// from a source voxel to every voxel of a traversal-cost field, solving the
// Eikonal equation |∇T| = 1/F by the fast marching method.
//
// The front is propagated through a narrow band kept in a binary min-heap:
// voxels are finalised strictly in non-decreasing arrival-time order, so a
// finalised value is never revised. That ordering is the correctness
// invariant the tests verify; the heap is explicit rather than hidden inside
// a solver dependency so the ordering stays observable.
//
// Voxels whose speed is zero (or negative) are impassable and keep arrival
// time +Inf, as do voxels the front never reaches within the configured
// visit budget.
package eikonal

import (
	"container/heap"
	"errors"
	"fmt"
	"math"

	"github.com/osteon-labs/corridor.plan/internal/volume"
)

var (
	// ErrSourceOutOfBounds reports a source voxel outside the field.
	ErrSourceOutOfBounds = errors.New("eikonal: source voxel out of bounds")
	// ErrSourceInObstacle reports a source voxel with effectively zero
	// speed; the front cannot leave it. Callers should reject selections
	// inside bone before solving.
	ErrSourceInObstacle = errors.New("eikonal: source voxel has zero traversal speed")
)

// Options tunes a solve. The zero value solves the full field.
type Options struct {
	// MaxVisits bounds the number of voxels finalised, letting a caller
	// cap a long solve (0 = no limit). Voxels beyond the budget remain at
	// +Inf and read as unreachable.
	MaxVisits int
}

// Voxel finalisation states.
const (
	stateFar byte = iota
	stateNarrow
	stateFrozen
)

// Solve computes the arrival-time field for the given speed field and source
// voxel. The returned field is 0 at the source, finite wherever the front
// reached, and +Inf elsewhere.
func Solve(speed *volume.ScalarField, source volume.Voxel, opts Options) (*volume.ScalarField, error) {
	dims := speed.Dims()
	if !speed.InBounds(source.I, source.J, source.K) {
		return nil, fmt.Errorf("%w: %v for dims %v", ErrSourceOutOfBounds, source, dims)
	}
	if speed.AtVoxel(source) <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrSourceInObstacle, source)
	}

	arrival := volume.NewScalarField(dims)
	arrival.Fill(math.Inf(1))
	state := make([]byte, arrival.Len())

	src := arrival.Index(source.I, source.J, source.K)
	arrival.Data()[src] = 0

	band := &bandQueue{}
	heap.Init(band)
	heap.Push(band, &bandItem{idx: src, t: 0})
	state[src] = stateNarrow

	// 6-connected face neighbours.
	var (
		di = [6]int{-1, 1, 0, 0, 0, 0}
		dj = [6]int{0, 0, -1, 1, 0, 0}
		dk = [6]int{0, 0, 0, 0, -1, 1}
	)

	tData := arrival.Data()
	sData := speed.Data()
	visits := 0

	for band.Len() > 0 {
		item := heap.Pop(band).(*bandItem)
		if state[item.idx] == stateFrozen {
			continue // stale heap entry superseded by a better one
		}
		state[item.idx] = stateFrozen
		visits++
		if opts.MaxVisits > 0 && visits >= opts.MaxVisits {
			break
		}

		ci, cj, ck := arrival.Coords(item.idx)
		for d := 0; d < 6; d++ {
			ni, nj, nk := ci+di[d], cj+dj[d], ck+dk[d]
			if !arrival.InBounds(ni, nj, nk) {
				continue
			}
			nIdx := arrival.Index(ni, nj, nk)
			if state[nIdx] == stateFrozen {
				continue
			}
			f := sData[nIdx]
			if f <= 0 {
				continue // impassable
			}

			t := updateArrival(arrival, state, ni, nj, nk, f)
			if t < tData[nIdx] {
				tData[nIdx] = t
				state[nIdx] = stateNarrow
				heap.Push(band, &bandItem{idx: nIdx, t: t})
			}
		}
	}

	return arrival, nil
}

// updateArrival solves the upwind quadratic for voxel (i,j,k) with speed f,
// using the smallest frozen neighbour arrival time along each axis. Axis
// minima are accumulated smallest-first and terms are added while they stay
// causal (aₘ < t); a negative discriminant falls back to the previous term
// count, which for one term degenerates to a₁ + 1/f.
func updateArrival(arrival *volume.ScalarField, state []byte, i, j, k int, f float64) float64 {
	a := [3]float64{}
	n := 0
	for axis := 0; axis < 3; axis++ {
		m := axisMin(arrival, state, i, j, k, axis)
		if math.IsInf(m, 1) {
			continue
		}
		a[n] = m
		n++
	}
	if n == 0 {
		return math.Inf(1)
	}
	// Sort the up-to-three axis minima ascending.
	if n > 1 && a[0] > a[1] {
		a[0], a[1] = a[1], a[0]
	}
	if n > 2 {
		if a[1] > a[2] {
			a[1], a[2] = a[2], a[1]
		}
		if a[0] > a[1] {
			a[0], a[1] = a[1], a[0]
		}
	}

	inv := 1 / f
	t := a[0] + inv
	for m := 2; m <= n; m++ {
		if t <= a[m-1] {
			break // further terms are not upwind of t
		}
		var sum, sumSq float64
		for q := 0; q < m; q++ {
			sum += a[q]
			sumSq += a[q] * a[q]
		}
		fm := float64(m)
		disc := sum*sum - fm*(sumSq-inv*inv)
		if disc < 0 {
			break
		}
		t = (sum + math.Sqrt(disc)) / fm
	}
	return t
}

// axisMin returns the smaller frozen arrival time of the two neighbours of
// (i,j,k) along the given axis, or +Inf when neither is frozen.
func axisMin(arrival *volume.ScalarField, state []byte, i, j, k, axis int) float64 {
	m := math.Inf(1)
	for _, step := range [2]int{-1, 1} {
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
			continue
		}
		idx := arrival.Index(ni, nj, nk)
		if state[idx] != stateFrozen {
			continue
		}
		if t := arrival.Data()[idx]; t < m {
			m = t
		}
	}
	return m
}

// bandItem is a narrow-band entry in the fast-marching priority queue.
type bandItem struct {
	idx   int
	t     float64
	index int
}

// bandQueue implements heap.Interface ordered by tentative arrival time.
type bandQueue []*bandItem

func (q bandQueue) Len() int           { return len(q) }
func (q bandQueue) Less(i, j int) bool { return q[i].t < q[j].t }
func (q bandQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *bandQueue) Push(x interface{}) {
	n := len(*q)
	item := x.(*bandItem)
	item.index = n
	*q = append(*q, item)
}

func (q *bandQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*q = old[:n-1]
	return item
}
