package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osteon-labs/corridor.plan/internal/clearance"
	"github.com/osteon-labs/corridor.plan/internal/corridor"
	"github.com/osteon-labs/corridor.plan/internal/eikonal"
	"github.com/osteon-labs/corridor.plan/internal/safety"
	"github.com/osteon-labs/corridor.plan/internal/volume"
)

// centreBlockGrid is the canonical 10×10×10 scenario volume: free space with
// a solid 4×4×4 obstacle cube in the middle.
func centreBlockGrid(t *testing.T) *volume.Grid {
	t.Helper()
	g, err := volume.BlockPhantom([3]int{10, 10, 10}, [3]int{3, 3, 3}, [3]int{7, 7, 7})
	require.NoError(t, err)
	return g
}

func TestNewSession_Validation(t *testing.T) {
	t.Run("no obstacles", func(t *testing.T) {
		labels := make([]float64, 4*4*4)
		g, err := volume.NewGrid([3]int{4, 4, 4}, [3]float64{1, 1, 1}, labels)
		require.NoError(t, err)

		_, err = NewSession(g, DefaultParams())
		assert.ErrorIs(t, err, clearance.ErrEmptyObstacleSet)
	})

	t.Run("bad threshold", func(t *testing.T) {
		params := DefaultParams()
		params.MinSafeClearance = 0
		_, err := NewSession(centreBlockGrid(t), params)
		assert.ErrorIs(t, err, safety.ErrInvalidThreshold)
	})
}

// TestSession_PlansAroundObstacle runs the full pipeline corner to corner
// across the centre cube and expects a corridor that routes around the bone,
// not through it.
func TestSession_PlansAroundObstacle(t *testing.T) {
	grid := centreBlockGrid(t)
	params := DefaultParams()
	params.SafetyMargin = 0.5 // sharpen the near-bone penalty on a small volume
	params.MinSafeClearance = 1.0

	session, err := NewSession(grid, params)
	require.NoError(t, err)

	res, err := session.SelectPoint(volume.Voxel{I: 0, J: 0, K: 0})
	require.NoError(t, err)
	assert.Nil(t, res, "no result until the target is chosen")
	assert.Equal(t, StateSourceSet, session.State())

	res, err = session.SelectPoint(volume.Voxel{I: 9, J: 9, K: 9})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, StatePlanned, session.State())

	assert.False(t, res.Path.Incomplete, "stopped early: %v", res.Path.Reason)
	assert.NotEmpty(t, res.PlanID)
	assert.Greater(t, res.TravelTime, 0.0)

	// The corridor must never enter bone: clearance at every sampled voxel
	// stays positive.
	for i, p := range res.Path.Points {
		v := p.Voxel()
		if grid.InBounds(v) && grid.Obstacle(v) {
			t.Fatalf("path point %d (%v) is inside the obstacle", i, v)
		}
	}

	assert.Greater(t, res.Report.MinClearance, 0.0)
	assert.True(t, res.Report.Safe, "expected safe verdict at threshold 1.0, min clearance %v",
		res.Report.MinClearance)
	assert.GreaterOrEqual(t, res.Report.MaxClearance, res.Report.MinClearance)
}

// TestSession_ThirdSelectIgnored drives three selections: the third must not
// disturb the computed plan, and an explicit Reset clears everything.
func TestSession_ThirdSelectIgnored(t *testing.T) {
	session, err := NewSession(centreBlockGrid(t), DefaultParams())
	require.NoError(t, err)

	_, err = session.SelectPoint(volume.Voxel{I: 0, J: 0, K: 0})
	require.NoError(t, err)
	first, err := session.SelectPoint(volume.Voxel{I: 9, J: 9, K: 9})
	require.NoError(t, err)
	require.NotNil(t, first)

	third, err := session.SelectPoint(volume.Voxel{I: 5, J: 0, K: 0})
	require.NoError(t, err)
	assert.Equal(t, StatePlanned, session.State(), "third selection must be ignored")
	assert.Same(t, first, third, "third selection returns the existing plan")

	tgt, ok := session.Target()
	require.True(t, ok)
	assert.Equal(t, volume.Voxel{I: 9, J: 9, K: 9}, tgt, "target unchanged by third selection")

	session.Reset()
	assert.Equal(t, StateEmpty, session.State())
	if _, ok := session.Source(); ok {
		t.Error("source survived reset")
	}
	if _, ok := session.Target(); ok {
		t.Error("target survived reset")
	}
	if _, ok := session.Result(); ok {
		t.Error("result survived reset")
	}
}

func TestSession_RejectsBadSource(t *testing.T) {
	session, err := NewSession(centreBlockGrid(t), DefaultParams())
	require.NoError(t, err)

	t.Run("out of bounds", func(t *testing.T) {
		_, err := session.SelectPoint(volume.Voxel{I: 10, J: 0, K: 0})
		assert.ErrorIs(t, err, eikonal.ErrSourceOutOfBounds)
		assert.Equal(t, StateEmpty, session.State(), "failed selection leaves state untouched")
	})

	t.Run("inside obstacle", func(t *testing.T) {
		_, err := session.SelectPoint(volume.Voxel{I: 5, J: 5, K: 5})
		assert.ErrorIs(t, err, eikonal.ErrSourceInObstacle)
		assert.Equal(t, StateEmpty, session.State())
	})
}

func TestSession_FailedPlanKeepsPriorState(t *testing.T) {
	t.Run("target out of bounds", func(t *testing.T) {
		session, err := NewSession(centreBlockGrid(t), DefaultParams())
		require.NoError(t, err)

		_, err = session.SelectPoint(volume.Voxel{I: 0, J: 0, K: 0})
		require.NoError(t, err)

		_, err = session.SelectPoint(volume.Voxel{I: 0, J: 0, K: 10})
		assert.ErrorIs(t, err, corridor.ErrTargetOutOfBounds)
		assert.Equal(t, StateSourceSet, session.State())
		if _, ok := session.Result(); ok {
			t.Error("failed plan left a result behind")
		}

		// The session is still usable with a valid target.
		res, err := session.SelectPoint(volume.Voxel{I: 9, J: 9, K: 9})
		require.NoError(t, err)
		assert.NotNil(t, res)
	})

	t.Run("target unreachable under solve budget", func(t *testing.T) {
		params := DefaultParams()
		params.MaxSolveVisits = 5
		session, err := NewSession(centreBlockGrid(t), params)
		require.NoError(t, err)

		_, err = session.SelectPoint(volume.Voxel{I: 0, J: 0, K: 0})
		require.NoError(t, err)

		_, err = session.SelectPoint(volume.Voxel{I: 9, J: 9, K: 9})
		assert.ErrorIs(t, err, corridor.ErrTargetUnreachable)
		assert.Equal(t, StateSourceSet, session.State())
	})
}

func TestSession_ReplanIsDeterministic(t *testing.T) {
	session, err := NewSession(centreBlockGrid(t), DefaultParams())
	require.NoError(t, err)

	plan := func() *Result {
		t.Helper()
		_, err := session.SelectPoint(volume.Voxel{I: 0, J: 0, K: 0})
		require.NoError(t, err)
		res, err := session.SelectPoint(volume.Voxel{I: 9, J: 9, K: 9})
		require.NoError(t, err)
		require.NotNil(t, res)
		return res
	}

	a := plan()
	session.Reset()
	b := plan()

	assert.Equal(t, a.Path.Points, b.Path.Points, "identical inputs must yield identical paths")
	assert.Equal(t, a.Report, b.Report)
	assert.NotEqual(t, a.PlanID, b.PlanID, "each plan gets its own ID")
}

func TestSession_SetSafetyMargin(t *testing.T) {
	session, err := NewSession(centreBlockGrid(t), DefaultParams())
	require.NoError(t, err)

	require.Error(t, session.SetSafetyMargin(-1))
	assert.Equal(t, DefaultParams().SafetyMargin, session.Params().SafetyMargin,
		"rejected margin must not stick")

	require.NoError(t, session.SetSafetyMargin(2.5))
	assert.Equal(t, 2.5, session.Params().SafetyMargin)

	// Planning still works against the recomputed cost field.
	_, err = session.SelectPoint(volume.Voxel{I: 0, J: 0, K: 0})
	require.NoError(t, err)
	res, err := session.SelectPoint(volume.Voxel{I: 9, J: 9, K: 9})
	require.NoError(t, err)
	assert.NotNil(t, res)
}
