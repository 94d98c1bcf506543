// Package planner orchestrates the corridor-planning pipeline behind a
// small state machine driven by point-selection events. Any front end (CLI,
// GUI, web) drives a session with the same three events: select source,
// select target, reset.
//
// The session caches the clearance and traversal-cost fields once per
// volume; each planning query gets its own arrival-time buffer, so separate
// sessions over the same grid may plan concurrently. A failed plan leaves
// the session exactly as it was before the triggering selection.
package planner

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/osteon-labs/corridor.plan/internal/clearance"
	"github.com/osteon-labs/corridor.plan/internal/corridor"
	"github.com/osteon-labs/corridor.plan/internal/cost"
	"github.com/osteon-labs/corridor.plan/internal/eikonal"
	"github.com/osteon-labs/corridor.plan/internal/safety"
	"github.com/osteon-labs/corridor.plan/internal/volume"
)

// State is the session's position in the selection lifecycle.
type State int

const (
	// StateEmpty: no points chosen.
	StateEmpty State = iota
	// StateSourceSet: entry point chosen, waiting for the target.
	StateSourceSet
	// StatePlanned: target chosen and a plan computed; further
	// selections are ignored until Reset.
	StatePlanned
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateSourceSet:
		return "source-set"
	case StatePlanned:
		return "planned"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Params captures every tunable of a planning session, for reproducibility.
type Params struct {
	SafetyMargin     float64 // voxels added to clearance before normalising (e.g. 5.0)
	MinSafeClearance float64 // verdict threshold in voxels (e.g. 3.0)
	StepSize         float64 // descent step in voxels (0 = extractor default)
	MaxPathSteps     int     // descent iteration budget (0 = extractor default)
	MaxSolveVisits   int     // arrival-solve voxel budget (0 = unlimited)
}

// DefaultParams returns the conservative defaults used by the demo tooling.
func DefaultParams() Params {
	return Params{
		SafetyMargin:     cost.DefaultSafetyMargin,
		MinSafeClearance: safety.DefaultMinSafeClearance,
	}
}

// Result is one completed planning query.
type Result struct {
	PlanID     string // unique per query
	Source     volume.Voxel
	Target     volume.Voxel
	Path       corridor.Path
	Report     safety.Report
	TravelTime float64 // cumulative cost at the target under the solved field
}

// Session owns the cached derived fields for one volume and runs planning
// queries against them. Safe for use from multiple goroutines.
type Session struct {
	mu sync.Mutex

	grid  *volume.Grid
	clear *volume.ScalarField
	speed *volume.ScalarField

	params Params
	state  State
	source volume.Voxel
	target volume.Voxel
	result *Result
}

// NewSession computes the clearance and traversal-cost fields for the grid
// and returns a session in StateEmpty. Construction fails if the volume has
// no obstacles or the parameters are invalid; nothing is cached on failure.
func NewSession(grid *volume.Grid, params Params) (*Session, error) {
	if params.MinSafeClearance <= 0 {
		return nil, fmt.Errorf("planner: %w: min safe clearance %v",
			safety.ErrInvalidThreshold, params.MinSafeClearance)
	}
	clear, err := clearance.Compute(grid)
	if err != nil {
		return nil, fmt.Errorf("planner: compute clearance: %w", err)
	}
	speed, err := cost.Compute(clear, params.SafetyMargin)
	if err != nil {
		return nil, fmt.Errorf("planner: compute traversal cost: %w", err)
	}
	return &Session{
		grid:   grid,
		clear:  clear,
		speed:  speed,
		params: params,
		state:  StateEmpty,
	}, nil
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Params returns the session parameters.
func (s *Session) Params() Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// Clearance returns the session's cached clearance field (read-only).
func (s *Session) Clearance() *volume.ScalarField { return s.clear }

// Source returns the selected entry point, if one has been chosen.
func (s *Session) Source() (volume.Voxel, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source, s.state != StateEmpty
}

// Target returns the selected target point, if a plan has been computed.
func (s *Session) Target() (volume.Voxel, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.target, s.state == StatePlanned
}

// Result returns the last completed plan, if any.
func (s *Session) Result() (*Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result, s.result != nil
}

// SelectPoint feeds one point-selection event into the state machine.
//
// In StateEmpty the point becomes the source (after bounds and obstacle
// checks) and no Result is returned yet. In StateSourceSet the point becomes
// the target and the full pipeline runs, returning the Result. In
// StatePlanned the event is ignored and the previous Result is returned;
// callers must Reset first to start over.
//
// Any error leaves the session in its prior state.
func (s *Session) SelectPoint(v volume.Voxel) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateEmpty:
		if !s.grid.InBounds(v) {
			return nil, fmt.Errorf("planner: select source: %w: %v", eikonal.ErrSourceOutOfBounds, v)
		}
		if s.grid.Obstacle(v) {
			return nil, fmt.Errorf("planner: select source: %w: %v", eikonal.ErrSourceInObstacle, v)
		}
		s.source = v
		s.state = StateSourceSet
		return nil, nil

	case StateSourceSet:
		res, err := s.plan(v)
		if err != nil {
			return nil, err
		}
		s.target = v
		s.result = res
		s.state = StatePlanned
		return res, nil

	default: // StatePlanned: ignored, mirrors the third-click UX contract
		return s.result, nil
	}
}

// plan runs solve → extract → evaluate for the given target against the
// cached fields. Caller holds s.mu.
func (s *Session) plan(target volume.Voxel) (*Result, error) {
	arrival, err := eikonal.Solve(s.speed, s.source, eikonal.Options{
		MaxVisits: s.params.MaxSolveVisits,
	})
	if err != nil {
		return nil, fmt.Errorf("planner: solve arrival times: %w", err)
	}

	path, err := corridor.Extract(arrival, target, s.source, corridor.Options{
		StepSize: s.params.StepSize,
		MaxSteps: s.params.MaxPathSteps,
	})
	if err != nil {
		return nil, fmt.Errorf("planner: extract corridor: %w", err)
	}

	report, err := safety.Evaluate(path, s.clear, s.params.MinSafeClearance)
	if err != nil {
		return nil, fmt.Errorf("planner: evaluate corridor: %w", err)
	}

	return &Result{
		PlanID:     uuid.NewString(),
		Source:     s.source,
		Target:     target,
		Path:       path,
		Report:     report,
		TravelTime: arrival.AtVoxel(target),
	}, nil
}

// Reset clears the source, target and result and returns to StateEmpty.
// Valid from any state.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = volume.Voxel{}
	s.target = volume.Voxel{}
	s.result = nil
	s.state = StateEmpty
}

// SetSafetyMargin recomputes the cached traversal-cost field with a new
// margin. The clearance field is unaffected. Existing results keep the
// margin they were planned with; the session state is otherwise unchanged.
func (s *Session) SetSafetyMargin(margin float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	speed, err := cost.Compute(s.clear, margin)
	if err != nil {
		return fmt.Errorf("planner: recompute traversal cost: %w", err)
	}
	s.speed = speed
	s.params.SafetyMargin = margin
	return nil
}
