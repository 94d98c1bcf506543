package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/osteon-labs/corridor.plan/internal/planner"
)

// TuningConfig is the JSON schema for planner tuning. All fields are
// pointers so a partial config file only overrides what it names; nil
// fields fall back to the planner defaults.
type TuningConfig struct {
	// Cost field params
	SafetyMargin *float64 `json:"safety_margin,omitempty"` // voxels, e.g. 5.0

	// Safety verdict params
	MinSafeClearance *float64 `json:"min_safe_clearance,omitempty"` // voxels, e.g. 3.0

	// Path extraction params
	StepSize     *float64 `json:"step_size,omitempty"`      // voxels per descent step
	MaxPathSteps *int     `json:"max_path_steps,omitempty"` // descent iteration budget

	// Arrival solve params
	MaxSolveVisits *int `json:"max_solve_visits,omitempty"` // voxel budget, 0 = unlimited
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// DefaultTuningConfig returns a fully-populated config matching
// planner.DefaultParams.
func DefaultTuningConfig() *TuningConfig {
	p := planner.DefaultParams()
	return &TuningConfig{
		SafetyMargin:     ptrFloat64(p.SafetyMargin),
		MinSafeClearance: ptrFloat64(p.MinSafeClearance),
		StepSize:         ptrFloat64(p.StepSize),
		MaxPathSteps:     ptrInt(p.MaxPathSteps),
		MaxSolveVisits:   ptrInt(p.MaxSolveVisits),
	}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. Fields omitted
// from the JSON retain their defaults, so partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that any set fields hold values the planner will accept.
func (c *TuningConfig) Validate() error {
	if c.SafetyMargin != nil && *c.SafetyMargin < 0 {
		return fmt.Errorf("safety_margin must be non-negative, got %f", *c.SafetyMargin)
	}
	if c.MinSafeClearance != nil && *c.MinSafeClearance <= 0 {
		return fmt.Errorf("min_safe_clearance must be positive, got %f", *c.MinSafeClearance)
	}
	if c.StepSize != nil && *c.StepSize < 0 {
		return fmt.Errorf("step_size must be non-negative, got %f", *c.StepSize)
	}
	if c.MaxPathSteps != nil && *c.MaxPathSteps < 0 {
		return fmt.Errorf("max_path_steps must be non-negative, got %d", *c.MaxPathSteps)
	}
	if c.MaxSolveVisits != nil && *c.MaxSolveVisits < 0 {
		return fmt.Errorf("max_solve_visits must be non-negative, got %d", *c.MaxSolveVisits)
	}
	return nil
}

// Params materialises the config into planner parameters, falling back to
// planner.DefaultParams for unset fields.
func (c *TuningConfig) Params() planner.Params {
	p := planner.DefaultParams()
	if c.SafetyMargin != nil {
		p.SafetyMargin = *c.SafetyMargin
	}
	if c.MinSafeClearance != nil {
		p.MinSafeClearance = *c.MinSafeClearance
	}
	if c.StepSize != nil {
		p.StepSize = *c.StepSize
	}
	if c.MaxPathSteps != nil {
		p.MaxPathSteps = *c.MaxPathSteps
	}
	if c.MaxSolveVisits != nil {
		p.MaxSolveVisits = *c.MaxSolveVisits
	}
	return p
}
