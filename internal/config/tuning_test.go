package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/osteon-labs/corridor.plan/internal/planner"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultTuningConfig(t *testing.T) {
	cfg := DefaultTuningConfig()

	if cfg.SafetyMargin == nil || *cfg.SafetyMargin != 5.0 {
		t.Errorf("expected SafetyMargin 5.0, got %v", cfg.SafetyMargin)
	}
	if cfg.MinSafeClearance == nil || *cfg.MinSafeClearance != 3.0 {
		t.Errorf("expected MinSafeClearance 3.0, got %v", cfg.MinSafeClearance)
	}

	if got, want := cfg.Params(), planner.DefaultParams(); got != want {
		t.Errorf("Params() = %+v, want defaults %+v", got, want)
	}
}

func TestLoadTuningConfig_PartialOverride(t *testing.T) {
	path := writeConfig(t, "tuning.json", `{"safety_margin": 8.5, "max_path_steps": 500}`)

	cfg, err := LoadTuningConfig(path)
	if err != nil {
		t.Fatalf("LoadTuningConfig: %v", err)
	}

	params := cfg.Params()
	if params.SafetyMargin != 8.5 {
		t.Errorf("SafetyMargin = %v, want 8.5", params.SafetyMargin)
	}
	if params.MaxPathSteps != 500 {
		t.Errorf("MaxPathSteps = %d, want 500", params.MaxPathSteps)
	}
	// Unset fields fall back to defaults.
	if params.MinSafeClearance != planner.DefaultParams().MinSafeClearance {
		t.Errorf("MinSafeClearance = %v, want default", params.MinSafeClearance)
	}
}

func TestLoadTuningConfig_Rejects(t *testing.T) {
	cases := []struct {
		name string
		file string
		body string
	}{
		{"wrong extension", "tuning.yaml", `{}`},
		{"bad json", "tuning.json", `{"safety_margin": `},
		{"negative margin", "tuning.json", `{"safety_margin": -1}`},
		{"zero clearance", "tuning.json", `{"min_safe_clearance": 0}`},
		{"negative budget", "tuning.json", `{"max_solve_visits": -2}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.file, tc.body)
			if _, err := LoadTuningConfig(path); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoadTuningConfig_MissingFile(t *testing.T) {
	if _, err := LoadTuningConfig(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
