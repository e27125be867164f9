package config

import (
	"strings"
	"testing"
)

func TestResolvePresets(t *testing.T) {
	tc := TasksetConfig{Preset: "normal"}
	specs, err := tc.Resolve()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(specs) != 6 {
		t.Errorf("normal preset has %d tasks, want 6", len(specs))
	}
	if specs[0].Period != 10 || specs[5].Period != 100 {
		t.Errorf("normal preset periods wrong: %+v", specs)
	}

	tc = TasksetConfig{Preset: "stressed"}
	specs, err = tc.Resolve()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if specs[0].WCET != 3 || specs[5].WCET != 12 {
		t.Errorf("stressed preset wcets wrong: %+v", specs)
	}

	// Empty preset falls back to normal.
	tc = TasksetConfig{}
	if _, err := tc.Resolve(); err != nil {
		t.Errorf("empty preset should default to normal: %v", err)
	}
}

func TestResolveCustom(t *testing.T) {
	tc := TasksetConfig{Preset: "custom"}
	if _, err := tc.Resolve(); err == nil {
		t.Error("custom preset without tasks must fail")
	}

	tc.Tasks = []TaskSpec{{Period: 5, Deadline: 5, WCET: 1}}
	specs, err := tc.Resolve()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(specs) != 1 || specs[0].Period != 5 {
		t.Errorf("custom taskset not returned as given: %+v", specs)
	}
}

func TestResolveUnknownPreset(t *testing.T) {
	tc := TasksetConfig{Preset: "chaotic"}
	if _, err := tc.Resolve(); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestValidateConfig(t *testing.T) {
	base := func() Config {
		return Config{
			Policy:  PolicyConfig{Name: "edf"},
			Taskset: TasksetConfig{Preset: "normal"},
		}
	}

	if err := validateConfig(&Config{Taskset: TasksetConfig{Preset: "normal"}}); err == nil {
		t.Error("expected error for empty policy name")
	}

	cfg := base()
	if err := validateConfig(&cfg); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	cfg = base()
	cfg.Taskset = TasksetConfig{
		Preset: "custom",
		Tasks:  []TaskSpec{{Period: 10, Deadline: 10, WCET: 0}},
	}
	err := validateConfig(&cfg)
	if err == nil || !strings.Contains(err.Error(), "wcet") {
		t.Errorf("expected wcet validation error, got %v", err)
	}

	cfg = base()
	cfg.Taskset = TasksetConfig{
		Preset: "custom",
		Tasks:  []TaskSpec{{Period: 10, Deadline: 4, WCET: 5}},
	}
	err = validateConfig(&cfg)
	if err == nil || !strings.Contains(err.Error(), "exceeds deadline") {
		t.Errorf("expected wcet>deadline validation error, got %v", err)
	}

	cfg = base()
	cfg.Metrics = MetricsConfig{Enabled: true, Port: -1, Path: "/metrics"}
	if err := validateConfig(&cfg); err == nil {
		t.Error("expected error for invalid metrics port")
	}
}
