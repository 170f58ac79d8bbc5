package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Pour.FillSpeed != 0.2 || cfg.Pour.VelocityRiseSpeed != 10 || cfg.Pour.VelocityFallSpeed != 2 {
		t.Errorf("unexpected pour defaults: %+v", cfg.Pour)
	}
	if cfg.Emitter.LaunchAngle != 30 || cfg.Emitter.StartSpeed != 2.5 {
		t.Errorf("unexpected emitter defaults: %+v", cfg.Emitter)
	}
	if cfg.Indicator.MinY != -0.77 || cfg.Indicator.MaxY != 0.925 {
		t.Errorf("unexpected indicator defaults: %+v", cfg.Indicator)
	}
	if cfg.Parameters.FillAmount != "_FillAmount" || cfg.Parameters.FillVelocity != "_FillVelocity" {
		t.Errorf("unexpected parameter names: %+v", cfg.Parameters)
	}
	if cfg.Emitter.SpawnOffset != (mgl64.Vec3{-0.5, -0.3, 0}) {
		t.Errorf("unexpected spawn offset: %v", cfg.Emitter.SpawnOffset)
	}
	if len(cfg.Scene.Effects) != 1 || cfg.Scene.Effects[0].Name != "machine" {
		t.Errorf("unexpected scene: %+v", cfg.Scene)
	}
}

func TestLoad_DerivedValues(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(cfg.Derived.LaunchDirection.Len()-1) > 1e-12 {
		t.Errorf("expected normalized launch direction, got %v", cfg.Derived.LaunchDirection)
	}
	if math.Abs(cfg.Derived.Gravity-9.81*1.2) > 1e-12 {
		t.Errorf("expected gravity %f, got %f", 9.81*1.2, cfg.Derived.Gravity)
	}
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad_OverridesMergeWithDefaults(t *testing.T) {
	path := writeFile(t, `
emitter:
  launch_direction: [3, 0, 4]
  launch_angle: 45
pour:
  fill_speed: 0.5
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Emitter.LaunchAngle != 45 || cfg.Pour.FillSpeed != 0.5 {
		t.Errorf("overrides not applied: %+v %+v", cfg.Emitter, cfg.Pour)
	}
	// Untouched fields keep their defaults
	if cfg.Emitter.StartSpeed != 2.5 || cfg.Pour.VelocityFallSpeed != 2 {
		t.Errorf("defaults lost: %+v %+v", cfg.Emitter, cfg.Pour)
	}
	want := mgl64.Vec3{0.6, 0, 0.8}
	if cfg.Derived.LaunchDirection.Sub(want).Len() > 1e-12 {
		t.Errorf("expected normalized direction %v, got %v", want, cfg.Derived.LaunchDirection)
	}
}

func TestLoad_RejectsZeroDirection(t *testing.T) {
	path := writeFile(t, "emitter:\n  launch_direction: [0, 0, 0]\n")
	_, err := Load(path)
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestLoad_RejectsNegativeRates(t *testing.T) {
	path := writeFile(t, "pour:\n  velocity_fall_speed: -1\n")
	_, err := Load(path)
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_EmptySceneSynthesized(t *testing.T) {
	path := writeFile(t, "scene:\n  effects: []\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Scene.Effects) != 1 || cfg.Scene.Effects[0].Name == "" {
		t.Errorf("expected one synthesized effect, got %+v", cfg.Scene.Effects)
	}
}

func TestWriteYAML_RoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Pour.FillSpeed = 0.33
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.Pour.FillSpeed != 0.33 {
		t.Errorf("expected fill speed 0.33 after reload, got %f", loaded.Pour.FillSpeed)
	}
}

func TestCfgAfterMustInit(t *testing.T) {
	MustInit("")
	if Cfg().Physics.Gravity != 9.81 {
		t.Errorf("expected gravity 9.81, got %f", Cfg().Physics.Gravity)
	}
}
