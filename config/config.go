// Package config provides configuration loading and access for the effect.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all effect configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Loop       LoopConfig       `yaml:"loop"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Pour       PourConfig       `yaml:"pour"`
	Emitter    EmitterConfig    `yaml:"emitter"`
	Indicator  IndicatorConfig  `yaml:"indicator"`
	Parameters ParametersConfig `yaml:"parameters"`
	Preview    PreviewConfig    `yaml:"preview"`
	Input      InputConfig      `yaml:"input"`
	Scene      SceneConfig      `yaml:"scene"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// LoopConfig holds headless tick settings.
type LoopConfig struct {
	DT             float64 `yaml:"dt"`
	StepsPerUpdate int     `yaml:"steps_per_update"`
}

// PhysicsConfig holds the base gravity magnitude.
type PhysicsConfig struct {
	Gravity float64 `yaml:"gravity"`
}

// PourConfig holds the pour state machine rates.
type PourConfig struct {
	FillSpeed         float64 `yaml:"fill_speed"`
	VelocityRiseSpeed float64 `yaml:"velocity_rise_speed"`
	VelocityFallSpeed float64 `yaml:"velocity_fall_speed"`
}

// EmitterConfig holds launch and emission settings.
type EmitterConfig struct {
	LaunchDirection  mgl64.Vec3 `yaml:"launch_direction"`
	LaunchAngle      float64    `yaml:"launch_angle"` // degrees below horizontal
	StartSpeed       float64    `yaml:"start_speed"`
	Gravity          float64    `yaml:"gravity"` // multiplier on physics.gravity
	ConeAngle        float64    `yaml:"cone_angle"`
	SpawnOffset      mgl64.Vec3 `yaml:"spawn_offset"`
	EmissionRate     float64    `yaml:"emission_rate"`
	ParticleLifetime float64    `yaml:"particle_lifetime"`
	ParticleSize     float64    `yaml:"particle_size"`
	MaxParticles     int        `yaml:"max_particles"`
	CanonicalAxis    mgl64.Vec3 `yaml:"canonical_axis"`
}

// IndicatorConfig maps fill amount onto the indicator's vertical position.
type IndicatorConfig struct {
	Enabled bool    `yaml:"enabled"`
	MinY    float64 `yaml:"min_y"`
	MaxY    float64 `yaml:"max_y"`
}

// ParametersConfig names the published parameters.
type ParametersConfig struct {
	FillAmount   string `yaml:"fill_amount"`
	FillVelocity string `yaml:"fill_velocity"`
}

// PreviewConfig holds trajectory preview sampling.
type PreviewConfig struct {
	Step      float64 `yaml:"step"`
	MaxSteps  int     `yaml:"max_steps"`
	FallLimit float64 `yaml:"fall_limit"`
}

// InputConfig holds the scripted pour schedule used in headless runs.
type InputConfig struct {
	PourSeconds  float64 `yaml:"pour_seconds"`
	PauseSeconds float64 `yaml:"pause_seconds"`
}

// SceneConfig lists the effects placed in the scene.
type SceneConfig struct {
	Effects []EffectPlacement `yaml:"effects"`
}

// EffectPlacement places one effect's reference frame in the world.
type EffectPlacement struct {
	Name           string     `yaml:"name"`
	Position       mgl64.Vec3 `yaml:"position"`
	SwayAmplitude  mgl64.Vec3 `yaml:"sway_amplitude"`
	SwayFrequency  float64    `yaml:"sway_frequency"` // Hz
	ReceiverOffset mgl64.Vec3 `yaml:"receiver_offset"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	LaunchDirection mgl64.Vec3 // Emitter.LaunchDirection normalized
	CanonicalAxis   mgl64.Vec3 // Emitter.CanonicalAxis normalized
	Gravity         float64    // Physics.Gravity * Emitter.Gravity
	DT32            float32
}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate checks ranges that the effect cannot run without.
func (c *Config) Validate() error {
	if c.Emitter.LaunchDirection.Len() == 0 {
		return fmt.Errorf("%w: emitter.launch_direction must be non-zero", ErrInvalid)
	}
	if c.Emitter.CanonicalAxis.Len() == 0 {
		return fmt.Errorf("%w: emitter.canonical_axis must be non-zero", ErrInvalid)
	}
	if c.Emitter.StartSpeed < 0 {
		return fmt.Errorf("%w: emitter.start_speed must be >= 0, got %g", ErrInvalid, c.Emitter.StartSpeed)
	}
	if c.Emitter.EmissionRate < 0 {
		return fmt.Errorf("%w: emitter.emission_rate must be >= 0, got %g", ErrInvalid, c.Emitter.EmissionRate)
	}
	for name, v := range map[string]float64{
		"pour.fill_speed":          c.Pour.FillSpeed,
		"pour.velocity_rise_speed": c.Pour.VelocityRiseSpeed,
		"pour.velocity_fall_speed": c.Pour.VelocityFallSpeed,
	} {
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("%w: %s must be >= 0, got %g", ErrInvalid, name, v)
		}
	}
	if c.Parameters.FillAmount == "" || c.Parameters.FillVelocity == "" {
		return fmt.Errorf("%w: parameters names must be set", ErrInvalid)
	}
	if c.Preview.Step <= 0 || c.Preview.MaxSteps < 1 || c.Preview.FallLimit < 0 {
		return fmt.Errorf("%w: preview needs step > 0, max_steps >= 1, fall_limit >= 0", ErrInvalid)
	}
	if c.Loop.DT <= 0 {
		return fmt.Errorf("%w: loop.dt must be > 0, got %g", ErrInvalid, c.Loop.DT)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.LaunchDirection = c.Emitter.LaunchDirection.Normalize()
	c.Derived.CanonicalAxis = c.Emitter.CanonicalAxis.Normalize()
	c.Derived.Gravity = c.Physics.Gravity * c.Emitter.Gravity
	c.Derived.DT32 = float32(c.Loop.DT)

	if c.Loop.StepsPerUpdate < 1 {
		c.Loop.StepsPerUpdate = 1
	}
	if c.Telemetry.PerfCollectorWindow < 1 {
		c.Telemetry.PerfCollectorWindow = 120
	}

	// Synthesize a single effect if the scene is empty
	if len(c.Scene.Effects) == 0 {
		c.Scene.Effects = []EffectPlacement{{Name: "machine"}}
	}
	for i := range c.Scene.Effects {
		if c.Scene.Effects[i].Name == "" {
			c.Scene.Effects[i].Name = fmt.Sprintf("effect-%d", i)
		}
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
