package effect

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/sandpour/config"
	"github.com/pthm-cable/sandpour/pour"
	"github.com/pthm-cable/sandpour/trajectory"
)

// Config is the full setup of one controller.
type Config struct {
	Name        string
	Trajectory  trajectory.Params
	BaseGravity float64 // scaled by Trajectory.GravityScale
	Rates       pour.Rates

	SpawnOffset   mgl64.Vec3 // emitter origin relative to the reference frame
	CanonicalAxis mgl64.Vec3 // emission cone axis before orientation

	EmissionRate     float64
	ParticleLifetime float64
	ParticleSize     float64
	ConeAngleDeg     float64
	MaxParticles     int

	Indicator  Indicator
	Parameters ParameterNames
	Preview    PreviewSettings
}

// Indicator maps fill amount linearly onto [MinY, MaxY].
type Indicator struct {
	Enabled bool
	MinY    float64
	MaxY    float64
}

// Y returns the indicator coordinate for a fill amount.
func (i Indicator) Y(fillAmount float64) float64 {
	return pour.Lerp(i.MinY, i.MaxY, fillAmount)
}

// ParameterNames are the names used on the parameter sink.
type ParameterNames struct {
	FillAmount   string
	FillVelocity string
}

// PreviewSettings control PreviewPath sampling.
type PreviewSettings struct {
	Step      float64
	MaxSteps  int
	FallLimit float64
}

// Gravity is the effective gravity magnitude.
func (c Config) Gravity() float64 {
	return c.Trajectory.Gravity(c.BaseGravity)
}

// FromConfig builds a controller config from the loaded configuration.
func FromConfig(cfg *config.Config, name string) Config {
	return Config{
		Name: name,
		Trajectory: trajectory.Params{
			Direction:      cfg.Derived.LaunchDirection,
			LaunchAngleDeg: cfg.Emitter.LaunchAngle,
			Speed:          cfg.Emitter.StartSpeed,
			GravityScale:   cfg.Emitter.Gravity,
		},
		BaseGravity: cfg.Physics.Gravity,
		Rates: pour.Rates{
			FillSpeed: cfg.Pour.FillSpeed,
			RiseRate:  cfg.Pour.VelocityRiseSpeed,
			FallRate:  cfg.Pour.VelocityFallSpeed,
		},
		SpawnOffset:      cfg.Emitter.SpawnOffset,
		CanonicalAxis:    cfg.Derived.CanonicalAxis,
		EmissionRate:     cfg.Emitter.EmissionRate,
		ParticleLifetime: cfg.Emitter.ParticleLifetime,
		ParticleSize:     cfg.Emitter.ParticleSize,
		ConeAngleDeg:     cfg.Emitter.ConeAngle,
		MaxParticles:     cfg.Emitter.MaxParticles,
		Indicator: Indicator{
			Enabled: cfg.Indicator.Enabled,
			MinY:    cfg.Indicator.MinY,
			MaxY:    cfg.Indicator.MaxY,
		},
		Parameters: ParameterNames{
			FillAmount:   cfg.Parameters.FillAmount,
			FillVelocity: cfg.Parameters.FillVelocity,
		},
		Preview: PreviewSettings{
			Step:      cfg.Preview.Step,
			MaxSteps:  cfg.Preview.MaxSteps,
			FallLimit: cfg.Preview.FallLimit,
		},
	}
}
