// Package effect wires the pour state machine and the trajectory solver into
// a per-frame controller that publishes to external sinks.
//
// The controller never reads input devices or engine state itself. The pour
// command arrives as an argument to Tick, the reference frame through a
// ReferenceFrame, and every output leaves through an optional sink. Sinks
// that are not set are skipped.
package effect

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/pthm-cable/sandpour/pour"
	"github.com/pthm-cable/sandpour/trajectory"
)

// drainEpsilon is the fill velocity below which a stopped stream is reported as drained.
const drainEpsilon = 1e-3

// EmitterFrame is the emitter pose for one tick.
type EmitterFrame struct {
	Origin          mgl64.Vec3
	Orientation     mgl64.Quat
	InitialVelocity mgl64.Vec3
}

// EmissionSettings is the one-time emitter setup pushed at Start.
type EmissionSettings struct {
	Rate         float64
	LifetimeMin  float64
	LifetimeMax  float64
	SpeedMin     float64
	SpeedMax     float64
	SizeMin      float64
	SizeMax      float64
	GravityScale float64
	ConeAngleDeg float64
	MaxParticles int
	Direction    mgl64.Vec3 // final launch direction
	Orientation  mgl64.Quat // rotation of the emission cone
}

// Snapshot is everything a tick produced.
type Snapshot struct {
	Tick         int64
	Time         float64
	Command      bool // effective command after any override
	Forced       bool
	State        pour.State
	Frame        EmitterFrame
	IndicatorY   float64
	EmissionRate float64
}

// Option configures a Controller.
type Option func(*Controller)

// WithParameters sets the named-parameter sink.
func WithParameters(s ParameterSink) Option { return func(c *Controller) { c.params = s } }

// WithIndicator sets the indicator sink.
func WithIndicator(s VerticalSink) Option { return func(c *Controller) { c.indicator = s } }

// WithEmitter sets the emission sink.
func WithEmitter(s EmissionSink) Option { return func(c *Controller) { c.emitter = s } }

// WithPose sets the emitter pose sink.
func WithPose(s PoseSink) Option { return func(c *Controller) { c.pose = s } }

// WithReference sets the reference frame the emitter follows.
func WithReference(r ReferenceFrame) Option { return func(c *Controller) { c.reference = r } }

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option { return func(c *Controller) { c.logger = l } }

// Controller drives one pouring effect.
type Controller struct {
	cfg     Config
	machine *pour.Machine
	logger  *slog.Logger

	params    ParameterSink
	indicator VerticalSink
	emitter   EmissionSink
	pose      PoseSink
	reference ReferenceFrame

	// Cached from cfg.Trajectory; recomputed by SetTrajectory only
	finalDir    mgl64.Vec3
	v0          mgl64.Vec3
	orientation mgl64.Quat

	frame EmitterFrame

	forced      bool
	forcedValue bool
	rate        float64
	started     bool
	drained     bool

	tick    int64
	elapsed float64
}

// New validates cfg and creates a controller. The emitter origin starts at
// the spawn offset until a reference frame is read.
func New(cfg Config, opts ...Option) (*Controller, error) {
	if cfg.Parameters.FillAmount == "" || cfg.Parameters.FillVelocity == "" {
		return nil, errors.Wrap(ErrInvalidConfig, "parameter names must be set")
	}
	if !(cfg.EmissionRate >= 0) {
		return nil, errors.Wrapf(ErrInvalidConfig, "emission rate %g", cfg.EmissionRate)
	}
	if err := cfg.Rates.Validate(); err != nil {
		return nil, invalidConfig("rates", err)
	}

	c := &Controller{
		cfg:     cfg,
		machine: pour.New(cfg.Rates),
		rate:    cfg.EmissionRate,
		drained: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.logger = c.logger.With("effect", cfg.Name)

	if err := c.applyTrajectory(cfg.Trajectory); err != nil {
		return nil, err
	}
	c.frame.Origin = cfg.SpawnOffset
	c.updateFrame()
	return c, nil
}

func (c *Controller) applyTrajectory(p trajectory.Params) error {
	finalDir, err := p.FinalDirection()
	if err != nil {
		return invalidConfig("launch direction", err)
	}
	v0, err := p.InitialVelocity()
	if err != nil {
		return invalidConfig("launch velocity", err)
	}
	rot, err := trajectory.OrientationFromDirection(finalDir, c.cfg.CanonicalAxis)
	if err != nil {
		return invalidConfig("orientation", err)
	}
	c.cfg.Trajectory = p
	c.finalDir = finalDir
	c.v0 = v0
	c.orientation = rot
	return nil
}

// Start pushes the one-time emission setup and leaves the emitter disabled.
func (c *Controller) Start() {
	c.started = true
	if c.emitter == nil {
		return
	}
	if cfgr, ok := c.emitter.(EmissionConfigurer); ok {
		cfgr.Configure(c.EmissionSettings())
	}
	c.emitter.SetRate(c.rate)
	c.emitter.SetEnabled(false)
	c.logger.Info("effect started",
		"rate", c.rate,
		"speed", c.cfg.Trajectory.Speed,
		"launch_angle", c.cfg.Trajectory.LaunchAngleDeg,
	)
}

// EmissionSettings derives the emitter setup from the config.
func (c *Controller) EmissionSettings() EmissionSettings {
	return EmissionSettings{
		Rate:         c.rate,
		LifetimeMin:  c.cfg.ParticleLifetime * 0.7,
		LifetimeMax:  c.cfg.ParticleLifetime,
		SpeedMin:     c.cfg.Trajectory.Speed * 0.9,
		SpeedMax:     c.cfg.Trajectory.Speed,
		SizeMin:      c.cfg.ParticleSize * 0.5,
		SizeMax:      c.cfg.ParticleSize,
		GravityScale: c.cfg.Trajectory.GravityScale,
		ConeAngleDeg: c.cfg.ConeAngleDeg,
		MaxParticles: c.cfg.MaxParticles,
		Direction:    c.finalDir,
		Orientation:  c.orientation,
	}
}

// Tick advances the effect by dt seconds. command is the nominal pour input
// for this tick; a latched SetPouring value takes precedence.
func (c *Controller) Tick(command bool, dt float64) Snapshot {
	if !(dt > 0) {
		dt = 0
	}
	if c.forced {
		command = c.forcedValue
	}

	prev := c.machine.State()
	state := c.machine.Tick(command, dt)
	c.tick++
	c.elapsed += dt

	c.updateFrame()
	c.logTransitions(prev, state)
	indicatorY := c.publish(state)

	return Snapshot{
		Tick:         c.tick,
		Time:         c.elapsed,
		Command:      command,
		Forced:       c.forced,
		State:        state,
		Frame:        c.frame,
		IndicatorY:   indicatorY,
		EmissionRate: c.rate,
	}
}

func (c *Controller) updateFrame() {
	if c.reference != nil {
		c.frame.Origin = c.reference.Position().Add(c.cfg.SpawnOffset)
	}
	c.frame.Orientation = c.orientation
	c.frame.InitialVelocity = c.v0
}

func (c *Controller) publish(s pour.State) float64 {
	if c.params != nil {
		c.params.SetFloat(c.cfg.Parameters.FillAmount, s.FillAmount)
		c.params.SetFloat(c.cfg.Parameters.FillVelocity, s.FillVelocity)
	}
	if c.emitter != nil {
		c.emitter.SetEnabled(s.IsPouring)
	}
	if c.pose != nil {
		c.pose.SetPose(c.frame)
	}

	y := c.cfg.Indicator.Y(s.FillAmount)
	if c.cfg.Indicator.Enabled && c.indicator != nil {
		c.indicator.SetVertical(y)
	}
	return y
}

func (c *Controller) logTransitions(prev, next pour.State) {
	if prev.IsPouring != next.IsPouring {
		c.logger.Debug("pour "+next.Phase().String(),
			"tick", c.tick,
			"fill_amount", next.FillAmount,
			"fill_velocity", next.FillVelocity,
		)
	}
	if next.IsPouring {
		c.drained = false
		return
	}
	if !c.drained && next.Drained(drainEpsilon) {
		c.drained = true
		c.logger.Debug("stream drained", "tick", c.tick, "fill_amount", next.FillAmount)
	}
}

// SetPouring latches the pour command for every following tick, ignoring the
// nominal input, and toggles the emitter immediately. ReleasePouring hands
// control back to the input.
func (c *Controller) SetPouring(pouring bool) {
	c.forced = true
	c.forcedValue = pouring
	if c.emitter != nil {
		c.emitter.SetEnabled(pouring)
	}
}

// ReleasePouring drops a SetPouring override.
func (c *Controller) ReleasePouring() {
	c.forced = false
}

// Forced reports whether a SetPouring override is active and its value.
func (c *Controller) Forced() (active, pouring bool) {
	return c.forced, c.forcedValue
}

// SetEmissionRate overrides the emission rate. Negative or NaN rates become 0.
func (c *Controller) SetEmissionRate(rate float64) {
	if !(rate >= 0) {
		rate = 0
	}
	c.rate = rate
	if c.emitter != nil {
		c.emitter.SetRate(rate)
	}
}

// EmissionRate returns the current emission rate.
func (c *Controller) EmissionRate() float64 { return c.rate }

// SetTrajectory replaces the launch params and recomputes the cached launch
// velocity and orientation. A started emitter that accepts configuration is
// reconfigured.
func (c *Controller) SetTrajectory(p trajectory.Params) error {
	if err := c.applyTrajectory(p); err != nil {
		return err
	}
	c.updateFrame()
	if c.started && c.emitter != nil {
		if cfgr, ok := c.emitter.(EmissionConfigurer); ok {
			cfgr.Configure(c.EmissionSettings())
		}
	}
	return nil
}

// PreviewPath samples the current trajectory from the current emitter origin.
func (c *Controller) PreviewPath(step float64, maxSteps int, fallLimit float64) (trajectory.Path, error) {
	return trajectory.SamplePath(c.frame.Origin, c.v0, c.cfg.Gravity(), step, maxSteps, fallLimit)
}

// Preview samples the trajectory with the configured preview settings.
func (c *Controller) Preview() (trajectory.Path, error) {
	p := c.cfg.Preview
	return c.PreviewPath(p.Step, p.MaxSteps, p.FallLimit)
}

// Frame returns the emitter frame of the last tick.
func (c *Controller) Frame() EmitterFrame { return c.frame }

// State returns the pour state.
func (c *Controller) State() pour.State { return c.machine.State() }

// Machine exposes the owned state machine for direct set and reset.
func (c *Controller) Machine() *pour.Machine { return c.machine }

// Params returns the current launch params.
func (c *Controller) Params() trajectory.Params { return c.cfg.Trajectory }

// Config returns the controller config.
func (c *Controller) Config() Config { return c.cfg }

// Name returns the configured effect name.
func (c *Controller) Name() string { return c.cfg.Name }
