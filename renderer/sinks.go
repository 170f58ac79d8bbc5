package renderer

import "github.com/pthm-cable/sandpour/effect"

// Emitter receives emission state from a controller and holds it for drawing.
type Emitter struct {
	Enabled    bool
	Rate       float64
	Settings   effect.EmissionSettings
	Configured bool
	Frame      effect.EmitterFrame
}

// SetEnabled implements effect.EmissionSink.
func (e *Emitter) SetEnabled(enabled bool) { e.Enabled = enabled }

// SetRate implements effect.EmissionSink.
func (e *Emitter) SetRate(rate float64) { e.Rate = rate }

// Configure implements effect.EmissionConfigurer.
func (e *Emitter) Configure(s effect.EmissionSettings) {
	e.Settings = s
	e.Configured = true
}

// SetPose implements effect.PoseSink.
func (e *Emitter) SetPose(f effect.EmitterFrame) { e.Frame = f }

// Indicator holds the fill indicator's local vertical position.
type Indicator struct {
	Y float64
}

// SetVertical implements effect.VerticalSink.
func (i *Indicator) SetVertical(y float64) { i.Y = y }

// EffectVisual bundles the sinks of one effect.
type EffectVisual struct {
	Material  effect.ParameterMap
	Emitter   *Emitter
	Indicator *Indicator
}

// NewEffectVisual creates empty sinks.
func NewEffectVisual() *EffectVisual {
	return &EffectVisual{
		Material:  effect.ParameterMap{},
		Emitter:   &Emitter{},
		Indicator: &Indicator{},
	}
}

// Options returns controller options wiring these sinks.
func (v *EffectVisual) Options() []effect.Option {
	return []effect.Option{
		effect.WithParameters(v.Material),
		effect.WithEmitter(v.Emitter),
		effect.WithPose(v.Emitter),
		effect.WithIndicator(v.Indicator),
	}
}
