package effect

import "github.com/go-gl/mathgl/mgl64"

// ParameterSink receives named scalar parameters, e.g. shader uniforms.
type ParameterSink interface {
	SetFloat(name string, value float64)
}

// VerticalSink receives the vertical coordinate of the fill indicator object.
type VerticalSink interface {
	SetVertical(y float64)
}

// EmissionSink is the particle emitter the controller toggles.
type EmissionSink interface {
	SetEnabled(enabled bool)
	SetRate(rate float64)
}

// EmissionConfigurer is implemented by emission sinks that accept the full
// emission setup once at Start.
type EmissionConfigurer interface {
	Configure(settings EmissionSettings)
}

// PoseSink receives the emitter frame every tick.
type PoseSink interface {
	SetPose(frame EmitterFrame)
}

// ReferenceFrame is the moving object the emitter is attached to.
type ReferenceFrame interface {
	Position() mgl64.Vec3
}

// StaticReference is a ReferenceFrame that never moves.
type StaticReference mgl64.Vec3

// Position implements ReferenceFrame.
func (r StaticReference) Position() mgl64.Vec3 { return mgl64.Vec3(r) }

// Anchor is a ReferenceFrame moved explicitly by its owner.
type Anchor struct {
	pos mgl64.Vec3
}

// NewAnchor creates an anchor at pos.
func NewAnchor(pos mgl64.Vec3) *Anchor {
	return &Anchor{pos: pos}
}

// Move places the anchor at pos.
func (a *Anchor) Move(pos mgl64.Vec3) { a.pos = pos }

// Position implements ReferenceFrame.
func (a *Anchor) Position() mgl64.Vec3 { return a.pos }

// ParameterMap is a ParameterSink that stores the latest values.
type ParameterMap map[string]float64

// SetFloat implements ParameterSink.
func (m ParameterMap) SetFloat(name string, value float64) { m[name] = value }
