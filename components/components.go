// Package components defines ECS components for the effect scene.
package components

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/sandpour/effect"
)

// Anchor is the machine an effect is attached to. It sways around Base.
type Anchor struct {
	Name      string
	Base      mgl64.Vec3
	Amplitude mgl64.Vec3 // per-axis sway amplitude
	Frequency float64    // Hz
	Phase     float64    // radians
}

// Position is an anchor's world position for the current tick.
type Position struct {
	Vec mgl64.Vec3
}

// Effect holds one pouring effect and the reference frame it follows.
type Effect struct {
	Controller *effect.Controller
	Reference  *effect.Anchor
}

// Receiver is the container the stream pours into, relative to the anchor base.
type Receiver struct {
	Offset mgl64.Vec3
}

// Output is the last snapshot produced for an effect.
type Output struct {
	Snapshot effect.Snapshot
	Valid    bool
}
