// Package systems contains ECS systems for the effect scene.
package systems

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/sandpour/components"
)

// MotionSystem moves anchors along their sway.
type MotionSystem struct {
	filter *ecs.Filter2[components.Anchor, components.Position]
}

// NewMotionSystem creates a new motion system.
func NewMotionSystem(w *ecs.World) *MotionSystem {
	return &MotionSystem{
		filter: ecs.NewFilter2[components.Anchor, components.Position](w),
	}
}

// Update places every anchor at its sway position for elapsed seconds.
func (s *MotionSystem) Update(elapsed float64) {
	query := s.filter.Query()
	for query.Next() {
		anchor, pos := query.Get()
		pos.Vec = SwayPosition(*anchor, elapsed)
	}
}

// SwayPosition is Base + Amplitude*sin(2*pi*Frequency*t + Phase).
func SwayPosition(a components.Anchor, t float64) mgl64.Vec3 {
	if a.Frequency == 0 {
		return a.Base
	}
	s := math.Sin(2*math.Pi*a.Frequency*t + a.Phase)
	return a.Base.Add(a.Amplitude.Mul(s))
}
