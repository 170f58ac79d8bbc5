package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/sandpour/components"
)

// EffectSystem ticks every effect controller after moving its reference
// frame to the anchor's current position.
type EffectSystem struct {
	filter *ecs.Filter3[components.Position, components.Effect, components.Output]
}

// NewEffectSystem creates a new effect system.
func NewEffectSystem(w *ecs.World) *EffectSystem {
	return &EffectSystem{
		filter: ecs.NewFilter3[components.Position, components.Effect, components.Output](w),
	}
}

// Start pushes the emission setup of every effect.
func (s *EffectSystem) Start() {
	query := s.filter.Query()
	for query.Next() {
		_, eff, _ := query.Get()
		eff.Controller.Start()
	}
}

// Update ticks all effects with the same pour command and returns how many ran.
func (s *EffectSystem) Update(command bool, dt float64) int {
	n := 0
	query := s.filter.Query()
	for query.Next() {
		pos, eff, out := query.Get()
		if eff.Reference != nil {
			eff.Reference.Move(pos.Vec)
		}
		out.Snapshot = eff.Controller.Tick(command, dt)
		out.Valid = true
		n++
	}
	return n
}

// ForcePouring latches the pour command on every effect.
func (s *EffectSystem) ForcePouring(pouring bool) {
	query := s.filter.Query()
	for query.Next() {
		_, eff, _ := query.Get()
		eff.Controller.SetPouring(pouring)
	}
}

// Release hands every effect back to the input command.
func (s *EffectSystem) Release() {
	query := s.filter.Query()
	for query.Next() {
		_, eff, _ := query.Get()
		eff.Controller.ReleasePouring()
	}
}
