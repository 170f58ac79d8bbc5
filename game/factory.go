package game

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/sandpour/components"
	"github.com/pthm-cable/sandpour/effect"
	"github.com/pthm-cable/sandpour/renderer"
)

// spawnEffects creates one entity per configured scene placement.
func (g *Game) spawnEffects() error {
	for i, placement := range g.cfg.Scene.Effects {
		anchor := components.Anchor{
			Name:      placement.Name,
			Base:      placement.Position,
			Amplitude: placement.SwayAmplitude,
			Frequency: placement.SwayFrequency,
			// Spread phases so swaying machines do not move in lockstep
			Phase: float64(i) * 1.3,
		}
		if err := g.spawnEffect(anchor, placement.ReceiverOffset); err != nil {
			return fmt.Errorf("spawning effect %q: %w", placement.Name, err)
		}
	}
	return nil
}

// spawnEffect creates a controller wired to fresh sinks and adds its entity.
func (g *Game) spawnEffect(anchor components.Anchor, receiverOffset mgl64.Vec3) error {
	ref := effect.NewAnchor(anchor.Base)
	visual := renderer.NewEffectVisual()

	opts := append(visual.Options(),
		effect.WithReference(ref),
		effect.WithLogger(slog.Default()),
	)
	ctrl, err := effect.New(effect.FromConfig(g.cfg, anchor.Name), opts...)
	if err != nil {
		return err
	}

	pos := components.Position{Vec: anchor.Base}
	eff := components.Effect{Controller: ctrl, Reference: ref}
	out := components.Output{}
	recv := components.Receiver{Offset: receiverOffset}

	entity := g.effectMapper.NewEntity(&anchor, &pos, &eff, &out, &recv)
	g.visuals[entity] = visual
	return nil
}
