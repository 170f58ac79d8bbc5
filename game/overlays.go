package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sandpour/ui"
)

// handleOverlayKeys checks for overlay toggle key presses.
func (g *Game) handleOverlayKeys() {
	for _, desc := range g.uiOverlays.All() {
		if desc.Key != 0 && rl.IsKeyPressed(desc.Key) {
			state := g.uiOverlays.Toggle(desc.ID)
			slog.Debug("overlay toggled", "overlay", desc.ID, "enabled", state)
		}
	}
}

// drawEffects draws every effect with the enabled overlays.
func (g *Game) drawEffects() {
	showStream := g.uiOverlays.IsEnabled(ui.OverlayStream)
	showPreview := g.uiOverlays.IsEnabled(ui.OverlayPreview)
	showReceivers := g.uiOverlays.IsEnabled(ui.OverlayReceivers)
	showIndicator := g.uiOverlays.IsEnabled(ui.OverlayIndicator)
	showFrames := g.uiOverlays.IsEnabled(ui.OverlayFrames)
	showAim := g.uiOverlays.IsEnabled(ui.OverlayAimFit)

	query := g.effectFilter.Query()
	for query.Next() {
		entity := query.Entity()
		anchor, pos, eff, _, recv := query.Get()
		ctrl := eff.Controller
		cfg := ctrl.Config()
		visual := g.visuals[entity]

		center := receiverCenter(anchor.Base, recv.Offset)
		if showReceivers {
			showFill := showIndicator && cfg.Indicator.Enabled && visual != nil
			indicatorY := 0.0
			if showFill {
				indicatorY = visual.Indicator.Y
			}
			g.stream.DrawReceiver(center, indicatorY, showFill)
		}

		g.stream.DrawAnchor(pos.Vec)

		if showStream || showPreview {
			path, err := ctrl.Preview()
			if err == nil {
				if showStream && visual != nil {
					velocity := visual.Material[cfg.Parameters.FillVelocity]
					g.stream.DrawStream(path, velocity, cfg.ParticleSize)
				}
				if showPreview {
					g.stream.DrawPreview(path)
				}
			}
		}

		frame := ctrl.Frame()
		if showFrames {
			axis := frame.Orientation.Rotate(cfg.CanonicalAxis)
			g.stream.DrawFrame(frame.Origin, axis, cfg.ConeAngleDeg)
		}

		if showAim {
			aim, ok := g.aims[entity]
			if !ok {
				aim = &aimFit{}
				g.aims[entity] = aim
			}
			p := cfg.Preview
			aim.refresh(g.tick, frame.Origin, aimTarget(center), ctrl.Params(), cfg.Gravity(), p.Step, p.MaxSteps, p.FallLimit)
			if aim.err == nil {
				g.stream.DrawAim(aim.path, aim.target)
			}
		}
	}
}

// effectViews collects the panel data of every effect.
func (g *Game) effectViews() []ui.EffectView {
	var views []ui.EffectView
	query := g.effectFilter.Query()
	for query.Next() {
		anchor, _, eff, out, _ := query.Get()
		views = append(views, ui.EffectView{
			Name:     anchor.Name,
			Snapshot: out.Snapshot,
			Speed:    eff.Controller.Params().Speed,
		})
	}
	return views
}
