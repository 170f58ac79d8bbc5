// Arc preview tool - interactive tuning of one pouring effect with sliders.
//
// Usage: go run ./cmd/arcpreview [-config path]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/sandpour/camera"
	"github.com/pthm-cable/sandpour/config"
	"github.com/pthm-cable/sandpour/effect"
	"github.com/pthm-cable/sandpour/pour"
	"github.com/pthm-cable/sandpour/renderer"
	"github.com/pthm-cable/sandpour/trajectory"
)

const (
	windowWidth  = 1100
	windowHeight = 720
	previewWidth = 700
	panelWidth   = windowWidth - previewWidth - 30
)

// anchorPos is where the previewed machine hangs.
var anchorPos = mgl64.Vec3{1.5, 2, 0}

// receiverOffset places the receiver relative to the anchor.
var receiverOffset = mgl64.Vec3{-1.3, -2.3, 0}

// tuning holds the slider values.
type tuning struct {
	Angle        float32
	Speed        float32
	GravityScale float32
	FillSpeed    float32
	RiseSpeed    float32
	FallSpeed    float32
}

func (t tuning) rates() pour.Rates {
	return pour.Rates{
		FillSpeed: float64(t.FillSpeed),
		RiseRate:  float64(t.RiseSpeed),
		FallRate:  float64(t.FallSpeed),
	}
}

func defaultTuning(cfg *config.Config) tuning {
	return tuning{
		Angle:        float32(cfg.Emitter.LaunchAngle),
		Speed:        float32(cfg.Emitter.StartSpeed),
		GravityScale: float32(cfg.Emitter.Gravity),
		FillSpeed:    float32(cfg.Pour.FillSpeed),
		RiseSpeed:    float32(cfg.Pour.VelocityRiseSpeed),
		FallSpeed:    float32(cfg.Pour.VelocityFallSpeed),
	}
}

// build creates a controller from the config with the tuning applied.
func build(cfg *config.Config, t tuning, visual *renderer.EffectVisual) (*effect.Controller, error) {
	ecfg := effect.FromConfig(cfg, "preview")
	ecfg.Trajectory.LaunchAngleDeg = float64(t.Angle)
	ecfg.Trajectory.Speed = float64(t.Speed)
	ecfg.Trajectory.GravityScale = float64(t.GravityScale)
	ecfg.Rates = t.rates()

	opts := append(visual.Options(), effect.WithReference(effect.StaticReference(anchorPos)))
	ctrl, err := effect.New(ecfg, opts...)
	if err != nil {
		return nil, err
	}
	ctrl.Start()
	return ctrl, nil
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rl.InitWindow(windowWidth, windowHeight, "Arc Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	cam := camera.New(previewWidth, windowHeight-20, 0, 0, 100)
	receiver := anchorPos.Add(receiverOffset)
	cam.Frame(receiver.X()-renderer.ReceiverHalfWidth, receiver.Y()-renderer.ReceiverHalfHeight,
		anchorPos.X()+0.5, anchorPos.Y()+0.5, 0.2)
	stream := renderer.NewStreamRenderer(cam)

	params := defaultTuning(cfg)
	visual := renderer.NewEffectVisual()
	ctrl, err := build(cfg, params, visual)
	if err != nil {
		slog.Error("invalid effect config", "error", err)
		os.Exit(1)
	}
	var snap effect.Snapshot

	for !rl.WindowShouldClose() {
		pouring := rl.IsKeyDown(rl.KeySpace)
		snap = ctrl.Tick(pouring, float64(rl.GetFrameTime()))

		rl.BeginDrawing()
		rl.ClearBackground(rl.Color{R: 24, G: 26, B: 32, A: 255})

		// Scene
		ecfg := ctrl.Config()
		stream.DrawReceiver(receiver, visual.Indicator.Y, ecfg.Indicator.Enabled)
		stream.DrawAnchor(anchorPos)
		if path, err := ctrl.Preview(); err == nil {
			stream.DrawPreview(path)
			stream.DrawStream(path, visual.Material[ecfg.Parameters.FillVelocity], ecfg.ParticleSize)
		}
		frame := ctrl.Frame()
		stream.DrawFrame(frame.Origin, frame.Orientation.Rotate(ecfg.CanonicalAxis), ecfg.ConeAngleDeg)

		target := receiver.Add(mgl64.Vec3{0, renderer.ReceiverHalfHeight, 0})
		fit, fitErr := trajectory.FitLaunch(frame.Origin, target, ctrl.Params(), ecfg.Gravity())

		// Stats
		statsY := int32(windowHeight - 90)
		rl.DrawText(fmt.Sprintf("Phase: %s  Fill: %.3f  Velocity: %.3f", snap.State.Phase(), snap.State.FillAmount, snap.State.FillVelocity), 15, statsY, 16, rl.LightGray)
		rl.DrawText(fmt.Sprintf("Origin: (%.2f, %.2f)  Indicator Y: %.3f", frame.Origin.X(), frame.Origin.Y(), snap.IndicatorY), 15, statsY+20, 16, rl.LightGray)
		if fitErr == nil {
			rl.DrawText(fmt.Sprintf("Fit to receiver: angle %.1f deg, speed %.2f", fit.Params.LaunchAngleDeg, fit.Params.Speed), 15, statsY+40, 16, rl.SkyBlue)
		} else {
			rl.DrawText("Fit to receiver: unreachable", 15, statsY+40, 16, rl.Gray)
		}
		rl.DrawText("Hold SPACE to pour", 15, statsY+60, 14, rl.Gray)

		// Control panel
		panelX := float32(previewWidth + 20)
		panelY := float32(10)
		rl.DrawText("Effect Parameters", int32(panelX), int32(panelY), 20, rl.LightGray)
		panelY += 35

		next := params
		panelY = slider(panelX, panelY, "Launch angle (deg below horizontal)", "%.1f", &next.Angle, -80, 89)
		panelY = slider(panelX, panelY, "Start speed", "%.2f", &next.Speed, 0.1, 10)
		panelY = slider(panelX, panelY, "Gravity scale", "%.2f", &next.GravityScale, 0, 3)
		panelY = slider(panelX, panelY, "Fill speed (per second)", "%.2f", &next.FillSpeed, 0, 1)
		panelY = slider(panelX, panelY, "Velocity rise speed", "%.1f", &next.RiseSpeed, 0.1, 30)
		panelY = slider(panelX, panelY, "Velocity fall speed", "%.1f", &next.FallSpeed, 0.1, 30)

		panelY += 10
		applyFit := gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Aim at Receiver")
		if applyFit && fitErr == nil {
			next.Angle = float32(fit.Params.LaunchAngleDeg)
			next.Speed = float32(fit.Params.Speed)
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			next = defaultTuning(cfg)
		}
		if gui.Button(rl.Rectangle{X: panelX + 260, Y: panelY, Width: 100, Height: 30}, "Empty") {
			ctrl.Machine().Reset()
		}

		rl.EndDrawing()

		// Changes keep the pour state
		if next != params {
			ctrl.Machine().SetRates(next.rates())
			p := ctrl.Params()
			p.LaunchAngleDeg = float64(next.Angle)
			p.Speed = float64(next.Speed)
			p.GravityScale = float64(next.GravityScale)
			if err := ctrl.SetTrajectory(p); err != nil {
				slog.Warn("rejected trajectory", "error", err)
			}
			params = next
		}
	}
}

// slider draws a labeled slider bound to v and returns the next Y.
func slider(x, y float32, label, format string, v *float32, lo, hi float32) float32 {
	rl.DrawText(label, int32(x), int32(y), 14, rl.Gray)
	y += 18
	*v = gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: float32(panelWidth - 80), Height: 20},
		fmt.Sprintf("%g", lo), fmt.Sprintf("%g", hi),
		*v, lo, hi,
	)
	rl.DrawText(fmt.Sprintf(format, *v), int32(x+float32(panelWidth-70)), int32(y+2), 16, rl.LightGray)
	return y + 35
}
