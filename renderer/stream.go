// Package renderer draws pouring effects with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/sandpour/camera"
	"github.com/pthm-cable/sandpour/trajectory"
)

// Receiver half extents in world units. The indicator Y is local to the
// receiver center.
const (
	ReceiverHalfWidth  = 0.5
	ReceiverHalfHeight = 1.0
)

// Sand palette.
var (
	SandColor          = rl.Color{R: 217, G: 184, B: 89, A: 255}
	SandColorVariation = rl.Color{R: 242, G: 209, B: 115, A: 255}
	previewColor       = rl.Color{R: 217, G: 184, B: 89, A: 160}
	aimColor           = rl.Color{R: 120, G: 200, B: 230, A: 200}
	receiverColor      = rl.Color{R: 150, G: 150, B: 160, A: 255}
	frameColor         = rl.Color{R: 230, G: 90, B: 90, A: 255}
)

// StreamRenderer draws streams, receivers and debug geometry.
type StreamRenderer struct {
	cam     *camera.Camera
	scratch []trajectory.PathSample
}

// NewStreamRenderer creates a renderer drawing through cam.
func NewStreamRenderer(cam *camera.Camera) *StreamRenderer {
	return &StreamRenderer{cam: cam}
}

func (r *StreamRenderer) screen(p mgl64.Vec3) rl.Vector2 {
	x, y := r.cam.WorldToScreen(p)
	return rl.NewVector2(x, y)
}

func (r *StreamRenderer) collect(path trajectory.Path) []trajectory.PathSample {
	r.scratch = r.scratch[:0]
	for s := range path.All() {
		r.scratch = append(r.scratch, s)
	}
	return r.scratch
}

// DrawStream draws the stream along path. fillVelocity in [0, 1] sets
// opacity and thickness; nothing is drawn once the stream has drained.
func (r *StreamRenderer) DrawStream(path trajectory.Path, fillVelocity, particleSize float64) {
	if fillVelocity < 1e-3 {
		return
	}
	samples := r.collect(path)
	if len(samples) < 2 {
		return
	}

	thick := r.cam.Length(particleSize) * float32(0.3+0.7*fillVelocity)
	if thick < 1 {
		thick = 1
	}
	alpha := uint8(255 * fillVelocity)
	n := len(samples) - 1
	for i := 0; i < n; i++ {
		// Fade toward the tail like the particle color gradient
		t := float32(i) / float32(n)
		c := lerpColor(SandColor, SandColorVariation, t)
		c.A = uint8(float32(alpha) * (1 - 0.6*t))
		rl.DrawLineEx(r.screen(samples[i].Position), r.screen(samples[i+1].Position), thick, c)
	}
}

// DrawPreview draws each sample of path as a dot.
func (r *StreamRenderer) DrawPreview(path trajectory.Path) {
	for s := range path.All() {
		rl.DrawCircleV(r.screen(s.Position), 2, previewColor)
	}
}

// DrawAim draws a fitted launch path ending at target.
func (r *StreamRenderer) DrawAim(path trajectory.Path, target mgl64.Vec3) {
	samples := r.collect(path)
	for i := 0; i+1 < len(samples); i += 2 {
		rl.DrawLineV(r.screen(samples[i].Position), r.screen(samples[i+1].Position), aimColor)
	}
	rl.DrawCircleLinesV(r.screen(target), 5, aimColor)
}

// DrawFrame draws the emitter origin and the emission cone axis.
func (r *StreamRenderer) DrawFrame(origin, axis mgl64.Vec3, coneAngleDeg float64) {
	o := r.screen(origin)
	rl.DrawCircleV(o, 4, frameColor)
	tip := r.screen(origin.Add(axis.Mul(0.5)))
	rl.DrawLineEx(o, tip, 2, frameColor)

	if coneAngleDeg <= 0 {
		return
	}
	// Cone edges in the screen plane
	rad := mgl64.DegToRad(coneAngleDeg)
	for _, a := range []float64{rad, -rad} {
		edge := mgl64.QuatRotate(a, mgl64.Vec3{0, 0, 1}).Rotate(axis)
		rl.DrawLineV(o, r.screen(origin.Add(edge.Mul(0.5))), rl.Fade(frameColor, 0.5))
	}
}

// DrawReceiver draws the container centered at center. When showFill is
// set the fill surface is drawn at the indicator's local Y.
func (r *StreamRenderer) DrawReceiver(center mgl64.Vec3, indicatorY float64, showFill bool) {
	topLeft := r.screen(center.Add(mgl64.Vec3{-ReceiverHalfWidth, ReceiverHalfHeight, 0}))
	w := r.cam.Length(2 * ReceiverHalfWidth)
	h := r.cam.Length(2 * ReceiverHalfHeight)

	if showFill {
		level := min(max(indicatorY, -ReceiverHalfHeight), ReceiverHalfHeight)
		surface := r.screen(center.Add(mgl64.Vec3{-ReceiverHalfWidth, level, 0}))
		fillH := topLeft.Y + h - surface.Y
		rl.DrawRectangleV(surface, rl.NewVector2(w, fillH), SandColor)
	}
	rl.DrawRectangleLinesEx(rl.NewRectangle(topLeft.X, topLeft.Y, w, h), 2, receiverColor)
}

// DrawAnchor draws the machine the emitter hangs from.
func (r *StreamRenderer) DrawAnchor(pos mgl64.Vec3) {
	p := r.screen(pos)
	s := r.cam.Length(0.3)
	rl.DrawRectangleV(rl.NewVector2(p.X-s/2, p.Y-s/2), rl.NewVector2(s, s), rl.Gray)
}

func lerpColor(a, b rl.Color, t float32) rl.Color {
	mix := func(x, y uint8) uint8 { return uint8(float32(x) + (float32(y)-float32(x))*t) }
	return rl.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}
