package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sandpour/input"
)

// InputSource supplies the pour command for the tick starting at time t.
type InputSource = input.Source

// KeyboardInput pours while a key is held.
type KeyboardInput struct {
	Key int32
}

// NewKeyboardInput pours while space is held.
func NewKeyboardInput() *KeyboardInput {
	return &KeyboardInput{Key: rl.KeySpace}
}

// Pouring implements InputSource.
func (k *KeyboardInput) Pouring(float64) bool {
	return rl.IsKeyDown(k.Key)
}

// Name implements InputSource.
func (k *KeyboardInput) Name() string { return "keyboard" }

// handleInput processes keyboard input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeyTab) {
		g.paused = !g.paused
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < 10 {
		g.stepsPerUpdate++
	}

	// Forced pour overrides: 1 pour, 2 stop, 0 release
	switch {
	case rl.IsKeyPressed(rl.KeyOne):
		g.effects.ForcePouring(true)
		g.override.Force(true)
	case rl.IsKeyPressed(rl.KeyTwo):
		g.effects.ForcePouring(false)
		g.override.Force(false)
	case rl.IsKeyPressed(rl.KeyZero):
		g.effects.Release()
		g.override.Release()
	}

	if rl.IsKeyPressed(rl.KeyC) {
		g.uiControls.Toggle()
	}
	g.handleOverlayKeys()

	g.handleCameraInput()
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	if g.camera != nil {
		g.camera.Resize(w, h)
	}
}

// handleCameraInput processes camera pan/zoom controls.
func (g *Game) handleCameraInput() {
	if g.camera == nil {
		return
	}

	panSpeed := float32(8.0)

	// Arrow key panning
	if rl.IsKeyDown(rl.KeyRight) {
		g.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Pan(0, -panSpeed)
	}

	// Zoom controls: mouse wheel or +/- keys
	wheelMove := rl.GetMouseWheelMove()
	if wheelMove != 0 {
		g.camera.ZoomBy(1.0 + float64(wheelMove)*0.1)
	}

	// Keyboard zoom with +/- (= and - keys)
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}

	// Home key to reset camera
	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}
