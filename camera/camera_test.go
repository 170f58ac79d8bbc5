package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestNew(t *testing.T) {
	cam := New(1280, 720, 1, 2, 100)

	if cam.X != 1 || cam.Y != 2 {
		t.Errorf("expected camera at (1, 2), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
	if New(10, 10, 0, 0, 0).Scale != 1 {
		t.Error("expected non-positive scale to fall back to 1")
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(1280, 720, 1, 2, 100)

	sx, sy := cam.WorldToScreen(mgl64.Vec3{1, 2, 5})
	if math.Abs(float64(sx-640)) > 0.01 || math.Abs(float64(sy-360)) > 0.01 {
		t.Errorf("expected screen center (640, 360), got (%f, %f)", sx, sy)
	}
}

func TestWorldYPointsUp(t *testing.T) {
	cam := New(1280, 720, 0, 0, 100)

	_, sy := cam.WorldToScreen(mgl64.Vec3{0, 1, 0})
	if math.Abs(float64(sy-260)) > 0.01 {
		t.Errorf("expected a point above center to be 100px higher, got y=%f", sy)
	}
	sx, _ := cam.WorldToScreen(mgl64.Vec3{-1, 0, 0})
	if math.Abs(float64(sx-540)) > 0.01 {
		t.Errorf("expected a point left of center at x=540, got %f", sx)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, 1.5, 0.5, 80)
	cam.SetZoom(1.7)

	testCases := []struct{ sx, sy float32 }{
		{640, 360},  // center
		{100, 100},  // top-left
		{1200, 600}, // near bottom-right
	}

	for _, tc := range testCases {
		w := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(w)
		if math.Abs(float64(sx-tc.sx)) > 0.01 || math.Abs(float64(sy-tc.sy)) > 0.01 {
			t.Errorf("roundtrip failed: (%f,%f) -> %v -> (%f,%f)", tc.sx, tc.sy, w, sx, sy)
		}
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(1280, 720, 0, 0, 100)

	cam.SetZoom(100)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MaxZoom, cam.Zoom)
	}
	cam.SetZoom(0.001)
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MinZoom, cam.Zoom)
	}
	cam.SetZoom(1)
	cam.ZoomBy(2)
	if cam.Zoom != 2 {
		t.Errorf("expected zoom 2, got %f", cam.Zoom)
	}
	if got := cam.Length(1); got != 200 {
		t.Errorf("expected 1 unit = 200px at zoom 2, got %f", got)
	}
}

func TestPan(t *testing.T) {
	cam := New(1280, 720, 0, 0, 100)
	cam.Pan(100, 50)
	if math.Abs(cam.X-1) > 1e-9 || math.Abs(cam.Y+0.5) > 1e-9 {
		t.Errorf("expected camera at (1, -0.5), got (%f, %f)", cam.X, cam.Y)
	}
	cam.Reset()
	if cam.X != 0 || cam.Y != 0 || cam.Zoom != 1 {
		t.Errorf("expected reset to origin, got (%f, %f) zoom %f", cam.X, cam.Y, cam.Zoom)
	}
}

func TestVisibility(t *testing.T) {
	cam := New(1280, 720, 0, 0, 100)

	minX, minY, maxX, maxY := cam.VisibleWorldBounds()
	if minX != -6.4 || maxX != 6.4 || minY != -3.6 || maxY != 3.6 {
		t.Errorf("unexpected bounds (%f,%f)-(%f,%f)", minX, minY, maxX, maxY)
	}
	if !cam.IsVisible(mgl64.Vec3{0, 0, 0}, 0) {
		t.Error("center should be visible")
	}
	if cam.IsVisible(mgl64.Vec3{10, 0, 0}, 1) {
		t.Error("far point should not be visible")
	}
	if !cam.IsVisible(mgl64.Vec3{7, 0, 0}, 1) {
		t.Error("point within radius of the edge should be visible")
	}
}

func TestFrame(t *testing.T) {
	cam := New(1000, 500, 0, 0, 1)
	cam.Frame(0, 0, 10, 2, 0)

	if cam.X != 5 || cam.Y != 1 {
		t.Errorf("expected center (5, 1), got (%f, %f)", cam.X, cam.Y)
	}
	// Width-limited: 1000px over 10 units
	if cam.Scale != 100 {
		t.Errorf("expected scale 100, got %f", cam.Scale)
	}

	cam.Pan(50, 0)
	cam.Reset()
	if cam.X != 5 || cam.Y != 1 {
		t.Errorf("expected reset to framed center, got (%f, %f)", cam.X, cam.Y)
	}
}
