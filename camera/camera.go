// Package camera provides a 2D side-view camera for the effect scene.
package camera

import "github.com/go-gl/mathgl/mgl64"

// Camera maps the world's XY plane onto the screen. World Y points up,
// screen Y points down. Z is ignored.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float64

	// Scale is pixels per world unit at zoom 1
	Scale float64

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification)
	Zoom float64

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Zoom constraints
	MinZoom, MaxZoom float64

	homeX, homeY float64
}

// New creates a camera centered on (x, y) with 1:1 zoom.
func New(viewportW, viewportH float32, x, y, scale float64) *Camera {
	if scale <= 0 {
		scale = 1
	}
	return &Camera{
		X:         x,
		Y:         y,
		Scale:     scale,
		Zoom:      1.0,
		ViewportW: viewportW,
		ViewportH: viewportH,
		MinZoom:   0.25,
		MaxZoom:   8.0,
		homeX:     x,
		homeY:     y,
	}
}

// pixelsPerUnit is the current world-to-screen scale.
func (c *Camera) pixelsPerUnit() float64 {
	return c.Scale * c.Zoom
}

// WorldToScreen converts a world point to screen coordinates.
func (c *Camera) WorldToScreen(p mgl64.Vec3) (sx, sy float32) {
	k := c.pixelsPerUnit()
	sx = c.ViewportW/2 + float32((p[0]-c.X)*k)
	sy = c.ViewportH/2 - float32((p[1]-c.Y)*k)
	return sx, sy
}

// ScreenToWorld converts screen coordinates to a world point with Z = 0.
func (c *Camera) ScreenToWorld(sx, sy float32) mgl64.Vec3 {
	k := c.pixelsPerUnit()
	return mgl64.Vec3{
		c.X + float64(sx-c.ViewportW/2)/k,
		c.Y - float64(sy-c.ViewportH/2)/k,
		0,
	}
}

// Length converts a world length to pixels.
func (c *Camera) Length(l float64) float32 {
	return float32(l * c.pixelsPerUnit())
}

// IsVisible returns true if a circle at p with the given world radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(p mgl64.Vec3, radius float64) bool {
	minX, minY, maxX, maxY := c.VisibleWorldBounds()
	return p[0]+radius >= minX && p[0]-radius <= maxX &&
		p[1]+radius >= minY && p[1]-radius <= maxY
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Pan moves the camera by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float32) {
	k := c.pixelsPerUnit()
	c.X += float64(dx) / k
	c.Y -= float64(dy) / k
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float64) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float64) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to its initial center and zoom.
func (c *Camera) Reset() {
	c.X = c.homeX
	c.Y = c.homeY
	c.Zoom = 1.0
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float64) {
	k := c.pixelsPerUnit()
	halfW := float64(c.ViewportW) / (2 * k)
	halfH := float64(c.ViewportH) / (2 * k)
	return c.X - halfW, c.Y - halfH, c.X + halfW, c.Y + halfH
}

// Frame centers the camera on the box and picks the scale that fits it with
// the given margin fraction on each side. The result becomes the Reset target.
func (c *Camera) Frame(minX, minY, maxX, maxY, margin float64) {
	w := (maxX - minX) * (1 + 2*margin)
	h := (maxY - minY) * (1 + 2*margin)
	c.X = (minX + maxX) / 2
	c.Y = (minY + maxY) / 2
	c.Zoom = 1
	if w > 0 && h > 0 {
		c.Scale = min(float64(c.ViewportW)/w, float64(c.ViewportH)/h)
	}
	c.homeX, c.homeY = c.X, c.Y
}

// clamp restricts a value to a range.
func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
