package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sandpour/input"
)

// PourControls is the pour command state shown by the controls panel.
type PourControls struct {
	Source   string // input adapter name
	Command  bool   // command read from the source this tick
	Override input.Override
}

// pourBinding is one pour key and whether its action is in effect.
type pourBinding struct {
	KeyLabel string
	Action   string
	Active   func(PourControls) bool
}

var pourBindings = []pourBinding{
	{"SPACE", "Pour (hold)", func(p PourControls) bool { return !p.Override.Active && p.Command }},
	{"1", "Force pour", func(p PourControls) bool { return p.Override.Active && p.Override.Pouring }},
	{"2", "Force stop", func(p PourControls) bool { return p.Override.Active && !p.Override.Pouring }},
	{"0", "Release override", func(p PourControls) bool { return !p.Override.Active }},
}

// ControlsPanel lists the pour bindings and overlay toggles on the left.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a hidden controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetVisible shows or hides the panel.
func (c *ControlsPanel) SetVisible(visible bool) {
	c.visible = visible
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// height is the panel height for the given overlay set.
func (c *ControlsPanel) height(overlays *OverlayRegistry) int32 {
	lh := c.renderer.Theme.LineHeight
	lines := int32(len(pourBindings)) + 3 // pour header, command, override
	for _, cat := range overlays.Categories() {
		lines += int32(len(overlays.ByCategory(cat))) + 1
	}
	return lines*lh + c.renderer.Theme.Padding*3 + lh
}

// Draw renders the panel and returns the Y below it.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry, pour PourControls) int32 {
	if !c.visible {
		return c.y
	}

	r := c.renderer
	padding := r.Theme.Padding
	lh := r.Theme.LineHeight
	inner := c.width - padding*2
	x := c.x + padding

	r.DrawPanel(c.x, c.y, c.width, c.height(overlays))
	y := c.y + padding

	rl.DrawText("Controls", x, y, 16, rl.White)
	y += lh + 4

	y = r.DrawSectionHeader(x, y, "Pour")
	command := "idle"
	if pour.Override.Effective(pour.Command) {
		command = "pouring"
	}
	y = r.DrawLabelValue(x, y, "Command", command, inner)
	y = r.DrawLabelValue(x, y, "Override", pour.Override.Label(pour.Source), inner)
	for _, b := range pourBindings {
		c.drawLine(x, y, b.KeyLabel, b.Action, b.Active(pour), inner)
		y += lh
	}
	y += 4

	for _, category := range overlays.Categories() {
		rl.DrawText(categoryLabel(category), x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += lh
		for _, desc := range overlays.ByCategory(category) {
			c.drawLine(x, y, desc.KeyLabel, desc.Name, overlays.IsEnabled(desc.ID), inner)
			y += lh
		}
		y += 4
	}

	return y
}

// drawLine draws a status square, a name and a right-aligned key label.
func (c *ControlsPanel) drawLine(x, y int32, keyLabel, name string, active bool, width int32) {
	r := c.renderer

	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	nameColor := r.Theme.LabelColor
	if active {
		statusColor = rl.Color{R: 214, G: 178, B: 110, A: 255}
		nameColor = rl.White
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)
	rl.DrawText(name, x+14, y, r.Theme.FontSize, nameColor)

	if keyLabel != "" {
		keyText := fmt.Sprintf("[%s]", keyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
	}
}

// categoryLabel returns a display label for an overlay category.
func categoryLabel(cat string) string {
	switch cat {
	case "visual":
		return "Overlays"
	case "debug":
		return "Debug"
	default:
		return cat
	}
}
