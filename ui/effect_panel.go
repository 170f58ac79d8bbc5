package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sandpour/effect"
)

// EffectView is the data one effect panel shows.
type EffectView struct {
	Name     string
	Snapshot effect.Snapshot
	Speed    float64 // launch speed, the range of the velocity bars
}

func view(data any) EffectView {
	v, _ := data.(EffectView)
	return v
}

// EffectPanelDescriptor lays out the per-effect panel.
func EffectPanelDescriptor() PanelDescriptor {
	return PanelDescriptor{
		ID:    "effect",
		Width: 260,
		Sections: []SectionDescriptor{
			{
				ID:    "pour",
				Title: "Pour",
				Fields: []FieldDescriptor{
					{ID: "phase", Label: "Phase", Widget: WidgetText, TextGetter: func(d any) string {
						v := view(d)
						s := v.Snapshot.State.Phase().String()
						if v.Snapshot.Forced {
							s += " (forced)"
						}
						return s
					}},
					{ID: "fill_amount", Label: "Fill", Widget: WidgetBar, Range: DefaultRange(), Getter: func(d any) float32 {
						return float32(view(d).Snapshot.State.FillAmount)
					}},
					{ID: "fill_velocity", Label: "Velocity", Widget: WidgetBar, Range: DefaultRange(), Getter: func(d any) float32 {
						return float32(view(d).Snapshot.State.FillVelocity)
					}},
					{ID: "indicator_y", Label: "Indicator Y", Widget: WidgetText, Format: "%.4f", Getter: func(d any) float32 {
						return float32(view(d).Snapshot.IndicatorY)
					}},
				},
			},
			{
				ID:    "emitter",
				Title: "Emitter",
				Fields: []FieldDescriptor{
					{ID: "origin", Label: "Origin", Widget: WidgetText, TextGetter: func(d any) string {
						o := view(d).Snapshot.Frame.Origin
						return fmt.Sprintf("%.2f, %.2f, %.2f", o[0], o[1], o[2])
					}},
					{ID: "launch_x", Label: "Launch X", Widget: WidgetCenteredBar, Range: CenteredRange(), Getter: func(d any) float32 {
						return launchComponent(view(d), 0)
					}},
					{ID: "launch_y", Label: "Launch Y", Widget: WidgetCenteredBar, Range: CenteredRange(), Getter: func(d any) float32 {
						return launchComponent(view(d), 1)
					}},
					{ID: "rate", Label: "Rate", Widget: WidgetText, Format: "%.0f/s", Getter: func(d any) float32 {
						return float32(view(d).Snapshot.EmissionRate)
					}},
				},
			},
		},
	}
}

// launchComponent is one launch velocity component as a fraction of speed.
func launchComponent(v EffectView, axis int) float32 {
	if v.Speed <= 0 {
		return 0
	}
	return float32(v.Snapshot.Frame.InitialVelocity[axis] / v.Speed)
}

// EffectPanel renders one panel per effect, stacked down the right edge.
type EffectPanel struct {
	renderer *Renderer
	desc     PanelDescriptor
}

// NewEffectPanel creates a new effect panel.
func NewEffectPanel() *EffectPanel {
	return &EffectPanel{
		renderer: NewRenderer(),
		desc:     EffectPanelDescriptor(),
	}
}

// Draw renders the panels and returns the Y below the last one.
func (p *EffectPanel) Draw(screenW, y int32, views []EffectView) int32 {
	r := p.renderer
	padding := r.Theme.Padding
	width := p.desc.Width
	x := screenW - width - padding

	for _, v := range views {
		height := padding*2 + r.Theme.LineHeight
		for _, sd := range p.desc.Sections {
			height += r.SectionHeight(sd, v)
		}
		r.DrawPanel(x, y, width, height)

		cy := y + padding
		rl.DrawText(v.Name, x+padding, cy, 16, rl.White)
		cy += r.Theme.LineHeight
		for _, sd := range p.desc.Sections {
			cy = r.DrawSection(x+padding, cy, sd, v, width-padding*2)
		}
		y += height + padding
	}
	return y
}
