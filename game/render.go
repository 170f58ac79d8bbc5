package game

import (
	"math"
	"sort"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sandpour/camera"
	"github.com/pthm-cable/sandpour/renderer"
	"github.com/pthm-cable/sandpour/ui"
)

const controlsLegend = "[SPACE] Pour  [1/2/0] Force on/off/release  [TAB] Pause  [</>] Speed  [C] Controls  [HOME] Reset view"

// initRendering creates the camera and UI. Requires an open window.
func (g *Game) initRendering() {
	g.camera = camera.New(g.screenWidth, g.screenHeight, 0, 0, 100)
	minX, minY, maxX, maxY := g.sceneBounds()
	g.camera.Frame(minX, minY, maxX, maxY, 0.15)

	g.stream = renderer.NewStreamRenderer(g.camera)
	g.uiHUD = ui.NewHUD()
	g.uiEffectPanel = ui.NewEffectPanel()
	g.uiPerfPanel = ui.NewPerfPanel(10, 100)
	g.uiControls = ui.NewControlsPanel(10, 100, 220)
	g.uiOverlays = ui.NewOverlayRegistry()
}

// sceneBounds returns the XY box covering every anchor's sway range and
// every receiver.
func (g *Game) sceneBounds() (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	grow := func(x, y float64) {
		minX, maxX = min(minX, x), max(maxX, x)
		minY, maxY = min(minY, y), max(maxY, y)
	}

	query := g.effectFilter.Query()
	for query.Next() {
		anchor, _, _, _, recv := query.Get()
		a := anchor.Amplitude
		grow(anchor.Base.X()-math.Abs(a.X()), anchor.Base.Y()-math.Abs(a.Y()))
		grow(anchor.Base.X()+math.Abs(a.X()), anchor.Base.Y()+math.Abs(a.Y()))

		c := receiverCenter(anchor.Base, recv.Offset)
		grow(c.X()-renderer.ReceiverHalfWidth, c.Y()-renderer.ReceiverHalfHeight)
		grow(c.X()+renderer.ReceiverHalfWidth, c.Y()+renderer.ReceiverHalfHeight)
	}

	if math.IsInf(minX, 1) {
		return -1, -1, 1, 1
	}
	return minX, minY, maxX, maxY
}

// Draw renders the scene and UI.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 24, G: 26, B: 32, A: 255})

	g.drawEffects()

	source := g.input.Name()
	if g.override.Active {
		source = "forced"
	}
	g.uiHUD.Draw(ui.HUDData{
		Title:        "Sandpour",
		EffectCount:  len(g.visuals),
		Tick:         g.tick,
		Time:         g.elapsed,
		Speed:        g.stepsPerUpdate,
		FPS:          rl.GetFPS(),
		Paused:       g.paused,
		Pouring:      g.override.Effective(g.lastCommand),
		Source:       source,
		ScreenWidth:  int32(g.screenWidth),
		ScreenHeight: int32(g.screenHeight),
	})

	g.uiEffectPanel.Draw(int32(g.screenWidth), 10, g.effectViews())

	panelY := g.uiControls.Draw(g.uiOverlays, ui.PourControls{
		Source:   g.input.Name(),
		Command:  g.lastCommand,
		Override: g.override,
	})
	if g.uiOverlays.IsEnabled(ui.OverlayPerf) {
		g.drawPerfPanel(panelY)
	}

	g.uiHUD.DrawControls(int32(g.screenWidth), int32(g.screenHeight), controlsLegend)

	rl.EndDrawing()
}

// drawPerfPanel draws phase timings below the controls panel.
func (g *Game) drawPerfPanel(y int32) {
	stats := g.perfCollector.Stats()
	names := make([]string, 0, len(stats.PhaseAvg))
	for name := range stats.PhaseAvg {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return stats.PhaseAvg[names[i]] > stats.PhaseAvg[names[j]]
	})

	g.uiPerfPanel.SetPosition(10, y+10)
	g.uiPerfPanel.Draw(ui.PerfPanelData{
		SystemTimes: stats.PhaseAvg,
		Total:       stats.AvgTickDuration,
		Registry:    g.registry,
	}, names)
}

