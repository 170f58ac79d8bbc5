// Package game runs the effect scene in headless or graphical mode.
package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/sandpour/camera"
	"github.com/pthm-cable/sandpour/components"
	"github.com/pthm-cable/sandpour/config"
	"github.com/pthm-cable/sandpour/input"
	"github.com/pthm-cable/sandpour/renderer"
	"github.com/pthm-cable/sandpour/systems"
	"github.com/pthm-cable/sandpour/telemetry"
	"github.com/pthm-cable/sandpour/ui"
)

// Options configures a Game.
type Options struct {
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
	Headless       bool
	StepsPerUpdate int
	Input          InputSource // nil = keyboard in graphical mode, schedule in headless mode
}

// Game holds the complete scene state.
type Game struct {
	cfg *config.Config

	world *ecs.World

	// Entity mapper for effect entities
	effectMapper *ecs.Map5[
		components.Anchor,
		components.Position,
		components.Effect,
		components.Output,
		components.Receiver,
	]
	effectFilter *ecs.Filter5[
		components.Anchor,
		components.Position,
		components.Effect,
		components.Output,
		components.Receiver,
	]

	// Systems
	motion   *systems.MotionSystem
	effects  *systems.EffectSystem
	registry *systems.SystemRegistry

	// Sinks per entity, drawn by the renderer
	visuals map[ecs.Entity]*renderer.EffectVisual
	aims    map[ecs.Entity]*aimFit

	input       InputSource
	lastCommand bool
	override    input.Override

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	logStats      bool
	tickRecords   []telemetry.TickRecord

	// Rendering (nil in headless mode)
	camera        *camera.Camera
	stream        *renderer.StreamRenderer
	uiHUD         *ui.HUD
	uiEffectPanel *ui.EffectPanel
	uiPerfPanel   *ui.PerfPanel
	uiControls    *ui.ControlsPanel
	uiOverlays    *ui.OverlayRegistry

	// State
	tick           int64
	elapsed        float64
	dt             float64
	paused         bool
	headless       bool
	stepsPerUpdate int

	screenWidth, screenHeight float32
}

// NewGameWithOptions creates a new game with the global config.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := config.Cfg()
	world := ecs.NewWorld()

	g := &Game{
		cfg:   cfg,
		world: world,
		effectMapper: ecs.NewMap5[
			components.Anchor,
			components.Position,
			components.Effect,
			components.Output,
			components.Receiver,
		](world),
		effectFilter: ecs.NewFilter5[
			components.Anchor,
			components.Position,
			components.Effect,
			components.Output,
			components.Receiver,
		](world),
		motion:         systems.NewMotionSystem(world),
		effects:        systems.NewEffectSystem(world),
		registry:       systems.NewSystemRegistry(),
		visuals:        make(map[ecs.Entity]*renderer.EffectVisual),
		aims:           make(map[ecs.Entity]*aimFit),
		input:          opts.Input,
		logStats:       opts.LogStats,
		dt:             cfg.Loop.DT,
		headless:       opts.Headless,
		stepsPerUpdate: max(opts.StepsPerUpdate, 1),
		screenWidth:    float32(cfg.Screen.Width),
		screenHeight:   float32(cfg.Screen.Height),
	}

	if g.input == nil {
		if opts.Headless {
			g.input = input.NewSchedule(cfg.Input.PourSeconds, cfg.Input.PauseSeconds)
		} else {
			g.input = NewKeyboardInput()
		}
	}

	if err := g.spawnEffects(); err != nil {
		return nil, err
	}

	// Telemetry
	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}
	g.collector = telemetry.NewCollector(statsWindow, g.dt)
	g.perfCollector = telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		slog.Error("failed to create output manager", "error", err)
	}
	g.outputManager = om
	if err := g.outputManager.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}
	g.writePreviewPaths()

	if !opts.Headless {
		g.initRendering()
	}

	g.effects.Start()
	return g, nil
}

// Update handles input and runs StepsPerUpdate ticks unless paused.
func (g *Game) Update() {
	g.handleInput()
	g.perfCollector.RecordFrame()

	if g.paused {
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step()
	}
}

// UpdateHeadless runs StepsPerUpdate ticks without touching raylib.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step()
	}
}

// step runs one fixed tick of the scene.
func (g *Game) step() {
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseInput)
	command := g.input.Pouring(g.elapsed)
	g.lastCommand = command

	g.perfCollector.StartPhase(telemetry.PhaseMotion)
	g.motion.Update(g.elapsed)

	g.perfCollector.StartPhase(telemetry.PhaseEffects)
	g.perfCollector.RecordEffects(g.effects.Update(command, g.dt))

	g.tick++
	g.elapsed += g.dt

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.recordTelemetry()

	g.perfCollector.EndTick()
}

// Tick returns the number of ticks run.
func (g *Game) Tick() int64 {
	return g.tick
}

// Time returns the elapsed scene time in seconds.
func (g *Game) Time() float64 {
	return g.elapsed
}

// Unload flushes telemetry and releases output files.
func (g *Game) Unload() {
	g.flushTickRecords()
	g.flushWindows()
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
