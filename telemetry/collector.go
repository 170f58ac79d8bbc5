package telemetry

import (
	"math"
	"sort"

	"github.com/pthm-cable/sandpour/effect"
)

// Collector accumulates effect snapshots within time windows and produces
// one WindowStats per effect.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int64
	dt                  float64

	windowStartTick int64
	windows         map[string]*window
}

type window struct {
	ticks      int
	pouring    int
	forced     int
	starts     int
	wasPouring bool
	seen       bool
	fillStart  float64
	velocities []float64
	originYs   []float64
	last       effect.Snapshot
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int64(1)
	if dt > 0 {
		ticksPerWindow = int64(math.Round(windowDurationSec / dt))
	}
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
		windows:             make(map[string]*window),
	}
}

// Record adds one tick of one effect to the current window.
func (c *Collector) Record(name string, snap effect.Snapshot) {
	w := c.windows[name]
	if w == nil {
		w = &window{}
		c.windows[name] = w
	}
	if !w.seen {
		// Fill before this tick is unknown; the first tick's fill is the baseline
		w.fillStart = snap.State.FillAmount
		w.wasPouring = snap.State.IsPouring
		w.seen = true
	} else if snap.State.IsPouring && !w.wasPouring {
		w.starts++
	}
	w.wasPouring = snap.State.IsPouring

	w.ticks++
	if snap.State.IsPouring {
		w.pouring++
	}
	if snap.Forced {
		w.forced++
	}
	w.velocities = append(w.velocities, snap.State.FillVelocity)
	w.originYs = append(w.originYs, snap.Frame.Origin[1])
	w.last = snap
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces the stats of every effect recorded in the window, ordered
// by effect name, and starts a new window.
func (c *Collector) Flush(currentTick int64) []WindowStats {
	names := make([]string, 0, len(c.windows))
	for name, w := range c.windows {
		if w.ticks > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	out := make([]WindowStats, 0, len(names))
	for _, name := range names {
		w := c.windows[name]
		vel := Summarize(w.velocities)
		origin := Summarize(w.originYs)
		out = append(out, WindowStats{
			WindowStartTick: c.windowStartTick,
			WindowEndTick:   currentTick,
			SimTimeSec:      float64(currentTick) * c.dt,
			Effect:          name,
			Ticks:           w.ticks,
			PourFraction:    float64(w.pouring) / float64(w.ticks),
			PourStarts:      w.starts,
			ForcedTicks:     w.forced,
			FillAmount:      w.last.State.FillAmount,
			FillGained:      w.last.State.FillAmount - w.fillStart,
			VelocityMean:    vel.Mean,
			VelocityStd:     vel.Std,
			VelocityP10:     vel.P10,
			VelocityP50:     vel.P50,
			VelocityP90:     vel.P90,
			OriginYMean:     origin.Mean,
			OriginYMin:      origin.Min,
			OriginYMax:      origin.Max,
			IndicatorY:      w.last.IndicatorY,
		})

		// Carry pour phase and fill baseline into the next window
		*w = window{
			seen:       true,
			wasPouring: w.wasPouring,
			fillStart:  w.last.State.FillAmount,
			velocities: w.velocities[:0],
			originYs:   w.originYs[:0],
		}
	}

	c.windowStartTick = currentTick
	return out
}

// WindowTicks returns the window length in ticks.
func (c *Collector) WindowTicks() int64 {
	return c.windowDurationTicks
}
