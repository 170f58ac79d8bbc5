package game

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/pthm-cable/sandpour/telemetry"
)

// logWriter is the destination for log output.
var logWriter io.Writer

// SetLogWriter sets the log output destination.
func SetLogWriter(w io.Writer) {
	logWriter = w
}

// Logf writes a formatted log message.
func Logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if logWriter != nil {
		fmt.Fprintln(logWriter, msg)
	} else {
		fmt.Println(msg)
	}
}

// logPerfStats prints a phase breakdown table.
func (g *Game) logPerfStats(stats telemetry.PerfStats) {
	total := stats.AvgTickDuration
	Logf("=== Perf @ Tick %d (speed %dx) | %.0f ticks/s ===", g.tick, g.stepsPerUpdate, stats.TicksPerSecond)
	Logf("Avg tick: %s (min %s, max %s)",
		total.Round(time.Microsecond), stats.MinTickDuration.Round(time.Microsecond), stats.MaxTickDuration.Round(time.Microsecond))
	Logf("Effects: %.0f per tick, %s per effect tick, %.0f effect ticks/s",
		stats.AvgEffects, stats.EffectTickCost, stats.EffectsPerSecond)

	names := make([]string, 0, len(stats.PhaseAvg))
	for name := range stats.PhaseAvg {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		avg := stats.PhaseAvg[name]
		pct := float64(0)
		if total > 0 {
			pct = float64(avg) / float64(total) * 100
		}
		Logf("  %-18s %10s  %5.1f%%", g.registry.GetName(name), avg.Round(time.Microsecond), pct)
	}
	Logf("")
}
