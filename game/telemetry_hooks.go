package game

import (
	"log/slog"

	"github.com/pthm-cable/sandpour/telemetry"
)

// tickBatch is how many tick records are buffered before a CSV write.
const tickBatch = 256

// recordTelemetry feeds this tick's snapshots to the collector and output.
func (g *Game) recordTelemetry() {
	query := g.effectFilter.Query()
	for query.Next() {
		anchor, _, _, out, _ := query.Get()
		if !out.Valid {
			continue
		}
		g.collector.Record(anchor.Name, out.Snapshot)
		if g.outputManager != nil {
			g.tickRecords = append(g.tickRecords, telemetry.NewTickRecord(anchor.Name, out.Snapshot))
		}
	}

	if len(g.tickRecords) >= tickBatch {
		g.flushTickRecords()
	}
	if g.collector.ShouldFlush(g.tick) {
		g.flushWindows()
	}
}

// flushTickRecords writes buffered tick records.
func (g *Game) flushTickRecords() {
	if len(g.tickRecords) == 0 {
		return
	}
	if err := g.outputManager.WriteTicks(g.tickRecords); err != nil {
		slog.Error("failed to write ticks", "error", err)
	}
	g.tickRecords = g.tickRecords[:0]
}

// flushWindows closes the stats window and logs or writes it.
func (g *Game) flushWindows() {
	stats := g.collector.Flush(g.tick)
	if len(stats) == 0 {
		return
	}
	perfStats := g.perfCollector.Stats()

	// Log stats if enabled. Graphical runs get a readable perf table.
	if g.logStats {
		for _, s := range stats {
			s.LogStats()
		}
		if g.headless {
			perfStats.LogStats()
		} else {
			g.logPerfStats(perfStats)
		}
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteWindows(stats); err != nil {
			slog.Error("failed to write windows", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, g.tick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// writePreviewPaths writes the configured preview path of every effect.
func (g *Game) writePreviewPaths() {
	if g.outputManager == nil {
		return
	}
	var records []telemetry.PathRecord
	query := g.effectFilter.Query()
	for query.Next() {
		anchor, _, eff, _, _ := query.Get()
		path, err := eff.Controller.Preview()
		if err != nil {
			slog.Error("failed to sample preview path", "effect", anchor.Name, "error", err)
			continue
		}
		records = append(records, telemetry.PathRecords(anchor.Name, path)...)
	}
	if err := g.outputManager.WritePaths(records); err != nil {
		slog.Error("failed to write preview paths", "error", err)
	}
}
