package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for one effect over a time window.
type WindowStats struct {
	WindowStartTick int64   `csv:"-"`
	WindowEndTick   int64   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`
	Effect          string  `csv:"effect"`
	Ticks           int     `csv:"ticks"`

	// Pour command
	PourFraction float64 `csv:"pour_fraction"` // share of ticks spent pouring
	PourStarts   int     `csv:"pour_starts"`
	ForcedTicks  int     `csv:"forced_ticks"`

	// Fill amount at window end and gained during the window
	FillAmount float64 `csv:"fill_amount"`
	FillGained float64 `csv:"fill_gained"`

	// Fill velocity distribution
	VelocityMean float64 `csv:"velocity_mean"`
	VelocityStd  float64 `csv:"velocity_std"`
	VelocityP10  float64 `csv:"velocity_p10"`
	VelocityP50  float64 `csv:"velocity_p50"`
	VelocityP90  float64 `csv:"velocity_p90"`

	// Emitter origin travel
	OriginYMean float64 `csv:"origin_y_mean"`
	OriginYMin  float64 `csv:"origin_y_min"`
	OriginYMax  float64 `csv:"origin_y_max"`

	IndicatorY float64 `csv:"indicator_y"`
}

// Distribution summarizes a sample.
type Distribution struct {
	Mean, Std     float64
	P10, P50, P90 float64
	Min, Max      float64
}

// Summarize computes mean, sample standard deviation, empirical quantiles
// and range. An empty sample yields the zero Distribution.
func Summarize(values []float64) Distribution {
	n := len(values)
	if n == 0 {
		return Distribution{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	var d Distribution
	if n > 1 {
		d.Mean, d.Std = stat.MeanStdDev(sorted, nil)
	} else {
		d.Mean = sorted[0]
	}
	d.P10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	d.P50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	d.P90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	d.Min = sorted[0]
	d.Max = sorted[n-1]
	if math.IsNaN(d.Std) {
		d.Std = 0
	}
	return d
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.String("effect", s.Effect),
		slog.Float64("pour_fraction", s.PourFraction),
		slog.Int("pour_starts", s.PourStarts),
		slog.Float64("fill_amount", s.FillAmount),
		slog.Float64("fill_gained", s.FillGained),
		slog.Group("velocity",
			slog.Float64("mean", s.VelocityMean),
			slog.Float64("std", s.VelocityStd),
			slog.Float64("p50", s.VelocityP50),
		),
		slog.Float64("indicator_y", s.IndicatorY),
	)
}

// LogStats logs the window with slog.Info.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
