package telemetry

import (
	"github.com/pthm-cable/sandpour/effect"
	"github.com/pthm-cable/sandpour/trajectory"
)

// TickRecord is one row of ticks.csv.
type TickRecord struct {
	Tick         int64   `csv:"tick"`
	Time         float64 `csv:"time"`
	Effect       string  `csv:"effect"`
	Command      bool    `csv:"command"`
	Forced       bool    `csv:"forced"`
	Pouring      bool    `csv:"pouring"`
	FillAmount   float64 `csv:"fill_amount"`
	FillVelocity float64 `csv:"fill_velocity"`
	IndicatorY   float64 `csv:"indicator_y"`
	OriginX      float64 `csv:"origin_x"`
	OriginY      float64 `csv:"origin_y"`
	OriginZ      float64 `csv:"origin_z"`
	VelocityX    float64 `csv:"velocity_x"`
	VelocityY    float64 `csv:"velocity_y"`
	VelocityZ    float64 `csv:"velocity_z"`
	EmissionRate float64 `csv:"emission_rate"`
}

// NewTickRecord flattens a snapshot.
func NewTickRecord(name string, s effect.Snapshot) TickRecord {
	return TickRecord{
		Tick:         s.Tick,
		Time:         s.Time,
		Effect:       name,
		Command:      s.Command,
		Forced:       s.Forced,
		Pouring:      s.State.IsPouring,
		FillAmount:   s.State.FillAmount,
		FillVelocity: s.State.FillVelocity,
		IndicatorY:   s.IndicatorY,
		OriginX:      s.Frame.Origin[0],
		OriginY:      s.Frame.Origin[1],
		OriginZ:      s.Frame.Origin[2],
		VelocityX:    s.Frame.InitialVelocity[0],
		VelocityY:    s.Frame.InitialVelocity[1],
		VelocityZ:    s.Frame.InitialVelocity[2],
		EmissionRate: s.EmissionRate,
	}
}

// PathRecord is one row of path.csv.
type PathRecord struct {
	Effect string  `csv:"effect"`
	Index  int     `csv:"index"`
	T      float64 `csv:"t"`
	X      float64 `csv:"x"`
	Y      float64 `csv:"y"`
	Z      float64 `csv:"z"`
}

// PathRecords flattens a sampled path.
func PathRecords(name string, p trajectory.Path) []PathRecord {
	var out []PathRecord
	i := 0
	for s := range p.All() {
		out = append(out, PathRecord{
			Effect: name,
			Index:  i,
			T:      s.T,
			X:      s.Position[0],
			Y:      s.Position[1],
			Z:      s.Position[2],
		})
		i++
	}
	return out
}
