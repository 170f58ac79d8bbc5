// Package input provides pour command sources for the scene loop.
package input

import "math"

// Source supplies the pour command for the tick starting at time t.
type Source interface {
	Pouring(t float64) bool
	Name() string
}

// Schedule alternates between pouring for On seconds and pausing for Off
// seconds, starting with a pour.
type Schedule struct {
	On, Off float64
}

// NewSchedule creates a schedule. Negative durations are treated as 0.
func NewSchedule(on, off float64) *Schedule {
	return &Schedule{On: max(on, 0), Off: max(off, 0)}
}

// Pouring implements Source. Times before 0 count as 0. A schedule that
// never pours has On <= 0; one that never pauses has Off <= 0.
func (s *Schedule) Pouring(t float64) bool {
	if !(s.On > 0) {
		return false
	}
	if !(s.Off > 0) {
		return true
	}
	return math.Mod(max(t, 0), s.On+s.Off) < s.On
}

// Name implements Source.
func (s *Schedule) Name() string { return "schedule" }
