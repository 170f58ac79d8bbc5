// Package pour integrates the fill amount and fill velocity of a pouring
// stream from a per-tick pour command.
//
// Fill amount only ever rises: pouring adds FillSpeed per second and stopping
// leaves it where it is. Fill velocity rises linearly toward 1 while pouring
// and eases exponentially toward 0 once the command drops, so the stream
// trails off instead of cutting out.
package pour

import (
	"math"

	"github.com/pkg/errors"
)

// ErrInvalidRates is returned by Rates.Validate.
var ErrInvalidRates = errors.New("pour: rates must be non-negative")

// Phase is the pour state for a tick. It follows the command directly.
type Phase uint8

const (
	Idle Phase = iota
	Pouring
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Pouring:
		return "pouring"
	}
	return "unknown"
}

// State holds the two coupled scalars. Both stay within [0, 1].
type State struct {
	FillAmount   float64
	FillVelocity float64
	IsPouring    bool
}

// Phase reports the phase that produced this state.
func (s State) Phase() Phase {
	if s.IsPouring {
		return Pouring
	}
	return Idle
}

// Rates are the per-second rates of the update rule.
type Rates struct {
	FillSpeed float64 // fill amount gained per second of pouring
	RiseRate  float64 // max fill velocity gain per second while pouring
	FallRate  float64 // exponential decay rate of fill velocity while idle
}

// Validate rejects negative or NaN rates.
func (r Rates) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"fill speed", r.FillSpeed},
		{"rise rate", r.RiseRate},
		{"fall rate", r.FallRate},
	} {
		if !(f.v >= 0) {
			return errors.Wrapf(ErrInvalidRates, "%s %g", f.name, f.v)
		}
	}
	return nil
}

// Step applies one tick to s. A negative or NaN dt counts as zero.
func Step(s State, command bool, dt float64, r Rates) State {
	if !(dt > 0) {
		dt = 0
	}

	next := s
	next.IsPouring = command
	if command {
		// Fill never drops, whatever the rates
		gain := r.FillSpeed * dt
		if !(gain > 0) {
			gain = 0
		}
		next.FillAmount = s.FillAmount + gain
		next.FillVelocity = MoveTowards(s.FillVelocity, 1, r.RiseRate*dt)
	} else {
		next.FillVelocity = s.FillVelocity + (0-s.FillVelocity)*Clamp01(r.FallRate*dt)
	}

	next.FillAmount = Clamp01(next.FillAmount)
	next.FillVelocity = Clamp01(next.FillVelocity)
	return next
}

// Machine owns one State and advances it each tick.
type Machine struct {
	state State
	rates Rates
}

// New creates an idle machine with zero fill.
func New(r Rates) *Machine {
	return &Machine{rates: r}
}

// Tick advances the machine by dt seconds under command and returns the new state.
func (m *Machine) Tick(command bool, dt float64) State {
	m.state = Step(m.state, command, dt, m.rates)
	return m.state
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Phase returns the phase of the last tick.
func (m *Machine) Phase() Phase { return m.state.Phase() }

// Rates returns the configured rates.
func (m *Machine) Rates() Rates { return m.rates }

// SetRates replaces the rates used by subsequent ticks.
func (m *Machine) SetRates(r Rates) { m.rates = r }

// Set overwrites the state, clamping both scalars into [0, 1].
func (m *Machine) Set(s State) {
	s.FillAmount = Clamp01(s.FillAmount)
	s.FillVelocity = Clamp01(s.FillVelocity)
	m.state = s
}

// Reset returns the machine to an idle, empty state.
func (m *Machine) Reset() {
	m.state = State{}
}

// Drained reports whether the fill velocity has decayed below eps.
func (s State) Drained(eps float64) bool {
	return math.Abs(s.FillVelocity) < eps
}
