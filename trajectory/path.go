package trajectory

import (
	"iter"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// PathSample is one point of a sampled trajectory.
type PathSample struct {
	T        float64
	Position mgl64.Vec3
}

// Path is a lazily evaluated, finite trajectory preview. Iterating it again
// re-evaluates the samples from scratch.
type Path struct {
	origin    mgl64.Vec3
	v0        mgl64.Vec3
	gravity   float64
	step      float64
	maxSteps  int
	fallLimit float64
}

// SamplePath describes the samples at t = 0, step, 2*step, ... up to maxSteps
// samples. Iteration ends after the first sample lying more than fallLimit
// below the origin.
func SamplePath(origin, v0 mgl64.Vec3, gravity, step float64, maxSteps int, fallLimit float64) (Path, error) {
	if step <= 0 || math.IsNaN(step) {
		return Path{}, errors.Wrapf(ErrInvalidTime, "step %g", step)
	}
	if maxSteps < 1 {
		return Path{}, errors.Wrapf(ErrInvalidSteps, "got %d", maxSteps)
	}
	if fallLimit < 0 || math.IsNaN(fallLimit) {
		return Path{}, errors.Wrapf(ErrInvalidFallLimit, "got %g", fallLimit)
	}
	return Path{
		origin:    origin,
		v0:        v0,
		gravity:   gravity,
		step:      step,
		maxSteps:  maxSteps,
		fallLimit: fallLimit,
	}, nil
}

// All yields the samples in time order. The first sample is (0, origin).
func (p Path) All() iter.Seq[PathSample] {
	return func(yield func(PathSample) bool) {
		floor := p.origin.Y() - p.fallLimit
		for i := 0; i < p.maxSteps; i++ {
			t := float64(i) * p.step
			pos := p.origin
			if i > 0 {
				pos = positionAt(p.origin, p.v0, p.gravity, t)
			}
			if !yield(PathSample{T: t, Position: pos}) {
				return
			}
			if pos.Y() < floor {
				return
			}
		}
	}
}

// Collect materializes the samples.
func (p Path) Collect() []PathSample {
	return slices.Collect(p.All())
}

// Len counts the samples without keeping them.
func (p Path) Len() int {
	n := 0
	for range p.All() {
		n++
	}
	return n
}

// Origin is the first sample's position.
func (p Path) Origin() mgl64.Vec3 { return p.origin }
