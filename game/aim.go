package game

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/sandpour/renderer"
	"github.com/pthm-cable/sandpour/trajectory"
)

// aimRefitTicks is how often a cached aim fit is recomputed.
const aimRefitTicks = 30

// aimFit caches a launch fitted onto an effect's receiver.
type aimFit struct {
	fit    trajectory.Fit
	err    error
	tick   int64
	valid  bool
	path   trajectory.Path
	target mgl64.Vec3
}

// receiverCenter returns the receiver center for an anchor base.
func receiverCenter(base, offset mgl64.Vec3) mgl64.Vec3 {
	return base.Add(offset)
}

// aimTarget is the receiver's top edge center.
func aimTarget(center mgl64.Vec3) mgl64.Vec3 {
	return center.Add(mgl64.Vec3{0, renderer.ReceiverHalfHeight, 0})
}

// refresh refits the launch when the cache is stale. The path is sampled
// from origin with the fitted launch, or cleared when the fit failed.
func (a *aimFit) refresh(tick int64, origin, target mgl64.Vec3, params trajectory.Params, gravity float64, step float64, maxSteps int, fallLimit float64) {
	if a.valid && tick-a.tick < aimRefitTicks {
		return
	}
	a.tick = tick
	a.valid = true
	a.target = target
	a.fit, a.err = trajectory.FitLaunch(origin, target, params, gravity)
	if a.err != nil {
		a.path = trajectory.Path{}
		return
	}
	v0, err := a.fit.Params.InitialVelocity()
	if err != nil {
		a.err = err
		a.path = trajectory.Path{}
		return
	}
	a.path, a.err = trajectory.SamplePath(origin, v0, gravity, step, maxSteps, fallLimit)
}
