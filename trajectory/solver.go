// Package trajectory computes ballistic launch velocities, parabolic positions
// and emitter orientations. Everything here is pure and safe to share between
// effects.
//
// Gravity is passed in as a magnitude that pulls along -Y. Directions must be
// unit length: the solver reports ErrInvalidDirection instead of normalizing,
// so the caller decides where normalization happens.
package trajectory

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// StandardGravity is the reference gravity magnitude in units/s².
const StandardGravity = 9.81

// unitTolerance bounds how far a direction's length may drift from 1.
const unitTolerance = 1e-6

// Up is the world vertical axis.
var Up = mgl64.Vec3{0, 1, 0}

// Forward is the default axis of a conical emission volume.
var Forward = mgl64.Vec3{0, 0, 1}

func checkUnit(v mgl64.Vec3) error {
	l := v.Len()
	if math.IsNaN(l) || math.Abs(l-1) > unitTolerance {
		return errors.Wrapf(ErrInvalidDirection, "got %v (length %g)", v, l)
	}
	return nil
}

// horizontal drops the vertical component of v.
func horizontal(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X(), 0, v.Z()}
}

// FinalDirection tilts a unit direction downward by launchAngleDeg.
// The tilt axis is perpendicular to both the vertical and the horizontal part
// of the direction, so 0° keeps the direction and 90° points straight down.
// A purely vertical direction has no such axis and is returned unchanged.
func FinalDirection(direction mgl64.Vec3, launchAngleDeg float64) (mgl64.Vec3, error) {
	if err := checkUnit(direction); err != nil {
		return mgl64.Vec3{}, err
	}
	h := horizontal(direction)
	if h.Len() < unitTolerance {
		return direction, nil
	}
	axis := Up.Cross(h).Normalize()
	tilt := mgl64.QuatRotate(mgl64.DegToRad(launchAngleDeg), axis)
	return tilt.Rotate(direction).Normalize(), nil
}

// InitialVelocity returns the launch velocity for a unit direction tilted down
// by launchAngleDeg and scaled to speed. The result has magnitude speed.
func InitialVelocity(direction mgl64.Vec3, launchAngleDeg, speed float64) (mgl64.Vec3, error) {
	if speed < 0 || math.IsNaN(speed) {
		return mgl64.Vec3{}, errors.Wrapf(ErrInvalidSpeed, "got %g", speed)
	}
	dir, err := FinalDirection(direction, launchAngleDeg)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	return dir.Mul(speed), nil
}

// Position evaluates p = origin + v0*t + ½·g·t² with g acting along -Y.
// At t == 0 it returns origin exactly.
func Position(origin, v0 mgl64.Vec3, gravity, t float64) (mgl64.Vec3, error) {
	if t < 0 || math.IsNaN(t) {
		return origin, errors.Wrapf(ErrInvalidTime, "got t=%g", t)
	}
	if t == 0 {
		return origin, nil
	}
	return positionAt(origin, v0, gravity, t), nil
}

func positionAt(origin, v0 mgl64.Vec3, gravity, t float64) mgl64.Vec3 {
	p := origin.Add(v0.Mul(t))
	p[1] -= 0.5 * gravity * t * t
	return p
}

// VelocityAt returns the instantaneous velocity at time t.
func VelocityAt(v0 mgl64.Vec3, gravity, t float64) (mgl64.Vec3, error) {
	if t < 0 || math.IsNaN(t) {
		return v0, errors.Wrapf(ErrInvalidTime, "got t=%g", t)
	}
	v := v0
	v[1] -= gravity * t
	return v, nil
}

// OrientationFromDirection returns the shortest-arc rotation taking
// canonicalAxis onto finalDir. Both must be unit vectors.
func OrientationFromDirection(finalDir, canonicalAxis mgl64.Vec3) (mgl64.Quat, error) {
	if err := checkUnit(finalDir); err != nil {
		return mgl64.QuatIdent(), err
	}
	if err := checkUnit(canonicalAxis); err != nil {
		return mgl64.QuatIdent(), errors.Wrap(err, "canonical axis")
	}
	return mgl64.QuatBetweenVectors(canonicalAxis, finalDir).Normalize(), nil
}

// TimeToFall returns the first time at which a launch with velocity v0 has
// dropped drop units below its origin.
func TimeToFall(v0 mgl64.Vec3, gravity, drop float64) (float64, error) {
	if drop < 0 {
		return 0, errors.Wrapf(ErrNoSolution, "negative drop %g", drop)
	}
	vy := v0.Y()
	if gravity == 0 {
		if vy >= 0 {
			return 0, errors.Wrap(ErrNoSolution, "no gravity and no downward velocity")
		}
		return drop / -vy, nil
	}
	// ½g·t² - vy·t - drop = 0
	disc := vy*vy + 2*gravity*drop
	if disc < 0 {
		return 0, errors.Wrapf(ErrNoSolution, "apex never reaches drop %g", drop)
	}
	t := (vy + math.Sqrt(disc)) / gravity
	if t < 0 {
		return 0, errors.Wrapf(ErrNoSolution, "drop %g reached only in the past", drop)
	}
	return t, nil
}
