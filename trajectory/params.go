package trajectory

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// Params fully describes a launch. Direction must be unit length.
type Params struct {
	Direction      mgl64.Vec3
	LaunchAngleDeg float64 // 0 = horizontal, 90 = straight down
	Speed          float64
	GravityScale   float64 // multiplier on the base gravity magnitude
}

// Validate reports whether the params can be handed to the solver.
func (p Params) Validate() error {
	if err := checkUnit(p.Direction); err != nil {
		return err
	}
	if p.Speed < 0 || math.IsNaN(p.Speed) {
		return errors.Wrapf(ErrInvalidSpeed, "got %g", p.Speed)
	}
	return nil
}

// FinalDirection is the launch direction after applying the launch angle.
func (p Params) FinalDirection() (mgl64.Vec3, error) {
	return FinalDirection(p.Direction, p.LaunchAngleDeg)
}

// InitialVelocity is the launch velocity for these params.
func (p Params) InitialVelocity() (mgl64.Vec3, error) {
	return InitialVelocity(p.Direction, p.LaunchAngleDeg, p.Speed)
}

// Gravity scales a base gravity magnitude by GravityScale.
func (p Params) Gravity(base float64) float64 {
	return p.GravityScale * base
}
