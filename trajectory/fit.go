package trajectory

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/optimize"
)

// Launch fitting bounds and weights.
const (
	minFitAngle = -80.0
	maxFitAngle = 89.0

	// Normalization scale for the angle coordinate of the search.
	angleScale = 45.0

	// speedPull weighs the preference for keeping the base speed against the
	// vertical miss. Small enough that any reachable target is hit.
	speedPull = 1e-4

	// FitTolerance is the largest vertical miss accepted as a hit.
	FitTolerance = 1e-3

	fitPenalty = 1e12
)

// Fit is the result of FitLaunch.
type Fit struct {
	Params      Params
	Distance    float64 // horizontal distance to the target along the launch direction
	Miss        float64 // signed vertical miss at the target (positive = passes above)
	Evaluations int
}

// DropAt returns the vertical displacement of a launch once it has covered
// distance units horizontally.
func DropAt(v0 mgl64.Vec3, gravity, distance float64) (float64, error) {
	if distance < 0 {
		return 0, errors.Wrapf(ErrNoSolution, "negative distance %g", distance)
	}
	vh := math.Hypot(v0.X(), v0.Z())
	if vh == 0 {
		return 0, errors.Wrap(ErrNoSolution, "launch has no horizontal velocity")
	}
	t := distance / vh
	return v0.Y()*t - 0.5*gravity*t*t, nil
}

// FitLaunch searches launch angle and speed so the stream passes through
// target, keeping base's horizontal heading and gravity scale. Only the
// component of the target offset along that heading can be reached.
// Among all hitting launches it prefers the one closest to base.Speed.
func FitLaunch(origin, target mgl64.Vec3, base Params, gravity float64) (Fit, error) {
	if err := base.Validate(); err != nil {
		return Fit{}, err
	}
	h := horizontal(base.Direction)
	if h.Len() < unitTolerance {
		return Fit{}, errors.Wrap(ErrNoSolution, "vertical launch direction")
	}
	h = h.Normalize()

	offset := target.Sub(origin)
	distance := offset.Dot(h)
	if distance <= 0 {
		return Fit{}, errors.Wrapf(ErrNoSolution, "target is %g units behind the launch", -distance)
	}
	rise := offset.Y()
	speedScale := math.Max(base.Speed, 1)

	candidate := func(x []float64) Params {
		p := base
		p.Direction = h
		p.LaunchAngleDeg = x[0] * angleScale
		p.Speed = x[1] * speedScale
		return p
	}
	miss := func(p Params) (float64, bool) {
		v0, err := p.InitialVelocity()
		if err != nil {
			return 0, false
		}
		y, err := DropAt(v0, gravity, distance)
		if err != nil {
			return 0, false
		}
		return y - rise, true
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			p := candidate(x)
			if p.LaunchAngleDeg < minFitAngle || p.LaunchAngleDeg > maxFitAngle || p.Speed <= 0 {
				return fitPenalty
			}
			m, ok := miss(p)
			if !ok {
				return fitPenalty
			}
			pull := (p.Speed - base.Speed) / speedScale
			return m*m + speedPull*pull*pull
		},
	}

	startSpeed := base.Speed
	if startSpeed <= 0 {
		startSpeed = 1
	}
	x0 := []float64{base.LaunchAngleDeg / angleScale, startSpeed / speedScale}
	settings := &optimize.Settings{FuncEvaluations: 5000}

	res, err := optimize.Minimize(problem, x0, settings, &optimize.NelderMead{})
	if res == nil {
		return Fit{}, errors.Wrap(err, "minimizing launch miss")
	}

	best := candidate(res.X)
	m, ok := miss(best)
	if !ok {
		return Fit{}, errors.Wrap(ErrNoSolution, "optimizer left the valid launch range")
	}
	fit := Fit{
		Params:      best,
		Distance:    distance,
		Miss:        m,
		Evaluations: res.Stats.FuncEvaluations,
	}
	if math.Abs(m) > FitTolerance {
		return fit, errors.Wrapf(ErrNoSolution, "best launch misses by %g", m)
	}
	return fit, nil
}
