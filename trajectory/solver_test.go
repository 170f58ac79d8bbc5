package trajectory

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

func vecNear(a, b mgl64.Vec3, tol float64) bool {
	return a.Sub(b).Len() <= tol
}

func TestInitialVelocity_ScenarioA(t *testing.T) {
	v, err := InitialVelocity(mgl64.Vec3{-1, 0, 0}, 30, 2.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := mgl64.Vec3{-2.165, -1.25, 0}
	if !vecNear(v, want, 1e-3) {
		t.Errorf("expected %v, got %v", want, v)
	}
}

func TestInitialVelocity_MagnitudeEqualsSpeed(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		dir := mgl64.Vec3{rng.Float64()*2 - 1, rng.Float64()*2 - 1, rng.Float64()*2 - 1}
		if dir.Len() < 1e-3 {
			continue
		}
		dir = dir.Normalize()
		angle := rng.Float64()*180 - 90
		speed := rng.Float64() * 10

		v, err := InitialVelocity(dir, angle, speed)
		if err != nil {
			t.Fatalf("unexpected error for dir %v: %v", dir, err)
		}
		if math.Abs(v.Len()-speed) > 1e-9 {
			t.Errorf("dir %v angle %.2f: magnitude %f, expected %f", dir, angle, v.Len(), speed)
		}
	}
}

func TestInitialVelocity_ZeroAngleKeepsDirection(t *testing.T) {
	dir := mgl64.Vec3{3, 0, 4}.Normalize()
	v, err := InitialVelocity(dir, 0, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !vecNear(v, dir.Mul(2), 1e-12) {
		t.Errorf("expected %v, got %v", dir.Mul(2), v)
	}
}

func TestInitialVelocity_RightAnglePointsDown(t *testing.T) {
	for _, dir := range []mgl64.Vec3{{-1, 0, 0}, {0, 0, 1}, mgl64.Vec3{1, 0, 1}.Normalize()} {
		v, err := InitialVelocity(dir, 90, 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !vecNear(v, mgl64.Vec3{0, -3, 0}, 1e-9) {
			t.Errorf("dir %v: expected straight down, got %v", dir, v)
		}
	}
}

func TestInitialVelocity_TiltsTowardDirection(t *testing.T) {
	// Positive angles keep the horizontal heading and only add downward motion.
	dir := mgl64.Vec3{0, 0, -1}
	v, err := InitialVelocity(dir, 45, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Z() >= 0 || v.Y() >= 0 || math.Abs(v.X()) > 1e-12 {
		t.Errorf("expected forward-down velocity, got %v", v)
	}
}

func TestInitialVelocity_InvalidDirection(t *testing.T) {
	for _, dir := range []mgl64.Vec3{{0, 0, 0}, {2, 0, 0}, {0.5, 0, 0}} {
		_, err := InitialVelocity(dir, 30, 1)
		if !errors.Is(err, ErrInvalidDirection) {
			t.Errorf("dir %v: expected ErrInvalidDirection, got %v", dir, err)
		}
	}
}

func TestInitialVelocity_NegativeSpeed(t *testing.T) {
	_, err := InitialVelocity(mgl64.Vec3{1, 0, 0}, 10, -1)
	if !errors.Is(err, ErrInvalidSpeed) {
		t.Errorf("expected ErrInvalidSpeed, got %v", err)
	}
}

func TestFinalDirection_VerticalUnchanged(t *testing.T) {
	dir := mgl64.Vec3{0, -1, 0}
	got, err := FinalDirection(dir, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != dir {
		t.Errorf("expected %v unchanged, got %v", dir, got)
	}
}

func TestPosition_ZeroTimeIsOrigin(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 50; i++ {
		origin := mgl64.Vec3{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}
		v0 := mgl64.Vec3{rng.NormFloat64() * 10, rng.NormFloat64() * 10, rng.NormFloat64() * 10}
		g := rng.Float64() * 30

		p, err := Position(origin, v0, g, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p != origin {
			t.Errorf("expected exactly %v, got %v", origin, p)
		}
	}
}

func TestPosition_ClosedForm(t *testing.T) {
	origin := mgl64.Vec3{1, 2, 3}
	v0 := mgl64.Vec3{-2, 1, 0.5}
	g := 9.81
	tt := 0.4

	p, err := Position(origin, v0, g, tt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := mgl64.Vec3{
		1 - 2*tt,
		2 + tt - 0.5*g*tt*tt,
		3 + 0.5*tt,
	}
	if !vecNear(p, want, 1e-12) {
		t.Errorf("expected %v, got %v", want, p)
	}
}

func TestPosition_NegativeTime(t *testing.T) {
	_, err := Position(mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}, 9.81, -0.1)
	if !errors.Is(err, ErrInvalidTime) {
		t.Errorf("expected ErrInvalidTime, got %v", err)
	}
}

func TestVelocityAt_GravityOnlyAffectsY(t *testing.T) {
	v, err := VelocityAt(mgl64.Vec3{1, 2, 3}, 10, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != (mgl64.Vec3{1, -3, 3}) {
		t.Errorf("expected (1,-3,3), got %v", v)
	}
}

func TestOrientationFromDirection_MapsAxis(t *testing.T) {
	final, err := FinalDirection(mgl64.Vec3{-1, 0, 0}, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	q, err := OrientationFromDirection(final, Forward)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(q.Len()-1) > 1e-9 {
		t.Errorf("expected unit quaternion, got length %f", q.Len())
	}
	if got := q.Rotate(Forward); !vecNear(got, final, 1e-9) {
		t.Errorf("rotated axis %v, expected %v", got, final)
	}
}

func TestOrientationFromDirection_ShortestArc(t *testing.T) {
	final := mgl64.Vec3{1, 0, 0}
	q, err := OrientationFromDirection(final, Forward)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Forward to +X is a quarter turn; the shortest arc uses exactly that angle.
	angle := 2 * math.Acos(math.Min(1, math.Abs(q.W)))
	if math.Abs(angle-math.Pi/2) > 1e-9 {
		t.Errorf("expected rotation angle pi/2, got %f", angle)
	}
}

func TestOrientationFromDirection_Opposite(t *testing.T) {
	q, err := OrientationFromDirection(Forward.Mul(-1), Forward)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := q.Rotate(Forward); !vecNear(got, Forward.Mul(-1), 1e-9) {
		t.Errorf("expected -Forward, got %v", got)
	}
}

func TestOrientationFromDirection_InvalidInput(t *testing.T) {
	if _, err := OrientationFromDirection(mgl64.Vec3{}, Forward); !errors.Is(err, ErrInvalidDirection) {
		t.Errorf("expected ErrInvalidDirection for zero direction, got %v", err)
	}
	if _, err := OrientationFromDirection(Forward, mgl64.Vec3{0, 0, 2}); !errors.Is(err, ErrInvalidDirection) {
		t.Errorf("expected ErrInvalidDirection for long axis, got %v", err)
	}
}

func TestTimeToFall(t *testing.T) {
	v0 := mgl64.Vec3{-2, 1, 0}
	g := 9.81
	tt, err := TimeToFall(v0, g, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, _ := Position(mgl64.Vec3{}, v0, g, tt)
	if math.Abs(p.Y()+2) > 1e-9 {
		t.Errorf("expected y=-2 at t=%f, got %f", tt, p.Y())
	}
}

func TestTimeToFall_NoGravityUpward(t *testing.T) {
	_, err := TimeToFall(mgl64.Vec3{0, 1, 0}, 0, 1)
	if !errors.Is(err, ErrNoSolution) {
		t.Errorf("expected ErrNoSolution, got %v", err)
	}
}

func TestParams_Validate(t *testing.T) {
	p := Params{Direction: mgl64.Vec3{-1, 0, 0}, LaunchAngleDeg: 30, Speed: 2.5, GravityScale: 1.2}
	if err := p.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if g := p.Gravity(StandardGravity); math.Abs(g-1.2*9.81) > 1e-12 {
		t.Errorf("expected gravity %f, got %f", 1.2*9.81, g)
	}

	p.Direction = mgl64.Vec3{-2, 0, 0}
	if err := p.Validate(); !errors.Is(err, ErrInvalidDirection) {
		t.Errorf("expected ErrInvalidDirection, got %v", err)
	}
}
