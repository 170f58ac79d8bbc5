package effect

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/sandpour/config"
	"github.com/pthm-cable/sandpour/pour"
	"github.com/pthm-cable/sandpour/trajectory"
)

type recordingEmitter struct {
	enabled    bool
	rate       float64
	configured []EmissionSettings
}

func (e *recordingEmitter) SetEnabled(v bool) {
	e.enabled = v
}
func (e *recordingEmitter) SetRate(r float64) { e.rate = r }
func (e *recordingEmitter) Configure(s EmissionSettings) {
	e.configured = append(e.configured, s)
}

type plainEmitter struct {
	enabled bool
	rate    float64
}

func (e *plainEmitter) SetEnabled(v bool) { e.enabled = v }
func (e *plainEmitter) SetRate(r float64) { e.rate = r }

type indicatorRecorder struct {
	ys []float64
}

func (r *indicatorRecorder) SetVertical(y float64) { r.ys = append(r.ys, y) }

type poseRecorder struct {
	last  EmitterFrame
	count int
}

func (r *poseRecorder) SetPose(f EmitterFrame) { r.last = f; r.count++ }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() Config {
	return FromConfig(config.Default(), "test")
}

func newController(t *testing.T, opts ...Option) *Controller {
	t.Helper()
	opts = append(opts, WithLogger(quietLogger()))
	c, err := New(testConfig(), opts...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

func TestController_PublishesNamedParameters(t *testing.T) {
	params := ParameterMap{}
	c := newController(t, WithParameters(params))

	c.Tick(true, 1)
	if math.Abs(params["_FillAmount"]-0.2) > 1e-12 {
		t.Errorf("expected _FillAmount 0.2, got %f", params["_FillAmount"])
	}
	if params["_FillVelocity"] != 1 {
		t.Errorf("expected _FillVelocity 1, got %f", params["_FillVelocity"])
	}

	c.Tick(false, 0.5)
	if params["_FillVelocity"] != 0 {
		t.Errorf("expected _FillVelocity 0 after decay tick, got %f", params["_FillVelocity"])
	}
	if math.Abs(params["_FillAmount"]-0.2) > 1e-12 {
		t.Errorf("expected _FillAmount to stay 0.2, got %f", params["_FillAmount"])
	}
	if len(params) != 2 {
		t.Errorf("expected exactly two parameters, got %v", params)
	}
}

func TestController_IndicatorScenarioD(t *testing.T) {
	ind := &indicatorRecorder{}
	c := newController(t, WithIndicator(ind))
	c.Machine().Set(pour.State{FillAmount: 0.5})

	snap := c.Tick(false, 0)
	if len(ind.ys) != 1 {
		t.Fatalf("expected one indicator write, got %d", len(ind.ys))
	}
	if math.Abs(ind.ys[0]-0.0775) > 1e-9 {
		t.Errorf("expected indicator y 0.0775, got %f", ind.ys[0])
	}
	if math.Abs(snap.IndicatorY-0.0775) > 1e-9 {
		t.Errorf("expected snapshot indicator y 0.0775, got %f", snap.IndicatorY)
	}
}

func TestController_IndicatorDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Indicator.Enabled = false
	ind := &indicatorRecorder{}
	c, err := New(cfg, WithIndicator(ind), WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.Tick(true, 0.1)
	if len(ind.ys) != 0 {
		t.Errorf("expected no indicator writes when disabled, got %d", len(ind.ys))
	}
}

func TestController_MissingSinksAreSkipped(t *testing.T) {
	c := newController(t)
	c.Start()
	for i := 0; i < 10; i++ {
		c.Tick(i%2 == 0, 0.1)
	}
	c.SetPouring(true)
	c.SetEmissionRate(50)
	if c.EmissionRate() != 50 {
		t.Errorf("expected rate 50, got %f", c.EmissionRate())
	}
}

func TestController_EmitterFollowsPourState(t *testing.T) {
	em := &recordingEmitter{}
	c := newController(t, WithEmitter(em))
	c.Start()

	if len(em.configured) != 1 {
		t.Fatalf("expected one Configure call, got %d", len(em.configured))
	}
	if em.rate != 120 || em.enabled {
		t.Errorf("expected rate 120 and disabled after Start, got %f %v", em.rate, em.enabled)
	}

	c.Tick(true, 0.1)
	if !em.enabled {
		t.Error("expected emitter enabled while pouring")
	}
	c.Tick(false, 0.1)
	if em.enabled {
		t.Error("expected emitter disabled when idle")
	}
}

func TestController_StartWithoutConfigurer(t *testing.T) {
	em := &plainEmitter{}
	c := newController(t, WithEmitter(em))
	c.Start()
	if em.rate != 120 {
		t.Errorf("expected rate pushed at start, got %f", em.rate)
	}
}

func TestController_EmissionSettings(t *testing.T) {
	c := newController(t)
	s := c.EmissionSettings()
	if math.Abs(s.LifetimeMin-1.4) > 1e-12 || s.LifetimeMax != 2 {
		t.Errorf("unexpected lifetime range %f..%f", s.LifetimeMin, s.LifetimeMax)
	}
	if math.Abs(s.SpeedMin-2.25) > 1e-12 || s.SpeedMax != 2.5 {
		t.Errorf("unexpected speed range %f..%f", s.SpeedMin, s.SpeedMax)
	}
	if math.Abs(s.SizeMin-0.03) > 1e-12 || s.MaxParticles != 1000 || s.ConeAngleDeg != 3 {
		t.Errorf("unexpected settings %+v", s)
	}
	if got := s.Orientation.Rotate(trajectory.Forward); got.Sub(s.Direction).Len() > 1e-9 {
		t.Errorf("orientation maps cone axis to %v, expected %v", got, s.Direction)
	}
}

func TestController_SetPouringOverridesInput(t *testing.T) {
	em := &recordingEmitter{}
	c := newController(t, WithEmitter(em))

	c.SetPouring(true)
	if !em.enabled {
		t.Error("expected SetPouring to enable the emitter immediately")
	}
	snap := c.Tick(false, 0.5)
	if !snap.Command || !snap.Forced || !snap.State.IsPouring {
		t.Errorf("expected forced pouring, got %+v", snap)
	}

	c.SetPouring(false)
	snap = c.Tick(true, 0.5)
	if snap.Command || snap.State.IsPouring {
		t.Errorf("expected forced idle, got %+v", snap)
	}

	c.ReleasePouring()
	if active, _ := c.Forced(); active {
		t.Error("expected override released")
	}
	snap = c.Tick(true, 0.5)
	if !snap.Command || snap.Forced {
		t.Errorf("expected input to drive the command again, got %+v", snap)
	}
}

func TestController_SetEmissionRate(t *testing.T) {
	em := &recordingEmitter{}
	c := newController(t, WithEmitter(em))

	c.SetEmissionRate(300)
	if em.rate != 300 || c.EmissionRate() != 300 {
		t.Errorf("expected rate 300, got sink %f controller %f", em.rate, c.EmissionRate())
	}
	c.SetEmissionRate(-5)
	if em.rate != 0 {
		t.Errorf("expected negative rate clamped to 0, got %f", em.rate)
	}
	if snap := c.Tick(true, 0.1); snap.EmissionRate != 0 {
		t.Errorf("expected snapshot rate 0, got %f", snap.EmissionRate)
	}
}

func TestController_FollowsReference(t *testing.T) {
	anchor := NewAnchor(mgl64.Vec3{1, 2, 0})
	pose := &poseRecorder{}
	c := newController(t, WithReference(anchor), WithPose(pose))

	c.Tick(false, 0.016)
	want := mgl64.Vec3{0.5, 1.7, 0}
	if pose.last.Origin.Sub(want).Len() > 1e-12 {
		t.Errorf("expected origin %v, got %v", want, pose.last.Origin)
	}

	anchor.Move(mgl64.Vec3{3, 0, 1})
	snap := c.Tick(false, 0.016)
	want = mgl64.Vec3{2.5, -0.3, 1}
	if snap.Frame.Origin.Sub(want).Len() > 1e-12 {
		t.Errorf("expected origin %v after move, got %v", want, snap.Frame.Origin)
	}
	if pose.count != 2 {
		t.Errorf("expected a pose per tick, got %d", pose.count)
	}
}

func TestController_NoReferenceKeepsOffsetOrigin(t *testing.T) {
	c := newController(t)
	snap := c.Tick(true, 0.1)
	if snap.Frame.Origin != (mgl64.Vec3{-0.5, -0.3, 0}) {
		t.Errorf("expected origin at spawn offset, got %v", snap.Frame.Origin)
	}
}

func TestController_FrameMatchesSolver(t *testing.T) {
	c := newController(t, WithReference(StaticReference{0, 0, 0}))
	snap := c.Tick(false, 0)

	want, _ := trajectory.InitialVelocity(mgl64.Vec3{-1, 0, 0}, 30, 2.5)
	if snap.Frame.InitialVelocity.Sub(want).Len() > 1e-12 {
		t.Errorf("expected velocity %v, got %v", want, snap.Frame.InitialVelocity)
	}
	dir := snap.Frame.Orientation.Rotate(trajectory.Forward)
	if dir.Sub(want.Normalize()).Len() > 1e-9 {
		t.Errorf("orientation points along %v, expected %v", dir, want.Normalize())
	}
}

func TestController_PreviewStartsAtEmitter(t *testing.T) {
	c := newController(t, WithReference(StaticReference{1.5, 2, 0}))
	c.Tick(false, 0)

	path, err := c.Preview()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	samples := path.Collect()
	if len(samples) == 0 || samples[0].Position != c.Frame().Origin {
		t.Fatalf("expected preview to start at %v", c.Frame().Origin)
	}
	if len(samples) > 80 {
		t.Errorf("expected at most 80 samples, got %d", len(samples))
	}

	// The preview and the emitter agree on the launch velocity.
	g := c.Config().Gravity()
	p1, _ := trajectory.Position(c.Frame().Origin, c.Frame().InitialVelocity, g, samples[1].T)
	if p1.Sub(samples[1].Position).Len() > 1e-12 {
		t.Errorf("preview sample %v disagrees with solver %v", samples[1].Position, p1)
	}
}

func TestController_SetTrajectory(t *testing.T) {
	em := &recordingEmitter{}
	c := newController(t, WithEmitter(em))
	c.Start()

	p := c.Params()
	p.LaunchAngleDeg = 60
	if err := c.SetTrajectory(p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(em.configured) != 2 {
		t.Errorf("expected reconfigure after trajectory change, got %d configure calls", len(em.configured))
	}
	want, _ := trajectory.InitialVelocity(p.Direction, 60, p.Speed)
	if c.Frame().InitialVelocity.Sub(want).Len() > 1e-12 {
		t.Errorf("expected velocity %v, got %v", want, c.Frame().InitialVelocity)
	}

	p.Direction = mgl64.Vec3{}
	err := c.SetTrajectory(p)
	if !errors.Is(err, ErrInvalidConfig) || !errors.Is(err, trajectory.ErrInvalidDirection) {
		t.Errorf("expected ErrInvalidConfig wrapping ErrInvalidDirection, got %v", err)
	}
	if c.Params().LaunchAngleDeg != 60 || c.Params().Direction.Len() == 0 {
		t.Error("failed SetTrajectory must keep the previous params")
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Trajectory.Direction = mgl64.Vec3{2, 0, 0}
	if _, err := New(cfg, WithLogger(quietLogger())); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for long direction, got %v", err)
	}

	cfg = testConfig()
	cfg.Parameters.FillVelocity = ""
	if _, err := New(cfg, WithLogger(quietLogger())); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for empty name, got %v", err)
	}

	cfg = testConfig()
	cfg.EmissionRate = -1
	if _, err := New(cfg, WithLogger(quietLogger())); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for negative rate, got %v", err)
	}
}

func TestNew_RejectsInvalidRates(t *testing.T) {
	for _, r := range []pour.Rates{
		{FillSpeed: -0.5, RiseRate: 10, FallRate: 2},
		{FillSpeed: 0.2, RiseRate: math.NaN(), FallRate: 2},
		{FillSpeed: 0.2, RiseRate: 10, FallRate: -2},
	} {
		cfg := testConfig()
		cfg.Rates = r
		_, err := New(cfg, WithLogger(quietLogger()))
		if !errors.Is(err, ErrInvalidConfig) || !errors.Is(err, pour.ErrInvalidRates) {
			t.Errorf("expected ErrInvalidConfig wrapping ErrInvalidRates for %+v, got %v", r, err)
		}
	}

	cfg := testConfig()
	cfg.EmissionRate = math.NaN()
	if _, err := New(cfg, WithLogger(quietLogger())); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for NaN emission rate, got %v", err)
	}
}

func TestController_FillNeverDropsWhilePouring(t *testing.T) {
	c := newController(t)
	c.Machine().Set(pour.State{FillAmount: 0.6})
	prev := c.State().FillAmount
	for i := 0; i < 30; i++ {
		s := c.Tick(i%3 != 0, 0.05)
		if s.State.FillAmount < prev {
			t.Fatalf("tick %d: fill amount dropped from %f to %f", i, prev, s.State.FillAmount)
		}
		prev = s.State.FillAmount
	}
}

func TestController_DeterministicOutputs(t *testing.T) {
	run := func() []Snapshot {
		params := ParameterMap{}
		c := newController(t, WithParameters(params), WithReference(StaticReference{1, 1, 0}))
		var out []Snapshot
		for i := 0; i < 240; i++ {
			cmd := (i/30)%2 == 0
			dt := 1.0 / 60
			if i%7 == 0 {
				dt = 1.0 / 30
			}
			out = append(out, c.Tick(cmd, dt))
		}
		return out
	}
	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("tick %d: snapshots differ", i)
		}
	}
}

func TestController_NegativeDtIsNoOp(t *testing.T) {
	c := newController(t)
	c.Tick(true, 0.5)
	before := c.State()
	snap := c.Tick(true, -1)
	if snap.State.FillAmount != before.FillAmount || snap.State.FillVelocity != before.FillVelocity {
		t.Errorf("expected no change for negative dt, got %+v", snap.State)
	}
	if snap.Time != 0.5 {
		t.Errorf("expected elapsed time to stay 0.5, got %f", snap.Time)
	}
}
