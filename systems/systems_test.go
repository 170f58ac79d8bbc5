package systems

import (
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/sandpour/components"
	"github.com/pthm-cable/sandpour/config"
	"github.com/pthm-cable/sandpour/effect"
)

type scene struct {
	world  *ecs.World
	mapper *ecs.Map4[components.Anchor, components.Position, components.Effect, components.Output]
	output *ecs.Map1[components.Output]
}

func newScene() *scene {
	w := ecs.NewWorld()
	return &scene{
		world:  w,
		mapper: ecs.NewMap4[components.Anchor, components.Position, components.Effect, components.Output](w),
		output: ecs.NewMap1[components.Output](w),
	}
}

func (s *scene) add(t *testing.T, anchor components.Anchor) (ecs.Entity, *effect.Controller) {
	t.Helper()
	ref := effect.NewAnchor(anchor.Base)
	ctrl, err := effect.New(effect.FromConfig(config.Default(), anchor.Name),
		effect.WithReference(ref),
		effect.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pos := components.Position{Vec: anchor.Base}
	eff := components.Effect{Controller: ctrl, Reference: ref}
	out := components.Output{}
	e := s.mapper.NewEntity(&anchor, &pos, &eff, &out)
	return e, ctrl
}

func TestSwayPosition(t *testing.T) {
	a := components.Anchor{
		Base:      mgl64.Vec3{1, 2, 0},
		Amplitude: mgl64.Vec3{0.5, 0, 0},
		Frequency: 0.25,
	}

	if got := SwayPosition(a, 0); got != a.Base {
		t.Errorf("expected base at t=0, got %v", got)
	}
	// Quarter period: sin = 1
	got := SwayPosition(a, 1)
	if math.Abs(got[0]-1.5) > 1e-12 || got[1] != 2 {
		t.Errorf("expected (1.5, 2, 0) at quarter period, got %v", got)
	}

	still := components.Anchor{Base: mgl64.Vec3{3, 3, 3}, Amplitude: mgl64.Vec3{1, 1, 1}}
	if got := SwayPosition(still, 7); got != still.Base {
		t.Errorf("expected zero frequency to stay at base, got %v", got)
	}
}

func TestMotionSystem_MovesAnchors(t *testing.T) {
	s := newScene()
	e, _ := s.add(t, components.Anchor{
		Name:      "a",
		Base:      mgl64.Vec3{0, 1, 0},
		Amplitude: mgl64.Vec3{0, 0.2, 0},
		Frequency: 0.25,
	})

	NewMotionSystem(s.world).Update(1)

	pos := ecs.NewMap1[components.Position](s.world).Get(e)
	if math.Abs(pos.Vec[1]-1.2) > 1e-12 {
		t.Errorf("expected y 1.2 after quarter period, got %f", pos.Vec[1])
	}
}

func TestEffectSystem_FollowsMovedAnchor(t *testing.T) {
	s := newScene()
	e, ctrl := s.add(t, components.Anchor{
		Name:      "a",
		Base:      mgl64.Vec3{2, 2, 0},
		Amplitude: mgl64.Vec3{1, 0, 0},
		Frequency: 0.25,
	})

	motion := NewMotionSystem(s.world)
	effects := NewEffectSystem(s.world)

	motion.Update(1)
	if n := effects.Update(true, 0.1); n != 1 {
		t.Fatalf("expected one effect ticked, got %d", n)
	}

	offset := ctrl.Config().SpawnOffset
	want := mgl64.Vec3{3, 2, 0}.Add(offset)
	if ctrl.Frame().Origin.Sub(want).Len() > 1e-12 {
		t.Errorf("expected origin %v, got %v", want, ctrl.Frame().Origin)
	}

	out := s.output.Get(e)
	if !out.Valid || !out.Snapshot.State.IsPouring {
		t.Errorf("expected a pouring snapshot, got %+v", out)
	}
	if math.Abs(out.Snapshot.State.FillAmount-0.02) > 1e-12 {
		t.Errorf("expected fill 0.02, got %f", out.Snapshot.State.FillAmount)
	}
}

func TestEffectSystem_TicksEveryEffect(t *testing.T) {
	s := newScene()
	var ctrls []*effect.Controller
	for i := 0; i < 3; i++ {
		_, c := s.add(t, components.Anchor{Name: "e", Base: mgl64.Vec3{float64(i), 0, 0}})
		ctrls = append(ctrls, c)
	}
	effects := NewEffectSystem(s.world)
	for i := 0; i < 10; i++ {
		effects.Update(true, 0.1)
	}
	for i, c := range ctrls {
		if math.Abs(c.State().FillAmount-0.2) > 1e-9 {
			t.Errorf("effect %d: expected fill 0.2, got %f", i, c.State().FillAmount)
		}
	}
}

func TestEffectSystem_ForceAndRelease(t *testing.T) {
	s := newScene()
	_, ctrl := s.add(t, components.Anchor{Name: "a"})
	effects := NewEffectSystem(s.world)

	effects.ForcePouring(true)
	effects.Update(false, 0.1)
	if !ctrl.State().IsPouring {
		t.Error("expected forced pouring")
	}

	effects.Release()
	effects.Update(false, 0.1)
	if ctrl.State().IsPouring {
		t.Error("expected input to control pouring after release")
	}
}

func TestSystemRegistry(t *testing.T) {
	reg := NewSystemRegistry()
	if got := reg.GetName("effects"); got != "Effects" {
		t.Errorf("expected display name Effects, got %q", got)
	}
	if got := reg.GetName("unknown"); got != "unknown" {
		t.Errorf("expected fallback to id, got %q", got)
	}
	if len(reg.IDs()) != len(reg.All()) {
		t.Error("IDs and All disagree")
	}
	if len(reg.ByCategory("core")) != 2 {
		t.Errorf("expected two core systems, got %d", len(reg.ByCategory("core")))
	}
}
