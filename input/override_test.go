package input

import "testing"

func TestOverride_Effective(t *testing.T) {
	var o Override
	if !o.Effective(true) || o.Effective(false) {
		t.Error("released override must pass the command through")
	}

	o.Force(true)
	if !o.Effective(false) {
		t.Error("forced pour must ignore an idle command")
	}
	o.Force(false)
	if o.Effective(true) {
		t.Error("forced stop must ignore a pour command")
	}

	o.Release()
	if o.Active || o.Pouring {
		t.Errorf("expected release to clear the override, got %+v", o)
	}
}

func TestOverride_Label(t *testing.T) {
	cases := []struct {
		o    Override
		want string
	}{
		{Override{}, "none (keyboard)"},
		{Override{Active: true, Pouring: true}, "forced pour"},
		{Override{Active: true}, "forced stop"},
		{Override{Pouring: true}, "none (keyboard)"},
	}
	for _, c := range cases {
		if got := c.o.Label("keyboard"); got != c.want {
			t.Errorf("Label(%+v): expected %q, got %q", c.o, c.want, got)
		}
	}
}
