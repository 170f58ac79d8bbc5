package input

// Override is a latched pour command that replaces the source's command
// until released.
type Override struct {
	Active  bool
	Pouring bool
}

// Force latches pouring.
func (o *Override) Force(pouring bool) {
	o.Active = true
	o.Pouring = pouring
}

// Release hands control back to the source.
func (o *Override) Release() {
	*o = Override{}
}

// Effective returns the command the effects act on.
func (o Override) Effective(command bool) bool {
	if o.Active {
		return o.Pouring
	}
	return command
}

// Label describes the override for display. source names the input used
// when nothing is latched.
func (o Override) Label(source string) string {
	switch {
	case !o.Active:
		return "none (" + source + ")"
	case o.Pouring:
		return "forced pour"
	default:
		return "forced stop"
	}
}
