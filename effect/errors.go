package effect

import "github.com/pkg/errors"

// ErrInvalidConfig is returned by New and SetTrajectory for unusable settings.
var ErrInvalidConfig = errors.New("effect: invalid config")

// configError matches both ErrInvalidConfig and the solver or pour error
// that rejected the setting.
type configError struct {
	field string
	cause error
}

func (e *configError) Error() string {
	return ErrInvalidConfig.Error() + ": " + e.field + ": " + e.cause.Error()
}

func (e *configError) Unwrap() []error { return []error{ErrInvalidConfig, e.cause} }

// invalidConfig reports cause as an invalid value of field.
func invalidConfig(field string, cause error) error {
	return errors.WithStack(&configError{field: field, cause: cause})
}
