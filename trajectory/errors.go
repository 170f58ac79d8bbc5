package trajectory

import "github.com/pkg/errors"

// Solver errors. Callers match them with errors.Is; the returned values carry
// the offending input as context.
var (
	ErrInvalidDirection = errors.New("trajectory: direction must be a unit vector")
	ErrInvalidTime      = errors.New("trajectory: time must be non-negative")
	ErrInvalidSpeed     = errors.New("trajectory: speed must be non-negative")
	ErrInvalidSteps     = errors.New("trajectory: sample count must be positive")
	ErrInvalidFallLimit = errors.New("trajectory: fall limit must be non-negative")
	ErrNoSolution       = errors.New("trajectory: no launch reaches the target")
)
