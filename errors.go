package runoff

import "github.com/pkg/errors"

// Standard errors for primary operations.
var (
	ErrEmptyBallot         = errors.New("ballot does not rank any options")
	ErrDuplicatePreference = errors.New("ballot ranks the same option more than once")
	ErrUnresolvableTie     = errors.New("unresolvable tie: no option can be eliminated")
	ErrNotRun              = errors.New("benchmark has not been run yet")
	ErrUnknownScenario     = errors.New("unknown benchmark scenario")
)
