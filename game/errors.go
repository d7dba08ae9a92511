package game

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is the parent of every input validation error in this
// module. Check for it with errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")

var (
	ErrInvalidDoor       = fmt.Errorf("%w: door must be between 1 and %d", ErrInvalidArgument, NumDoors)
	ErrMalformedGame     = fmt.Errorf("%w: game must have exactly one car and two goats", ErrInvalidArgument)
	ErrInvalidTrialCount = fmt.Errorf("%w: trial count must be a positive integer", ErrInvalidArgument)
	ErrSameDoor          = fmt.Errorf("%w: opened door cannot be the contestant's pick", ErrInvalidArgument)
)
