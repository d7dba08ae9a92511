package game

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Strategy is what the contestant does after the host opens a door.
type Strategy int8

const (
	Stay Strategy = iota
	Switch
)

// Strategies lists every strategy in display order.
var Strategies = [...]Strategy{Stay, Switch}

var strategyNames = [...]string{
	Stay:   "stay",
	Switch: "switch",
}

func (s Strategy) String() string {
	if s < 0 || int(s) >= len(strategyNames) {
		return fmt.Sprintf("Strategy(%d)", s)
	}
	return strategyNames[s]
}

func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stay":
		return Stay, nil
	case "switch":
		return Switch, nil
	}
	return Stay, fmt.Errorf("%w: unknown strategy %q", ErrInvalidArgument, s)
}

// ChangeDoor returns the contestant's final door. With stay it is the
// original pick; otherwise it is the one door that is neither the pick nor
// the door the host opened.
func ChangeDoor(stay bool, opened, pick Door) (Door, error) {
	if err := opened.check(); err != nil {
		return NoDoor, err
	}
	if err := pick.check(); err != nil {
		return NoDoor, err
	}
	if opened == pick {
		return NoDoor, fmt.Errorf("%w: both are door %d", ErrSameDoor, int(pick))
	}
	if stay {
		return pick, nil
	}
	return lo.Without(AllDoors(), opened, pick)[0], nil
}

// FinalDoor applies the strategy.
func (s Strategy) FinalDoor(opened, pick Door) (Door, error) {
	return ChangeDoor(s == Stay, opened, pick)
}

func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Strategy) UnmarshalText(b []byte) error {
	v, err := ParseStrategy(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
