package montecarlo

import (
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/montyhall/game"
	"github.com/domino14/montyhall/stats"
)

func TestPassTest(t *testing.T) {
	is := is.New(t)
	is.True(passTest(0.67, 0.02, 0.33, 0.02))
	is.True(!passTest(0.33, 0.02, 0.67, 0.02))
	// intervals overlap
	is.True(!passTest(0.52, 0.03, 0.48, 0.03))
	is.True(!passTest(0.5, 0, 0.5, 0))
}

func TestParseStoppingCondition(t *testing.T) {
	is := is.New(t)
	for str, want := range map[string]StoppingCondition{
		"0": StopNone, "95": Stop95, "98": Stop98, "99": Stop99,
	} {
		sc, err := ParseStoppingCondition(str)
		is.NoErr(err)
		is.Equal(sc, want)
	}
	for _, bad := range []string{"", "90", "abc", "-1"} {
		_, err := ParseStoppingCondition(bad)
		is.True(errors.Is(err, game.ErrInvalidArgument))
	}
}

func TestStoppingConditionZ(t *testing.T) {
	is := is.New(t)
	is.Equal(StopNone.Z(), 0.0)
	is.Equal(Stop95.Z(), stats.Z95)
	is.True(Stop95.Z() < Stop98.Z())
	is.True(Stop98.Z() < Stop99.Z())
}
