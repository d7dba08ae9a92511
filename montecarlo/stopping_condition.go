package montecarlo

import (
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/domino14/montyhall/game"
	"github.com/domino14/montyhall/stats"
)

type StoppingCondition int

const (
	StopNone StoppingCondition = iota
	Stop95
	Stop98
	Stop99
)

// ParseStoppingCondition accepts 0, 95, 98 or 99.
func ParseStoppingCondition(s string) (StoppingCondition, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return StopNone, fmt.Errorf("%w: stopping condition %q", game.ErrInvalidArgument, s)
	}
	switch n {
	case 0:
		return StopNone, nil
	case 95:
		return Stop95, nil
	case 98:
		return Stop98, nil
	case 99:
		return Stop99, nil
	}
	return StopNone, fmt.Errorf("%w: stopping condition must be 0, 95, 98 or 99, got %d",
		game.ErrInvalidArgument, n)
}

func (sc StoppingCondition) String() string {
	switch sc {
	case Stop95:
		return "95"
	case Stop98:
		return "98"
	case Stop99:
		return "99"
	}
	return "none"
}

// Z returns the z-score for the condition's confidence level.
func (sc StoppingCondition) Z() float64 {
	switch sc {
	case Stop95:
		return stats.Z95
	case Stop98:
		return stats.Z98
	case Stop99:
		return stats.Z99
	}
	return 0
}

// use stats to figure out when to stop simming.
func (s *Simmer) shouldStop() bool {
	z := s.stoppingCondition.Z()
	s.RLock()
	μs := s.winStats[game.Switch].Mean()
	es := s.winStats[game.Switch].StandardError(z)
	μk := s.winStats[game.Stay].Mean()
	ek := s.winStats[game.Stay].StandardError(z)
	s.RUnlock()

	if passTest(μs, es, μk, ek) || passTest(μk, ek, μs, es) {
		log.Debug().Float64("switch", μs).Float64("stay", μk).
			Float64("switch-err", es).Float64("stay-err", ek).Msg("sim-separated")
		return true
	}
	return false
}

// passTest: determine if a random variable X > Y with the given
// confidence level; return true if X > Y.
func passTest(μ, e, μi, ei float64) bool {
	// X > Y if (μ - e) > (μi + ei)
	return (μ - e) > (μi + ei)
}
