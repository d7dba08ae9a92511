package game

import (
	"fmt"
	"strings"
)

type Outcome int8

const (
	Lose Outcome = iota
	Win
)

// Outcomes lists every outcome in display order.
var Outcomes = [...]Outcome{Win, Lose}

var outcomeNames = [...]string{
	Lose: "LOSE",
	Win:  "WIN",
}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return fmt.Sprintf("Outcome(%d)", o)
	}
	return outcomeNames[o]
}

func ParseOutcome(s string) (Outcome, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "WIN":
		return Win, nil
	case "LOSE":
		return Lose, nil
	}
	return Lose, fmt.Errorf("%w: unknown outcome %q", ErrInvalidArgument, s)
}

// DetermineWinner is WIN if the car is behind the final door and LOSE
// otherwise.
func DetermineWinner(final Door, g Game) (Outcome, error) {
	if err := final.check(); err != nil {
		return Lose, err
	}
	if err := g.Validate(); err != nil {
		return Lose, err
	}
	if g.Prize(final) == Car {
		return Win, nil
	}
	return Lose, nil
}

// TrialResult pairs a strategy with how it fared in one trial.
type TrialResult struct {
	Strategy Strategy `json:"strategy" yaml:"strategy"`
	Outcome  Outcome  `json:"outcome" yaml:"outcome"`
}

func (r TrialResult) String() string {
	return r.Strategy.String() + " " + r.Outcome.String()
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(b []byte) error {
	v, err := ParseOutcome(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}
