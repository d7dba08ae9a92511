// Package automatic plays Monty Hall trials without a human: one at a time
// with a GameRunner, or by the thousand with a BatchRunner.
package automatic

import (
	"strconv"

	"github.com/domino14/montyhall/game"
)

// Trial is everything that happened in one game, played both ways.
type Trial struct {
	Index         int
	Game          game.Game
	Pick          game.Door
	Opened        game.Door
	StayPick      game.Door
	StayOutcome   game.Outcome
	SwitchPick    game.Door
	SwitchOutcome game.Outcome
}

// Results returns the trial's two rows, stay first.
func (t Trial) Results() [2]game.TrialResult {
	return [2]game.TrialResult{
		{Strategy: game.Stay, Outcome: t.StayOutcome},
		{Strategy: game.Switch, Outcome: t.SwitchOutcome},
	}
}

var logHeader = []string{"trial", "game", "pick", "opened",
	"stay_pick", "stay_outcome", "switch_pick", "switch_outcome"}

func (t Trial) record() []string {
	return []string{
		strconv.Itoa(t.Index),
		t.Game.String(),
		strconv.Itoa(int(t.Pick)),
		strconv.Itoa(int(t.Opened)),
		strconv.Itoa(int(t.StayPick)),
		t.StayOutcome.String(),
		strconv.Itoa(int(t.SwitchPick)),
		t.SwitchOutcome.String(),
	}
}

// GameRunner plays trials using its own random source. It is not safe
// for concurrent use.
type GameRunner struct {
	rng    game.Randomizer
	played int
}

// NewGameRunner just instantiates a game runner around a random source.
func NewGameRunner(rng game.Randomizer) *GameRunner {
	return &GameRunner{rng: rng}
}

// PlayTrial deals a game, makes the contestant's pick, has the host open a
// goat door, and then resolves both strategies from that same pick and
// that same opened door.
func (r *GameRunner) PlayTrial() (Trial, error) {
	t := Trial{Index: r.played}
	t.Game = game.NewGame(r.rng)
	t.Pick = game.SelectDoor(r.rng)

	var err error
	t.Opened, err = game.OpenGoatDoor(r.rng, t.Game, t.Pick)
	if err != nil {
		return t, err
	}
	if t.StayPick, err = game.ChangeDoor(true, t.Opened, t.Pick); err != nil {
		return t, err
	}
	if t.SwitchPick, err = game.ChangeDoor(false, t.Opened, t.Pick); err != nil {
		return t, err
	}
	if t.StayOutcome, err = game.DetermineWinner(t.StayPick, t.Game); err != nil {
		return t, err
	}
	if t.SwitchOutcome, err = game.DetermineWinner(t.SwitchPick, t.Game); err != nil {
		return t, err
	}
	r.played++
	return t, nil
}

// Played is how many trials this runner has completed.
func (r *GameRunner) Played() int {
	return r.played
}

// PlayOneTrial plays a single trial with a fresh random source and returns
// its stay and switch rows.
func PlayOneTrial() ([2]game.TrialResult, error) {
	t, err := NewGameRunner(game.NewRandomizer()).PlayTrial()
	if err != nil {
		return [2]game.TrialResult{}, err
	}
	return t.Results(), nil
}
