package automatic

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/montyhall/game"
)

func testSeed() game.Seed {
	s, err := game.ParseSeed("automatic")
	if err != nil {
		panic(err)
	}
	return s
}

func TestPlayTrial(t *testing.T) {
	is := is.New(t)
	runner := NewGameRunner(game.NewSeededRandomizer(testSeed()))
	for i := 0; i < 1000; i++ {
		trial, err := runner.PlayTrial()
		is.NoErr(err)
		is.Equal(trial.Index, i)
		is.NoErr(trial.Game.Validate())
		is.True(trial.Pick.Valid())
		is.True(trial.Opened != trial.Pick)
		is.True(trial.Opened != trial.Game.CarDoor())
		is.Equal(trial.StayPick, trial.Pick)
		is.True(trial.SwitchPick != trial.Pick)
		is.True(trial.SwitchPick != trial.Opened)
		// Exactly one of the two strategies wins every game.
		is.True(trial.StayOutcome != trial.SwitchOutcome)
		is.Equal(trial.StayOutcome == game.Win, trial.Pick == trial.Game.CarDoor())

		rows := trial.Results()
		is.Equal(rows[0].Strategy, game.Stay)
		is.Equal(rows[1].Strategy, game.Switch)
		is.Equal(rows[0].Outcome, trial.StayOutcome)
		is.Equal(rows[1].Outcome, trial.SwitchOutcome)
	}
	is.Equal(runner.Played(), 1000)
}

func TestPlayOneTrial(t *testing.T) {
	is := is.New(t)
	rows, err := PlayOneTrial()
	is.NoErr(err)
	is.Equal(rows[0].Strategy, game.Stay)
	is.Equal(rows[1].Strategy, game.Switch)
}

func TestTrialRecord(t *testing.T) {
	is := is.New(t)
	trial := Trial{
		Index:         7,
		Game:          game.Game{game.Goat, game.Car, game.Goat},
		Pick:          1,
		Opened:        3,
		StayPick:      1,
		StayOutcome:   game.Lose,
		SwitchPick:    2,
		SwitchOutcome: game.Win,
	}
	is.Equal(trial.record(), []string{"7", "goat car goat", "1", "3", "1", "LOSE", "2", "WIN"})
	parsed, err := parseRecord(trial.record())
	is.NoErr(err)
	is.Equal(parsed, trial)
}

func BenchmarkPlayTrial(b *testing.B) {
	runner := NewGameRunner(game.NewRandomizer())
	for i := 0; i < b.N; i++ {
		runner.PlayTrial()
	}
}
