package game

import (
	"errors"
	"testing"

	"github.com/matryer/is"
)

// scriptedRNG replays fixed Intn answers. Shuffle is a no-op.
type scriptedRNG struct {
	answers []int
	calls   int
}

func (r *scriptedRNG) Intn(n int) int {
	a := r.answers[r.calls%len(r.answers)] % n
	r.calls++
	return a
}

func (r *scriptedRNG) Shuffle(n int, swap func(i, j int)) {}

func testSeed() Seed {
	s, err := ParseSeed("monty")
	if err != nil {
		panic(err)
	}
	return s
}

func mustGame(labels ...string) Game {
	g, err := GameFromLabels(labels)
	if err != nil {
		panic(err)
	}
	return g
}

func TestNewGameAlwaysOneCar(t *testing.T) {
	is := is.New(t)
	rng := NewSeededRandomizer(testSeed())
	carSeen := [NumDoors]int{}
	for i := 0; i < 30000; i++ {
		g := NewGame(rng)
		is.NoErr(g.Validate())
		carSeen[g.CarDoor()-1]++
	}
	// Each door should hold the car about a third of the time.
	for _, c := range carSeen {
		is.True(c > 9500)
		is.True(c < 10500)
	}
}

func TestSelectDoorInRange(t *testing.T) {
	is := is.New(t)
	rng := NewSeededRandomizer(testSeed())
	seen := map[Door]int{}
	for i := 0; i < 3000; i++ {
		d := SelectDoor(rng)
		is.True(d.Valid())
		seen[d]++
	}
	is.Equal(len(seen), 3)
}

func TestGameFromLabels(t *testing.T) {
	is := is.New(t)
	type tc struct {
		labels []string
		exp    Game
		expErr error
	}
	cases := []tc{
		{[]string{"car", "goat", "goat"}, Game{Car, Goat, Goat}, nil},
		{[]string{"goat", "CAR", "goat"}, Game{Goat, Car, Goat}, nil},
		{[]string{"goat", "goat"}, Game{}, ErrMalformedGame},
		{[]string{"goat", "goat", "goat"}, Game{}, ErrMalformedGame},
		{[]string{"car", "car", "goat"}, Game{}, ErrMalformedGame},
		{[]string{"car", "goat", "donkey"}, Game{}, ErrMalformedGame},
	}
	for _, c := range cases {
		g, err := GameFromLabels(c.labels)
		if c.expErr != nil {
			is.True(errors.Is(err, c.expErr))
			is.True(errors.Is(err, ErrInvalidArgument))
			continue
		}
		is.NoErr(err)
		is.Equal(g, c.exp)
	}
}

func TestGameString(t *testing.T) {
	is := is.New(t)
	g := mustGame("goat", "car", "goat")
	is.Equal(g.String(), "goat car goat")
	is.Equal(g.CarDoor(), Door(2))
	is.Equal(Game{}.CarDoor(), NoDoor)
}

func TestOpenGoatDoorContestantOnCar(t *testing.T) {
	is := is.New(t)
	g := mustGame("car", "goat", "goat")

	opened, err := OpenGoatDoor(&scriptedRNG{answers: []int{0}}, g, 1)
	is.NoErr(err)
	is.Equal(opened, Door(2))

	opened, err = OpenGoatDoor(&scriptedRNG{answers: []int{1}}, g, 1)
	is.NoErr(err)
	is.Equal(opened, Door(3))

	// Both goats should come up with a real RNG.
	rng := NewSeededRandomizer(testSeed())
	seen := map[Door]int{}
	for i := 0; i < 2000; i++ {
		d, err := OpenGoatDoor(rng, g, 1)
		is.NoErr(err)
		seen[d]++
	}
	is.Equal(len(seen), 2)
	is.True(seen[2] > 900)
	is.True(seen[3] > 900)
}

func TestOpenGoatDoorContestantOnGoat(t *testing.T) {
	is := is.New(t)
	g := mustGame("goat", "car", "goat")
	rng := &scriptedRNG{answers: []int{0}}
	opened, err := OpenGoatDoor(rng, g, 1)
	is.NoErr(err)
	is.Equal(opened, Door(3))
	// No randomness used when the answer is forced.
	is.Equal(rng.calls, 0)

	opened, err = OpenGoatDoor(rng, g, 3)
	is.NoErr(err)
	is.Equal(opened, Door(1))
}

func TestOpenGoatDoorNeverPickNorCar(t *testing.T) {
	is := is.New(t)
	rng := NewSeededRandomizer(testSeed())
	for i := 0; i < 5000; i++ {
		g := NewGame(rng)
		pick := SelectDoor(rng)
		opened, err := OpenGoatDoor(rng, g, pick)
		is.NoErr(err)
		is.True(opened != pick)
		is.True(opened != g.CarDoor())
		is.Equal(g.Prize(opened), Goat)
	}
}

func TestOpenGoatDoorErrors(t *testing.T) {
	is := is.New(t)
	rng := &scriptedRNG{answers: []int{0}}
	_, err := OpenGoatDoor(rng, mustGame("car", "goat", "goat"), 4)
	is.True(errors.Is(err, ErrInvalidDoor))
	_, err = OpenGoatDoor(rng, mustGame("car", "goat", "goat"), 0)
	is.True(errors.Is(err, ErrInvalidArgument))
	_, err = OpenGoatDoor(rng, Game{Car, Car, Goat}, 1)
	is.True(errors.Is(err, ErrMalformedGame))
}

func TestChangeDoor(t *testing.T) {
	is := is.New(t)
	for _, pick := range AllDoors() {
		for _, opened := range AllDoors() {
			if opened == pick {
				_, err := ChangeDoor(false, opened, pick)
				is.True(errors.Is(err, ErrSameDoor))
				continue
			}
			stayed, err := ChangeDoor(true, opened, pick)
			is.NoErr(err)
			is.Equal(stayed, pick)

			switched, err := ChangeDoor(false, opened, pick)
			is.NoErr(err)
			is.True(switched.Valid())
			is.True(switched != pick)
			is.True(switched != opened)
		}
	}
	_, err := ChangeDoor(true, 5, 1)
	is.True(errors.Is(err, ErrInvalidDoor))
	_, err = ChangeDoor(true, 2, -1)
	is.True(errors.Is(err, ErrInvalidDoor))
}

func TestStrategyFinalDoor(t *testing.T) {
	is := is.New(t)
	d, err := Switch.FinalDoor(3, 1)
	is.NoErr(err)
	is.Equal(d, Door(2))
	d, err = Stay.FinalDoor(3, 1)
	is.NoErr(err)
	is.Equal(d, Door(1))
}

func TestDetermineWinner(t *testing.T) {
	is := is.New(t)
	g := mustGame("goat", "car", "goat")
	type tc struct {
		final Door
		exp   Outcome
	}
	for _, c := range []tc{{1, Lose}, {2, Win}, {3, Lose}} {
		o, err := DetermineWinner(c.final, g)
		is.NoErr(err)
		is.Equal(o, c.exp)
		// Same inputs, same answer.
		again, err := DetermineWinner(c.final, g)
		is.NoErr(err)
		is.Equal(again, o)
	}
	_, err := DetermineWinner(4, g)
	is.True(errors.Is(err, ErrInvalidDoor))
	_, err = DetermineWinner(1, Game{})
	is.True(errors.Is(err, ErrMalformedGame))
}

func TestCarPickedScenario(t *testing.T) {
	is := is.New(t)
	g := mustGame("car", "goat", "goat")
	rng := NewSeededRandomizer(testSeed())
	opened, err := OpenGoatDoor(rng, g, 1)
	is.NoErr(err)
	is.True(opened == 2 || opened == 3)

	stay, err := ChangeDoor(true, opened, 1)
	is.NoErr(err)
	is.Equal(stay, Door(1))
	o, err := DetermineWinner(stay, g)
	is.NoErr(err)
	is.Equal(o, Win)

	sw, err := ChangeDoor(false, opened, 1)
	is.NoErr(err)
	is.Equal(int(sw), 5-int(opened))
	o, err = DetermineWinner(sw, g)
	is.NoErr(err)
	is.Equal(o, Lose)
}

func TestGoatPickedScenario(t *testing.T) {
	is := is.New(t)
	g := mustGame("goat", "car", "goat")
	opened, err := OpenGoatDoor(NewRandomizer(), g, 1)
	is.NoErr(err)
	is.Equal(opened, Door(3))

	stay, err := ChangeDoor(true, opened, 1)
	is.NoErr(err)
	o, err := DetermineWinner(stay, g)
	is.NoErr(err)
	is.Equal(o, Lose)

	sw, err := ChangeDoor(false, opened, 1)
	is.NoErr(err)
	is.Equal(sw, Door(2))
	o, err = DetermineWinner(sw, g)
	is.NoErr(err)
	is.Equal(o, Win)
}

func TestLabels(t *testing.T) {
	is := is.New(t)
	is.Equal(Stay.String(), "stay")
	is.Equal(Switch.String(), "switch")
	is.Equal(Win.String(), "WIN")
	is.Equal(Lose.String(), "LOSE")
	is.Equal(Car.String(), "car")
	is.Equal(Goat.String(), "goat")

	s, err := ParseStrategy("Switch")
	is.NoErr(err)
	is.Equal(s, Switch)
	_, err = ParseStrategy("dither")
	is.True(errors.Is(err, ErrInvalidArgument))

	o, err := ParseOutcome("win")
	is.NoErr(err)
	is.Equal(o, Win)

	b, err := TrialResult{Switch, Win}.Strategy.MarshalText()
	is.NoErr(err)
	is.Equal(string(b), "switch")
}
