// Package game encapsulates the mechanics of a single Monty Hall game:
// hiding the car, the contestant's pick, the host opening a goat door, and
// deciding the winner. Everything here is a pure function of its inputs
// and an explicitly passed Randomizer.
package game

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

const NumDoors = 3

// Prize is what hides behind a door.
type Prize int8

const (
	Goat Prize = iota
	Car
)

var prizeNames = [...]string{
	Goat: "goat",
	Car:  "car",
}

func (p Prize) String() string {
	if p < 0 || int(p) >= len(prizeNames) {
		return fmt.Sprintf("Prize(%d)", p)
	}
	return prizeNames[p]
}

// ParsePrize converts a "goat" or "car" label into a Prize.
func ParsePrize(s string) (Prize, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "goat":
		return Goat, nil
	case "car":
		return Car, nil
	}
	return Goat, fmt.Errorf("%w: unknown prize %q", ErrMalformedGame, s)
}

// Door is a 1-indexed door number.
type Door int

// NoDoor is returned alongside errors.
const NoDoor Door = 0

func (d Door) Valid() bool {
	return d >= 1 && d <= NumDoors
}

func (d Door) check() error {
	if !d.Valid() {
		return fmt.Errorf("%w: got %d", ErrInvalidDoor, int(d))
	}
	return nil
}

// AllDoors returns the doors in order.
func AllDoors() []Door {
	return []Door{1, 2, 3}
}

// Game is the arrangement of prizes behind the three doors. Index 0 is
// door 1. A Game is a value type and is never modified after it is dealt.
type Game [NumDoors]Prize

// NewGame deals a uniformly random arrangement of two goats and a car.
func NewGame(rng Randomizer) Game {
	g := Game{Goat, Goat, Car}
	rng.Shuffle(NumDoors, func(i, j int) {
		g[i], g[j] = g[j], g[i]
	})
	return g
}

// GameFromLabels builds a game from prize labels, e.g.
// []string{"goat", "car", "goat"}.
func GameFromLabels(labels []string) (Game, error) {
	var g Game
	if len(labels) != NumDoors {
		return g, fmt.Errorf("%w: expected %d labels, got %d", ErrMalformedGame,
			NumDoors, len(labels))
	}
	for i, l := range labels {
		p, err := ParsePrize(l)
		if err != nil {
			return g, err
		}
		g[i] = p
	}
	if err := g.Validate(); err != nil {
		return g, err
	}
	return g, nil
}

// Validate makes sure there is exactly one car. Three doors and one car
// implies two goats.
func (g Game) Validate() error {
	for _, p := range g {
		if p != Goat && p != Car {
			return fmt.Errorf("%w: unknown prize %d", ErrMalformedGame, p)
		}
	}
	if n := lo.Count(g[:], Car); n != 1 {
		return fmt.Errorf("%w: found %d cars", ErrMalformedGame, n)
	}
	return nil
}

// Prize returns what is behind door d. d must be valid.
func (g Game) Prize(d Door) Prize {
	return g[d-1]
}

// CarDoor returns the door hiding the car, or NoDoor for a malformed game.
func (g Game) CarDoor() Door {
	for i, p := range g {
		if p == Car {
			return Door(i + 1)
		}
	}
	return NoDoor
}

// Labels returns the prize labels in door order.
func (g Game) Labels() []string {
	return lo.Map(g[:], func(p Prize, _ int) string {
		return p.String()
	})
}

func (g Game) String() string {
	return strings.Join(g.Labels(), " ")
}

// SelectDoor is the contestant's uniformly random initial pick.
func SelectDoor(rng Randomizer) Door {
	return Door(rng.Intn(NumDoors) + 1)
}
