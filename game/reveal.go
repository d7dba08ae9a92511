package game

// OpenGoatDoor is the host's move. The host never opens the contestant's
// door and never shows the car. If the contestant is sitting on the car
// the host has two goats to choose from and picks one at random;
// otherwise exactly one door qualifies and no randomness is consumed.
func OpenGoatDoor(rng Randomizer, g Game, pick Door) (Door, error) {
	if err := pick.check(); err != nil {
		return NoDoor, err
	}
	if err := g.Validate(); err != nil {
		return NoDoor, err
	}
	if g.Prize(pick) == Car {
		goats := make([]Door, 0, NumDoors-1)
		for _, d := range AllDoors() {
			if d != pick {
				goats = append(goats, d)
			}
		}
		return goats[rng.Intn(len(goats))], nil
	}
	for _, d := range AllDoors() {
		if d != pick && g.Prize(d) == Goat {
			return d, nil
		}
	}
	// Validate guarantees a second goat.
	panic("no goat door to open")
}
