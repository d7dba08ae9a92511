package game

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"
)

func TestParseSeedRoundTrip(t *testing.T) {
	is := is.New(t)
	s := GenerateSeed()
	parsed, err := ParseSeed(s.String())
	is.NoErr(err)
	is.Equal(parsed, s)
}

func TestParseSeedHashesShortStrings(t *testing.T) {
	is := is.New(t)
	a, err := ParseSeed("42")
	is.NoErr(err)
	b, err := ParseSeed(" 42 ")
	is.NoErr(err)
	c, err := ParseSeed("43")
	is.NoErr(err)
	is.Equal(a, b)
	is.True(a != c)

	_, err = ParseSeed("   ")
	is.True(err != nil)
}

func TestDeriveSeed(t *testing.T) {
	is := is.New(t)
	base := testSeed()
	is.Equal(DeriveSeed(base, 0), DeriveSeed(base, 0))
	is.True(DeriveSeed(base, 0) != DeriveSeed(base, 1))
	is.True(DeriveSeed(base, 0) != base)
}

func TestSeededRandomizerIsReproducible(t *testing.T) {
	is := is.New(t)
	r1 := NewSeededRandomizer(testSeed())
	r2 := NewSeededRandomizer(testSeed())
	for i := 0; i < 100; i++ {
		is.Equal(NewGame(r1), NewGame(r2))
		is.Equal(SelectDoor(r1), SelectDoor(r2))
	}
}

func TestSaveLoadSeeds(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "seeds.txt")
	seeds := GenerateSeeds(5)
	is.Equal(len(seeds), 5)
	is.NoErr(SaveSeeds(seeds, path))

	loaded, err := LoadSeeds(path)
	is.NoErr(err)
	is.Equal(loaded, seeds)
}

func TestLoadSeedsRejectsShortSeeds(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "seeds.txt")
	is.NoErr(os.WriteFile(path, []byte("# comment\n\nYWJj\n"), 0644))
	_, err := LoadSeeds(path)
	is.True(err != nil)
}
