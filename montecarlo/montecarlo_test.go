package montecarlo

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"

	"github.com/domino14/montyhall/game"
)

func testSeed() game.Seed {
	s, err := game.ParseSeed("montecarlo")
	if err != nil {
		panic(err)
	}
	return s
}

func TestSimCutoff(t *testing.T) {
	is := is.New(t)
	simmer := NewSimmer()
	simmer.SetThreads(3)
	simmer.SetIterationsCutoff(5000)
	err := simmer.Simulate(context.Background())
	is.NoErr(err)
	is.Equal(simmer.Iterations(), 5000)
	tab := simmer.Tabulation()
	is.Equal(tab.Total(game.Stay), 5000)
	is.Equal(tab.Total(game.Switch), 5000)
	is.True(!simmer.IsSimming())
}

func TestSimStopsOnConfidence(t *testing.T) {
	is := is.New(t)
	simmer := NewSimmer()
	simmer.SetThreads(2)
	simmer.SetSeed(testSeed())
	simmer.SetStoppingCondition(Stop99)
	simmer.SetCheckInterval(100)
	simmer.SetIterationsCutoff(0)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	err := simmer.Simulate(ctx)
	is.NoErr(err)
	// 2/3 vs 1/3 separates well before this.
	is.True(simmer.Iterations() < 10000)
	is.True(simmer.WinRate(game.Switch) > simmer.WinRate(game.Stay))
	z := Stop99.Z()
	is.True(simmer.WinRate(game.Switch)-simmer.StandardError(game.Switch, z) >
		simmer.WinRate(game.Stay)+simmer.StandardError(game.Stay, z))
}

func TestSimWinRates(t *testing.T) {
	simmer := NewSimmer()
	simmer.SetThreads(4)
	simmer.SetSeed(testSeed())
	simmer.SetIterationsCutoff(20000)
	err := simmer.Simulate(context.Background())
	assert.NoError(t, err)
	assert.InDelta(t, 1.0/3, simmer.WinRate(game.Stay), 0.03)
	assert.InDelta(t, 2.0/3, simmer.WinRate(game.Switch), 0.03)
	tab := simmer.Tabulation()
	assert.InDelta(t, simmer.WinRate(game.Switch), tab.WinRate(game.Switch), 1e-9)
}

func TestSimWouldNeverStop(t *testing.T) {
	is := is.New(t)
	simmer := NewSimmer()
	simmer.SetIterationsCutoff(0)
	is.True(simmer.Simulate(context.Background()) != nil)
}

func TestSimCanceled(t *testing.T) {
	is := is.New(t)
	simmer := NewSimmer()
	simmer.SetIterationsCutoff(0)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	is.NoErr(simmer.Simulate(ctx))
	is.True(simmer.Iterations() > 0)
	tab := simmer.Tabulation()
	is.Equal(tab.Total(game.Stay), tab.Total(game.Switch))
}

func TestSimLog(t *testing.T) {
	is := is.New(t)
	var buf bytes.Buffer
	simmer := NewSimmer()
	simmer.SetThreads(2)
	simmer.SetIterationsCutoff(200)
	simmer.SetLogStream(&buf)
	is.NoErr(simmer.Simulate(context.Background()))

	iters, err := ReadLog(&buf)
	is.NoErr(err)
	is.Equal(len(iters), 200)
	seen := map[uint64]bool{}
	for _, li := range iters {
		is.True(!seen[li.Iteration])
		seen[li.Iteration] = true
		is.Equal(len(li.Results), 2)
		is.Equal(li.Results[0].Strategy, game.Stay)
		is.Equal(li.Results[1].Strategy, game.Switch)
		is.True(li.Results[0].Outcome != li.Results[1].Outcome)
		is.True(li.Pick != li.Opened)
	}
}

func TestSimSummary(t *testing.T) {
	is := is.New(t)
	simmer := NewSimmer()
	simmer.SetThreads(2)
	simmer.SetSeed(testSeed())
	simmer.SetIterationsCutoff(1000)
	is.NoErr(simmer.Simulate(context.Background()))
	sum := simmer.Summary()
	is.Equal(sum.Trials, 1000)
	is.Equal(sum.Seed, testSeed().String())
	is.Equal(len(sum.Rows), 2)
}

func TestClearSeed(t *testing.T) {
	is := is.New(t)
	simmer := NewSimmer()
	simmer.SetThreads(2)
	simmer.SetIterationsCutoff(200)
	simmer.SetSeed(testSeed())
	is.NoErr(simmer.Simulate(context.Background()))
	is.Equal(simmer.Summary().Seed, testSeed().String())

	simmer.ClearSeed()
	is.NoErr(simmer.Simulate(context.Background()))
	first := simmer.Summary().Seed
	is.True(first != testSeed().String())

	is.NoErr(simmer.Simulate(context.Background()))
	is.True(simmer.Summary().Seed != first)
}

func TestSummaryDuringSim(t *testing.T) {
	is := is.New(t)
	simmer := NewSimmer()
	simmer.SetThreads(2)
	simmer.SetSeed(testSeed())
	simmer.SetIterationsCutoff(0)
	simmer.SetCheckInterval(100)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- simmer.Simulate(ctx) }()
	for i := 0; i < 200; i++ {
		sum := simmer.Summary()
		is.True(sum.Trials >= 0)
	}
	cancel()
	is.NoErr(<-done)
	sum := simmer.Summary()
	is.Equal(sum.Seed, testSeed().String())
	is.Equal(sum.Threads, 2)
}
