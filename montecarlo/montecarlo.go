// Package montecarlo implements open-ended Monty Hall simulation: keep
// playing trials on several threads until the stay and switch win rates
// are statistically separated, or until an iteration cutoff.
package montecarlo

import (
	"context"
	"errors"
	"io"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/domino14/montyhall/automatic"
	"github.com/domino14/montyhall/game"
	"github.com/domino14/montyhall/report"
	"github.com/domino14/montyhall/stats"
)

const (
	DefaultIterationsCutoff = 100000
	DefaultCheckInterval    = 1000
)

// LogIteration is a struct meant for serializing to a log-file, for debug
// and other purposes.
type LogIteration struct {
	Iteration uint64             `json:"iteration" yaml:"iteration"`
	Thread    int                `json:"thread" yaml:"thread"`
	Game      string             `json:"game" yaml:"game"`
	Pick      int                `json:"pick" yaml:"pick"`
	Opened    int                `json:"opened" yaml:"opened"`
	Results   []game.TrialResult `json:"results" yaml:"results"`
}

// Simmer runs trials until told to stop.
type Simmer struct {
	threads           int
	seed              game.Seed
	seeded            bool
	stoppingCondition StoppingCondition
	iterationsCutoff  uint64
	checkInterval     uint64
	logStream         io.Writer

	iterationCount atomic.Uint64
	simming        atomic.Bool

	// protects the fields below.
	sync.RWMutex
	lastSeed    game.Seed
	lastThreads int
	winStats    [len(game.Strategies)]stats.Statistic
	table       stats.Tabulation
}

func NewSimmer() *Simmer {
	return &Simmer{
		threads:          max(1, runtime.NumCPU()),
		iterationsCutoff: DefaultIterationsCutoff,
		checkInterval:    DefaultCheckInterval,
	}
}

func (s *Simmer) SetThreads(threads int) {
	s.threads = max(1, threads)
}

func (s *Simmer) Threads() int {
	return s.threads
}

func (s *Simmer) SetSeed(seed game.Seed) {
	s.seed = seed
	s.seeded = true
}

// ClearSeed goes back to a fresh random seed per sim.
func (s *Simmer) ClearSeed() {
	s.seeded = false
}

func (s *Simmer) SetStoppingCondition(sc StoppingCondition) {
	s.stoppingCondition = sc
}

// SetIterationsCutoff caps the number of trials. Zero means no cap, in
// which case only the stopping condition or the context ends the sim.
func (s *Simmer) SetIterationsCutoff(n int) {
	s.iterationsCutoff = uint64(max(0, n))
}

func (s *Simmer) SetCheckInterval(n int) {
	s.checkInterval = uint64(max(1, n))
}

// SetLogStream makes every iteration get written to l as a YAML document.
func (s *Simmer) SetLogStream(l io.Writer) {
	s.logStream = l
}

func (s *Simmer) IsSimming() bool {
	return s.simming.Load()
}

func (s *Simmer) Iterations() int {
	return int(s.iterationCount.Load())
}

func (s *Simmer) reset(seed game.Seed) {
	s.Lock()
	defer s.Unlock()
	s.lastSeed = seed
	s.lastThreads = s.threads
	s.iterationCount.Store(0)
	s.winStats = [len(game.Strategies)]stats.Statistic{}
	s.table = stats.Tabulation{}
}

// Tabulation returns a copy of the results so far.
func (s *Simmer) Tabulation() stats.Tabulation {
	s.RLock()
	defer s.RUnlock()
	return s.table
}

// Summary of the last (or current) sim.
func (s *Simmer) Summary() report.Summary {
	s.RLock()
	defer s.RUnlock()
	return report.FromTabulation("", s.lastSeed, s.lastThreads, s.table)
}

func (s *Simmer) WinRate(st game.Strategy) float64 {
	s.RLock()
	defer s.RUnlock()
	return s.winStats[st].Mean()
}

// StandardError of a strategy's win rate, scaled by z.
func (s *Simmer) StandardError(st game.Strategy, z float64) float64 {
	s.RLock()
	defer s.RUnlock()
	return s.winStats[st].StandardError(z)
}

func (s *Simmer) record(t automatic.Trial) {
	s.Lock()
	defer s.Unlock()
	for _, r := range t.Results() {
		s.winStats[r.Strategy].PushBool(r.Outcome == game.Win)
		s.table.Add(r)
	}
}

// Simulate plays trials until the stopping condition is met, the
// iterations cutoff is reached, or ctx is done. Stopping for any of those
// reasons is not an error; the statistics gathered so far remain
// available.
func (s *Simmer) Simulate(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	if s.stoppingCondition == StopNone && s.iterationsCutoff == 0 {
		if _, ok := ctx.Deadline(); !ok && ctx.Done() == nil {
			return errors.New("this sim would never stop; set a cutoff or a stopping condition")
		}
	}
	if !s.simming.CompareAndSwap(false, true) {
		return errors.New("simming already, please stop the sim first")
	}
	defer func() {
		s.simming.Store(false)
		logger.Info().Uint64("iterationCt", s.iterationCount.Load()).Msg("sim-ended")
	}()
	seed := s.seed
	if !s.seeded {
		seed = game.GenerateSeed()
	}
	s.reset(seed)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logChan := make(chan []byte, 100)
	writer := errgroup.Group{}
	if s.logStream != nil {
		writer.Go(func() error {
			defer func() {
				logger.Debug().Msg("Writer routine exiting")
			}()
			var err error
			for bts := range logChan {
				if err == nil {
					_, err = s.logStream.Write(bts)
				}
			}
			return err
		})
	}

	tstart := time.Now()
	g := errgroup.Group{}
	logger.Debug().Msgf("Simulating with %v threads", s.threads)
	for t := 0; t < s.threads; t++ {
		t := t
		g.Go(func() error {
			defer func() {
				logger.Debug().Msgf("Thread %v exiting sim", t)
			}()
			runner := automatic.NewGameRunner(
				game.NewSeededRandomizer(game.DeriveSeed(seed, t)))
			for {
				select {
				case <-ctx.Done():
					return nil
				default:
				}
				numIters := s.iterationCount.Add(1)
				if s.iterationsCutoff > 0 && numIters > s.iterationsCutoff {
					// Give the slot back; it was never played.
					s.iterationCount.Add(^uint64(0))
					cancel()
					return nil
				}
				trial, err := runner.PlayTrial()
				if err != nil {
					logger.Err(err).Msg("error simming iteration; canceling")
					cancel()
					return err
				}
				s.record(trial)

				if s.logStream != nil {
					rows := trial.Results()
					bts, err := yaml.Marshal(LogIteration{
						Iteration: numIters - 1,
						Thread:    t,
						Game:      trial.Game.String(),
						Pick:      int(trial.Pick),
						Opened:    int(trial.Opened),
						Results:   rows[:],
					})
					if err != nil {
						cancel()
						return err
					}
					// The writer drains logChan until it is closed.
					logChan <- append([]byte("---\n"), bts...)
				}

				if s.stoppingCondition != StopNone && numIters%s.checkInterval == 0 {
					if s.shouldStop() {
						logger.Info().Uint64("numIters", numIters).Msg("reached stopping condition")
						cancel()
					}
				}
			}
		})
	}

	err := g.Wait()
	close(logChan)
	if werr := writer.Wait(); err == nil {
		err = werr
	}
	elapsed := time.Since(tstart)
	iters := s.iterationCount.Load()
	logger.Info().Msgf("time taken: %v, trials/sec: %f, trials: %d", elapsed.Seconds(),
		float64(iters)/elapsed.Seconds(), iters)
	return err
}

// ReadLog decodes the YAML documents written to a log stream.
func ReadLog(r io.Reader) ([]LogIteration, error) {
	var iters []LogIteration
	dec := yaml.NewDecoder(r)
	for {
		var li LogIteration
		err := dec.Decode(&li)
		if err == io.EOF {
			return iters, nil
		}
		if err != nil {
			return nil, err
		}
		iters = append(iters, li)
	}
}
