package automatic

// Batch simulation: play many trials across threads and tabulate them.

import (
	"context"
	"encoding/csv"
	"errors"
	"expvar"
	"fmt"
	"io"
	"time"
	"unsafe"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/montyhall/game"
	"github.com/domino14/montyhall/stats"
)

const (
	DefaultTrials = 100
	// A batch may use at most 1/maxMemoryFraction of system memory for
	// its result rows.
	maxMemoryFraction = 4
	// How often (in trials per thread) workers look at the context.
	ctxCheckInterval = 256
)

var ErrBatchTooLarge = errors.New("batch is too large for this machine's memory")

var (
	TrialCounter   *expvar.Int
	BatchesRunning *expvar.Int
)

func init() {
	TrialCounter = expvar.NewInt("trialsPlayed")
	BatchesRunning = expvar.NewInt("batchesRunning")
}

// BatchResults is the output of a batch. Results holds two rows per trial
// (stay, then switch) in trial order.
type BatchResults struct {
	ID      string
	Seed    game.Seed
	Trials  int
	Threads int
	Results []game.TrialResult
	Table   stats.Tabulation
	Elapsed time.Duration
}

// BatchRunner runs batches of trials. Configure it before calling Run; a
// single runner can run many batches, one at a time.
type BatchRunner struct {
	threads   int
	seed      game.Seed
	seeded    bool
	logWriter io.Writer
}

func NewBatchRunner() *BatchRunner {
	return &BatchRunner{threads: 1}
}

func (b *BatchRunner) SetThreads(threads int) {
	if threads < 1 {
		threads = 1
	}
	b.threads = threads
}

func (b *BatchRunner) Threads() int {
	return b.threads
}

// SetSeed makes batches reproducible. Trial i is always played by thread
// i % threads from that thread's derived seed, so the same seed and
// thread count give the same results.
func (b *BatchRunner) SetSeed(seed game.Seed) {
	b.seed = seed
	b.seeded = true
}

// ClearSeed goes back to a fresh random seed per batch.
func (b *BatchRunner) ClearSeed() {
	b.seeded = false
}

// SetLogWriter makes Run write one CSV line per trial to w. Lines arrive
// in completion order; the trial column gives the trial index.
func (b *BatchRunner) SetLogWriter(w io.Writer) {
	b.logWriter = w
}

func checkMemory(trials int) error {
	total := memory.TotalMemory()
	if total == 0 {
		// Unsupported platform; nothing to check against.
		return nil
	}
	need := uint64(trials) * 2 * uint64(unsafe.Sizeof(game.TrialResult{}))
	if need > total/maxMemoryFraction {
		return fmt.Errorf("%w: %d trials need %d bytes, have %d", ErrBatchTooLarge,
			trials, need, total)
	}
	return nil
}

// Run plays n trials. n must be positive.
func (b *BatchRunner) Run(ctx context.Context, n int) (*BatchResults, error) {
	logger := zerolog.Ctx(ctx)

	if n <= 0 {
		return nil, fmt.Errorf("%w: got %d", game.ErrInvalidTrialCount, n)
	}
	if err := checkMemory(n); err != nil {
		return nil, err
	}
	seed := b.seed
	if !b.seeded {
		seed = game.GenerateSeed()
	}
	threads := min(b.threads, n)

	res := &BatchResults{
		ID:      newBatchID(),
		Seed:    seed,
		Trials:  n,
		Threads: threads,
		Results: make([]game.TrialResult, 2*n),
	}
	BatchesRunning.Add(1)
	defer BatchesRunning.Add(-1)

	logger.Debug().Str("batch", res.ID).Int("trials", n).Int("threads", threads).
		Msg("batch-starting")

	var logChan chan []string
	writer := errgroup.Group{}
	if b.logWriter != nil {
		logChan = make(chan []string, 100)
		w := csv.NewWriter(b.logWriter)
		writer.Go(func() error {
			err := w.Write(logHeader)
			// Keep draining after an error so the workers never block.
			for rec := range logChan {
				if err == nil {
					err = w.Write(rec)
				}
			}
			w.Flush()
			if err != nil {
				return err
			}
			return w.Error()
		})
	}

	tstart := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for t := 0; t < threads; t++ {
		t := t
		g.Go(func() error {
			runner := NewGameRunner(game.NewSeededRandomizer(game.DeriveSeed(seed, t)))
			defer func() {
				TrialCounter.Add(int64(runner.Played()))
			}()
			for i := t; i < n; i += threads {
				if (i/threads)%ctxCheckInterval == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				trial, err := runner.PlayTrial()
				if err != nil {
					return err
				}
				trial.Index = i
				rows := trial.Results()
				copy(res.Results[2*i:2*i+2], rows[:])
				if logChan != nil {
					select {
					case logChan <- trial.record():
					case <-gctx.Done():
						return gctx.Err()
					}
				}
			}
			return nil
		})
	}

	err := g.Wait()
	if logChan != nil {
		close(logChan)
		if werr := writer.Wait(); err == nil {
			err = werr
		}
	}
	if err != nil {
		logger.Err(err).Str("batch", res.ID).Msg("batch-failed")
		return nil, err
	}
	res.Table = stats.Tabulate(res.Results)
	res.Elapsed = time.Since(tstart)

	logger.Info().Str("batch", res.ID).Int("trials", n).
		Float64("stay-win", res.Table.WinRate(game.Stay)).
		Float64("switch-win", res.Table.WinRate(game.Switch)).
		Dur("elapsed", res.Elapsed).
		Msg("batch-finished")
	return res, nil
}

// RunBatch plays n trials on a single thread with a fresh random seed.
func RunBatch(ctx context.Context, n int) (*BatchResults, error) {
	return NewBatchRunner().Run(ctx, n)
}
