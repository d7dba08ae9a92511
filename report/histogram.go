package report

import (
	"fmt"
	"io"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/samber/lo"

	"github.com/domino14/montyhall/game"
	"github.com/domino14/montyhall/stats"
)

const (
	DefaultHistogramBins = 10
	histogramWidth       = 40
)

// ChunkWinRates splits the results into consecutive groups of chunk
// trials and returns strategy st's win rate in each group. A trailing
// partial group is dropped.
func ChunkWinRates(results []game.TrialResult, chunk int, st game.Strategy) ([]float64, error) {
	if chunk <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d",
			game.ErrInvalidArgument, chunk)
	}
	// Two rows per trial.
	groups := lo.Chunk(results, 2*chunk)
	rates := make([]float64, 0, len(groups))
	for _, grp := range groups {
		if len(grp) < 2*chunk {
			break
		}
		tab := stats.Tabulate(grp)
		rates = append(rates, tab.WinRate(st))
	}
	return rates, nil
}

// Histogram prints the distribution of the switch win rate over chunks of
// the given size.
func Histogram(w io.Writer, results []game.TrialResult, chunk, bins int) error {
	rates, err := ChunkWinRates(results, chunk, game.Switch)
	if err != nil {
		return err
	}
	if len(rates) == 0 {
		return fmt.Errorf("%w: need at least %d trials for a histogram",
			game.ErrInvalidArgument, chunk)
	}
	if bins <= 0 {
		bins = DefaultHistogramBins
	}
	fmt.Fprintf(w, "switch win rate per %d trials (%d samples)\n", chunk, len(rates))
	h := histogram.Hist(bins, rates)
	return histogram.Fprint(w, h, histogram.Linear(histogramWidth))
}
