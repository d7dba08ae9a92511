// Package report turns batch results into tables people can read and
// documents other programs can parse.
package report

import (
	"math"
	"time"

	"github.com/samber/lo"

	"github.com/domino14/montyhall/automatic"
	"github.com/domino14/montyhall/game"
	"github.com/domino14/montyhall/stats"
)

const (
	// DisplayPlaces is how many decimals proportions are rounded to.
	DisplayPlaces = 3
	// Confidence of the reported win-rate intervals, in percent.
	Confidence = 95
)

// Row is one strategy's line of the strategy x outcome table.
type Row struct {
	Strategy game.Strategy `json:"strategy" yaml:"strategy"`
	Wins     int           `json:"wins" yaml:"wins"`
	Losses   int           `json:"losses" yaml:"losses"`
	Win      float64       `json:"win" yaml:"win"`
	Lose     float64       `json:"lose" yaml:"lose"`
	CILow    float64       `json:"ci_low" yaml:"ci_low"`
	CIHigh   float64       `json:"ci_high" yaml:"ci_high"`
}

// Summary is the aggregated view of a batch; it is what gets printed,
// stored and sent over the wire.
type Summary struct {
	ID        string    `json:"id" yaml:"id"`
	Created   time.Time `json:"created" yaml:"created"`
	Trials    int       `json:"trials" yaml:"trials"`
	Threads   int       `json:"threads" yaml:"threads"`
	Seed      string    `json:"seed" yaml:"seed"`
	ElapsedMS int64     `json:"elapsed_ms" yaml:"elapsed_ms"`
	Rows      []Row     `json:"rows" yaml:"rows"`
}

// FromTabulation builds a summary from a finished table.
func FromTabulation(id string, seed game.Seed, threads int, tab stats.Tabulation) Summary {
	rows := lo.Map(game.Strategies[:], func(s game.Strategy, _ int) Row {
		low, high := tab.Interval(s, Confidence)
		return Row{
			Strategy: s,
			Wins:     tab.Count(s, game.Win),
			Losses:   tab.Count(s, game.Lose),
			Win:      tab.Rounded(s, game.Win, DisplayPlaces),
			Lose:     tab.Rounded(s, game.Lose, DisplayPlaces),
			CILow:    round(low),
			CIHigh:   round(high),
		}
	})
	return Summary{
		ID:      id,
		Created: time.Now().UTC().Truncate(time.Second),
		Trials:  tab.Total(game.Stay),
		Threads: threads,
		Seed:    seed.String(),
		Rows:    rows,
	}
}

// NewSummary summarizes a batch.
func NewSummary(res *automatic.BatchResults) Summary {
	s := FromTabulation(res.ID, res.Seed, res.Threads, res.Table)
	s.Trials = res.Trials
	s.ElapsedMS = res.Elapsed.Milliseconds()
	return s
}

// Row returns the row of strategy s.
func (s Summary) Row(st game.Strategy) (Row, bool) {
	return lo.Find(s.Rows, func(r Row) bool { return r.Strategy == st })
}

func round(f float64) float64 {
	p := math.Pow(10, DisplayPlaces)
	return math.Round(f*p) / p
}
