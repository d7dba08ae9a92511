package stats

import (
	"math"

	"github.com/samber/lo"

	"github.com/domino14/montyhall/game"
)

// Tabulation is a strategy x outcome frequency table. The zero value is an
// empty table ready to use.
type Tabulation struct {
	counts [len(game.Strategies)][len(game.Outcomes)]int
}

// Tabulate counts a batch of trial results.
func Tabulate(results []game.TrialResult) Tabulation {
	var t Tabulation
	for r, n := range lo.CountValues(results) {
		t.counts[r.Strategy][r.Outcome] += n
	}
	return t
}

func (t *Tabulation) Add(r game.TrialResult) {
	t.counts[r.Strategy][r.Outcome]++
}

func (t *Tabulation) Merge(o Tabulation) {
	for s := range t.counts {
		for oc := range t.counts[s] {
			t.counts[s][oc] += o.counts[s][oc]
		}
	}
}

func (t Tabulation) Count(s game.Strategy, o game.Outcome) int {
	return t.counts[s][o]
}

// Total is the number of results recorded for a strategy. In a complete
// batch it equals the number of trials.
func (t Tabulation) Total(s game.Strategy) int {
	return lo.Sum(t.counts[s][:])
}

// Proportion is the row-normalized frequency: the share of s's trials
// that ended in o.
func (t Tabulation) Proportion(s game.Strategy, o game.Outcome) float64 {
	total := t.Total(s)
	if total == 0 {
		return 0
	}
	return float64(t.counts[s][o]) / float64(total)
}

// Rounded is Proportion rounded to the given number of decimal places.
func (t Tabulation) Rounded(s game.Strategy, o game.Outcome, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(t.Proportion(s, o)*p) / p
}

func (t Tabulation) WinRate(s game.Strategy) float64 {
	return t.Proportion(s, game.Win)
}

// Interval is the normal-approximation confidence interval of s's win
// rate. confidence is a percentage, e.g. 95.
func (t Tabulation) Interval(s game.Strategy, confidence float64) (float64, float64) {
	n := t.Total(s)
	p := t.WinRate(s)
	if n == 0 {
		return 0, 0
	}
	e := ZVal(confidence) * math.Sqrt(p*(1-p)/float64(n))
	return math.Max(0, p-e), math.Min(1, p+e)
}
