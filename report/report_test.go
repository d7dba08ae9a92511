package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/matryer/is"
	"gopkg.in/yaml.v3"

	"github.com/domino14/montyhall/automatic"
	"github.com/domino14/montyhall/game"
	"github.com/domino14/montyhall/stats"
)

func testBatch(t *testing.T, n int) *automatic.BatchResults {
	seed, err := game.ParseSeed("report")
	if err != nil {
		t.Fatal(err)
	}
	runner := automatic.NewBatchRunner()
	runner.SetSeed(seed)
	runner.SetThreads(2)
	res, err := runner.Run(context.Background(), n)
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func TestSummaryFromTabulation(t *testing.T) {
	is := is.New(t)
	results := []game.TrialResult{
		{Strategy: game.Stay, Outcome: game.Win},
		{Strategy: game.Switch, Outcome: game.Lose},
		{Strategy: game.Stay, Outcome: game.Lose},
		{Strategy: game.Switch, Outcome: game.Win},
		{Strategy: game.Stay, Outcome: game.Lose},
		{Strategy: game.Switch, Outcome: game.Win},
	}
	s := FromTabulation("abc", game.Seed{}, 1, stats.Tabulate(results))
	is.Equal(s.Trials, 3)
	stay, ok := s.Row(game.Stay)
	is.True(ok)
	is.Equal(stay.Wins, 1)
	is.Equal(stay.Losses, 2)
	is.Equal(stay.Win, 0.333)
	is.Equal(stay.Lose, 0.667)
	sw, ok := s.Row(game.Switch)
	is.True(ok)
	is.Equal(sw.Win, 0.667)
	is.True(sw.CILow <= sw.Win && sw.Win <= sw.CIHigh)
}

func TestWriteText(t *testing.T) {
	is := is.New(t)
	res := testBatch(t, 12000)
	var buf bytes.Buffer
	is.NoErr(WriteText(&buf, NewSummary(res)))
	out := buf.String()
	is.True(strings.Contains(out, "12,000 trials"))
	is.True(strings.Contains(out, "Seed: "+res.Seed.String()))
	lines := strings.Split(strings.TrimSpace(out), "\n")
	is.Equal(len(lines), 5)
	is.True(strings.HasPrefix(lines[2], "strategy"))
	is.True(strings.Contains(lines[2], "WIN"))
	is.True(strings.HasPrefix(lines[3], "stay"))
	is.True(strings.HasPrefix(lines[4], "switch"))
}

func TestWriteYAMLAndJSON(t *testing.T) {
	is := is.New(t)
	s := NewSummary(testBatch(t, 300))

	var buf bytes.Buffer
	is.NoErr(Write(&buf, s, FormatYAML))
	var fromYAML Summary
	is.NoErr(yaml.Unmarshal(buf.Bytes(), &fromYAML))
	is.Equal(fromYAML.Rows, s.Rows)
	is.True(strings.Contains(buf.String(), "strategy: switch"))

	buf.Reset()
	is.NoErr(Write(&buf, s, FormatJSON))
	var fromJSON Summary
	is.NoErr(json.Unmarshal(buf.Bytes(), &fromJSON))
	is.Equal(fromJSON.Rows, s.Rows)
	is.Equal(fromJSON.ID, s.ID)
	is.True(strings.Contains(buf.String(), `"strategy": "stay"`))

	err := Write(&buf, s, "xml")
	is.True(errors.Is(err, game.ErrInvalidArgument))
}

func TestRunBatchPrints(t *testing.T) {
	is := is.New(t)
	var buf bytes.Buffer
	res, err := RunBatch(context.Background(), &buf, 100)
	is.NoErr(err)
	is.Equal(len(res.Results), 200)
	is.True(strings.Contains(buf.String(), "100 trials"))

	_, err = RunBatch(context.Background(), &buf, 0)
	is.True(errors.Is(err, game.ErrInvalidArgument))
}

func TestChunkWinRates(t *testing.T) {
	is := is.New(t)
	res := testBatch(t, 1050)
	rates, err := ChunkWinRates(res.Results, 100, game.Switch)
	is.NoErr(err)
	is.Equal(len(rates), 10)
	for _, r := range rates {
		is.True(r >= 0 && r <= 1)
	}
	_, err = ChunkWinRates(res.Results, 0, game.Switch)
	is.True(errors.Is(err, game.ErrInvalidArgument))
}

func TestHistogram(t *testing.T) {
	is := is.New(t)
	res := testBatch(t, 2000)
	var buf bytes.Buffer
	is.NoErr(Histogram(&buf, res.Results, 100, 5))
	is.True(strings.HasPrefix(buf.String(), "switch win rate per 100 trials (20 samples)"))

	err := Histogram(&buf, res.Results[:20], 100, 5)
	is.True(errors.Is(err, game.ErrInvalidArgument))
}
