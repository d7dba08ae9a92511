package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/domino14/montyhall/automatic"
	"github.com/domino14/montyhall/game"
	"github.com/domino14/montyhall/report"
)

const defaultHistoryCount = 10

var (
	errNoGame   = errors.New("no game in progress; start one with `newgame`")
	errNoPick   = errors.New("pick a door first with `pick <1-3>`")
	errNoReveal = errors.New("the host has not opened a door yet; use `reveal`")
	errNoBatch  = errors.New("run a `batch` first")
	errNoStore  = errors.New("no history database configured (set db-path)")
)

type Response struct {
	message string
}

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) Int(key string) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return 0, errors.New(key + " not found in options")
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) Bool(key string) bool {
	v := c[key]
	if len(v) == 0 {
		return false
	}
	return strings.ToLower(v[0]) == "true"
}

func (c CmdOptions) StringArray(key string) []string {
	return c[key]
}

func msg(message string) *Response {
	return &Response{message: message}
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return msg(sc.options.ToDisplayText()), nil
	}
	opt := cmd.args[0]
	if len(cmd.args) == 1 {
		_, val := sc.options.Show(opt)
		return msg(val), nil
	}
	ret, err := sc.options.Set(opt, cmd.args[1:])
	if err != nil {
		return nil, err
	}
	return msg("set " + opt + " to " + ret), nil
}

func doors(g *interactiveGame) string {
	var sb strings.Builder
	for _, d := range game.AllDoors() {
		label := fmt.Sprintf("[%d]", d)
		switch d {
		case g.opened:
			label = "[" + g.g.Prize(d).String() + "]"
		case g.pick:
			label = fmt.Sprintf("[%d*]", d)
		}
		fmt.Fprintf(&sb, "%-8s", label)
	}
	return strings.TrimRight(sb.String(), " ")
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	sc.curGame = &interactiveGame{g: game.NewGame(sc.rng)}
	return msg(doors(sc.curGame) + "\nA car is behind one of these doors. Pick one with `pick <1-3>`."), nil
}

func (sc *ShellController) pick(cmd *shellcmd) (*Response, error) {
	if sc.curGame == nil {
		return nil, errNoGame
	}
	if sc.curGame.opened != game.NoDoor {
		return nil, errors.New("a door is already open; `stay` or `switch`")
	}
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: pick <1-3>")
	}
	n, err := strconv.Atoi(cmd.args[0])
	if err != nil {
		return nil, err
	}
	d := game.Door(n)
	if !d.Valid() {
		return nil, fmt.Errorf("%w: pick a door from 1 to %d", game.ErrInvalidDoor, game.NumDoors)
	}
	sc.curGame.pick = d
	return msg(doors(sc.curGame) + "\nYou picked door " + cmd.args[0] + ". Now `reveal`."), nil
}

func (sc *ShellController) reveal(cmd *shellcmd) (*Response, error) {
	if sc.curGame == nil {
		return nil, errNoGame
	}
	if sc.curGame.pick == game.NoDoor {
		return nil, errNoPick
	}
	if sc.curGame.opened == game.NoDoor {
		opened, err := game.OpenGoatDoor(sc.rng, sc.curGame.g, sc.curGame.pick)
		if err != nil {
			return nil, err
		}
		sc.curGame.opened = opened
	}
	return msg(fmt.Sprintf("%s\nThe host opens door %d: a goat. Do you `stay` or `switch`?",
		doors(sc.curGame), sc.curGame.opened)), nil
}

func (sc *ShellController) finish(cmd *shellcmd) (*Response, error) {
	if sc.curGame == nil {
		return nil, errNoGame
	}
	if sc.curGame.opened == game.NoDoor {
		return nil, errNoReveal
	}
	strategy, err := game.ParseStrategy(cmd.cmd)
	if err != nil {
		return nil, err
	}
	final, err := game.ChangeDoor(strategy == game.Stay, sc.curGame.opened, sc.curGame.pick)
	if err != nil {
		return nil, err
	}
	outcome, err := game.DetermineWinner(final, sc.curGame.g)
	if err != nil {
		return nil, err
	}
	sc.handPlayed.Add(game.TrialResult{Strategy: strategy, Outcome: outcome})
	g := sc.curGame.g
	sc.curGame = nil

	var sb strings.Builder
	fmt.Fprintf(&sb, "You %s and open door %d: %s. You %s!\n", strategy, final,
		g.Prize(final), strings.ToLower(outcome.String()))
	fmt.Fprintf(&sb, "The doors were: %s\n", g)
	for _, s := range game.Strategies {
		if n := sc.handPlayed.Total(s); n > 0 {
			fmt.Fprintf(&sb, "  %s: won %d of %d\n", s, sc.handPlayed.Count(s, game.Win), n)
		}
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if sc.curGame == nil {
		return nil, errNoGame
	}
	return msg(doors(sc.curGame)), nil
}

func (sc *ShellController) trial(cmd *shellcmd) (*Response, error) {
	t, err := automatic.NewGameRunner(sc.rng).PlayTrial()
	if err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf(
		"game: %s\npick: %d, host opens: %d\nstay -> door %d: %s\nswitch -> door %d: %s",
		t.Game, t.Pick, t.Opened, t.StayPick, t.StayOutcome, t.SwitchPick, t.SwitchOutcome)), nil
}

// closeLog closes c and reports its error through err unless err is
// already set. A failed close can mean the log lost its tail.
func closeLog(c io.Closer, err *error) {
	if cerr := c.Close(); cerr != nil && *err == nil {
		*err = fmt.Errorf("closing log: %w", cerr)
	}
}

func (sc *ShellController) runBatch(cmd *shellcmd) (res *automatic.BatchResults, retErr error) {
	n := sc.options.trials
	if len(cmd.args) > 0 {
		var err error
		n, err = strconv.Atoi(cmd.args[0])
		if err != nil {
			return nil, err
		}
	}
	threads, err := cmd.options.IntDefault("threads", sc.options.threads)
	if err != nil {
		return nil, err
	}
	seed, seeded, err := sc.options.seedValue(cmd.options.String("seed"))
	if err != nil {
		return nil, err
	}
	runner := automatic.NewBatchRunner()
	runner.SetThreads(threads)
	if seeded {
		runner.SetSeed(seed)
	}
	logPath := sc.options.logFile
	if p := cmd.options.String("log"); p != "" {
		logPath = p
	}
	if logPath != "" {
		f, err := os.Create(logPath)
		if err != nil {
			return nil, err
		}
		defer closeLog(f, &retErr)
		runner.SetLogWriter(f)
	}
	return runner.Run(context.Background(), n)
}

func (sc *ShellController) batch(cmd *shellcmd) (*Response, error) {
	res, err := sc.runBatch(cmd)
	if err != nil {
		return nil, err
	}
	sc.lastBatch = res
	sum := report.NewSummary(res)
	if sc.store != nil {
		if err := sc.store.SaveSummary(context.Background(), sum); err != nil {
			log.Err(err).Str("batch", sum.ID).Msg("could-not-save-summary")
		}
	}
	format := sc.options.format
	if f := cmd.options.String("format"); f != "" {
		format = f
	}
	var sb strings.Builder
	if err := report.Write(&sb, sum, format); err != nil {
		return nil, err
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

func (sc *ShellController) hist(cmd *shellcmd) (*Response, error) {
	if sc.lastBatch == nil {
		return nil, errNoBatch
	}
	chunk := sc.options.histogramChunk
	if len(cmd.args) > 0 {
		var err error
		chunk, err = strconv.Atoi(cmd.args[0])
		if err != nil {
			return nil, err
		}
	}
	bins, err := cmd.options.IntDefault("bins", report.DefaultHistogramBins)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	if err := report.Histogram(&sb, sc.lastBatch.Results, chunk, bins); err != nil {
		return nil, err
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

func (sc *ShellController) analyze(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: analyze <trial log file>")
	}
	tab, err := automatic.AnalyzeLogFile(cmd.args[0])
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	sb.WriteString("Log " + cmd.args[0] + " checks out.\n")
	if err := report.WriteText(&sb, report.FromTabulation("", game.Seed{}, 0, tab)); err != nil {
		return nil, err
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

func (sc *ShellController) history(cmd *shellcmd) (*Response, error) {
	if sc.store == nil {
		return nil, errNoStore
	}
	n := defaultHistoryCount
	if len(cmd.args) > 0 {
		var err error
		n, err = strconv.Atoi(cmd.args[0])
		if err != nil {
			return nil, err
		}
	}
	sums, err := sc.store.ListSummaries(context.Background(), n)
	if err != nil {
		return nil, err
	}
	if len(sums) == 0 {
		return msg("No batches saved yet"), nil
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-26s%-22s%10s%9s%9s\n", "id", "created", "trials", "stay", "switch")
	for _, s := range sums {
		stay, _ := s.Row(game.Stay)
		sw, _ := s.Row(game.Switch)
		fmt.Fprintf(&sb, "%-26s%-22s%10d%9.3f%9.3f\n", s.ID,
			s.Created.Format("2006-01-02 15:04:05"), s.Trials, stay.Win, sw.Win)
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}
