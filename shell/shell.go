package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/montyhall/automatic"
	"github.com/domino14/montyhall/config"
	"github.com/domino14/montyhall/game"
	"github.com/domino14/montyhall/montecarlo"
	"github.com/domino14/montyhall/stats"
	"github.com/domino14/montyhall/store"
)

const SimLog = "/tmp/montyhall-simlog.yaml"

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errQuit              = errors.New("quit")
)

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

// interactiveGame is a game the user plays by hand, one step at a time.
type interactiveGame struct {
	g      game.Game
	pick   game.Door
	opened game.Door
}

type ShellController struct {
	l        *readline.Instance
	out      io.Writer
	config   *config.Config
	execPath string
	options  *ShellOptions

	rng     game.Randomizer
	curGame *interactiveGame
	// results of the games played by hand this session
	handPlayed stats.Tabulation

	lastBatch *automatic.BatchResults
	store     *store.Store

	simmer        *montecarlo.Simmer
	simCancel     context.CancelFunc
	simTicker     *time.Ticker
	simTickerDone chan bool
	simDone       chan struct{}
	simLogFile    *os.File
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func writeln(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func (sc *ShellController) showMessage(msg string) {
	writeln(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func NewShellController(cfg *config.Config, execPath string) *ShellController {
	sc := newShellController(cfg, os.Stderr)
	sc.execPath = execPath
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mmontyhall>\033[0m ",
		HistoryFile:     "/tmp/montyhall-readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
		AutoComplete:    NewShellCompleter(sc),

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc.l = l
	sc.out = l.Stderr()

	if path := cfg.GetString(config.ConfigDBPath); path != "" {
		st, err := store.Open(context.Background(), path)
		if err != nil {
			log.Err(err).Str("path", path).Msg("could-not-open-store")
		} else {
			sc.store = st
		}
	}
	return sc
}

func newShellController(cfg *config.Config, out io.Writer) *ShellController {
	opts := NewShellOptions()
	opts.SetDefaults(cfg)
	return &ShellController{
		out:     out,
		config:  cfg,
		options: opts,
		rng:     game.NewRandomizer(),
		simmer:  montecarlo.NewSimmer(),
	}
}

// extractFields splits a line into a command, its arguments and its
// -option value pairs. Quoting works as in a POSIX shell.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := CmdOptions{}

	for idx := 1; idx < len(fields); idx++ {
		f := fields[idx]
		if strings.HasPrefix(f, "-") && len(f) > 1 {
			// option; a value is mandatory
			if idx == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			opt := f[1:]
			options[opt] = append(options[opt], fields[idx+1])
			idx++
			continue
		}
		args = append(args, f)
	}
	return &shellcmd{
		cmd:     cmd,
		args:    args,
		options: options,
	}, nil
}

func (sc *ShellController) standardModeSwitch(line string) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "exit", "bye":
		return nil, errQuit
	case "help":
		return sc.help(cmd)
	case "newgame", "new":
		return sc.newGame(cmd)
	case "pick":
		return sc.pick(cmd)
	case "reveal":
		return sc.reveal(cmd)
	case "stay", "switch":
		return sc.finish(cmd)
	case "show":
		return sc.show(cmd)
	case "trial":
		return sc.trial(cmd)
	case "batch":
		return sc.batch(cmd)
	case "sim":
		return sc.sim(cmd)
	case "hist":
		return sc.hist(cmd)
	case "analyze":
		return sc.analyze(cmd)
	case "history":
		return sc.history(cmd)
	case "set":
		return sc.set(cmd)
	case "script":
		return sc.script(cmd)
	default:
		msg := fmt.Sprintf("command %v not found", strconv.Quote(cmd.cmd))
		log.Info().Msg(msg)
		return nil, errors.New(msg)
	}
}

// Execute runs a single command line, such as one given on the command
// line of the executable. A sim it starts is waited for.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	resp, err := sc.standardModeSwitch(line)
	if errors.Is(err, errQuit) {
		return
	}
	if err != nil {
		sc.showError(err)
		return
	}
	if resp != nil {
		sc.showMessage(resp.message)
	}
	if sc.simDone != nil {
		select {
		case <-sc.simDone:
		case <-sig:
			sc.stopSim()
		}
		sc.showMessage(sc.simResults())
	}
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		resp, err := sc.standardModeSwitch(line)
		if errors.Is(err, errQuit) {
			sig <- syscall.SIGINT
			break
		}
		if err != nil {
			sc.showError(err)
		} else if resp != nil {
			sc.showMessage(resp.message)
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

// Cleanup stops a running sim and closes the store.
func (sc *ShellController) Cleanup() {
	sc.stopSim()
	if sc.store != nil {
		if err := sc.store.Close(); err != nil {
			log.Err(err).Msg("closing-store")
		}
	}
}
