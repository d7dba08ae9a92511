package shell

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/domino14/montyhall/automatic"
	"github.com/domino14/montyhall/config"
	"github.com/domino14/montyhall/game"
	"github.com/domino14/montyhall/montecarlo"
	"github.com/domino14/montyhall/report"
)

// ShellOptions are the settings the `set` command changes.
type ShellOptions struct {
	trials           int
	threads          int
	seed             string
	format           string
	histogramChunk   int
	stopCondition    montecarlo.StoppingCondition
	iterationsCutoff int
	logFile          string
}

var optionKeys = []string{"trials", "threads", "seed", "format", "chunk", "stop",
	"cutoff", "logfile"}

func NewShellOptions() *ShellOptions {
	return &ShellOptions{
		trials:           automatic.DefaultTrials,
		threads:          1,
		format:           report.FormatText,
		histogramChunk:   100,
		stopCondition:    montecarlo.Stop99,
		iterationsCutoff: montecarlo.DefaultIterationsCutoff,
	}
}

// SetDefaults reads the initial settings from the config.
func (opts *ShellOptions) SetDefaults(cfg *config.Config) {
	if cfg == nil || cfg.Viper == nil {
		return
	}
	opts.trials = max(1, cfg.GetInt(config.ConfigTrials))
	opts.threads = max(1, cfg.GetInt(config.ConfigThreads))
	opts.seed = cfg.GetString(config.ConfigSeed)
	if f := cfg.GetString(config.ConfigOutputFormat); f != "" {
		opts.format = f
	}
	if c := cfg.GetInt(config.ConfigHistogramChunk); c > 0 {
		opts.histogramChunk = c
	}
	if sc, err := montecarlo.ParseStoppingCondition(cfg.GetString(config.ConfigStopCondition)); err == nil {
		opts.stopCondition = sc
	}
	opts.iterationsCutoff = max(0, cfg.GetInt(config.ConfigIterationsCutoff))
	opts.logFile = cfg.GetString(config.ConfigLogFile)
}

func (opts *ShellOptions) Show(key string) (bool, string) {
	switch key {
	case "trials":
		return true, strconv.Itoa(opts.trials)
	case "threads":
		return true, strconv.Itoa(opts.threads)
	case "seed":
		if opts.seed == "" {
			return true, "(random)"
		}
		return true, opts.seed
	case "format":
		return true, opts.format
	case "chunk":
		return true, strconv.Itoa(opts.histogramChunk)
	case "stop":
		return true, opts.stopCondition.String()
	case "cutoff":
		return true, strconv.Itoa(opts.iterationsCutoff)
	case "logfile":
		if opts.logFile == "" {
			return true, "(none)"
		}
		return true, opts.logFile
	default:
		return false, "No such option: " + key
	}
}

func (opts *ShellOptions) ToDisplayText() string {
	out := strings.Builder{}
	out.WriteString("Settings:\n")
	for _, key := range optionKeys {
		_, val := opts.Show(key)
		out.WriteString("  " + key + ": ")
		out.WriteString(val + "\n")
	}
	return out.String()
}

func positiveInt(key, val string) (int, error) {
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("%w: %s must be positive", game.ErrInvalidArgument, key)
	}
	return n, nil
}

// Set changes one option and returns its new display value.
func (opts *ShellOptions) Set(key string, values []string) (string, error) {
	if len(values) == 0 {
		return "", errors.New("need a value for " + key)
	}
	val := values[0]
	switch key {
	case "trials", "threads", "chunk":
		n, err := positiveInt(key, val)
		if err != nil {
			return "", err
		}
		switch key {
		case "trials":
			opts.trials = n
		case "threads":
			opts.threads = n
		default:
			opts.histogramChunk = n
		}
	case "seed":
		if val == "random" || val == "none" {
			val = ""
		} else if _, err := game.ParseSeed(val); err != nil {
			return "", err
		}
		opts.seed = val
	case "format":
		if !slices.Contains(report.Formats, val) {
			return "", fmt.Errorf("format must be one of %s", strings.Join(report.Formats, ", "))
		}
		opts.format = val
	case "stop":
		sc, err := montecarlo.ParseStoppingCondition(val)
		if err != nil {
			return "", err
		}
		opts.stopCondition = sc
	case "cutoff":
		n, err := strconv.Atoi(val)
		if err != nil {
			return "", err
		}
		if n < 0 {
			return "", errors.New("cutoff must not be negative")
		}
		opts.iterationsCutoff = n
	case "logfile":
		if val == "none" {
			val = ""
		}
		opts.logFile = val
	default:
		return "", errors.New("No such option: " + key)
	}
	_, shown := opts.Show(key)
	return shown, nil
}

// seedValue is the seed to run with and whether one was set.
func (opts *ShellOptions) seedValue(override string) (game.Seed, bool, error) {
	s := opts.seed
	if override != "" {
		s = override
	}
	if s == "" {
		return game.Seed{}, false, nil
	}
	seed, err := game.ParseSeed(s)
	return seed, err == nil, err
}
