// Command batch plays one batch of Monty Hall trials and prints the
// stay/switch table.
//
//	batch [flags] [n]
//	batch [flags] genseeds <count> <file>
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/montyhall/automatic"
	"github.com/domino14/montyhall/config"
	"github.com/domino14/montyhall/game"
	"github.com/domino14/montyhall/report"
	"github.com/domino14/montyhall/store"
)

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
	log.Debug().Msgf("Loaded config: %v", cfg.SanitizedSettings())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("batch-failed")
	}
}

// closeLog closes c and reports its error through err unless err is
// already set.
func closeLog(c io.Closer, err *error) {
	if cerr := c.Close(); cerr != nil && *err == nil {
		*err = fmt.Errorf("closing log: %w", cerr)
	}
}

func run(ctx context.Context, cfg *config.Config, w io.Writer) (retErr error) {
	args := cfg.Args()
	if len(args) > 0 && args[0] == "genseeds" {
		return genSeeds(args[1:])
	}
	n := cfg.GetInt(config.ConfigTrials)
	if len(args) > 0 {
		var err error
		n, err = strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("%w: trial count %q", game.ErrInvalidArgument, args[0])
		}
	}

	seeds, err := batchSeeds(cfg)
	if err != nil {
		return err
	}

	var st *store.Store
	if path := cfg.GetString(config.ConfigDBPath); path != "" {
		st, err = store.Open(ctx, path)
		if err != nil {
			return err
		}
		defer st.Close()
	}

	runner := automatic.NewBatchRunner()
	runner.SetThreads(cfg.GetInt(config.ConfigThreads))
	if path := cfg.GetString(config.ConfigLogFile); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer closeLog(f, &retErr)
		runner.SetLogWriter(f)
	}

	// A nil seed means a fresh random one.
	for i, seed := range seeds {
		if seed != nil {
			runner.SetSeed(*seed)
		} else {
			runner.ClearSeed()
		}
		res, err := runner.Run(ctx, n)
		if err != nil {
			return err
		}
		sum := report.NewSummary(res)
		if st != nil {
			if err := st.SaveSummary(ctx, sum); err != nil {
				return err
			}
		}
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := report.Write(w, sum, cfg.GetString(config.ConfigOutputFormat)); err != nil {
			return err
		}
		if chunk := cfg.GetInt(config.ConfigHistogramChunk); chunk > 0 && chunk <= n {
			fmt.Fprintln(w)
			if err := report.Histogram(w, res.Results, chunk, report.DefaultHistogramBins); err != nil {
				return err
			}
		}
	}
	return nil
}

func batchSeeds(cfg *config.Config) ([]*game.Seed, error) {
	if path := cfg.GetString(config.ConfigSeedsFile); path != "" {
		seeds, err := game.LoadSeeds(path)
		if err != nil {
			return nil, err
		}
		if len(seeds) == 0 {
			return nil, fmt.Errorf("%w: no seeds in %s", game.ErrInvalidArgument, path)
		}
		ret := make([]*game.Seed, len(seeds))
		for i := range seeds {
			ret[i] = &seeds[i]
		}
		return ret, nil
	}
	if s := cfg.GetString(config.ConfigSeed); s != "" {
		seed, err := game.ParseSeed(s)
		if err != nil {
			return nil, err
		}
		return []*game.Seed{&seed}, nil
	}
	return []*game.Seed{nil}, nil
}

func genSeeds(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: usage: genseeds <count> <file>", game.ErrInvalidArgument)
	}
	count, err := strconv.Atoi(args[0])
	if err != nil || count <= 0 {
		return fmt.Errorf("%w: seed count must be a positive integer", game.ErrInvalidArgument)
	}
	if err := game.SaveSeeds(game.GenerateSeeds(count), args[1]); err != nil {
		return err
	}
	log.Info().Int("count", count).Str("file", args[1]).Msg("wrote-seeds")
	return nil
}
