package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/montyhall/montecarlo"
	"github.com/domino14/montyhall/report"
)

func (sc *ShellController) sim(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) > 0 {
		return sc.simControlArguments(cmd.args)
	}
	if sc.simmer.IsSimming() {
		return nil, errors.New("simming already, please do a `sim stop` first")
	}

	threads, err := cmd.options.IntDefault("threads", sc.options.threads)
	if err != nil {
		return nil, err
	}
	stoppingCondition := sc.options.stopCondition
	if s := cmd.options.String("stop"); s != "" {
		stoppingCondition, err = montecarlo.ParseStoppingCondition(s)
		if err != nil {
			return nil, err
		}
	}
	cutoff, err := cmd.options.IntDefault("cutoff", sc.options.iterationsCutoff)
	if err != nil {
		return nil, err
	}
	checkInterval, err := cmd.options.IntDefault("checkinterval", montecarlo.DefaultCheckInterval)
	if err != nil {
		return nil, err
	}
	seed, seeded, err := sc.options.seedValue(cmd.options.String("seed"))
	if err != nil {
		return nil, err
	}
	if stoppingCondition == montecarlo.StopNone && cutoff == 0 {
		return nil, errors.New("this sim would never stop; set -stop or -cutoff")
	}

	log.Debug().Int("threads", threads).Int("cutoff", cutoff).
		Str("stoppingCondition", stoppingCondition.String()).Msg("will start sim")

	sc.simmer.SetThreads(threads)
	sc.simmer.SetStoppingCondition(stoppingCondition)
	sc.simmer.SetIterationsCutoff(cutoff)
	sc.simmer.SetCheckInterval(checkInterval)
	if seeded {
		sc.simmer.SetSeed(seed)
	} else {
		sc.simmer.ClearSeed()
	}
	sc.startSim()
	return msg("Simulation started. Please do `sim show` to see more info"), nil
}

func (sc *ShellController) startSim() {
	ctx, cancel := context.WithCancel(context.Background())
	sc.simCancel = cancel
	sc.simTicker = time.NewTicker(10 * time.Second)
	sc.simTickerDone = make(chan bool)
	simDone := make(chan struct{})
	sc.simDone = simDone
	ticker, tickerDone := sc.simTicker, sc.simTickerDone

	go func() {
		err := sc.simmer.Simulate(ctx)
		cancel()
		if err != nil {
			sc.showError(err)
		}
		ticker.Stop()
		close(tickerDone)
		if sc.simLogFile != nil {
			if err := sc.simLogFile.Close(); err != nil {
				log.Err(err).Msg("closing-sim-log")
			}
			sc.simLogFile = nil
			sc.simmer.SetLogStream(nil)
		}
		close(simDone)
		log.Debug().Msg("simulation thread exiting...")
	}()

	go func() {
		for {
			select {
			case <-tickerDone:
				log.Debug().Msg("ticker thread exiting...")
				return
			case <-ticker.C:
				log.Info().Msgf("Simmer is at %v iterations...",
					sc.simmer.Iterations())
			}
		}
	}()
}

// stopSim cancels the running sim and waits for it to wind down.
func (sc *ShellController) stopSim() {
	if sc.simCancel != nil {
		sc.simCancel()
	}
	if sc.simDone != nil {
		<-sc.simDone
	}
}

func (sc *ShellController) simResults() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Iterations: %d\n", sc.simmer.Iterations())
	if err := report.WriteText(&sb, sc.simmer.Summary()); err != nil {
		return err.Error()
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (sc *ShellController) simControlArguments(args []string) (*Response, error) {
	switch args[0] {
	case "log":
		if sc.simmer.IsSimming() {
			return nil, errors.New("please stop sim before making any log changes")
		}
		path := SimLog
		if len(args) > 1 {
			path = args[1]
		}
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		sc.simLogFile = f
		sc.simmer.SetLogStream(f)
		return msg("sim will log to " + path), nil
	case "stop":
		if !sc.simmer.IsSimming() {
			return nil, errors.New("no running sim to stop")
		}
		sc.stopSim()
		return msg(sc.simResults()), nil
	case "show":
		return msg(sc.simResults()), nil
	case "wait":
		if sc.simDone != nil {
			<-sc.simDone
		}
		return msg(sc.simResults()), nil
	default:
		return nil, fmt.Errorf("do not understand sim argument %v", args[0])
	}
}
