package config

import (
	"fmt"
	"runtime"
	"sort"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug            = "debug"
	ConfigTrials           = "trials"
	ConfigThreads          = "threads"
	ConfigSeed             = "seed"
	ConfigSeedsFile        = "seeds-file"
	ConfigLogFile          = "log-file"
	ConfigDBPath           = "db-path"
	ConfigNatsURL          = "nats-url"
	ConfigNatsSubject      = "nats-subject"
	ConfigOutputFormat     = "output-format"
	ConfigHistogramChunk   = "histogram-chunk"
	ConfigStopCondition    = "stop-condition"
	ConfigIterationsCutoff = "iterations-cutoff"
	ConfigCPUProfile       = "cpu-profile"
)

// Config holds every setting the executables read. Values come from, in
// order of precedence: explicit Set calls, command-line flags, MONTYHALL_*
// environment variables and defaults.
type Config struct {
	*viper.Viper
	args []string
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("montyhall", pflag.ContinueOnError)
	// Everything after the first non-flag argument is a shell command line.
	fs.SetInterspersed(false)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.Int(ConfigTrials, 100, "number of trials per batch")
	fs.Int(ConfigThreads, runtime.NumCPU(), "number of threads to play trials on")
	fs.String(ConfigSeed, "", "seed for reproducible batches; empty for a random seed")
	fs.String(ConfigSeedsFile, "", "run one batch per seed in this file")
	fs.String(ConfigLogFile, "", "write a CSV line per trial to this file")
	fs.String(ConfigDBPath, "", "sqlite file for batch history; empty for none")
	fs.String(ConfigNatsURL, "nats://localhost:4222", "the NATS server URL")
	fs.String(ConfigNatsSubject, "montyhall.batch", "the NATS subject the bot listens on")
	fs.String(ConfigOutputFormat, "text", "output format: text, yaml or json")
	fs.Int(ConfigHistogramChunk, 100, "trials per histogram sample")
	fs.Int(ConfigStopCondition, 99, "confidence level for sim stopping: 0, 95, 98 or 99")
	fs.Int(ConfigIterationsCutoff, 100000, "max trials for a sim; 0 for no cap")
	fs.String(ConfigCPUProfile, "", "write a CPU profile to this file")
	return fs
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("montyhall")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load parses args (normally os.Args[1:]). Arguments after the first
// non-flag one are kept and returned by Args.
func (c *Config) Load(args []string) error {
	fs := newFlagSet()
	err := fs.Parse(args)
	if err != nil {
		return err
	}
	c.Viper = newViper()
	if err := c.BindPFlags(fs); err != nil {
		return err
	}
	c.args = fs.Args()
	return nil
}

// Args are the command-line arguments left over after flag parsing.
func (c *Config) Args() []string {
	return c.args
}

// DefaultConfig has every setting at its default, ignoring the environment.
func DefaultConfig() Config {
	v := viper.New()
	fs := newFlagSet()
	fs.VisitAll(func(f *pflag.Flag) {
		v.SetDefault(f.Name, f.DefValue)
	})
	return Config{Viper: v}
}

// SanitizedSettings is a printable view of the settings with the
// credentials in the NATS URL masked.
func (c *Config) SanitizedSettings() string {
	settings := c.AllSettings()
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(" ")
		}
		val := fmt.Sprintf("%v", settings[k])
		if k == ConfigNatsURL {
			val = maskURLCredentials(val)
		}
		fmt.Fprintf(&sb, "%s=%s", k, val)
	}
	return sb.String()
}

func maskURLCredentials(u string) string {
	scheme, rest, ok := strings.Cut(u, "://")
	if !ok {
		return u
	}
	at := strings.LastIndex(rest, "@")
	if at < 0 {
		return u
	}
	return scheme + "://****@" + rest[at+1:]
}
