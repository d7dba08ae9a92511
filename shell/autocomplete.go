package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/domino14/montyhall/report"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string // Available options for this command (e.g., "-seed", "-threads")
	Args    []string // Possible argument values (for non-option arguments)
}

// commandMetadata maps command names to their options and arguments
// These are extracted from the actual command implementations in api.go and sim.go
var commandMetadata = map[string]CommandMetadata{
	"sim": {
		Options: []string{"-threads", "-stop", "-cutoff", "-checkinterval", "-seed"},
		Args:    []string{"log", "stop", "show", "wait"},
	},
	"batch": {
		Options: []string{"-threads", "-seed", "-log", "-format"},
	},
	"hist": {
		Options: []string{"-bins"},
	},
	"set": {
		Args: optionKeys,
	},
	"help": {
		Args: helpTopics,
	},
}

// Common command names for command completion
var commandNames = []string{
	"help", "newgame", "new", "pick", "reveal", "stay", "switch", "show",
	"trial", "batch", "sim", "hist", "analyze", "history", "set", "script",
	"exit",
}

// Common values for certain option types
var stopValues = []string{"0", "95", "98", "99"}

// valueCompletions lists the values an option takes, if they are known.
func valueCompletions(opt string) []string {
	switch opt {
	case "-stop":
		return stopValues
	case "-format":
		return report.Formats
	}
	return nil
}

// setValues are the candidates for `set key <value>`: the known values
// of the option, or else its current one.
func (c *ShellCompleter) setValues(key string) []string {
	switch key {
	case "stop":
		return stopValues
	case "format":
		return report.Formats
	}
	if ok, cur := c.sc.options.Show(key); ok {
		return []string{cur}
	}
	return nil
}

// argCompletions are the candidates for the word after cmdName. A word
// starting with a dash completes to the command's options.
func argCompletions(cmdName, word string) []string {
	md, ok := commandMetadata[cmdName]
	if !ok {
		return nil
	}
	if strings.HasPrefix(word, "-") || len(md.Args) == 0 {
		return md.Options
	}
	return md.Args
}

// Do implements readline.AutoCompleter. It returns the suffixes that
// complete the word under the cursor.
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])
	fields, err := shellquote.Split(text)
	if err != nil {
		// unbalanced quotes while typing
		fields = strings.Fields(text)
	}
	// An empty word is being started when the line ends in a space.
	if len(fields) == 0 || strings.HasSuffix(text, " ") {
		fields = append(fields, "")
	}
	word := fields[len(fields)-1]

	var candidates []string
	switch {
	case len(fields) == 1:
		candidates = commandNames
	case fields[0] == "set" && len(fields) == 3:
		candidates = c.setValues(fields[1])
	default:
		candidates = valueCompletions(fields[len(fields)-2])
		if candidates == nil {
			candidates = argCompletions(fields[0], word)
		}
	}

	var matches [][]rune
	for _, cand := range candidates {
		if suffix, ok := strings.CutPrefix(cand, word); ok {
			matches = append(matches, []rune(suffix))
		}
	}
	return matches, len([]rune(word))
}
