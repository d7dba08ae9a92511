package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/domino14/montyhall/automatic"
	"github.com/domino14/montyhall/game"
)

const (
	FormatText = "text"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

var Formats = []string{FormatText, FormatYAML, FormatJSON}

var printer = message.NewPrinter(language.English)

// WriteText prints the summary as an aligned table:
//
//	strategy      WIN    LOSE   95% CI
//	stay        0.334   0.666   [0.325, 0.343]
//	switch      0.666   0.334   [0.657, 0.675]
func WriteText(w io.Writer, s Summary) error {
	var sb strings.Builder
	if s.ID != "" {
		printer.Fprintf(&sb, "Batch %s: ", s.ID)
	}
	printer.Fprintf(&sb, "%d trials, %d threads", s.Trials, s.Threads)
	if s.ElapsedMS > 0 {
		printer.Fprintf(&sb, ", %d ms", s.ElapsedMS)
	}
	sb.WriteString("\n")
	if s.Seed != "" {
		fmt.Fprintf(&sb, "Seed: %s\n", s.Seed)
	}
	fmt.Fprintf(&sb, "%-10s%8s%8s   %d%% CI\n", "strategy", game.Win, game.Lose, Confidence)
	for _, r := range s.Rows {
		fmt.Fprintf(&sb, "%-10s%8.*f%8.*f   [%.*f, %.*f]\n", r.Strategy,
			DisplayPlaces, r.Win, DisplayPlaces, r.Lose,
			DisplayPlaces, r.CILow, DisplayPlaces, r.CIHigh)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func WriteYAML(w io.Writer, s Summary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}

func WriteJSON(w io.Writer, s Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// Write prints s in one of Formats.
func Write(w io.Writer, s Summary, format string) error {
	switch format {
	case FormatText, "":
		return WriteText(w, s)
	case FormatYAML:
		return WriteYAML(w, s)
	case FormatJSON:
		return WriteJSON(w, s)
	}
	return fmt.Errorf("%w: unknown output format %q (want one of %s)",
		game.ErrInvalidArgument, format, strings.Join(Formats, ", "))
}

// RunBatch plays n trials, prints the aggregated table to w and returns the
// full results.
func RunBatch(ctx context.Context, w io.Writer, n int) (*automatic.BatchResults, error) {
	res, err := automatic.RunBatch(ctx, n)
	if err != nil {
		return nil, err
	}
	if err := WriteText(w, NewSummary(res)); err != nil {
		return nil, err
	}
	return res, nil
}
