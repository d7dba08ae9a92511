package automatic

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/domino14/montyhall/game"
	"github.com/domino14/montyhall/stats"
)

var errBadLogRecord = errors.New("bad trial log record")

// AnalyzeLogFile re-tabulates a trial log written by a BatchRunner.
func AnalyzeLogFile(filepath string) (stats.Tabulation, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return stats.Tabulation{}, err
	}
	defer file.Close()
	return AnalyzeLog(file)
}

// AnalyzeLog re-tabulates a trial log. Every line is checked against its
// own game, so a log that was edited by hand is caught.
func AnalyzeLog(r io.Reader) (stats.Tabulation, error) {
	var tab stats.Tabulation
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(logHeader)
	line := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return tab, err
		}
		if record[0] == logHeader[0] {
			// this is the header line
			continue
		}
		t, err := parseRecord(record)
		if err != nil {
			return tab, fmt.Errorf("line %d: %w", line, err)
		}
		for _, res := range t.Results() {
			tab.Add(res)
		}
	}
	return tab, nil
}

func parseRecord(record []string) (Trial, error) {
	var t Trial
	var err error
	if t.Index, err = strconv.Atoi(record[0]); err != nil {
		return t, err
	}
	if t.Game, err = game.GameFromLabels(strings.Fields(record[1])); err != nil {
		return t, err
	}
	doors := make([]game.Door, 0, 4)
	for _, idx := range []int{2, 3, 4, 6} {
		d, err := strconv.Atoi(record[idx])
		if err != nil {
			return t, err
		}
		doors = append(doors, game.Door(d))
	}
	t.Pick, t.Opened, t.StayPick, t.SwitchPick = doors[0], doors[1], doors[2], doors[3]
	if t.StayOutcome, err = game.ParseOutcome(record[5]); err != nil {
		return t, err
	}
	if t.SwitchOutcome, err = game.ParseOutcome(record[7]); err != nil {
		return t, err
	}

	// Check the line is consistent with the rules.
	for _, s := range game.Strategies {
		final, err := s.FinalDoor(t.Opened, t.Pick)
		if err != nil {
			return t, err
		}
		outcome, err := game.DetermineWinner(final, t.Game)
		if err != nil {
			return t, err
		}
		logged := t.Results()[s]
		loggedPick := t.StayPick
		if s == game.Switch {
			loggedPick = t.SwitchPick
		}
		if final != loggedPick || outcome != logged.Outcome {
			return t, fmt.Errorf("%w: %s should pick %d and %s", errBadLogRecord,
				s, final, outcome)
		}
	}
	if t.Game.Prize(t.Opened) != game.Goat {
		return t, fmt.Errorf("%w: host opened the car", errBadLogRecord)
	}
	return t, nil
}
