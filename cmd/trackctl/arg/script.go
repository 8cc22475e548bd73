package arg

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"skillrise/api/client"
)

type action string

const (
	actionNav    action = "nav"
	actionHide   action = "hide"
	actionShow   action = "show"
	actionBeat   action = "beat"
	actionUnload action = "unload"
)

// step is one line of a replay script.
type step struct {
	At     time.Duration
	Action action
	Path   string
}

// parseScript reads lines of the form "<offset> <action> [path]". Blank lines
// and lines starting with # are skipped. Offsets must not decrease.
func parseScript(r io.Reader) ([]step, error) {
	var steps []step
	var last time.Duration
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: expected \"<offset> <action>\"", lineNo)
		}
		at, err := time.ParseDuration(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad offset %q: %w", lineNo, fields[0], err)
		}
		if at < last {
			return nil, fmt.Errorf("line %d: offset %s goes backwards", lineNo, at)
		}
		last = at

		s := step{At: at, Action: action(fields[1])}
		switch s.Action {
		case actionNav:
			if len(fields) != 3 {
				return nil, fmt.Errorf("line %d: nav needs exactly one path", lineNo)
			}
			s.Path = fields[2]
		case actionHide, actionShow, actionBeat, actionUnload:
			if len(fields) != 2 {
				return nil, fmt.Errorf("line %d: %s takes no arguments", lineNo, s.Action)
			}
		default:
			return nil, fmt.Errorf("line %d: unknown action %q", lineNo, fields[1])
		}
		steps = append(steps, s)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return steps, nil
}

// virtualClock only moves when the replay advances it.
type virtualClock struct {
	start time.Time
	at    time.Duration
}

func (c *virtualClock) Now() time.Time {
	return c.start.Add(c.at)
}

// replay feeds steps into tracker, moving clock to each step's offset first.
// Heartbeats are only fired by explicit beat steps.
func replay(tracker *client.Tracker, clock *virtualClock, steps []step) {
	for _, s := range steps {
		clock.at = s.At
		switch s.Action {
		case actionNav:
			tracker.Navigate(s.Path)
		case actionHide:
			tracker.VisibilityChanged(true)
		case actionShow:
			tracker.VisibilityChanged(false)
		case actionBeat:
			tracker.Heartbeat()
		case actionUnload:
			tracker.Unload()
		}
	}
}
