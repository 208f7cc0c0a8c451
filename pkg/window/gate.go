// Package window holds the time rules shared by review submission and journal
// submission: whether a window is open, and how weekly journal windows are laid out.
package window

import "time"

type State int

const (
	NotStarted State = iota
	Open
	Closed
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case Open:
		return "open"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// StateAt classifies now against [start, end]. Both bounds are inclusive.
func StateAt(now, start, end time.Time) State {
	if now.Before(start) {
		return NotStarted
	}
	if now.After(end) {
		return Closed
	}
	return Open
}

func IsOpen(now, start, end time.Time) bool {
	return StateAt(now, start, end) == Open
}
