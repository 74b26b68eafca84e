package metronome

import "time"

const (
	TickCompleted EventType = iota
	TickFailed
)

type EventType int

func (et EventType) String() string {
	switch et {
	case TickCompleted:
		return "TickCompleted"
	case TickFailed:
		return "TickFailed"
	default:
		return "Unknown"
	}
}

// Event is published once per execution of a metronome task.
type Event struct {
	Name      string
	Type      EventType
	Err       error
	StartedAt time.Time
	Duration  time.Duration
}
