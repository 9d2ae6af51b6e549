package models

import "time"

const SignalsTopic = "equity_signals"

// SignalChangeEvent is emitted once per persisted state transition.
type SignalChangeEvent struct {
	Symbol    string
	Signal    Signal
	EmittedAt time.Time
}

// Age reports how old the event is at now.
func (e SignalChangeEvent) Age(now time.Time) time.Duration {
	return now.Sub(e.EmittedAt)
}
