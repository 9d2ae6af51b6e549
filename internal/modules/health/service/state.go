package service

import (
	"sync/atomic"
	"time"
)

type State struct {
	ready     atomic.Bool
	startedAt time.Time

	subscribed      atomic.Bool
	lastMessageUnix atomic.Int64 // unix seconds

	processed atomic.Int64
	failed    atomic.Int64
	skipped   atomic.Int64
}

func NewState() *State {
	return &State{startedAt: time.Now()}
}

func (s *State) Ready() bool { return s.ready.Load() }

// SetSubscribed also drives readiness.
func (s *State) SetSubscribed(v bool) {
	s.subscribed.Store(v)
	s.ready.Store(v)
}
func (s *State) Subscribed() bool { return s.subscribed.Load() }

func (s *State) TouchMessage(t time.Time) { s.lastMessageUnix.Store(t.Unix()) }
func (s *State) LastMessage() time.Time {
	u := s.lastMessageUnix.Load()
	if u == 0 {
		return time.Time{}
	}
	return time.Unix(u, 0)
}

func (s *State) IncProcessed() { s.processed.Add(1) }
func (s *State) IncFailed()    { s.failed.Add(1) }
func (s *State) IncSkipped()   { s.skipped.Add(1) }

type Counters struct {
	Processed int64 `json:"processed"`
	Failed    int64 `json:"failed"`
	Skipped   int64 `json:"skipped"`
}

func (s *State) Counters() Counters {
	return Counters{
		Processed: s.processed.Load(),
		Failed:    s.failed.Load(),
		Skipped:   s.skipped.Load(),
	}
}

func (s *State) Uptime() time.Duration { return time.Since(s.startedAt) }
