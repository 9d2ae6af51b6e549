package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
)

// LegacyEventTimeLayout is what older producers wrote into "at".
const LegacyEventTimeLayout = "2006-01-02 15:04:05 -0700"

var ErrMalformedEvent = errors.New("malformed signal event")

type signalEventWire struct {
	Signal string `json:"signal"`
	At     string `json:"at"`
}

// EncodeSignalEvent returns the broker key (upper-cased symbol) and JSON value.
func EncodeSignalEvent(e SignalChangeEvent) (key, value []byte, err error) {
	sym := strings.ToUpper(strings.TrimSpace(e.Symbol))
	if sym == "" {
		return nil, nil, fmt.Errorf("EncodeSignalEvent: %w: empty symbol", ErrMalformedEvent)
	}
	if !e.Signal.Valid() {
		return nil, nil, fmt.Errorf("EncodeSignalEvent: %w", ErrUnknownSignal)
	}

	value, err = sonic.Marshal(signalEventWire{
		Signal: e.Signal.String(),
		At:     e.EmittedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("EncodeSignalEvent: %w", err)
	}
	return []byte(sym), value, nil
}

// DecodeSignalEvent parses a broker message. An unrecognised signal name yields ErrUnknownSignal
// with Symbol and EmittedAt still filled in.
func DecodeSignalEvent(key, value []byte) (SignalChangeEvent, error) {
	sym := strings.ToUpper(strings.TrimSpace(string(key)))
	if sym == "" {
		return SignalChangeEvent{}, fmt.Errorf("%w: empty key", ErrMalformedEvent)
	}

	var w signalEventWire
	if err := sonic.Unmarshal(value, &w); err != nil {
		return SignalChangeEvent{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	at, err := parseEventTime(w.At)
	if err != nil {
		return SignalChangeEvent{}, fmt.Errorf("%w: at %q", ErrMalformedEvent, w.At)
	}

	ev := SignalChangeEvent{Symbol: sym, EmittedAt: at}
	sig, err := ParseSignal(w.Signal)
	if err != nil {
		return ev, err
	}
	ev.Signal = sig
	return ev, nil
}

func parseEventTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Parse(LegacyEventTimeLayout, s)
}
