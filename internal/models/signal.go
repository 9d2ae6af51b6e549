package models

import (
	"errors"
	"fmt"
	"strings"
)

// Signal is the persisted buy/sell state of an equity.
//
// Stored as a smallint:
//
//	0 sell (default)
//	1 buy
type Signal int16

const (
	SignalSell Signal = 0
	SignalBuy  Signal = 1

	DefaultSignal = SignalSell
)

var ErrUnknownSignal = errors.New("unknown signal")

var signalNames = map[Signal]string{
	SignalSell: "sell",
	SignalBuy:  "buy",
}

func (s Signal) String() string {
	if n, ok := signalNames[s]; ok {
		return n
	}
	return fmt.Sprintf("signal(%d)", int16(s))
}

func (s Signal) Valid() bool {
	_, ok := signalNames[s]
	return ok
}

// ParseSignal accepts the wire names case-insensitively.
func ParseSignal(raw string) (Signal, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "sell":
		return SignalSell, nil
	case "buy":
		return SignalBuy, nil
	}
	return DefaultSignal, fmt.Errorf("%w: %q", ErrUnknownSignal, raw)
}

func (s Signal) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSignal, int16(s))
	}
	return []byte(s.String()), nil
}

func (s *Signal) UnmarshalText(b []byte) error {
	v, err := ParseSignal(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// SignalFor is the crossover rule: the fast line strictly above the baseline means buy.
func SignalFor(r IndicatorReading) Signal {
	if r.Fast > r.Baseline {
		return SignalBuy
	}
	return SignalSell
}
