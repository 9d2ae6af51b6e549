package models

import "time"

// Equity is the single row kept per traded symbol.
type Equity struct {
	ID        int64     `json:"id"`
	Symbol    string    `json:"symbol"`
	Signal    Signal    `json:"signal"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IndicatorReading holds the latest MACD line (Fast) and its signal line (Baseline).
type IndicatorReading struct {
	Fast     float64
	Baseline float64
}
