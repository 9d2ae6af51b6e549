package models

import "github.com/shopspring/decimal"

type Account struct {
	Number      string
	URL         string
	BuyingPower decimal.Decimal
}

type Instrument struct {
	ID     string
	URL    string
	Symbol string
}

// Position is owned by the brokerage; Quantity is zero when nothing is held.
type Position struct {
	InstrumentID  string
	InstrumentURL string
	Quantity      decimal.Decimal
}

func (p Position) Held() bool { return p.Quantity.IsPositive() }
