package models

import "github.com/shopspring/decimal"

type OrderSide string

const (
	OrderSideBuy  OrderSide = "buy"
	OrderSideSell OrderSide = "sell"
)

type OrderType string

const OrderTypeMarket OrderType = "market"

type OrderTrigger string

const OrderTriggerImmediate OrderTrigger = "immediate"

type TimeInForce string

const TimeInForceGTC TimeInForce = "gtc"

// Order is submitted once and never tracked afterwards.
type Order struct {
	AccountURL    string
	InstrumentURL string
	Symbol        string
	Quantity      decimal.Decimal
	Side          OrderSide
	Type          OrderType
	Trigger       OrderTrigger
	TimeInForce   TimeInForce
	// Price is only sent with buys.
	Price decimal.Decimal
}

// NewMarketOrder fills in the fixed market/immediate/gtc fields.
func NewMarketOrder(acc Account, inst Instrument, side OrderSide, qty decimal.Decimal) Order {
	return Order{
		AccountURL:    acc.URL,
		InstrumentURL: inst.URL,
		Symbol:        inst.Symbol,
		Quantity:      qty,
		Side:          side,
		Type:          OrderTypeMarket,
		Trigger:       OrderTriggerImmediate,
		TimeInForce:   TimeInForceGTC,
	}
}
