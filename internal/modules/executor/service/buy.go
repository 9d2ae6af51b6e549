package service

import (
	"context"
	"fmt"

	"equity_trader/internal/models"
	"equity_trader/pkg/tracing"

	"github.com/opentracing/opentracing-go"
	"go.uber.org/zap"
)

// BuyInto spends the configured share of buying power on whole units of symbol,
// unless a position is already open.
func (e *Executor) BuyInto(ctx context.Context, symbol string) (outcome models.Outcome, err error) {
	span, ctx := tracing.StartSpan(ctx, "executor.buy_into", opentracing.Tags{"symbol": symbol})
	defer func() {
		tracing.Finish(span, err)
		if err != nil {
			err = fmt.Errorf("Executor.BuyInto %s: %w", symbol, err)
		}
	}()

	acc, err := e.broker.Account(ctx)
	if err != nil {
		return "", err
	}
	budget := e.buyingPower(acc).Mul(e.allocation).Round(2)

	price, err := e.broker.LastTradePrice(ctx, symbol)
	if err != nil {
		return "", err
	}
	if !price.IsPositive() {
		return "", fmt.Errorf("no usable last trade price: %s", price)
	}

	log := e.log.With(
		zap.String("symbol", symbol),
		zap.String("budget", budget.StringFixed(2)),
		zap.String("price", price.String()),
	)

	if price.GreaterThan(budget) {
		log.Info("skipping buy, not enough buying power")
		return models.OutcomeInsufficientFunds, nil
	}

	inst, err := e.broker.Instrument(ctx, symbol)
	if err != nil {
		return "", err
	}
	pos, err := e.broker.Position(ctx, acc, inst)
	if err != nil {
		return "", err
	}
	if pos.Held() {
		log.Info("skipping buy, position already open", zap.String("held", pos.Quantity.String()))
		return models.OutcomeAlreadyHeld, nil
	}

	qty := budget.Div(price).Floor()
	if !qty.IsPositive() {
		return models.OutcomeInsufficientFunds, nil
	}

	if inst.URL == "" {
		inst.URL = pos.InstrumentURL
	}
	order := models.NewMarketOrder(acc, inst, models.OrderSideBuy, qty)
	order.Symbol = symbol
	order.Price = price.Round(2)

	return e.submit(ctx, order)
}
