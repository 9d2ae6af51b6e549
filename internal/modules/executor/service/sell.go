package service

import (
	"context"
	"fmt"

	"equity_trader/internal/models"
	"equity_trader/pkg/tracing"

	"github.com/opentracing/opentracing-go"
	"go.uber.org/zap"
)

// SellOff closes the whole position in symbol, if there is one.
func (e *Executor) SellOff(ctx context.Context, symbol string) (outcome models.Outcome, err error) {
	span, ctx := tracing.StartSpan(ctx, "executor.sell_off", opentracing.Tags{"symbol": symbol})
	defer func() {
		tracing.Finish(span, err)
		if err != nil {
			err = fmt.Errorf("Executor.SellOff %s: %w", symbol, err)
		}
	}()

	acc, err := e.broker.Account(ctx)
	if err != nil {
		return "", err
	}
	inst, err := e.broker.Instrument(ctx, symbol)
	if err != nil {
		return "", err
	}
	pos, err := e.broker.Position(ctx, acc, inst)
	if err != nil {
		return "", err
	}

	if !pos.Held() {
		e.log.Info("skipping sell, nothing held", zap.String("symbol", symbol))
		return models.OutcomeNothingHeld, nil
	}

	if pos.InstrumentURL != "" {
		inst.URL = pos.InstrumentURL
	}
	order := models.NewMarketOrder(acc, inst, models.OrderSideSell, pos.Quantity)
	order.Symbol = symbol

	return e.submit(ctx, order)
}
