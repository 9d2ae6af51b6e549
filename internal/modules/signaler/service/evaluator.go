package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"equity_trader/internal/helper"
	"equity_trader/internal/models"
	"equity_trader/pkg/tracing"

	"github.com/opentracing/opentracing-go"
	"go.uber.org/zap"
)

var ErrEmptySymbol = errors.New("empty symbol")

type EquityStore interface {
	GetOrCreate(ctx context.Context, symbol string) (models.Equity, error)
	UpdateSignal(ctx context.Context, symbol string, from, to models.Signal) (bool, error)
}

type IndicatorClient interface {
	Reading(ctx context.Context, symbol string) (models.IndicatorReading, error)
}

type Publisher interface {
	Publish(ctx context.Context, event models.SignalChangeEvent) error
}

// Evaluator turns indicator readings into persisted signals and change events.
type Evaluator struct {
	store     EquityStore
	indicator IndicatorClient
	publisher Publisher
	log       *zap.Logger
	now       func() time.Time

	sweeping atomic.Bool
}

func NewEvaluator(store EquityStore, indicator IndicatorClient, publisher Publisher, log *zap.Logger) *Evaluator {
	return &Evaluator{
		store:     store,
		indicator: indicator,
		publisher: publisher,
		log:       log.Named("evaluator"),
		now:       time.Now,
	}
}

// Evaluate refreshes the signal of one symbol and publishes an event if it changed.
func (e *Evaluator) Evaluate(ctx context.Context, symbol string) error {
	_, err := e.evaluate(ctx, symbol)
	return err
}

func (e *Evaluator) evaluate(ctx context.Context, symbol string) (changed bool, err error) {
	symbol = helper.NormSymbol(symbol)
	if symbol == "" {
		return false, fmt.Errorf("Evaluator.Evaluate: %w", ErrEmptySymbol)
	}

	span, ctx := tracing.StartSpan(ctx, "signaler.evaluate", opentracing.Tags{"symbol": symbol})
	defer func() {
		tracing.Finish(span, err)
		if err != nil {
			err = fmt.Errorf("Evaluator.Evaluate %s: %w", symbol, err)
		}
	}()

	equity, err := e.store.GetOrCreate(ctx, symbol)
	if err != nil {
		return false, err
	}

	reading, err := e.indicator.Reading(ctx, symbol)
	if err != nil {
		return false, err
	}

	target := models.SignalFor(reading)
	span.SetTag("signal", target.String())

	log := e.log.With(
		zap.String("symbol", symbol),
		zap.Stringer("stored", equity.Signal),
		zap.Stringer("target", target),
		zap.Float64("fast", reading.Fast),
		zap.Float64("baseline", reading.Baseline),
	)

	if target == equity.Signal {
		log.Debug("signal unchanged")
		return false, nil
	}

	updated, err := e.store.UpdateSignal(ctx, symbol, equity.Signal, target)
	if err != nil {
		return false, err
	}
	if !updated {
		log.Info("signal moved concurrently, not publishing")
		return false, nil
	}

	event := models.SignalChangeEvent{
		Symbol:    symbol,
		Signal:    target,
		EmittedAt: e.now(),
	}
	if err := e.publisher.Publish(ctx, event); err != nil {
		log.Error("signal stored but event not published", zap.Error(err))
		return true, err
	}

	log.Info("signal changed")
	return true, nil
}
