package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"equity_trader/internal/models"
	"equity_trader/pkg/tracing"

	"github.com/opentracing/opentracing-go"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// errRedeliver asks the loop to drop the reader so the uncommitted message comes back.
var errRedeliver = errors.New("message left uncommitted for redelivery")

type Executor interface {
	BuyInto(ctx context.Context, symbol string) (models.Outcome, error)
	SellOff(ctx context.Context, symbol string) (models.Outcome, error)
}

type HealthState interface {
	SetSubscribed(v bool)
	TouchMessage(t time.Time)
	IncProcessed()
	IncFailed()
	IncSkipped()
}

type Config struct {
	RetryDelay    time.Duration
	MaxAge        time.Duration
	MaxDeliveries int
}

func (c Config) withDefaults() Config {
	if c.RetryDelay <= 0 {
		c.RetryDelay = 5 * time.Second
	}
	if c.MaxAge <= 0 {
		c.MaxAge = 24 * time.Hour
	}
	if c.MaxDeliveries <= 0 {
		c.MaxDeliveries = 3
	}
	return c
}

type deliveryKey struct {
	partition int
	offset    int64
}

// Consumer feeds signal events to the executor one at a time.
type Consumer struct {
	cfg        Config
	subscriber Subscriber
	exec       Executor
	state      HealthState
	log        *zap.Logger
	now        func() time.Time

	deliveries map[deliveryKey]int
}

func NewConsumer(cfg Config, sub Subscriber, exec Executor, state HealthState, log *zap.Logger) *Consumer {
	return &Consumer{
		cfg:        cfg.withDefaults(),
		subscriber: sub,
		exec:       exec,
		state:      state,
		log:        log.Named("consumer"),
		now:        time.Now,
		deliveries: make(map[deliveryKey]int),
	}
}

// Run consumes until ctx is cancelled. Broker trouble never ends it.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		r, err := c.subscribe(ctx)
		if err != nil {
			return nil
		}

		err = c.consume(ctx, r)
		if cErr := r.Close(); cErr != nil {
			c.log.Warn("close reader", zap.Error(cErr))
		}
		c.state.SetSubscribed(false)

		if ctx.Err() != nil {
			return nil
		}
		if errors.Is(err, errRedeliver) {
			c.log.Info("resubscribing to redeliver", zap.Duration("delay", c.cfg.RetryDelay))
		} else {
			c.log.Error("reader failed, resubscribing", zap.Error(err))
		}
		if !sleep(ctx, c.cfg.RetryDelay) {
			return nil
		}
	}
}

func (c *Consumer) consume(ctx context.Context, r MessageReader) error {
	for {
		m, err := r.FetchMessage(ctx)
		if err != nil {
			return fmt.Errorf("Consumer.consume fetch: %w", err)
		}
		c.state.TouchMessage(c.now())

		if !c.handle(ctx, m) {
			return errRedeliver
		}

		if err := r.CommitMessages(ctx, m); err != nil {
			return fmt.Errorf("Consumer.consume commit offset %d: %w", m.Offset, err)
		}
	}
}

// handle processes one message and reports whether it may be committed.
func (c *Consumer) handle(ctx context.Context, m kafka.Message) (commit bool) {
	log := c.log.With(
		zap.ByteString("key", m.Key),
		zap.Int("partition", m.Partition),
		zap.Int64("offset", m.Offset),
	)

	span, ctx := tracing.StartSpan(ctx, "consumer.handle", opentracing.Tags{
		"key":    string(m.Key),
		"offset": m.Offset,
	})
	var err error
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
			log.Error("panic while handling message", zap.Any("panic", p), zap.Stack("stack"))
			commit = c.failed(log, m)
		}
		tracing.Finish(span, err)
	}()

	ev, err := models.DecodeSignalEvent(m.Key, m.Value)
	switch {
	case errors.Is(err, models.ErrUnknownSignal):
		log.Warn("unknown signal, ignoring", zap.ByteString("value", m.Value))
		c.state.IncSkipped()
		return true
	case err != nil:
		log.Error("undecodable message, skipping", zap.ByteString("value", m.Value), zap.Error(err))
		c.state.IncSkipped()
		return true
	}

	log = log.With(zap.String("symbol", ev.Symbol), zap.Stringer("signal", ev.Signal))

	if age := ev.Age(c.now()); age > c.cfg.MaxAge {
		log.Info("stale signal, skipping", zap.Duration("age", age))
		c.state.IncSkipped()
		return true
	}

	var outcome models.Outcome
	outcome, err = c.dispatch(ctx, ev)
	if err != nil {
		log.Error("dispatch failed", zap.Error(err))
		return c.failed(log, m)
	}

	delete(c.deliveries, deliveryKey{m.Partition, m.Offset})
	c.state.IncProcessed()
	log.Info("signal handled", zap.String("outcome", string(outcome)), zap.Bool("traded", outcome.Traded()))
	return true
}

func (c *Consumer) dispatch(ctx context.Context, ev models.SignalChangeEvent) (models.Outcome, error) {
	switch ev.Signal {
	case models.SignalBuy:
		return c.exec.BuyInto(ctx, ev.Symbol)
	case models.SignalSell:
		return c.exec.SellOff(ctx, ev.Symbol)
	}
	return "", nil
}

// failed counts a delivery and decides between redelivery and giving up.
func (c *Consumer) failed(log *zap.Logger, m kafka.Message) (commit bool) {
	c.state.IncFailed()

	key := deliveryKey{m.Partition, m.Offset}
	c.deliveries[key]++
	n := c.deliveries[key]

	if n >= c.cfg.MaxDeliveries {
		delete(c.deliveries, key)
		log.Error("giving up on message", zap.Int("deliveries", n))
		return true
	}
	log.Warn("message will be redelivered", zap.Int("deliveries", n), zap.Int("max", c.cfg.MaxDeliveries))
	return false
}
