package service

import (
	"context"
	"fmt"
	"strings"

	"equity_trader/internal/models"
	"equity_trader/internal/notify"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Brokerage interface {
	Account(ctx context.Context) (models.Account, error)
	Instrument(ctx context.Context, symbol string) (models.Instrument, error)
	Position(ctx context.Context, acc models.Account, inst models.Instrument) (models.Position, error)
	LastTradePrice(ctx context.Context, symbol string) (decimal.Decimal, error)
	PlaceOrder(ctx context.Context, order models.Order) (string, error)
}

type Config struct {
	// Allocation is the share of buying power spent on one buy.
	Allocation float64
	// TestCash, when set, replaces buying power and suppresses order submission.
	TestCash string
}

// Executor turns signals into market orders. It reads brokerage state on every call.
type Executor struct {
	broker     Brokerage
	notifier   notify.Notifier
	allocation decimal.Decimal
	dryRun     bool
	testCash   decimal.Decimal
	log        *zap.Logger
}

func NewExecutor(cfg Config, broker Brokerage, notifier notify.Notifier, log *zap.Logger) (*Executor, error) {
	alloc := cfg.Allocation
	if alloc == 0 {
		alloc = 0.30
	}
	if alloc < 0 || alloc > 1 {
		return nil, fmt.Errorf("NewExecutor: allocation %v out of range", alloc)
	}

	e := &Executor{
		broker:     broker,
		notifier:   notifier,
		allocation: decimal.NewFromFloat(alloc),
		log:        log.Named("executor"),
	}

	if raw := strings.TrimSpace(cfg.TestCash); raw != "" {
		cash, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("NewExecutor: test cash %q: %w", raw, err)
		}
		e.dryRun = true
		e.testCash = cash
		e.log.Warn("dry run: orders are logged, not submitted", zap.String("test_cash", cash.String()))
	}
	return e, nil
}

func (e *Executor) DryRun() bool { return e.dryRun }

func (e *Executor) buyingPower(acc models.Account) decimal.Decimal {
	if e.dryRun {
		return e.testCash
	}
	return acc.BuyingPower
}

func (e *Executor) submit(ctx context.Context, order models.Order) (models.Outcome, error) {
	log := e.log.With(
		zap.String("symbol", order.Symbol),
		zap.String("side", string(order.Side)),
		zap.String("quantity", order.Quantity.String()),
		zap.String("price", order.Price.StringFixed(2)),
	)

	if e.dryRun {
		log.Info("dry run order")
		e.notifier.Sendf("[dry run] %s", describe(order))
		return models.OutcomeDryRun, nil
	}

	id, err := e.broker.PlaceOrder(ctx, order)
	if err != nil {
		return "", err
	}

	log.Info("order submitted", zap.String("order_id", id))
	e.notifier.Sendf("%s (order %s)", describe(order), id)
	return models.OutcomeSubmitted, nil
}

func describe(o models.Order) string {
	s := fmt.Sprintf("%s %s x %s", strings.ToUpper(string(o.Side)), o.Quantity.String(), o.Symbol)
	if !o.Price.IsZero() {
		s += " @ " + o.Price.StringFixed(2)
	}
	return s
}
