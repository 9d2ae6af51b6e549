package service

import (
	"context"
	"errors"
	"time"

	"equity_trader/internal/helper"

	"go.uber.org/zap"
)

var ErrSweepInProgress = errors.New("sweep already in progress")

type SweepReport struct {
	Evaluated int
	Changed   int
	Failed    int
	Duration  time.Duration
}

// AllFailed is true when at least one symbol ran and none succeeded.
func (r SweepReport) AllFailed() bool {
	return r.Evaluated > 0 && r.Failed == r.Evaluated
}

// Sweep evaluates symbols one after another. A failing symbol is logged and skipped.
// Concurrent calls return ErrSweepInProgress instead of overlapping.
func (e *Evaluator) Sweep(ctx context.Context, symbols []string) (SweepReport, error) {
	if !e.sweeping.CompareAndSwap(false, true) {
		return SweepReport{}, ErrSweepInProgress
	}
	defer e.sweeping.Store(false)

	started := e.now()
	var report SweepReport

	for _, symbol := range helper.UniqueSymbols(symbols) {
		if err := ctx.Err(); err != nil {
			report.Duration = e.now().Sub(started)
			return report, err
		}

		report.Evaluated++
		changed, err := e.evaluate(ctx, symbol)
		if changed {
			report.Changed++
		}
		if err != nil {
			report.Failed++
			e.log.Error("evaluate failed", zap.String("symbol", symbol), zap.Error(err))
		}
	}

	report.Duration = e.now().Sub(started)
	e.log.Info("sweep finished",
		zap.Int("evaluated", report.Evaluated),
		zap.Int("changed", report.Changed),
		zap.Int("failed", report.Failed),
		zap.Duration("took", report.Duration),
	)
	return report, nil
}
