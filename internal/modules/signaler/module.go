package signaler

import (
	"context"
	"errors"
	"sync"
	"time"

	alphavantage "equity_trader/internal/modules/alphavantage/service"
	"equity_trader/internal/modules/config"
	publisher "equity_trader/internal/modules/publisher/service"
	"equity_trader/internal/modules/signaler/service"
	"equity_trader/internal/modules/signaler/service/pg"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Runner drives sweeps: once and exit, or on a ticker when an interval is configured.
type Runner struct {
	evaluator  *service.Evaluator
	symbols    []string
	interval   time.Duration
	shutdowner fx.Shutdowner
	log        *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewRunner(cfg *config.Config, ev *service.Evaluator, sd fx.Shutdowner, log *zap.Logger) *Runner {
	return &Runner{
		evaluator:  ev,
		symbols:    cfg.Signaler.Symbols,
		interval:   cfg.Signaler.Interval,
		shutdowner: sd,
		log:        log.Named("signaler"),
	}
}

func (r *Runner) Start(_ context.Context) error {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if r.interval <= 0 {
			r.once(ctx)
			return
		}
		r.loop(ctx)
	}()
	return nil
}

func (r *Runner) Stop(_ context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
	return nil
}

func (r *Runner) once(ctx context.Context) {
	report, err := r.evaluator.Sweep(ctx, r.symbols)

	code := 0
	if err != nil || report.AllFailed() {
		code = 1
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		r.log.Error("sweep aborted", zap.Error(err))
	}
	if err := r.shutdowner.Shutdown(fx.ExitCode(code)); err != nil {
		r.log.Error("shutdown", zap.Error(err))
	}
}

func (r *Runner) loop(ctx context.Context) {
	r.log.Info("sweeping on interval", zap.Duration("interval", r.interval), zap.Strings("symbols", r.symbols))

	t := time.NewTicker(r.interval)
	defer t.Stop()

	for {
		if _, err := r.evaluator.Sweep(ctx, r.symbols); err != nil && !errors.Is(err, context.Canceled) {
			r.log.Warn("sweep skipped", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

func Module() fx.Option {
	return fx.Module("signaler",
		fx.Provide(
			pg.NewEquity, // func(db.TxManager) *pg.Equity
			func(store *pg.Equity, av *alphavantage.Client, pub *publisher.Kafka, log *zap.Logger) *service.Evaluator {
				return service.NewEvaluator(store, av, pub, log)
			},
			NewRunner,
		),
		fx.Invoke(
			func(lc fx.Lifecycle, r *Runner) {
				lc.Append(fx.Hook{
					OnStart: r.Start,
					OnStop:  r.Stop,
				})
			},
		),
	)
}
