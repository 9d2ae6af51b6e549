package executor

import (
	"equity_trader/internal/modules/config"
	"equity_trader/internal/modules/executor/service"
	robinhood "equity_trader/internal/modules/robinhood/service"
	"equity_trader/internal/notify"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

func Module() fx.Option {
	return fx.Module("executor",
		fx.Provide(
			func(cfg *config.Config, log *zap.Logger) notify.Notifier {
				return notify.New(cfg.Telegram.Token, cfg.Telegram.ChatID, log)
			},
			func(cfg *config.Config, rh *robinhood.Client, n notify.Notifier, log *zap.Logger) (*service.Executor, error) {
				return service.NewExecutor(service.Config{
					Allocation: cfg.Executor.Allocation,
					TestCash:   cfg.Executor.TestCash,
				}, rh, n, log)
			},
		),
	)
}
