package robinhood

import (
	"equity_trader/internal/modules/config"
	"equity_trader/internal/modules/robinhood/service"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

func Module() fx.Option {
	return fx.Module("robinhood",
		fx.Provide(
			func(cfg *config.Config, log *zap.Logger) *service.Client {
				return service.NewClient(service.Config{
					BaseURL: cfg.Robinhood.BaseURL,
					Token:   cfg.Robinhood.Token,
					Timeout: cfg.Robinhood.Timeout,
					Log:     log,
				})
			},
		),
	)
}
