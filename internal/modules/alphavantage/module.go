package alphavantage

import (
	"equity_trader/internal/modules/alphavantage/service"
	"equity_trader/internal/modules/config"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("alphavantage",
		fx.Provide(
			func(cfg *config.Config) *service.Client {
				return service.NewClient(service.Config{
					BaseURL: cfg.AlphaVantage.BaseURL,
					APIKey:  cfg.AlphaVantage.APIKey,
					Timeout: cfg.AlphaVantage.Timeout,
				})
			},
		),
	)
}
