package main

import (
	"context"

	"equity_trader/internal/modules/alphavantage"
	"equity_trader/internal/modules/config"
	"equity_trader/internal/modules/logging"
	"equity_trader/internal/modules/postgres"
	"equity_trader/internal/modules/publisher"
	"equity_trader/internal/modules/signaler"
	"equity_trader/internal/modules/tracing"

	"go.uber.org/fx"
)

const serviceName = "signaler"

func main() {
	fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
		),
		config.Module(config.RoleSignaler),
		logging.Module(serviceName),
		tracing.Module(serviceName),
		postgres.Module(),
		alphavantage.Module(),
		publisher.Module(),
		signaler.Module(),
	).Run()
}
